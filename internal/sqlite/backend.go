// Package sqlite implements the SQLite storage backend. Operations are routed
// through a router.Router to one of four statement handlers, each of which
// builds and executes a single class of SQL statement.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/statements/internal/router"
	"github.com/mesh-intelligence/statements/pkg/types"
)

// DatabaseFile is the name of the SQLite file created in Config.DataDir.
const DatabaseFile = "statements.db"

// Backend executes operations against a SQLite database. Attach opens the
// database and builds the router; Detach releases it. All methods are safe
// for concurrent use.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	router   *router.Router
	session  string // UUID v7 identifying this attach in logs
	logger   *slog.Logger
}

// NewBackend creates a new SQLite backend instance. The backend is not
// attached; call Attach with a Config to initialize. A nil logger uses
// slog.Default().
func NewBackend(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{logger: logger}
}

// NewRouter assembles the router over the four SQLite statement handlers.
func NewRouter() (*router.Router, error) {
	return router.NewBuilder().
		WithSelect(NewSelectHandler()).
		WithInsert(NewInsertHandler()).
		WithUpdate(NewUpdateHandler()).
		WithDelete(NewDeleteHandler()).
		Build()
}

// Attach opens (creating if needed) the database in config.DataDir, applies
// the schema and builds the statement router.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		dbPath, config.EffectiveBusyTimeout())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return err
	}

	r, err := NewRouter()
	if err != nil {
		db.Close()
		return fmt.Errorf("build router: %w", err)
	}

	b.db = db
	b.config = config
	b.router = r
	b.session = newSessionID()
	b.attached = true

	b.logger.Info("backend attached", "session", b.session, "path", dbPath)
	return nil
}

// Detach closes the database. After Detach every operation returns
// ErrDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	b.logger.Info("backend detached", "session", b.session)

	b.db = nil
	b.router = nil
	b.attached = false
	return nil
}

// Router returns the statement router built by Attach.
func (b *Backend) Router() (*router.Router, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}
	return b.router, nil
}

// Execute routes op to its handler and runs it. Reads return their rows;
// writes return nil results.
func (b *Backend) Execute(ctx context.Context, op types.Operation) ([]types.Result, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}
	return b.executeLocked(ctx, b.db, op)
}

// executeLocked routes and runs op on ex. The caller must hold b.mu.
func (b *Backend) executeLocked(ctx context.Context, ex router.Executor, op types.Operation) ([]types.Result, error) {
	h, err := b.router.Route(op)
	if err != nil {
		return nil, err
	}
	role, _ := router.Classify(op)
	target := op.Target()
	b.logger.Debug("routed operation",
		"session", b.session,
		"op", op.Kind().String(),
		"role", role.String(),
		"namespace", target.Namespace,
		"table", target.Table,
	)
	return h.Handle(ctx, ex, op)
}

// Get returns the row addressed by g, or ErrNotFound.
func (b *Backend) Get(ctx context.Context, g *types.Get) (*types.Result, error) {
	results, err := b.Execute(ctx, g)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, types.ErrNotFound
	}
	return &results[0], nil
}

// Scan returns the rows of one partition within the Scan's range.
func (b *Backend) Scan(ctx context.Context, s *types.Scan) ([]types.Result, error) {
	return b.Execute(ctx, s)
}

// Put writes p. A conditional Put whose condition does not hold returns
// ErrConditionNotSatisfied.
func (b *Backend) Put(ctx context.Context, p *types.Put) error {
	_, err := b.Execute(ctx, p)
	return err
}

// Delete removes the row addressed by d. A conditional Delete whose
// condition does not hold returns ErrConditionNotSatisfied.
func (b *Backend) Delete(ctx context.Context, d *types.Delete) error {
	_, err := b.Execute(ctx, d)
	return err
}

// Mutate applies Puts and Deletes in one transaction. The first failure rolls
// back every mutation in the batch. Reads are rejected with
// ErrInvalidOperation before anything runs.
func (b *Backend) Mutate(ctx context.Context, ops []types.Operation) error {
	for i, op := range ops {
		switch op.(type) {
		case *types.Put, *types.Delete:
		default:
			return fmt.Errorf("mutation %d: %w: %T is not a mutation", i, types.ErrInvalidOperation, op)
		}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrDetached
	}
	return b.mutateLocked(ctx, ops)
}

// mutateLocked runs ops in a transaction. The caller must hold b.mu.
func (b *Backend) mutateLocked(ctx context.Context, ops []types.Operation) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin mutation: %w", err)
	}
	defer tx.Rollback()

	for i, op := range ops {
		if _, err := b.executeLocked(ctx, tx, op); err != nil {
			return fmt.Errorf("mutation %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mutation: %w", err)
	}
	return nil
}

// newSessionID generates a UUID v7 for the attach session.
func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
