package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mesh-intelligence/statements/internal/router"
	"github.com/mesh-intelligence/statements/pkg/types"
)

const insertRecord = `INSERT INTO records
    (namespace, table_name, partition_key, clustering_key, partition_json, clustering_json, column_values, updated_at)
VALUES (?, ?, ?, ?, ?, ?, json_patch('{}', ?), ?)
ON CONFLICT (namespace, table_name, partition_key, clustering_key) DO `

const (
	onConflictMerge   = "UPDATE SET column_values = json_patch(records.column_values, ?), updated_at = excluded.updated_at"
	onConflictNothing = "NOTHING"
)

// InsertHandler runs Puts as INSERT statements. Without a condition the
// insert merges into an existing row. With PutIfNotExists it leaves an
// existing row untouched and reports ErrConditionNotSatisfied.
//
// Any other condition is rejected with ErrInvalidCondition rather than being
// executed as an unconditioned write.
type InsertHandler struct {
	now func() time.Time
}

// NewInsertHandler returns an InsertHandler stamping rows with the wall clock.
func NewInsertHandler() *InsertHandler {
	return &InsertHandler{now: time.Now}
}

// InsertStatement builds the INSERT for put.
func (h *InsertHandler) InsertStatement(put *types.Put) (router.Statement, error) {
	if put == nil {
		return router.Statement{}, fmt.Errorf("%w: nil put", types.ErrInvalidOperation)
	}
	if err := checkCondition(put.Condition); err != nil {
		return router.Statement{}, err
	}
	conflict := onConflictMerge
	switch put.Condition.(type) {
	case nil:
	case types.PutIfNotExists, *types.PutIfNotExists:
		conflict = onConflictNothing
	default:
		return router.Statement{}, fmt.Errorf("%w: insert cannot apply %s", types.ErrInvalidCondition, put.Condition.Kind())
	}

	loc, err := resolveLocation(put.Location)
	if err != nil {
		return router.Statement{}, err
	}
	values, err := encodeValues(put.Values)
	if err != nil {
		return router.Statement{}, err
	}
	args := []any{
		loc.namespace, loc.table, loc.partition.encoded, loc.clustering.encoded,
		loc.partition.json, loc.clustering.json, values, timestamp(h.now()),
	}
	if conflict == onConflictMerge {
		args = append(args, values)
	}
	return router.Statement{SQL: insertRecord + conflict, Args: args}, nil
}

// Handle executes the INSERT.
func (h *InsertHandler) Handle(ctx context.Context, ex router.Executor, op types.Operation) ([]types.Result, error) {
	put, ok := op.(*types.Put)
	if !ok {
		return nil, fmt.Errorf("%w: insert handles put, got %T", types.ErrInvalidOperation, op)
	}
	stmt, err := h.InsertStatement(put)
	if err != nil {
		return nil, err
	}
	res, err := ex.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}
	if put.Condition != nil {
		if err := requireAffected(res); err != nil {
			return nil, err
		}
	}
	return nil, nil
}
