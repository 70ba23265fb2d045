package router

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/statements/pkg/types"
)

// Role names one of the four statement classes a Router dispatches to.
type Role int

// Roles, in the order the Router reports them.
const (
	RoleSelect Role = iota + 1
	RoleInsert
	RoleUpdate
	RoleDelete
)

// roles lists every Role in reporting order.
var roles = []Role{RoleSelect, RoleInsert, RoleUpdate, RoleDelete}

func (r Role) String() string {
	switch r {
	case RoleSelect:
		return "select"
	case RoleInsert:
		return "insert"
	case RoleUpdate:
		return "update"
	case RoleDelete:
		return "delete"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Executor runs statements. *sql.DB and *sql.Tx both satisfy it, so the same
// handler serves single operations and transactional batches.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Statement is a storage-engine statement with its bound arguments.
type Statement struct {
	SQL  string
	Args []any
}

// Handler translates an operation into a statement and executes it.
// Handlers that do not read return a nil result slice.
type Handler interface {
	Handle(ctx context.Context, ex Executor, op types.Operation) ([]types.Result, error)
}

// SelectHandler executes Get and Scan operations.
type SelectHandler interface {
	Handler
	SelectStatement(op types.Operation) (Statement, error)
}

// InsertHandler executes Puts that do not require update semantics.
type InsertHandler interface {
	Handler
	InsertStatement(put *types.Put) (Statement, error)
}

// UpdateHandler executes Puts guarded by PutIf or PutIfExists.
type UpdateHandler interface {
	Handler
	UpdateStatement(put *types.Put) (Statement, error)
}

// DeleteHandler executes Delete operations.
type DeleteHandler interface {
	Handler
	DeleteStatement(del *types.Delete) (Statement, error)
}
