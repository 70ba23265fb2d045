package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/statements/internal/router"
	"github.com/mesh-intelligence/statements/pkg/types"
)

const deleteRecord = "DELETE FROM records WHERE " + whereRow

// DeleteHandler runs Deletes. An unconditioned delete of a missing row
// succeeds; DeleteIfExists and DeleteIf fail with ErrConditionNotSatisfied
// when no row matched.
type DeleteHandler struct{}

// NewDeleteHandler returns a DeleteHandler.
func NewDeleteHandler() *DeleteHandler {
	return &DeleteHandler{}
}

// DeleteStatement builds the DELETE for del.
func (h *DeleteHandler) DeleteStatement(del *types.Delete) (router.Statement, error) {
	if del == nil {
		return router.Statement{}, fmt.Errorf("%w: nil delete", types.ErrInvalidOperation)
	}
	if err := checkCondition(del.Condition); err != nil {
		return router.Statement{}, err
	}
	var exprs []types.Expression
	switch c := del.Condition.(type) {
	case nil, types.DeleteIfExists, *types.DeleteIfExists:
	case types.DeleteIf:
		exprs = c.Expressions
	case *types.DeleteIf:
		exprs = c.Expressions
	default:
		return router.Statement{}, fmt.Errorf("%w: delete cannot apply %s", types.ErrInvalidCondition, c.Kind())
	}

	loc, err := resolveLocation(del.Location)
	if err != nil {
		return router.Statement{}, err
	}
	clause, exprArgs, err := expressionClause(exprs)
	if err != nil {
		return router.Statement{}, err
	}
	return router.Statement{SQL: deleteRecord + clause, Args: append(loc.rowArgs(), exprArgs...)}, nil
}

// Handle executes the DELETE.
func (h *DeleteHandler) Handle(ctx context.Context, ex router.Executor, op types.Operation) ([]types.Result, error) {
	del, ok := op.(*types.Delete)
	if !ok {
		return nil, fmt.Errorf("%w: delete handles delete, got %T", types.ErrInvalidOperation, op)
	}
	stmt, err := h.DeleteStatement(del)
	if err != nil {
		return nil, err
	}
	res, err := ex.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("delete: %w", err)
	}
	if del.Condition != nil {
		if err := requireAffected(res); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// requireAffected returns ErrConditionNotSatisfied when res touched no rows.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return types.ErrConditionNotSatisfied
	}
	return nil
}
