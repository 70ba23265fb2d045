package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mesh-intelligence/statements/internal/router"
	"github.com/mesh-intelligence/statements/pkg/types"
)

const updateRecord = "UPDATE records SET column_values = json_patch(column_values, ?), updated_at = ? WHERE " + whereRow

// UpdateHandler runs conditional Puts (PutIf, PutIfExists) as UPDATE
// statements guarded by the condition. A Put whose condition does not hold
// changes nothing and fails with ErrConditionNotSatisfied.
type UpdateHandler struct {
	now func() time.Time
}

// NewUpdateHandler returns an UpdateHandler stamping rows with the wall clock.
func NewUpdateHandler() *UpdateHandler {
	return &UpdateHandler{now: time.Now}
}

// UpdateStatement builds the guarded UPDATE for put.
func (h *UpdateHandler) UpdateStatement(put *types.Put) (router.Statement, error) {
	if put == nil {
		return router.Statement{}, fmt.Errorf("%w: nil put", types.ErrInvalidOperation)
	}
	if err := checkCondition(put.Condition); err != nil {
		return router.Statement{}, err
	}
	var exprs []types.Expression
	switch c := put.Condition.(type) {
	case types.PutIfExists, *types.PutIfExists:
	case types.PutIf:
		exprs = c.Expressions
	case *types.PutIf:
		exprs = c.Expressions
	case nil:
		return router.Statement{}, fmt.Errorf("%w: update requires a condition", types.ErrInvalidCondition)
	default:
		return router.Statement{}, fmt.Errorf("%w: update cannot apply %s", types.ErrInvalidCondition, c.Kind())
	}

	loc, err := resolveLocation(put.Location)
	if err != nil {
		return router.Statement{}, err
	}
	values, err := encodeValues(put.Values)
	if err != nil {
		return router.Statement{}, err
	}
	clause, exprArgs, err := expressionClause(exprs)
	if err != nil {
		return router.Statement{}, err
	}

	args := append([]any{values, timestamp(h.now())}, loc.rowArgs()...)
	return router.Statement{SQL: updateRecord + clause, Args: append(args, exprArgs...)}, nil
}

// Handle executes the UPDATE.
func (h *UpdateHandler) Handle(ctx context.Context, ex router.Executor, op types.Operation) ([]types.Result, error) {
	put, ok := op.(*types.Put)
	if !ok {
		return nil, fmt.Errorf("%w: update handles put, got %T", types.ErrInvalidOperation, op)
	}
	stmt, err := h.UpdateStatement(put)
	if err != nil {
		return nil, err
	}
	res, err := ex.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	return nil, requireAffected(res)
}
