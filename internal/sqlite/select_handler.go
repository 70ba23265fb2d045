package sqlite

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/statements/internal/router"
	"github.com/mesh-intelligence/statements/pkg/types"
)

const selectColumns = "SELECT partition_json, clustering_json, column_values FROM records WHERE "

// SelectHandler runs Get and Scan operations as SELECT statements.
type SelectHandler struct{}

// NewSelectHandler returns a SelectHandler.
func NewSelectHandler() *SelectHandler {
	return &SelectHandler{}
}

// SelectStatement builds the SELECT for a Get or Scan.
func (h *SelectHandler) SelectStatement(op types.Operation) (router.Statement, error) {
	switch o := op.(type) {
	case *types.Get:
		if o == nil {
			break
		}
		if err := validateProjections(o.Projections); err != nil {
			return router.Statement{}, err
		}
		loc, err := resolveLocation(o.Location)
		if err != nil {
			return router.Statement{}, err
		}
		return router.Statement{SQL: selectColumns + whereRow, Args: loc.rowArgs()}, nil
	case *types.Scan:
		if o == nil {
			break
		}
		return h.scanStatement(o)
	}
	return router.Statement{}, fmt.Errorf("%w: select handles get and scan, got %T", types.ErrInvalidOperation, op)
}

// scanStatement builds a range query over one partition. The clustering key
// of the Scan's Location is ignored; Start and End bound the range. An empty
// Start or End leaves that side of the range open.
func (h *SelectHandler) scanStatement(s *types.Scan) (router.Statement, error) {
	if err := validateProjections(s.Projections); err != nil {
		return router.Statement{}, err
	}
	if s.Limit < 0 {
		return router.Statement{}, fmt.Errorf("%w: negative scan limit", types.ErrInvalidOperation)
	}
	loc, err := resolveLocation(s.Location)
	if err != nil {
		return router.Statement{}, err
	}

	query := selectColumns + wherePartition
	args := loc.partitionArgs()

	if len(s.Start) > 0 {
		start, err := s.Start.Encode()
		if err != nil {
			return router.Statement{}, err
		}
		if !s.StartInclusive {
			start += rangeSentinel
		}
		query += " AND clustering_key >= ?"
		args = append(args, start)
	}
	if len(s.End) > 0 {
		end, err := s.End.Encode()
		if err != nil {
			return router.Statement{}, err
		}
		if s.EndInclusive {
			end += rangeSentinel
		}
		query += " AND clustering_key < ?"
		args = append(args, end)
	}

	if s.Ordering == types.Descending {
		query += " ORDER BY clustering_key DESC"
	} else {
		query += " ORDER BY clustering_key ASC"
	}
	if s.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, s.Limit)
	}
	return router.Statement{SQL: query, Args: args}, nil
}

// Handle runs the SELECT and returns the matching rows.
func (h *SelectHandler) Handle(ctx context.Context, ex router.Executor, op types.Operation) ([]types.Result, error) {
	stmt, err := h.SelectStatement(op)
	if err != nil {
		return nil, err
	}
	var projections []string
	switch o := op.(type) {
	case *types.Get:
		projections = o.Projections
	case *types.Scan:
		projections = o.Projections
	}
	target := op.Target()

	rows, err := ex.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	defer rows.Close()

	var results []types.Result
	for rows.Next() {
		var pkJSON, ckJSON, valuesJSON string
		if err := rows.Scan(&pkJSON, &ckJSON, &valuesJSON); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		pk, err := decodeKey(pkJSON)
		if err != nil {
			return nil, err
		}
		ck, err := decodeKey(ckJSON)
		if err != nil {
			return nil, err
		}
		values, err := decodeValues(valuesJSON, projections)
		if err != nil {
			return nil, err
		}
		results = append(results, types.Result{
			Namespace:  target.Namespace,
			Table:      target.Table,
			Partition:  pk,
			Clustering: ck,
			Values:     values,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	return results, nil
}
