// Statement fragments shared by the four handlers.
package sqlite

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/statements/pkg/types"
)

// whereRow matches a single row by its full key.
const whereRow = "namespace = ? AND table_name = ? AND partition_key = ? AND clustering_key = ?"

// wherePartition matches every row of one partition.
const wherePartition = "namespace = ? AND table_name = ? AND partition_key = ?"

// rangeSentinel sorts after every hex digit. Appending it to an encoded key
// gives a bound that is greater than the key and all of its extensions.
const rangeSentinel = "g"

// checkCondition rejects a condition that is a nil pointer to one of the
// condition types.
func checkCondition(c types.MutationCondition) error {
	var isNil bool
	switch p := c.(type) {
	case *types.PutIf:
		isNil = p == nil
	case *types.PutIfExists:
		isNil = p == nil
	case *types.PutIfNotExists:
		isNil = p == nil
	case *types.DeleteIf:
		isNil = p == nil
	case *types.DeleteIfExists:
		isNil = p == nil
	}
	if isNil {
		return fmt.Errorf("%w: nil %T", types.ErrInvalidCondition, c)
	}
	return nil
}

// location is a validated Location with its keys encoded.
type location struct {
	namespace  string
	table      string
	partition  storedKey
	clustering storedKey
}

func resolveLocation(loc types.Location) (location, error) {
	if err := loc.Validate(); err != nil {
		return location{}, err
	}
	pk, err := encodeKey(loc.Partition)
	if err != nil {
		return location{}, err
	}
	ck, err := encodeKey(loc.Clustering)
	if err != nil {
		return location{}, err
	}
	return location{namespace: loc.Namespace, table: loc.Table, partition: pk, clustering: ck}, nil
}

// rowArgs returns the arguments for whereRow.
func (l location) rowArgs() []any {
	return []any{l.namespace, l.table, l.partition.encoded, l.clustering.encoded}
}

// partitionArgs returns the arguments for wherePartition.
func (l location) partitionArgs() []any {
	return []any{l.namespace, l.table, l.partition.encoded}
}

// expressionClause renders condition expressions as additional AND terms
// against the stored value columns. An absent column reads as NULL: it
// satisfies != against any non-nil value and = only against nil.
func expressionClause(exprs []types.Expression) (string, []any, error) {
	var sb strings.Builder
	args := make([]any, 0, len(exprs))
	for _, e := range exprs {
		if err := e.Validate(); err != nil {
			return "", nil, err
		}
		arg, err := expressionArg(e.Value)
		if err != nil {
			return "", nil, err
		}
		op := string(e.Operator)
		switch {
		case e.Operator == types.OpNE:
			op = "IS NOT"
		case e.Operator == types.OpEQ && arg == nil:
			op = "IS"
		}
		fmt.Fprintf(&sb, " AND json_extract(column_values, '$.%s') %s ?", e.Column, op)
		args = append(args, arg)
	}
	return sb.String(), args, nil
}

func validateProjections(names []string) error {
	for _, n := range names {
		if !types.ValidColumnName(n) {
			return fmt.Errorf("%w: projection %q", types.ErrInvalidColumn, n)
		}
	}
	return nil
}
