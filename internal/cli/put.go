package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/statements/internal/sqlite"
	"github.com/mesh-intelligence/statements/pkg/types"
)

// putFlags are the condition flags shared by put and route put.
type putFlags struct {
	values      string
	ifExists    bool
	ifNotExists bool
	ifExprs     []string
}

func (f *putFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.values, "values", "{}", "value columns as a JSON object")
	cmd.Flags().BoolVar(&f.ifExists, "if-exists", false, "write only if the row exists")
	cmd.Flags().BoolVar(&f.ifNotExists, "if-not-exists", false, "write only if the row does not exist")
	cmd.Flags().StringArrayVar(&f.ifExprs, "if", nil, "write only if column<op>value holds (repeatable)")
}

// condition maps the flags to a MutationCondition; at most one kind may be
// chosen.
func (f *putFlags) condition() (types.MutationCondition, error) {
	chosen := 0
	for _, set := range []bool{f.ifExists, f.ifNotExists, len(f.ifExprs) > 0} {
		if set {
			chosen++
		}
	}
	if chosen > 1 {
		return nil, userError(errors.New("--if-exists, --if-not-exists and --if are mutually exclusive"))
	}
	switch {
	case f.ifExists:
		return types.PutIfExists{}, nil
	case f.ifNotExists:
		return types.PutIfNotExists{}, nil
	case len(f.ifExprs) > 0:
		exprs, err := parseExpressions(f.ifExprs)
		if err != nil {
			return nil, err
		}
		return types.PutIf{Expressions: exprs}, nil
	}
	return nil, nil
}

// build assembles the Put for loc.
func (f *putFlags) build(loc types.Location) (*types.Put, error) {
	values, err := types.DecodeValues([]byte(f.values))
	if err != nil {
		return nil, userError(fmt.Errorf("--values: %w", err))
	}
	cond, err := f.condition()
	if err != nil {
		return nil, err
	}
	return &types.Put{Location: loc, Values: values, Condition: cond}, nil
}

func newPutCmd(a *app) *cobra.Command {
	var flags putFlags

	cmd := &cobra.Command{
		Use:   "put <namespace> <table> <partition-key> [clustering-key]",
		Short: "Write value columns to one row",
		Long: `Put merges value columns into a row. An unconditioned put creates the row
if needed. A JSON null removes that column.

Example:
  stmt put shop orders customer=c1 order_id=7 --values '{"item":"pen","qty":3}'
  stmt put shop orders customer=c1 order_id=7 --values '{"qty":4}' --if 'qty=3'`,
		Args: locationArgsRange,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := locationArgs(args)
			if err != nil {
				return err
			}
			put, err := flags.build(loc)
			if err != nil {
				return err
			}
			return a.withBackend(func(b *sqlite.Backend) error {
				if err := b.Put(context.Background(), put); err != nil {
					return err
				}
				if !a.flags.jsonMode {
					fmt.Fprintf(cmd.OutOrStdout(), "Put %s/%s %s %s\n", loc.Namespace, loc.Table, loc.Partition, loc.Clustering)
				}
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}
