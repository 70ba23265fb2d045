package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/statements/internal/sqlite"
	"github.com/mesh-intelligence/statements/pkg/types"
)

// deleteFlags are the condition flags shared by delete and route delete.
type deleteFlags struct {
	ifExists bool
	ifExprs  []string
}

func (f *deleteFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.ifExists, "if-exists", false, "fail if the row does not exist")
	cmd.Flags().StringArrayVar(&f.ifExprs, "if", nil, "delete only if column<op>value holds (repeatable)")
}

func (f *deleteFlags) build(loc types.Location) (*types.Delete, error) {
	del := &types.Delete{Location: loc}
	switch {
	case f.ifExists && len(f.ifExprs) > 0:
		return nil, userError(errors.New("--if-exists and --if are mutually exclusive"))
	case f.ifExists:
		del.Condition = types.DeleteIfExists{}
	case len(f.ifExprs) > 0:
		exprs, err := parseExpressions(f.ifExprs)
		if err != nil {
			return nil, err
		}
		del.Condition = types.DeleteIf{Expressions: exprs}
	}
	return del, nil
}

func newDeleteCmd(a *app) *cobra.Command {
	var flags deleteFlags

	cmd := &cobra.Command{
		Use:   "delete <namespace> <table> <partition-key> [clustering-key]",
		Short: "Remove one row",
		Long: `Delete removes the row addressed by its keys. An unconditioned delete of a
missing row succeeds.

Example:
  stmt delete shop orders customer=c1 order_id=7 --if-exists`,
		Args: locationArgsRange,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := locationArgs(args)
			if err != nil {
				return err
			}
			del, err := flags.build(loc)
			if err != nil {
				return err
			}
			return a.withBackend(func(b *sqlite.Backend) error {
				if err := b.Delete(context.Background(), del); err != nil {
					return err
				}
				if !a.flags.jsonMode {
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s/%s %s %s\n", loc.Namespace, loc.Table, loc.Partition, loc.Clustering)
				}
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}
