package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/statements/internal/sqlite"
	"github.com/mesh-intelligence/statements/pkg/types"
)

func newGetCmd(a *app) *cobra.Command {
	var projections []string

	cmd := &cobra.Command{
		Use:   "get <namespace> <table> <partition-key> [clustering-key]",
		Short: "Read one row",
		Long: `Get reads the row addressed by its partition and clustering keys.
Keys are written as name=value pairs separated by commas.

Example:
  stmt get shop orders customer=c1 order_id=7
  stmt get shop orders customer=c1 order_id=7 --project qty,item`,
		Args: locationArgsRange,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := locationArgs(args)
			if err != nil {
				return err
			}
			get := &types.Get{Location: loc, Projections: projections}
			return a.withBackend(func(b *sqlite.Backend) error {
				result, err := b.Get(context.Background(), get)
				if err != nil {
					return err
				}
				return writeResults(cmd.OutOrStdout(), a.flags.jsonMode, []types.Result{*result})
			})
		},
	}
	cmd.Flags().StringSliceVar(&projections, "project", nil, "value columns to return (default: all)")
	return cmd
}
