package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/statements/internal/sqlite"
	"github.com/mesh-intelligence/statements/pkg/types"
)

func newScanCmd(a *app) *cobra.Command {
	var (
		start, end                   string
		startExclusive, endExclusive bool
		descending                   bool
		limit                        int
		projections                  []string
	)

	cmd := &cobra.Command{
		Use:   "scan <namespace> <table> <partition-key>",
		Short: "Read a range of rows within one partition",
		Long: `Scan reads the rows of one partition ordered by clustering key.
Bounds are inclusive unless --start-exclusive or --end-exclusive is set.

Example:
  stmt scan shop orders customer=c1 --start order_id=1 --end order_id=9 --limit 5`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := locationArgs(args)
			if err != nil {
				return err
			}
			scan := &types.Scan{
				Location:       loc,
				StartInclusive: !startExclusive,
				EndInclusive:   !endExclusive,
				Limit:          limit,
				Projections:    projections,
			}
			if descending {
				scan.Ordering = types.Descending
			}
			if scan.Start, err = parseKey(start); err != nil {
				return userError(fmt.Errorf("start: %w", err))
			}
			if scan.End, err = parseKey(end); err != nil {
				return userError(fmt.Errorf("end: %w", err))
			}
			return a.withBackend(func(b *sqlite.Backend) error {
				results, err := b.Scan(context.Background(), scan)
				if err != nil {
					return err
				}
				return writeResults(cmd.OutOrStdout(), a.flags.jsonMode, results)
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "lower clustering key bound")
	cmd.Flags().StringVar(&end, "end", "", "upper clustering key bound")
	cmd.Flags().BoolVar(&startExclusive, "start-exclusive", false, "exclude the lower bound")
	cmd.Flags().BoolVar(&endExclusive, "end-exclusive", false, "exclude the upper bound")
	cmd.Flags().BoolVar(&descending, "desc", false, "order by clustering key descending")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows to return (0 for no limit)")
	cmd.Flags().StringSliceVar(&projections, "project", nil, "value columns to return (default: all)")
	return cmd
}
