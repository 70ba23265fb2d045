package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/statements/pkg/statements"
)

const modulePath = "github.com/mesh-intelligence/statements"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the stmt version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "stmt v%s\nmodule: %s\n", statements.Version, modulePath)
			return nil
		},
	}
}
