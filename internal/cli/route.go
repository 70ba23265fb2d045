package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/statements/internal/router"
	"github.com/mesh-intelligence/statements/internal/sqlite"
	"github.com/mesh-intelligence/statements/pkg/types"
)

// newRouteCmd shows which statement handler an operation routes to without
// opening storage.
func newRouteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Show the statement role an operation routes to",
		Long: `Route classifies an operation the way the backend does and prints the
statement role (select, insert, update or delete) and the SQL the handler for
that role would run. Nothing is executed.

Example:
  stmt route put shop orders customer=c1 order_id=7 --if 'qty>2'`,
	}

	var put putFlags
	putCmd := &cobra.Command{
		Use:  "put <namespace> <table> <partition-key> [clustering-key]",
		Args: locationArgsRange,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := locationArgs(args)
			if err != nil {
				return err
			}
			op, err := put.build(loc)
			if err != nil {
				return err
			}
			return a.printRoute(cmd, op)
		},
	}
	put.register(putCmd)

	var del deleteFlags
	deleteCmd := &cobra.Command{
		Use:  "delete <namespace> <table> <partition-key> [clustering-key]",
		Args: locationArgsRange,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := locationArgs(args)
			if err != nil {
				return err
			}
			op, err := del.build(loc)
			if err != nil {
				return err
			}
			return a.printRoute(cmd, op)
		},
	}
	del.register(deleteCmd)

	getCmd := &cobra.Command{
		Use:  "get <namespace> <table> <partition-key> [clustering-key]",
		Args: locationArgsRange,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := locationArgs(args)
			if err != nil {
				return err
			}
			return a.printRoute(cmd, &types.Get{Location: loc})
		},
	}

	scanCmd := &cobra.Command{
		Use:  "scan <namespace> <table> <partition-key>",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := locationArgs(args)
			if err != nil {
				return err
			}
			return a.printRoute(cmd, &types.Scan{Location: loc})
		},
	}

	cmd.AddCommand(getCmd, scanCmd, putCmd, deleteCmd)
	return cmd
}

// routeOutput is the --json form of a routing decision.
type routeOutput struct {
	Operation string `json:"operation"`
	Role      string `json:"role"`
	SQL       string `json:"sql"`
	Args      []any  `json:"args"`
}

func (a *app) printRoute(cmd *cobra.Command, op types.Operation) error {
	r, err := sqlite.NewRouter()
	if err != nil {
		return sysError(err)
	}
	role, err := router.Classify(op)
	if err != nil {
		return userError(err)
	}
	stmt, err := statementFor(r, role, op)
	if err != nil {
		return classify(err)
	}

	w := cmd.OutOrStdout()
	if a.flags.jsonMode {
		out, err := json.MarshalIndent(routeOutput{
			Operation: op.Kind().String(),
			Role:      role.String(),
			SQL:       stmt.SQL,
			Args:      stmt.Args,
		}, "", "  ")
		if err != nil {
			return sysError(err)
		}
		fmt.Fprintln(w, string(out))
		return nil
	}
	fmt.Fprintf(w, "%s -> %s\n%s\n", op.Kind(), role, stmt.SQL)
	return nil
}

// statementFor asks the handler registered for role to build its statement.
func statementFor(r *router.Router, role router.Role, op types.Operation) (router.Statement, error) {
	switch role {
	case router.RoleSelect:
		return r.Select().SelectStatement(op)
	case router.RoleInsert:
		return r.Insert().InsertStatement(op.(*types.Put))
	case router.RoleUpdate:
		return r.Update().UpdateStatement(op.(*types.Put))
	default:
		return r.Delete().DeleteStatement(op.(*types.Delete))
	}
}
