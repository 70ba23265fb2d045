// Package cli implements the stmt command-line interface: a thin layer that
// turns arguments into operations and runs them through the SQLite backend.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/statements/internal/paths"
	"github.com/mesh-intelligence/statements/pkg/statements"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

// app is the state shared by one command tree: flags, loaded settings and
// the logger configured from them.
type app struct {
	flags    rootFlags
	settings settings
	logger   *slog.Logger
}

// NewRootCmd creates the top-level "stmt" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: slog.Default()}

	root := &cobra.Command{
		Use:     "stmt",
		Short:   "Route and run storage operations against a SQLite backend",
		Long:    "stmt classifies get, scan, put and delete operations into select, insert,\nupdate and delete statements and executes them against a SQLite database.",
		Version: statements.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir, e.g. ~/.config/stmt)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.stmt-db)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "log routed operations to stderr")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newGetCmd(a),
		newScanCmd(a),
		newPutCmd(a),
		newDeleteCmd(a),
		newRouteCmd(a),
		newExportCmd(a),
		newImportCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// load resolves the config directory, reads config.yaml and configures the
// logger. Runs before every subcommand.
func (a *app) load(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	s, err := loadSettings(configDir)
	if err != nil {
		return sysError(err)
	}
	a.settings = s

	level := s.logLevel
	if a.flags.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// cliError carries the process exit code for an error.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func userError(err error) error { return &cliError{code: exitUserError, err: err} }
func sysError(err error) error  { return &cliError{code: exitSysError, err: err} }

// exitCode maps err to a process exit code. Errors not tagged by userError
// or sysError (flag and argument errors from cobra) are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return exitUserError
}
