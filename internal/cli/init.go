package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/statements/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and storage",
		Long:  "Create the configuration directory and config.yaml if missing, then create the SQLite database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(a.flags.configDir)
			if err != nil {
				return sysError(fmt.Errorf("resolve config dir: %w", err))
			}
			dataDir, err := a.resolveDataDir()
			if err != nil {
				return err
			}
			if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt), dataDir); err != nil {
				return sysError(fmt.Errorf("write config: %w", err))
			}

			backend, err := a.attach()
			if err != nil {
				return err
			}
			if err := backend.Detach(); err != nil {
				return sysError(fmt.Errorf("finalize storage: %w", err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized storage in %s\n", dataDir)
			return nil
		},
	}
}
