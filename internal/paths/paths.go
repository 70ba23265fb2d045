// Package paths resolves the configuration and data directories used by the
// stmt CLI. The configuration directory is chosen from an explicit flag, an
// environment variable, then the platform default. The data directory is
// chosen from an explicit flag, config.yaml, an environment variable, then a
// directory under the current working directory.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under platform config and data roots.
const AppName = "stmt"

// DefaultDataDirName is the CWD-relative data directory used when nothing
// else is configured.
const DefaultDataDirName = ".stmt-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "STMT_CONFIG_DIR"
	EnvDataDir   = "STMT_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/stmt (fallback ~/.config/stmt)
// macOS:   ~/Library/Application Support/stmt
// Windows: %APPDATA%/stmt
func DefaultConfigDir() (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// ResolveConfigDir returns the configuration directory:
// flag > STMT_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if dir, ok := firstSet(flag, os.Getenv(EnvConfigDir)); ok {
		return filepath.Abs(dir)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory:
// flag > config.yaml data_dir > STMT_DATA_DIR > $(CWD)/.stmt-db.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if dir, ok := firstSet(flag, configYAMLValue, os.Getenv(EnvDataDir)); ok {
		return filepath.Abs(dir)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// firstSet returns the first non-empty candidate.
func firstSet(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if c != "" {
			return c, true
		}
	}
	return "", false
}
