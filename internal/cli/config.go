// Config loading for the stmt CLI.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/statements/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend     = "backend"
	cfgKeyDataDir     = "data_dir"
	cfgKeyBusyTimeout = "busy_timeout"
	cfgKeyLogLevel    = "log_level"

	envLogLevel = "STMT_LOG_LEVEL"
)

// settings is the parsed content of config.yaml.
type settings struct {
	backend     string
	dataDir     string
	busyTimeout int
	logLevel    slog.Level
}

// configFile is the structure written to config.yaml by init.
type configFile struct {
	Backend     string `yaml:"backend"`
	DataDir     string `yaml:"data_dir,omitempty"`
	BusyTimeout int    `yaml:"busy_timeout,omitempty"`
	LogLevel    string `yaml:"log_level,omitempty"`
}

// loadSettings reads config.yaml from configDir using Viper. A missing file
// or directory is not an error; defaults apply.
func loadSettings(configDir string) (settings, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyBusyTimeout, 0)
	v.SetDefault(cfgKeyLogLevel, "warn")
	if err := v.BindEnv(cfgKeyLogLevel, envLogLevel); err != nil {
		return settings{}, fmt.Errorf("bind env: %w", err)
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString(cfgKeyLogLevel))); err != nil {
		return settings{}, fmt.Errorf("config %s: %w", cfgKeyLogLevel, err)
	}
	return settings{
		backend:     v.GetString(cfgKeyBackend),
		dataDir:     v.GetString(cfgKeyDataDir),
		busyTimeout: v.GetInt(cfgKeyBusyTimeout),
		logLevel:    level,
	}, nil
}

// writeConfigIfMissing creates config.yaml with the given data directory if
// the file does not exist. An existing file is left untouched.
func writeConfigIfMissing(path, dataDir string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&configFile{
		Backend:  types.BackendSQLite,
		DataDir:  dataDir,
		LogLevel: "warn",
	})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
