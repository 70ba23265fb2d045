package types

import "errors"

// Config holds backend selection and parameters for Backend.Attach.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// BusyTimeout is the SQLite busy timeout in milliseconds. Zero selects
	// DefaultBusyTimeout.
	BusyTimeout int `json:"busy_timeout,omitempty" yaml:"busy_timeout,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// DefaultBusyTimeout is used when Config.BusyTimeout is zero.
const DefaultBusyTimeout = 5000

// Config validation errors.
var (
	ErrBackendEmpty        = errors.New("backend must not be empty")
	ErrBackendUnknown      = errors.New("unknown backend")
	ErrBusyTimeoutNegative = errors.New("busy timeout must not be negative")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.BusyTimeout < 0 {
		return ErrBusyTimeoutNegative
	}
	return nil
}

// EffectiveBusyTimeout returns BusyTimeout, or DefaultBusyTimeout when unset.
func (c Config) EffectiveBusyTimeout() int {
	if c.BusyTimeout == 0 {
		return DefaultBusyTimeout
	}
	return c.BusyTimeout
}
