// Package sqlite provides the public API for the SQLite storage backend.
// It exposes the factory function while keeping the statement handlers
// internal.
package sqlite

import (
	"github.com/mesh-intelligence/statements/internal/sqlite"
)

// Backend is the SQLite storage backend.
type Backend = sqlite.Backend

// NewBackend creates a new SQLite backend instance logging to slog.Default().
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".stmt-db",
//	})
//	defer backend.Detach()
//	err = backend.Put(ctx, &types.Put{Location: loc, Values: values})
func NewBackend() *Backend {
	return sqlite.NewBackend(nil)
}
