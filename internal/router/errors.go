package router

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched by the typed errors below via errors.Is.
var (
	ErrMissingHandler          = errors.New("missing statement handler")
	ErrUnclassifiableOperation = errors.New("unclassifiable operation")
)

// MissingHandlerError is returned by Builder.Build when one or more roles
// were never set.
type MissingHandlerError struct {
	Roles []Role
}

func (e *MissingHandlerError) Error() string {
	names := make([]string, len(e.Roles))
	for i, r := range e.Roles {
		names[i] = r.String()
	}
	return fmt.Sprintf("%s: %s", ErrMissingHandler, strings.Join(names, ", "))
}

// Is reports whether target is ErrMissingHandler.
func (e *MissingHandlerError) Is(target error) bool {
	return target == ErrMissingHandler
}

// UnclassifiableOperationError is returned by Router.Route for an operation
// that matches none of the known variants.
type UnclassifiableOperationError struct {
	Operation any
}

func (e *UnclassifiableOperationError) Error() string {
	return fmt.Sprintf("%s: %T", ErrUnclassifiableOperation, e.Operation)
}

// Is reports whether target is ErrUnclassifiableOperation.
func (e *UnclassifiableOperationError) Is(target error) bool {
	return target == ErrUnclassifiableOperation
}
