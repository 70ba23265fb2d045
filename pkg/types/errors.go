package types

import "errors"

// Operation validation errors. Returned by statement handlers, never by the
// router, which does not inspect operation contents.
var (
	ErrInvalidLocation  = errors.New("namespace and table must not be empty")
	ErrInvalidKey       = errors.New("invalid key")
	ErrInvalidColumn    = errors.New("invalid column name")
	ErrInvalidCondition = errors.New("condition not supported for this operation")
	ErrInvalidOperation = errors.New("operation not supported here")
)

// Execution errors.
var (
	ErrNotFound              = errors.New("record not found")
	ErrConditionNotSatisfied = errors.New("mutation condition not satisfied")
)

// Backend lifecycle errors.
var (
	ErrDetached        = errors.New("backend is detached")
	ErrAlreadyAttached = errors.New("backend is already attached")
)
