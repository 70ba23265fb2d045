package types

import "fmt"

// ConditionKind identifies the variant of a MutationCondition.
type ConditionKind int

// Condition kinds.
const (
	CondPutIf ConditionKind = iota + 1
	CondPutIfExists
	CondPutIfNotExists
	CondDeleteIf
	CondDeleteIfExists
)

func (k ConditionKind) String() string {
	switch k {
	case CondPutIf:
		return "put-if"
	case CondPutIfExists:
		return "put-if-exists"
	case CondPutIfNotExists:
		return "put-if-not-exists"
	case CondDeleteIf:
		return "delete-if"
	case CondDeleteIfExists:
		return "delete-if-exists"
	default:
		return fmt.Sprintf("ConditionKind(%d)", int(k))
	}
}

// MutationCondition is a precondition attached to a Put or Delete. The set of
// implementations is closed to the types in this file.
type MutationCondition interface {
	Kind() ConditionKind
	isCondition()
}

// PutIf applies a Put only if the row exists and every expression holds.
type PutIf struct {
	Expressions []Expression
}

// PutIfExists applies a Put only if the row exists.
type PutIfExists struct{}

// PutIfNotExists applies a Put only if the row does not exist.
type PutIfNotExists struct{}

// DeleteIf applies a Delete only if the row exists and every expression holds.
type DeleteIf struct {
	Expressions []Expression
}

// DeleteIfExists applies a Delete only if the row exists.
type DeleteIfExists struct{}

func (PutIf) Kind() ConditionKind          { return CondPutIf }
func (PutIfExists) Kind() ConditionKind    { return CondPutIfExists }
func (PutIfNotExists) Kind() ConditionKind { return CondPutIfNotExists }
func (DeleteIf) Kind() ConditionKind       { return CondDeleteIf }
func (DeleteIfExists) Kind() ConditionKind { return CondDeleteIfExists }

func (PutIf) isCondition()          {}
func (PutIfExists) isCondition()    {}
func (PutIfNotExists) isCondition() {}
func (DeleteIf) isCondition()       {}
func (DeleteIfExists) isCondition() {}

// Operator compares a stored column value against an expression value.
type Operator string

// Comparison operators.
const (
	OpEQ  Operator = "="
	OpNE  Operator = "!="
	OpGT  Operator = ">"
	OpGTE Operator = ">="
	OpLT  Operator = "<"
	OpLTE Operator = "<="
)

// Valid reports whether o is a known operator.
func (o Operator) Valid() bool {
	switch o {
	case OpEQ, OpNE, OpGT, OpGTE, OpLT, OpLTE:
		return true
	}
	return false
}

// Expression is one comparison in a PutIf or DeleteIf condition.
type Expression struct {
	Column   string
	Operator Operator
	Value    any
}

// Validate checks the column name and operator.
func (e Expression) Validate() error {
	if !ValidColumnName(e.Column) {
		return fmt.Errorf("%w: %q", ErrInvalidColumn, e.Column)
	}
	if !e.Operator.Valid() {
		return fmt.Errorf("%w: unknown operator %q", ErrInvalidCondition, e.Operator)
	}
	return nil
}
