package types

import "fmt"

// OperationKind identifies the variant of an Operation.
type OperationKind int

// Operation kinds.
const (
	KindGet OperationKind = iota + 1
	KindScan
	KindPut
	KindDelete
)

func (k OperationKind) String() string {
	switch k {
	case KindGet:
		return "get"
	case KindScan:
		return "scan"
	case KindPut:
		return "put"
	case KindDelete:
		return "delete"
	default:
		return fmt.Sprintf("OperationKind(%d)", int(k))
	}
}

// Operation is a request to a storage backend. The set of implementations is
// closed: *Get, *Scan, *Put and *Delete.
type Operation interface {
	// Kind returns the variant of the operation.
	Kind() OperationKind

	// Target returns the namespace, table and keys the operation addresses.
	Target() Location

	isOperation()
}

// Location addresses a row (or, for Scan, a partition) in a table.
type Location struct {
	Namespace  string
	Table      string
	Partition  Key
	Clustering Key
}

// Target returns l. Operations embed Location, which makes them satisfy the
// Target half of the Operation interface.
func (l Location) Target() Location { return l }

// Validate checks that namespace, table and partition key are present and
// that both keys hold supported values.
func (l Location) Validate() error {
	if l.Namespace == "" || l.Table == "" {
		return ErrInvalidLocation
	}
	if len(l.Partition) == 0 {
		return fmt.Errorf("%w: partition key must not be empty", ErrInvalidKey)
	}
	if _, err := l.Partition.Normalize(); err != nil {
		return err
	}
	if _, err := l.Clustering.Normalize(); err != nil {
		return err
	}
	return nil
}

// Order is the clustering-key ordering of Scan results.
type Order int

// Scan orderings. The zero value is ascending.
const (
	Ascending Order = iota
	Descending
)

// Get reads a single row by its full key.
type Get struct {
	Location

	// Projections limits the value columns returned. Empty returns all.
	Projections []string
}

// Scan reads the rows of one partition whose clustering keys fall between
// Start and End. A nil Start or End leaves that side of the range open.
type Scan struct {
	Location

	Start          Key
	StartInclusive bool
	End            Key
	EndInclusive   bool
	Ordering       Order
	Limit          int // zero means unlimited
	Projections    []string
}

// Put writes value columns to a row. Without a condition the write is an
// upsert that merges the given columns into any existing row.
type Put struct {
	Location

	Values    map[string]any
	Condition MutationCondition
}

// Delete removes a row.
type Delete struct {
	Location

	Condition MutationCondition
}

func (*Get) Kind() OperationKind    { return KindGet }
func (*Scan) Kind() OperationKind   { return KindScan }
func (*Put) Kind() OperationKind    { return KindPut }
func (*Delete) Kind() OperationKind { return KindDelete }

func (*Get) isOperation()    {}
func (*Scan) isOperation()   {}
func (*Put) isOperation()    {}
func (*Delete) isOperation() {}
