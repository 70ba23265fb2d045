package types

// Result is one row returned by a Get or Scan.
type Result struct {
	Namespace  string         `json:"namespace"`
	Table      string         `json:"table"`
	Partition  Key            `json:"partition"`
	Clustering Key            `json:"clustering"`
	Values     map[string]any `json:"values"`
}

// Value returns the named value column and whether it is present.
func (r Result) Value(name string) (any, bool) {
	v, ok := r.Values[name]
	return v, ok
}
