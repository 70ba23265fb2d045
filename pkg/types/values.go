package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeValues parses a JSON object of value columns. Integral numbers
// decode as int64 and other numbers as float64, at any nesting depth.
func DecodeValues(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding values: %w", err)
	}
	values := make(map[string]any, len(raw))
	for k, v := range raw {
		values[k] = normalizeNumbers(v)
	}
	return values, nil
}

func normalizeNumbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		f, _ := x.Float64()
		return f
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeNumbers(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = normalizeNumbers(e)
		}
		return x
	default:
		return v
	}
}
