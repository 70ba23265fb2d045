// Encoding of keys and value columns to and from their stored form.
package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/statements/pkg/types"
)

// storedKey is a key in both its order-preserving and its JSON form.
type storedKey struct {
	encoded string
	json    string
}

func encodeKey(k types.Key) (storedKey, error) {
	enc, err := k.Encode()
	if err != nil {
		return storedKey{}, err
	}
	if k == nil {
		k = types.Key{}
	}
	data, err := json.Marshal(k)
	if err != nil {
		return storedKey{}, fmt.Errorf("encoding key: %w", err)
	}
	return storedKey{encoded: enc, json: string(data)}, nil
}

func decodeKey(data string) (types.Key, error) {
	var k types.Key
	if err := json.Unmarshal([]byte(data), &k); err != nil {
		return nil, fmt.Errorf("decoding key: %w", err)
	}
	return k, nil
}

// encodeValues serializes value columns as a JSON object. Column names must
// be identifiers. A nil value is kept in the object so that json_patch
// removes the column from an existing row; new rows never store nulls.
func encodeValues(values map[string]any) (string, error) {
	for name := range values {
		if !types.ValidColumnName(name) {
			return "", fmt.Errorf("%w: %q", types.ErrInvalidColumn, name)
		}
	}
	if len(values) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encoding values: %w", err)
	}
	return string(data), nil
}

// decodeValues parses stored value columns. When projections is non-empty
// only those columns are kept.
func decodeValues(data string, projections []string) (map[string]any, error) {
	values, err := types.DecodeValues([]byte(data))
	if err != nil {
		return nil, err
	}
	if len(projections) == 0 {
		return values, nil
	}
	projected := make(map[string]any, len(projections))
	for _, name := range projections {
		if v, ok := values[name]; ok {
			projected[name] = v
		}
	}
	return projected, nil
}

// expressionArg converts an expression value to a bindable argument.
func expressionArg(v any) (any, error) {
	switch x := v.(type) {
	case nil, int64, float64, string, bool:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case float32:
		return float64(x), nil
	default:
		return nil, fmt.Errorf("%w: unsupported expression value type %T", types.ErrInvalidCondition, v)
	}
}

// timestamp formats t the way updated_at is stored.
func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
