package types

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Column is a named value. Key columns hold int64, string or bool.
type Column struct {
	Name  string
	Value any
}

// Key is an ordered list of columns identifying a partition or a row within
// a partition. An empty Key is valid as a clustering key.
type Key []Column

// Key column type tags, used in the encoded and JSON forms.
const (
	keyTypeInt    = "int"
	keyTypeString = "string"
	keyTypeBool   = "bool"
)

// columnNamePattern restricts column names to identifiers so they can be
// embedded in JSON paths.
var columnNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidColumnName reports whether name is usable as a column name.
func ValidColumnName(name string) bool {
	return columnNamePattern.MatchString(name)
}

// NormalizeKeyValue converts v to one of the supported key value types.
// Signed and small unsigned integers become int64.
// Returns ErrInvalidKey for any other type.
func NormalizeKeyValue(v any) (any, error) {
	switch x := v.(type) {
	case int64, string, bool:
		return x, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	default:
		return nil, fmt.Errorf("%w: unsupported key value type %T", ErrInvalidKey, v)
	}
}

// Normalize returns a copy of k with every value normalized.
func (k Key) Normalize() (Key, error) {
	if len(k) == 0 {
		return Key{}, nil
	}
	out := make(Key, len(k))
	for i, c := range k {
		if !ValidColumnName(c.Name) {
			return nil, fmt.Errorf("%w: column %q", ErrInvalidKey, c.Name)
		}
		v, err := NormalizeKeyValue(c.Value)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		out[i] = Column{Name: c.Name, Value: v}
	}
	return out, nil
}

// Encode returns an order-preserving text form of k: comparing two encoded
// keys bytewise gives the same order as comparing their values column by
// column. Strings are escaped so that a prefix sorts before its extensions.
func (k Key) Encode() (string, error) {
	n, err := k.Normalize()
	if err != nil {
		return "", err
	}
	var buf []byte
	for _, c := range n {
		switch v := c.Value.(type) {
		case int64:
			buf = append(buf, 'i')
			buf = binary.BigEndian.AppendUint64(buf, uint64(v)^(1<<63))
		case bool:
			buf = append(buf, 'b')
			if v {
				buf = append(buf, 1)
			} else {
				buf = append(buf, 0)
			}
		case string:
			buf = append(buf, 's')
			for i := 0; i < len(v); i++ {
				if v[i] == 0 {
					buf = append(buf, 0, 0xff)
					continue
				}
				buf = append(buf, v[i])
			}
			buf = append(buf, 0, 1)
		}
	}
	return hex.EncodeToString(buf), nil
}

// String renders k as name=value pairs for logs and CLI output.
func (k Key) String() string {
	parts := make([]string, len(k))
	for i, c := range k {
		parts[i] = fmt.Sprintf("%s=%v", c.Name, c.Value)
	}
	return strings.Join(parts, ",")
}

// keyColumnJSON is the serialized form of one key column.
type keyColumnJSON struct {
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes k with explicit value types so it decodes losslessly.
func (k Key) MarshalJSON() ([]byte, error) {
	n, err := k.Normalize()
	if err != nil {
		return nil, err
	}
	cols := make([]keyColumnJSON, len(n))
	for i, c := range n {
		var typ string
		switch c.Value.(type) {
		case int64:
			typ = keyTypeInt
		case string:
			typ = keyTypeString
		case bool:
			typ = keyTypeBool
		}
		raw, err := json.Marshal(c.Value)
		if err != nil {
			return nil, err
		}
		cols[i] = keyColumnJSON{Name: c.Name, Type: typ, Value: raw}
	}
	return json.Marshal(cols)
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (k *Key) UnmarshalJSON(data []byte) error {
	var cols []keyColumnJSON
	if err := json.Unmarshal(data, &cols); err != nil {
		return err
	}
	out := make(Key, len(cols))
	for i, c := range cols {
		var err error
		switch c.Type {
		case keyTypeInt:
			var v int64
			err = json.Unmarshal(c.Value, &v)
			out[i] = Column{Name: c.Name, Value: v}
		case keyTypeString:
			var v string
			err = json.Unmarshal(c.Value, &v)
			out[i] = Column{Name: c.Name, Value: v}
		case keyTypeBool:
			var v bool
			err = json.Unmarshal(c.Value, &v)
			out[i] = Column{Name: c.Name, Value: v}
		default:
			return fmt.Errorf("%w: unknown key column type %q", ErrInvalidKey, c.Type)
		}
		if err != nil {
			return fmt.Errorf("decoding key column %q: %w", c.Name, err)
		}
	}
	*k = out
	return nil
}

// ParseKeyValue interprets s as a key value: integers become int64,
// "true"/"false" become bool, anything else stays a string.
func ParseKeyValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if b, err := strconv.ParseBool(s); err == nil && (s == "true" || s == "false") {
		return b
	}
	return s
}
