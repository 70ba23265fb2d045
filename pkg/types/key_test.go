package types

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyEncode_PreservesOrder(t *testing.T) {
	keys := []Key{
		{{Name: "n", Value: int64(-5)}},
		{{Name: "n", Value: int64(0)}},
		{{Name: "n", Value: int64(3)}},
		{{Name: "n", Value: int64(1 << 40)}},
	}
	var encoded []string
	for _, k := range keys {
		e, err := k.Encode()
		require.NoError(t, err)
		encoded = append(encoded, e)
	}
	assert.True(t, sort.StringsAreSorted(encoded), "int keys must encode in numeric order: %v", encoded)

	words := []string{"a", "a\x00", "ab", "b"}
	encoded = encoded[:0]
	for _, w := range words {
		e, err := Key{{Name: "s", Value: w}}.Encode()
		require.NoError(t, err)
		encoded = append(encoded, e)
	}
	assert.True(t, sort.StringsAreSorted(encoded), "prefix must sort before its extensions: %v", encoded)
}

func TestKeyEncode_MultiColumn(t *testing.T) {
	a, err := Key{{Name: "x", Value: "a"}, {Name: "y", Value: 9}}.Encode()
	require.NoError(t, err)
	b, err := Key{{Name: "x", Value: "ab"}, {Name: "y", Value: 1}}.Encode()
	require.NoError(t, err)
	assert.Less(t, a, b)
}

func TestKeyEncode_EmptyKey(t *testing.T) {
	e, err := Key{}.Encode()
	require.NoError(t, err)
	assert.Equal(t, "", e)
}

func TestKeyNormalize_RejectsUnsupported(t *testing.T) {
	_, err := Key{{Name: "f", Value: 1.5}}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = Key{{Name: "bad name", Value: "x"}}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidKey)

	n, err := Key{{Name: "i", Value: int32(7)}}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, int64(7), n[0].Value)
}

func TestKeyJSON_KeepsValueTypes(t *testing.T) {
	k := Key{{Name: "id", Value: 42}, {Name: "name", Value: "x"}, {Name: "ok", Value: true}}
	data, err := json.Marshal(k)
	require.NoError(t, err)

	var got Key
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, Key{{Name: "id", Value: int64(42)}, {Name: "name", Value: "x"}, {Name: "ok", Value: true}}, got)
}

func TestParseKeyValue(t *testing.T) {
	assert.Equal(t, int64(12), ParseKeyValue("12"))
	assert.Equal(t, true, ParseKeyValue("true"))
	assert.Equal(t, "TRUE", ParseKeyValue("TRUE"))
	assert.Equal(t, "abc", ParseKeyValue("abc"))
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "a=1,b=x", Key{{Name: "a", Value: 1}, {Name: "b", Value: "x"}}.String())
}

func TestDecodeValues(t *testing.T) {
	got, err := DecodeValues([]byte(`{"n":3,"f":1.25,"s":"x","nested":{"k":[1,2.5]}}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"n":      int64(3),
		"f":      1.25,
		"s":      "x",
		"nested": map[string]any{"k": []any{int64(1), 2.5}},
	}, got)

	_, err = DecodeValues([]byte(`[1,2]`))
	assert.Error(t, err)
}
