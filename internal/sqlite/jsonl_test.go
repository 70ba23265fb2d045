package sqlite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/statements/pkg/types"
)

func TestExportImport_RoundTrip(t *testing.T) {
	src, _ := newAttachedBackend(t)
	ctx := t.Context()

	require.NoError(t, src.Put(ctx, &types.Put{Location: orderAt(1), Values: map[string]any{"qty": 1, "item": "tea"}}))
	require.NoError(t, src.Put(ctx, &types.Put{Location: orderAt(2), Values: map[string]any{"price": 2.5}}))

	path := filepath.Join(t.TempDir(), "snapshot", "records.jsonl")
	n, err := src.Export(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(content), "\n"))
	assert.Contains(t, string(content), `"namespace":"shop"`)

	dst, _ := newAttachedBackend(t)
	n, err = dst.Import(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := dst.Get(ctx, &types.Get{Location: orderAt(1)})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"qty": int64(1), "item": "tea"}, got.Values)
	assert.Equal(t, orderAt(1).Clustering, got.Clustering)

	got, err = dst.Get(ctx, &types.Get{Location: orderAt(2)})
	require.NoError(t, err)
	assert.Equal(t, 2.5, got.Values["price"])
}

func TestImport_SkipsMalformedLines(t *testing.T) {
	b, _ := newAttachedBackend(t)
	path := filepath.Join(t.TempDir(), "records.jsonl")
	lines := strings.Join([]string{
		`{"namespace":"shop","table":"orders","partition":[{"name":"customer","type":"string","value":"c1"}],"clustering":[],"values":{"qty":1}}`,
		``,
		`not json`,
		`{"namespace":"shop","table":"orders","partition":[{"name":"customer","type":"float","value":1.5}]}`,
		`{"namespace":"","table":"orders","partition":[{"name":"customer","type":"string","value":"c2"}],"values":{"qty":2}}`,
		`{"namespace":"shop","table":"orders","partition":[],"values":{"qty":3}}`,
		`{"namespace":"shop","table":"orders","partition":[{"name":"customer","type":"string","value":"c3"}],"values":{"bad name":4}}`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))

	n, err := b.Import(t.Context(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := b.Get(t.Context(), &types.Get{Location: types.Location{
		Namespace: "shop",
		Table:     "orders",
		Partition: types.Key{{Name: "customer", Value: "c1"}},
	}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Values["qty"])
}

func TestImport_MissingFile(t *testing.T) {
	b, _ := newAttachedBackend(t)
	_, err := b.Import(t.Context(), filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.Error(t, err)
}

func TestExport_Detached(t *testing.T) {
	b := NewBackend(nil)
	_, err := b.Export(t.Context(), filepath.Join(t.TempDir(), "x.jsonl"))
	assert.ErrorIs(t, err, types.ErrDetached)
}
