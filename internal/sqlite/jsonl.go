// JSONL snapshots of the records table. Export writes every row; Import
// replays rows as unconditioned Puts through the statement router.
package sqlite

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/statements/pkg/types"
)

// recordJSON is one line of a snapshot file.
type recordJSON struct {
	Namespace  string          `json:"namespace"`
	Table      string          `json:"table"`
	Partition  json.RawMessage `json:"partition"`
	Clustering json.RawMessage `json:"clustering"`
	Values     json.RawMessage `json:"values"`
	UpdatedAt  string          `json:"updated_at"`
}

const selectAllRecords = `SELECT namespace, table_name, partition_json, clustering_json, column_values, updated_at
FROM records ORDER BY namespace, table_name, partition_key, clustering_key`

// Export writes every record to path as JSONL. The file is replaced
// atomically. Returns the number of records written.
func (b *Backend) Export(ctx context.Context, path string) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return 0, types.ErrDetached
	}

	rows, err := b.db.QueryContext(ctx, selectAllRecords)
	if err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	defer rows.Close()

	n := 0
	err = writeJSONL(path, func(enc *json.Encoder) error {
		for rows.Next() {
			var rec recordJSON
			var pk, ck, values string
			if err := rows.Scan(&rec.Namespace, &rec.Table, &pk, &ck, &values, &rec.UpdatedAt); err != nil {
				return fmt.Errorf("scanning record: %w", err)
			}
			rec.Partition = json.RawMessage(pk)
			rec.Clustering = json.RawMessage(ck)
			rec.Values = json.RawMessage(values)
			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("writing record: %w", err)
			}
			n++
		}
		return rows.Err()
	})
	if err != nil {
		return 0, err
	}
	b.logger.Info("exported records", "session", b.session, "path", path, "count", n)
	return n, nil
}

// Import reads a JSONL snapshot from path and writes each record as an
// unconditioned Put in a single transaction. Blank lines, malformed lines and
// records with an invalid location or column name are skipped. Returns the number of records imported.
func (b *Backend) Import(ctx context.Context, path string) (int, error) {
	var ops []types.Operation
	skipped := 0
	err := readJSONL(path, func(line []byte) error {
		put, err := recordToPut(line)
		if err != nil {
			skipped++
			return nil
		}
		ops = append(ops, put)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := b.Mutate(ctx, ops); err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}
	b.logger.Info("imported records", "path", path, "count", len(ops), "skipped", skipped)
	return len(ops), nil
}

func recordToPut(line []byte) (*types.Put, error) {
	var rec recordJSON
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, err
	}
	var pk, ck types.Key
	if err := json.Unmarshal(rec.Partition, &pk); err != nil {
		return nil, err
	}
	if len(rec.Clustering) > 0 {
		if err := json.Unmarshal(rec.Clustering, &ck); err != nil {
			return nil, err
		}
	}
	values := map[string]any{}
	if len(rec.Values) > 0 {
		v, err := decodeValues(string(rec.Values), nil)
		if err != nil {
			return nil, err
		}
		values = v
	}
	loc := types.Location{
		Namespace:  rec.Namespace,
		Table:      rec.Table,
		Partition:  pk,
		Clustering: ck,
	}
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	for name := range values {
		if !types.ValidColumnName(name) {
			return nil, fmt.Errorf("%w: %q", types.ErrInvalidColumn, name)
		}
	}
	return &types.Put{Location: loc, Values: values}, nil
}

// readJSONL calls fn with each non-empty, syntactically valid line of path.
// Malformed lines are skipped.
func readJSONL(path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanning %s: %w", path, err)
	}
	return nil
}

// writeJSONL atomically replaces path with the lines produced by fn, using
// the temp-file, fsync, rename pattern.
func writeJSONL(path string, fn func(enc *json.Encoder) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := fn(enc); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
