// Schema for the SQLite backend. Every logical table shares one physical
// records table keyed by namespace, table name and the encoded keys.
package sqlite

import (
	"database/sql"
	"fmt"
)

const (
	createRecords = `CREATE TABLE IF NOT EXISTS records (
    namespace TEXT NOT NULL,
    table_name TEXT NOT NULL,
    partition_key TEXT NOT NULL,
    clustering_key TEXT NOT NULL,
    partition_json TEXT NOT NULL,
    clustering_json TEXT NOT NULL,
    column_values TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (namespace, table_name, partition_key, clustering_key)
);`

	idxRecordsTable = `CREATE INDEX IF NOT EXISTS idx_records_table ON records(namespace, table_name);`
)

// schemaDDL lists all CREATE statements in the order they are applied.
var schemaDDL = []string{
	createRecords,
	idxRecordsTable,
}

// applySchema creates the records table and its indexes if missing.
func applySchema(db *sql.DB) error {
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
