/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package store is the persistent graph store: a single SQLite database file
holding every node and edge produced by a run, with properties, metrics
and tags encoded as JSON-blob columns rather than a normalized per-key
schema. The property space is sparse and heterogeneous; a column-per-key
schema would need a migration on every new tag or metric, while a JSON
payload keeps the schema stable. Built on modernc.org/sqlite, a pure-Go
embedded SQL engine with a one-file, no-server operating model.
*/
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS nodes (
	id            TEXT PRIMARY KEY,
	node_type     TEXT NOT NULL,
	display_label TEXT NOT NULL,
	variant_data  TEXT NOT NULL,
	properties    TEXT NOT NULL,
	metrics       TEXT NOT NULL,
	tags          TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS nodes_type_idx ON nodes (node_type);
CREATE INDEX IF NOT EXISTS nodes_created_at_idx ON nodes (created_at);

CREATE TABLE IF NOT EXISTS edges (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	source_id TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
	target_id TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
	edge_type TEXT NOT NULL,
	metadata  TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (source_id, target_id, edge_type)
);

CREATE INDEX IF NOT EXISTS edges_source_idx ON edges (source_id);
CREATE INDEX IF NOT EXISTS edges_target_idx ON edges (target_id);
CREATE INDEX IF NOT EXISTS edges_type_idx ON edges (edge_type);

CREATE VIEW IF NOT EXISTS graph_statistics AS
	SELECT 'node' AS entity_kind, node_type AS kind, COUNT(*) AS count
	FROM nodes GROUP BY node_type
	UNION ALL
	SELECT 'edge' AS entity_kind, edge_type AS kind, COUNT(*) AS count
	FROM edges GROUP BY edge_type;
`

/*
Store is a session-scoped handle onto one SQLite database file. Store
itself holds only a *sql.DB connection pool; every read or write acquires
its own SessionHandle and releases it deterministically.
*/
type Store struct {
	db *sql.DB
}

/*
Open opens (creating if absent) the SQLite database at path and applies
the schema with CREATE ... IF NOT EXISTS, so opening an existing database
produced by an older run of this same schema is a no-op beyond that.
*/
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite serializes writers; avoid SQLITE_BUSY churn

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable foreign keys: %w", err)
	}

	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

/*
Close releases the underlying connection pool. Any SessionHandle obtained
from this Store must already be closed.
*/
func (s *Store) Close() error {
	return s.db.Close()
}
