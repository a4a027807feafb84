/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"jgraph/internal/graphutil"
	"jgraph/internal/repository"
)

/*
Persist upserts every node and edge in snap into the store: node upsert is
insert-or-replace by id, edge upsert is insert-or-replace by the unique
(source_id, target_id, edge_type) triple. Nothing outside snap is deleted;
that is reserved for an explicit ClearAll. Statements run inside one
transaction for throughput; the contract is per-node/per-edge
consistency, not cross-statement atomicity.
*/
func (s *Store) Persist(ctx context.Context, snap *repository.Snapshot) error {
	session, err := s.Session(ctx)
	if err != nil {
		return graphutil.NewStorageError(graphutil.StoragePersistFailed, "acquire session", err)
	}
	defer session.Close()

	tx, err := session.conn.BeginTx(ctx, nil)
	if err != nil {
		return graphutil.NewStorageError(graphutil.StoragePersistFailed, "begin transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op once committed

	nodeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (id, node_type, display_label, variant_data, properties, metrics, tags, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			node_type = excluded.node_type,
			display_label = excluded.display_label,
			variant_data = excluded.variant_data,
			properties = excluded.properties,
			metrics = excluded.metrics,
			tags = excluded.tags,
			updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return graphutil.NewStorageError(graphutil.StoragePersistFailed, "prepare node upsert", err)
	}
	defer nodeStmt.Close()

	for _, n := range snap.Nodes() {
		variant, err := encodeVariant(n)
		if err != nil {
			return graphutil.NewStorageError(graphutil.StoragePersistFailed, "node "+quote(n.ID()), err)
		}
		props, err := encodeProperties(n)
		if err != nil {
			return graphutil.NewStorageError(graphutil.StoragePersistFailed, "node "+quote(n.ID()), err)
		}
		metrics, err := encodeMetrics(n)
		if err != nil {
			return graphutil.NewStorageError(graphutil.StoragePersistFailed, "node "+quote(n.ID()), err)
		}
		tags, err := encodeTags(n)
		if err != nil {
			return graphutil.NewStorageError(graphutil.StoragePersistFailed, "node "+quote(n.ID()), err)
		}

		if _, err := nodeStmt.ExecContext(ctx, n.ID(), string(n.NodeType()), n.DisplayLabel(),
			string(variant), string(props), string(metrics), string(tags)); err != nil {
			return graphutil.NewStorageError(graphutil.StoragePersistFailed, "insert node "+quote(n.ID()), err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO edges (source_id, target_id, edge_type, metadata)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (source_id, target_id, edge_type) DO UPDATE SET
			metadata = excluded.metadata`)
	if err != nil {
		return graphutil.NewStorageError(graphutil.StoragePersistFailed, "prepare edge upsert", err)
	}
	defer edgeStmt.Close()

	for _, e := range snap.Edges() {
		meta, err := json.Marshal(e.Metadata)
		if err != nil {
			return graphutil.NewStorageError(graphutil.StoragePersistFailed,
				fmt.Sprintf("edge %s->%s", e.SourceID, e.TargetID), err)
		}
		meta = canonicalEmptyObject(meta)

		if _, err := edgeStmt.ExecContext(ctx, e.SourceID, e.TargetID, e.EdgeType, string(meta)); err != nil {
			return graphutil.NewStorageError(graphutil.StoragePersistFailed,
				fmt.Sprintf("insert edge %s->%s", e.SourceID, e.TargetID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return graphutil.NewStorageError(graphutil.StoragePersistFailed, "commit transaction", err)
	}
	return nil
}

/*
ClearAll deletes every row from both tables. Persist never does this on
its own; a caller wanting a full rebuild rather than an incremental
upsert calls ClearAll first, mirroring repository.Repository.ClearAll.
*/
func (s *Store) ClearAll(ctx context.Context) error {
	session, err := s.Session(ctx)
	if err != nil {
		return graphutil.NewStorageError(graphutil.StoragePersistFailed, "acquire session", err)
	}
	defer session.Close()

	if _, err := session.conn.ExecContext(ctx, "DELETE FROM edges"); err != nil {
		return graphutil.NewStorageError(graphutil.StoragePersistFailed, "clear edges", err)
	}
	if _, err := session.conn.ExecContext(ctx, "DELETE FROM nodes"); err != nil {
		return graphutil.NewStorageError(graphutil.StoragePersistFailed, "clear nodes", err)
	}
	return nil
}

func quote(s string) string { return "\"" + s + "\"" }
