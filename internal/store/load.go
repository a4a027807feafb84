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

	"jgraph/internal/graphmodel"
	"jgraph/internal/graphutil"
	"jgraph/internal/repository"
)

/*
Load rebuilds a Repository from the store's current contents. Every row's
JSON columns are decoded while the session that produced them is still
open; a decode failure anywhere aborts the load and releases the session
before returning, rather than handing the caller a stream to decode at
its own leisure after the session (and the connection it holds) is gone.
This is the decode-before-release invariant: the persistent store never
returns decoded-later handles, only fully materialized graphs or an
error.
*/
func (s *Store) Load(ctx context.Context) (*repository.Repository, error) {
	session, err := s.Session(ctx)
	if err != nil {
		return nil, graphutil.NewStorageError(graphutil.StorageLoadFailed, "acquire session", err)
	}
	defer session.Close()

	repo := repository.New()

	rows, err := session.conn.QueryContext(ctx, `SELECT `+nodeColumns+` FROM nodes`)
	if err != nil {
		return nil, graphutil.NewStorageError(graphutil.StorageLoadFailed, "query nodes", err)
	}
	for rows.Next() {
		n, err := scanNodeRow(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		if err := repo.AddNode(n); err != nil {
			rows.Close()
			return nil, graphutil.NewStorageError(graphutil.StorageLoadFailed, "node "+quote(n.ID()), err)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, graphutil.NewStorageError(graphutil.StorageLoadFailed, "iterate nodes", err)
	}
	rows.Close()

	edgeRows, err := session.conn.QueryContext(ctx,
		`SELECT source_id, target_id, edge_type, metadata FROM edges`)
	if err != nil {
		return nil, graphutil.NewStorageError(graphutil.StorageLoadFailed, "query edges", err)
	}
	for edgeRows.Next() {
		var sourceID, targetID, edgeType, metadata string
		if err := edgeRows.Scan(&sourceID, &targetID, &edgeType, &metadata); err != nil {
			edgeRows.Close()
			return nil, graphutil.NewStorageError(graphutil.StorageLoadFailed, "scan edge row", err)
		}

		e := graphmodel.NewEdge(sourceID, targetID, edgeType)
		var meta map[string]interface{}
		if err := json.Unmarshal([]byte(metadata), &meta); err != nil {
			edgeRows.Close()
			return nil, graphutil.NewStorageError(graphutil.StorageLoadFailed,
				fmt.Sprintf("edge %s->%s metadata", sourceID, targetID), err)
		}
		for _, k := range sortedKeys(meta) {
			if err := e.SetMetadata(k, meta[k]); err != nil {
				edgeRows.Close()
				return nil, graphutil.NewStorageError(graphutil.StorageLoadFailed,
					fmt.Sprintf("edge %s->%s metadata %q", sourceID, targetID, k), err)
			}
		}

		if _, _, err := repo.GetOrCreateEdge(e); err != nil {
			edgeRows.Close()
			return nil, graphutil.NewStorageError(graphutil.StorageLoadFailed,
				fmt.Sprintf("edge %s->%s", sourceID, targetID), err)
		}
	}
	if err := edgeRows.Err(); err != nil {
		edgeRows.Close()
		return nil, graphutil.NewStorageError(graphutil.StorageLoadFailed, "iterate edges", err)
	}
	edgeRows.Close()

	return repo, nil
}

/*
Statistics summarizes the graph_statistics view: one row per
(entity kind, type, count) triple.
*/
type Statistics struct {
	EntityKind string
	Kind       string
	Count      int64
}

/*
GraphStatistics reads the graph_statistics view.
*/
func (s *Store) GraphStatistics(ctx context.Context) ([]Statistics, error) {
	session, err := s.Session(ctx)
	if err != nil {
		return nil, graphutil.NewStorageError(graphutil.StorageLoadFailed, "acquire session", err)
	}
	defer session.Close()

	rows, err := session.conn.QueryContext(ctx, `SELECT entity_kind, kind, count FROM graph_statistics`)
	if err != nil {
		return nil, graphutil.NewStorageError(graphutil.StorageLoadFailed, "query graph_statistics", err)
	}
	defer rows.Close()

	var out []Statistics
	for rows.Next() {
		var st Statistics
		if err := rows.Scan(&st.EntityKind, &st.Kind, &st.Count); err != nil {
			return nil, graphutil.NewStorageError(graphutil.StorageLoadFailed, "scan graph_statistics row", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, graphutil.NewStorageError(graphutil.StorageLoadFailed, "iterate graph_statistics", err)
	}
	return out, nil
}
