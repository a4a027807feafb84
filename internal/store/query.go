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
	"database/sql"

	"jgraph/internal/graphmodel"
	"jgraph/internal/graphutil"
)

const nodeColumns = `id, node_type, display_label, variant_data, properties, metrics, tags`

// scanNodeRow materializes one node from the current row of rows,
// decoding every JSON column immediately - the row's payloads are only
// valid while the producing session is open, so nothing lazy may escape
// here.
func scanNodeRow(rows *sql.Rows) (graphmodel.Node, error) {
	var id, nodeType, displayLabel, variantData, props, metrics, tags string
	if err := rows.Scan(&id, &nodeType, &displayLabel, &variantData, &props, &metrics, &tags); err != nil {
		return nil, graphutil.NewStorageError(graphutil.StorageLoadFailed, "scan node row", err)
	}

	n, err := graphmodel.NodeOfType(graphmodel.NodeType(nodeType), id)
	if err != nil {
		return nil, graphutil.NewStorageError(graphutil.StorageLoadFailed, "node "+quote(id), err)
	}
	if err := applyVariant(n, []byte(variantData)); err != nil {
		return nil, graphutil.NewStorageError(graphutil.StorageLoadFailed, "node "+quote(id), err)
	}

	dec := graphmodel.NewDecorator(n, nil)
	if err := decodeProperties(dec, []byte(props)); err != nil {
		return nil, graphutil.NewStorageError(graphutil.StorageLoadFailed, "node "+quote(id), err)
	}
	if err := decodeMetrics(dec, []byte(metrics)); err != nil {
		return nil, graphutil.NewStorageError(graphutil.StorageLoadFailed, "node "+quote(id), err)
	}
	if err := decodeTags(dec, []byte(tags)); err != nil {
		return nil, graphutil.NewStorageError(graphutil.StorageLoadFailed, "node "+quote(id), err)
	}
	return n, nil
}

// withSession runs fn inside sess, or inside a fresh single-call session
// when sess is nil. Either way the session in use is open for the whole
// of fn and released before this returns.
func (s *Store) withSession(ctx context.Context, sess *SessionHandle, fn func(*SessionHandle) error) error {
	if sess != nil {
		return fn(sess)
	}
	own, err := s.Session(ctx)
	if err != nil {
		return graphutil.NewStorageError(graphutil.StorageLoadFailed, "acquire session", err)
	}
	defer own.Close()
	return fn(own)
}

/*
NodeByID reads one node, fully decoded. Pass a SessionHandle to share a
session across repeated queries; pass nil for a single-call session. A
missing id is a StorageError of kind StorageNotFound.
*/
func (s *Store) NodeByID(ctx context.Context, sess *SessionHandle, id string) (graphmodel.Node, error) {
	var out graphmodel.Node
	err := s.withSession(ctx, sess, func(h *SessionHandle) error {
		rows, err := h.conn.QueryContext(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE id = ?`, id)
		if err != nil {
			return graphutil.NewStorageError(graphutil.StorageLoadFailed, "query node "+quote(id), err)
		}
		defer rows.Close()

		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return graphutil.NewStorageError(graphutil.StorageLoadFailed, "query node "+quote(id), err)
			}
			return graphutil.NewStorageError(graphutil.StorageNotFound, "node "+quote(id), nil)
		}
		out, err = scanNodeRow(rows)
		return err
	})
	return out, err
}

/*
NodesByType reads every node of the given type, fully decoded, ordered by
id. Session semantics as for NodeByID.
*/
func (s *Store) NodesByType(ctx context.Context, sess *SessionHandle, t graphmodel.NodeType) ([]graphmodel.Node, error) {
	var out []graphmodel.Node
	err := s.withSession(ctx, sess, func(h *SessionHandle) error {
		rows, err := h.conn.QueryContext(ctx,
			`SELECT `+nodeColumns+` FROM nodes WHERE node_type = ? ORDER BY id`, string(t))
		if err != nil {
			return graphutil.NewStorageError(graphutil.StorageLoadFailed, "query nodes by type", err)
		}
		defer rows.Close()

		for rows.Next() {
			n, err := scanNodeRow(rows)
			if err != nil {
				return err
			}
			out = append(out, n)
		}
		if err := rows.Err(); err != nil {
			return graphutil.NewStorageError(graphutil.StorageLoadFailed, "iterate nodes by type", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
