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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jgraph/internal/graphmodel"
	"jgraph/internal/graphutil"
)

func TestNodeByIDWithAndWithoutSession(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.Persist(ctx, buildFixtureRepository(t).Snapshot()))

	// single-call session
	n, err := s.NodeByID(ctx, nil, "com.acme.App")
	require.NoError(t, err)
	assert.Equal(t, "App", n.DisplayLabel())

	// caller-provided session shared across calls
	sess, err := s.Session(ctx)
	require.NoError(t, err)
	defer sess.Close()

	a, err := s.NodeByID(ctx, sess, "com.acme.App")
	require.NoError(t, err)
	b, err := s.NodeByID(ctx, sess, "/repo/src/App.java")
	require.NoError(t, err)
	assert.Equal(t, graphmodel.NodeTypeClass, a.NodeType())
	assert.Equal(t, graphmodel.NodeTypeFile, b.NodeType())
}

func TestNodeByIDNotFound(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.NodeByID(ctx, nil, "ghost")
	require.Error(t, err)
	assert.True(t, graphutil.IsStorageKind(err, graphutil.StorageNotFound))
}

func TestNodesByTypeOrderedAndDecoded(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	repo := buildFixtureRepository(t)
	z := graphmodel.NewJavaClassNode("zzz.Last", "Last", "zzz", graphmodel.JavaOriginBinary)
	require.NoError(t, repo.AddNode(z))
	require.NoError(t, s.Persist(ctx, repo.Snapshot()))

	classes, err := s.NodesByType(ctx, nil, graphmodel.NodeTypeClass)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, "com.acme.App", classes[0].ID())
	assert.Equal(t, "zzz.Last", classes[1].ID())
	assert.Equal(t, graphmodel.JavaOriginBinary, classes[1].(*graphmodel.JavaClassNode).Origin)
}

// A row whose JSON payload is corrupt must fail the load as a whole; no
// partially decoded node may leak into a snapshot.
func TestLoadFailsOnCorruptPayloadWithoutPartialResult(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.Persist(ctx, buildFixtureRepository(t).Snapshot()))

	sess, err := s.Session(ctx)
	require.NoError(t, err)
	_, err = sess.conn.ExecContext(ctx,
		`UPDATE nodes SET properties = '{truncated' WHERE id = 'com.acme.App'`)
	require.NoError(t, sess.Close())
	require.NoError(t, err)

	_, err = s.Load(ctx)
	require.Error(t, err)
	assert.True(t, graphutil.IsStorageKind(err, graphutil.StorageLoadFailed))

	_, err = s.NodeByID(ctx, nil, "com.acme.App")
	require.Error(t, err)
	assert.True(t, graphutil.IsStorageKind(err, graphutil.StorageLoadFailed))
}

// The persisted JSON is canonical: sorted deduplicated tag arrays, {} and
// [] rather than null for empty namespaces.
func TestPersistedJSONIsCanonical(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	repo := buildFixtureRepository(t)
	f, _ := repo.GetNode("/repo/src/App.java")
	dec := repo.Decorator(f)
	require.NoError(t, dec.EnableTag("zeta"))
	require.NoError(t, dec.EnableTag("alpha"))
	require.NoError(t, s.Persist(ctx, repo.Snapshot()))

	sess, err := s.Session(ctx)
	require.NoError(t, err)
	defer sess.Close()

	var tags, props, metrics string
	row := sess.conn.QueryRowContext(ctx,
		`SELECT tags, properties, metrics FROM nodes WHERE id = '/repo/src/App.java'`)
	require.NoError(t, row.Scan(&tags, &props, &metrics))
	assert.Equal(t, `["alpha","entrypoint","zeta"]`, tags)
	assert.Equal(t, `{"language":"java"}`, props)
	assert.Equal(t, `{}`, metrics)

	var pkgTags, pkgProps string
	row = sess.conn.QueryRowContext(ctx,
		`SELECT tags, properties FROM nodes WHERE id = 'com.acme'`)
	require.NoError(t, row.Scan(&pkgTags, &pkgProps))
	assert.Equal(t, `[]`, pkgTags)
	assert.Equal(t, `{}`, pkgProps)
}

// Scenario: a nested mapping property and a loc metric survive the
// persist/load round trip bit-exactly.
func TestRoundTripNestedPropertyAndMetric(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	repo := buildFixtureRepository(t)
	c, _ := repo.GetNode("com.acme.App")
	dec := repo.Decorator(c)
	require.NoError(t, dec.SetProperty("deployment", map[string]interface{}{
		"descriptor": "ejb-jar.xml",
		"beans":      []interface{}{"App", "AppHome"},
	}))
	require.NoError(t, dec.SetMetric("loc", 120))
	require.NoError(t, s.Persist(ctx, repo.Snapshot()))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	n, ok := loaded.GetNode("com.acme.App")
	require.True(t, ok)

	val, ok := n.Property("deployment")
	require.True(t, ok)
	nested, ok := val.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ejb-jar.xml", nested["descriptor"])
	assert.Equal(t, []interface{}{"App", "AppHome"}, nested["beans"])

	loc, ok := n.Metric("loc")
	require.True(t, ok)
	assert.Equal(t, 120.0, loc)
}
