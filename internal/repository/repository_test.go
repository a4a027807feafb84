package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jgraph/internal/graphmodel"
	"jgraph/internal/graphutil"
)

func TestAddNodeRejectsDuplicateID(t *testing.T) {
	r := New()
	f := graphmodel.NewProjectFile("/src/App.java", ".java", 10)

	require.NoError(t, r.AddNode(f))

	dup := graphmodel.NewProjectFile("/src/App.java", ".java", 99)
	err := r.AddNode(dup)
	require.Error(t, err)
	assert.True(t, graphutil.IsStorageKind(err, graphutil.StorageAlreadyExists))
}

func TestGetNodeAndNodesOfType(t *testing.T) {
	r := New()
	f1 := graphmodel.NewProjectFile("/src/A.java", ".java", 1)
	f2 := graphmodel.NewProjectFile("/src/B.java", ".java", 2)
	p := graphmodel.NewPackageNode("com.acme")

	require.NoError(t, r.AddNode(f1))
	require.NoError(t, r.AddNode(f2))
	require.NoError(t, r.AddNode(p))

	n, ok := r.GetNode("/src/A.java")
	require.True(t, ok)
	assert.Equal(t, f1, n)

	_, ok = r.GetNode("/does/not/exist")
	assert.False(t, ok)

	files := r.NodesOfType(graphmodel.NodeTypeFile)
	require.Len(t, files, 2)
	assert.Equal(t, "/src/A.java", files[0].ID())
	assert.Equal(t, "/src/B.java", files[1].ID())

	assert.Equal(t, 3, r.NodeCount())
}

func TestGetOrCreateEdgeRejectsDanglingEndpoints(t *testing.T) {
	r := New()
	f := graphmodel.NewProjectFile("/src/App.java", ".java", 10)
	require.NoError(t, r.AddNode(f))

	e := graphmodel.NewEdge("/src/App.java", "com.acme.Missing", graphmodel.EdgeContains)
	_, created, err := r.GetOrCreateEdge(e)
	require.Error(t, err)
	assert.False(t, created)
	assert.True(t, graphutil.IsStorageKind(err, graphutil.StorageDanglingReference))
}

func TestGetOrCreateEdgeIsIdempotentOnTriple(t *testing.T) {
	r := New()
	f := graphmodel.NewProjectFile("/src/App.java", ".java", 10)
	c := graphmodel.NewJavaClassNode("com.acme.App", "App", "com.acme", graphmodel.JavaOriginSource)
	require.NoError(t, r.AddNode(f))
	require.NoError(t, r.AddNode(c))

	e1 := graphmodel.NewEdge("/src/App.java", "com.acme.App", graphmodel.EdgeContains)
	got1, created1, err := r.GetOrCreateEdge(e1)
	require.NoError(t, err)
	assert.True(t, created1)
	assert.Same(t, e1, got1)

	e2 := graphmodel.NewEdge("/src/App.java", "com.acme.App", graphmodel.EdgeContains)
	got2, created2, err := r.GetOrCreateEdge(e2)
	require.NoError(t, err)
	assert.False(t, created2)
	assert.Same(t, e1, got2, "the first edge for this triple wins")

	assert.Len(t, r.EdgesFrom("/src/App.java"), 1)
	assert.Len(t, r.EdgesTo("com.acme.App"), 1)
	assert.Len(t, r.EdgesOfType(graphmodel.EdgeContains), 1)
}

func TestRevisionIncrementsOnNodeEdgeAndDecoratorWrites(t *testing.T) {
	r := New()
	f := graphmodel.NewProjectFile("/src/App.java", ".java", 10)
	c := graphmodel.NewJavaClassNode("com.acme.App", "App", "com.acme", graphmodel.JavaOriginSource)

	rev0 := r.Revision()
	require.NoError(t, r.AddNode(f))
	require.NoError(t, r.AddNode(c))
	rev1 := r.Revision()
	assert.Greater(t, rev1, rev0)

	_, _, err := r.GetOrCreateEdge(graphmodel.NewEdge(f.ID(), c.ID(), graphmodel.EdgeContains))
	require.NoError(t, err)
	rev2 := r.Revision()
	assert.Greater(t, rev2, rev1)

	dec := r.Decorator(f)
	require.NoError(t, dec.SetProperty("language", "java"))
	rev3 := r.Revision()
	assert.Greater(t, rev3, rev2)

	// A duplicate edge request does not bump the revision.
	_, created, err := r.GetOrCreateEdge(graphmodel.NewEdge(f.ID(), c.ID(), graphmodel.EdgeContains))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, rev3, r.Revision())
}

func TestSnapshotIsStableAcrossLaterMutation(t *testing.T) {
	r := New()
	f := graphmodel.NewProjectFile("/src/App.java", ".java", 10)
	require.NoError(t, r.AddNode(f))

	snap := r.Snapshot()
	require.Len(t, snap.Nodes(), 1)
	require.Empty(t, snap.Edges())

	c := graphmodel.NewJavaClassNode("com.acme.App", "App", "com.acme", graphmodel.JavaOriginSource)
	require.NoError(t, r.AddNode(c))

	assert.Len(t, snap.Nodes(), 1, "membership of an already-taken snapshot must not change")
	assert.Equal(t, 2, r.NodeCount())
}

func TestClearAllResetsRepository(t *testing.T) {
	r := New()
	f := graphmodel.NewProjectFile("/src/App.java", ".java", 10)
	require.NoError(t, r.AddNode(f))

	r.ClearAll()

	assert.Equal(t, 0, r.NodeCount())
	assert.Equal(t, uint64(0), r.Revision())
	_, ok := r.GetNode("/src/App.java")
	assert.False(t, ok)
}
