package graphmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoratorInvokesOnWriteOnlyOnSuccess(t *testing.T) {
	p := NewPackageNode("com.acme")
	writes := 0
	dec := NewDecorator(p, func() { writes++ })

	require.NoError(t, dec.SetProperty("k", "v"))
	assert.Equal(t, 1, writes)

	assert.Error(t, dec.SetProperty("", "v"))
	assert.Equal(t, 1, writes, "a failed mutation must not bump the revision counter")

	require.NoError(t, dec.SetMetric("fan_in", 2))
	assert.Equal(t, 2, writes)

	require.NoError(t, dec.EnableTag("reviewed"))
	assert.Equal(t, 3, writes)

	dec.EnableTag("reviewed") // already set, no-op path
	assert.Equal(t, 3, writes, "re-enabling an already-set tag must not notify")

	dec.DisableTag("reviewed")
	assert.Equal(t, 4, writes)

	dec.DisableTag("reviewed") // already absent, no-op path
	assert.Equal(t, 4, writes, "disabling an absent tag must not notify")
}

func TestDecoratorSameValueWriteIsQuiet(t *testing.T) {
	p := NewPackageNode("com.acme")
	writes := 0
	dec := NewDecorator(p, func() { writes++ })

	require.NoError(t, dec.SetProperty("k", 7))
	require.NoError(t, dec.SetMetric("loc", 3))
	assert.Equal(t, 2, writes)

	// identical rewrites, including across int widths, stay quiet so
	// repeated passes can converge
	require.NoError(t, dec.SetProperty("k", int64(7)))
	require.NoError(t, dec.SetMetric("loc", 3))
	assert.Equal(t, 2, writes)

	require.NoError(t, dec.SetProperty("k", 8))
	assert.Equal(t, 3, writes)
}

func TestDecoratorToleratesNilOnWrite(t *testing.T) {
	p := NewPackageNode("com.acme")
	dec := NewDecorator(p, nil)

	assert.NotPanics(t, func() {
		require.NoError(t, dec.SetProperty("k", "v"))
	})
}

func TestDecoratorExposesWrappedNode(t *testing.T) {
	p := NewPackageNode("com.acme")
	dec := NewDecorator(p, nil)

	assert.Same(t, Node(p), dec.Node())
}
