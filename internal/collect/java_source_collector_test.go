/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package collect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jgraph/internal/graphmodel"
	"jgraph/internal/repository"
)

func writeJava(t *testing.T, dir, name, src string) *graphmodel.ProjectFile {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return graphmodel.NewProjectFile(path, ".java", int64(len(src)))
}

func TestJavaSourceCollectorSimpleClass(t *testing.T) {
	dir := t.TempDir()
	f := writeJava(t, dir, "Foo.java", "package x;\npublic class Foo {}\n")

	c := NewJavaSourceCollector()
	defer c.Close()

	require.True(t, c.CanCollect(f))

	nodes, result := c.Collect(&CollectionContext{ProjectRoot: dir}, f)
	require.Empty(t, result.Errors)
	require.Len(t, nodes, 1)

	n := nodes[0]
	assert.Equal(t, "x.Foo", n.ID())
	assert.Equal(t, "Foo", n.SimpleName)
	assert.Equal(t, "Foo", n.DisplayLabel())
	assert.Equal(t, "x", n.Package)
	assert.Equal(t, graphmodel.JavaOriginSource, n.Origin)

	src, ok := n.Property(SourceFileProperty)
	require.True(t, ok)
	assert.Equal(t, f.Path, src)
}

func TestJavaSourceCollectorExtendsAndImplements(t *testing.T) {
	dir := t.TempDir()
	f := writeJava(t, dir, "Svc.java", `package app;

import app.base.AbstractService;
import java.io.Serializable;

public class Svc extends AbstractService implements Serializable, Runnable {
	public void run() {}
}
`)

	c := NewJavaSourceCollector()
	defer c.Close()

	nodes, result := c.Collect(&CollectionContext{ProjectRoot: dir}, f)
	require.Empty(t, result.Errors)
	require.Len(t, nodes, 1)

	n := nodes[0]
	assert.Equal(t, "app.Svc", n.ID())
	assert.Equal(t, "app.base.AbstractService", n.ParentClass)
	// Serializable resolves through its import; Runnable has no import
	// and falls back to the file's own package.
	assert.Equal(t, []string{"java.io.Serializable", "app.Runnable"}, n.Interfaces)
}

func TestJavaSourceCollectorNestedAndMultipleTypes(t *testing.T) {
	dir := t.TempDir()
	f := writeJava(t, dir, "Outer.java", `package x;

public class Outer {
	static class Inner {}
}

interface Helper {}

enum Mode { ON, OFF }
`)

	c := NewJavaSourceCollector()
	defer c.Close()

	nodes, result := c.Collect(&CollectionContext{ProjectRoot: dir}, f)
	require.Empty(t, result.Errors)

	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID())
	}
	assert.ElementsMatch(t, []string{"x.Outer", "x.Outer.Inner", "x.Helper", "x.Mode"}, ids)
}

func TestJavaSourceCollectorDefaultPackage(t *testing.T) {
	dir := t.TempDir()
	f := writeJava(t, dir, "Main.java", "public class Main {}\n")

	c := NewJavaSourceCollector()
	defer c.Close()

	nodes, result := c.Collect(&CollectionContext{ProjectRoot: dir}, f)
	require.Empty(t, result.Errors)
	require.Len(t, nodes, 1)
	assert.Equal(t, "Main", nodes[0].ID())
	assert.Equal(t, "", nodes[0].Package)
}

func TestJavaSourceCollectorSkipsAlreadyCollectedClass(t *testing.T) {
	dir := t.TempDir()
	f := writeJava(t, dir, "Foo.java", "package x;\npublic class Foo {}\n")

	repo := repository.New()
	existing := graphmodel.NewJavaClassNode("x.Foo", "Foo", "x", graphmodel.JavaOriginBinary)
	require.NoError(t, repo.AddNode(existing))

	c := NewJavaSourceCollector()
	defer c.Close()

	nodes, result := c.Collect(&CollectionContext{Repo: repo, ProjectRoot: dir}, f)
	assert.Empty(t, nodes)
	assert.Equal(t, 0, result.Added)
	assert.Empty(t, result.Errors)
}

func TestJavaSourceCollectorUnreadableFile(t *testing.T) {
	f := graphmodel.NewProjectFile("/does/not/exist/Foo.java", ".java", 0)

	c := NewJavaSourceCollector()
	defer c.Close()

	nodes, result := c.Collect(&CollectionContext{}, f)
	assert.Empty(t, nodes)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error(), "could not read source file")
}
