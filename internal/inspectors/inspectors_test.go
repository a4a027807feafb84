/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package inspectors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jgraph/internal/collect"
	"jgraph/internal/graphmodel"
	"jgraph/internal/inspect"
	"jgraph/internal/repository"
)

func newTestContext(repo *repository.Repository) *inspect.Context {
	return &inspect.Context{Std: context.Background(), Repo: repo}
}

func mustAdd(t *testing.T, repo *repository.Repository, n graphmodel.Node) {
	t.Helper()
	require.NoError(t, repo.AddNode(n))
}

func TestFileLanguageDetector(t *testing.T) {
	tests := []struct {
		ext      string
		wantTags []string
	}{
		{".java", []string{TagFileDetected, TagLanguageJava}},
		{".jar", []string{TagFileDetected, TagJavaArchive}},
		{".class", []string{TagFileDetected, TagJavaBytecode}},
		{".md", []string{TagFileDetected}},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			repo := repository.New()
			f := graphmodel.NewProjectFile("/p/a"+tt.ext, tt.ext, 42)
			mustAdd(t, repo, f)

			insp := NewFileLanguageDetector()
			require.NoError(t, insp.Inspect(newTestContext(repo), repo.Decorator(f)))

			for _, tag := range tt.wantTags {
				assert.True(t, f.HasTag(tag), "missing tag %s", tag)
			}
			size, ok := f.Metric("size_bytes")
			require.True(t, ok)
			assert.Equal(t, 42.0, size)
			ext, ok := f.Property("extension")
			require.True(t, ok)
			assert.Equal(t, tt.ext, ext)
		})
	}
}

func TestFileLanguageDetectorSetsLanguageField(t *testing.T) {
	repo := repository.New()
	f := graphmodel.NewProjectFile("/p/App.java", ".java", 1)
	mustAdd(t, repo, f)

	require.NoError(t, NewFileLanguageDetector().Inspect(newTestContext(repo), repo.Decorator(f)))
	assert.Equal(t, "java", f.Language)
	lang, _ := f.Property("language")
	assert.Equal(t, "java", lang)
}

func TestJavaFileMetrics(t *testing.T) {
	dir := t.TempDir()
	src := "package x;\n\n// a comment\n/*\n block\n*/\npublic class Foo {\n}\n"
	path := filepath.Join(dir, "Foo.java")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	repo := repository.New()
	f := graphmodel.NewProjectFile(path, ".java", int64(len(src)))
	mustAdd(t, repo, f)

	require.NoError(t, NewJavaFileMetrics().Inspect(newTestContext(repo), repo.Decorator(f)))

	loc, _ := f.Metric("loc")
	assert.Equal(t, 8.0, loc)
	blank, _ := f.Metric("blank_lines")
	assert.Equal(t, 1.0, blank)
	comment, _ := f.Metric("comment_lines")
	assert.Equal(t, 4.0, comment)
	assert.True(t, f.HasTag(TagJavaMeasured))
}

func TestJavaClassLinkTagsAndEdges(t *testing.T) {
	repo := repository.New()

	file := graphmodel.NewProjectFile("/p/Foo.java", ".java", 1)
	pkg := graphmodel.NewPackageNode("x")
	parent := graphmodel.NewJavaClassNode("x.Base", "Base", "x", graphmodel.JavaOriginSource)
	iface := graphmodel.NewJavaClassNode("x.Iface", "Iface", "x", graphmodel.JavaOriginSource)
	cls := graphmodel.NewJavaClassNode("x.Foo", "Foo", "x", graphmodel.JavaOriginSource)
	cls.ParentClass = "x.Base"
	cls.Interfaces = []string{"x.Iface", "x.Missing"}

	for _, n := range []graphmodel.Node{file, pkg, parent, iface, cls} {
		mustAdd(t, repo, n)
	}
	require.NoError(t, repo.Decorator(cls).SetProperty(collect.SourceFileProperty, "/p/Foo.java"))

	insp := NewJavaClassLink()
	require.NoError(t, insp.Inspect(newTestContext(repo), repo.Decorator(cls)))

	assert.True(t, cls.HasTag(TagJavaClass))
	assert.True(t, cls.HasTag(TagJavaSource))

	edgeExists := func(s, tgt, typ string) bool {
		for _, e := range repo.EdgesFrom(s) {
			if e.TargetID == tgt && e.EdgeType == typ {
				return true
			}
		}
		return false
	}
	assert.True(t, edgeExists("/p/Foo.java", "x.Foo", graphmodel.EdgeContains))
	assert.True(t, edgeExists("x", "x.Foo", graphmodel.EdgeContains))
	assert.True(t, edgeExists("x.Foo", "x.Base", graphmodel.EdgeExtends))
	assert.True(t, edgeExists("x.Foo", "x.Base", graphmodel.EdgeDependsOn))
	assert.True(t, edgeExists("x.Foo", "x.Iface", graphmodel.EdgeImplements))
	assert.False(t, edgeExists("x.Foo", "x.Missing", graphmodel.EdgeImplements),
		"no edge to a type outside the graph")
}

func TestJavaClassLinkIsIdempotent(t *testing.T) {
	repo := repository.New()
	parent := graphmodel.NewJavaClassNode("x.Base", "Base", "x", graphmodel.JavaOriginBinary)
	cls := graphmodel.NewJavaClassNode("x.Foo", "Foo", "x", graphmodel.JavaOriginBinary)
	cls.ParentClass = "x.Base"
	mustAdd(t, repo, parent)
	mustAdd(t, repo, cls)

	insp := NewJavaClassLink()
	require.NoError(t, insp.Inspect(newTestContext(repo), repo.Decorator(cls)))
	assert.True(t, cls.HasTag(TagJavaBinary))

	before := repo.Revision()
	require.NoError(t, insp.Inspect(newTestContext(repo), repo.Decorator(cls)))
	assert.Equal(t, before, repo.Revision(), "second run must not change anything")
}

// Ten classes with an extends chain of depth 4 hanging off c0; the
// remaining classes are roots. The deepest class ends up with
// inheritance_depth 4 and running the global phase again changes nothing.
func TestInheritanceDepthOverChain(t *testing.T) {
	repo := repository.New()

	var classes []*graphmodel.JavaClassNode
	for i := 0; i < 10; i++ {
		c := graphmodel.NewJavaClassNode(fmt.Sprintf("x.C%d", i), fmt.Sprintf("C%d", i), "x", graphmodel.JavaOriginSource)
		classes = append(classes, c)
		mustAdd(t, repo, c)
		require.NoError(t, repo.Decorator(c).EnableTag(TagJavaClass))
	}
	for i := 1; i <= 4; i++ {
		_, _, err := repo.GetOrCreateEdge(graphmodel.NewEdge(
			fmt.Sprintf("x.C%d", i), fmt.Sprintf("x.C%d", i-1), graphmodel.EdgeExtends))
		require.NoError(t, err)
	}

	sched, err := inspect.NewScheduler(5, NewInheritanceDepth())
	require.NoError(t, err)
	report := &inspect.Report{}
	require.NoError(t, sched.RunGlobalPhase(newTestContext(repo), repo, graphmodel.NodeTypeClass, report))

	for i, c := range classes {
		depth, ok := c.Metric("inheritance_depth")
		require.True(t, ok, "depth not set on %s", c.ID())
		if i <= 4 {
			assert.Equal(t, float64(i), depth, "class %s", c.ID())
		} else {
			assert.Equal(t, 0.0, depth, "class %s", c.ID())
		}
	}

	before := repo.Revision()
	require.NoError(t, sched.RunGlobalPhase(newTestContext(repo), repo, graphmodel.NodeTypeClass, report))
	assert.Equal(t, before, repo.Revision(), "global phase must be stable on re-run")
	assert.Empty(t, report.ContractViolations)
}

func TestInheritanceDepthReportsCycle(t *testing.T) {
	repo := repository.New()
	a := graphmodel.NewJavaClassNode("x.A", "A", "x", graphmodel.JavaOriginSource)
	b := graphmodel.NewJavaClassNode("x.B", "B", "x", graphmodel.JavaOriginSource)
	mustAdd(t, repo, a)
	mustAdd(t, repo, b)
	for _, n := range []*graphmodel.JavaClassNode{a, b} {
		require.NoError(t, repo.Decorator(n).EnableTag(TagJavaClass))
	}
	_, _, err := repo.GetOrCreateEdge(graphmodel.NewEdge("x.A", "x.B", graphmodel.EdgeExtends))
	require.NoError(t, err)
	_, _, err = repo.GetOrCreateEdge(graphmodel.NewEdge("x.B", "x.A", graphmodel.EdgeExtends))
	require.NoError(t, err)

	err = NewInheritanceDepth().Inspect(newTestContext(repo), repo.Decorator(a))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inheritance cycle")
}

func TestSelect(t *testing.T) {
	pool := Default()

	assert.Len(t, Select(pool, nil), len(pool))

	picked := Select(pool, []string{NameFileLanguage, NameInheritanceDepth})
	require.Len(t, picked, 2)
	assert.Equal(t, NameFileLanguage, picked[0].Descriptor().Name)
	assert.Equal(t, NameInheritanceDepth, picked[1].Descriptor().Name)
}
