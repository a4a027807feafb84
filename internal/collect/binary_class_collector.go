/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package collect

import (
	"archive/zip"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"jgraph/internal/graphmodel"
)

var archiveExtensions = map[string]bool{".jar": true, ".war": true, ".ear": true}

const classMagic = 0xCAFEBABE

/*
BinaryClassCollector reads compiled .class bytes - standalone or inside a
.jar/.war/.ear archive - and yields JavaClassNode values with
graphmodel.JavaOriginBinary set. It does not run a full bytecode parser;
the fully-qualified name is recovered from the archive entry's path (the JVM class file
format guarantees a .class file's entry path mirrors its package), and
the magic number is checked so a misnamed or truncated entry is reported
as a CollectionError rather than silently producing a bogus node.
*/
type BinaryClassCollector struct{}

var _ Collector[*graphmodel.ProjectFile, *graphmodel.JavaClassNode] = (*BinaryClassCollector)(nil)

func NewBinaryClassCollector() *BinaryClassCollector { return &BinaryClassCollector{} }

func (c *BinaryClassCollector) Name() string { return "binary-class-collector" }

/*
CanCollect reports whether a ProjectFile names a .class file or an
archive this collector can look inside.
*/
func (c *BinaryClassCollector) CanCollect(f *graphmodel.ProjectFile) bool {
	ext := strings.ToLower(f.Extension)
	return ext == ".class" || archiveExtensions[ext]
}

/*
Collect reads f.Path and returns the JavaClassNode(s) found there: one
for a standalone .class file, or one per .class entry for an archive.
Entries that fail the magic-number check are recorded as CollectionErrors
and skipped; the rest of the archive is still processed.
*/
func (c *BinaryClassCollector) Collect(ctx *CollectionContext, f *graphmodel.ProjectFile) ([]*graphmodel.JavaClassNode, *Result) {
	result := &Result{}
	ext := strings.ToLower(f.Extension)

	if ext == ".class" {
		n, err := classFromPath(ctx, f.Path, f.Path)
		if err != nil {
			result.recordError(f.Path, "malformed class file", err)
			return nil, result
		}
		if alreadyCollected(ctx, n.ID()) {
			return nil, result
		}
		result.Added++
		return []*graphmodel.JavaClassNode{n}, result
	}

	r, err := zip.OpenReader(f.Path)
	if err != nil {
		result.recordError(f.Path, "could not open archive", err)
		return nil, result
	}
	defer r.Close()

	var out []*graphmodel.JavaClassNode
	for _, entry := range r.File {
		if entry.FileInfo().IsDir() || !strings.HasSuffix(entry.Name, ".class") {
			continue
		}

		rc, openErr := entry.Open()
		if openErr != nil {
			result.recordError(f.Path+"!"+entry.Name, "could not open entry", openErr)
			continue
		}

		magic := make([]byte, 4)
		_, readErr := io.ReadFull(rc, magic)
		rc.Close()
		if readErr != nil {
			result.recordError(f.Path+"!"+entry.Name, "could not read entry header", readErr)
			continue
		}
		if binary.BigEndian.Uint32(magic) != classMagic {
			result.recordError(f.Path+"!"+entry.Name, "not a class file (bad magic number)", nil)
			continue
		}

		n, err := classFromPath(ctx, f.Path+"!"+entry.Name, entry.Name)
		if err != nil {
			result.recordError(f.Path+"!"+entry.Name, "malformed archive entry path", err)
			continue
		}
		if alreadyCollected(ctx, n.ID()) {
			continue
		}
		out = append(out, n)
		result.Added++
	}

	return out, result
}

// classFromPath derives a fully-qualified class name from a .class entry
// path (e.g. "com/acme/App.class" -> "com.acme.App"). source identifies
// the originating file for error messages only.
func classFromPath(ctx *CollectionContext, source, entryPath string) (*graphmodel.JavaClassNode, error) {
	trimmed := strings.TrimSuffix(entryPath, ".class")
	trimmed = strings.ReplaceAll(trimmed, "\\", "/")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return nil, fmt.Errorf("%s: empty class entry name", source)
	}

	fqn := strings.ReplaceAll(trimmed, "/", ".")
	simpleName := fqn
	pkg := ""
	if idx := strings.LastIndex(fqn, "."); idx >= 0 {
		pkg = fqn[:idx]
		simpleName = fqn[idx+1:]
	}

	return graphmodel.NewJavaClassNode(fqn, simpleName, pkg, graphmodel.JavaOriginBinary), nil
}

// alreadyCollected reports whether fqn already names a node in ctx.Repo,
// so a re-run over the same archive does not attempt a duplicate AddNode.
func alreadyCollected(ctx *CollectionContext, fqn string) bool {
	if ctx.Repo == nil {
		return false
	}
	_, exists := ctx.Repo.GetNode(fqn)
	return exists
}
