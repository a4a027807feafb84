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

	"jgraph/internal/graphmodel"
)

/*
SourceFileCollector walks a project root and yields a ProjectFile node for
every regular file that survives the include/exclude filters. Size and
extension are recorded here; everything else (language tags, metrics) is
left to file-level inspectors.
*/
type SourceFileCollector struct {
	// Include, if non-empty, restricts collection to files whose
	// extension (with leading dot, e.g. ".java") appears in this set. An
	// empty set means "every extension".
	Include map[string]bool
	// ExcludeDirs names directory basenames never descended into (e.g.
	// ".git", "node_modules", "target", ".analysis").
	ExcludeDirs map[string]bool
	// ExcludeGlobs are filepath.Match patterns evaluated against a file's
	// path relative to the project root; a match excludes the file.
	ExcludeGlobs []string
}

var _ Collector[string, *graphmodel.ProjectFile] = (*SourceFileCollector)(nil)

/*
NewSourceFileCollector returns a SourceFileCollector with the defaults
this kernel ships: no extension restriction, and the usual VCS/build/
tool directories excluded (including the store's own .analysis output,
so re-running analysis never collects its own prior artifacts as input).
*/
func NewSourceFileCollector() *SourceFileCollector {
	return &SourceFileCollector{
		Include: map[string]bool{},
		ExcludeDirs: map[string]bool{
			".git": true, ".svn": true, ".hg": true,
			"node_modules": true, "target": true, "build": true,
			".analysis": true,
		},
	}
}

func (c *SourceFileCollector) Name() string { return "source-file-collector" }

/*
CanCollect reports whether path survives this collector's filters,
without touching the filesystem beyond what the caller already did to
produce path.
*/
func (c *SourceFileCollector) CanCollect(path string) bool {
	if len(c.Include) > 0 && !c.Include[filepath.Ext(path)] {
		return false
	}
	for _, pattern := range c.ExcludeGlobs {
		if ok, _ := filepath.Match(pattern, path); ok {
			return false
		}
	}
	return true
}

/*
Collect walks root and returns one ProjectFile per surviving
regular file. A per-file stat failure is recoverable: it is recorded on
the returned Result and the walk continues.
*/
func (c *SourceFileCollector) Collect(ctx *CollectionContext, root string) ([]*graphmodel.ProjectFile, *Result) {
	result := &Result{}
	var out []*graphmodel.ProjectFile

	walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			result.recordError(path, "walk failed", err)
			return nil
		}
		if d.IsDir() {
			if c.ExcludeDirs[d.Name()] && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr == nil {
			for _, pattern := range c.ExcludeGlobs {
				if ok, _ := filepath.Match(pattern, rel); ok {
					return nil
				}
			}
		}

		ext := filepath.Ext(path)
		if len(c.Include) > 0 && !c.Include[ext] {
			return nil
		}

		info, statErr := d.Info()
		if statErr != nil {
			result.recordError(path, "stat failed", statErr)
			return nil
		}

		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			result.recordError(path, "could not resolve absolute path", absErr)
			return nil
		}

		if ctx.Repo != nil {
			if _, exists := ctx.Repo.GetNode(abs); exists {
				return nil // already collected, e.g. a re-run over the same root
			}
		}

		out = append(out, graphmodel.NewProjectFile(abs, ext, info.Size()))
		result.Added++
		return nil
	})
	if walkErr != nil {
		result.recordError(root, "walk aborted", walkErr)
	}

	return out, result
}
