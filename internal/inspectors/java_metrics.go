/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package inspectors

import (
	"bufio"
	"os"
	"strings"

	"jgraph/internal/graphmodel"
	"jgraph/internal/inspect"
)

/*
JavaFileMetrics measures Java source files: lines of code, blank lines
and comment lines (a line-based heuristic - block comment delimiters
count the lines they open and close on, not the code share of mixed
lines). Runs after language detection on files tagged language:java.
*/
type JavaFileMetrics struct{}

func NewJavaFileMetrics() *JavaFileMetrics { return &JavaFileMetrics{} }

func (i *JavaFileMetrics) Descriptor() inspect.Descriptor {
	return inspect.Descriptor{
		Name:          NameJavaFileMetrics,
		Requires:      []string{TagLanguageJava},
		Needs:         []string{NameFileLanguage},
		Produces:      []string{TagJavaMeasured},
		SupportedKind: graphmodel.NodeTypeFile,
	}
}

func (i *JavaFileMetrics) Inspect(ctx *inspect.Context, dec *graphmodel.Decorator) error {
	f, ok := dec.Node().(*graphmodel.ProjectFile)
	if !ok {
		return nil
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	var loc, blank, comment int
	inBlock := false

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		loc++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			blank++
		case inBlock:
			comment++
			if strings.Contains(line, "*/") {
				inBlock = false
			}
		case strings.HasPrefix(line, "//"):
			comment++
		case strings.HasPrefix(line, "/*"):
			comment++
			if !strings.Contains(line, "*/") {
				inBlock = true
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if err := dec.SetMetric("loc", float64(loc)); err != nil {
		return err
	}
	if err := dec.SetMetric("blank_lines", float64(blank)); err != nil {
		return err
	}
	if err := dec.SetMetric("comment_lines", float64(comment)); err != nil {
		return err
	}
	return dec.EnableTag(TagJavaMeasured)
}
