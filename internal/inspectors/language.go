/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package inspectors

import (
	"strings"

	"jgraph/internal/graphmodel"
	"jgraph/internal/inspect"
)

// languageByExtension maps file extensions to the language tag a
// FileLanguageDetector sets. Only languages the migration engine asks
// about are listed; everything else just gets file:detected.
var languageByExtension = map[string]string{
	".java":       "java",
	".kt":         "kotlin",
	".groovy":     "groovy",
	".scala":      "scala",
	".xml":        "xml",
	".properties": "properties",
	".yaml":       "yaml",
	".yml":        "yaml",
	".sql":        "sql",
	".jsp":        "jsp",
}

// archiveExtensions lists Java deployment archives a binary collector
// can look inside.
var archiveExtensions = map[string]bool{".jar": true, ".war": true, ".ear": true}

/*
FileLanguageDetector is the cheap first-phase file inspector: it tags
every ProjectFile with file:detected, a language:<name> tag where the
extension is recognized, and java:bytecode / java:archive markers that
the collection phase uses to route files to the binary class collector.
It also records the extension as a property and the size as a metric so
both are queryable without touching the variant struct.
*/
type FileLanguageDetector struct{}

func NewFileLanguageDetector() *FileLanguageDetector { return &FileLanguageDetector{} }

func (i *FileLanguageDetector) Descriptor() inspect.Descriptor {
	return inspect.Descriptor{
		Name:          NameFileLanguage,
		Produces:      []string{TagFileDetected},
		SupportedKind: graphmodel.NodeTypeFile,
	}
}

func (i *FileLanguageDetector) Inspect(ctx *inspect.Context, dec *graphmodel.Decorator) error {
	f, ok := dec.Node().(*graphmodel.ProjectFile)
	if !ok {
		return nil
	}

	ext := strings.ToLower(f.Extension)

	if lang, ok := languageByExtension[ext]; ok {
		if err := dec.EnableTag("language:" + lang); err != nil {
			return err
		}
		if err := dec.SetProperty("language", lang); err != nil {
			return err
		}
		f.Language = lang
	}
	if ext == ".class" {
		if err := dec.EnableTag(TagJavaBytecode); err != nil {
			return err
		}
	}
	if archiveExtensions[ext] {
		if err := dec.EnableTag(TagJavaArchive); err != nil {
			return err
		}
	}

	if err := dec.SetProperty("extension", f.Extension); err != nil {
		return err
	}
	if err := dec.SetMetric("size_bytes", float64(f.Size)); err != nil {
		return err
	}
	return dec.EnableTag(TagFileDetected)
}
