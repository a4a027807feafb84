/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package inspectors holds the core inspector set: file-type and language
detection, Java source metrics, structural linking of classes to their
files, packages and supertypes, and the global inheritance-depth metric.

Each inspector is an explicit value registered by the caller; there is no
discovery mechanism. Default() returns the full core set in a stable
order - the scheduler reorders by Needs anyway, so the order here only
affects the diagnostics of a registration error.
*/
package inspectors

import "jgraph/internal/inspect"

// Inspector names, referenced by Needs declarations and by the
// -inspectors CLI filter.
const (
	NameFileLanguage     = "file-language-detector"
	NameJavaFileMetrics  = "java-file-metrics"
	NameJavaClassLink    = "java-class-link"
	NameInheritanceDepth = "inheritance-depth"
)

// Tags set by the core inspector set. Downstream consumers (the
// migration engine) select nodes by these.
const (
	TagFileDetected = "file:detected"
	TagLanguageJava = "language:java"
	TagJavaBytecode = "java:bytecode"
	TagJavaArchive  = "java:archive"
	TagJavaMeasured = "java:measured"
	TagJavaClass    = "java:class"
	TagJavaSource   = "java:source"
	TagJavaBinary   = "java:binary"
)

/*
Default returns the core inspector set.
*/
func Default() []inspect.Inspector {
	return []inspect.Inspector{
		NewFileLanguageDetector(),
		NewJavaFileMetrics(),
		NewJavaClassLink(),
		NewInheritanceDepth(),
	}
}

/*
Select filters the full inspector pool down to the given names. An empty
names list selects everything. Unknown names are ignored here - the
caller validates them against the pool so a typo is reported as a
configuration problem with the full list of known names, not silently
dropped.
*/
func Select(pool []inspect.Inspector, names []string) []inspect.Inspector {
	if len(names) == 0 {
		return pool
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var out []inspect.Inspector
	for _, insp := range pool {
		if wanted[insp.Descriptor().Name] {
			out = append(out, insp)
		}
	}
	return out
}
