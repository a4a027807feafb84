/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package config holds the kernel's configuration: a map[string]interface{}
of defaults merged with a file on disk via fileutil.LoadConfig, with
typed accessors on top. Keys cover the analyze entry point
(project_root, database_path, max_passes, inspectors, package_filters)
plus the error budget and report location.
*/
package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/krotik/common/errorutil"
	"github.com/krotik/common/fileutil"
)

/*
DefaultConfigFile is the conventional config file name. Nothing in this
module loads it implicitly: a config file is read only from the path
passed to LoadConfigFile (which creates it with defaults if absent).
*/
var DefaultConfigFile = "jgraph.config.json"

/*
Known configuration keys, matching the "analyze project" entry point:
project_root, database_path, inspectors,
max_passes, package_filters, plus the error budget that caps how many
non-fatal errors a run tolerates before it is declared failed.
*/
const (
	ProjectRoot     = "ProjectRoot"
	DatabasePath    = "DatabasePath"
	MaxPasses       = "MaxPasses"
	Inspectors      = "Inspectors"
	PackageFilters  = "PackageFilters"
	ErrorBudget     = "ErrorBudget"
	ReportPath      = "ReportPath"
	ExcludePatterns = "ExcludePatterns"
)

/*
DefaultConfig is the default configuration. ProjectRoot and DatabasePath
are left empty here; callers fill them in from CLI flags after calling
LoadDefaultConfig or LoadConfigFile (flags override file-backed
defaults).
*/
var DefaultConfig = map[string]interface{}{
	ProjectRoot:     "",
	DatabasePath:    "",
	MaxPasses:       5.0,
	Inspectors:      []interface{}{},
	PackageFilters:  []interface{}{},
	ExcludePatterns: []interface{}{},
	ErrorBudget:     0.0, // 0 means unbounded
	ReportPath:      "",
}

/*
Config is the actual configuration map in effect for the current run.
*/
var Config map[string]interface{}

/*
LoadConfigFile loads a given config file, creating it with the default
options if it does not already exist.
*/
func LoadConfigFile(configfile string) error {
	var err error
	Config, err = fileutil.LoadConfig(configfile, DefaultConfig)
	return err
}

/*
LoadDefaultConfig loads the default configuration without touching disk.
*/
func LoadDefaultConfig() {
	data := make(map[string]interface{})
	for k, v := range DefaultConfig {
		data[k] = v
	}
	Config = data
}

// Helper functions
// ================

/*
Str reads a config value as a string.
*/
func Str(key string) string {
	return fmt.Sprint(Config[key])
}

/*
Int reads a config value as an int64, asserting it parses cleanly - a
malformed config file surfaces through errorutil.AssertTrue as a panic
at startup, before any analysis phase has run.
*/
func Int(key string) int64 {
	ret, err := strconv.ParseInt(strings.TrimSuffix(fmt.Sprint(Config[key]), ".0"), 10, 64)
	if err != nil {
		// config values round-trip through JSON as float64; fall back to
		// parsing as a float and truncating rather than failing outright.
		f, ferr := strconv.ParseFloat(fmt.Sprint(Config[key]), 64)
		errorutil.AssertTrue(ferr == nil,
			fmt.Sprintf("could not parse config key %v: %v", key, err))
		return int64(f)
	}
	return ret
}

/*
StringSlice reads a config value as a []string. Values loaded from JSON
arrive as []interface{}; this normalizes them.
*/
func StringSlice(key string) []string {
	raw, ok := Config[key].([]interface{})
	if !ok {
		if existing, ok := Config[key].([]string); ok {
			return existing
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

/*
AnalysisDir returns the {project_root}/.analysis directory where the
graph database and derived artifacts (run reports, exports) live.
*/
func AnalysisDir() string {
	return filepath.Join(Str(ProjectRoot), ".analysis")
}
