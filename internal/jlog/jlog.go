/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package jlog is a thin wrapper around github.com/krotik/common/logutil,
keeping its scope/level/sink idiom (GetLogger(scope), AddLogSink,
SimpleFormatter) as the single logging convention for this kernel.
Each package in this module logs to its own scope name ("graph",
"store", "inspect", "collect", "run") exactly as logutil expects, so a
sink registered for "inspect" also sees "inspect.scheduler" messages.
*/
package jlog

import (
	"os"

	"github.com/krotik/common/logutil"
)

// Scope names used across the kernel.
const (
	ScopeGraph   = "graph"
	ScopeStore   = "store"
	ScopeCollect = "collect"
	ScopeInspect = "inspect"
	ScopeRun     = "run"
)

/*
Get returns the logger for scope. Callers hold on to the returned Logger
for the lifetime of their component rather than calling Get per message.
*/
func Get(scope string) logutil.Logger {
	return logutil.GetLogger(scope)
}

/*
InitConsole wires every scope used by this module to a single console
sink at the given level. Existing sinks are cleared first, so a repeat
call replaces the console sink rather than adding a second one.
*/
func InitConsole(level logutil.Level) {
	logutil.ClearLogSinks()
	formatter := logutil.SimpleFormatter()
	for _, scope := range []string{ScopeGraph, ScopeStore, ScopeCollect, ScopeInspect, ScopeRun} {
		logutil.GetLogger(scope).AddLogSink(level, formatter, os.Stderr)
	}
}
