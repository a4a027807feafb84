/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package inspect

import (
	"fmt"

	"jgraph/internal/graphutil"
	"jgraph/internal/jlog"
)

var log = jlog.Get(jlog.ScopeInspect)

/*
Report accumulates everything a scheduler run produced besides graph
mutations: per-node inspection errors, contract violations, and
non-convergence warnings - the non-fatal error categories. A Report never holds a ConfigurationError - that is always
fatal and returned directly from Run.
*/
type Report struct {
	InspectionErrors   []*graphutil.InspectionError
	ContractViolations []*graphutil.ContractViolation
	MaxPassesWarnings  []string
}

func (r *Report) addInspectionError(inspector, nodeID string, cause error) {
	err := graphutil.NewInspectionError(inspector, nodeID, cause.Error(), cause)
	r.InspectionErrors = append(r.InspectionErrors, err)
	log.Warning(err.Error())
}

func (r *Report) addContractViolation(detail string) {
	cv := graphutil.NewContractViolation(detail)
	r.ContractViolations = append(r.ContractViolations, cv)
	log.Warning(cv.Error())
}

func (r *Report) addMaxPassesWarning(phase string, changedBy map[string]bool) {
	names := make([]string, 0, len(changedBy))
	for n := range changedBy {
		names = append(names, n)
	}
	msg := fmt.Sprintf("%s: max passes reached without convergence; still changing nodes: %v", phase, names)
	r.MaxPassesWarnings = append(r.MaxPassesWarnings, msg)
	log.Warning(msg)
}

/*
HasErrors reports whether anything non-fatal was recorded, for a caller
deciding whether to print a summary.
*/
func (r *Report) HasErrors() bool {
	return len(r.InspectionErrors) > 0 || len(r.ContractViolations) > 0 || len(r.MaxPassesWarnings) > 0
}
