/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package run

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"jgraph/internal/graphutil"
	"jgraph/internal/inspect"
)

/*
Report is the run report written to .analysis/run-report.json on every
run, successful or not. It aggregates the non-fatal error categories plus
the one fatal error, if any, that stopped the run.
*/
type Report struct {
	RunID       string    `json:"run_id"`
	ProjectRoot string    `json:"project_root"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`

	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`

	CollectionErrors   []string `json:"collection_errors,omitempty"`
	InspectionErrors   []string `json:"inspection_errors,omitempty"`
	ContractViolations []string `json:"contract_violations,omitempty"`
	MaxPassesWarnings  []string `json:"max_passes_warnings,omitempty"`

	FatalError string `json:"fatal_error,omitempty"`
	Cancelled  bool   `json:"cancelled,omitempty"`
	Success    bool   `json:"success"`
}

func (r *Report) addCollectionErrors(errs []*graphutil.CollectionError) {
	for _, e := range errs {
		r.CollectionErrors = append(r.CollectionErrors, e.Error())
	}
}

func (r *Report) absorb(sr *inspect.Report) {
	for _, e := range sr.InspectionErrors {
		r.InspectionErrors = append(r.InspectionErrors, e.Error())
	}
	for _, cv := range sr.ContractViolations {
		r.ContractViolations = append(r.ContractViolations, cv.Error())
	}
	r.MaxPassesWarnings = append(r.MaxPassesWarnings, sr.MaxPassesWarnings...)
}

// errorCount is what the error budget is checked against: every non-fatal
// error, not warnings.
func (r *Report) errorCount() int {
	return len(r.CollectionErrors) + len(r.InspectionErrors)
}

/*
Write serializes the report as indented JSON to path, creating the parent
directory if needed.
*/
func (r *Report) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
