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

	"jgraph/internal/graphmodel"
	"jgraph/internal/graphutil"
	"jgraph/internal/repository"
)

/*
DefaultMaxPasses is the default ceiling on multi-pass iterations before
the scheduler gives up on convergence and moves on with a warning.
*/
const DefaultMaxPasses = 5

/*
Scheduler runs a registered set of Inspectors over a repository in a
fixed phase order: file-level detection, collection (driven by the
caller between two RunPhase calls over file nodes), multi-pass on files,
global on files, multi-pass on classes, global on classes. The scheduler is built once per run from an explicit registry -
there is no scanning or reflective plugin discovery.
*/
type Scheduler struct {
	inspectors []Inspector
	maxPasses  int
}

/*
NewScheduler validates and builds a Scheduler. It fails fast (before any
phase runs) on a duplicate inspector name or an inspector declaring an
unknown supported node kind - both are configuration errors.
*/
func NewScheduler(maxPasses int, inspectors ...Inspector) (*Scheduler, error) {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	seen := make(map[string]bool, len(inspectors))
	for _, insp := range inspectors {
		desc := insp.Descriptor()
		if desc.Name == "" {
			return nil, graphutil.NewConfigurationError("inspector with empty name", nil)
		}
		if seen[desc.Name] {
			return nil, graphutil.NewConfigurationError(
				fmt.Sprintf("duplicate inspector name %q", desc.Name), nil)
		}
		seen[desc.Name] = true

		switch desc.SupportedKind {
		case graphmodel.NodeTypeFile, graphmodel.NodeTypeClass, graphmodel.NodeTypePackage:
		default:
			return nil, graphutil.NewConfigurationError(
				fmt.Sprintf("inspector %q declares unknown supported_kind %q", desc.Name, desc.SupportedKind), nil)
		}
	}

	// a Needs cycle is a configuration error; surface it here, before any
	// phase has run, rather than from the middle of a pass
	if _, err := topologicalOrder(inspectors); err != nil {
		return nil, err
	}

	return &Scheduler{inspectors: inspectors, maxPasses: maxPasses}, nil
}

func (s *Scheduler) pool(kind graphmodel.NodeType, global bool) []Inspector {
	var out []Inspector
	for _, insp := range s.inspectors {
		desc := insp.Descriptor()
		if desc.SupportedKind == kind && desc.RequiresAllNodesProcessed == global {
			out = append(out, insp)
		}
	}
	return out
}

func hasAllTags(n graphmodel.Node, required []string) bool {
	for _, tag := range required {
		if !n.HasTag(tag) {
			return false
		}
	}
	return true
}

/*
RunPhase runs the non-global inspectors of kind to convergence (or until
budget passes are exhausted). A caller may invoke it more than once for
the same kind to split the schedule around an intervening collection step
(file-level detection and the later file multi-pass are the same loop
with collection spliced in between). It returns the number of passes
consumed.
*/
func (s *Scheduler) RunPhase(ctx *Context, repo *repository.Repository, kind graphmodel.NodeType,
	budget int, phaseName string, report *Report) (int, error) {

	pool := s.pool(kind, false)
	if len(pool) == 0 || budget <= 0 {
		return 0, nil
	}

	order, err := topologicalOrder(pool)
	if err != nil {
		return 0, err
	}

	passesUsed := 0
	for pass := 1; pass <= budget; pass++ {
		if err := checkCancelled(ctx); err != nil {
			return passesUsed, err
		}

		changedAny := false
		changedBy := map[string]bool{}

		for _, insp := range order {
			desc := insp.Descriptor()
			for _, n := range repo.NodesOfType(kind) {
				if !hasAllTags(n, desc.Requires) {
					continue
				}
				if err := checkCancelled(ctx); err != nil {
					return passesUsed, err
				}

				changed := s.invoke(ctx, repo, insp, n, report)
				if changed {
					changedAny = true
					changedBy[desc.Name] = true
				}
			}
		}

		passesUsed++
		if !changedAny {
			return passesUsed, nil
		}
		if pass == budget {
			report.addMaxPassesWarning(phaseName, changedBy)
		}
	}
	return passesUsed, nil
}

/*
RunGlobalPhase runs the inspectors of kind marked RequiresAllNodesProcessed
exactly once, in topological order, after the corresponding multi-pass
phase has converged. It is a ContractViolation - not fatal - if a global
inspector adds a node; the complete graph it observed is no longer the
graph it left behind.
*/
func (s *Scheduler) RunGlobalPhase(ctx *Context, repo *repository.Repository, kind graphmodel.NodeType, report *Report) error {
	pool := s.pool(kind, true)
	if len(pool) == 0 {
		return nil
	}

	order, err := topologicalOrder(pool)
	if err != nil {
		return err
	}

	before := repo.NodeCount()
	for _, insp := range order {
		desc := insp.Descriptor()
		for _, n := range repo.NodesOfType(kind) {
			if !hasAllTags(n, desc.Requires) {
				continue
			}
			if err := checkCancelled(ctx); err != nil {
				return err
			}
			s.invoke(ctx, repo, insp, n, report)
		}
	}

	if repo.NodeCount() != before {
		report.addContractViolation(fmt.Sprintf(
			"global phase over %q added nodes (before=%d, after=%d)", kind, before, repo.NodeCount()))
	}
	return nil
}

// invoke runs one inspector against one node, honoring the
// pre-invocation-state and produces-contract invariants, and reports
// whether the repository's revision changed (the scheduler's sole
// convergence signal).
func (s *Scheduler) invoke(ctx *Context, repo *repository.Repository, insp Inspector, n graphmodel.Node, report *Report) bool {
	desc := insp.Descriptor()
	before := repo.Revision()
	state := graphmodel.CaptureState(n)
	dec := repo.Decorator(n)

	if err := insp.Inspect(ctx, dec); err != nil {
		graphmodel.RestoreState(n, state)
		report.addInspectionError(desc.Name, n.ID(), err)
		return false
	}

	missing := missingProduces(n, desc.Produces)
	if len(missing) > 0 {
		report.addContractViolation(fmt.Sprintf(
			"inspector %q did not set declared tag(s) %v on node %q", desc.Name, missing, n.ID()))
	}

	return repo.Revision() != before
}

func missingProduces(n graphmodel.Node, produces []string) []string {
	var missing []string
	for _, tag := range produces {
		if !n.HasTag(tag) {
			missing = append(missing, tag)
		}
	}
	return missing
}

func checkCancelled(ctx *Context) error {
	if ctx == nil || ctx.Std == nil {
		return nil
	}
	select {
	case <-ctx.Std.Done():
		return graphutil.ErrCancelled
	default:
		return nil
	}
}
