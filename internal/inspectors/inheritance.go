/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package inspectors

import (
	"fmt"

	"jgraph/internal/graphmodel"
	"jgraph/internal/inspect"
)

/*
InheritanceDepth computes metrics.inheritance_depth for every class node:
the number of extends hops from the class to the top of its ancestor
chain within the analyzed graph. A class with no parent in the graph has
depth 0. Runs in the global phase - the walk follows extends edges
produced during the multi-pass phase and is only correct once the edge
set is complete and stable.
*/
type InheritanceDepth struct{}

func NewInheritanceDepth() *InheritanceDepth { return &InheritanceDepth{} }

func (i *InheritanceDepth) Descriptor() inspect.Descriptor {
	return inspect.Descriptor{
		Name:                      NameInheritanceDepth,
		Requires:                  []string{TagJavaClass},
		Needs:                     []string{NameJavaClassLink},
		RequiresAllNodesProcessed: true,
		SupportedKind:             graphmodel.NodeTypeClass,
	}
}

func (i *InheritanceDepth) Inspect(ctx *inspect.Context, dec *graphmodel.Decorator) error {
	depth := 0
	seen := map[string]bool{dec.Node().ID(): true}

	current := dec.Node().ID()
	for {
		parent := ""
		for _, e := range ctx.Repo.EdgesFrom(current) {
			if e.EdgeType == graphmodel.EdgeExtends {
				parent = e.TargetID
				break
			}
		}
		if parent == "" {
			break
		}
		if seen[parent] {
			return fmt.Errorf("inheritance cycle through %q", parent)
		}
		seen[parent] = true
		current = parent
		depth++
	}

	return dec.SetMetric("inheritance_depth", float64(depth))
}
