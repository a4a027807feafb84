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
	"sort"

	"jgraph/internal/graphutil"
)

/*
topologicalOrder computes an order over pool respecting each Inspector's
Needs, considering only Needs edges whose target is also in pool (a Needs
entry naming an inspector outside this pass's candidate set has nothing
to be ordered against here). A cycle aborts with a fatal
*graphutil.ConfigurationError naming one concrete cycle in the form
"cycle: A -> B -> A".

Inspectors with no ordering relationship to each other are returned in
name order, for a deterministic schedule independent of registration
order.
*/
func topologicalOrder(pool []Inspector) ([]Inspector, error) {
	byName := make(map[string]Inspector, len(pool))
	names := make([]string, 0, len(pool))
	for _, insp := range pool {
		name := insp.Descriptor().Name
		byName[name] = insp
		names = append(names, name)
	}
	sort.Strings(names)

	// adjacency: needs[name] = inspectors that must run before name
	needs := make(map[string][]string, len(pool))
	for _, name := range names {
		for _, need := range byName[name].Descriptor().Needs {
			if _, ok := byName[need]; ok {
				needs[name] = append(needs[name], need)
			}
		}
		sort.Strings(needs[name])
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(names))
	var order []string
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		switch color[name] {
		case black:
			return nil
		case gray:
			cycle := append(append([]string{}, stack...), name)
			return graphutil.NewConfigurationError(fmt.Sprintf("cycle: %s", formatCycle(cycle)), nil)
		}
		color[name] = gray
		stack = append(stack, name)
		for _, dep := range needs[name] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		color[name] = black
		order = append(order, name)
		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}

	out := make([]Inspector, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out, nil
}

func formatCycle(cycle []string) string {
	s := ""
	for i, name := range cycle {
		if i > 0 {
			s += " -> "
		}
		s += name
	}
	return s
}
