/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package inspect is the Inspector Framework: a dependency-ordered,
multi-pass scheduler over heterogeneous graph nodes. Its job is to run
Inspectors over a repository.Repository until the tag/property/metric
state they produce converges, then run the inspectors that need a
complete graph exactly once.

An Inspector declares the node variant it handles via SupportedKind and
whether it needs the complete graph via RequiresAllNodesProcessed; there
is no base type to inherit from. The framework dispatches purely on the
Inspector interface and the static descriptor each one returns.
*/
package inspect

import "jgraph/internal/graphmodel"

/*
Descriptor is the static scheduling metadata an Inspector declares about
itself: its name, the tags required on a candidate node before it runs,
the other inspectors it must run after within a pass, the tags it
guarantees to set on success, whether it only runs in the global phase,
and which node variant it handles. This is resolved into a static DAG at
scheduler startup; nothing about scheduling is discovered reflectively at
run time.
*/
type Descriptor struct {
	Name                      string
	Requires                  []string
	Needs                     []string
	Produces                  []string
	RequiresAllNodesProcessed bool
	SupportedKind             graphmodel.NodeType
}

/*
Inspector reads a node and writes tags/properties/metrics (and,
optionally, edges) through the Decorator handed to it. An error return
aborts only this invocation: the scheduler restores the node to its
pre-invocation state and records the failure as a non-fatal
InspectionError. Whether the call actually changed anything is not
reported by Inspect itself - the scheduler's convergence signal is the
repository's revision counter, which bumps on every effective write
through a Decorator.
*/
type Inspector interface {
	Descriptor() Descriptor
	Inspect(ctx *Context, dec *graphmodel.Decorator) error
}
