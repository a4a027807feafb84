/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package repository holds the in-memory graph built up during a run: every
node and edge collected or produced by an inspector, plus the revision
counter the scheduler polls to detect convergence. The graph lives
entirely in memory during a run; persistence is a separate, explicit
step (internal/store), not a continuously mutated backing file.
*/
package repository

import (
	"sync"
	"sync/atomic"

	"jgraph/internal/graphmodel"
	"jgraph/internal/graphutil"
)

/*
Repository is the mutable graph a run builds. All methods are safe for
concurrent use; writes to a node's properties, metrics and tags go
through a Decorator and are not guarded by the repository's lock.
*/
type Repository struct {
	mu sync.RWMutex

	nodes       map[string]graphmodel.Node
	nodesByType map[graphmodel.NodeType][]string // insertion order

	edges       map[string]*graphmodel.Edge // keyed by graphmodel.EdgeKey
	edgeOrder   []string                    // insertion order of edge keys
	edgesFrom   map[string][]string         // sourceID -> edge keys
	edgesTo     map[string][]string         // targetID -> edge keys
	edgesByType map[string][]string         // edgeType -> edge keys

	revision uint64
}

/*
New creates an empty Repository.
*/
func New() *Repository {
	return &Repository{
		nodes:       make(map[string]graphmodel.Node),
		nodesByType: make(map[graphmodel.NodeType][]string),
		edges:       make(map[string]*graphmodel.Edge),
		edgesFrom:   make(map[string][]string),
		edgesTo:     make(map[string][]string),
		edgesByType: make(map[string][]string),
	}
}

/*
Revision returns the current logical revision. It increments on every
mutating call (AddNode, GetOrCreateEdge's creating branch, and every write
that changes a node through a Decorator obtained via this repository).
*/
func (r *Repository) Revision() uint64 {
	return atomic.LoadUint64(&r.revision)
}

func (r *Repository) bumpRevision() {
	atomic.AddUint64(&r.revision, 1)
}

/*
Decorator returns a Decorator scoped to node n that bumps this
repository's revision counter on every write that changes n. n must already
be present in the repository.
*/
func (r *Repository) Decorator(n graphmodel.Node) *graphmodel.Decorator {
	return graphmodel.NewDecorator(n, r.bumpRevision)
}

/*
AddNode inserts n. It fails with a StorageError of kind
StorageAlreadyExists if a node with the same id is already present.
*/
func (r *Repository) AddNode(n graphmodel.Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := n.ID()
	if _, exists := r.nodes[id]; exists {
		return graphutil.NewStorageError(graphutil.StorageAlreadyExists,
			"node "+quote(id), nil)
	}

	r.nodes[id] = n
	r.nodesByType[n.NodeType()] = append(r.nodesByType[n.NodeType()], id)
	r.bumpRevision()
	return nil
}

/*
GetNode looks up a node by id.
*/
func (r *Repository) GetNode(id string) (graphmodel.Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.nodes[id]
	return n, ok
}

/*
NodesOfType returns every node of the given type, in insertion order.
*/
func (r *Repository) NodesOfType(t graphmodel.NodeType) []graphmodel.Node {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.nodesByType[t]
	out := make([]graphmodel.Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.nodes[id])
	}
	return out
}

/*
NodeCount returns the total number of nodes currently held, used by the
scheduler to enforce that global-phase inspectors do not add nodes.
*/
func (r *Repository) NodeCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

/*
GetOrCreateEdge inserts e if no edge with the same (SourceID, TargetID,
EdgeType) triple exists, or returns the existing edge unchanged otherwise.
The second return value reports whether e was newly created. Both
endpoints must already exist as nodes; otherwise a StorageError of kind
StorageDanglingReference is returned.
*/
func (r *Repository) GetOrCreateEdge(e *graphmodel.Edge) (*graphmodel.Edge, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := graphmodel.EdgeKey(e.SourceID, e.TargetID, e.EdgeType)
	if existing, ok := r.edges[key]; ok {
		return existing, false, nil
	}

	if _, ok := r.nodes[e.SourceID]; !ok {
		return nil, false, graphutil.NewStorageError(graphutil.StorageDanglingReference,
			"edge source "+quote(e.SourceID)+" does not exist", nil)
	}
	if _, ok := r.nodes[e.TargetID]; !ok {
		return nil, false, graphutil.NewStorageError(graphutil.StorageDanglingReference,
			"edge target "+quote(e.TargetID)+" does not exist", nil)
	}

	r.edges[key] = e
	r.edgeOrder = append(r.edgeOrder, key)
	r.edgesFrom[e.SourceID] = append(r.edgesFrom[e.SourceID], key)
	r.edgesTo[e.TargetID] = append(r.edgesTo[e.TargetID], key)
	r.edgesByType[e.EdgeType] = append(r.edgesByType[e.EdgeType], key)
	r.bumpRevision()
	return e, true, nil
}

/*
EdgesFrom returns every edge whose source is id, in insertion order.
*/
func (r *Repository) EdgesFrom(id string) []*graphmodel.Edge {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolveLocked(r.edgesFrom[id])
}

/*
EdgesTo returns every edge whose target is id, in insertion order.
*/
func (r *Repository) EdgesTo(id string) []*graphmodel.Edge {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolveLocked(r.edgesTo[id])
}

/*
EdgesOfType returns every edge of the given type, in insertion order.
*/
func (r *Repository) EdgesOfType(edgeType string) []*graphmodel.Edge {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolveLocked(r.edgesByType[edgeType])
}

// resolveLocked must be called with r.mu held for reading.
func (r *Repository) resolveLocked(keys []string) []*graphmodel.Edge {
	out := make([]*graphmodel.Edge, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.edges[k])
	}
	return out
}

/*
ClearAll discards every node and edge and resets the revision counter.
Used between independent runs sharing a process (tests, a long-lived
server wrapping this package).
*/
func (r *Repository) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nodes = make(map[string]graphmodel.Node)
	r.nodesByType = make(map[graphmodel.NodeType][]string)
	r.edges = make(map[string]*graphmodel.Edge)
	r.edgeOrder = nil
	r.edgesFrom = make(map[string][]string)
	r.edgesTo = make(map[string][]string)
	r.edgesByType = make(map[string][]string)
	atomic.StoreUint64(&r.revision, 0)
}

/*
Snapshot captures a stable, point-in-time view of the repository. Taking a
snapshot does not block concurrent mutation of the live repository; the
copy is shallow over the node/edge values themselves (nodes are mutated
through Decorator handles, not replaced, so existing callers observing
this snapshot's slice will also observe later property writes - only the
membership and ordering of the snapshot are frozen).
*/
type Snapshot struct {
	revision uint64
	nodes    []graphmodel.Node
	edges    []*graphmodel.Edge
}

/*
Snapshot returns a Snapshot of the repository as it is right now.
*/
func (r *Repository) Snapshot() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nodes := make([]graphmodel.Node, 0, len(r.nodes))
	for _, ids := range r.nodesByType {
		for _, id := range ids {
			nodes = append(nodes, r.nodes[id])
		}
	}
	edges := make([]*graphmodel.Edge, 0, len(r.edgeOrder))
	for _, k := range r.edgeOrder {
		edges = append(edges, r.edges[k])
	}

	return &Snapshot{
		revision: r.Revision(),
		nodes:    nodes,
		edges:    edges,
	}
}

/*
Revision is the repository's revision at the instant this snapshot was
taken.
*/
func (s *Snapshot) Revision() uint64 { return s.revision }

/*
Nodes returns every node captured in this snapshot.
*/
func (s *Snapshot) Nodes() []graphmodel.Node { return s.nodes }

/*
Edges returns every edge captured in this snapshot.
*/
func (s *Snapshot) Edges() []*graphmodel.Edge { return s.edges }

func quote(s string) string { return "\"" + s + "\"" }
