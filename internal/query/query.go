/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package query is the typed query surface served to external consumers,
principally a migration engine selecting nodes by tag and property
predicates. It is deliberately not a query language: a handful of typed
operations over a stable snapshot, with results ordered by (node type,
id) so consumers can diff runs.
*/
package query

import (
	"sort"

	"jgraph/internal/graphmodel"
	"jgraph/internal/repository"
)

/*
Engine answers queries against one repository snapshot. Build one per
snapshot; construction indexes nodes and adjacency once so the per-query
cost is lookup plus ordering.
*/
type Engine struct {
	nodes    map[string]graphmodel.Node
	outgoing map[string][]*graphmodel.Edge
	incoming map[string][]*graphmodel.Edge
}

/*
New builds an Engine over snap.
*/
func New(snap *repository.Snapshot) *Engine {
	e := &Engine{
		nodes:    make(map[string]graphmodel.Node),
		outgoing: make(map[string][]*graphmodel.Edge),
		incoming: make(map[string][]*graphmodel.Edge),
	}
	for _, n := range snap.Nodes() {
		e.nodes[n.ID()] = n
	}
	for _, edge := range snap.Edges() {
		e.outgoing[edge.SourceID] = append(e.outgoing[edge.SourceID], edge)
		e.incoming[edge.TargetID] = append(e.incoming[edge.TargetID], edge)
	}
	return e
}

/*
ByID looks up a single node.
*/
func (e *Engine) ByID(id string) (graphmodel.Node, bool) {
	n, ok := e.nodes[id]
	return n, ok
}

/*
ByType returns every node of the given type.
*/
func (e *Engine) ByType(t graphmodel.NodeType) []graphmodel.Node {
	var out []graphmodel.Node
	for _, n := range e.nodes {
		if n.NodeType() == t {
			out = append(out, n)
		}
	}
	return ordered(out)
}

/*
ByTags returns the nodes carrying every tag in allOf, at least one tag in
anyOf (skipped when anyOf is empty), and none of the tags in noneOf.
*/
func (e *Engine) ByTags(allOf, anyOf, noneOf []string) []graphmodel.Node {
	var out []graphmodel.Node
nodes:
	for _, n := range e.nodes {
		for _, tag := range allOf {
			if !n.HasTag(tag) {
				continue nodes
			}
		}
		if len(anyOf) > 0 {
			hit := false
			for _, tag := range anyOf {
				if n.HasTag(tag) {
					hit = true
					break
				}
			}
			if !hit {
				continue
			}
		}
		for _, tag := range noneOf {
			if n.HasTag(tag) {
				continue nodes
			}
		}
		out = append(out, n)
	}
	return ordered(out)
}

/*
ByProperty returns the nodes whose property key satisfies p.
*/
func (e *Engine) ByProperty(key string, p Predicate) []graphmodel.Node {
	var out []graphmodel.Node
	for _, n := range e.nodes {
		val, ok := n.Property(key)
		if p.matches(val, ok) {
			out = append(out, n)
		}
	}
	return ordered(out)
}

/*
Direction selects which incident edges Neighbors follows.
*/
type Direction int

const (
	DirectionOut Direction = iota
	DirectionIn
	DirectionBoth
)

/*
Neighbors returns the nodes adjacent to id, following edges of the given
type (every type when edgeType is empty) in the given direction. An
unknown id yields an empty result, not an error - absence is an ordinary
answer for a query surface.
*/
func (e *Engine) Neighbors(id string, edgeType string, dir Direction) []graphmodel.Node {
	seen := make(map[string]bool)
	var out []graphmodel.Node

	add := func(nodeID string) {
		if seen[nodeID] {
			return
		}
		if n, ok := e.nodes[nodeID]; ok {
			seen[nodeID] = true
			out = append(out, n)
		}
	}

	if dir == DirectionOut || dir == DirectionBoth {
		for _, edge := range e.outgoing[id] {
			if edgeType == "" || edge.EdgeType == edgeType {
				add(edge.TargetID)
			}
		}
	}
	if dir == DirectionIn || dir == DirectionBoth {
		for _, edge := range e.incoming[id] {
			if edgeType == "" || edge.EdgeType == edgeType {
				add(edge.SourceID)
			}
		}
	}
	return ordered(out)
}

/*
EdgeFilter decides whether Subgraph traversal follows an edge. A nil
filter follows everything.
*/
type EdgeFilter func(*graphmodel.Edge) bool

/*
Subgraph is the closed result of a bounded traversal: the reached nodes
and every traversed edge, both in stable order.
*/
type Subgraph struct {
	nodes []graphmodel.Node
	edges []*graphmodel.Edge
}

/*
Nodes returns the subgraph's nodes ordered by (node type, id).
*/
func (s *Subgraph) Nodes() []graphmodel.Node { return s.nodes }

/*
Edges returns the traversed edges ordered by (source, target, type).
*/
func (s *Subgraph) Edges() []*graphmodel.Edge { return s.edges }

/*
Subgraph traverses outward from rootIDs following edges in both
directions up to maxDepth hops, keeping only edges the filter accepts.
Roots that do not name a node are skipped. maxDepth 0 returns just the
roots.
*/
func (e *Engine) Subgraph(rootIDs []string, maxDepth int, filter EdgeFilter) *Subgraph {
	visited := make(map[string]bool)
	edgeSeen := make(map[*graphmodel.Edge]bool)
	var nodes []graphmodel.Node
	var edges []*graphmodel.Edge

	frontier := make([]string, 0, len(rootIDs))
	for _, id := range rootIDs {
		if n, ok := e.nodes[id]; ok && !visited[id] {
			visited[id] = true
			nodes = append(nodes, n)
			frontier = append(frontier, id)
		}
	}

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, id := range frontier {
			for _, edge := range append(append([]*graphmodel.Edge{}, e.outgoing[id]...), e.incoming[id]...) {
				if filter != nil && !filter(edge) {
					continue
				}
				other := edge.TargetID
				if other == id {
					other = edge.SourceID
				}
				n, ok := e.nodes[other]
				if !ok {
					continue
				}
				if !edgeSeen[edge] {
					edgeSeen[edge] = true
					edges = append(edges, edge)
				}
				if !visited[other] {
					visited[other] = true
					nodes = append(nodes, n)
					next = append(next, other)
				}
			}
		}
		frontier = next
	}

	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.SourceID != b.SourceID {
			return a.SourceID < b.SourceID
		}
		if a.TargetID != b.TargetID {
			return a.TargetID < b.TargetID
		}
		return a.EdgeType < b.EdgeType
	})
	return &Subgraph{nodes: ordered(nodes), edges: edges}
}

// ordered sorts nodes by (node type, id), the stable result order every
// query here promises.
func ordered(nodes []graphmodel.Node) []graphmodel.Node {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].NodeType() != nodes[j].NodeType() {
			return nodes[i].NodeType() < nodes[j].NodeType()
		}
		return nodes[i].ID() < nodes[j].ID()
	})
	return nodes
}
