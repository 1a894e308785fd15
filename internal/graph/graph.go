// Package graph assembles segmented trails into an undirected multigraph
// and extracts connected components into named TrailNetworks. The
// in-memory representation mirrors the teacher's node-keyed adjacency map,
// generalized to carry per-edge trail metadata and multiple parallel edges
// between the same pair of vertices.
package graph

import "github.com/greenbelt/trailcore/internal/models"

// Edge is one graph edge: a segmented trail connecting its first and last
// node, weighted by length in kilometres.
type Edge struct {
	Trail    models.Trail
	WeightKM float64
	Name     *string
	To       models.NodeID
}

// Graph is an undirected multigraph keyed by node identity. Adjacency
// lists are built in insertion order (not map iteration order) so that
// downstream search over a subgraph is deterministic.
type Graph struct {
	Nodes map[models.NodeID]models.Node
	Edges map[models.NodeID][]Edge
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		Nodes: make(map[models.NodeID]models.Node),
		Edges: make(map[models.NodeID][]Edge),
	}
}

// AddSegment inserts one undirected multigraph edge for a segmented trail
// between its first and last node. noRoadCrossings, when true, drops the
// edge entirely if both endpoints are road-only nodes (neither appears in
// trailNodes), matching the "pure road connectors must not enter the trail
// graph" rule.
func (g *Graph) AddSegment(trail models.Trail, noRoadCrossings bool, trailNodes map[models.NodeID]bool) {
	first := trail.FirstNode()
	last := trail.LastNode()

	if noRoadCrossings && !trailNodes[first.ID] && !trailNodes[last.ID] {
		return
	}

	g.Nodes[first.ID] = first
	g.Nodes[last.ID] = last

	weightKM := trail.LengthM / 1000
	g.Edges[first.ID] = append(g.Edges[first.ID], Edge{Trail: trail, WeightKM: weightKM, Name: trail.Name, To: last.ID})
	g.Edges[last.ID] = append(g.Edges[last.ID], Edge{Trail: trail.Reversed(), WeightKM: weightKM, Name: trail.Name, To: first.ID})
}

// NeighborsOf returns the edges leaving node id, in insertion order.
func (g *Graph) NeighborsOf(id models.NodeID) []Edge {
	return g.Edges[id]
}

// NodeCount returns the number of distinct vertices in g.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// EdgeCount returns the number of undirected edges (each segment counted
// once, not once per direction).
func (g *Graph) EdgeCount() int {
	total := 0
	for _, edges := range g.Edges {
		total += len(edges)
	}
	return total / 2
}
