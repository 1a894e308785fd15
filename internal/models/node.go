// Package models holds the data shapes shared across the trail pipeline:
// Node, Trail, Park, and Trailhead (TrailNetwork lives in package graph,
// Subpath in package search). None of these types are
// mutated after construction except where the road-crossing disconnector
// rewrites a freshly segmented trail's endpoint.
package models

import "github.com/greenbelt/trailcore/internal/geo"

// NodeID identifies a graph vertex. Two NodeIDs are equal iff both the
// original OSM id and the derived tag match. DerivedTag is empty for
// ordinary nodes; the road-crossing disconnector populates it so a single
// physical coordinate can appear as more than one graph vertex.
type NodeID struct {
	OSMID      int64
	DerivedTag string
}

// Node is a point in the trail graph, identified by NodeID and located at
// (Lat, Lon).
type Node struct {
	ID  NodeID
	Lat float64
	Lon float64
}

// Point adapts a Node to geo.Point for distance and geometry computations.
func (n Node) Point() geo.Point {
	return geo.Point{Lat: n.Lat, Lon: n.Lon}
}

// Derived returns a copy of n with DerivedTag set, used by the road-crossing
// disconnector to mint a new vertex identity at the same coordinates.
func (n Node) Derived(tag string) Node {
	n.ID.DerivedTag = tag
	return n
}
