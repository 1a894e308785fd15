package models

// Trailhead is a network access point: a node that also appears as a road
// node, paired with the road's display name. Trailheads are created only
// from nodes that appear in both a network and non_trail_nodes, and are
// clustered so retained trailheads are pairwise separated by at least a
// configured distance threshold.
type Trailhead struct {
	Node Node
	Name string
}
