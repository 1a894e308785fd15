package models

import "github.com/greenbelt/trailcore/internal/geo"

// Trail is a directed polyline admitted to the trail graph: an ordered
// sequence of at least two Nodes, a stable ID, the underlying source way,
// and an optional display name. LengthM is computed once at construction
// and never recomputed.
type Trail struct {
	ID      string
	WayID   int64
	Name    *string
	Nodes   []Node
	LengthM float64
}

// NewTrail builds a Trail from an ordered node list, computing LengthM as
// the sum of great-circle distances between consecutive nodes. Panics if
// fewer than two nodes are given or any two consecutive nodes are equal —
// both are invariants the caller (segmenter) must already guarantee.
func NewTrail(id string, wayID int64, name *string, nodes []Node) Trail {
	if len(nodes) < 2 {
		panic("models: trail must have at least two nodes")
	}
	length := 0.0
	for i := 1; i < len(nodes); i++ {
		if nodes[i-1].ID == nodes[i].ID {
			panic("models: trail has repeated consecutive node")
		}
		length += geo.HaversineM(nodes[i-1].Point(), nodes[i].Point())
	}
	return Trail{ID: id, WayID: wayID, Name: name, Nodes: nodes, LengthM: length}
}

// FirstNode returns the trail's starting node.
func (t Trail) FirstNode() Node { return t.Nodes[0] }

// LastNode returns the trail's ending node.
func (t Trail) LastNode() Node { return t.Nodes[len(t.Nodes)-1] }

// Reversed returns a copy of t with its node order reversed. ID and WayID
// are preserved; only the node list is reversed.
func (t Trail) Reversed() Trail {
	rev := make([]Node, len(t.Nodes))
	for i, n := range t.Nodes {
		rev[len(t.Nodes)-1-i] = n
	}
	return Trail{ID: t.ID, WayID: t.WayID, Name: t.Name, Nodes: rev, LengthM: t.LengthM}
}

// DisplayName returns Name or "No name" if unset, matching the loader's
// fallback for drivable ways without a name tag.
func (t Trail) DisplayName() string {
	if t.Name == nil {
		return "No name"
	}
	return *t.Name
}

// WithFirstNode returns a copy of t with its first node replaced, used by
// the road-crossing disconnector.
func (t Trail) WithFirstNode(n Node) Trail {
	nodes := append([]Node(nil), t.Nodes...)
	nodes[0] = n
	return Trail{ID: t.ID, WayID: t.WayID, Name: t.Name, Nodes: nodes, LengthM: t.LengthM}
}

// WithLastNode returns a copy of t with its last node replaced, used by the
// road-crossing disconnector.
func (t Trail) WithLastNode(n Node) Trail {
	nodes := append([]Node(nil), t.Nodes...)
	nodes[len(nodes)-1] = n
	return Trail{ID: t.ID, WayID: t.WayID, Name: t.Name, Nodes: nodes, LengthM: t.LengthM}
}
