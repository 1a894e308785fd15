// Package search implements the per-trailhead bounded best-first loop
// search, its quality/similarity scoring, and the post-filter that trims
// and deduplicates a trailhead's candidate loops.
package search

import (
	"strings"

	"github.com/greenbelt/trailcore/internal/models"
)

// fakerootID is the sentinel trail id seeding a Subpath at its root node.
const fakerootID = "fakeroot"

// Subpath is a search state: an ordered walk of trail segments starting
// (and, once complete, ending) at a trailhead.
type Subpath struct {
	Segments      []models.Trail
	LengthM       float64
	UniqueLengthM float64
	SegmentDist   map[string]float64

	// ElevationGainM and ElevationLossM are populated after search, once an
	// elevation oracle has been consulted for the completed loop's nodes.
	// Zero until WithElevation is called.
	ElevationGainM float64
	ElevationLossM float64

	qualityCache *float64
}

// WithElevation returns a copy of p carrying the given elevation gain/loss,
// leaving p itself untouched.
func (p Subpath) WithElevation(gainM, lossM float64) Subpath {
	p.ElevationGainM = gainM
	p.ElevationLossM = lossM
	return p
}

// Nodes returns the ordered node sequence visited by the subpath, skipping
// the fakeroot sentinel segment, for callers (e.g. the elevation oracle)
// that need the physical polyline rather than the segment list.
func (p Subpath) Nodes() []models.Node {
	var nodes []models.Node
	for _, seg := range p.Segments {
		if seg.ID == fakerootID {
			continue
		}
		if len(nodes) == 0 {
			nodes = append(nodes, seg.FirstNode())
		}
		nodes = append(nodes, seg.Nodes[1:]...)
	}
	return nodes
}

// NewRoot seeds a Subpath with a fakeroot self-loop at root: a zero-length
// sentinel segment whose first and last node are both root.
func NewRoot(root models.Node) Subpath {
	fakeroot := models.Trail{ID: fakerootID, Nodes: []models.Node{root, root}, LengthM: 0}
	return Subpath{
		Segments:      []models.Trail{fakeroot},
		LengthM:       0,
		UniqueLengthM: 0,
		SegmentDist:   map[string]float64{fakerootID: 0},
	}
}

// FirstNode returns the node the subpath starts at.
func (p Subpath) FirstNode() models.Node { return p.Segments[0].FirstNode() }

// LastNode returns the node the subpath currently ends at.
func (p Subpath) LastNode() models.Node { return p.Segments[len(p.Segments)-1].LastNode() }

// LastSegment returns the most recently appended segment.
func (p Subpath) LastSegment() models.Trail { return p.Segments[len(p.Segments)-1] }

// IsComplete reports whether the walk has returned to its starting node.
func (p Subpath) IsComplete() bool {
	return len(p.Segments) > 1 && p.LastNode().ID == p.FirstNode().ID
}

// Extended returns a new Subpath with t appended, leaving p untouched. Used
// for ordinary layer expansion.
func (p Subpath) Extended(t models.Trail) Subpath {
	segments := make([]models.Trail, len(p.Segments)+1)
	copy(segments, p.Segments)
	segments[len(p.Segments)] = t

	dist := make(map[string]float64, len(p.SegmentDist)+1)
	for k, v := range p.SegmentDist {
		dist[k] = v
	}
	uniqueLengthM := p.UniqueLengthM
	if _, seen := dist[t.ID]; !seen {
		uniqueLengthM += t.LengthM
	}
	dist[t.ID] += t.LengthM

	return Subpath{
		Segments:      segments,
		LengthM:       p.LengthM + t.LengthM,
		UniqueLengthM: uniqueLengthM,
		SegmentDist:   dist,
	}
}

// Clone returns a deep-enough copy of p safe to pass to ExtendInPlace
// without aliasing the original's segment slice or distance map.
func (p Subpath) Clone() Subpath {
	segments := make([]models.Trail, len(p.Segments))
	copy(segments, p.Segments)
	dist := make(map[string]float64, len(p.SegmentDist))
	for k, v := range p.SegmentDist {
		dist[k] = v
	}
	return Subpath{Segments: segments, LengthM: p.LengthM, UniqueLengthM: p.UniqueLengthM, SegmentDist: dist}
}

// ExtendInPlace appends t to p, mutating it. Reserved for the forced-closure
// branch of the search, which is the only caller allowed to mutate a
// Subpath, and only on a path it owns exclusively within one search call.
func (p *Subpath) ExtendInPlace(t models.Trail) {
	p.Segments = append(p.Segments, t)
	if _, seen := p.SegmentDist[t.ID]; !seen {
		p.UniqueLengthM += t.LengthM
	}
	p.SegmentDist[t.ID] += t.LengthM
	p.LengthM += t.LengthM
	p.qualityCache = nil
}

// Intersections returns, for every node visited other than the start node,
// the set of trail ids (as a map used as a set) of segments starting or
// ending at that node.
func (p Subpath) Intersections() map[models.NodeID]map[string]bool {
	res := make(map[models.NodeID]map[string]bool)
	add := func(id models.NodeID, trailID string) {
		if res[id] == nil {
			res[id] = make(map[string]bool)
		}
		res[id][trailID] = true
	}
	for _, seg := range p.Segments {
		add(seg.FirstNode().ID, seg.ID)
		add(seg.LastNode().ID, seg.ID)
	}
	delete(res, p.Segments[0].FirstNode().ID)
	return res
}

// NumSpurs counts adjacent segment pairs sharing the same trail id — an
// out-and-back side trip.
func (p Subpath) NumSpurs() int {
	count := 0
	for i := 1; i < len(p.Segments); i++ {
		if p.Segments[i].ID == p.Segments[i-1].ID {
			count++
		}
	}
	return count
}

// Name is the hyphen-joined display names of segments whose per-id distance
// exceeds length_m/3, in first-occurrence order, deduplicated.
func (p Subpath) Name() string {
	var names []string
	seen := make(map[string]bool)
	for _, seg := range p.Segments {
		if seg.Name == nil {
			continue
		}
		if p.SegmentDist[seg.ID] <= p.LengthM/3 {
			continue
		}
		if seen[*seg.Name] {
			continue
		}
		seen[*seg.Name] = true
		names = append(names, *seg.Name)
	}
	return strings.Join(names, "-")
}
