package ingest

import (
	"fmt"
	"log"

	"github.com/greenbelt/trailcore/internal/classify"
	"github.com/greenbelt/trailcore/internal/geo"
	"github.com/greenbelt/trailcore/internal/models"
)

// LocationFilter drops ways whose first node lies outside a circle.
type LocationFilter struct {
	Center   geo.Point
	RadiusKM float64
}

// Contains reports whether p lies within the filter's radius of its center.
func (f LocationFilter) Contains(p geo.Point) bool {
	return geo.HaversineKM(f.Center, p) <= f.RadiusKM
}

// LoaderOutput is everything the raw loader extracts from a RawSource.
type LoaderOutput struct {
	Trails        map[string]models.Trail
	NonTrailNodes map[int64]string
	TrailNodes    map[models.NodeID]models.Node
	Parks         map[int64]models.Park
}

// Load consumes src and builds a LoaderOutput. filter is optional (pass the
// zero value's pointer as nil to disable). Returns an error only for a
// duplicate trail id; missing-node ways and degenerate areas are skipped
// with a logged warning.
func Load(src RawSource, filter *LocationFilter) (LoaderOutput, error) {
	out := LoaderOutput{
		Trails:        make(map[string]models.Trail),
		NonTrailNodes: make(map[int64]string),
		TrailNodes:    make(map[models.NodeID]models.Node),
		Parks:         make(map[int64]models.Park),
	}

	skippedWays := 0
	var loadErr error

	src.Ways(func(w RawWay) bool {
		if w.Missing {
			log.Printf("ingest: skipping way %d: missing node coordinates", w.ID)
			skippedWays++
			return true
		}
		if len(w.Nodes) == 0 {
			log.Printf("ingest: skipping way %d: no nodes", w.ID)
			skippedWays++
			return true
		}

		trail := classify.IsTrail(w.Tags)
		drivable := classify.IsDrivable(w.Tags)

		if trail {
			if filter != nil {
				first := geo.Point{Lat: w.Nodes[0].Lat, Lon: w.Nodes[0].Lon}
				if !filter.Contains(first) {
					return true
				}
			}
			id := fmt.Sprintf("%d", w.ID)
			if _, dup := out.Trails[id]; dup {
				loadErr = fmt.Errorf("ingest: duplicate trail id %s", id)
				return false
			}
			nodes := make([]models.Node, len(w.Nodes))
			for i, rn := range w.Nodes {
				n := models.Node{ID: models.NodeID{OSMID: rn.ID}, Lat: rn.Lat, Lon: rn.Lon}
				nodes[i] = n
				out.TrailNodes[n.ID] = n
			}
			var name *string
			if n, ok := w.Tags["name"]; ok && n != "" {
				name = &n
			}
			out.Trails[id] = models.NewTrail(id, w.ID, name, nodes)
		}

		if drivable {
			name := w.Tags["name"]
			if name == "" {
				name = "No name"
			}
			for _, rn := range w.Nodes {
				out.NonTrailNodes[rn.ID] = name
			}
		}

		return true
	})
	if loadErr != nil {
		return LoaderOutput{}, loadErr
	}

	src.Areas(func(a RawArea) bool {
		if !classify.IsParkArea(a.Tags) {
			return true
		}
		if len(a.OuterRings) == 0 || len(a.OuterRings[0]) < 3 {
			log.Printf("ingest: skipping area %d: no usable ring", a.ID)
			return true
		}
		pts := make([]geo.Point, 0, len(a.OuterRings[0]))
		for _, rn := range a.OuterRings[0] {
			pts = append(pts, geo.Point{Lat: rn.Lat, Lon: rn.Lon})
		}
		out.Parks[a.ID] = models.Park{
			ID:      a.ID,
			Polygon: geo.Polygon(pts),
			Name:    classify.ParkName(a.Tags),
			Tags:    a.Tags,
		}
		return true
	})

	if skippedWays > 0 {
		log.Printf("ingest: skipped %d ways with missing data", skippedWays)
	}
	return out, nil
}
