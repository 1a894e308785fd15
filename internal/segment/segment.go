// Package segment splits loaded trails at intersections so that the only
// shared endpoints between any two trails are at the graph's vertices, and
// disconnects trails that only meet at a road crossing.
package segment

import (
	"fmt"
	"sort"

	"github.com/greenbelt/trailcore/internal/models"
)

// Split splits every trail in trails at interior nodes shared with another
// trail or coinciding with a road node in roadNodes. Trails needing no split
// are returned unchanged (same ID). Splitting is length-preserving and keeps
// every input node: adjacent pieces share their boundary node, so each split
// node appears once more in the output than in the input.
func Split(trails map[string]models.Trail, roadNodes map[int64]bool) []models.Trail {
	inverse := make(map[models.NodeID]map[string]bool)
	order := make([]string, 0, len(trails))
	for id := range trails {
		order = append(order, id)
	}
	sort.Strings(order)

	for _, id := range order {
		for _, n := range trails[id].Nodes {
			if inverse[n.ID] == nil {
				inverse[n.ID] = make(map[string]bool)
			}
			inverse[n.ID][id] = true
		}
	}

	out := make([]models.Trail, 0, len(trails))
	for _, id := range order {
		trail := trails[id]
		nodes := trail.Nodes
		var splitIdxs []int
		for i := 1; i < len(nodes)-1; i++ {
			if len(inverse[nodes[i].ID]) > 1 || roadNodes[nodes[i].ID.OSMID] {
				splitIdxs = append(splitIdxs, i)
			}
		}
		if len(splitIdxs) == 0 {
			out = append(out, trail)
			continue
		}

		bounds := append([]int{0}, splitIdxs...)
		bounds = append(bounds, len(nodes)-1)
		k := len(bounds) - 1
		for j := 0; j < k; j++ {
			start, end := bounds[j], bounds[j+1]
			sub := nodes[start : end+1]
			subID := fmt.Sprintf("%s-%d/%d", trail.ID, j, k)
			out = append(out, models.NewTrail(subID, trail.WayID, trail.Name, append([]models.Node(nil), sub...)))
		}
	}
	return out
}
