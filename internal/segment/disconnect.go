package segment

import (
	"fmt"

	"github.com/greenbelt/trailcore/internal/models"
)

// Disconnect rewrites the first/last node of each segmented trail that
// lands on a road node, unless that node id is in allowlist (the endpoints
// of manually added extra links). The rewritten node carries a derived tag
// so two trails crossing only at a road point end up as separate graph
// vertices.
func Disconnect(trails []models.Trail, roadNodes map[int64]bool, allowlist map[int64]bool) []models.Trail {
	out := make([]models.Trail, len(trails))
	for i, trail := range trails {
		t := trail
		first := t.FirstNode()
		if roadNodes[first.ID.OSMID] && !allowlist[first.ID.OSMID] {
			tag := fmt.Sprintf("%d-%s-road-extra", first.ID.OSMID, t.ID)
			t = t.WithFirstNode(first.Derived(tag))
		}
		last := t.LastNode()
		if roadNodes[last.ID.OSMID] && !allowlist[last.ID.OSMID] {
			tag := fmt.Sprintf("%d-%s-road-extra", last.ID.OSMID, t.ID)
			t = t.WithLastNode(last.Derived(tag))
		}
		out[i] = t
	}
	return out
}
