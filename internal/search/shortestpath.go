package search

import (
	"fmt"

	lvgraph "github.com/katalvlaran/lvlath/graph/algorithms"
	lvcore "github.com/katalvlaran/lvlath/graph/core"

	"github.com/greenbelt/trailcore/internal/graph"
	"github.com/greenbelt/trailcore/internal/models"
)

// shortestPathHome computes the shortest path in sub from `from` to `to`,
// used by the forced-closure branch to bring a promising overflow path back
// to its trailhead. Returns the ordered trail segments to append, oriented
// so each segment's first node matches the previous node on the path.
func shortestPathHome(sub *graph.Graph, from, to models.NodeID) ([]models.Trail, error) {
	lv := lvcore.NewGraph(false, true)
	edgeByPair := make(map[string]models.Trail)

	for nodeID, edges := range sub.Edges {
		fromKey := nodeKey(nodeID)
		for _, e := range edges {
			toKey := nodeKey(e.To)
			weight := int64(e.Trail.LengthM)
			if weight < 1 {
				weight = 1
			}
			lv.AddEdge(fromKey, toKey, weight)
			key := fromKey + "->" + toKey
			if existing, ok := edgeByPair[key]; !ok || e.Trail.LengthM < existing.LengthM {
				edgeByPair[key] = e.Trail
			}
		}
	}

	fromKey, toKey := nodeKey(from), nodeKey(to)
	if !lv.HasVertex(fromKey) || !lv.HasVertex(toKey) {
		return nil, fmt.Errorf("search: shortest-path-home: node not in subgraph")
	}

	_, parent, err := lvgraph.Dijkstra(lv, fromKey)
	if err != nil {
		return nil, fmt.Errorf("search: shortest-path-home: %w", err)
	}

	var path []string
	cur := toKey
	for cur != fromKey {
		path = append([]string{cur}, path...)
		prev, ok := parent[cur]
		if !ok || prev == "" {
			return nil, fmt.Errorf("search: shortest-path-home: no path from %s to %s", fromKey, toKey)
		}
		cur = prev
	}
	path = append([]string{fromKey}, path...)

	segments := make([]models.Trail, 0, len(path)-1)
	for i := 1; i < len(path); i++ {
		key := path[i-1] + "->" + path[i]
		trail, ok := edgeByPair[key]
		if !ok {
			return nil, fmt.Errorf("search: shortest-path-home: missing edge %s", key)
		}
		segments = append(segments, trail)
	}
	return segments, nil
}

func nodeKey(id models.NodeID) string {
	return fmt.Sprintf("%d|%s", id.OSMID, id.DerivedTag)
}
