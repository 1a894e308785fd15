package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/greenbelt/trailcore/internal/geo"
	"github.com/greenbelt/trailcore/internal/models"
)

// TrailNetwork is one connected component of the segmented, road-disconnected
// graph, with a display name and its clustered trailheads.
type TrailNetwork struct {
	Graph         *Graph
	Name          string
	Trailheads    []models.Trailhead
	Digest        string
	TotalLengthKM float64
}

// UniqueID is the sorted, comma-joined set of underlying way ids in the
// network, used for equality and for stable output ordering.
func (n *TrailNetwork) UniqueID() string {
	ways := make(map[int64]bool)
	for _, edges := range n.Graph.Edges {
		for _, e := range edges {
			ways[e.Trail.WayID] = true
		}
	}
	ids := make([]int64, 0, len(ways))
	for id := range ways {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// ExtractOptions configures network extraction.
type ExtractOptions struct {
	AlreadyProcessed         map[string]bool
	Parks                    []models.Park
	NonTrailNodes            map[int64]string
	TrailheadDistanceThreshM float64
}

const defaultTrailheadDistanceM = 300.0

// Extract walks g's connected components and emits one TrailNetwork per
// component that survives the size, length, and dedup-digest checks.
// Components are returned in no particular order; callers that need
// determinism across networks should sort on UniqueID.
func Extract(g *Graph, opts ExtractOptions) []*TrailNetwork {
	threshold := opts.TrailheadDistanceThreshM
	if threshold == 0 {
		threshold = defaultTrailheadDistanceM
	}

	visited := make(map[models.NodeID]bool)
	var networks []*TrailNetwork

	order := sortedNodeIDs(g.Nodes)
	for _, start := range order {
		if visited[start] {
			continue
		}
		component := bfsComponent(g, start, visited)
		if len(component) < 3 {
			continue
		}

		sub := subgraph(g, component)
		totalKM := componentLengthKM(sub)
		if totalKM < 1 {
			continue
		}

		digest := componentDigest(component)
		if opts.AlreadyProcessed != nil && opts.AlreadyProcessed[digest] {
			continue
		}

		hull := convexHullOf(sub)
		if hull == nil || hull.Area() == 0 {
			continue
		}

		name := resolveParkName(hull, opts.Parks)
		trailheads := extractTrailheads(component, sub, opts.NonTrailNodes, threshold, totalKM)

		networks = append(networks, &TrailNetwork{
			Graph:         sub,
			Name:          name,
			Trailheads:    trailheads,
			Digest:        digest,
			TotalLengthKM: totalKM,
		})
	}
	return networks
}

func sortedNodeIDs(nodes map[models.NodeID]models.Node) []models.NodeID {
	ids := make([]models.NodeID, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].OSMID != ids[j].OSMID {
			return ids[i].OSMID < ids[j].OSMID
		}
		return ids[i].DerivedTag < ids[j].DerivedTag
	})
	return ids
}

func bfsComponent(g *Graph, start models.NodeID, visited map[models.NodeID]bool) []models.NodeID {
	queue := []models.NodeID{start}
	visited[start] = true
	var component []models.NodeID
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		component = append(component, id)
		for _, e := range g.Edges[id] {
			if !visited[e.To] {
				visited[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	return component
}

func subgraph(g *Graph, component []models.NodeID) *Graph {
	sub := New()
	set := make(map[models.NodeID]bool, len(component))
	for _, id := range component {
		set[id] = true
		sub.Nodes[id] = g.Nodes[id]
	}
	for _, id := range component {
		sub.Edges[id] = g.Edges[id]
	}
	return sub
}

func componentLengthKM(sub *Graph) float64 {
	total := 0.0
	seen := make(map[string]bool)
	for from, edges := range sub.Edges {
		for _, e := range edges {
			key := edgeKey(from, e.To, e.Trail.ID)
			if seen[key] {
				continue
			}
			seen[key] = true
			total += e.WeightKM
		}
	}
	return total
}

func edgeKey(a, b models.NodeID, trailID string) string {
	if fmt.Sprint(a) > fmt.Sprint(b) {
		a, b = b, a
	}
	return fmt.Sprintf("%v|%v|%s", a, b, trailID)
}

func componentDigest(component []models.NodeID) string {
	ids := make([]string, len(component))
	for i, id := range component {
		ids[i] = fmt.Sprintf("%d:%s", id.OSMID, id.DerivedTag)
	}
	sort.Strings(ids)
	sum := sha256.Sum256([]byte(strings.Join(ids, ",")))
	return hex.EncodeToString(sum[:])
}

func convexHullOf(sub *Graph) geo.Polygon {
	pts := make([]geo.Point, 0, len(sub.Nodes))
	for _, n := range sub.Nodes {
		pts = append(pts, n.Point())
	}
	return geo.ConvexHull(pts)
}

func resolveParkName(hull geo.Polygon, parks []models.Park) string {
	best := ""
	bestOverlap := 0.0
	for _, park := range parks {
		overlap := geo.OverlapRatio(hull, park.Polygon)
		if overlap > bestOverlap {
			bestOverlap = overlap
			best = park.Name
		}
	}
	return best
}

// extractTrailheads clusters trailhead candidates in component's BFS
// discovery order (the same first-wins order original_source's
// cluster_trailheads walks networkx's insertion-ordered subgraph.nodes),
// not sorted by node id — two candidates within thresholdM of each other
// must resolve to whichever arrives first in that order.
func extractTrailheads(component []models.NodeID, sub *Graph, nonTrailNodes map[int64]string, thresholdM, totalKM float64) []models.Trailhead {
	var candidates []models.Trailhead
	for _, id := range component {
		name, ok := nonTrailNodes[id.OSMID]
		if !ok {
			continue
		}
		candidates = append(candidates, models.Trailhead{Node: sub.Nodes[id], Name: name})
	}

	var kept []models.Trailhead
	for _, cand := range candidates {
		farEnough := true
		for _, k := range kept {
			if geo.HaversineM(cand.Node.Point(), k.Node.Point()) <= thresholdM {
				farEnough = false
				break
			}
		}
		if farEnough {
			kept = append(kept, cand)
		}
	}

	maxTrailheads := int(totalKM / 2)
	if maxTrailheads < 0 {
		maxTrailheads = 0
	}
	if len(kept) > maxTrailheads {
		kept = kept[:maxTrailheads]
	}
	return kept
}
