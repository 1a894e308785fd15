package search

import (
	"log"
	"sort"
	"time"

	"github.com/greenbelt/trailcore/internal/config"
	"github.com/greenbelt/trailcore/internal/graph"
	"github.com/greenbelt/trailcore/internal/models"
)

// MaxSearch bounds how many overflow paths the forced-closure branch
// considers in a single capacity-check pass.
const MaxSearch = 20

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// IsProblematic reports whether a network's edge density is too high to
// yield meaningful loops (a mapped parking lot, for instance).
func IsProblematic(net *graph.TrailNetwork) bool {
	edges := net.Graph.EdgeCount()
	if edges == 0 {
		return true
	}
	return net.TotalLengthKM/float64(edges) < 0.1
}

// segmentCount returns the number of real trail segments in p, excluding
// the fakeroot sentinel.
func (p Subpath) segmentCount() int {
	return len(p.Segments) - 1
}

// Run enumerates worth-keeping loops starting and ending at root within
// net, per the bounded best-first algorithm of §4.7. It returns once the
// search terminates (frontier exhausted, timeout, or yield targets met).
func Run(net *graph.TrailNetwork, root models.Node, settings config.IngestSettings) []Subpath {
	if IsProblematic(net) {
		return nil
	}

	edgeCount := net.Graph.EdgeCount()
	totalLengthM := net.TotalLengthKM * 1000

	maxSegments := settings.MaxSegments
	if edgeCount < maxSegments {
		maxSegments = edgeCount
	}
	maxDistance := minF(settings.MaxDistanceM, totalLengthM*1.1)
	stopSearchingThresh := clampF(net.TotalLengthKM/4, 1, 20)
	exitThresh := clampF(net.TotalLengthKM/2, 1, 20)
	maxLengthTarget := minF(maxDistance, settings.StopSearchingCutoffM)

	lengthTargetMet := false
	activePaths := []Subpath{NewRoot(root)}
	var loops []Subpath
	loopsYielded := 0
	startTime := time.Now()

	repeatWeight := settings.Quality.RepeatNodeWeight
	if repeatWeight == 0 {
		repeatWeight = 1
	}

	yield := func(p Subpath) {
		loops = append(loops, p)
		loopsYielded++
		if p.LengthM >= maxLengthTarget {
			lengthTargetMet = true
		}
	}

	for len(activePaths) > 0 {
		if time.Since(startTime) > time.Duration(settings.TimeoutS)*time.Second {
			break
		}
		if loopsYielded >= int(exitThresh) && lengthTargetMet {
			break
		}

		// 1. Length/segment filter.
		filtered := activePaths[:0]
		for _, p := range activePaths {
			if p.LengthM >= maxDistance || p.segmentCount() >= maxSegments {
				continue
			}
			filtered = append(filtered, p)
		}
		activePaths = filtered

		// 2. Capacity check.
		if len(activePaths) > settings.MaxConcurrent {
			sort.SliceStable(activePaths, func(i, j int) bool {
				return activePaths[i].Quality(repeatWeight) > activePaths[j].Quality(repeatWeight)
			})
			kept := activePaths[:0]
			for _, p := range activePaths {
				if p.Quality(repeatWeight) > 0.5 {
					kept = append(kept, p)
				}
			}
			activePaths = kept

			if loopsYielded < int(stopSearchingThresh) {
				overflow := activePaths
				if len(overflow) > settings.MaxConcurrent {
					overflow = overflow[settings.MaxConcurrent:]
				} else {
					overflow = nil
				}
				taken := 0
				for _, p := range overflow {
					if taken >= MaxSearch {
						break
					}
					if p.LengthM <= ShortestLoopM/2 {
						continue
					}
					taken++
					closed := closeViaShortestPath(net.Graph, p)
					if closed == nil {
						continue
					}
					if !closed.IsComplete() {
						log.Printf("search: forced-closure produced an incomplete path, dropping")
						continue
					}
					if closed.WorthKeeping(repeatWeight) {
						yield(*closed)
					}
					if loopsYielded > int(stopSearchingThresh) {
						break
					}
				}
			}

			if len(activePaths) > settings.MaxConcurrent {
				activePaths = activePaths[:settings.MaxConcurrent]
			}
		}

		// 3. Expansion.
		var finalPaths []Subpath
		for _, p := range activePaths {
			last := p.LastNode()
			edges := net.Graph.NeighborsOf(last.ID)
			alternatives := len(edges) > 1
			for _, e := range edges {
				if alternatives && e.Trail.ID == p.LastSegment().ID {
					continue
				}
				next := p.Extended(e.Trail)
				if next.IsComplete() {
					if next.WorthKeeping(repeatWeight) {
						yield(next)
					}
					continue
				}
				finalPaths = append(finalPaths, next)
			}
		}
		activePaths = finalPaths
	}

	return loops
}

// closeViaShortestPath returns a Clone of p extended in place (via
// ExtendInPlace) along the shortest path from its current last node back to
// its start node, for the forced-closure branch; p itself is left
// untouched. Returns nil (logging) if no path exists — the subgraph should be
// connected by construction, so this signals a bug rather than an expected
// outcome.
func closeViaShortestPath(sub *graph.Graph, p Subpath) *Subpath {
	path, err := shortestPathHome(sub, p.LastNode().ID, p.FirstNode().ID)
	if err != nil {
		log.Printf("search: %v", err)
		return nil
	}
	closed := p.Clone()
	for _, t := range path {
		closed.ExtendInPlace(t)
	}
	return &closed
}
