// Package driver schedules the per-trailhead loop search over every
// trail network produced by the graph extractor, fanning work out across
// a worker pool and streaming completed results back to the caller.
package driver

import (
	"github.com/greenbelt/trailcore/internal/graph"
	"github.com/greenbelt/trailcore/internal/models"
	"github.com/greenbelt/trailcore/internal/search"
)

// TrailheadMeta summarizes one trailhead's surviving loops.
type TrailheadMeta struct {
	NumLoops        int
	LoopDiversity   float64
	LoopQuality     float64
	LongestLoopM    float64
	ShortestLoopM   float64
	NetworkLengthKM float64
	IngestTimeS     float64
}

// TrailheadResult is the final loop set and summary for one trailhead.
type TrailheadResult struct {
	Loops []search.Subpath
	Meta  TrailheadMeta
}

// NetworkResult pairs a processed TrailNetwork with its per-trailhead
// results.
type NetworkResult struct {
	Network *graph.TrailNetwork
	Loops   map[models.Trailhead]TrailheadResult
}
