// Package status exposes operational progress for an in-flight ingest run:
// how many networks have been scheduled and completed, and how many loops
// have been found so far. It serves no trail or loop data itself.
package status

import (
	"sync"
	"time"
)

// Tracker accumulates progress counters updated concurrently by driver
// workers. Safe for concurrent use.
type Tracker struct {
	mu                sync.RWMutex
	totalNetworks     int
	completedNetworks int
	totalLoops        int
	startedAt         time.Time
}

// NewTracker returns a Tracker for a run expected to process totalNetworks
// networks.
func NewTracker(totalNetworks int) *Tracker {
	return &Tracker{totalNetworks: totalNetworks, startedAt: time.Now()}
}

// MarkNetworkComplete records that one network finished processing,
// having produced loopCount loops across all its trailheads.
func (t *Tracker) MarkNetworkComplete(loopCount int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completedNetworks++
	t.totalLoops += loopCount
}

// Snapshot is a point-in-time, JSON-serializable view of progress.
type Snapshot struct {
	TotalNetworks     int     `json:"total_networks"`
	CompletedNetworks int     `json:"completed_networks"`
	TotalLoops        int     `json:"total_loops"`
	ElapsedSeconds    float64 `json:"elapsed_seconds"`
	Done              bool    `json:"done"`
}

// Snapshot returns the current progress state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Snapshot{
		TotalNetworks:     t.totalNetworks,
		CompletedNetworks: t.completedNetworks,
		TotalLoops:        t.totalLoops,
		ElapsedSeconds:    time.Since(t.startedAt).Seconds(),
		Done:              t.totalNetworks > 0 && t.completedNetworks >= t.totalNetworks,
	}
}
