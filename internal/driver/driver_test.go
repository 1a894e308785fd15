package driver

import (
	"context"
	"testing"
	"time"

	"github.com/greenbelt/trailcore/internal/config"
	"github.com/greenbelt/trailcore/internal/elevation"
	"github.com/greenbelt/trailcore/internal/graph"
	"github.com/greenbelt/trailcore/internal/models"
	"github.com/greenbelt/trailcore/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func squareNetwork(sideLengthDeg float64, trailheadName string) *graph.TrailNetwork {
	a := models.Node{ID: models.NodeID{OSMID: 1}, Lat: 0, Lon: 0}
	b := models.Node{ID: models.NodeID{OSMID: 2}, Lat: sideLengthDeg, Lon: 0}
	c := models.Node{ID: models.NodeID{OSMID: 3}, Lat: sideLengthDeg, Lon: sideLengthDeg}
	d := models.Node{ID: models.NodeID{OSMID: 4}, Lat: 0, Lon: sideLengthDeg}

	g := graph.New()
	g.AddSegment(models.NewTrail("s1", 1, strPtr("North Loop"), []models.Node{a, b}), false, nil)
	g.AddSegment(models.NewTrail("s2", 2, strPtr("North Loop"), []models.Node{b, c}), false, nil)
	g.AddSegment(models.NewTrail("s3", 3, strPtr("North Loop"), []models.Node{c, d}), false, nil)
	g.AddSegment(models.NewTrail("s4", 4, strPtr("North Loop"), []models.Node{d, a}), false, nil)

	totalKM := 0.0
	seen := map[string]bool{}
	for _, edges := range g.Edges {
		for _, e := range edges {
			if seen[e.Trail.ID] {
				continue
			}
			seen[e.Trail.ID] = true
			totalKM += e.WeightKM
		}
	}

	return &graph.TrailNetwork{
		Graph:         g,
		Name:          "Square Preserve",
		TotalLengthKM: totalKM,
		Trailheads:    []models.Trailhead{{Node: a, Name: trailheadName}},
	}
}

func defaultSettings() config.IngestSettings {
	return config.IngestSettings{
		MaxDistanceM:         20000,
		MaxSegments:          150,
		MaxConcurrent:        25,
		Quality:              config.QualitySettings{RepeatNodeWeight: 1},
		TimeoutS:             10,
		StopSearchingCutoffM: 8 * 1609.34,
	}
}

type fakeOracle struct{}

func (fakeOracle) ElevationGainLoss(ctx context.Context, nodes []models.Node) (float64, float64, error) {
	return 42, 7, nil
}

func (fakeOracle) Elevations(ctx context.Context, nodes []models.Node) ([]float64, error) {
	heights := make([]float64, len(nodes))
	return heights, nil
}

func TestRunSingleWorkerIsDeterministicOrder(t *testing.T) {
	net1 := squareNetwork(0.01, "Lot A")
	net2 := squareNetwork(0.02, "Lot B")
	net2.Name = "Bigger Preserve"

	out := Run(context.Background(), []*graph.TrailNetwork{net1, net2}, defaultSettings(), fakeOracle{}, 1, nil)

	var results []NetworkResult
	for r := range out {
		results = append(results, r)
	}

	require.Len(t, results, 2)
	// Biggest-first ordering: net2 has a larger side length, hence more km.
	assert.Equal(t, net2.TotalLengthKM, results[0].Network.TotalLengthKM)
	assert.Equal(t, net1.TotalLengthKM, results[1].Network.TotalLengthKM)
}

func TestRunAttachesElevationToSurvivingLoops(t *testing.T) {
	net := squareNetwork(0.01, "Trailhead")

	out := Run(context.Background(), []*graph.TrailNetwork{net}, defaultSettings(), fakeOracle{}, 1, nil)
	result := <-out

	th := net.Trailheads[0]
	tr, ok := result.Loops[th]
	require.True(t, ok)
	require.NotEmpty(t, tr.Loops)
	for _, l := range tr.Loops {
		assert.Equal(t, 42.0, l.ElevationGainM)
		assert.Equal(t, 7.0, l.ElevationLossM)
	}
	assert.Equal(t, len(tr.Loops), tr.Meta.NumLoops)
	assert.GreaterOrEqual(t, tr.Meta.LoopQuality, 0.0)
}

func TestRunWorkerPoolProcessesAllNetworks(t *testing.T) {
	networks := []*graph.TrailNetwork{
		squareNetwork(0.01, "A"),
		squareNetwork(0.02, "B"),
		squareNetwork(0.03, "C"),
	}

	out := Run(context.Background(), networks, defaultSettings(), fakeOracle{}, 4, nil)

	var count int
	for range out {
		count++
	}
	assert.Equal(t, 3, count)
}

func TestRunRespectsContextCancellation(t *testing.T) {
	networks := []*graph.TrailNetwork{squareNetwork(0.01, "A")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := Run(ctx, networks, defaultSettings(), fakeOracle{}, 1, nil)

	select {
	case _, ok := <-out:
		assert.False(t, ok, "cancelled context should yield no results before closing")
	case <-time.After(time.Second):
		t.Fatal("channel never closed")
	}
}

func TestRunUpdatesTrackerPerNetwork(t *testing.T) {
	networks := []*graph.TrailNetwork{squareNetwork(0.01, "A"), squareNetwork(0.02, "B")}
	tracker := status.NewTracker(len(networks))

	out := Run(context.Background(), networks, defaultSettings(), fakeOracle{}, 1, tracker)
	for range out {
	}

	snap := tracker.Snapshot()
	assert.Equal(t, 2, snap.CompletedNetworks)
	assert.True(t, snap.Done)
	assert.Greater(t, snap.TotalLoops, 0)
}

func TestComputeMetaEmptyLoops(t *testing.T) {
	meta := computeMeta(nil, 10, 1.5, 1)
	assert.Equal(t, 0, meta.NumLoops)
	assert.Equal(t, 0.0, meta.LoopDiversity)
	assert.Equal(t, 10.0, meta.NetworkLengthKM)
}
