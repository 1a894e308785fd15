package search

import (
	"testing"

	"github.com/greenbelt/trailcore/internal/config"
	"github.com/greenbelt/trailcore/internal/graph"
	"github.com/greenbelt/trailcore/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareNetwork(sideLengthDeg float64) *graph.TrailNetwork {
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
	for from, edges := range g.Edges {
		for _, e := range edges {
			key := e.Trail.ID
			if seen[key] {
				continue
			}
			seen[key] = true
			totalKM += e.WeightKM
			_ = from
		}
	}
	return &graph.TrailNetwork{Graph: g, TotalLengthKM: totalKM}
}

func strPtr(s string) *string { return &s }

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

func TestRunFindsSimpleSquareLoop(t *testing.T) {
	net := squareNetwork(0.01) // ~1.1km per side, ~4.4km loop
	require.Greater(t, net.TotalLengthKM, 3.0)

	root := models.Node{ID: models.NodeID{OSMID: 1}, Lat: 0, Lon: 0}
	loops := Run(net, root, defaultSettings())

	require.NotEmpty(t, loops)
	for _, l := range loops {
		assert.True(t, l.IsComplete())
		assert.GreaterOrEqual(t, l.LengthM, ShortestLoopM)
		assert.True(t, l.WorthKeeping(1))
	}
}

func TestRunYieldsNothingOnProblematicNetwork(t *testing.T) {
	g := graph.New()
	a := models.Node{ID: models.NodeID{OSMID: 1}, Lat: 0, Lon: 0}
	b := models.Node{ID: models.NodeID{OSMID: 2}, Lat: 0.00001, Lon: 0}
	g.AddSegment(models.NewTrail("s1", 1, nil, []models.Node{a, b}), false, nil)
	g.AddSegment(models.NewTrail("s2", 2, nil, []models.Node{b, a}), false, nil)
	net := &graph.TrailNetwork{Graph: g, TotalLengthKM: 0.002}

	loops := Run(net, a, defaultSettings())
	assert.Empty(t, loops)
}

func TestLengthTargetMetStartsFalse(t *testing.T) {
	// The square's loops (~4.4km) stay below the length target, which here
	// is min(max distance, cutoff) ~ 4.9km, so length_target_met never flips
	// true. Checks that such a search still returns its loops, all shorter
	// than the cutoff. Both loops are found in the same layer and the
	// frontier then empties, so this run ends the same way whether or not
	// the flag started true.
	net := squareNetwork(0.01)
	root := models.Node{ID: models.NodeID{OSMID: 1}, Lat: 0, Lon: 0}
	settings := defaultSettings()
	settings.MaxConcurrent = 1000
	loops := Run(net, root, settings)
	require.NotEmpty(t, loops)
	for _, l := range loops {
		assert.Less(t, l.LengthM, settings.StopSearchingCutoffM)
	}
}

func TestWorthKeepingRequiresMinimumLength(t *testing.T) {
	root := NewRoot(nd(1))
	p := root.Extended(mockTrail("a", 1, 2, 100)).Extended(mockTrail("b", 2, 1, 100))
	assert.False(t, p.WorthKeeping(1))
}

func TestPostFilterDedupesSimilarLoops(t *testing.T) {
	root := NewRoot(nd(1))
	a := root.Extended(mockTrail("a", 1, 2, 2000)).Extended(mockTrail("b", 2, 1, 2000))
	bNear := root.Extended(mockTrail("a", 1, 2, 2010)).Extended(mockTrail("b", 2, 1, 2010))

	out := PostFilter([]Subpath{a, bNear}, 10, 1)
	assert.Len(t, out, 1)
}

func TestFilterSimilarMonotoneUnderHigherThreshold(t *testing.T) {
	root := NewRoot(nd(1))
	a := root.Extended(mockTrail("a", 1, 2, 2000)).Extended(mockTrail("b", 2, 1, 2000))
	b := root.Extended(mockTrail("a", 1, 2, 2010)).Extended(mockTrail("b", 2, 1, 2010))

	low := FilterSimilar([]Subpath{a, b}, 0.5)
	high := FilterSimilar([]Subpath{a, b}, 0.999999)
	assert.GreaterOrEqual(t, len(high), len(low))
}

func TestIsProblematicDenseNetwork(t *testing.T) {
	g := graph.New()
	a := models.Node{ID: models.NodeID{OSMID: 1}, Lat: 0, Lon: 0}
	b := models.Node{ID: models.NodeID{OSMID: 2}, Lat: 0.00001, Lon: 0}
	g.AddSegment(models.NewTrail("s1", 1, nil, []models.Node{a, b}), false, nil)
	net := &graph.TrailNetwork{Graph: g, TotalLengthKM: 0.001}
	assert.True(t, IsProblematic(net))
}

// TestSubpathCoherence checks invariant 2: a Subpath's SegmentDist keys are
// exactly its segment ids, consecutive segments share a node, and LengthM is
// the sum of per-segment lengths.
func TestSubpathCoherence(t *testing.T) {
	net := squareNetwork(0.01)
	root := models.Node{ID: models.NodeID{OSMID: 1}, Lat: 0, Lon: 0}
	loops := Run(net, root, defaultSettings())
	require.NotEmpty(t, loops)

	for _, p := range loops {
		segIDs := make(map[string]bool, len(p.Segments))
		wantLength := 0.0
		for i, seg := range p.Segments {
			segIDs[seg.ID] = true
			wantLength += seg.LengthM
			if i > 0 {
				assert.Equal(t, p.Segments[i-1].LastNode().ID, seg.FirstNode().ID,
					"segment %d does not start where segment %d ended", i, i-1)
			}
		}
		distIDs := make(map[string]bool, len(p.SegmentDist))
		for id := range p.SegmentDist {
			distIDs[id] = true
		}
		assert.Equal(t, segIDs, distIDs, "SegmentDist keys must match segment ids exactly")
		assert.InDelta(t, wantLength, p.LengthM, 1e-6, "LengthM must equal the sum of segment lengths")
	}
}

// TestRunIsDeterministic checks invariant 8: running the same search twice
// over the same network and settings yields identical loop sets in the same
// order.
func TestRunIsDeterministic(t *testing.T) {
	net := squareNetwork(0.01)
	root := models.Node{ID: models.NodeID{OSMID: 1}, Lat: 0, Lon: 0}
	settings := defaultSettings()

	first := Run(net, root, settings)
	second := Run(net, root, settings)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].LengthM, second[i].LengthM)
		assert.Equal(t, first[i].Name(), second[i].Name())
		require.Equal(t, len(first[i].Segments), len(second[i].Segments))
		for j := range first[i].Segments {
			assert.Equal(t, first[i].Segments[j].ID, second[i].Segments[j].ID)
		}
	}
}
