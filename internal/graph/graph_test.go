package graph

import (
	"testing"

	"github.com/greenbelt/trailcore/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func n(id int64, lat, lon float64) models.Node {
	return models.Node{ID: models.NodeID{OSMID: id}, Lat: lat, Lon: lon}
}

func TestAddSegmentCreatesBothDirections(t *testing.T) {
	g := New()
	trail := models.NewTrail("1", 1, nil, []models.Node{n(1, 0, 0), n(2, 0.01, 0.01)})
	g.AddSegment(trail, false, nil)

	assert.Len(t, g.NeighborsOf(trail.FirstNode().ID), 1)
	assert.Len(t, g.NeighborsOf(trail.LastNode().ID), 1)
	assert.Equal(t, 1, g.EdgeCount())
}

func TestAddSegmentDropsPureRoadCrossing(t *testing.T) {
	g := New()
	trail := models.NewTrail("1", 1, nil, []models.Node{n(1, 0, 0), n(2, 0.01, 0.01)})
	g.AddSegment(trail, true, map[models.NodeID]bool{}) // neither endpoint is a trail node
	assert.Equal(t, 0, g.EdgeCount())
}

func TestExtractDropsTinyComponents(t *testing.T) {
	g := New()
	trail := models.NewTrail("1", 1, nil, []models.Node{n(1, 0, 0), n(2, 0.0001, 0.0001)})
	g.AddSegment(trail, false, nil)
	networks := Extract(g, ExtractOptions{})
	assert.Empty(t, networks)
}

func TestExtractKeepsLargeComponent(t *testing.T) {
	g := New()
	// A triangle of ~2.2km, ~2.5km and ~2.5km segments, total ~7.2km, 3 nodes.
	a, b, c := n(1, 0, 0), n(2, 0.02, 0), n(3, 0.01, 0.02)
	g.AddSegment(models.NewTrail("t1", 1, nil, []models.Node{a, b}), false, nil)
	g.AddSegment(models.NewTrail("t2", 2, nil, []models.Node{b, c}), false, nil)
	g.AddSegment(models.NewTrail("t3", 3, nil, []models.Node{c, a}), false, nil)

	networks := Extract(g, ExtractOptions{})
	require.Len(t, networks, 1)
	assert.Greater(t, networks[0].TotalLengthKM, 1.0)
}

func TestExtractSkipsAlreadyProcessedDigest(t *testing.T) {
	g := New()
	a, b, c := n(1, 0, 0), n(2, 0.02, 0), n(3, 0.01, 0.02)
	g.AddSegment(models.NewTrail("t1", 1, nil, []models.Node{a, b}), false, nil)
	g.AddSegment(models.NewTrail("t2", 2, nil, []models.Node{b, c}), false, nil)
	g.AddSegment(models.NewTrail("t3", 3, nil, []models.Node{c, a}), false, nil)

	first := Extract(g, ExtractOptions{})
	require.Len(t, first, 1)

	already := map[string]bool{first[0].Digest: true}
	second := Extract(g, ExtractOptions{AlreadyProcessed: already})
	assert.Empty(t, second)
}

func TestExtractClustersTrailheads(t *testing.T) {
	g := New()
	a, b, c := n(1, 0, 0), n(2, 0.02, 0), n(3, 0.01, 0.02)
	g.AddSegment(models.NewTrail("t1", 1, nil, []models.Node{a, b}), false, nil)
	g.AddSegment(models.NewTrail("t2", 2, nil, []models.Node{b, c}), false, nil)
	g.AddSegment(models.NewTrail("t3", 3, nil, []models.Node{c, a}), false, nil)

	nonTrail := map[int64]string{1: "Road A", 2: "Road B"}
	networks := Extract(g, ExtractOptions{NonTrailNodes: nonTrail})
	require.Len(t, networks, 1)
	assert.NotEmpty(t, networks[0].Trailheads)
}

func TestUniqueIDSortedWayIDs(t *testing.T) {
	g := New()
	a, b, c := n(1, 0, 0), n(2, 0.02, 0), n(3, 0.01, 0.02)
	g.AddSegment(models.NewTrail("t1", 5, nil, []models.Node{a, b}), false, nil)
	g.AddSegment(models.NewTrail("t2", 3, nil, []models.Node{b, c}), false, nil)
	net := &TrailNetwork{Graph: g}
	assert.Equal(t, "3,5", net.UniqueID())
}
