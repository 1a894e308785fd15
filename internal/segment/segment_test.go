package segment

import (
	"sort"
	"testing"

	"github.com/greenbelt/trailcore/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id int64) models.Node {
	return models.Node{ID: models.NodeID{OSMID: id}, Lat: float64(id) * 0.001, Lon: float64(id) * 0.001}
}

func mkTrail(id string, ids ...int64) models.Trail {
	nodes := make([]models.Node, len(ids))
	for i, v := range ids {
		nodes[i] = node(v)
	}
	return models.NewTrail(id, 1, nil, nodes)
}

func TestSplitUnchangedWhenNoSharedNode(t *testing.T) {
	trails := map[string]models.Trail{
		"1": mkTrail("1", 1, 2, 3),
	}
	out := Split(trails, map[int64]bool{})
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].ID)
}

func TestSplitAtSharedInteriorNode(t *testing.T) {
	trails := map[string]models.Trail{
		"1": mkTrail("1", 1, 2, 3),
		"2": mkTrail("2", 4, 2, 5),
	}
	out := Split(trails, map[int64]bool{})
	// node 2 is shared between trail 1 and trail 2; both split there.
	ids := make([]string, len(out))
	for i, tr := range out {
		ids[i] = tr.ID
	}
	sort.Strings(ids)
	assert.Equal(t, []string{"1-0/2", "1-1/2", "2-0/2", "2-1/2"}, ids)
}

func TestSplitAtRoadNode(t *testing.T) {
	trails := map[string]models.Trail{
		"1": mkTrail("1", 1, 2, 3),
	}
	out := Split(trails, map[int64]bool{2: true})
	require.Len(t, out, 2)
}

func TestSplitKeepsEveryInputNode(t *testing.T) {
	trails := map[string]models.Trail{
		"1": mkTrail("1", 1, 2, 3, 4),
		"2": mkTrail("2", 5, 3, 6),
	}
	out := Split(trails, map[int64]bool{6: true})

	inCount := map[models.NodeID]int{}
	for _, tr := range trails {
		for _, n := range tr.Nodes {
			inCount[n.ID]++
		}
	}
	outCount := map[models.NodeID]int{}
	for _, tr := range out {
		for _, n := range tr.Nodes {
			outCount[n.ID]++
		}
	}
	// Splitting duplicates the shared boundary node once per new edge, so
	// compare the *set* of nodes touched: every input node must appear at
	// least once in the output.
	for id := range inCount {
		assert.Greater(t, outCount[id], 0, "node %v missing from split output", id)
	}
}

func TestDisconnectRewritesRoadEndpoints(t *testing.T) {
	trails := []models.Trail{mkTrail("1-0/1", 1, 2)}
	out := Disconnect(trails, map[int64]bool{2: true}, map[int64]bool{})
	require.Len(t, out, 1)
	assert.Equal(t, int64(2), out[0].LastNode().ID.OSMID)
	assert.NotEmpty(t, out[0].LastNode().ID.DerivedTag)
	assert.Equal(t, int64(1), out[0].FirstNode().ID.OSMID)
	assert.Empty(t, out[0].FirstNode().ID.DerivedTag)
}

func TestDisconnectRespectsAllowlist(t *testing.T) {
	trails := []models.Trail{mkTrail("1-0/1", 1, 2)}
	out := Disconnect(trails, map[int64]bool{2: true}, map[int64]bool{2: true})
	require.Len(t, out, 1)
	assert.Empty(t, out[0].LastNode().ID.DerivedTag)
}
