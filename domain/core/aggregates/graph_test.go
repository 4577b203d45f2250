package aggregates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"thoughtgraph/domain/core/valueobjects"
)

func newTestGraph(t *testing.T, ids ...string) *Graph {
	t.Helper()
	g := NewGraph(0.2, time.Now())
	for _, id := range ids {
		require.NoError(t, g.AddNode(&Node{ID: id}))
	}
	return g
}

func TestGraph_AddNode(t *testing.T) {
	g := newTestGraph(t, "a", "b")

	assert.Error(t, g.AddNode(nil))
	assert.Error(t, g.AddNode(&Node{}))
	assert.Error(t, g.AddNode(&Node{ID: "a"}))

	assert.Equal(t, 2, g.Len())
	assert.Equal(t, "a", g.Nodes()[0].ID)
	assert.Equal(t, "b", g.Nodes()[1].ID)
}

func TestGraph_Connect(t *testing.T) {
	g := newTestGraph(t, "a", "b", "c")

	edge, err := g.Connect("b", "a", 0.5)
	require.NoError(t, err)

	// source is always the earlier node
	assert.Equal(t, "a", edge.SourceID)
	assert.Equal(t, "b", edge.TargetID)

	_, err = g.Connect("a", "b", 0.5)
	assert.Error(t, err, "duplicate in either direction")
	_, err = g.Connect("a", "a", 0.5)
	assert.Error(t, err)
	_, err = g.Connect("a", "missing", 0.5)
	assert.Error(t, err)
	_, err = g.Connect("a", "c", 1.5)
	assert.Error(t, err)

	a, _ := g.GetNode("a")
	b, _ := g.GetNode("b")
	c, _ := g.GetNode("c")
	assert.Equal(t, 1, a.ConnectionCount)
	assert.Equal(t, 1, b.ConnectionCount)
	assert.Equal(t, 0, c.ConnectionCount)

	assert.True(t, g.Connected("b", "a"))
	assert.False(t, g.Connected("a", "c"))
	assert.Equal(t, map[string]bool{"b": true}, g.Neighbors("a"))
	assert.NoError(t, g.Validate())
}

func TestGraph_Validate_DetectsCountDrift(t *testing.T) {
	g := newTestGraph(t, "a", "b")
	_, err := g.Connect("a", "b", 0.3)
	require.NoError(t, err)

	node, _ := g.GetNode("a")
	node.ConnectionCount = 5

	assert.Error(t, g.Validate())
}

func TestGraph_ClustersAndStats(t *testing.T) {
	g := newTestGraph(t, "a", "b", "c", "d", "e")
	_, err := g.Connect("a", "b", 0.3)
	require.NoError(t, err)
	_, err = g.Connect("b", "c", 0.3)
	require.NoError(t, err)
	_, err = g.Connect("d", "e", 0.3)
	require.NoError(t, err)

	clusters := g.GetClusters()
	require.Len(t, clusters, 2)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, clusters[0])
	assert.ElementsMatch(t, []string{"d", "e"}, clusters[1])

	stats := g.Stats()
	assert.Equal(t, 5, stats.NodeCount)
	assert.Equal(t, 3, stats.EdgeCount)
	assert.Equal(t, 2, stats.ClusterCount)
	assert.Equal(t, 0, stats.Isolated)
	assert.InDelta(t, 0.3, stats.Density, 1e-9)
}

func TestGraph_EmptyStats(t *testing.T) {
	g := NewGraph(0.2, time.Now())

	assert.True(t, g.IsEmpty())
	assert.Equal(t, Stats{}, g.Stats())
	assert.NoError(t, g.Validate())
}

func TestNode_Pin(t *testing.T) {
	n := &Node{ID: "a", VX: 3, VY: 4}
	assert.False(t, n.Placed)

	n.PinAt(valueobjects.Pos(10, 20))
	assert.True(t, n.Placed)
	assert.True(t, n.Pin.IsPinned())
	assert.Zero(t, n.VX)
	at, ok := n.Pin.At()
	assert.True(t, ok)
	assert.Equal(t, 10.0, at.X())

	n.Release()
	assert.False(t, n.Pin.IsPinned())
	assert.Equal(t, 20.0, n.Y())
}
