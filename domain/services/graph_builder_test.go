package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"thoughtgraph/domain/core/entities"
	"thoughtgraph/tests/fixtures"
)

// tableCalculator returns fixed scores keyed by entry text
type tableCalculator map[[2]string]float64

func (c tableCalculator) Calculate(a, b *entities.Entry) float64 {
	if s, ok := c[[2]string{a.Text(), b.Text()}]; ok {
		return s
	}
	return c[[2]string{b.Text(), a.Text()}]
}

func TestBuildGraph_ThresholdScenario(t *testing.T) {
	builder := NewGraphBuilder(nil)
	entries := []*entities.Entry{
		fixtures.Entry("apples oranges", "fruit"),
		fixtures.Entry("bicycle helmets", "fruit", "sport"),
	}

	at20 := builder.BuildGraph(entries, 0.2, time.Now())
	require.Len(t, at20.Edges(), 1)
	assert.InDelta(t, 0.3, at20.Edges()[0].Strength, 1e-9)

	at40 := builder.BuildGraph(entries, 0.4, time.Now())
	assert.Empty(t, at40.Edges())
	assert.Equal(t, 2, at40.Len())
}

func TestBuildGraph_IdenticalUntaggedText(t *testing.T) {
	builder := NewGraphBuilder(nil)
	entries := []*entities.Entry{
		fixtures.Entry("learning about graphs"),
		fixtures.Entry("learning about graphs"),
	}

	graph := builder.BuildGraph(entries, 0.2, time.Now())

	require.Len(t, graph.Edges(), 1)
	assert.InDelta(t, 0.4, graph.Edges()[0].Strength, 1e-9)
}

func TestBuildGraph_ThreeEntries(t *testing.T) {
	builder := NewGraphBuilder(tableCalculator{
		{"a", "b"}: 0.5,
		{"b", "c"}: 0.3,
		{"a", "c"}: 0.1,
	})
	a, b, c := fixtures.Entry("a"), fixtures.Entry("b"), fixtures.Entry("c")

	graph := builder.BuildGraph([]*entities.Entry{a, b, c}, 0.2, time.Now())

	require.Len(t, graph.Edges(), 2)
	assert.False(t, graph.Connected(a.ID().String(), c.ID().String()))

	na, _ := graph.GetNode(a.ID().String())
	nb, _ := graph.GetNode(b.ID().String())
	nc, _ := graph.GetNode(c.ID().String())
	assert.Equal(t, 1, na.ConnectionCount)
	assert.Equal(t, 2, nb.ConnectionCount)
	assert.Equal(t, 1, nc.ConnectionCount)
	assert.NoError(t, graph.Validate())
}

func TestBuildGraph_ExcludesArchived(t *testing.T) {
	builder := NewGraphBuilder(nil)
	archived := fixtures.NewEntryBuilder().WithText("learning about graphs").Archived().Build()
	entries := []*entities.Entry{
		fixtures.Entry("learning about graphs"),
		archived,
		nil,
	}

	graph := builder.BuildGraph(entries, 0, time.Now())

	assert.Equal(t, 1, graph.Len())
	assert.False(t, graph.HasNode(archived.ID().String()))
	assert.Empty(t, graph.Edges())
}

func TestBuildGraph_Empty(t *testing.T) {
	graph := NewGraphBuilder(nil).BuildGraph(nil, 0.2, time.Now())

	assert.True(t, graph.IsEmpty())
	assert.Empty(t, graph.Edges())
}

func TestBuildGraph_ClampsThreshold(t *testing.T) {
	builder := NewGraphBuilder(nil)
	entries := []*entities.Entry{fixtures.Entry("x"), fixtures.Entry("y")}

	assert.Equal(t, 0.0, builder.BuildGraph(entries, -1, time.Now()).Threshold())
	assert.Equal(t, 1.0, builder.BuildGraph(entries, 7, time.Now()).Threshold())

	// at threshold 0 every pair qualifies, even with score 0
	assert.Len(t, builder.BuildGraph(entries, -1, time.Now()).Edges(), 1)
}

func sampleEntries() []*entities.Entry {
	texts := []struct {
		text string
		tags []string
	}{
		{"morning coffee thoughts before work", []string{"life"}},
		{"release planning for the graph view", []string{"work", "graph"}},
		{"graph layout experiments with forces", []string{"graph"}},
		{"evening coffee thoughts after running", []string{"life", "running"}},
		{"running intervals in the park", []string{"running"}},
		{"planning the release notes", []string{"work"}},
		{"untitled scribble", nil},
	}
	out := make([]*entities.Entry, len(texts))
	for i, tc := range texts {
		out[i] = fixtures.Entry(tc.text, tc.tags...)
	}
	return out
}

func TestBuildGraph_Invariants(t *testing.T) {
	builder := NewGraphBuilder(nil)
	entries := sampleEntries()

	for _, threshold := range []float64{0, 0.1, 0.2, 0.3, 0.5, 1} {
		t.Run(fmt.Sprintf("threshold %.1f", threshold), func(t *testing.T) {
			graph := builder.BuildGraph(entries, threshold, time.Now())

			require.NoError(t, graph.Validate())
			assert.Equal(t, len(entries), graph.Len())
			for _, e := range graph.Edges() {
				assert.NotEqual(t, e.SourceID, e.TargetID)
				assert.GreaterOrEqual(t, e.Strength, threshold)
			}
		})
	}
}

func TestBuildGraph_ThresholdMonotonic(t *testing.T) {
	builder := NewGraphBuilder(nil)
	entries := sampleEntries()

	edgeKeys := func(threshold float64) map[string]bool {
		keys := map[string]bool{}
		for _, e := range builder.BuildGraph(entries, threshold, time.Now()).Edges() {
			keys[e.SourceID+"|"+e.TargetID] = true
		}
		return keys
	}

	thresholds := []float64{1, 0.6, 0.4, 0.3, 0.2, 0.1, 0}
	higher := edgeKeys(thresholds[0])
	for _, threshold := range thresholds[1:] {
		lower := edgeKeys(threshold)
		for key := range higher {
			assert.True(t, lower[key], "edge %s dropped when lowering the threshold to %.1f", key, threshold)
		}
		assert.GreaterOrEqual(t, len(lower), len(higher))
		higher = lower
	}
	assert.NotEmpty(t, higher)
}
