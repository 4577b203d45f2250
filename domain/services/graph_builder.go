package services

import (
	"time"

	"thoughtgraph/domain/core/aggregates"
	"thoughtgraph/domain/core/entities"
)

// GraphBuilder turns a list of entries into a connection graph. Every pair of
// active entries is scored, so a build is O(n²) in the number of entries.
// There is no incremental update: any change means a full rebuild.
type GraphBuilder struct {
	calculator SimilarityCalculator
}

// NewGraphBuilder creates a builder using the given calculator
func NewGraphBuilder(calculator SimilarityCalculator) *GraphBuilder {
	if calculator == nil {
		calculator = NewWeightedJaccardCalculator(nil, nil)
	}
	return &GraphBuilder{calculator: calculator}
}

// ClampThreshold keeps a threshold fraction inside [0,1]
func ClampThreshold(threshold float64) float64 {
	if threshold < 0 {
		return 0
	}
	if threshold > 1 {
		return 1
	}
	return threshold
}

// BuildGraph creates one node per active entry, in input order, and an edge
// for every pair whose score reaches the threshold. Archived entries and
// repeated ids are skipped.
func (b *GraphBuilder) BuildGraph(entries []*entities.Entry, threshold float64, now time.Time) *aggregates.Graph {
	threshold = ClampThreshold(threshold)
	graph := aggregates.NewGraph(threshold, now)

	active := make([]*entities.Entry, 0, len(entries))
	for _, e := range entries {
		if e == nil || e.IsArchived() {
			continue
		}
		if err := graph.AddNode(aggregates.NewNodeFromEntry(e)); err != nil {
			continue
		}
		active = append(active, e)
	}

	score := b.scorer(active)
	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			s := score(i, j)
			if s < threshold {
				continue
			}
			// Connect only fails on broken invariants, which BuildGraph
			// cannot produce given unique ids and i<j.
			_, _ = graph.Connect(active[i].ID().String(), active[j].ID().String(), s)
		}
	}

	return graph
}

// scorer returns a pair scoring function. The weighted Jaccard calculator
// gets its features extracted once per entry instead of once per pair.
func (b *GraphBuilder) scorer(active []*entities.Entry) func(i, j int) float64 {
	wj, ok := b.calculator.(*WeightedJaccardCalculator)
	if !ok {
		return func(i, j int) float64 {
			return clampScore(b.calculator.Calculate(active[i], active[j]))
		}
	}

	features := make([]Features, len(active))
	for i, e := range active {
		features[i] = wj.Extract(e)
	}
	return func(i, j int) float64 {
		return clampScore(wj.CalculateFeatures(features[i], features[j]))
	}
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
