package layout

import (
	"sort"

	"thoughtgraph/domain/core/aggregates"
	"thoughtgraph/domain/core/valueobjects"
)

// Hierarchical ranks nodes by connection count and stacks them in layers,
// best connected on top
type Hierarchical struct {
	layers int
}

// NewHierarchical creates a layered layout
func NewHierarchical(layers int) Hierarchical {
	if layers < 1 {
		layers = 1
	}
	return Hierarchical{layers: layers}
}

// Layout implements Strategy. Nodes with equal connection counts keep their
// relative order. Each layer holds ceil(n/layers) nodes; y spreads the layers
// evenly top to bottom and x spreads each layer's nodes evenly left to right.
func (h Hierarchical) Layout(nodes []*aggregates.Node, _ []*aggregates.Edge, size valueobjects.Size) {
	n := len(nodes)
	if n == 0 {
		return
	}

	ranked := make([]*aggregates.Node, n)
	copy(ranked, nodes)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ConnectionCount > ranked[j].ConnectionCount
	})

	perLayer := (n + h.layers - 1) / h.layers
	counts := make([]int, h.layers)
	for rank := range ranked {
		counts[rank/perLayer]++
	}

	for rank, node := range ranked {
		layer := rank / perLayer
		idx := rank % perLayer
		x := float64(idx+1) * size.Width / float64(counts[layer]+1)
		y := float64(layer+1) * size.Height / float64(h.layers+1)
		placeStatic(node, x, y)
	}
}
