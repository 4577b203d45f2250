package layout

import (
	"math"

	"thoughtgraph/domain/core/aggregates"
	"thoughtgraph/domain/core/valueobjects"
)

// Circular spaces nodes evenly on a circle of radius min(w,h)/3 around the
// canvas center, in the order given
type Circular struct{}

// Layout implements Strategy
func (Circular) Layout(nodes []*aggregates.Node, _ []*aggregates.Edge, size valueobjects.Size) {
	n := len(nodes)
	if n == 0 {
		return
	}

	center := size.Center()
	radius := size.MinSide() / 3

	for i, node := range nodes {
		angle := 2 * math.Pi * float64(i) / float64(n)
		placeStatic(node,
			center.X()+radius*math.Cos(angle),
			center.Y()+radius*math.Sin(angle),
		)
	}
}
