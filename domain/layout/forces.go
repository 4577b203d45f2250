package layout

import (
	"math"

	"thoughtgraph/domain/core/aggregates"
)

// link is an edge resolved to node indices with its d3-style strength and
// bias. Strength is 1/min(degree); bias shifts the correction toward the
// less connected endpoint.
type link struct {
	source, target int
	strength       float64
	bias           float64
}

func buildLinks(nodes []*aggregates.Node, edges []*aggregates.Edge) []link {
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}

	degree := make([]int, len(nodes))
	links := make([]link, 0, len(edges))
	for _, e := range edges {
		si, sok := index[e.SourceID]
		ti, tok := index[e.TargetID]
		if !sok || !tok || si == ti {
			continue
		}
		degree[si]++
		degree[ti]++
		links = append(links, link{source: si, target: ti})
	}

	for i := range links {
		ds, dt := float64(degree[links[i].source]), float64(degree[links[i].target])
		links[i].strength = 1 / math.Min(ds, dt)
		links[i].bias = ds / (ds + dt)
	}
	return links
}

// applyLinks pulls connected nodes toward the rest length
func (s *Simulation) applyLinks() {
	for _, l := range s.links {
		src, tgt := s.nodes[l.source], s.nodes[l.target]

		x := tgt.X() + tgt.VX - src.X() - src.VX
		y := tgt.Y() + tgt.VY - src.Y() - src.VY
		if x == 0 {
			x = s.jiggle()
		}
		if y == 0 {
			y = s.jiggle()
		}

		d := math.Sqrt(x*x + y*y)
		k := (d - s.linkDistance) / d * s.alpha * l.strength
		x *= k
		y *= k

		tgt.VX -= x * l.bias
		tgt.VY -= y * l.bias
		src.VX += x * (1 - l.bias)
		src.VY += y * (1 - l.bias)
	}
}

// applyCharge applies pairwise inverse-distance repulsion. Every pair is
// visited, so this is O(n²) like the connection builder.
func (s *Simulation) applyCharge() {
	if s.chargeStrength == 0 {
		return
	}

	for i, a := range s.nodes {
		if a.Pin.IsPinned() {
			continue
		}
		for j, b := range s.nodes {
			if i == j {
				continue
			}
			x := b.X() - a.X()
			y := b.Y() - a.Y()
			if x == 0 {
				x = s.jiggle()
			}
			if y == 0 {
				y = s.jiggle()
			}

			l := x*x + y*y
			if l < 1 {
				l = math.Sqrt(l)
			}
			w := s.chargeStrength * s.alpha / l
			a.VX += x * w
			a.VY += y * w
		}
	}
}

// applyCenter nudges every free node toward the canvas center
func (s *Simulation) applyCenter() {
	if s.centerStrength == 0 {
		return
	}

	k := s.centerStrength * s.alpha
	for _, n := range s.nodes {
		if n.Pin.IsPinned() {
			continue
		}
		n.VX += (s.center.X() - n.X()) * k
		n.VY += (s.center.Y() - n.Y()) * k
	}
}

// applyCollision pushes apart nodes whose predicted positions are closer
// than two radii. Not scaled by alpha, so separation holds after cooling.
func (s *Simulation) applyCollision() {
	if s.collideRadius <= 0 {
		return
	}

	r := 2 * s.collideRadius
	for i, a := range s.nodes {
		for _, b := range s.nodes[i+1:] {
			x := a.X() + a.VX - b.X() - b.VX
			y := a.Y() + a.VY - b.Y() - b.VY
			l := x*x + y*y
			if l >= r*r {
				continue
			}
			if x == 0 {
				x = s.jiggle()
				l += x * x
			}
			if y == 0 {
				y = s.jiggle()
				l += y * y
			}

			l = math.Sqrt(l)
			k := (r - l) / l

			// equal radii split the correction evenly
			a.VX += x * k * 0.5
			a.VY += y * k * 0.5
			b.VX -= x * k * 0.5
			b.VY -= y * k * 0.5
		}
	}
}
