package visualization

import (
	"math"

	"thoughtgraph/domain/core/aggregates"
	"thoughtgraph/domain/core/valueobjects"
	"thoughtgraph/domain/layout"
)

// Opacity levels for the emphasis passes
const (
	hoverNodeOpacity  = 1.0
	hoverDimOpacity   = 0.15
	hoverEdgeOpacity  = 1.0
	hoverEdgeDim      = 0.05
	searchMatch       = 1.0
	searchDim         = 0.1
	searchEdgeOpacity = 0.6
	searchEdgeDim     = 0.05
)

const (
	emptyMessage = "No thoughts yet. Capture a few entries and they will show up here, " +
		"connected by shared tags and words."
	closedMessage = "The graph view is closed."
)

// NodeView is everything a renderer needs to draw one node
type NodeView struct {
	ID              string   `json:"id"`
	Label           string   `json:"label"`
	Text            string   `json:"text"`
	Tags            []string `json:"tags"`
	ConnectionCount int      `json:"connectionCount"`
	X               float64  `json:"x"`
	Y               float64  `json:"y"`
	Radius          float64  `json:"radius"`
	Color           string   `json:"color"`
	Opacity         float64  `json:"opacity"`
	Pinned          bool     `json:"pinned"`
	Hovered         bool     `json:"hovered"`
}

// EdgeView is everything a renderer needs to draw one edge
type EdgeView struct {
	SourceID string  `json:"source"`
	TargetID string  `json:"target"`
	X1       float64 `json:"x1"`
	Y1       float64 `json:"y1"`
	X2       float64 `json:"x2"`
	Y2       float64 `json:"y2"`
	Strength float64 `json:"strength"`
	Width    float64 `json:"width"`
	Opacity  float64 `json:"opacity"`
}

// Scene is a renderer-independent snapshot of the session. It shares
// nothing with the live graph, so it stays valid after further ticks.
type Scene struct {
	State     State             `json:"state"`
	Message   string            `json:"message,omitempty"`
	Size      valueobjects.Size `json:"size"`
	Layout    layout.Mode       `json:"layout"`
	Threshold float64           `json:"threshold"`
	Search    string            `json:"search,omitempty"`
	Hovered   string            `json:"hovered,omitempty"`
	Animating bool              `json:"animating"`
	Stats     aggregates.Stats  `json:"stats"`
	Nodes     []NodeView        `json:"nodes"`
	Edges     []EdgeView        `json:"edges"`
}

// IsDrawable reports whether the scene has a graph to draw
func (sc Scene) IsDrawable() bool {
	return sc.State == StateReady && len(sc.Nodes) > 0
}

// NodeAt returns the topmost node whose circle contains (x, y) in layout
// coordinates. Later nodes are drawn on top, so they win.
func (sc Scene) NodeAt(x, y float64) (NodeView, bool) {
	for i := len(sc.Nodes) - 1; i >= 0; i-- {
		n := sc.Nodes[i]
		if math.Hypot(n.X-x, n.Y-y) <= n.Radius {
			return n, true
		}
	}
	return NodeView{}, false
}

// NodeRadius grows with the connection count up to the configured cap
func NodeRadius(connections int, base, perConnection, max float64) float64 {
	return math.Min(base+perConnection*float64(connections), max)
}

// EdgeOpacity is the baseline opacity of an edge of the given strength
func EdgeOpacity(strength float64) float64 {
	return 0.2 + 0.6*strength
}

// EdgeWidth is the stroke width of an edge of the given strength
func EdgeWidth(strength float64) float64 {
	return 1 + 3*strength
}

// Truncate shortens text to at most n runes, marking the cut with "..."
func Truncate(text string, n int) string {
	runes := []rune(text)
	if n <= 0 || len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

// emphasis holds the opacity overrides of the current hover or search pass.
// A nil emphasis means baseline rendering.
type emphasis struct {
	nodes map[string]float64
	edges []float64
}

func hoverEmphasis(graph *aggregates.Graph, id string) *emphasis {
	neighbors := graph.Neighbors(id)
	e := &emphasis{
		nodes: make(map[string]float64, graph.Len()),
		edges: make([]float64, len(graph.Edges())),
	}
	for _, n := range graph.Nodes() {
		if n.ID == id || neighbors[n.ID] {
			e.nodes[n.ID] = hoverNodeOpacity
		} else {
			e.nodes[n.ID] = hoverDimOpacity
		}
	}
	for i, edge := range graph.Edges() {
		if edge.Touches(id) {
			e.edges[i] = hoverEdgeOpacity
		} else {
			e.edges[i] = hoverEdgeDim
		}
	}
	return e
}

func searchEmphasis(graph *aggregates.Graph, query string) *emphasis {
	matches := make(map[string]bool, graph.Len())
	e := &emphasis{
		nodes: make(map[string]float64, graph.Len()),
		edges: make([]float64, len(graph.Edges())),
	}
	for _, n := range graph.Nodes() {
		if containsFold(n.Text, query) {
			matches[n.ID] = true
			e.nodes[n.ID] = searchMatch
		} else {
			e.nodes[n.ID] = searchDim
		}
	}
	for i, edge := range graph.Edges() {
		if matches[edge.SourceID] && matches[edge.TargetID] {
			e.edges[i] = searchEdgeOpacity
		} else {
			e.edges[i] = searchEdgeDim
		}
	}
	return e
}
