package queries

import (
	"thoughtgraph/domain/core/aggregates"
	"thoughtgraph/domain/layout"
	pkgerrors "thoughtgraph/pkg/errors"
	"thoughtgraph/pkg/utils"
)

// GetGraphDataQuery represents a query for laid-out graph data
type GetGraphDataQuery struct {
	Threshold float64 `json:"threshold" validate:"gte=0,lte=1"`
	Layout    string  `json:"layout"`
	Width     float64 `json:"width" validate:"gt=0"`
	Height    float64 `json:"height" validate:"gt=0"`
}

// Validate validates the query
func (q GetGraphDataQuery) Validate() error {
	if err := utils.ValidateStruct(q); err != nil {
		return err
	}
	if _, err := layout.ParseMode(q.Layout); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}

// GetGraphDataResult represents the complete graph data for visualization
type GetGraphDataResult struct {
	Threshold float64     `json:"threshold"`
	Layout    string      `json:"layout"`
	Nodes     []GraphNode `json:"nodes"`
	Edges     []GraphEdge `json:"edges"`
	Stats     GraphStats  `json:"stats"`
}

// GraphNode is a positioned node
type GraphNode struct {
	ID              string   `json:"id"`
	Text            string   `json:"text"`
	Tags            []string `json:"tags"`
	Date            string   `json:"date,omitempty"`
	ConnectionCount int      `json:"connectionCount"`
	X               float64  `json:"x"`
	Y               float64  `json:"y"`
}

// GraphEdge connects two node ids
type GraphEdge struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Strength float64 `json:"strength"`
}

// GraphStats contains graph statistics
type GraphStats struct {
	NodeCount    int     `json:"nodeCount"`
	EdgeCount    int     `json:"edgeCount"`
	ClusterCount int     `json:"clusterCount"`
	Density      float64 `json:"density"`
	Isolated     int     `json:"isolated"`
}

// NewGraphStats maps aggregate stats onto the read model
func NewGraphStats(s aggregates.Stats) GraphStats {
	return GraphStats{
		NodeCount:    s.NodeCount,
		EdgeCount:    s.EdgeCount,
		ClusterCount: s.ClusterCount,
		Density:      s.Density,
		Isolated:     s.Isolated,
	}
}

// NewGraphDataResult maps a laid-out graph onto the read model
func NewGraphDataResult(graph *aggregates.Graph, mode layout.Mode) *GetGraphDataResult {
	result := &GetGraphDataResult{
		Threshold: graph.Threshold(),
		Layout:    mode.String(),
		Nodes:     make([]GraphNode, 0, graph.Len()),
		Edges:     make([]GraphEdge, 0, len(graph.Edges())),
		Stats:     NewGraphStats(graph.Stats()),
	}

	for _, n := range graph.Nodes() {
		result.Nodes = append(result.Nodes, GraphNode{
			ID:              n.ID,
			Text:            n.Text,
			Tags:            n.Tags,
			Date:            utils.FormatTimestamp(n.Date),
			ConnectionCount: n.ConnectionCount,
			X:               n.X(),
			Y:               n.Y(),
		})
	}
	for _, e := range graph.Edges() {
		result.Edges = append(result.Edges, GraphEdge{
			Source:   e.SourceID,
			Target:   e.TargetID,
			Strength: e.Strength,
		})
	}

	return result
}
