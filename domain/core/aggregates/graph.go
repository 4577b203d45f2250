package aggregates

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"thoughtgraph/domain/core/entities"
	"thoughtgraph/domain/core/valueobjects"
)

// GraphID identifies one build of the connection graph
type GraphID string

// NewGraphID creates a new random GraphID
func NewGraphID() GraphID {
	return GraphID(uuid.New().String())
}

// String returns the string representation
func (id GraphID) String() string {
	return string(id)
}

// Node is the per-session snapshot of an active entry. Text, tags and date
// are copied at build time; later store edits only show up after a rebuild.
type Node struct {
	ID   string
	Text string
	Tags []string
	Date time.Time

	// ConnectionCount is only ever changed by Graph.Connect
	ConnectionCount int

	// Layout state. Position is meaningless until Placed is true.
	Position valueobjects.Position
	Placed   bool
	VX, VY   float64
	Pin      valueobjects.PinState
}

// NewNodeFromEntry snapshots an entry into a fresh, unplaced node
func NewNodeFromEntry(e *entities.Entry) *Node {
	return &Node{
		ID:   e.ID().String(),
		Text: e.Text(),
		Tags: e.Tags(),
		Date: e.Date(),
	}
}

// X returns the current x coordinate
func (n *Node) X() float64 { return n.Position.X() }

// Y returns the current y coordinate
func (n *Node) Y() float64 { return n.Position.Y() }

// MoveTo places the node at p
func (n *Node) MoveTo(p valueobjects.Position) {
	n.Position = p
	n.Placed = true
}

// PinAt fixes the node at p and zeroes its velocity
func (n *Node) PinAt(p valueobjects.Position) {
	n.MoveTo(p)
	n.Pin = valueobjects.PinnedAt(p)
	n.VX, n.VY = 0, 0
}

// Release hands the node back to the layout
func (n *Node) Release() {
	n.Pin = valueobjects.Free()
}

// FirstTag returns the first tag or "" when untagged
func (n *Node) FirstTag() string {
	if len(n.Tags) == 0 {
		return ""
	}
	return n.Tags[0]
}

// Edge is an undirected connection between two nodes. Endpoints are plain
// ids; SourceID is always the node that was added first.
type Edge struct {
	SourceID string
	TargetID string
	Strength float64
}

// Touches reports whether the edge is incident to id
func (e *Edge) Touches(id string) bool {
	return e.SourceID == id || e.TargetID == id
}

// Other returns the opposite endpoint of id
func (e *Edge) Other(id string) string {
	if e.SourceID == id {
		return e.TargetID
	}
	return e.SourceID
}

// Stats summarizes a built graph
type Stats struct {
	NodeCount    int     `json:"nodeCount"`
	EdgeCount    int     `json:"edgeCount"`
	Density      float64 `json:"density"`
	ClusterCount int     `json:"clusterCount"`
	Isolated     int     `json:"isolated"`
}

// Graph is the aggregate root for one build of the connection graph. It is
// immutable in structure once built; only node layout state changes.
type Graph struct {
	id        GraphID
	threshold float64
	builtAt   time.Time
	nodes     []*Node
	index     map[string]int
	edges     []*Edge
	edgeKeys  map[string]bool
}

// NewGraph creates an empty graph for the given threshold
func NewGraph(threshold float64, builtAt time.Time) *Graph {
	return &Graph{
		id:        NewGraphID(),
		threshold: threshold,
		builtAt:   builtAt,
		index:     make(map[string]int),
		edgeKeys:  make(map[string]bool),
	}
}

// ID returns the graph's unique identifier
func (g *Graph) ID() GraphID {
	return g.id
}

// Threshold returns the similarity threshold this graph was built with
func (g *Graph) Threshold() float64 {
	return g.threshold
}

// BuiltAt returns the build timestamp
func (g *Graph) BuiltAt() time.Time {
	return g.builtAt
}

// AddNode appends a node, keeping insertion order
func (g *Graph) AddNode(node *Node) error {
	if node == nil {
		return errors.New("node cannot be nil")
	}
	if node.ID == "" {
		return errors.New("node id required")
	}
	if _, exists := g.index[node.ID]; exists {
		return errors.New("node already exists in graph")
	}

	g.index[node.ID] = len(g.nodes)
	g.nodes = append(g.nodes, node)
	return nil
}

// Connect creates an edge between two nodes and bumps both connection counts
func (g *Graph) Connect(sourceID, targetID string, strength float64) (*Edge, error) {
	si, sourceExists := g.index[sourceID]
	ti, targetExists := g.index[targetID]
	if !sourceExists || !targetExists {
		return nil, errors.New("both nodes must exist in graph")
	}
	if sourceID == targetID {
		return nil, errors.New("cannot connect node to itself")
	}
	if strength < 0 || strength > 1 {
		return nil, fmt.Errorf("edge strength %f outside [0,1]", strength)
	}

	if ti < si {
		sourceID, targetID = targetID, sourceID
		si, ti = ti, si
	}
	key := makeEdgeKey(sourceID, targetID)
	if g.edgeKeys[key] {
		return nil, errors.New("edge already exists")
	}

	edge := &Edge{SourceID: sourceID, TargetID: targetID, Strength: strength}
	g.edges = append(g.edges, edge)
	g.edgeKeys[key] = true
	g.nodes[si].ConnectionCount++
	g.nodes[ti].ConnectionCount++

	return edge, nil
}

// Nodes returns the nodes in insertion order. The slice is shared with the
// graph so layouts can update positions in place.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// Edges returns the edges in build order
func (g *Graph) Edges() []*Edge {
	return g.edges
}

// Len returns the number of nodes
func (g *Graph) Len() int {
	return len(g.nodes)
}

// IsEmpty reports whether the graph has no nodes
func (g *Graph) IsEmpty() bool {
	return len(g.nodes) == 0
}

// GetNode retrieves a node by ID
func (g *Graph) GetNode(id string) (*Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// HasNode checks if a node exists in the graph
func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Connected reports whether an edge joins a and b
func (g *Graph) Connected(a, b string) bool {
	ai, aok := g.index[a]
	bi, bok := g.index[b]
	if !aok || !bok {
		return false
	}
	if bi < ai {
		a, b = b, a
	}
	return g.edgeKeys[makeEdgeKey(a, b)]
}

// Neighbors returns the set of ids adjacent to id
func (g *Graph) Neighbors(id string) map[string]bool {
	out := make(map[string]bool)
	for _, e := range g.edges {
		if e.Touches(id) {
			out[e.Other(id)] = true
		}
	}
	return out
}

// GetClusters returns the connected components, largest first. Ties keep
// the order of their first node.
func (g *Graph) GetClusters() [][]string {
	adjacency := g.adjacency()
	visited := make(map[string]bool, len(g.nodes))
	var clusters [][]string

	for _, node := range g.nodes {
		if !visited[node.ID] {
			clusters = append(clusters, g.dfs(node.ID, adjacency, visited))
		}
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return len(clusters[i]) > len(clusters[j])
	})
	return clusters
}

// Stats computes node and edge counts, density and cluster count
func (g *Graph) Stats() Stats {
	n := len(g.nodes)
	stats := Stats{
		NodeCount:    n,
		EdgeCount:    len(g.edges),
		ClusterCount: len(g.GetClusters()),
	}
	if n > 1 {
		stats.Density = float64(len(g.edges)) / float64(n*(n-1)/2)
	}
	for _, node := range g.nodes {
		if node.ConnectionCount == 0 {
			stats.Isolated++
		}
	}
	return stats
}

// Validate ensures graph invariants
func (g *Graph) Validate() error {
	counts := make(map[string]int, len(g.nodes))
	seen := make(map[string]bool, len(g.edges))

	for _, edge := range g.edges {
		if !g.HasNode(edge.SourceID) {
			return errors.New("edge references non-existent source node")
		}
		if !g.HasNode(edge.TargetID) {
			return errors.New("edge references non-existent target node")
		}
		if edge.SourceID == edge.TargetID {
			return fmt.Errorf("self-edge on %s", edge.SourceID)
		}
		if edge.Strength < 0 || edge.Strength > 1 {
			return fmt.Errorf("edge strength %f outside [0,1]", edge.Strength)
		}
		a, b := edge.SourceID, edge.TargetID
		if b < a {
			a, b = b, a
		}
		if seen[a+"|"+b] {
			return fmt.Errorf("duplicate edge between %s and %s", a, b)
		}
		seen[a+"|"+b] = true
		counts[edge.SourceID]++
		counts[edge.TargetID]++
	}

	for _, node := range g.nodes {
		if node.ConnectionCount != counts[node.ID] {
			return fmt.Errorf("connection count mismatch on %s: have %d, edges %d",
				node.ID, node.ConnectionCount, counts[node.ID])
		}
	}

	return nil
}

// Private helper methods

func makeEdgeKey(sourceID, targetID string) string {
	return sourceID + "->" + targetID
}

func (g *Graph) adjacency() map[string][]string {
	adj := make(map[string][]string, len(g.nodes))
	for _, e := range g.edges {
		adj[e.SourceID] = append(adj[e.SourceID], e.TargetID)
		adj[e.TargetID] = append(adj[e.TargetID], e.SourceID)
	}
	return adj
}

func (g *Graph) dfs(nodeID string, adj map[string][]string, visited map[string]bool) []string {
	cluster := []string{nodeID}
	visited[nodeID] = true

	for _, next := range adj[nodeID] {
		if !visited[next] {
			cluster = append(cluster, g.dfs(next, adj, visited)...)
		}
	}

	return cluster
}
