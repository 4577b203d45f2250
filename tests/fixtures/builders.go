package fixtures

import (
	"fmt"
	"time"

	"thoughtgraph/domain/core/aggregates"
	"thoughtgraph/domain/core/entities"
	"thoughtgraph/domain/core/valueobjects"
)

// DefaultDate is the timestamp given to built entries unless overridden
var DefaultDate = time.Date(2024, 3, 4, 10, 30, 0, 0, time.UTC)

// EntryBuilder helps create test entries with default values
type EntryBuilder struct {
	id       valueobjects.EntryID
	text     string
	tags     []string
	date     time.Time
	archived bool
}

func NewEntryBuilder() *EntryBuilder {
	return &EntryBuilder{
		id:   valueobjects.NewEntryID(),
		text: "Test entry",
		date: DefaultDate,
	}
}

func (b *EntryBuilder) WithID(id string) *EntryBuilder {
	b.id = valueobjects.MustEntryID(id)
	return b
}

func (b *EntryBuilder) WithText(text string) *EntryBuilder {
	b.text = text
	return b
}

func (b *EntryBuilder) WithTags(tags ...string) *EntryBuilder {
	b.tags = tags
	return b
}

func (b *EntryBuilder) WithDate(date time.Time) *EntryBuilder {
	b.date = date
	return b
}

func (b *EntryBuilder) Undated() *EntryBuilder {
	b.date = time.Time{}
	return b
}

func (b *EntryBuilder) Archived() *EntryBuilder {
	b.archived = true
	return b
}

func (b *EntryBuilder) Build() *entities.Entry {
	return entities.ReconstructEntry(b.id, b.text, b.tags, b.date, b.archived)
}

// Entry is shorthand for an entry with the given text and tags
func Entry(text string, tags ...string) *entities.Entry {
	return NewEntryBuilder().WithText(text).WithTags(tags...).Build()
}

// GraphBuilder assembles a graph from explicit nodes and edges, bypassing
// the similarity calculator
type GraphBuilder struct {
	threshold float64
	nodes     []*aggregates.Node
	edges     [][2]string
	strength  map[[2]string]float64
}

func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		threshold: 0.2,
		strength:  make(map[[2]string]float64),
	}
}

// WithNodes adds n nodes named n0..n{n-1}
func (b *GraphBuilder) WithNodes(n int) *GraphBuilder {
	for i := 0; i < n; i++ {
		b.nodes = append(b.nodes, &aggregates.Node{
			ID:   fmt.Sprintf("n%d", i),
			Text: fmt.Sprintf("node %d", i),
			Tags: []string{},
		})
	}
	return b
}

func (b *GraphBuilder) WithNode(node *aggregates.Node) *GraphBuilder {
	b.nodes = append(b.nodes, node)
	return b
}

func (b *GraphBuilder) WithEdge(source, target string, strength float64) *GraphBuilder {
	key := [2]string{source, target}
	b.edges = append(b.edges, key)
	b.strength[key] = strength
	return b
}

func (b *GraphBuilder) Build() (*aggregates.Graph, error) {
	g := aggregates.NewGraph(b.threshold, DefaultDate)
	for _, n := range b.nodes {
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, e := range b.edges {
		if _, err := g.Connect(e[0], e[1], b.strength[e]); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (b *GraphBuilder) MustBuild() *aggregates.Graph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
