package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"thoughtgraph/tests/fixtures"
)

func TestTokenizeWords(t *testing.T) {
	ta := NewDefaultTextAnalyzer(3)

	words := ta.TokenizeWords("The Graph graph is  NICE, nice. ünïcode abc")

	assert.Equal(t, map[string]bool{
		"graph":   true,
		"nice,":   true,
		"nice.":   true,
		"ünïcode": true,
	}, words)
	assert.Empty(t, ta.TokenizeWords(""))
}

func TestExtractKeywords(t *testing.T) {
	ta := NewDefaultTextAnalyzer(3)

	keywords := ta.ExtractKeywords("Reading about graphs, graphs and #layout with friends!")

	assert.Equal(t, []string{"reading", "graphs", "graphs", "friends"}, keywords)
}

func TestSimilarity_Scenarios(t *testing.T) {
	calc := NewWeightedJaccardCalculator(nil, nil)

	tests := []struct {
		name string
		a, b string
		ta   []string
		tb   []string
		want float64
	}{
		{
			name: "one shared tag of two, no common words",
			a:    "apples oranges", ta: []string{"fruit"},
			b: "bicycle helmets", tb: []string{"fruit", "sport"},
			want: 0.3,
		},
		{
			name: "identical text without tags",
			a:    "learning about graphs", b: "learning about graphs",
			want: 0.4,
		},
		{
			name: "tags on one side only leave the tag weight unrealized",
			a:    "learning about graphs", ta: []string{"study"},
			b:    "learning about graphs",
			want: 0.4,
		},
		{
			name: "identical text and tags",
			a:    "learning about graphs", ta: []string{"study"},
			b: "learning about graphs", tb: []string{"study"},
			want: 1.0,
		},
		{
			name: "short words only",
			a:    "a to do", b: "a to do",
			want: 0,
		},
		{
			name: "partial word overlap",
			a:    "morning coffee thoughts", b: "evening coffee thoughts",
			want: 0.4 * 2.0 / 4.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := fixtures.Entry(tt.a, tt.ta...)
			b := fixtures.Entry(tt.b, tt.tb...)

			assert.InDelta(t, tt.want, calc.Calculate(a, b), 1e-9)
		})
	}
}

func TestSimilarity_SymmetricAndBounded(t *testing.T) {
	calc := NewWeightedJaccardCalculator(nil, nil)
	entries := []struct {
		text string
		tags []string
	}{
		{"shipping the release today", []string{"work"}},
		{"release notes for the graph view", []string{"work", "graph"}},
		{"long walk in the park", nil},
		{"park walk with coffee", []string{"life"}},
		{"", nil},
	}

	for i, x := range entries {
		for j, y := range entries {
			a := fixtures.Entry(x.text, x.tags...)
			b := fixtures.Entry(y.text, y.tags...)

			ab := calc.Calculate(a, b)
			ba := calc.Calculate(b, a)
			assert.Equal(t, ab, ba, "pair %d,%d", i, j)
			assert.GreaterOrEqual(t, ab, 0.0)
			assert.LessOrEqual(t, ab, 1.0)
		}
	}

	assert.Equal(t, 0.0, calc.Calculate(nil, fixtures.Entry("x")))
}
