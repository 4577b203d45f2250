package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"thoughtgraph/domain/core/entities"
	"thoughtgraph/tests/fixtures"
)

func TestInsights_Compute(t *testing.T) {
	now := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC) // a Sunday
	day := func(offset, hour int) time.Time {
		return time.Date(2024, 3, 10+offset, hour, 0, 0, 0, time.UTC)
	}

	entries := []*entities.Entry{
		fixtures.NewEntryBuilder().WithText("coffee before running").WithTags("life", "running").WithDate(day(0, 7)).Build(),
		fixtures.NewEntryBuilder().WithText("coffee with friends").WithTags("life").WithDate(day(-1, 9)).Build(),
		fixtures.NewEntryBuilder().WithText("graph layout notes").WithTags("work").WithDate(day(-2, 9)).Build(),
		fixtures.NewEntryBuilder().WithText("older streak entry").WithDate(day(-5, 9)).Build(),
		fixtures.NewEntryBuilder().WithText("older streak again").WithDate(day(-6, 9)).Build(),
		fixtures.NewEntryBuilder().WithText("and again older").WithDate(day(-7, 9)).Build(),
		fixtures.NewEntryBuilder().WithText("fourth day older").WithDate(day(-8, 9)).Build(),
		fixtures.NewEntryBuilder().WithText("no timestamp here").Undated().Build(),
		fixtures.NewEntryBuilder().WithText("archived coffee").Archived().Build(),
	}

	svc := NewInsightsService(nil, 5)
	graph := NewGraphBuilder(nil).BuildGraph(entries, 0.2, now)
	in := svc.Compute(entries, graph, now)

	assert.Equal(t, 8, in.ActiveEntries)
	assert.Equal(t, 1, in.ArchivedEntries)
	assert.Equal(t, 1, in.Undated)

	require.NotEmpty(t, in.TopWords)
	assert.Equal(t, Count{Value: "older", Count: 4}, in.TopWords[0])
	assert.Contains(t, in.TopWords, Count{Value: "coffee", Count: 2})
	assert.LessOrEqual(t, len(in.TopWords), 5)

	assert.Equal(t, Count{Value: "life", Count: 2}, in.TagFrequencies[0])
	assert.Equal(t, []TagPair{{A: "life", B: "running", Count: 1}}, in.TagCooccurrence)

	assert.Equal(t, 2, in.ByWeekday[time.Sunday])
	assert.Equal(t, 1, in.ByHour[7])
	assert.Equal(t, 6, in.ByHour[9])

	assert.Equal(t, 3, in.CurrentStreak)
	assert.Equal(t, 4, in.LongestStreak)

	require.NotEmpty(t, in.Clusters)
	for _, c := range in.Clusters {
		assert.GreaterOrEqual(t, len(c.EntryIDs), 2)
	}
}

func TestInsights_CurrentStreakStartsYesterday(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	entries := []*entities.Entry{
		fixtures.NewEntryBuilder().WithDate(now.AddDate(0, 0, -1)).Build(),
		fixtures.NewEntryBuilder().WithDate(now.AddDate(0, 0, -2)).Build(),
	}

	in := NewInsightsService(nil, 5).Compute(entries, nil, now)

	assert.Equal(t, 2, in.CurrentStreak)
	assert.Equal(t, 2, in.LongestStreak)
	assert.Nil(t, in.Clusters)
}

func TestInsights_Empty(t *testing.T) {
	in := NewInsightsService(nil, 5).Compute(nil, nil, time.Now())

	assert.Zero(t, in.ActiveEntries)
	assert.Zero(t, in.CurrentStreak)
	assert.Empty(t, in.TopWords)
}
