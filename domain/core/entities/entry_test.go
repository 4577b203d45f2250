package entities

import (
	"testing"
	"time"

	"thoughtgraph/domain/core/valueobjects"
	"thoughtgraph/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHashtags(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "none", text: "plain text", want: []string{}},
		{name: "single", text: "learning #Go today", want: []string{"go"}},
		{name: "dedupes case-insensitively", text: "#Go and #go and #GO", want: []string{"go"}},
		{name: "keeps order", text: "#work then #ideas then #work", want: []string{"work", "ideas"}},
		{name: "dashes and underscores", text: "#side-project #deep_work", want: []string{"side-project", "deep_work"}},
		{name: "unicode letters", text: "#café", want: []string{"café"}},
		{name: "lone hash", text: "# nothing", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractHashtags(tt.text))
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{}, NormalizeTags(nil))
	assert.Equal(t, []string{"a", "b"}, NormalizeTags([]string{" #A ", "b", "", "a"}))
	assert.Equal(t, []string{"x", "y"}, MergeTags([]string{"x"}, []string{"Y", "x"}))
}

func TestNewEntry(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	entry, err := NewEntry(valueobjects.EntryID{}, "  shipping the #graph view  ", []string{"Work"}, now)
	require.NoError(t, err)

	assert.False(t, entry.ID().IsZero())
	assert.Equal(t, "shipping the #graph view", entry.Text())
	assert.Equal(t, []string{"work", "graph"}, entry.Tags())
	assert.Equal(t, "work", entry.FirstTag())
	assert.Equal(t, now, entry.Date())
	assert.True(t, entry.IsActive())

	evts := entry.GetUncommittedEvents()
	require.Len(t, evts, 1)
	assert.Equal(t, events.TypeEntryCreated, evts[0].GetEventType())

	_, err = NewEntry(valueobjects.EntryID{}, "   ", nil, now)
	assert.Error(t, err)
}

func TestEntry_UpdateText(t *testing.T) {
	now := time.Now()
	entry, err := NewEntry(valueobjects.EntryID{}, "first #draft", []string{"manual"}, now)
	require.NoError(t, err)
	entry.MarkEventsAsCommitted()

	require.NoError(t, entry.UpdateText("second #final", now))

	assert.Equal(t, "second #final", entry.Text())
	assert.Equal(t, []string{"manual", "final"}, entry.Tags())
	assert.Equal(t, 2, entry.Version())
	require.Len(t, entry.GetUncommittedEvents(), 1)

	// unchanged text is a no-op
	require.NoError(t, entry.UpdateText("second #final", now))
	assert.Equal(t, 2, entry.Version())

	assert.Error(t, entry.UpdateText("", now))
}

func TestEntry_Archive(t *testing.T) {
	entry, err := NewEntry(valueobjects.EntryID{}, "to archive", nil, time.Now())
	require.NoError(t, err)
	entry.MarkEventsAsCommitted()

	entry.Archive(time.Now())
	entry.Archive(time.Now())

	assert.True(t, entry.IsArchived())
	assert.Len(t, entry.GetUncommittedEvents(), 1)
}

func TestReconstructEntry_Defaults(t *testing.T) {
	id := valueobjects.NewEntryID()
	entry := ReconstructEntry(id, "text", nil, time.Time{}, false)

	assert.NotNil(t, entry.Tags())
	assert.Empty(t, entry.Tags())
	assert.Equal(t, "", entry.FirstTag())
	assert.False(t, entry.HasDate())
}

func TestEntry_AddTag(t *testing.T) {
	entry := ReconstructEntry(valueobjects.NewEntryID(), "text", []string{"a"}, time.Now(), false)

	require.NoError(t, entry.AddTag("#B"))
	require.NoError(t, entry.AddTag("a"))
	assert.Equal(t, []string{"a", "b"}, entry.Tags())

	assert.Error(t, entry.AddTag("  "))
}

func TestNewEntry_KeepsGivenID(t *testing.T) {
	id := valueobjects.NewEntryID()

	entry, err := NewEntry(id, "with an id", nil, time.Now())
	require.NoError(t, err)

	assert.True(t, entry.ID().Equals(id))
}
