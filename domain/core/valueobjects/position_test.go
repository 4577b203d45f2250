package valueobjects

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPosition(t *testing.T) {
	tests := []struct {
		name    string
		x, y    float64
		wantErr bool
	}{
		{name: "origin", x: 0, y: 0},
		{name: "negative", x: -100.5, y: -200.75},
		{name: "very large coordinates", x: 1e10, y: -1e10},
		{name: "NaN x", x: math.NaN(), y: 0, wantErr: true},
		{name: "NaN y", x: 0, y: math.NaN(), wantErr: true},
		{name: "infinite x", x: math.Inf(1), y: 0, wantErr: true},
		{name: "negative infinite y", x: 0, y: math.Inf(-1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := NewPosition(tt.x, tt.y)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid coordinates")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.x, pos.X())
			assert.Equal(t, tt.y, pos.Y())
		})
	}
}

func TestPosition_DistanceTo(t *testing.T) {
	a := Pos(0, 0)
	b := Pos(3, 4)

	assert.InDelta(t, 5.0, a.DistanceTo(b), 1e-9)
	assert.InDelta(t, a.DistanceTo(b), b.DistanceTo(a), 1e-12)
}

func TestPosition_TranslateAndMidpoint(t *testing.T) {
	p := Pos(10, 20).Translate(5, -5)
	assert.True(t, p.Equals(Pos(15, 15)))

	mid := Pos(0, 0).Midpoint(Pos(10, 10))
	assert.True(t, mid.Equals(Pos(5, 5)))
}

func TestPinState(t *testing.T) {
	var zero PinState
	assert.False(t, zero.IsPinned())
	assert.Equal(t, "free", zero.String())

	pinned := PinnedAt(Pos(1, 2))
	at, ok := pinned.At()
	assert.True(t, ok)
	assert.True(t, at.Equals(Pos(1, 2)))
	assert.Equal(t, "pinned", pinned.String())

	_, ok = Free().At()
	assert.False(t, ok)
}

func TestNewSize(t *testing.T) {
	s := NewSize(800, 600)
	assert.Equal(t, 600.0, s.MinSide())
	assert.True(t, s.Center().Equals(Pos(400, 300)))

	degenerate := NewSize(0, math.NaN())
	assert.Equal(t, 1.0, degenerate.Width)
	assert.Equal(t, 1.0, degenerate.Height)
}

func TestEntryID(t *testing.T) {
	id := NewEntryID()
	assert.False(t, id.IsZero())

	parsed, err := NewEntryIDFromString(id.String())
	require.NoError(t, err)
	assert.True(t, parsed.Equals(id))

	_, err = NewEntryIDFromString("")
	assert.Error(t, err)

	_, err = NewEntryIDFromString("not-a-uuid")
	assert.Error(t, err)

	data, err := id.MarshalJSON()
	require.NoError(t, err)
	var back EntryID
	require.NoError(t, back.UnmarshalJSON(data))
	assert.Equal(t, id, back)
}
