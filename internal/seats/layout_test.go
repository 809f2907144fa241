package seats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout_FortySeatsFixedOrder(t *testing.T) {
	positions := Layout()
	require.Len(t, positions, SeatsPerBus)

	assert.Equal(t, "A1", positions[0].ID)
	assert.Equal(t, "A4", positions[3].ID)
	assert.Equal(t, "I4", positions[35].ID)
	assert.Equal(t, "J", positions[36].ID)
	assert.Equal(t, "M", positions[39].ID)
}

func TestLayout_RowAndNumberFields(t *testing.T) {
	positions := Layout()

	assert.Equal(t, SeatPosition{ID: "C3", Row: "C", Number: 3}, positions[10])
	// Back-row singles carry their own letter as the row.
	assert.Equal(t, SeatPosition{ID: "K", Row: "K", Number: 1}, positions[37])
}

func TestLayout_NoDuplicateIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, pos := range Layout() {
		assert.False(t, seen[pos.ID], "duplicate seat id %s", pos.ID)
		seen[pos.ID] = true
	}
}

func TestIsValidSeatID(t *testing.T) {
	assert.True(t, IsValidSeatID("A1"))
	assert.True(t, IsValidSeatID("I4"))
	assert.True(t, IsValidSeatID("M"))

	assert.False(t, IsValidSeatID("A5"))
	assert.False(t, IsValidSeatID("Z1"))
	assert.False(t, IsValidSeatID("a1"))
	assert.False(t, IsValidSeatID(""))
	assert.False(t, IsValidSeatID("N"))
}

func TestSeatIDs_MatchesLayout(t *testing.T) {
	ids := SeatIDs()
	positions := Layout()
	require.Len(t, ids, len(positions))
	for i, pos := range positions {
		assert.Equal(t, pos.ID, ids[i])
	}
}

func TestLastEightSeats_AreValidLayoutSeats(t *testing.T) {
	require.Len(t, LastEightSeats, 8)
	for _, id := range LastEightSeats {
		assert.True(t, IsValidSeatID(id))
	}
}
