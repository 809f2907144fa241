package seats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextBusUnlocked_EmptyBus(t *testing.T) {
	assert.True(t, NextBusUnlocked(nil))
	assert.True(t, NextBusUnlocked([]string{}))
}

func TestNextBusUnlocked_ExactTrailingBlock(t *testing.T) {
	assert.True(t, NextBusUnlocked([]string{"I1", "I2", "I3", "I4", "J", "K", "L", "M"}))
}

func TestNextBusUnlocked_TrailingBlockAnyOrder(t *testing.T) {
	assert.True(t, NextBusUnlocked([]string{"M", "J", "I4", "K", "I1", "L", "I3", "I2"}))
}

func TestNextBusUnlocked_MostlyEmptyBus(t *testing.T) {
	assert.False(t, NextBusUnlocked(SeatIDs()))
}

func TestNextBusUnlocked_NineAvailableIncludingBlock(t *testing.T) {
	// Eight trailing seats plus one front seat must not unlock.
	assert.False(t, NextBusUnlocked([]string{"A1", "I1", "I2", "I3", "I4", "J", "K", "L", "M"}))
}

func TestNextBusUnlocked_EightAvailablePartialOverlap(t *testing.T) {
	// Right count, wrong membership: one trailing seat swapped for a
	// front seat.
	assert.False(t, NextBusUnlocked([]string{"A1", "I2", "I3", "I4", "J", "K", "L", "M"}))
}

func TestNextBusUnlocked_SubsetOfTrailingBlock(t *testing.T) {
	assert.False(t, NextBusUnlocked([]string{"J", "K", "L", "M"}))
	assert.False(t, NextBusUnlocked([]string{"I1", "I2", "I3", "I4", "J", "K", "L"}))
}

func TestNextBusUnlocked_DuplicatesDoNotFakeTheBlock(t *testing.T) {
	// Eight entries but only seven distinct trailing seats.
	assert.False(t, NextBusUnlocked([]string{"I1", "I1", "I2", "I3", "I4", "J", "K", "L"}))
}
