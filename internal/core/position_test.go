package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEligibleSlots_HoldsHighestPositionValues(t *testing.T) {
	mask := NewEligibleSlots(PositionBench)
	assert.False(t, mask.IsEmpty())
	assert.True(t, mask.Has(PositionBench))

	mask = NewEligibleSlots(PositionInjuredList)
	assert.False(t, mask.IsEmpty())
	assert.True(t, mask.Has(PositionInjuredList))
}

func TestParsePosition_RoundTripsAllNames(t *testing.T) {
	for pos, name := range positionNames {
		if pos == PositionUnknown {
			continue
		}
		assert.Equal(t, pos, ParsePosition(name))
	}
}

func TestIsHitterPosition(t *testing.T) {
	assert.True(t, IsHitterPosition(PositionCatcher))
	assert.True(t, IsHitterPosition(PositionOutfield))
	assert.False(t, IsHitterPosition(PositionStartingPitcher))
	assert.False(t, IsHitterPosition(PositionBench))
}
