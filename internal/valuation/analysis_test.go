package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stormlightlabs.org/draftassistant/internal/core"
)

type fixedInflation struct{ rate float64 }

func (f fixedInflation) Adjust(v float64) float64 {
	adjusted := (v-core.MinDollarValue)*f.rate + core.MinDollarValue
	if adjusted < core.MinDollarValue {
		return core.MinDollarValue
	}
	return adjusted
}

func (f fixedInflation) Rate() float64 { return f.rate }

func analysisPlayer(name string, vor, dollar float64, pos core.Position) *core.Valuation {
	return &core.Valuation{
		Projection: core.Projection{Name: name, Positions: core.NewEligibleSlots(pos)},
		VOR:        vor,
		BestPosition: pos,
		DollarValue: dollar,
		CategoryZ: []core.CategoryZScore{
			{Category: "R", Value: 1.5},
			{Category: "HR", Value: 0.2},
			{Category: "AVG", Value: -0.1},
		},
	}
}

func TestComputeInstantAnalysis_FillsEmptySlotCriticalScarcity(t *testing.T) {
	player := analysisPlayer("Target", 10.0, 40.0, core.PositionCatcher)
	roster := core.NewRoster([]core.Position{core.PositionCatcher, core.PositionBench})
	available := []*core.Valuation{player}
	scarcity := map[core.Position]Scarcity{core.PositionCatcher: {Position: core.PositionCatcher, Urgency: UrgencyCritical}}

	analysis := ComputeInstantAnalysis(player, &roster, available, scarcity, fixedInflation{rate: 1.0}, UniformNeeds(0.5))

	assert.True(t, analysis.FillsEmptySlot)
	assert.Equal(t, core.PositionCatcher, analysis.FillsPosition)
	assert.Equal(t, VerdictStrongTarget, analysis.Verdict)
	assert.InDelta(t, 40.0*1.30, analysis.BidCeiling, 1.0)
}

func TestComputeInstantAnalysis_PassWhenNoVORAndSlotFilled(t *testing.T) {
	player := analysisPlayer("Bench Guy", -2.0, 1.0, core.PositionCatcher)
	roster := core.NewRoster([]core.Position{core.PositionBench})
	available := []*core.Valuation{player}
	scarcity := map[core.Position]Scarcity{}

	analysis := ComputeInstantAnalysis(player, &roster, available, scarcity, fixedInflation{rate: 1.0}, UniformNeeds(0.5))

	assert.False(t, analysis.FillsEmptySlot)
	assert.Equal(t, VerdictPass, analysis.Verdict)
}

func TestComputeCategoryImpact_TopThreeByAbsoluteValue(t *testing.T) {
	player := analysisPlayer("X", 5.0, 20.0, core.PositionFirstBase)
	impacts := computeCategoryImpact(player, UniformNeeds(1.0))
	assert.Len(t, impacts, 3)
	assert.Equal(t, "R", impacts[0].Category)
}

func TestFindSimilarByVOR_ExcludesSelfAndOutOfRange(t *testing.T) {
	target := analysisPlayer("Target", 10.0, 30.0, core.PositionSecondBase)
	close := analysisPlayer("Close", 9.0, 28.0, core.PositionSecondBase)
	farAway := analysisPlayer("Far", 1.0, 5.0, core.PositionSecondBase)
	available := []*core.Valuation{target, close, farAway}

	similar := findSimilarByVOR(target, available, core.PositionSecondBase)

	assert.Len(t, similar, 1)
	assert.Equal(t, "Close", similar[0].Name)
}
