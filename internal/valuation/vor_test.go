package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stormlightlabs.org/draftassistant/internal/config"
	"stormlightlabs.org/draftassistant/internal/core"
)

func hitterWithZScore(name string, positions core.EligibleSlots, z float64) *core.Valuation {
	return &core.Valuation{
		Projection:  core.Projection{Name: name, Kind: core.KindHitter, Positions: positions},
		TotalZScore: z,
	}
}

func TestComputeVOR_DHOnlyHitterFallsBackToUtilityReplacement(t *testing.T) {
	league := &config.LeagueConfig{
		NumTeams: 2,
		RosterSlots: []config.RosterSlotCount{
			{Position: core.PositionCatcher, Count: 1},
			{Position: core.PositionUtility, Count: 1},
		},
	}

	hitters := []*core.Valuation{
		hitterWithZScore("Catcher Regular", core.NewEligibleSlots(core.PositionCatcher), 2.0),
		hitterWithZScore("DH Only", core.NewEligibleSlots(core.PositionDesignatedHitter), 5.0),
	}

	ComputeVOR(hitters, nil, league)

	dh := hitters[1]
	assert.Equal(t, core.PositionUtility, dh.BestPosition)
	assert.NotEqual(t, 0.0, dh.VOR)
}

func TestComputeVOR_EmptyEligibilityTriesEveryDedicatedPosition(t *testing.T) {
	league := &config.LeagueConfig{
		NumTeams: 1,
		RosterSlots: []config.RosterSlotCount{
			{Position: core.PositionCatcher, Count: 1},
			{Position: core.PositionFirstBase, Count: 1},
		},
	}

	hitters := []*core.Valuation{
		hitterWithZScore("No Overlay", core.EligibleSlots(0), 3.0),
	}

	ComputeVOR(hitters, nil, league)

	assert.NotEqual(t, core.PositionUnknown, hitters[0].BestPosition)
	assert.False(t, hitters[0].Positions.IsEmpty())
}
