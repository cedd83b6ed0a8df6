package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stormlightlabs.org/draftassistant/internal/config"
	"stormlightlabs.org/draftassistant/internal/core"
)

func TestRun_PlayersSortedDescendingByDollarValue(t *testing.T) {
	league := &config.LeagueConfig{
		NumTeams:  10,
		SalaryCap: 260,
		RosterSlots: []config.RosterSlotCount{
			{Position: core.PositionCatcher, Count: 26},
		},
	}
	strategy := &config.StrategyConfig{
		HittingBudgetFraction: 0.65,
		CategoryWeights:       map[string]float64{"R": 1, "HR": 1, "RBI": 1, "BB": 1, "SB": 1, "AVG": 1, "K": 1, "W": 1, "SV": 1, "HD": 1, "ERA": 1, "WHIP": 1},
		HitterPoolSize:        50,
		SPPoolSize:            20,
		RPPoolSize:            20,
		MinPA:                 10,
		MinIPSP:               5,
		MinGRP:                2,
	}

	pool := []*core.Valuation{
		{Projection: core.Projection{Name: "Low Hitter", Kind: core.KindHitter, Hitter: core.HitterStats{PA: 500, AB: 450, H: 100, AVG: .222}}},
		{Projection: core.Projection{Name: "High Hitter", Kind: core.KindHitter, Hitter: core.HitterStats{PA: 600, AB: 550, H: 180, HR: 35, R: 100, RBI: 100, BB: 60, SB: 15, AVG: .327}}},
		{Projection: core.Projection{Name: "Starter", Kind: core.KindPitcher, PitcherRole: core.PitcherRoleStarter, Pitcher: core.PitcherStats{IP: 180, K: 200, W: 15, ERA: 2.80, WHIP: 1.00}}},
	}

	result := Run(pool, pool, league, strategy)

	require := assert.New(t)
	require.Len(result.Players, 3)
	for i := 1; i < len(result.Players); i++ {
		require.GreaterOrEqual(result.Players[i-1].DollarValue, result.Players[i].DollarValue)
	}
}
