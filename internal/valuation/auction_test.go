package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stormlightlabs.org/draftassistant/internal/config"
	"stormlightlabs.org/draftassistant/internal/core"
)

func buildPlayers(n, positive int) []*core.Valuation {
	players := make([]*core.Valuation, n)
	for i := 0; i < n; i++ {
		vor := -1.0
		if i < positive {
			vor = float64(positive - i)
		}
		players[i] = &core.Valuation{VOR: vor}
	}
	return players
}

func TestComputeAuctionValues_SumMatchesScenario(t *testing.T) {
	league := &config.LeagueConfig{
		NumTeams:  10,
		SalaryCap: 260,
		RosterSlots: []config.RosterSlotCount{
			{Position: core.PositionCatcher, Count: 26},
		},
	}
	strategy := &config.StrategyConfig{HittingBudgetFraction: 0.65}

	hitters := buildPlayers(50, 25)
	pitchers := buildPlayers(30, 15)

	ComputeAuctionValues(hitters, pitchers, league, strategy)

	var total float64
	for _, v := range hitters {
		assert.GreaterOrEqual(t, v.DollarValue, core.MinDollarValue)
		total += v.DollarValue
	}
	for _, v := range pitchers {
		assert.GreaterOrEqual(t, v.DollarValue, core.MinDollarValue)
		total += v.DollarValue
	}

	assert.InDelta(t, 2420.0, total, 1e-6)
}

func TestComputeAuctionValues_ClampsDistributableAtZero(t *testing.T) {
	league := &config.LeagueConfig{
		NumTeams:  2,
		SalaryCap: 1,
		RosterSlots: []config.RosterSlotCount{
			{Position: core.PositionCatcher, Count: 26},
		},
	}
	strategy := &config.StrategyConfig{HittingBudgetFraction: 0.65}

	hitters := buildPlayers(10, 5)
	pitchers := buildPlayers(6, 3)

	ComputeAuctionValues(hitters, pitchers, league, strategy)

	for _, v := range hitters {
		assert.Equal(t, core.MinDollarValue, v.DollarValue)
	}
	for _, v := range pitchers {
		assert.Equal(t, core.MinDollarValue, v.DollarValue)
	}
}

func TestComputeAuctionValues_DescendingOrder(t *testing.T) {
	league := &config.LeagueConfig{
		NumTeams:    10,
		SalaryCap:   260,
		RosterSlots: []config.RosterSlotCount{{Position: core.PositionCatcher, Count: 26}},
	}
	strategy := &config.StrategyConfig{HittingBudgetFraction: 0.65}

	hitters := buildPlayers(10, 5)
	pitchers := buildPlayers(6, 3)

	ComputeAuctionValues(hitters, pitchers, league, strategy)

	for i := 1; i < len(hitters); i++ {
		assert.GreaterOrEqual(t, hitters[i-1].DollarValue, hitters[i].DollarValue)
	}
}
