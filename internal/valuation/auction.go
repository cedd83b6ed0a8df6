package valuation

import (
	"sort"

	"stormlightlabs.org/draftassistant/internal/config"
	"stormlightlabs.org/draftassistant/internal/core"
)

// ComputeAuctionValues converts VOR into dollar values, per spec.md §4.1.3.
// Hitters and pitchers are split into separate budgets by
// hitting_budget_fraction, each budget is spread across positive-VOR
// players in proportion to VOR, and every player is floored at
// core.MinDollarValue.
func ComputeAuctionValues(hitters, pitchers []*core.Valuation, league *config.LeagueConfig, strategy *config.StrategyConfig) {
	totalDollars := float64(league.NumTeams) * league.SalaryCap
	rosterSize := league.ActiveRosterSize()
	distributable := totalDollars - float64(league.NumTeams*rosterSize)*core.MinDollarValue
	if distributable < 0 {
		distributable = 0
	}

	hittingBudget := distributable * strategy.HittingBudgetFraction
	pitchingBudget := distributable - hittingBudget

	applyBudget(hitters, hittingBudget)
	applyBudget(pitchers, pitchingBudget)

	sort.Slice(hitters, func(i, j int) bool { return hitters[i].DollarValue > hitters[j].DollarValue })
	sort.Slice(pitchers, func(i, j int) bool { return pitchers[i].DollarValue > pitchers[j].DollarValue })
}

// applyBudget distributes budget across players with positive VOR in
// proportion to their VOR, flooring every player at MinDollarValue.
func applyBudget(players []*core.Valuation, budget float64) {
	var totalPositiveVOR float64
	for _, v := range players {
		if v.VOR > 0 {
			totalPositiveVOR += v.VOR
		}
	}

	dollarsPerVOR := 0.0
	if totalPositiveVOR > 0 {
		dollarsPerVOR = budget / totalPositiveVOR
	}

	for _, v := range players {
		if v.VOR > 0 {
			v.DollarValue = core.MinDollarValue + v.VOR*dollarsPerVOR
		} else {
			v.DollarValue = core.MinDollarValue
		}
	}
}
