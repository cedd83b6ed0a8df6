// Package inflation tracks dollars spent against pre-draft value consumed
// and adjusts live dollar values accordingly, per spec.md §4.2.
package inflation

import (
	"stormlightlabs.org/draftassistant/internal/config"
	"stormlightlabs.org/draftassistant/internal/core"
)

// Tracker holds the current inflation snapshot.
type Tracker struct {
	state core.InflationState
}

// New returns a tracker defaulted to no inflation observed yet.
func New() *Tracker {
	return &Tracker{state: core.InflationState{Rate: core.DefaultInflationRate}}
}

// State returns the current snapshot.
func (t *Tracker) State() core.InflationState {
	return t.state
}

// Rate returns the current inflation rate, satisfying
// valuation.InflationAdjuster for prompt-building.
func (t *Tracker) Rate() float64 {
	return t.state.Rate
}

// Update recomputes the inflation rate from the undrafted pool's dollar
// values, the draft's total spend, and the league's total budget, per
// spec.md §4.2. pool must be the undrafted subset, with dollar values
// already set by the valuation pipeline.
func (t *Tracker) Update(pool []*core.Valuation, totalSpent float64, league *config.LeagueConfig) {
	totalBudget := float64(league.NumTeams) * league.SalaryCap
	remainingDollars := totalBudget - totalSpent

	var remainingPredraftValue float64
	for _, v := range pool {
		if v.DollarValue > core.MinDollarValue {
			remainingPredraftValue += v.DollarValue
		}
	}

	rate := core.DefaultInflationRate
	if remainingPredraftValue > 0 {
		rate = remainingDollars / remainingPredraftValue
	}

	t.state = core.InflationState{
		TotalSpent: totalSpent,
		// There is no direct pick->valuation mapping to sum drafted players'
		// pre-draft dollar values directly, so this approximates the sum
		// spent against pre-draft value as total budget minus what remains,
		// per original_source auction.rs's inflation tracker.
		TotalPredraftValue:     totalBudget - remainingDollars,
		RemainingDollars:       remainingDollars,
		RemainingPredraftValue: remainingPredraftValue,
		Rate:                   rate,
	}
}

// Adjust applies the current inflation rate to a pre-draft dollar value,
// preserving the $1 floor, per spec.md §4.2.
func (t *Tracker) Adjust(v float64) float64 {
	adjusted := (v-core.MinDollarValue)*t.state.Rate + core.MinDollarValue
	if adjusted < core.MinDollarValue {
		return core.MinDollarValue
	}
	return adjusted
}
