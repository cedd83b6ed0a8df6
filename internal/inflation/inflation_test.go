package inflation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stormlightlabs.org/draftassistant/internal/config"
	"stormlightlabs.org/draftassistant/internal/core"
)

func TestNew_DefaultsToRateOne(t *testing.T) {
	tr := New()
	assert.Equal(t, core.DefaultInflationRate, tr.State().Rate)
	assert.Equal(t, core.DefaultInflationRate, tr.Rate())
}

func TestUpdate_NoSpendKeepsRateOne(t *testing.T) {
	tr := New()
	league := &config.LeagueConfig{NumTeams: 2, SalaryCap: 30}
	pool := []*core.Valuation{
		{DollarValue: 40}, {DollarValue: 20},
	}

	// Total budget 60, nothing spent -> 60 remaining dollars against 60
	// remaining predraft value -> rate 1.0.
	tr.Update(pool, 0, league)

	assert.InDelta(t, 1.0, tr.State().Rate, 1e-9)
}

func TestUpdate_RemainingDollarsEqualToValueKeepsRateOne(t *testing.T) {
	tr := New()
	league := &config.LeagueConfig{NumTeams: 2, SalaryCap: 100}
	pool := []*core.Valuation{{DollarValue: 50}}

	// Total budget 200, spent 150 -> remaining 50 dollars against 50
	// remaining predraft value -> rate 1.0.
	tr.Update(pool, 150, league)
	assert.InDelta(t, 1.0, tr.State().Rate, 1e-9)
}

func TestUpdate_NoRemainingValueFallsBackToDefault(t *testing.T) {
	tr := New()
	league := &config.LeagueConfig{NumTeams: 2, SalaryCap: 100}
	// Every player at the $1 floor: no remaining predraft value above floor.
	pool := []*core.Valuation{{DollarValue: 1}, {DollarValue: 1}}

	tr.Update(pool, 50, league)

	assert.Equal(t, core.DefaultInflationRate, tr.State().Rate)
}

func TestAdjust_FloorNeverGoesBelowOne(t *testing.T) {
	tr := New()
	league := &config.LeagueConfig{NumTeams: 2, SalaryCap: 100}
	pool := []*core.Valuation{{DollarValue: 50}}
	tr.Update(pool, 180, league) // remaining 20 dollars vs 50 value -> rate 0.4

	assert.InDelta(t, 1.0, tr.Adjust(1.0), 1e-9)
	assert.GreaterOrEqual(t, tr.Adjust(50), 1.0)
}

func TestUpdate_TotalPredraftValueTracksSpentNotRemaining(t *testing.T) {
	tr := New()
	league := &config.LeagueConfig{NumTeams: 2, SalaryCap: 100}
	pool := []*core.Valuation{{DollarValue: 50}}

	tr.Update(pool, 150, league)

	state := tr.State()
	assert.InDelta(t, 150.0, state.TotalPredraftValue, 1e-9)
	assert.InDelta(t, 50.0, state.RemainingPredraftValue, 1e-9)
	assert.NotEqual(t, state.TotalPredraftValue, state.RemainingPredraftValue)
}

func TestAdjust_ScalesAboveFloorByRate(t *testing.T) {
	tr := New()
	league := &config.LeagueConfig{NumTeams: 2, SalaryCap: 100}
	pool := []*core.Valuation{{DollarValue: 21}}
	tr.Update(pool, 179, league) // remaining 21 / 21 predraft value -> rate 1.0

	assert.InDelta(t, 21.0, tr.Adjust(21.0), 1e-9)
}
