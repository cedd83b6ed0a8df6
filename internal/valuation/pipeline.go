package valuation

import (
	"sort"

	"stormlightlabs.org/draftassistant/internal/config"
	"stormlightlabs.org/draftassistant/internal/core"
)

// Result is the output of one full pipeline run: every player (hitters and
// pitchers together) with TotalZScore/VOR/DollarValue populated, plus the
// per-position scarcity snapshot computed over the undrafted subset.
type Result struct {
	Players  []*core.Valuation
	Scarcity map[core.Position]Scarcity
}

// Pipeline runs the z-score, VOR, auction, and scarcity stages in sequence
// against a full player pool, per spec.md §4.1. undraftedOnly should list
// the subset of pool still on the board; it is used for the scarcity
// stage only (the valuation stages themselves run against the full pool
// so replacement levels reflect the whole league-relevant population).
func Run(pool []*core.Valuation, undraftedOnly []*core.Valuation, league *config.LeagueConfig, strategy *config.StrategyConfig) Result {
	hitters, pitchers := splitByKind(pool)

	ComputeZScores(hitters, pitchers, strategy)
	ComputeVOR(hitters, pitchers, league)
	ComputeAuctionValues(hitters, pitchers, league, strategy)

	scarcity := ComputeScarcity(undraftedOnly)

	players := make([]*core.Valuation, 0, len(pool))
	players = append(players, hitters...)
	players = append(players, pitchers...)
	sort.Slice(players, func(i, j int) bool { return players[i].DollarValue > players[j].DollarValue })

	return Result{Players: players, Scarcity: scarcity}
}

func splitByKind(pool []*core.Valuation) (hitters, pitchers []*core.Valuation) {
	for _, v := range pool {
		if v.Kind == core.KindPitcher {
			pitchers = append(pitchers, v)
		} else {
			hitters = append(hitters, v)
		}
	}
	return hitters, pitchers
}
