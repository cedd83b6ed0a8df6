package valuation

import (
	"sort"

	"stormlightlabs.org/draftassistant/internal/config"
	"stormlightlabs.org/draftassistant/internal/core"
)

// ComputeVOR assigns VOR and BestPosition to every hitter and pitcher,
// per spec.md §4.1.2.
func ComputeVOR(hitters, pitchers []*core.Valuation, league *config.LeagueConfig) {
	replacements := make(map[core.Position]float64, len(core.HitterPositions)+1)

	overall := replacementAt(hitters, func(v *core.Valuation, p core.Position) bool {
		return eligibleAt(v, p)
	}, anyHitterPosition, (sumDedicatedSlots(league)+league.UtilSlots())*league.NumTeams)

	for _, pos := range core.HitterPositions {
		idx := league.SlotCount(pos) * league.NumTeams
		specific := replacementAt(hitters, eligibleAt, pos, idx)
		replacements[pos] = maxFloat(specific, overall)
	}
	replacements[core.PositionUtility] = overall

	for _, v := range hitters {
		v.VOR, v.BestPosition = bestHitterVOR(v, replacements)
	}

	starters, relievers := splitPitchers(pitchers)
	spReplacement := replacementAt(starters, func(*core.Valuation, core.Position) bool { return true },
		core.PositionStartingPitcher, league.SlotCount(core.PositionStartingPitcher)*league.NumTeams)
	rpReplacement := replacementAt(relievers, func(*core.Valuation, core.Position) bool { return true },
		core.PositionReliefPitcher, league.SlotCount(core.PositionReliefPitcher)*league.NumTeams)

	for _, v := range starters {
		v.VOR = v.TotalZScore - spReplacement
		v.BestPosition = core.PositionStartingPitcher
	}
	for _, v := range relievers {
		v.VOR = v.TotalZScore - rpReplacement
		v.BestPosition = core.PositionReliefPitcher
	}
}

func sumDedicatedSlots(league *config.LeagueConfig) int {
	n := 0
	for _, pos := range core.HitterPositions {
		n += league.SlotCount(pos)
	}
	return n
}

func anyHitterPosition(v *core.Valuation, _ core.Position) bool {
	if v.Positions.IsEmpty() {
		return true // no overlay yet: eligible everywhere, per spec.md §4.1.2
	}
	for _, pos := range core.HitterPositions {
		if v.Positions.Has(pos) {
			return true
		}
	}
	return false
}

func eligibleAt(v *core.Valuation, p core.Position) bool {
	if v.Positions.IsEmpty() {
		return true
	}
	return v.Positions.Has(p)
}

// replacementAt returns the total z-score of the idx-indexed player
// (0-based) among those matching the eligibility predicate at position p,
// sorted descending by total z-score. If the pool is shallower than idx,
// the last available player's z-score minus one is used as a sentinel.
func replacementAt(players []*core.Valuation, eligible func(*core.Valuation, core.Position) bool, p core.Position, idx int) float64 {
	var candidates []*core.Valuation
	for _, v := range players {
		if eligible(v, p) {
			candidates = append(candidates, v)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].TotalZScore > candidates[j].TotalZScore
	})

	if len(candidates) == 0 {
		return 0
	}
	if idx < len(candidates) {
		return candidates[idx].TotalZScore
	}
	return candidates[len(candidates)-1].TotalZScore - 1
}

// bestHitterVOR returns the maximum VOR over every eligible position and
// the position that achieves it. When the player's eligibility set is
// empty, every hitter position is tried and the winner is backfilled into
// Positions. A player eligible only at non-dedicated slots (e.g. DH-only)
// matches nothing in the loop and falls back to the overall/Utility
// replacement level, mirroring original_source vor.rs's compute_vor.
func bestHitterVOR(v *core.Valuation, replacements map[core.Position]float64) (float64, core.Position) {
	bestVOR := 0.0
	bestPos := core.PositionUnknown
	first := true

	for _, pos := range core.HitterPositions {
		if !eligibleAt(v, pos) {
			continue
		}
		vor := v.TotalZScore - replacements[pos]
		if first || vor > bestVOR {
			bestVOR, bestPos, first = vor, pos, false
		}
	}

	if bestPos == core.PositionUnknown {
		bestVOR = v.TotalZScore - replacements[core.PositionUtility]
		bestPos = core.PositionUtility
	}

	if v.Positions.IsEmpty() {
		v.Positions = core.NewEligibleSlots(bestPos)
	}

	return bestVOR, bestPos
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
