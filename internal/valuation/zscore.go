// Package valuation implements the pure z-score/VOR/auction/scarcity
// pipeline that turns projections and league configuration into per-player
// dollar values.
package valuation

import (
	"math"
	"sort"

	"stormlightlabs.org/draftassistant/internal/config"
	"stormlightlabs.org/draftassistant/internal/core"
)

// zeroStdevEpsilon is the threshold below which a pool's standard
// deviation is treated as zero, per spec.md §4.1.1.
const zeroStdevEpsilon = 1e-9

// poolStats holds the weighted mean/stdev for one category across a
// statistics pool.
type poolStats struct {
	mean  float64
	stdev float64
}

// hitterPools holds the z-score pools and per-category statistics used to
// score every hitter in the full population.
type hitterPools struct {
	leagueAVG float64
	stats     map[string]poolStats
}

// pitcherPools holds the z-score pools and per-category statistics used to
// score every pitcher in the full population.
type pitcherPools struct {
	leagueERA  float64
	leagueWHIP float64
	stats      map[string]poolStats
}

// ComputeZScores scores every player in the full population against
// statistics computed from the volume-truncated pools, per spec.md
// §4.1.1. hitters and pitchers are the full populations (not yet
// truncated); the function internally derives the smaller statistics
// pools and then scores everyone against them.
func ComputeZScores(hitters, pitchers []*core.Valuation, strategy *config.StrategyConfig) {
	hp := buildHitterPools(hitters, strategy)
	scoreHitters(hitters, hp, strategy.CategoryWeights)

	starters, relievers := splitPitchers(pitchers)
	spPools := buildPitcherPools(starters, strategy.MinIPSP, strategy.SPPoolSize, byIP)
	rpPools := buildPitcherPools(relievers, float64(strategy.MinGRP), strategy.RPPoolSize, byG)

	scorePitchers(starters, spPools, strategy.CategoryWeights)
	scorePitchers(relievers, rpPools, strategy.CategoryWeights)
}

func splitPitchers(pitchers []*core.Valuation) (starters, relievers []*core.Valuation) {
	for _, p := range pitchers {
		if p.IsStartingPitcher() {
			starters = append(starters, p)
		} else {
			relievers = append(relievers, p)
		}
	}
	return starters, relievers
}

func byIP(v *core.Valuation) float64 { return v.Pitcher.IP }
func byG(v *core.Valuation) float64  { return float64(v.Pitcher.G) }

// buildHitterPools selects the min_pa/hitter_pool_size-truncated pool and
// computes weighted league averages and per-category population stdevs.
func buildHitterPools(hitters []*core.Valuation, strategy *config.StrategyConfig) *hitterPools {
	pool := truncatedPool(hitters, strategy.MinPA, strategy.HitterPoolSize, func(v *core.Valuation) float64 {
		return float64(v.Hitter.PA)
	})

	var totalH, totalAB int
	for _, v := range pool {
		totalH += v.Hitter.H
		totalAB += v.Hitter.AB
	}
	leagueAVG := 0.0
	if totalAB > 0 {
		leagueAVG = float64(totalH) / float64(totalAB)
	}

	categories := map[string]func(*core.Valuation) float64{
		"R":   func(v *core.Valuation) float64 { return float64(v.Hitter.R) },
		"HR":  func(v *core.Valuation) float64 { return float64(v.Hitter.HR) },
		"RBI": func(v *core.Valuation) float64 { return float64(v.Hitter.RBI) },
		"BB":  func(v *core.Valuation) float64 { return float64(v.Hitter.BB) },
		"SB":  func(v *core.Valuation) float64 { return float64(v.Hitter.SB) },
		"AVG": func(v *core.Valuation) float64 { return float64(v.Hitter.AB) * (v.Hitter.AVG - leagueAVG) },
	}

	stats := make(map[string]poolStats, len(categories))
	for cat, fn := range categories {
		stats[cat] = computePoolStats(pool, fn)
	}

	return &hitterPools{leagueAVG: leagueAVG, stats: stats}
}

// buildPitcherPools selects a truncated pitcher pool (starters or
// relievers) and computes weighted league ERA/WHIP and per-category
// population stdevs.
func buildPitcherPools(pitchers []*core.Valuation, minVolume float64, poolSize int, volume func(*core.Valuation) float64) *pitcherPools {
	pool := truncatedPool(pitchers, int(minVolume), poolSize, volume)

	var totalER, totalIP, totalWH float64
	for _, v := range pool {
		totalIP += v.Pitcher.IP
		totalER += v.Pitcher.ERA * v.Pitcher.IP / 9.0
		totalWH += v.Pitcher.WHIP * v.Pitcher.IP
	}

	leagueERA, leagueWHIP := 0.0, 0.0
	if totalIP > 0 {
		leagueERA = totalER * 9.0 / totalIP
		leagueWHIP = totalWH / totalIP
	}

	categories := map[string]func(*core.Valuation) float64{
		"K":    func(v *core.Valuation) float64 { return float64(v.Pitcher.K) },
		"W":    func(v *core.Valuation) float64 { return float64(v.Pitcher.W) },
		"SV":   func(v *core.Valuation) float64 { return float64(v.Pitcher.SV) },
		"HD":   func(v *core.Valuation) float64 { return float64(v.Pitcher.HD) },
		"ERA":  func(v *core.Valuation) float64 { return v.Pitcher.IP * (leagueERA - v.Pitcher.ERA) / 9.0 },
		"WHIP": func(v *core.Valuation) float64 { return v.Pitcher.IP * (leagueWHIP - v.Pitcher.WHIP) },
	}

	stats := make(map[string]poolStats, len(categories))
	for cat, fn := range categories {
		stats[cat] = computePoolStats(pool, fn)
	}

	return &pitcherPools{leagueERA: leagueERA, leagueWHIP: leagueWHIP, stats: stats}
}

// truncatedPool ranks players by volume descending and truncates to
// size, keeping only those meeting minVolume. Below-threshold players are
// simply excluded from the *statistics* pool; they are still scored
// later against it.
func truncatedPool(players []*core.Valuation, minVolume int, size int, volume func(*core.Valuation) float64) []*core.Valuation {
	eligible := make([]*core.Valuation, 0, len(players))
	for _, v := range players {
		if volume(v) >= float64(minVolume) {
			eligible = append(eligible, v)
		}
	}
	sort.Slice(eligible, func(i, j int) bool {
		return volume(eligible[i]) > volume(eligible[j])
	})
	if len(eligible) > size {
		eligible = eligible[:size]
	}
	return eligible
}

func computePoolStats(pool []*core.Valuation, fn func(*core.Valuation) float64) poolStats {
	n := len(pool)
	if n == 0 {
		return poolStats{}
	}

	var sum float64
	for _, v := range pool {
		sum += fn(v)
	}
	mean := sum / float64(n)

	var sqSum float64
	for _, v := range pool {
		d := fn(v) - mean
		sqSum += d * d
	}
	stdev := math.Sqrt(sqSum / float64(n))

	return poolStats{mean: mean, stdev: stdev}
}

func zscore(value float64, s poolStats) float64 {
	if s.stdev < zeroStdevEpsilon {
		return 0
	}
	return (value - s.mean) / s.stdev
}

func scoreHitters(hitters []*core.Valuation, hp *hitterPools, weights map[string]float64) {
	for _, v := range hitters {
		var total float64
		var cats []core.CategoryZScore

		add := func(name string, value float64) {
			z := zscore(value, hp.stats[name])
			cats = append(cats, core.CategoryZScore{Category: name, Value: z})
			total += z * weights[name]
		}

		add("R", float64(v.Hitter.R))
		add("HR", float64(v.Hitter.HR))
		add("RBI", float64(v.Hitter.RBI))
		add("BB", float64(v.Hitter.BB))
		add("SB", float64(v.Hitter.SB))
		add("AVG", float64(v.Hitter.AB)*(v.Hitter.AVG-hp.leagueAVG))

		v.TotalZScore = total
		v.CategoryZ = cats
	}
}

func scorePitchers(pitchers []*core.Valuation, pp *pitcherPools, weights map[string]float64) {
	for _, v := range pitchers {
		var total float64
		var cats []core.CategoryZScore

		add := func(name string, value float64) {
			z := zscore(value, pp.stats[name])
			cats = append(cats, core.CategoryZScore{Category: name, Value: z})
			total += z * weights[name]
		}

		add("K", float64(v.Pitcher.K))
		add("W", float64(v.Pitcher.W))
		add("SV", float64(v.Pitcher.SV))
		add("HD", float64(v.Pitcher.HD))
		add("ERA", v.Pitcher.IP*(pp.leagueERA-v.Pitcher.ERA)/9.0)
		add("WHIP", v.Pitcher.IP*(pp.leagueWHIP-v.Pitcher.WHIP))

		v.TotalZScore = total
		v.CategoryZ = cats
	}
}
