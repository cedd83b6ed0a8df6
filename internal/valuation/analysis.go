package valuation

import (
	"sort"

	"stormlightlabs.org/draftassistant/internal/core"
)

// CategoryNeeds holds how much the user's team needs improvement in each
// scoring category. Higher values mean greater need, normalized to
// roughly the 0.0-1.0 range.
type CategoryNeeds struct {
	R, HR, RBI, BB, SB, AVG float64
	K, W, SV, HD, ERA, WHIP float64
}

// UniformNeeds returns category needs with every category set to the
// same level, used before enough roster data exists to differentiate
// them.
func UniformNeeds(value float64) CategoryNeeds {
	return CategoryNeeds{
		R: value, HR: value, RBI: value, BB: value, SB: value, AVG: value,
		K: value, W: value, SV: value, HD: value, ERA: value, WHIP: value,
	}
}

// Verdict is the high-level recommendation attached to an instant
// analysis.
type Verdict int

const (
	VerdictPass Verdict = iota
	VerdictConditionalTarget
	VerdictStrongTarget
)

func (v Verdict) String() string {
	switch v {
	case VerdictStrongTarget:
		return "STRONG TARGET"
	case VerdictConditionalTarget:
		return "CONDITIONAL"
	default:
		return "PASS"
	}
}

// CategoryImpact is one category's need-weighted z-score contribution.
type CategoryImpact struct {
	Category string
	Impact   float64
}

// SimilarPlayer is a comparable available player, used to round out an
// instant analysis with alternatives.
type SimilarPlayer struct {
	Name           string
	Position       core.Position
	DollarValue    float64
	VOR            float64
	KeyDifference  string
}

// InstantAnalysis is the complete, pre-computed (non-LM) verdict for one
// nominated player, per spec.md §4.5's "instant algorithmic analysis".
type InstantAnalysis struct {
	PlayerName      string
	DollarValue     float64
	AdjustedValue   float64
	VOR             float64
	FillsEmptySlot  bool
	FillsPosition   core.Position
	ScarcityAt      Urgency
	CategoryImpact  []CategoryImpact
	BidFloor        float64
	BidCeiling      float64
	Verdict         Verdict
	SimilarPlayers  []SimilarPlayer
}

// InflationAdjuster is the subset of inflation.Tracker the analysis needs,
// kept as an interface here: inflation.Tracker satisfies it, and tests
// pass a fixed-rate stand-in.
type InflationAdjuster interface {
	Adjust(v float64) float64
	Rate() float64
}

// ComputeInstantAnalysis builds the instant, non-LM verdict for a
// nominated player: bid range, scarcity context, category fit, and
// similar available alternatives. Grounded on the original
// compute_instant_analysis pass: dollar values come from the valuation
// pipeline, scarcity from ComputeScarcity, and needs from the caller.
func ComputeInstantAnalysis(
	player *core.Valuation,
	myRoster *core.Roster,
	available []*core.Valuation,
	scarcity map[core.Position]Scarcity,
	inflation InflationAdjuster,
	needs CategoryNeeds,
) InstantAnalysis {
	adjusted := inflation.Adjust(player.DollarValue)
	bestPos := player.BestPosition
	if bestPos == core.PositionUnknown {
		bestPos = core.PositionUtility
	}

	fillsEmpty := false
	fillsPosition := core.PositionUnknown
	for _, pos := range player.Positions.Decode() {
		if myRoster.HasEmptySlot(pos) {
			fillsEmpty = true
			fillsPosition = pos
			break
		}
	}

	urgency := UrgencyLow
	if s, ok := scarcity[bestPos]; ok {
		urgency = s.Urgency
	}

	premium := urgency.Premium()
	bidFloor := roundToDollar(adjusted * 0.70)
	if bidFloor < core.MinDollarValue {
		bidFloor = core.MinDollarValue
	}
	bidCeiling := roundToDollar(adjusted * (1 + premium))
	if bidCeiling < core.MinDollarValue {
		bidCeiling = core.MinDollarValue
	}

	return InstantAnalysis{
		PlayerName:     player.Name,
		DollarValue:    player.DollarValue,
		AdjustedValue:  adjusted,
		VOR:            player.VOR,
		FillsEmptySlot: fillsEmpty,
		FillsPosition:  fillsPosition,
		ScarcityAt:     urgency,
		CategoryImpact: computeCategoryImpact(player, needs),
		BidFloor:       bidFloor,
		BidCeiling:     bidCeiling,
		Verdict:        computeVerdict(fillsEmpty, urgency, player, available, bestPos),
		SimilarPlayers: findSimilarByVOR(player, available, bestPos),
	}
}

func roundToDollar(v float64) float64 {
	if v < 0 {
		return 0
	}
	return float64(int(v + 0.5))
}

// computeVerdict mirrors compute_verdict: strong target when the player
// fills an urgent empty slot or ranks top-3 available at the position
// while filling a slot, conditional when merely useful, pass otherwise.
func computeVerdict(fillsEmpty bool, urgency Urgency, player *core.Valuation, available []*core.Valuation, bestPos core.Position) Verdict {
	top3 := isTopNAtPosition(player, available, bestPos, 3)

	if fillsEmpty && (urgency == UrgencyCritical || urgency == UrgencyHigh) {
		return VerdictStrongTarget
	}
	if top3 && fillsEmpty {
		return VerdictStrongTarget
	}
	if fillsEmpty || player.VOR > 0 {
		return VerdictConditionalTarget
	}
	return VerdictPass
}

func isTopNAtPosition(player *core.Valuation, available []*core.Valuation, position core.Position, n int) bool {
	var vors []float64
	for _, p := range available {
		if p.VOR > 0 && eligibleAt(p, position) {
			vors = append(vors, p.VOR)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(vors)))

	if n-1 < len(vors) {
		return player.VOR >= vors[n-1]
	}
	return eligibleAt(player, position) && player.VOR > 0
}

// computeCategoryImpact multiplies each category's z-score by the
// matching need weight and returns the top 3 by absolute impact.
func computeCategoryImpact(player *core.Valuation, needs CategoryNeeds) []CategoryImpact {
	var impacts []CategoryImpact
	for _, cz := range player.CategoryZ {
		impacts = append(impacts, CategoryImpact{Category: cz.Category, Impact: cz.Value * needWeight(cz.Category, needs)})
	}
	sort.Slice(impacts, func(i, j int) bool { return absFloat(impacts[i].Impact) > absFloat(impacts[j].Impact) })
	if len(impacts) > 3 {
		impacts = impacts[:3]
	}
	return impacts
}

func needWeight(category string, needs CategoryNeeds) float64 {
	switch category {
	case "R":
		return needs.R
	case "HR":
		return needs.HR
	case "RBI":
		return needs.RBI
	case "BB":
		return needs.BB
	case "SB":
		return needs.SB
	case "AVG":
		return needs.AVG
	case "K":
		return needs.K
	case "W":
		return needs.W
	case "SV":
		return needs.SV
	case "HD":
		return needs.HD
	case "ERA":
		return needs.ERA
	case "WHIP":
		return needs.WHIP
	default:
		return 0
	}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// findSimilarByVOR finds up to 3 available players at the same position
// with VOR within 30% of the target, for the instant analysis's
// alternatives list.
func findSimilarByVOR(player *core.Valuation, available []*core.Valuation, position core.Position) []SimilarPlayer {
	if player.VOR <= 0 {
		return nil
	}

	threshold := player.VOR * 0.30
	minVOR := player.VOR - threshold
	maxVOR := player.VOR + threshold

	var similar []SimilarPlayer
	for _, p := range available {
		if p.Name == player.Name || !eligibleAt(p, position) {
			continue
		}
		if p.VOR < minVOR || p.VOR > maxVOR || p.VOR <= 0 {
			continue
		}
		similar = append(similar, SimilarPlayer{
			Name:          p.Name,
			Position:      position,
			DollarValue:   p.DollarValue,
			VOR:           p.VOR,
			KeyDifference: keyDifference(p, player),
		})
	}

	sort.Slice(similar, func(i, j int) bool { return similar[i].VOR > similar[j].VOR })
	if len(similar) > 3 {
		similar = similar[:3]
	}
	return similar
}

func keyDifference(candidate, target *core.Valuation) string {
	switch {
	case candidate.DollarValue > target.DollarValue*1.1:
		return "More expensive"
	case candidate.DollarValue < target.DollarValue*0.9:
		return "Cheaper option"
	case candidate.VOR > target.VOR:
		return "Higher VOR"
	default:
		return "Similar value"
	}
}
