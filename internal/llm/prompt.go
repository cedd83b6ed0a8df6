package llm

import (
	"fmt"
	"sort"
	"strings"

	"stormlightlabs.org/draftassistant/internal/core"
	"stormlightlabs.org/draftassistant/internal/valuation"
)

// SystemPrompt returns the static system prompt shared by every draft
// advisory LM call, supplemented from original_source/llm/prompt.rs since
// spec.md's §4.5 names the LM request without specifying its contents.
func SystemPrompt() string {
	return `You are a fantasy baseball auction draft advisor for a 10-team H2H Most Categories league.

Categories: R, HR, RBI, BB, SB, AVG (hitting) | K, W, SV, HD, ERA, WHIP (pitching)
Format: Salary cap auction, $260 budget, 26-player rosters.
Key edges: BB (walks) and HD (holds) are non-standard - most opponents undervalue these.
Strategy: Stars-and-scrubs. 65% hitting budget, 35% pitching. Soft-punt SV, compete in all others.

For each nominated player, you will provide:
1. VERDICT: One of BID TO WIN / BID IF CHEAP / DRIVE UP PRICE / PASS
2. BID RANGE: A minimum (steal price) and maximum (walk-away price)
3. FIT: How this player fits my specific roster and category needs
4. STRATEGY: What to think about - competing bidders, comparable players available later, draft position implications

Be concise and direct. Use the pre-computed numbers I provide - do NOT do arithmetic. Focus on trade-offs and context the numbers don't capture.`
}

// MarketComp is a recently drafted player used as a price comparison.
type MarketComp struct {
	PlayerName    string
	Position      string
	PredraftValue float64
	PaidPrice     float64
	OverpayPct    float64
}

// SimilarPlayerInfo is an available player similar in value to the
// nominated player.
type SimilarPlayerInfo struct {
	Name          string
	Position      string
	DollarValue   float64
	AdjustedValue float64
}

// SellCandidate is a high-value available player that drains opponent
// budgets if nominated, because it only fills positions the user has
// already rostered.
type SellCandidate struct {
	Name        string
	Position    string
	DollarValue float64
	Reason      string
}

// BuildNominationAnalysisPrompt builds the prompt sent to the LM when a
// player is nominated, per spec.md §4.5 and supplemented from
// original_source/llm/prompt.rs.
func BuildNominationAnalysisPrompt(
	player *core.Valuation,
	nomination *core.Nomination,
	myRoster *core.Roster,
	needs valuation.CategoryNeeds,
	scarcity map[core.Position]valuation.Scarcity,
	available []*core.Valuation,
	draftState *core.DraftState,
	inflation valuation.InflationAdjuster,
) string {
	adjustedValue := inflation.Adjust(player.DollarValue)
	positionsStr := joinPositions(player.Positions.Decode())

	var b strings.Builder
	b.Grow(2048)

	fmt.Fprintf(&b, "## NOMINATION\nPlayer: %s (%s)\nNominated by: %s | Current bid: $%.0f\nPre-draft value: $%.0f | Adjusted value: $%.0f | VOR: %.1f\n\n",
		player.Name, positionsStr, nomination.Nominator, nomination.CurrentBid, player.DollarValue, adjustedValue, player.VOR)

	b.WriteString("## PLAYER PROFILE\n")
	b.WriteString(formatPlayerProfile(player, available))
	b.WriteByte('\n')

	b.WriteString("## MY ROSTER\n")
	b.WriteString(formatRosterForPrompt(myRoster))
	if myTeam := draftState.MyTeam(); myTeam != nil {
		fmt.Fprintf(&b, "Budget: $%.0f remaining | %d slots open\n\n", myTeam.BudgetRemaining, myRoster.EmptySlots())
	} else {
		fmt.Fprintf(&b, "Budget: (unknown) | %d slots open\n\n", myRoster.EmptySlots())
	}

	b.WriteString("## CATEGORY NEEDS\n")
	b.WriteString(formatCategoryNeeds(needs))
	b.WriteByte('\n')

	b.WriteString("## POSITIONAL SCARCITY (relevant positions)\n")
	for _, pos := range player.Positions.Decode() {
		if entry, ok := scarcity[pos]; ok {
			fmt.Fprintf(&b, "  %s : %s (%d above replacement, dropoff %.1f)\n", pos, entry.Urgency, entry.PlayersAboveReplacement, entry.Dropoff)
		}
	}
	b.WriteByte('\n')

	if similar := findSimilarPlayers(player, available, inflation, 3); len(similar) > 0 {
		b.WriteString("## SIMILAR AVAILABLE PLAYERS\n")
		for _, sp := range similar {
			fmt.Fprintf(&b, "  %s (%s) - Value: $%.0f, Adj: $%.0f\n", sp.Name, sp.Position, sp.DollarValue, sp.AdjustedValue)
		}
		b.WriteByte('\n')
	}

	if comps := findMarketComps(draftState, player, available); len(comps) > 0 {
		b.WriteString("## RECENT MARKET COMPS\n")
		for _, comp := range comps {
			fmt.Fprintf(&b, "  %s (%s) - Value: $%.0f, Paid: $%.0f, Overpay: %+.0f%%\n", comp.PlayerName, comp.Position, comp.PredraftValue, comp.PaidPrice, comp.OverpayPct)
		}
		b.WriteByte('\n')
	}

	b.WriteString("## WHAT SHOULD I DO?\nGive me your verdict, bid range, fit assessment, and strategy notes.")

	return b.String()
}

// BuildNominationPlanningPrompt builds the prompt sent to the LM when the
// user asks what to nominate next, per spec.md §4.5.
func BuildNominationPlanningPrompt(
	myRoster *core.Roster,
	needs valuation.CategoryNeeds,
	scarcity map[core.Position]valuation.Scarcity,
	available []*core.Valuation,
	draftState *core.DraftState,
	inflation valuation.InflationAdjuster,
) string {
	myTeam := draftState.MyTeam()
	myBudget := 0.0
	myTeamID := ""
	if myTeam != nil {
		myBudget = myTeam.BudgetRemaining
		myTeamID = myTeam.ID
	}

	var b strings.Builder
	b.Grow(2048)

	fmt.Fprintf(&b, "## NOMINATION PLANNING\nPick #%d | My budget: $%.0f | Inflation rate: %.2fx | %d open slots\n\n",
		draftState.PickCount+1, myBudget, inflation.Rate(), myRoster.EmptySlots())

	b.WriteString("## MY ROSTER\n")
	b.WriteString(formatRosterForPrompt(myRoster))
	b.WriteByte('\n')

	b.WriteString("## CATEGORY STRENGTHS (need level, higher = more need)\n")
	b.WriteString(formatCategoryNeeds(needs))
	b.WriteByte('\n')

	b.WriteString("## POSITIONAL SCARCITY\n")
	for _, pos := range core.HitterPositions {
		if entry, ok := scarcity[pos]; ok {
			fmt.Fprintf(&b, "  %s : %s (%d above replacement)\n", pos, entry.Urgency, entry.PlayersAboveReplacement)
		}
	}
	b.WriteByte('\n')

	b.WriteString("## OPPONENT BUDGETS\n")
	for _, team := range draftState.Teams {
		if team.ID == myTeamID {
			continue
		}
		fmt.Fprintf(&b, "  %s : $%.0f spent, $%.0f remaining, %d slots open\n", team.Name, team.BudgetSpent, team.BudgetRemaining, team.Roster.EmptySlots())
	}
	b.WriteByte('\n')

	topTargets := findTopTargets(available, myRoster, inflation, 10)
	b.WriteString("## TOP 10 AVAILABLE TARGETS (sorted by adjusted value x roster fit)\n")
	for i, p := range topTargets {
		adj := inflation.Adjust(p.DollarValue)
		fills := ""
		for _, pos := range p.Positions.Decode() {
			if myRoster.HasEmptySlot(pos) {
				fills = " [FILLS SLOT]"
				break
			}
		}
		fmt.Fprintf(&b, "  %d. %s (%s) - $%.0f adj, VOR %.1f%s\n", i+1, p.Name, joinPositions(p.Positions.Decode()), adj, p.VOR, fills)
	}
	b.WriteByte('\n')

	if sellCandidates := findNominateToSellCandidates(available, myRoster, draftState, 5); len(sellCandidates) > 0 {
		b.WriteString(`## TOP 5 "NOMINATE TO SELL" CANDIDATES` + "\n")
		for i, sc := range sellCandidates {
			fmt.Fprintf(&b, "  %d. %s (%s) - $%.0f value - %s\n", i+1, sc.Name, sc.Position, sc.DollarValue, sc.Reason)
		}
		b.WriteByte('\n')
	}

	b.WriteString("## WHO SHOULD I NOMINATE AND WHY?\nGive me your top pick to nominate, backup option, and reasoning.")

	return b.String()
}

func joinPositions(positions []core.Position) string {
	names := make([]string, len(positions))
	for i, p := range positions {
		names[i] = p.String()
	}
	return strings.Join(names, "/")
}

// formatPlayerProfile formats a player's per-category projections,
// z-scores, and pool rank.
func formatPlayerProfile(player *core.Valuation, available []*core.Valuation) string {
	var b strings.Builder
	if player.Kind == core.KindHitter {
		h := player.Hitter
		fmt.Fprintf(&b, "  PA: %d\n", h.PA)
		b.WriteString("  Cat   Proj  Z-Score  Rank\n")
		for _, cz := range player.CategoryZ {
			rank := rankAmong(available, core.KindHitter, cz.Category, cz.Value)
			fmt.Fprintf(&b, "  %-5s %6s  %+6.2f   #%d\n", cz.Category, hitterStatDisplay(h, cz.Category), cz.Value, rank)
		}
	} else {
		p := player.Pitcher
		fmt.Fprintf(&b, "  IP: %.0f\n", p.IP)
		b.WriteString("  Cat   Proj  Z-Score  Rank\n")
		for _, cz := range player.CategoryZ {
			rank := rankAmong(available, core.KindPitcher, cz.Category, cz.Value)
			fmt.Fprintf(&b, "  %-5s %6s  %+6.2f   #%d\n", cz.Category, pitcherStatDisplay(p, cz.Category), cz.Value, rank)
		}
	}
	return b.String()
}

func hitterStatDisplay(h core.HitterStats, category string) string {
	switch category {
	case "R":
		return fmt.Sprintf("%d", h.R)
	case "HR":
		return fmt.Sprintf("%d", h.HR)
	case "RBI":
		return fmt.Sprintf("%d", h.RBI)
	case "BB":
		return fmt.Sprintf("%d", h.BB)
	case "SB":
		return fmt.Sprintf("%d", h.SB)
	case "AVG":
		return fmt.Sprintf("%.3f", h.AVG)
	default:
		return ""
	}
}

func pitcherStatDisplay(p core.PitcherStats, category string) string {
	switch category {
	case "K":
		return fmt.Sprintf("%d", p.K)
	case "W":
		return fmt.Sprintf("%d", p.W)
	case "SV":
		return fmt.Sprintf("%d", p.SV)
	case "HD":
		return fmt.Sprintf("%d", p.HD)
	case "ERA":
		return fmt.Sprintf("%.2f", p.ERA)
	case "WHIP":
		return fmt.Sprintf("%.2f", p.WHIP)
	default:
		return ""
	}
}

// rankAmong computes a category rank (1 = best) among available players
// of the same kind, counting how many have a strictly better z-score.
func rankAmong(available []*core.Valuation, kind core.Kind, category string, value float64) int {
	better := 0
	for _, p := range available {
		if p.Kind != kind {
			continue
		}
		for _, cz := range p.CategoryZ {
			if cz.Category == category && cz.Value > value {
				better++
			}
		}
	}
	return better + 1
}

// findMarketComps looks at the last 20 picks for same-position players
// and computes an overpay percentage against their pre-draft value.
func findMarketComps(draftState *core.DraftState, player *core.Valuation, available []*core.Valuation) []MarketComp {
	picks := draftState.PickHistory
	if len(picks) == 0 {
		return nil
	}

	start := 0
	if len(picks) > 20 {
		start = len(picks) - 20
	}
	recent := picks[start:]

	positionsStr := joinPositions(player.Positions.Decode())
	first := "?"
	if s := strings.SplitN(positionsStr, "/", 2); len(s) > 0 && s[0] != "" {
		first = s[0]
	}

	var comps []MarketComp
	for _, pick := range recent {
		if !pickMatchesPosition(pick, player) {
			continue
		}

		predraftValue := 0.0
		found := false
		for _, p := range available {
			if p.Name == pick.PlayerName {
				predraftValue = p.DollarValue
				found = true
				break
			}
		}
		if !found {
			predraftValue = pick.Price * 0.85
		}
		if predraftValue < 1.0 {
			continue
		}

		overpayPct := ((pick.Price - predraftValue) / predraftValue) * 100.0
		comps = append(comps, MarketComp{
			PlayerName:    pick.PlayerName,
			Position:      first,
			PredraftValue: predraftValue,
			PaidPrice:     pick.Price,
			OverpayPct:    overpayPct,
		})
	}

	if len(comps) > 5 {
		comps = comps[:5]
	}
	return comps
}

func pickMatchesPosition(pick core.DraftPick, player *core.Valuation) bool {
	for _, pos := range player.Positions.Decode() {
		if pos.String() == pick.Position {
			return true
		}
	}
	return false
}

// findSimilarPlayers finds available players similar to the target
// player (shared position, value within 35%).
func findSimilarPlayers(player *core.Valuation, available []*core.Valuation, inflation valuation.InflationAdjuster, count int) []SimilarPlayerInfo {
	if player.DollarValue <= 1.0 {
		return nil
	}

	threshold := player.DollarValue * 0.35
	minValue := player.DollarValue - threshold
	maxValue := player.DollarValue + threshold

	var similar []SimilarPlayerInfo
	for _, p := range available {
		if p.Name == player.Name || p.DollarValue < minValue || p.DollarValue > maxValue || p.DollarValue <= 1.0 {
			continue
		}
		if !sharesPosition(p, player) {
			continue
		}
		similar = append(similar, SimilarPlayerInfo{
			Name:          p.Name,
			Position:      joinPositions(p.Positions.Decode()),
			DollarValue:   p.DollarValue,
			AdjustedValue: inflation.Adjust(p.DollarValue),
		})
	}

	sort.Slice(similar, func(i, j int) bool { return similar[i].DollarValue > similar[j].DollarValue })
	if len(similar) > count {
		similar = similar[:count]
	}
	return similar
}

func sharesPosition(a, b *core.Valuation) bool {
	for _, pos := range a.Positions.Decode() {
		if b.Positions.Has(pos) {
			return true
		}
	}
	return false
}

// findNominateToSellCandidates finds high-value available players at
// positions the user has already filled, which opponents still need -
// good nominations to drain opponent budgets, per
// original_source/llm/prompt.rs.
func findNominateToSellCandidates(available []*core.Valuation, myRoster *core.Roster, draftState *core.DraftState, count int) []SellCandidate {
	var filled []core.Position
	for _, pos := range core.HitterPositions {
		if !myRoster.HasEmptySlot(pos) {
			filled = append(filled, pos)
		}
	}
	if len(filled) == 0 {
		return nil
	}

	myTeamID := ""
	if myTeam := draftState.MyTeam(); myTeam != nil {
		myTeamID = myTeam.ID
	}

	demand := make(map[core.Position]int)
	for _, team := range draftState.Teams {
		if team.ID == myTeamID {
			continue
		}
		for _, pos := range filled {
			if team.Roster.HasEmptySlot(pos) {
				demand[pos]++
			}
		}
	}

	var candidates []SellCandidate
	for _, p := range available {
		if p.DollarValue <= 5.0 {
			continue
		}

		bestPos := core.PositionUnknown
		bestDemand := -1
		for _, pos := range p.Positions.Decode() {
			if !containsPosition(filled, pos) {
				continue
			}
			if demand[pos] > bestDemand {
				bestDemand, bestPos = demand[pos], pos
			}
		}
		if bestPos == core.PositionUnknown {
			continue
		}

		candidates = append(candidates, SellCandidate{
			Name:        p.Name,
			Position:    bestPos.String(),
			DollarValue: p.DollarValue,
			Reason:      fmt.Sprintf("%d teams need %s; I don't", demand[bestPos], bestPos),
		})
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].DollarValue > candidates[j].DollarValue })
	if len(candidates) > count {
		candidates = candidates[:count]
	}
	return candidates
}

func containsPosition(positions []core.Position, pos core.Position) bool {
	for _, p := range positions {
		if p == pos {
			return true
		}
	}
	return false
}

// formatRosterForPrompt formats the user's roster for prompt inclusion,
// excluding injured-list slots.
func formatRosterForPrompt(roster *core.Roster) string {
	var b strings.Builder
	for _, slot := range roster.Slots {
		if slot.Position == core.PositionInjuredList {
			continue
		}
		status := "[EMPTY]"
		if slot.Player != nil {
			status = fmt.Sprintf("%s ($%.0f) ", slot.Player.Name, slot.Player.PricePaid)
		}
		fmt.Fprintf(&b, "  %4s: %s\n", slot.Position, status)
	}
	return b.String()
}

// formatCategoryNeeds formats category needs as a compact two-row table.
func formatCategoryNeeds(needs valuation.CategoryNeeds) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  Hitting:  R=%.2f HR=%.2f RBI=%.2f BB=%.2f SB=%.2f AVG=%.2f\n",
		needs.R, needs.HR, needs.RBI, needs.BB, needs.SB, needs.AVG)
	fmt.Fprintf(&b, "  Pitching: K=%.2f W=%.2f SV=%.2f HD=%.2f ERA=%.2f WHIP=%.2f\n",
		needs.K, needs.W, needs.SV, needs.HD, needs.ERA, needs.WHIP)
	return b.String()
}

// findTopTargets ranks available players by adjusted value, boosted 20%
// for players who fill an empty roster slot.
func findTopTargets(available []*core.Valuation, myRoster *core.Roster, inflation valuation.InflationAdjuster, count int) []*core.Valuation {
	type scored struct {
		player *core.Valuation
		score  float64
	}

	var rows []scored
	for _, p := range available {
		if p.DollarValue <= 1.0 {
			continue
		}
		adj := inflation.Adjust(p.DollarValue)
		fitBonus := 0.0
		for _, pos := range p.Positions.Decode() {
			if myRoster.HasEmptySlot(pos) {
				fitBonus = adj * 0.20
				break
			}
		}
		rows = append(rows, scored{player: p, score: adj + fitBonus})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].score > rows[j].score })
	if len(rows) > count {
		rows = rows[:count]
	}

	out := make([]*core.Valuation, len(rows))
	for i, r := range rows {
		out[i] = r.player
	}
	return out
}
