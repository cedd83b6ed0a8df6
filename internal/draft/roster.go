// Package draft implements the draft state machine: pick recording with
// identity-based dedup, roster slot placement, snapshot diffing, team
// reconciliation, and crash recovery, per spec.md §4.3.
package draft

import "stormlightlabs.org/draftassistant/internal/core"

// Place attempts to place a rostered player onto the team's roster,
// following the priority order from spec.md §4.3.1:
//
//  1. if the eligible-slot bitmap is non-empty, walk it in the order
//     supplied, skipping meta-slots, placing into the first empty slot
//     among the expansion of any eligible bit;
//  2. otherwise fall back to the player's display position, trying its
//     dedicated slot (expanding combo/outfield positions);
//  3. if the player is a hitter, place into the first empty utility slot;
//  4. otherwise place into the first empty bench slot.
//
// Returns whether placement succeeded.
func Place(roster *core.Roster, player *core.RosteredPlayer) bool {
	eligible := player.EligibleSlots.Decode()

	if len(eligible) > 0 {
		for _, pos := range eligible {
			if pos.IsMetaSlot() {
				continue
			}
			for _, expanded := range pos.Expand() {
				if placeAt(roster, expanded, player) {
					return true
				}
			}
		}
	} else {
		for _, expanded := range player.Position.Expand() {
			if placeAt(roster, expanded, player) {
				return true
			}
		}
	}

	if isHitter(eligible, player.Position) {
		if placeAt(roster, core.PositionUtility, player) {
			return true
		}
	}

	return placeAt(roster, core.PositionBench, player)
}

// placeAt fills the first empty slot at the given position.
func placeAt(roster *core.Roster, pos core.Position, player *core.RosteredPlayer) bool {
	for i := range roster.Slots {
		slot := &roster.Slots[i]
		if slot.Position == pos && slot.Empty() {
			slot.Player = player
			return true
		}
	}
	return false
}

// isHitter reports whether the player qualifies for the utility
// fallback slot: if the eligible-slot bitmap is non-empty, any bit
// mapping to a hitter (or combo) slot qualifies; otherwise it falls
// back to the display position, per spec.md §4.3.1.
func isHitter(eligible []core.Position, display core.Position) bool {
	if len(eligible) > 0 {
		for _, pos := range eligible {
			if core.IsHitterPosition(pos) {
				return true
			}
		}
		return false
	}
	return core.IsHitterPosition(display)
}
