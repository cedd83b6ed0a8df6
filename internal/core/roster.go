package core

// RosteredPlayer is a player placed into a roster slot.
type RosteredPlayer struct {
	Name          string
	PricePaid     float64
	Position      Position // display position; used when EligibleSlots is empty
	EligibleSlots EligibleSlots
}

// RosterSlot is a single slot in a team's roster. Once filled, its
// Position never changes and it never becomes empty again (the draft is
// monotone: players are not dropped).
type RosterSlot struct {
	Position Position
	Player   *RosteredPlayer
}

// Empty reports whether the slot has no rostered player.
func (s *RosterSlot) Empty() bool {
	return s.Player == nil
}

// Roster is the ordered sequence of slots making up a team's roster.
type Roster struct {
	Slots []RosterSlot
}

// NewRoster builds an empty roster from a template of positions, in the
// order supplied (dedicated positions first, then meta-slots, matching
// the league's roster_slot_map / roster_limits configuration).
func NewRoster(template []Position) Roster {
	slots := make([]RosterSlot, len(template))
	for i, p := range template {
		slots[i] = RosterSlot{Position: p}
	}
	return Roster{Slots: slots}
}

// FilledCount returns the number of non-empty slots.
func (r *Roster) FilledCount() int {
	n := 0
	for i := range r.Slots {
		if !r.Slots[i].Empty() {
			n++
		}
	}
	return n
}

// Reset clears every slot's player, preserving the slot/position template.
func (r *Roster) Reset() {
	for i := range r.Slots {
		r.Slots[i].Player = nil
	}
}

// HasEmptySlot reports whether the roster has an open slot that a player
// eligible at pos could fill, expanding combo slots to their concrete
// members so a corner/middle-infield or outfield slot counts too.
func (r *Roster) HasEmptySlot(pos Position) bool {
	for i := range r.Slots {
		slot := &r.Slots[i]
		if !slot.Empty() {
			continue
		}
		for _, expanded := range slot.Position.Expand() {
			if expanded == pos {
				return true
			}
		}
	}
	return false
}

// EmptySlots returns the count of open slots, excluding the injured list.
func (r *Roster) EmptySlots() int {
	n := 0
	for i := range r.Slots {
		if r.Slots[i].Position == PositionInjuredList {
			continue
		}
		if r.Slots[i].Empty() {
			n++
		}
	}
	return n
}
