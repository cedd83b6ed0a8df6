package draft

import "stormlightlabs.org/draftassistant/internal/core"

// Snapshot is one extension-reported view of the draft: the full pick
// list and the (possibly nil) active nomination.
type Snapshot struct {
	Picks      []core.DraftPick
	Nomination *core.Nomination
}

// Diff is the result of comparing two snapshots, per spec.md §4.3.2.
type Diff struct {
	NewPicks []core.DraftPick

	NominationChanged bool
	NominationCleared bool
	BidUpdated        bool
	NewNomination     *core.Nomination
}

// Compute diffs a previous and current snapshot: new picks are those in
// current whose pick_number was not present in previous, and the
// nomination transition follows the tri-state table in spec.md §4.3.2.
func Compute(previous, current Snapshot) Diff {
	var d Diff

	seen := make(map[int]bool, len(previous.Picks))
	for _, p := range previous.Picks {
		seen[p.PickNumber] = true
	}
	for _, p := range current.Picks {
		if !seen[p.PickNumber] {
			d.NewPicks = append(d.NewPicks, p)
		}
	}

	prev, cur := previous.Nomination, current.Nomination
	switch {
	case prev == nil && cur == nil:
		// no change
	case prev == nil && cur != nil:
		d.NominationChanged = true
		d.NewNomination = cur
	case prev != nil && cur == nil:
		d.NominationCleared = true
	case !prev.SamePlayer(cur):
		d.NominationChanged = true
		d.NewNomination = cur
	case !prev.SameBid(cur):
		d.BidUpdated = true
		d.NewNomination = cur
	}

	return d
}
