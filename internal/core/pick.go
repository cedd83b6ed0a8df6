package core

// DraftPick is an immutable record of a completed auction pick.
type DraftPick struct {
	PickNumber        int
	TeamID            string
	TeamName          string
	PlayerName        string
	ExternalPlayerID  string
	Position          string
	Price             float64
	EligibleSlots     EligibleSlots
}

// Nomination is the player currently on the auction block.
type Nomination struct {
	PlayerName       string
	ExternalPlayerID string
	Nominator        string
	CurrentBid       float64
	CurrentBidder    *string
	TimeRemaining    *int
	EligibleSlots    EligibleSlots
}

// SamePlayer reports whether two nominations refer to the same player,
// comparing external ids when both sides have them and falling back to
// (name, position-derived eligibility) otherwise, per spec.md §4.3.2.
func (n *Nomination) SamePlayer(other *Nomination) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.ExternalPlayerID != "" && other.ExternalPlayerID != "" {
		return n.ExternalPlayerID == other.ExternalPlayerID
	}
	return n.PlayerName == other.PlayerName && n.EligibleSlots == other.EligibleSlots
}

// SameBid reports whether two nominations of the same player have an
// identical bid and bidder.
func (n *Nomination) SameBid(other *Nomination) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.CurrentBid != other.CurrentBid {
		return false
	}
	switch {
	case n.CurrentBidder == nil && other.CurrentBidder == nil:
		return true
	case n.CurrentBidder == nil || other.CurrentBidder == nil:
		return false
	default:
		return *n.CurrentBidder == *other.CurrentBidder
	}
}
