// Package socket implements the local extension transport: a single
// expected browser-extension WebSocket connection delivering JSON
// envelopes, per spec.md §6.
package socket

import "stormlightlabs.org/draftassistant/internal/core"

// EnvelopeType discriminates the three extension message kinds.
type EnvelopeType string

const (
	TypeExtensionConnected  EnvelopeType = "EXTENSION_CONNECTED"
	TypeStateUpdate         EnvelopeType = "STATE_UPDATE"
	TypeExtensionHeartbeat  EnvelopeType = "EXTENSION_HEARTBEAT"
)

// Envelope is the wire-level message shape, one JSON object per text
// message, per spec.md §6.
type Envelope struct {
	Type      EnvelopeType `json:"type"`
	Timestamp int64        `json:"timestamp"`
	Payload   StateUpdate  `json:"payload"`
}

// WirePick mirrors the extension's pick shape before slot-code decoding.
type WirePick struct {
	PickNumber    int     `json:"pickNumber"`
	TeamID        string  `json:"teamId"`
	TeamName      string  `json:"teamName"`
	PlayerID      string  `json:"playerId"`
	PlayerName    string  `json:"playerName"`
	Position      string  `json:"position"`
	Price         float64 `json:"price"`
	EligibleSlots []int   `json:"eligible_slots,omitempty"`
}

// WireNomination mirrors the extension's active-nomination shape.
type WireNomination struct {
	PlayerID      string  `json:"playerId"`
	PlayerName    string  `json:"playerName"`
	Nominator     string  `json:"nominator"`
	CurrentBid    float64 `json:"currentBid"`
	CurrentBidder *string `json:"currentBidder"`
	TimeRemaining *int    `json:"timeRemaining"`
	EligibleSlots []int   `json:"eligible_slots,omitempty"`
}

// WireTeam mirrors the extension's per-team budget row.
type WireTeam struct {
	TeamID   string  `json:"teamId"`
	TeamName string  `json:"teamName"`
	Budget   float64 `json:"budget"`
}

// StateUpdate is the STATE_UPDATE envelope's payload.
type StateUpdate struct {
	Picks             []WirePick      `json:"picks"`
	CurrentNomination *WireNomination `json:"currentNomination"`
	Teams             []WireTeam      `json:"teams"`
	PickCount         *int            `json:"pickCount,omitempty"`
	TotalPicks        *int            `json:"totalPicks,omitempty"`
	MyTeamID          string          `json:"myTeamId,omitempty"`
}

// DecodeSiteSlot maps one of the league site's integer eligibility codes
// to a core.Position, per the domain glossary.
func DecodeSiteSlot(code int) core.Position {
	switch code {
	case 0:
		return core.PositionCatcher
	case 1:
		return core.PositionFirstBase
	case 2:
		return core.PositionSecondBase
	case 3:
		return core.PositionThirdBase
	case 4:
		return core.PositionShortstop
	case 5:
		return core.PositionLeftField
	case 6:
		return core.PositionCenterField
	case 7:
		return core.PositionRightField
	case 8:
		return core.PositionOutfield
	case 9:
		return core.PositionCornerInfield
	case 10:
		return core.PositionMiddleInfield
	case 11:
		return core.PositionUtility
	case 12:
		return core.PositionStartingPitcher
	case 13:
		return core.PositionReliefPitcher
	case 14:
		return core.PositionDesignatedHitter
	case 15:
		return core.PositionBench
	default:
		return core.PositionUnknown
	}
}

// decodeEligibleSlots turns the wire's site-code list into a bitmap.
func decodeEligibleSlots(codes []int) core.EligibleSlots {
	positions := make([]core.Position, 0, len(codes))
	for _, c := range codes {
		positions = append(positions, DecodeSiteSlot(c))
	}
	return core.NewEligibleSlots(positions...)
}

// ToDraftPick converts a wire pick into the internal pick shape.
func (p WirePick) ToDraftPick() core.DraftPick {
	return core.DraftPick{
		PickNumber:       p.PickNumber,
		TeamID:           p.TeamID,
		TeamName:         p.TeamName,
		PlayerName:       p.PlayerName,
		ExternalPlayerID: p.PlayerID,
		Position:         p.Position,
		Price:            p.Price,
		EligibleSlots:    decodeEligibleSlots(p.EligibleSlots),
	}
}

// ToNomination converts a wire nomination into the internal nomination
// shape. Returns nil for a nil receiver (no active nomination).
func (n *WireNomination) ToNomination() *core.Nomination {
	if n == nil {
		return nil
	}
	return &core.Nomination{
		PlayerName:       n.PlayerName,
		ExternalPlayerID: n.PlayerID,
		Nominator:        n.Nominator,
		CurrentBid:       n.CurrentBid,
		CurrentBidder:    n.CurrentBidder,
		TimeRemaining:    n.TimeRemaining,
		EligibleSlots:    decodeEligibleSlots(n.EligibleSlots),
	}
}
