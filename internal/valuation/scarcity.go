package valuation

import (
	"sort"

	"stormlightlabs.org/draftassistant/internal/core"
)

// Urgency classifies how thin the remaining positive-VOR pool is at a
// dedicated position, per spec.md §4.1.4.
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyMedium
	UrgencyHigh
	UrgencyCritical
)

func (u Urgency) String() string {
	switch u {
	case UrgencyCritical:
		return "Critical"
	case UrgencyHigh:
		return "High"
	case UrgencyMedium:
		return "Medium"
	default:
		return "Low"
	}
}

// Premium multipliers applied to a player's bid ceiling by urgency tier.
const (
	PremiumCritical = 0.30
	PremiumHigh     = 0.15
	PremiumMedium   = 0.0
	PremiumLow      = -0.10
)

// Premium returns the bid-ceiling premium multiplier for this urgency.
func (u Urgency) Premium() float64 {
	switch u {
	case UrgencyCritical:
		return PremiumCritical
	case UrgencyHigh:
		return PremiumHigh
	case UrgencyMedium:
		return PremiumMedium
	default:
		return PremiumLow
	}
}

// Scarcity is the derived scarcity snapshot for one dedicated position.
type Scarcity struct {
	Position               core.Position
	PlayersAboveReplacement int
	TopAvailableVOR        float64
	ReplacementVOR         float64
	Dropoff                float64
	Urgency                Urgency
}

// urgencyForCount maps a positive-VOR undrafted count to an urgency tier,
// per spec.md §4.1.4.
func urgencyForCount(count int) Urgency {
	switch {
	case count <= 2:
		return UrgencyCritical
	case count <= 4:
		return UrgencyHigh
	case count <= 7:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// ComputeScarcity computes the scarcity snapshot for every dedicated
// hitter position, considering only undrafted players. undrafted must
// already carry VOR (i.e. ComputeVOR has run).
func ComputeScarcity(undrafted []*core.Valuation) map[core.Position]Scarcity {
	out := make(map[core.Position]Scarcity, len(core.HitterPositions))

	for _, pos := range core.HitterPositions {
		var eligible []*core.Valuation
		for _, v := range undrafted {
			if v.VOR > 0 && eligibleAt(v, pos) {
				eligible = append(eligible, v)
			}
		}
		sort.Slice(eligible, func(i, j int) bool { return eligible[i].VOR > eligible[j].VOR })

		s := Scarcity{Position: pos, PlayersAboveReplacement: len(eligible)}
		if len(eligible) > 0 {
			s.TopAvailableVOR = eligible[0].VOR
		}
		switch {
		case len(eligible) == 0:
			s.ReplacementVOR = 0
		case len(eligible) >= 3:
			s.ReplacementVOR = eligible[2].VOR
		default:
			s.ReplacementVOR = eligible[len(eligible)-1].VOR
		}
		s.Dropoff = s.TopAvailableVOR - s.ReplacementVOR
		s.Urgency = urgencyForCount(s.PlayersAboveReplacement)

		out[pos] = s
	}

	return out
}
