package core

// Position is a closed enumeration of the league's roster slot types.
type Position int

const (
	PositionUnknown Position = iota
	PositionCatcher
	PositionFirstBase
	PositionSecondBase
	PositionThirdBase
	PositionShortstop
	PositionLeftField
	PositionCenterField
	PositionRightField
	PositionOutfield // generic combo slot, expands to LF/CF/RF
	PositionCornerInfield
	PositionMiddleInfield
	PositionUtility
	PositionStartingPitcher
	PositionReliefPitcher
	PositionDesignatedHitter
	PositionBench
	PositionInjuredList
)

var positionNames = map[Position]string{
	PositionUnknown:          "",
	PositionCatcher:          "C",
	PositionFirstBase:        "1B",
	PositionSecondBase:       "2B",
	PositionThirdBase:        "3B",
	PositionShortstop:        "SS",
	PositionLeftField:        "LF",
	PositionCenterField:      "CF",
	PositionRightField:       "RF",
	PositionOutfield:         "OF",
	PositionCornerInfield:    "CI",
	PositionMiddleInfield:    "MI",
	PositionUtility:          "UTIL",
	PositionStartingPitcher:  "SP",
	PositionReliefPitcher:    "RP",
	PositionDesignatedHitter: "DH",
	PositionBench:            "BN",
	PositionInjuredList:      "IL",
}

func (p Position) String() string {
	if name, ok := positionNames[p]; ok {
		return name
	}
	return "?"
}

var positionNameToEnum = map[string]Position{
	"C": PositionCatcher, "1B": PositionFirstBase, "2B": PositionSecondBase,
	"3B": PositionThirdBase, "SS": PositionShortstop, "LF": PositionLeftField,
	"CF": PositionCenterField, "RF": PositionRightField, "OF": PositionOutfield,
	"CI": PositionCornerInfield, "MI": PositionMiddleInfield, "UTIL": PositionUtility,
	"SP": PositionStartingPitcher, "RP": PositionReliefPitcher,
	"DH": PositionDesignatedHitter, "BN": PositionBench, "IL": PositionInjuredList,
}

// ParsePosition maps a display position string (e.g. from league.toml's
// roster_slots or a wire pick's position field) to its Position enum
// value, or PositionUnknown if unrecognized.
func ParsePosition(name string) Position {
	if p, ok := positionNameToEnum[name]; ok {
		return p
	}
	return PositionUnknown
}

// IsHitterPosition reports whether pos is a dedicated hitter slot or a
// combo slot that expands to one, per spec.md §4.3.1's is-hitter rule.
func IsHitterPosition(pos Position) bool {
	for _, hp := range HitterPositions {
		if pos == hp {
			return true
		}
	}
	return pos.IsCombo()
}

// IsMetaSlot reports whether the position is a meta-slot: one that does
// not correspond to a single fielding position and therefore does not
// contribute to replacement-level computation.
func (p Position) IsMetaSlot() bool {
	switch p {
	case PositionUtility, PositionBench, PositionInjuredList:
		return true
	default:
		return false
	}
}

// IsCombo reports whether the position is a generic combo slot that
// expands into a set of concrete positions during roster placement.
func (p Position) IsCombo() bool {
	switch p {
	case PositionOutfield, PositionCornerInfield, PositionMiddleInfield:
		return true
	default:
		return false
	}
}

// Expand returns the concrete dedicated positions a combo slot covers.
// Non-combo positions expand to themselves.
func (p Position) Expand() []Position {
	switch p {
	case PositionOutfield:
		return []Position{PositionLeftField, PositionCenterField, PositionRightField}
	case PositionCornerInfield:
		return []Position{PositionFirstBase, PositionThirdBase}
	case PositionMiddleInfield:
		return []Position{PositionSecondBase, PositionShortstop}
	default:
		return []Position{p}
	}
}

// HitterPositions lists the dedicated (non-meta, non-pitcher) hitter
// positions used as VOR replacement buckets.
var HitterPositions = []Position{
	PositionCatcher, PositionFirstBase, PositionSecondBase, PositionThirdBase,
	PositionShortstop, PositionLeftField, PositionCenterField, PositionRightField,
}

// EligibleSlots is a bitmap of eligible positions, one bit per Position
// value. The league site's integer codes are translated to Position
// values by socket.DecodeSiteSlot before they are set here. Must be wide
// enough to hold a bit for PositionInjuredList (17), the highest Position
// value.
type EligibleSlots uint32

// NewEligibleSlots builds a bitmap from a list of positions.
func NewEligibleSlots(positions ...Position) EligibleSlots {
	var mask EligibleSlots
	for _, p := range positions {
		mask |= 1 << uint(p)
	}
	return mask
}

// Has reports whether the bitmap includes the given position.
func (e EligibleSlots) Has(p Position) bool {
	return e&(1<<uint(p)) != 0
}

// Decode returns the set of positions encoded in the bitmap, in Position
// enum order.
func (e EligibleSlots) Decode() []Position {
	var out []Position
	for p := PositionCatcher; p <= PositionInjuredList; p++ {
		if e.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// IsEmpty reports whether the bitmap has no bits set.
func (e EligibleSlots) IsEmpty() bool {
	return e == 0
}
