package orchestrator

import (
	"stormlightlabs.org/draftassistant/internal/core"
	"stormlightlabs.org/draftassistant/internal/valuation"
)

// ConnectionStatus reports whether the extension socket currently has a
// connected client.
type ConnectionStatus int

const (
	Disconnected ConnectionStatus = iota
	Connected
)

// LLMStatus tracks one streaming text buffer's lifecycle.
type LLMStatus int

const (
	LLMIdle LLMStatus = iota
	LLMStreaming
	LLMComplete
	LLMError
)

// UIEventKind discriminates the tagged UI-output union, one variant per
// kind of update sent to the TUI, per spec.md §4.5's "UI events reflect
// post-mutation state" guarantee.
type UIEventKind int

const (
	UIConnectionStatus UIEventKind = iota
	UINominationUpdate
	UINominationCleared
	UIAnalysisToken
	UIAnalysisComplete
	UIPlanToken
	UIPlanComplete
	UIPicksUpdated
	UIScarcityUpdated
)

// UIEvent is one post-mutation notification sent to the TUI render loop.
// Best-effort delivery: a full channel drops the event rather than
// blocking the orchestrator, per spec.md §5's back-pressure rules.
type UIEvent struct {
	Kind UIEventKind

	ConnectionStatus ConnectionStatus // UIConnectionStatus

	Nomination *core.Nomination // UINominationUpdate

	Token string // UIAnalysisToken / UIPlanToken

	NewPicks []core.DraftPick // UIPicksUpdated

	Scarcity map[core.Position]valuation.Urgency // UIScarcityUpdated: urgency tier by position
}

// send delivers an event on out without blocking; a full channel drops it.
func send(out chan<- UIEvent, ev UIEvent) {
	select {
	case out <- ev:
	default:
	}
}
