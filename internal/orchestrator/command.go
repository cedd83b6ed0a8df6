package orchestrator

// TabID identifies one of the TUI's selectable tabs.
type TabID int

const (
	TabAnalysis TabID = iota
	TabPlan
	TabRoster
	TabLog
)

// CommandKind discriminates the tagged user-command union, per spec.md
// §4.5's "user commands" source.
type CommandKind int

const (
	CommandSwitchTab CommandKind = iota
	CommandRefreshAnalysis
	CommandRefreshPlan
	CommandManualPick
	CommandScroll
	CommandQuit
)

// Command is one user-initiated action from the TUI. Fields are populated
// according to Kind; unused fields are zero.
type Command struct {
	Kind CommandKind

	Tab TabID // CommandSwitchTab

	PlayerName string  // CommandManualPick
	TeamIndex  int     // CommandManualPick
	Price      float64 // CommandManualPick

	ScrollDelta int // CommandScroll
}
