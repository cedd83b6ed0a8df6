// Package orchestrator implements the single-threaded cooperative event
// loop that owns all mutable application state: the extension socket
// feed, LM streaming events, and user commands, per spec.md §4.5 and §5.
package orchestrator

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"stormlightlabs.org/draftassistant/internal/config"
	"stormlightlabs.org/draftassistant/internal/core"
	"stormlightlabs.org/draftassistant/internal/draft"
	"stormlightlabs.org/draftassistant/internal/inflation"
	"stormlightlabs.org/draftassistant/internal/llm"
	"stormlightlabs.org/draftassistant/internal/socket"
	"stormlightlabs.org/draftassistant/internal/store"
	"stormlightlabs.org/draftassistant/internal/valuation"
)

// LLMModeKind discriminates the tagged LM-mode union.
type LLMModeKind int

const (
	LLMModeNone LLMModeKind = iota
	LLMModeNominationAnalysis
	LLMModeNominationPlanning
)

// LLMMode records what the LM is currently working on, tagged with the
// generation it was started at so stale events can be dropped.
type LLMMode struct {
	Kind       LLMModeKind
	Generation uint64

	PlayerName string
	PlayerID   string
	Nominator  string
	CurrentBid float64
}

// Orchestrator owns the complete mutable application state and drives the
// select loop described in spec.md §4.5. All state mutation happens on
// the goroutine running Run; the store is the only piece of state other
// tasks may touch directly. It holds no mutex of its own and relies on the
// *sql.DB it wraps, which is safe for concurrent use.
type Orchestrator struct {
	logger *log.Logger

	league   *config.LeagueConfig
	strategy *config.StrategyConfig

	store     *store.Store
	llmClient *llm.Client
	draftID   string

	draftState       *core.DraftState
	availablePlayers []*core.Valuation
	scarcity         map[core.Position]valuation.Scarcity
	inflationTracker *inflation.Tracker
	categoryNeeds    valuation.CategoryNeeds

	previousSnapshot draft.Snapshot

	generation uint64
	llmMode    LLMMode
	llmCancel  context.CancelFunc
	llmEvents  chan llm.Event

	analysisText   string
	analysisStatus LLMStatus
	planText       string
	planStatus     LLMStatus

	connectionStatus ConnectionStatus
	activeTab        TabID
}

// New builds an orchestrator over a freshly-loaded player pool. pool
// should contain every imported projection with no dollar values
// computed yet; New runs the valuation pipeline over it once, so dollar
// values and scarcity are set before Recover or the first processed pick.
func New(logger *log.Logger, league *config.LeagueConfig, strategy *config.StrategyConfig, st *store.Store, llmClient *llm.Client, draftID string, pool []*core.Valuation) *Orchestrator {
	draftState := core.NewDraftState(draftID, league.SalaryCap, league.RosterTemplate())

	result := valuation.Run(pool, pool, league, strategy)

	o := &Orchestrator{
		logger:           logger,
		league:           league,
		strategy:         strategy,
		store:            st,
		llmClient:        llmClient,
		draftID:          draftID,
		draftState:       draftState,
		availablePlayers: result.Players,
		scarcity:         result.Scarcity,
		inflationTracker: inflation.New(),
		categoryNeeds:    valuation.UniformNeeds(0.5),
		llmEvents:        make(chan llm.Event, 64),
		connectionStatus: Disconnected,
		activeTab:        TabAnalysis,
	}
	return o
}

// Recover runs crash recovery against the store's active draft_id, per
// spec.md §4.5's "Crash recovery runs once at startup" contract. It
// reports whether any picks were restored.
func (o *Orchestrator) Recover(ctx context.Context) (bool, error) {
	inProgress, err := o.store.HasInProgress(ctx, o.draftID)
	if err != nil {
		return false, fmt.Errorf("check in-progress draft: %w", err)
	}
	if !inProgress {
		o.logger.Info("no draft in progress, starting fresh")
		return false, nil
	}

	picks, err := o.store.LoadPicks(ctx, o.draftID)
	if err != nil {
		return false, fmt.Errorf("load picks for recovery: %w", err)
	}

	o.logger.With("picks", len(picks)).Info("crash recovery: restoring picks from store")
	draft.Restore(o.draftState, picks)

	o.availablePlayers = removeDraftedByName(o.availablePlayers, picks)
	o.recomputeValuation()

	o.previousSnapshot = draft.Snapshot{Picks: append([]core.DraftPick(nil), o.draftState.PickHistory...)}

	o.logger.With("picks_restored", len(picks), "players_remaining", len(o.availablePlayers)).
		Info("crash recovery complete")
	return true, nil
}

// Run drives the select loop described in spec.md §4.5 until ctx is
// cancelled, the quit command arrives, or the extension/command channels
// close. ext and cmds are the extension socket and user-command sources;
// uiOut is the best-effort UI output sink.
func (o *Orchestrator) Run(ctx context.Context, ext <-chan socket.Event, cmds <-chan Command, uiOut chan<- UIEvent) error {
	o.logger.Info("orchestrator event loop started")
	defer o.cancelLLMTask()

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("context cancelled, shutting down")
			return ctx.Err()

		case ev, ok := <-ext:
			if !ok {
				o.logger.Info("extension channel closed, shutting down")
				return nil
			}
			o.handleExtensionEvent(ctx, ev, uiOut)

		case ev, ok := <-o.llmEvents:
			if !ok {
				continue
			}
			o.handleLLMEvent(ev, uiOut)

		case cmd, ok := <-cmds:
			if !ok {
				o.logger.Info("command channel closed, shutting down")
				return nil
			}
			if cmd.Kind == CommandQuit {
				o.logger.Info("quit command received, shutting down")
				return nil
			}
			o.handleCommand(ctx, cmd, uiOut)
		}
	}
}

func (o *Orchestrator) handleExtensionEvent(ctx context.Context, ev socket.Event, uiOut chan<- UIEvent) {
	switch ev.Envelope.Type {
	case socket.TypeExtensionConnected:
		o.connectionStatus = Connected
		send(uiOut, UIEvent{Kind: UIConnectionStatus, ConnectionStatus: Connected})
	case socket.TypeExtensionHeartbeat:
		// no action needed
	case socket.TypeStateUpdate:
		o.handleStateUpdate(ctx, ev.Envelope.Payload, uiOut)
	}
}

// handleStateUpdate converts, diffs, and applies one extension snapshot,
// per spec.md §4.5's "Extension JSON" behavior.
func (o *Orchestrator) handleStateUpdate(ctx context.Context, payload socket.StateUpdate, uiOut chan<- UIEvent) {
	current := draft.Snapshot{
		Picks:      make([]core.DraftPick, 0, len(payload.Picks)),
		Nomination: payload.CurrentNomination.ToNomination(),
	}
	for _, p := range payload.Picks {
		current.Picks = append(current.Picks, p.ToDraftPick())
	}

	rows := make([]draft.TeamBudgetRow, 0, len(payload.Teams))
	for _, t := range payload.Teams {
		rows = append(rows, draft.TeamBudgetRow{ID: t.TeamID, Name: t.TeamName, Remaining: t.Budget})
	}
	draft.Reconcile(o.draftState, rows, o.league.NumTeams)
	if o.draftState.UserTeamIndex < 0 {
		myTeamID := payload.MyTeamID
		if myTeamID == "" {
			myTeamID = o.league.MyTeamID
		}
		if myTeamID != "" {
			for i, t := range o.draftState.Teams {
				if t.ID == myTeamID {
					o.draftState.UserTeamIndex = i
					break
				}
			}
		}
	}

	diff := draft.Compute(o.previousSnapshot, current)

	if len(diff.NewPicks) > 0 {
		o.processNewPicks(ctx, diff.NewPicks)
		send(uiOut, UIEvent{Kind: UIPicksUpdated, NewPicks: diff.NewPicks})
	}

	switch {
	case diff.NominationCleared:
		o.handleNominationCleared()
		send(uiOut, UIEvent{Kind: UINominationCleared})
	case diff.NominationChanged:
		o.handleNomination(ctx, diff.NewNomination)
		send(uiOut, UIEvent{Kind: UINominationUpdate, Nomination: diff.NewNomination})
	case diff.BidUpdated:
		o.draftState.ActiveNomination = diff.NewNomination
		send(uiOut, UIEvent{Kind: UINominationUpdate, Nomination: diff.NewNomination})
	}

	o.previousSnapshot = current
}

// processNewPicks applies and persists each new pick in ascending
// pick-number order, then revalues the remaining pool once for the whole
// batch, per spec.md §4.5 and §4.3.
func (o *Orchestrator) processNewPicks(ctx context.Context, picks []core.DraftPick) {
	sort.SliceStable(picks, func(i, j int) bool { return picks[i].PickNumber < picks[j].PickNumber })
	for _, pick := range picks {
		o.logger.With("pick", pick.PickNumber, "player", pick.PlayerName, "team", pick.TeamName, "price", pick.Price).
			Info("recording pick")

		draft.RecordPick(o.draftState, pick)

		if err := o.store.RecordPick(ctx, o.draftID, pick); err != nil {
			o.logger.With("err", err).Warn("failed to persist pick to store")
		}

		o.availablePlayers = removePlayerByName(o.availablePlayers, pick.PlayerName)
	}

	o.recomputeValuation()
}

func (o *Orchestrator) recomputeValuation() {
	result := valuation.Run(o.availablePlayers, o.availablePlayers, o.league, o.strategy)
	o.availablePlayers = result.Players
	o.scarcity = result.Scarcity
	o.inflationTracker.Update(o.availablePlayers, o.draftState.TotalSpent(), o.league)
}

// handleNomination cancels any in-flight LM task, resets the analysis
// buffer, and starts a new LM analysis request at the next generation,
// per spec.md §4.5. It builds only the LM prompt;
// valuation.ComputeInstantAnalysis is not called here.
func (o *Orchestrator) handleNomination(ctx context.Context, nomination *core.Nomination) {
	if nomination == nil {
		return
	}
	o.draftState.ActiveNomination = nomination

	o.cancelLLMTask()

	o.llmMode = LLMMode{
		Kind:       LLMModeNominationAnalysis,
		Generation: o.generation,
		PlayerName: nomination.PlayerName,
		PlayerID:   nomination.ExternalPlayerID,
		Nominator:  nomination.Nominator,
		CurrentBid: nomination.CurrentBid,
	}
	o.analysisText = ""
	o.analysisStatus = LLMIdle

	player := findPlayerByName(o.availablePlayers, nomination.PlayerName)
	if player == nil {
		o.logger.With("player", nomination.PlayerName).Warn("nominated player not found in available pool")
		return
	}

	myRoster := o.myRosterOrEmpty()
	prompt := llm.BuildNominationAnalysisPrompt(player, nomination, myRoster, o.categoryNeeds, o.scarcity, o.availablePlayers, o.draftState, o.inflationTracker)
	o.startLLMTask(ctx, prompt)
}

func (o *Orchestrator) handleNominationCleared() {
	o.draftState.ActiveNomination = nil
	o.cancelLLMTask()
	o.llmMode = LLMMode{Kind: LLMModeNone}
	o.analysisText = ""
	o.analysisStatus = LLMIdle
}

// cancelLLMTask aborts any running LM task via context cancellation and
// bumps the generation counter so late events are dropped, per spec.md
// §5's cooperative-cancellation model.
func (o *Orchestrator) cancelLLMTask() {
	if o.llmCancel != nil {
		o.llmCancel()
		o.llmCancel = nil
		o.logger.Debug("cancelled previous LM task")
	}
	o.generation++
}

// startLLMTask spawns the LM stream at the current generation and forwards
// its events into the orchestrator's fan-in channel until the stream ends
// or is cancelled.
func (o *Orchestrator) startLLMTask(ctx context.Context, userContent string) {
	if o.llmClient == nil {
		return
	}
	taskCtx, cancel := context.WithCancel(ctx)
	o.llmCancel = cancel
	o.llmMode.Generation = o.generation

	events := o.llmClient.Stream(taskCtx, llm.SystemPrompt(), userContent, o.generation)
	go func() {
		for ev := range events {
			select {
			case o.llmEvents <- ev:
			case <-taskCtx.Done():
				return
			}
		}
	}()
}

// handleLLMEvent routes a streaming LM event to the active text buffer,
// dropping events from a cancelled generation, per spec.md §4.5.
func (o *Orchestrator) handleLLMEvent(ev llm.Event, uiOut chan<- UIEvent) {
	if ev.Generation != o.llmMode.Generation {
		return
	}

	switch o.llmMode.Kind {
	case LLMModeNominationAnalysis:
		switch ev.Kind {
		case llm.EventToken:
			o.analysisText += ev.Text
			o.analysisStatus = LLMStreaming
			send(uiOut, UIEvent{Kind: UIAnalysisToken, Token: ev.Text})
		case llm.EventComplete:
			o.analysisText = ev.FullText
			o.analysisStatus = LLMComplete
			send(uiOut, UIEvent{Kind: UIAnalysisComplete})
		case llm.EventError:
			o.logger.With("err", ev.Message).Warn("LM analysis error")
			o.analysisStatus = LLMError
		}
	case LLMModeNominationPlanning:
		switch ev.Kind {
		case llm.EventToken:
			o.planText += ev.Text
			o.planStatus = LLMStreaming
			send(uiOut, UIEvent{Kind: UIPlanToken, Token: ev.Text})
		case llm.EventComplete:
			o.planText = ev.FullText
			o.planStatus = LLMComplete
			send(uiOut, UIEvent{Kind: UIPlanComplete})
		case llm.EventError:
			o.logger.With("err", ev.Message).Warn("LM planning error")
			o.planStatus = LLMError
		}
	default:
		o.logger.Warn("received LM event with no active mode, discarding")
	}
}

// handleCommand applies one user command, per spec.md §4.5's "User
// commands" behavior.
func (o *Orchestrator) handleCommand(ctx context.Context, cmd Command, uiOut chan<- UIEvent) {
	switch cmd.Kind {
	case CommandSwitchTab:
		o.activeTab = cmd.Tab

	case CommandRefreshAnalysis:
		if nom := o.draftState.ActiveNomination; nom != nil {
			o.analysisText = ""
			o.analysisStatus = LLMIdle
			o.cancelLLMTask()
			o.llmMode = LLMMode{Kind: LLMModeNominationAnalysis, Generation: o.generation, PlayerName: nom.PlayerName}
			if player := findPlayerByName(o.availablePlayers, nom.PlayerName); player != nil {
				prompt := llm.BuildNominationAnalysisPrompt(player, nom, o.myRosterOrEmpty(), o.categoryNeeds, o.scarcity, o.availablePlayers, o.draftState, o.inflationTracker)
				o.startLLMTask(ctx, prompt)
			}
		}

	case CommandRefreshPlan:
		o.planText = ""
		o.planStatus = LLMIdle
		o.cancelLLMTask()
		o.llmMode = LLMMode{Kind: LLMModeNominationPlanning, Generation: o.generation}
		prompt := llm.BuildNominationPlanningPrompt(o.myRosterOrEmpty(), o.categoryNeeds, o.scarcity, o.availablePlayers, o.draftState, o.inflationTracker)
		o.startLLMTask(ctx, prompt)

	case CommandManualPick:
		if cmd.TeamIndex < 0 || cmd.TeamIndex >= len(o.draftState.Teams) {
			err := core.NewNotFoundError("team", fmt.Sprintf("index %d", cmd.TeamIndex))
			o.logger.With("err", err).Warn("manual pick: team not found")
			return
		}
		team := o.draftState.Teams[cmd.TeamIndex]
		pick := core.DraftPick{
			PickNumber: o.draftState.PickCount + 1,
			TeamID:     team.ID,
			TeamName:   team.Name,
			PlayerName: cmd.PlayerName,
			Price:      cmd.Price,
		}
		if player := findPlayerByName(o.availablePlayers, cmd.PlayerName); player != nil {
			pick.Position = player.BestPosition.String()
			pick.EligibleSlots = player.Positions
		}
		o.logger.With("player", cmd.PlayerName, "team", team.Name, "price", cmd.Price).Info("manual pick")
		o.processNewPicks(ctx, []core.DraftPick{pick})
		send(uiOut, UIEvent{Kind: UIPicksUpdated, NewPicks: []core.DraftPick{pick}})

	case CommandScroll:
		// handled by the TUI directly; no orchestrator-level state to mutate
	}

	send(uiOut, UIEvent{Kind: UIConnectionStatus, ConnectionStatus: o.connectionStatus})
}

func (o *Orchestrator) myRosterOrEmpty() *core.Roster {
	if team := o.draftState.MyTeam(); team != nil {
		return &team.Roster
	}
	empty := core.NewRoster(o.league.RosterTemplate())
	return &empty
}

func findPlayerByName(pool []*core.Valuation, name string) *core.Valuation {
	for _, p := range pool {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func removePlayerByName(pool []*core.Valuation, name string) []*core.Valuation {
	out := pool[:0]
	for _, p := range pool {
		if p.Name != name {
			out = append(out, p)
		}
	}
	return out
}

func removeDraftedByName(pool []*core.Valuation, picks []core.DraftPick) []*core.Valuation {
	drafted := make(map[string]bool, len(picks))
	for _, p := range picks {
		drafted[p.PlayerName] = true
	}
	out := make([]*core.Valuation, 0, len(pool))
	for _, p := range pool {
		if !drafted[p.Name] {
			out = append(out, p)
		}
	}
	return out
}
