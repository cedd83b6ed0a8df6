package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"stormlightlabs.org/draftassistant/internal/config"
	"stormlightlabs.org/draftassistant/internal/core"
	"stormlightlabs.org/draftassistant/internal/echo"
	"stormlightlabs.org/draftassistant/internal/llm"
	"stormlightlabs.org/draftassistant/internal/orchestrator"
	"stormlightlabs.org/draftassistant/internal/socket"
	"stormlightlabs.org/draftassistant/internal/store"
)

// RunCmd builds the "run" command, the default "run the loop" invocation
// from spec.md §6's CLI surface: it loads configuration, opens the store,
// starts the extension socket listener, and drives the orchestrator event
// loop until interrupted.
func RunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the live draft assistant",
		Long:  "Starts the extension socket listener and the orchestrator event loop for a live auction draft.",
		RunE:  runDraft,
	}
	cmd.Flags().StringP("config", "c", "", "path to the config directory (default \"config\")")
	cmd.Flags().String("draft-id", "", "draft session id to resume (default: the store's current draft, or a new one)")
	return cmd
}

func runDraft(cmd *cobra.Command, args []string) error {
	echo.Header("Draft Assistant")

	configDir := findConfigPath(cmd)
	if configDir == "" {
		configDir = "config"
	}
	if err := config.EnsureConfigDir(configDir, "defaults"); err != nil {
		return fmt.Errorf("failed to bootstrap config dir: %w", err)
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	echo.Success("✓ configuration loaded")

	logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{
		ReportTimestamp: true,
		Prefix:          "⚾ draft",
	})

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := store.Open(ctx, cfg.Strategy.StorePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()
	echo.Successf("✓ store opened at %s", cfg.Strategy.StorePath)

	draftID, err := resolveDraftID(cmd, ctx, st)
	if err != nil {
		return err
	}
	echo.Infof("draft session: %s", draftID)

	pool, err := loadPool(ctx, st)
	if err != nil {
		return err
	}
	echo.Infof("loaded %d player projections", len(pool))

	llmClient := llm.New(cfg.Credentials.LLMAPIKey, cfg.Strategy.LM)
	if cfg.Credentials.LLMAPIKey == "" {
		echo.Warn("no LM API key configured - analysis and planning will report errors")
	}

	orch := orchestrator.New(logger, &cfg.League, &cfg.Strategy, st, llmClient, draftID, pool)

	if recovered, err := orch.Recover(ctx); err != nil {
		return fmt.Errorf("crash recovery failed: %w", err)
	} else if recovered {
		echo.Success("✓ recovered in-progress draft from store")
	}

	listener := socket.New(cfg.Strategy.SocketPort, 64, logger)
	cmds := make(chan orchestrator.Command)
	uiOut := make(chan orchestrator.UIEvent, 64)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return listener.Run(gctx) })
	g.Go(func() error { return orch.Run(gctx, listener.Events(), cmds, uiOut) })
	g.Go(func() error { renderUIEvents(gctx, uiOut); return nil })
	g.Go(func() error { readStdinCommands(gctx, cmd.InOrStdin(), cmds); return nil })

	echo.Successf("✓ listening for the extension on port %d", cfg.Strategy.SocketPort)
	echo.Info("type 'a' to refresh analysis, 'p' to refresh a nomination plan, 'q' to quit")

	if err := g.Wait(); err != nil && gctx.Err() == nil {
		return err
	}
	echo.Info("shutting down")
	return nil
}

func resolveDraftID(cmd *cobra.Command, ctx context.Context, st *store.Store) (string, error) {
	draftID, _ := cmd.Flags().GetString("draft-id")
	if draftID == "" {
		current, err := st.CurrentDraftID(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to read current draft id: %w", err)
		}
		draftID = current
	}
	if draftID == "" {
		draftID = store.GenerateDraftID()
	}
	if err := st.SetCurrentDraftID(ctx, draftID); err != nil {
		return "", fmt.Errorf("failed to persist current draft id: %w", err)
	}
	return draftID, nil
}

func loadPool(ctx context.Context, st *store.Store) ([]*core.Valuation, error) {
	projections, err := st.LoadProjections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projections: %w", err)
	}
	pool := make([]*core.Valuation, 0, len(projections))
	for _, p := range projections {
		pool = append(pool, &core.Valuation{Projection: p})
	}
	return pool, nil
}

// readStdinCommands is the CLI stand-in for the TUI's key-binding input,
// whose implementation is explicitly out of scope per spec.md §1 (only
// its orchestrator contract is specified). It maps a handful of letters
// to orchestrator.Command values until ctx is cancelled or stdin closes.
func readStdinCommands(ctx context.Context, in io.Reader, cmds chan<- orchestrator.Command) {
	scanner := bufio.NewScanner(in)
	lines := make(chan string)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			cmd, ok := parseStdinCommand(line)
			if !ok {
				continue
			}
			select {
			case cmds <- cmd:
			case <-ctx.Done():
				return
			}
		}
	}
}

func parseStdinCommand(line string) (orchestrator.Command, bool) {
	switch line {
	case "a":
		return orchestrator.Command{Kind: orchestrator.CommandRefreshAnalysis}, true
	case "p":
		return orchestrator.Command{Kind: orchestrator.CommandRefreshPlan}, true
	case "q":
		return orchestrator.Command{Kind: orchestrator.CommandQuit}, true
	default:
		return orchestrator.Command{}, false
	}
}

func renderUIEvents(ctx context.Context, uiOut <-chan orchestrator.UIEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-uiOut:
			if !ok {
				return
			}
			printUIEvent(ev)
		}
	}
}

func printUIEvent(ev orchestrator.UIEvent) {
	switch ev.Kind {
	case orchestrator.UIConnectionStatus:
		if ev.ConnectionStatus == orchestrator.Connected {
			echo.Success("✓ extension connected")
		} else {
			echo.Info("extension disconnected")
		}
	case orchestrator.UINominationUpdate:
		if ev.Nomination != nil {
			echo.Infof("nomination: %s (%s)", ev.Nomination.PlayerName, echo.Money(ev.Nomination.CurrentBid))
		}
	case orchestrator.UINominationCleared:
		echo.Info("nomination cleared")
	case orchestrator.UIAnalysisToken:
		fmt.Print(ev.Token)
	case orchestrator.UIAnalysisComplete:
		echo.Success("\n✓ analysis complete")
	case orchestrator.UIPlanToken:
		fmt.Print(ev.Token)
	case orchestrator.UIPlanComplete:
		echo.Success("\n✓ plan complete")
	case orchestrator.UIPicksUpdated:
		for _, p := range ev.NewPicks {
			echo.Infof("pick #%d: %s -> %s (%s)", p.PickNumber, p.PlayerName, p.TeamName, echo.Money(p.Price))
		}
	}
}
