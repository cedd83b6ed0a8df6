package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"stormlightlabs.org/draftassistant/internal/config"
	"stormlightlabs.org/draftassistant/internal/echo"
	"stormlightlabs.org/draftassistant/internal/store"
)

// SessionCmd creates the session command group: new, clear, status,
// operating on the per-draft isolation spec.md §4.4 describes.
func SessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage draft sessions",
		Long:  "Create, clear, and inspect persisted draft sessions.",
	}
	cmd.PersistentFlags().StringP("config", "c", "", "path to the config directory (default \"config\")")
	cmd.AddCommand(SessionNewCmd())
	cmd.AddCommand(SessionClearCmd())
	cmd.AddCommand(SessionStatusCmd())
	return cmd
}

// SessionNewCmd creates the "session new" command: generates a fresh
// draft id and makes it the store's active session.
func SessionNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new draft session",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cleanup, err := openSessionStore(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			draftID := store.GenerateDraftID()
			if err := st.SetCurrentDraftID(cmd.Context(), draftID); err != nil {
				return fmt.Errorf("failed to set current draft id: %w", err)
			}
			echo.Successf("✓ started new draft session: %s", draftID)
			return nil
		},
	}
}

// SessionClearCmd creates the "session clear" command: wipes the active
// session's picks and marks it no longer current.
func SessionClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the active draft session's picks",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cleanup, err := openSessionStore(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			draftID, err := st.CurrentDraftID(ctx)
			if err != nil {
				return fmt.Errorf("failed to read current draft id: %w", err)
			}
			if draftID == "" {
				echo.Info("no active draft session to clear")
				return nil
			}
			if err := st.ClearDraft(ctx, draftID); err != nil {
				return fmt.Errorf("failed to clear draft: %w", err)
			}
			echo.Successf("✓ cleared draft session: %s", draftID)
			return nil
		},
	}
}

// SessionStatusCmd creates the "session status" command: reports the
// active draft id and pick count.
func SessionStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active draft session's status",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cleanup, err := openSessionStore(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			draftID, err := st.CurrentDraftID(ctx)
			if err != nil {
				return fmt.Errorf("failed to read current draft id: %w", err)
			}
			if draftID == "" {
				echo.Info("no active draft session")
				return nil
			}

			picks, err := st.LoadPicks(ctx, draftID)
			if err != nil {
				return fmt.Errorf("failed to load picks: %w", err)
			}
			echo.Infof("draft session: %s", draftID)
			echo.Infof("picks recorded: %d", len(picks))
			return nil
		},
	}
}

func openSessionStore(cmd *cobra.Command) (*store.Store, func(), error) {
	cfg, err := config.Load(findConfigPath(cmd))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	st, err := store.Open(cmd.Context(), cfg.Strategy.StorePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	return st, func() { st.Close() }, nil
}
