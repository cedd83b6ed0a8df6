package cli

import (
	"github.com/spf13/cobra"

	"stormlightlabs.org/draftassistant/cmd"
	"stormlightlabs.org/draftassistant/internal/echo"
)

// RootCmd is the root command for the draft assistant CLI.
var RootCmd = &cobra.Command{
	Use:   "draftassistant",
	Short: "Live auction draft assistant",
	Long: echo.HeaderStyle().Render("Draft Assistant") + "\n\n" +
		"Tracks a live fantasy-baseball auction draft, values the remaining\n" +
		"player pool against your league's rules, and advises on nominations\n" +
		"as your browser extension reports them.",
}

func init() {
	RootCmd.AddCommand(cmd.RunCmd())
	RootCmd.AddCommand(cmd.SessionCmd())
	RootCmd.AddCommand(cmd.ConfigCmd())
}
