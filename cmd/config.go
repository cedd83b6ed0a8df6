package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"stormlightlabs.org/draftassistant/internal/config"
	"stormlightlabs.org/draftassistant/internal/echo"
)

// ConfigCmd creates the config command group.
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
		Long:  "Bootstrap and inspect league.toml, strategy.toml, and credentials.toml.",
	}
	cmd.PersistentFlags().StringP("config", "c", "config", "path to the config directory")
	cmd.PersistentFlags().String("defaults", "defaults", "path to the bundled defaults directory")
	cmd.AddCommand(ConfigInitCmd())
	return cmd
}

// ConfigInitCmd creates the "config init" command: copies every default
// file not already present in the config directory, per spec.md §6's
// first-run bootstrap.
func ConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Bootstrap the config directory from bundled defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir := findConfigPath(cmd)
			defaultsDir := findFlag(cmd, "defaults")

			if err := config.EnsureConfigDir(configDir, defaultsDir); err != nil {
				return fmt.Errorf("failed to bootstrap config dir: %w", err)
			}
			echo.Successf("✓ config directory ready at %s", configDir)
			return nil
		},
	}
}
