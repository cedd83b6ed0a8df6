package cmd

import "github.com/spf13/cobra"

// findFlag walks up the command tree looking up name in each command's
// own and persistent flags, since a persistent flag set on a parent is
// only merged into a child's Flags() once cobra parses the child's
// arguments.
func findFlag(cmd *cobra.Command, name string) string {
	if cmd == nil {
		return ""
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Value.String()
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Value.String()
	}
	return findFlag(cmd.Parent(), name)
}

// findConfigPath walks up the command tree looking for a "config" flag.
func findConfigPath(cmd *cobra.Command) string {
	return findFlag(cmd, "config")
}
