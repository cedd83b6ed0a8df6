package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFlag_ResolvesFromAncestorPersistentFlags(t *testing.T) {
	parent := &cobra.Command{Use: "parent"}
	parent.PersistentFlags().String("config", "fallback", "")
	child := &cobra.Command{Use: "child"}
	parent.AddCommand(child)

	require.NoError(t, parent.PersistentFlags().Set("config", "custom-dir"))
	assert.Equal(t, "custom-dir", findFlag(child, "config"))
	assert.Equal(t, "custom-dir", findConfigPath(child))
}

func TestFindFlag_ReturnsEmptyWhenFlagNowhereInTree(t *testing.T) {
	orphan := &cobra.Command{Use: "orphan"}
	assert.Empty(t, findFlag(orphan, "missing"))
}

func TestFindFlag_NilCommandReturnsEmpty(t *testing.T) {
	assert.Empty(t, findFlag(nil, "config"))
}

func writeLeagueAndStrategy(t *testing.T, dir string) {
	t.Helper()
	league := `num_teams = 2
salary_cap = 100.0
`
	strategy := `store_path = "` + filepath.Join(dir, "draft.db") + `"
socket_port = 9099
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "league.toml"), []byte(league), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "strategy.toml"), []byte(strategy), 0o644))
}

func buildSessionCmd(t *testing.T, configDir string) *cobra.Command {
	t.Helper()
	root := SessionCmd()
	require.NoError(t, root.PersistentFlags().Set("config", configDir))
	root.SetArgs(nil)
	return root
}

func TestSessionNewThenStatus_ReportsActiveSession(t *testing.T) {
	dir := t.TempDir()
	writeLeagueAndStrategy(t, dir)

	root := buildSessionCmd(t, dir)
	root.SetArgs([]string{"new"})
	var out bytes.Buffer
	root.SetOut(&out)
	require.NoError(t, root.Execute())

	root2 := buildSessionCmd(t, dir)
	root2.SetArgs([]string{"status"})
	require.NoError(t, root2.Execute())
}

func TestSessionClear_WithNoActiveSessionIsANoOp(t *testing.T) {
	dir := t.TempDir()
	writeLeagueAndStrategy(t, dir)

	root := buildSessionCmd(t, dir)
	root.SetArgs([]string{"clear"})
	require.NoError(t, root.Execute())
}

func TestConfigInit_PopulatesConfigDirFromDefaults(t *testing.T) {
	configDir := t.TempDir()
	defaultsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(defaultsDir, "league.toml"), []byte("num_teams = 2\nsalary_cap = 100.0\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(defaultsDir, "credentials.toml.example"), []byte("llm_api_key = \"\"\n"), 0o644))

	root := ConfigCmd()
	require.NoError(t, root.PersistentFlags().Set("config", configDir))
	require.NoError(t, root.PersistentFlags().Set("defaults", defaultsDir))
	root.SetArgs([]string{"init"})
	require.NoError(t, root.Execute())

	_, err := os.Stat(filepath.Join(configDir, "league.toml"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(configDir, "credentials.toml.example"))
	assert.True(t, os.IsNotExist(err), "credentials.toml.example should never be auto-copied")
}
