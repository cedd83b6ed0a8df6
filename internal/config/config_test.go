package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stormlightlabs.org/draftassistant/internal/core"
)

func TestLoadLeague_RosterSlotsSurviveTOMLIntDecoding(t *testing.T) {
	dir := t.TempDir()
	toml := "num_teams = 12\nsalary_cap = 260.0\n\n[roster_slots]\nC = 1\nOF = 3\nUTIL = 2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "league.toml"), []byte(toml), 0o644))

	cfg, err := loadLeague(dir)
	require.NoError(t, err)

	counts := make(map[core.Position]int)
	for _, s := range cfg.RosterSlots {
		counts[s.Position] = s.Count
	}
	assert.Equal(t, 1, counts[core.PositionCatcher])
	assert.Equal(t, 3, counts[core.PositionOutfield])
	assert.Equal(t, 2, counts[core.PositionUtility])
}

func TestLoad_MalformedCredentialsFileReturnsError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "league.toml"), []byte("num_teams = 10\nsalary_cap = 260\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "strategy.toml"), []byte("hitting_budget_fraction = 0.65\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials.toml"), []byte("not = [valid toml"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_MissingCredentialsFileIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "league.toml"), []byte("num_teams = 10\nsalary_cap = 260\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "strategy.toml"), []byte("hitting_budget_fraction = 0.65\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, cfg.Credentials.LLMAPIKey)
}

func TestLoadStrategy_CategoryWeightsSurviveBareTOMLInts(t *testing.T) {
	dir := t.TempDir()
	toml := "hitting_budget_fraction = 0.65\n\n[category_weights]\nHR = 2\nAVG = 1.5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "strategy.toml"), []byte(toml), 0o644))

	cfg, err := loadStrategy(dir)
	require.NoError(t, err)

	assert.Equal(t, 2.0, cfg.CategoryWeights["HR"])
	assert.Equal(t, 1.5, cfg.CategoryWeights["AVG"])
}

func TestToInt_HandlesViperTOMLDecodedTypes(t *testing.T) {
	assert.Equal(t, 3, toInt(int64(3)))
	assert.Equal(t, 3, toInt(3))
	assert.Equal(t, 3, toInt(float64(3)))
	assert.Equal(t, 0, toInt("not a number"))
}
