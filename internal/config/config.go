package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"stormlightlabs.org/draftassistant/internal/core"
)

// LeagueConfig describes the league's rules: teams, salary cap, scoring
// categories, and roster template.
type LeagueConfig struct {
	Name        string
	Platform    string
	NumTeams    int
	ScoringType string
	SalaryCap   float64

	BattingCategories  []string
	PitchingCategories []string

	RosterSlots []RosterSlotCount
	TeamMap     map[string]string
	MyTeamID    string
}

// RosterSlotCount is one entry of the roster slot map: a position and how
// many slots of it exist on a roster.
type RosterSlotCount struct {
	Position core.Position
	Count    int
}

// ActiveRosterSize returns the total number of non-injured-list roster
// slots, used by the auction stage's min_bids computation.
func (c *LeagueConfig) ActiveRosterSize() int {
	n := 0
	for _, s := range c.RosterSlots {
		if s.Position != core.PositionInjuredList {
			n += s.Count
		}
	}
	return n
}

// RosterTemplate expands the slot counts into an ordered list of
// positions, one entry per slot, for core.NewRoster.
func (c *LeagueConfig) RosterTemplate() []core.Position {
	var template []core.Position
	for _, s := range c.RosterSlots {
		for i := 0; i < s.Count; i++ {
			template = append(template, s.Position)
		}
	}
	return template
}

// SlotCount returns the configured slot count for a dedicated position, or
// 0 if the league has no slots for it.
func (c *LeagueConfig) SlotCount(p core.Position) int {
	for _, s := range c.RosterSlots {
		if s.Position == p {
			return s.Count
		}
	}
	return 0
}

// UtilSlots returns the number of configured utility slots.
func (c *LeagueConfig) UtilSlots() int {
	return c.SlotCount(core.PositionUtility)
}

// LMConfig configures the language-model provider.
type LMConfig struct {
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64
}

// StrategyConfig holds valuation-pipeline tuning knobs and runtime wiring.
type StrategyConfig struct {
	HittingBudgetFraction float64

	CategoryWeights map[string]float64

	HitterPoolSize int
	SPPoolSize     int
	RPPoolSize     int
	MinPA          int
	MinIPSP        float64
	MinGRP         int

	LM LMConfig

	SocketPort      int
	StorePath       string
	ProjectionFiles []string
}

// CredentialsConfig holds the optional LM provider API key.
type CredentialsConfig struct {
	LLMAPIKey string
}

// Config bundles all three configuration files.
type Config struct {
	League      LeagueConfig
	Strategy    StrategyConfig
	Credentials CredentialsConfig
}

var globalConfig *Config

// Load reads league.toml, strategy.toml, and the optional credentials.toml
// from configDir (default "config").
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = "config"
	}

	league, err := loadLeague(configDir)
	if err != nil {
		return nil, fmt.Errorf("league config: %w", err)
	}

	strategy, err := loadStrategy(configDir)
	if err != nil {
		return nil, fmt.Errorf("strategy config: %w", err)
	}

	creds, err := loadCredentials(configDir)
	if err != nil {
		return nil, fmt.Errorf("credentials config: %w", err)
	}

	cfg := &Config{
		League:      *league,
		Strategy:    *strategy,
		Credentials: *creds,
	}

	globalConfig = cfg
	return cfg, nil
}

func newViper(name, dir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	v.AutomaticEnv()
	return v
}

func loadLeague(dir string) (*LeagueConfig, error) {
	v := newViper("league", dir)

	v.SetDefault("name", "")
	v.SetDefault("platform", "")
	v.SetDefault("num_teams", 12)
	v.SetDefault("scoring_type", "roto")
	v.SetDefault("salary_cap", 260.0)
	v.BindEnv("num_teams", "DRAFT_NUM_TEAMS")
	v.BindEnv("salary_cap", "DRAFT_SALARY_CAP")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read league.toml: %w", err)
		}
		fmt.Fprintf(os.Stderr, "No league.toml found, using defaults and environment variables\n")
	}

	cfg := &LeagueConfig{
		Name:               v.GetString("name"),
		Platform:           v.GetString("platform"),
		NumTeams:           v.GetInt("num_teams"),
		ScoringType:        v.GetString("scoring_type"),
		SalaryCap:          v.GetFloat64("salary_cap"),
		BattingCategories:  v.GetStringSlice("batting_categories"),
		PitchingCategories: v.GetStringSlice("pitching_categories"),
		TeamMap:            v.GetStringMapString("team_map"),
		MyTeamID:           v.GetString("my_team_id"),
	}

	slotMap := v.GetStringMap("roster_slots")
	cfg.RosterSlots = make([]RosterSlotCount, 0, len(slotMap))
	for name, count := range slotMap {
		pos := core.ParsePosition(name)
		cfg.RosterSlots = append(cfg.RosterSlots, RosterSlotCount{Position: pos, Count: toInt(count)})
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// toInt coerces a decoded TOML scalar into an int. Viper's TOML backend
// decodes bare integers as int64, not int, so a naive type assertion to
// int silently fails and leaves every roster slot count at 0.
func toInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// Validate checks league.toml's invariants: num_teams > 0, salary_cap > 0.
func (c *LeagueConfig) Validate() error {
	if c.NumTeams <= 0 {
		return fmt.Errorf("num_teams must be > 0, got %d", c.NumTeams)
	}
	if c.SalaryCap <= 0 {
		return fmt.Errorf("salary_cap must be > 0, got %f", c.SalaryCap)
	}
	return nil
}

func loadStrategy(dir string) (*StrategyConfig, error) {
	v := newViper("strategy", dir)

	v.SetDefault("hitting_budget_fraction", 0.65)
	v.SetDefault("hitter_pool_size", 200)
	v.SetDefault("sp_pool_size", 90)
	v.SetDefault("rp_pool_size", 70)
	v.SetDefault("min_pa", 100)
	v.SetDefault("min_ip_sp", 20.0)
	v.SetDefault("min_g_rp", 10)
	v.SetDefault("socket_port", 9001)
	v.SetDefault("store_path", "draft.db")
	v.SetDefault("lm.model", "")
	v.SetDefault("lm.base_url", "")
	v.SetDefault("lm.max_tokens", 400)
	v.SetDefault("lm.temperature", 0.7)

	v.BindEnv("store_path", "DRAFT_STORE_PATH")
	v.BindEnv("socket_port", "DRAFT_SOCKET_PORT")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read strategy.toml: %w", err)
		}
		fmt.Fprintf(os.Stderr, "No strategy.toml found, using defaults and environment variables\n")
	}

	weights := v.GetStringMap("category_weights")
	categoryWeights := make(map[string]float64, len(weights))
	for k, val := range weights {
		switch t := val.(type) {
		case float64:
			categoryWeights[k] = t
		case int:
			categoryWeights[k] = float64(t)
		case int64:
			categoryWeights[k] = float64(t)
		}
	}

	cfg := &StrategyConfig{
		HittingBudgetFraction: v.GetFloat64("hitting_budget_fraction"),
		CategoryWeights:       categoryWeights,
		HitterPoolSize:        v.GetInt("hitter_pool_size"),
		SPPoolSize:            v.GetInt("sp_pool_size"),
		RPPoolSize:            v.GetInt("rp_pool_size"),
		MinPA:                 v.GetInt("min_pa"),
		MinIPSP:               v.GetFloat64("min_ip_sp"),
		MinGRP:                v.GetInt("min_g_rp"),
		SocketPort:            v.GetInt("socket_port"),
		StorePath:             v.GetString("store_path"),
		ProjectionFiles:       v.GetStringSlice("projection_files"),
		LM: LMConfig{
			Model:       v.GetString("lm.model"),
			BaseURL:     v.GetString("lm.base_url"),
			MaxTokens:   v.GetInt("lm.max_tokens"),
			Temperature: v.GetFloat64("lm.temperature"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks strategy.toml's invariants: weights > 0, pool counts >
// 0, min_ip_sp > 0, and the hitting budget fraction is within [0,1].
func (c *StrategyConfig) Validate() error {
	if c.HittingBudgetFraction < 0 || c.HittingBudgetFraction > 1 {
		return fmt.Errorf("hitting_budget_fraction must be in [0,1], got %f", c.HittingBudgetFraction)
	}
	for cat, w := range c.CategoryWeights {
		if w <= 0 {
			return fmt.Errorf("category weight %q must be > 0, got %f", cat, w)
		}
	}
	if c.HitterPoolSize <= 0 || c.SPPoolSize <= 0 || c.RPPoolSize <= 0 {
		return fmt.Errorf("pool sizes must all be > 0")
	}
	if c.MinIPSP <= 0 {
		return fmt.Errorf("min_ip_sp must be > 0, got %f", c.MinIPSP)
	}
	return nil
}

func loadCredentials(dir string) (*CredentialsConfig, error) {
	v := newViper("credentials", dir)
	v.BindEnv("llm_api_key", "LLM_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read credentials.toml: %w", err)
		}
	}

	return &CredentialsConfig{LLMAPIKey: v.GetString("llm_api_key")}, nil
}

// Get returns the global configuration loaded by Load.
func Get() *Config {
	if globalConfig == nil {
		panic("config not loaded; call config.Load() first")
	}
	return globalConfig
}

// MustLoad loads configuration or panics.
func MustLoad(configDir string) *Config {
	cfg, err := Load(configDir)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// EnsureConfigDir copies every file from defaultsDir into configDir that
// does not already exist there, skipping any file with a ".example"
// suffix, matching spec.md §6's first-run bootstrap.
func EnsureConfigDir(configDir, defaultsDir string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	entries, err := os.ReadDir(defaultsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read defaults dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) == ".example" {
			continue
		}

		dst := filepath.Join(configDir, name)
		if _, err := os.Stat(dst); err == nil {
			continue // already present; never overwrite user edits
		}

		src := filepath.Join(defaultsDir, name)
		data, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("failed to read default %s: %w", name, err)
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dst, err)
		}
	}

	return nil
}
