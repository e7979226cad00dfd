package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/triviaforbots/internal/game"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Games  []GameConfig   `hcl:"game,block"`
	Bots   []BotConfig    `hcl:"bot,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
	StatsDir string `hcl:"stats_dir,optional"`
}

// GameConfig defines one hosted game room. All timing values are in
// milliseconds; zero means the engine default.
type GameConfig struct {
	Name              string `hcl:"name,label"`
	Pack              string `hcl:"pack,optional"`
	MinPlayers        int    `hcl:"min_players,optional"`
	MaxPlayers        int    `hcl:"max_players,optional"`
	LockoutMs         int    `hcl:"lockout_ms,optional"`
	BuzzWindowMs      int    `hcl:"buzz_window_ms,optional"`
	AnswerTimeoutMs   int    `hcl:"answer_timeout_ms,optional"`
	WagerTimeoutMs    int    `hcl:"wager_timeout_ms,optional"`
	FinalWagerMs      int    `hcl:"final_wager_ms,optional"`
	FinalAnswerMs     int    `hcl:"final_answer_ms,optional"`
	IntroDelayMs      int    `hcl:"intro_delay_ms,optional"`
	ResultsCooldownMs int    `hcl:"results_cooldown_ms,optional"`
	BuzzMinGapMs      int    `hcl:"buzz_min_gap_ms,optional"`
	BuzzMaxPerSecond  int    `hcl:"buzz_max_per_second,optional"`
	MinWager          int    `hcl:"min_wager,optional"`
	FinalClueValue    int    `hcl:"final_clue_value,optional"`
	FuzzyBudget       int    `hcl:"fuzzy_budget,optional"`
	Seed              int64  `hcl:"seed,optional"`
}

// BotConfig defines bot configuration for games
type BotConfig struct {
	Name     string   `hcl:"name,label"`
	Strategy string   `hcl:"strategy"`
	Games    []string `hcl:"games,optional"`
	Accuracy float64  `hcl:"accuracy,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
			LogFile:  "trivia-server.log",
			StatsDir: "stats",
		},
		Games: []GameConfig{
			{Name: "main"},
		},
		Bots: []BotConfig{
			{Name: "alex", Strategy: "steady", Games: []string{"main"}},
			{Name: "ken", Strategy: "scholar", Games: []string{"main"}},
		},
	}
}

// LoadServerConfig loads server configuration from HCL file
func LoadServerConfig(filename string) (*ServerConfig, error) {
	// Check if file exists
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Server.LogFile == "" {
		config.Server.LogFile = "trivia-server.log"
	}
	if config.Server.StatsDir == "" {
		config.Server.StatsDir = "stats"
	}

	if len(config.Games) == 0 {
		config.Games = []GameConfig{{Name: "main"}}
	}

	// Apply defaults to bots
	for i := range config.Bots {
		if config.Bots[i].Strategy == "" {
			config.Bots[i].Strategy = "steady"
		}
		if len(config.Bots[i].Games) == 0 {
			// If no games specified, add to all games
			for _, g := range config.Games {
				config.Bots[i].Games = append(config.Bots[i].Games, g.Name)
			}
		}
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if len(c.Games) == 0 {
		return fmt.Errorf("at least one game must be configured")
	}

	for _, g := range c.Games {
		if g.MinPlayers < 0 || g.MaxPlayers < 0 {
			return fmt.Errorf("game %s: player counts must not be negative", g.Name)
		}
		if g.MaxPlayers > 0 && g.MinPlayers > g.MaxPlayers {
			return fmt.Errorf("game %s: min players exceeds max players", g.Name)
		}
		if g.MinWager < 0 {
			return fmt.Errorf("game %s: min wager must not be negative", g.Name)
		}
	}

	validStrategies := map[string]bool{
		"steady":   true,
		"reckless": true,
		"scholar":  true,
	}

	for _, b := range c.Bots {
		if !validStrategies[b.Strategy] {
			return fmt.Errorf("bot %s: invalid strategy %s", b.Name, b.Strategy)
		}
		if b.Accuracy < 0 || b.Accuracy > 1 {
			return fmt.Errorf("bot %s: accuracy must be between 0 and 1", b.Name)
		}
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// GetGameByName returns a game configuration by name
func (c *ServerConfig) GetGameByName(name string) *GameConfig {
	for _, g := range c.Games {
		if g.Name == name {
			return &g
		}
	}
	return nil
}

// GetBotsForGame returns all bots configured for a specific game
func (c *ServerConfig) GetBotsForGame(gameName string) []BotConfig {
	var bots []BotConfig
	for _, b := range c.Bots {
		for _, g := range b.Games {
			if g == gameName {
				bots = append(bots, b)
				break
			}
		}
	}
	return bots
}

// ToGameConfig converts HCL settings to an engine config, falling back to
// engine defaults for unset values.
func (gc *GameConfig) ToGameConfig() game.Config {
	cfg := game.DefaultConfig()
	if gc.MinPlayers > 0 {
		cfg.MinPlayers = gc.MinPlayers
	}
	if gc.MaxPlayers > 0 {
		cfg.MaxPlayers = gc.MaxPlayers
	}
	if gc.LockoutMs > 0 {
		cfg.Lockout = time.Duration(gc.LockoutMs) * time.Millisecond
	}
	if gc.BuzzWindowMs > 0 {
		cfg.BuzzWindow = time.Duration(gc.BuzzWindowMs) * time.Millisecond
	}
	if gc.AnswerTimeoutMs > 0 {
		cfg.AnswerTimeout = time.Duration(gc.AnswerTimeoutMs) * time.Millisecond
	}
	if gc.WagerTimeoutMs > 0 {
		cfg.WagerTimeout = time.Duration(gc.WagerTimeoutMs) * time.Millisecond
	}
	if gc.FinalWagerMs > 0 {
		cfg.FinalWagerTime = time.Duration(gc.FinalWagerMs) * time.Millisecond
	}
	if gc.FinalAnswerMs > 0 {
		cfg.FinalAnswerTime = time.Duration(gc.FinalAnswerMs) * time.Millisecond
	}
	if gc.IntroDelayMs > 0 {
		cfg.IntroDelay = time.Duration(gc.IntroDelayMs) * time.Millisecond
	}
	if gc.ResultsCooldownMs > 0 {
		cfg.ResultsCooldown = time.Duration(gc.ResultsCooldownMs) * time.Millisecond
	}
	if gc.BuzzMinGapMs > 0 {
		cfg.BuzzMinGap = time.Duration(gc.BuzzMinGapMs) * time.Millisecond
	}
	if gc.BuzzMaxPerSecond > 0 {
		cfg.BuzzMaxPerSecond = gc.BuzzMaxPerSecond
	}
	if gc.MinWager > 0 {
		cfg.MinWager = gc.MinWager
	}
	if gc.FinalClueValue > 0 {
		cfg.FinalClueValue = gc.FinalClueValue
	}
	if gc.FuzzyBudget > 0 {
		cfg.FuzzyBudget = gc.FuzzyBudget
	}
	if gc.Seed != 0 {
		cfg.Seed = gc.Seed
	}
	return cfg
}
