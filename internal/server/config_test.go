package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadServerConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.GetServerAddress())
	require.Len(t, cfg.Games, 1)
	assert.Equal(t, "main", cfg.Games[0].Name)
	assert.Len(t, cfg.Bots, 2)
	require.NoError(t, cfg.Validate())
}

func TestLoadServerConfigParsesHCL(t *testing.T) {
	path := writeConfig(t, `
server {
  address   = "0.0.0.0"
  port      = 9000
  log_level = "debug"
  stats_dir = "/tmp/trivia-stats"
}

game "speed" {
  min_players    = 2
  max_players    = 4
  lockout_ms     = 250
  buzz_window_ms = 8000
  min_wager      = 10
  seed           = 99
}

bot "alex" {
  strategy = "reckless"
  accuracy = 0.45
}
`)

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9000", cfg.GetServerAddress())
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "/tmp/trivia-stats", cfg.Server.StatsDir)
	// Unset server fields still get defaults
	assert.Equal(t, "trivia-server.log", cfg.Server.LogFile)

	speed := cfg.GetGameByName("speed")
	require.NotNil(t, speed)
	assert.Equal(t, 250, speed.LockoutMs)
	assert.Nil(t, cfg.GetGameByName("nope"))

	// A bot with no games list is assigned to every configured game
	bots := cfg.GetBotsForGame("speed")
	require.Len(t, bots, 1)
	assert.Equal(t, "alex", bots[0].Name)
	assert.Equal(t, "reckless", bots[0].Strategy)
	assert.Equal(t, 0.45, bots[0].Accuracy)
}

func TestLoadServerConfigRejectsBadHCL(t *testing.T) {
	path := writeConfig(t, `server { port = `)
	_, err := LoadServerConfig(path)
	require.Error(t, err)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ServerConfig)
		wantErr string
	}{
		{
			name:    "port out of range",
			mutate:  func(c *ServerConfig) { c.Server.Port = 70000 },
			wantErr: "invalid port",
		},
		{
			name:    "no games",
			mutate:  func(c *ServerConfig) { c.Games = nil },
			wantErr: "at least one game",
		},
		{
			name: "min exceeds max",
			mutate: func(c *ServerConfig) {
				c.Games[0].MinPlayers = 6
				c.Games[0].MaxPlayers = 3
			},
			wantErr: "min players exceeds max",
		},
		{
			name:    "negative wager floor",
			mutate:  func(c *ServerConfig) { c.Games[0].MinWager = -1 },
			wantErr: "min wager",
		},
		{
			name:    "unknown strategy",
			mutate:  func(c *ServerConfig) { c.Bots[0].Strategy = "genius" },
			wantErr: "invalid strategy",
		},
		{
			name:    "accuracy out of range",
			mutate:  func(c *ServerConfig) { c.Bots[0].Accuracy = 1.5 },
			wantErr: "accuracy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultServerConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestToGameConfig(t *testing.T) {
	gc := GameConfig{
		Name:         "speed",
		MinPlayers:   2,
		LockoutMs:    250,
		BuzzWindowMs: 8000,
		MinWager:     10,
		Seed:         99,
	}
	cfg := gc.ToGameConfig()

	assert.Equal(t, 2, cfg.MinPlayers)
	assert.Equal(t, 250*time.Millisecond, cfg.Lockout)
	assert.Equal(t, 8*time.Second, cfg.BuzzWindow)
	assert.Equal(t, 10, cfg.MinWager)
	assert.Equal(t, int64(99), cfg.Seed)

	// Unset values fall back to the engine defaults
	assert.Equal(t, 15*time.Second, cfg.AnswerTimeout)
	assert.Equal(t, 1000, cfg.FinalClueValue)
	assert.Equal(t, 3, cfg.MaxPlayers)
}
