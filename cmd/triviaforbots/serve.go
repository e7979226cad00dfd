package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/triviaforbots/internal/bot"
	"github.com/lox/triviaforbots/internal/game"
	"github.com/lox/triviaforbots/internal/pack"
	"github.com/lox/triviaforbots/internal/server"
	"github.com/lox/triviaforbots/internal/stats"
)

// ServeCmd runs the WebSocket trivia server
type ServeCmd struct {
	Config string `kong:"default='triviaforbots.hcl',help='Path to HCL config file'"`
	Addr   string `kong:"help='Listen address, overrides config'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(cfg.Server.LogLevel, c.Debug)

	addr := cfg.GetServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	recorder, err := stats.NewFileRecorder(cfg.Server.StatsDir, logger)
	if err != nil {
		return fmt.Errorf("opening stats dir: %w", err)
	}

	srv := server.NewServer(addr, logger)
	gameService := server.NewGameService(srv, recorder, logger)
	srv.SetGameService(gameService)

	for _, gc := range cfg.Games {
		pk, err := loadPack(gc.Pack, logger)
		if err != nil {
			return fmt.Errorf("game %s: %w", gc.Name, err)
		}

		if _, err := gameService.CreateRoom(gc.Name, gc.ToGameConfig(), pk); err != nil {
			return fmt.Errorf("game %s: %w", gc.Name, err)
		}

		for _, bc := range cfg.GetBotsForGame(gc.Name) {
			botCfg := bot.Preset(bc.Name, bc.Strategy)
			if bc.Accuracy > 0 {
				botCfg.Accuracy = bc.Accuracy
			}
			if err := gameService.AddConfiguredBot(gc.Name, botCfg); err != nil {
				return fmt.Errorf("bot %s: %w", bc.Name, err)
			}
		}
	}

	logger.Info("Starting trivia server", "addr", addr, "games", len(cfg.Games))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		return srv.Stop()
	})

	return g.Wait()
}

// loadPack reads and validates the pack file, falling back to the
// built-in sample pack when no path is configured.
func loadPack(path string, logger *log.Logger) (*game.Pack, error) {
	if path == "" {
		logger.Info("No pack configured, using built-in sample pack")
		return pack.Sample(), nil
	}
	return pack.Load(path)
}

func setupLogger(level string, debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	switch {
	case debug:
		logger.SetLevel(log.DebugLevel)
	case level == "warn":
		logger.SetLevel(log.WarnLevel)
	case level == "error":
		logger.SetLevel(log.ErrorLevel)
	case level == "debug":
		logger.SetLevel(log.DebugLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}
