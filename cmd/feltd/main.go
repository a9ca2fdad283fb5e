package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/feltd/feltd/internal/server"
)

var CLI struct {
	Config   string `short:"c" long:"config" default:"feltd.hcl" help:"Path to HCL configuration file"`
	Listen   string `short:"a" long:"listen" help:"TCP address to bind to (overrides config)"`
	WSListen string `long:"ws-listen" help:"Websocket address to bind to (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	Seed     int64  `long:"seed" help:"Seed for card shuffling (0 seeds from the clock)"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg, err := server.Load(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		kctx.Exit(1)
	}

	if CLI.Listen != "" {
		cfg.Server.Listen = CLI.Listen
	}
	if CLI.WSListen != "" {
		cfg.Server.WSListen = CLI.WSListen
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		kctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	seed := CLI.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	srv := server.New(cfg, logger, quartz.NewReal(), rand.New(rand.NewSource(seed)))

	for _, block := range cfg.Games {
		gcfg, err := block.GameConfig()
		if err != nil {
			fmt.Printf("Invalid game %q: %v\n", block.Name, err)
			kctx.Exit(1)
		}
		g, err := srv.CreateGame(-1, gcfg)
		if err != nil {
			fmt.Printf("Could not create game %q: %v\n", block.Name, err)
			kctx.Exit(1)
		}
		logger.Info("created game", "game", g.ID(), "name", g.Name(),
			"mode", gcfg.Mode, "players", gcfg.MaxPlayers, "stake", gcfg.Stake)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Error("server failed", "error", err)
		kctx.Exit(1)
	}
}
