package game

import (
	"strings"
	"testing"
	"time"

	"github.com/feltd/feltd/internal/protocol"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Mode != protocol.GameModeSNG {
		t.Errorf("mode = %d, want sng", cfg.Mode)
	}
	if cfg.MaxPlayers != 9 || cfg.Stake != 1500 {
		t.Errorf("players/stake = %d/%d, want 9/1500", cfg.MaxPlayers, cfg.Stake)
	}
	if cfg.Timeout != 30*time.Second || cfg.BlindsTime != 180*time.Second {
		t.Errorf("timeout/blinds time = %v/%v", cfg.Timeout, cfg.BlindsTime)
	}
	if cfg.BlindsStart != 20 || cfg.BlindsFactor != 20 {
		t.Errorf("blinds start/factor = %d/%d", cfg.BlindsStart, cfg.BlindsFactor)
	}
	if !cfg.Insurance {
		t.Error("insurance should default on")
	}
	if cfg.ExpireIn != 1800*time.Second {
		t.Errorf("expire = %v, want 30m", cfg.ExpireIn)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default passes", func(c *Config) {}, false},
		{"ring seats ten", func(c *Config) {
			c.Mode = protocol.GameModeRingGame
			c.MaxPlayers = 10
		}, false},
		{"sng caps at nine", func(c *Config) { c.MaxPlayers = 10 }, true},
		{"one player", func(c *Config) { c.MaxPlayers = 1 }, true},
		{"unknown mode", func(c *Config) { c.Mode = 7 }, true},
		{"stake floor", func(c *Config) { c.Stake = 9 }, true},
		{"stake ceiling", func(c *Config) { c.Stake = 100_000_001 }, true},
		{"timeout floor", func(c *Config) { c.Timeout = 4 * time.Second }, true},
		{"timeout ceiling", func(c *Config) { c.Timeout = 601 * time.Second }, true},
		{"blinds start floor", func(c *Config) { c.BlindsStart = 0 }, true},
		{"blinds start ceiling", func(c *Config) { c.BlindsStart = 20_001 }, true},
		{"factor floor", func(c *Config) { c.BlindsFactor = 11 }, true},
		{"factor ceiling", func(c *Config) { c.BlindsFactor = 41 }, true},
		{"blinds time floor", func(c *Config) { c.BlindsTime = 29 * time.Second }, true},
		{"blinds time ceiling", func(c *Config) { c.BlindsTime = 1801 * time.Second }, true},
		{"long name", func(c *Config) { c.Name = strings.Repeat("x", 51) }, true},
		{"name at limit", func(c *Config) { c.Name = strings.Repeat("x", 50) }, false},
		{"long password", func(c *Config) { c.Password = strings.Repeat("p", 17) }, true},
		{"negative expiry", func(c *Config) { c.ExpireIn = -time.Second }, true},
		{"zero expiry means never", func(c *Config) { c.ExpireIn = 0 }, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			c.mutate(&cfg)
			err := cfg.Validate()
			if c.wantErr && err == nil {
				t.Error("want error, got nil")
			}
			if !c.wantErr && err != nil {
				t.Errorf("want ok, got %v", err)
			}
		})
	}
}

func TestAnteAmount(t *testing.T) {
	t.Parallel()
	cases := []struct {
		ante, bigBlind, want int
	}{
		{0, 20, 0},
		{2, 20, 4},
		{2, 15, 2}, // blind is floored to full tens first
		{1, 100, 10},
		{2, 8, 0},
	}
	for _, c := range cases {
		cfg := Config{Ante: c.ante}
		if got := cfg.anteAmount(c.bigBlind); got != c.want {
			t.Errorf("anteAmount(ante=%d bb=%d) = %d, want %d",
				c.ante, c.bigBlind, got, c.want)
		}
	}
}
