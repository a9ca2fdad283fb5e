package game

import (
	"fmt"
	"time"

	"github.com/feltd/feltd/internal/protocol"
)

// Config carries the per-game parameters as set by CREATE or the
// server's config file. Amounts are chips, the blinds factor is a
// tenth-scaled multiplier (20 means 2.0).
type Config struct {
	Mode int // protocol.GameModeRingGame or GameModeSNG

	Name     string
	Password string

	MaxPlayers int
	Stake      int // buy-in handed to each new player

	Timeout    time.Duration // per-turn betting allowance
	BlindsTime time.Duration // level advance interval, sng only

	BlindsStart  int
	BlindsFactor int

	Ante int // ante per hand = bigBlind/10*Ante, 0 disables

	MandatoryStraddle bool
	Insurance         bool

	Restart  bool
	ExpireIn time.Duration // ring only, 0 never expires
}

// DefaultConfig returns the parameters a bare CREATE command gets.
func DefaultConfig() Config {
	return Config{
		Mode:         protocol.GameModeSNG,
		Name:         "user_game",
		MaxPlayers:   9,
		Stake:        1500,
		Timeout:      30 * time.Second,
		BlindsTime:   180 * time.Second,
		BlindsStart:  20,
		BlindsFactor: 20,
		Insurance:    true,
		ExpireIn:     1800 * time.Second,
	}
}

// Validate checks the same ranges the CREATE command enforces.
func (c *Config) Validate() error {
	switch c.Mode {
	case protocol.GameModeRingGame, protocol.GameModeSNG:
	default:
		return fmt.Errorf("unknown game type %d", c.Mode)
	}

	maxSeats := MaxSeats
	if c.Mode == protocol.GameModeSNG {
		maxSeats = MaxSeats - 1
	}
	if c.MaxPlayers < 2 || c.MaxPlayers > maxSeats {
		return fmt.Errorf("invalid players count %d", c.MaxPlayers)
	}
	if c.Stake < 10 || c.Stake > 100_000_000 {
		return fmt.Errorf("invalid stake %d", c.Stake)
	}
	if c.Timeout < 5*time.Second || c.Timeout > 600*time.Second {
		return fmt.Errorf("invalid timeout %v", c.Timeout)
	}
	if c.BlindsStart < 1 || c.BlindsStart > 20_000 {
		return fmt.Errorf("invalid blinds start %d", c.BlindsStart)
	}
	if c.BlindsFactor < 12 || c.BlindsFactor > 40 {
		return fmt.Errorf("invalid blinds factor %d", c.BlindsFactor)
	}
	if c.BlindsTime < 30*time.Second || c.BlindsTime > 1800*time.Second {
		return fmt.Errorf("invalid blinds time %v", c.BlindsTime)
	}
	if len(c.Name) > 50 {
		return fmt.Errorf("game name too long")
	}
	if len(c.Password) > 16 {
		return fmt.Errorf("game password too long")
	}
	if c.ExpireIn < 0 {
		return fmt.Errorf("invalid expiry %v", c.ExpireIn)
	}
	return nil
}

// anteAmount is the per-player ante at the given big blind.
func (c *Config) anteAmount(bigBlind int) int {
	if c.Ante <= 0 {
		return 0
	}
	return bigBlind / 10 * c.Ante
}
