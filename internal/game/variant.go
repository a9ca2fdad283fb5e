package game

import (
	"github.com/feltd/feltd/internal/protocol"
)

// variant hooks the mode-specific rules (cash ring vs sit-and-go
// tournament) into the shared controller. Every hook receives the
// owning Game; table hooks receive the table being driven.
type variant interface {
	mode() int

	canJoin(g *Game) error
	onPlayerJoin(g *Game, p *Player)
	removePlayer(g *Game, p *Player) error

	shouldStart(g *Game) bool
	shouldExpire(g *Game) bool
	tableFinished(g *Game, t *Table) bool

	// onNewRound runs before a hand is dealt; returning false holds
	// the table in NewRound until the next tick.
	onNewRound(g *Game, t *Table) bool
	onBlinds(g *Game, t *Table)
	onBlindsPosted(g *Game, t *Table)

	// onTimeout reports whether the acting player should be folded
	// or checked out of turn right now.
	onTimeout(g *Game, t *Table, p *Player) bool

	broke(g *Game, p *Player) bool
}

// ringVariant is the cash-game rule set: open seating while the game
// runs, rebuys, antes, straddles and optional expiry.
type ringVariant struct{}

func (ringVariant) mode() int { return protocol.GameModeRingGame }

func (ringVariant) canJoin(g *Game) error {
	if g.status.terminal() {
		return ErrGameEnded
	}
	if len(g.players) >= g.cfg.MaxPlayers {
		return ErrGameFull
	}
	return nil
}

func (ringVariant) onPlayerJoin(g *Game, p *Player) {
	// The first join starts the game; everyone after that gets a
	// random free seat and waits for the next hand.
	if g.status == StatusStarted {
		g.arrangeSeat(p)
	}
}

func (ringVariant) removePlayer(g *Game, p *Player) error {
	t, seat := g.seatOf(p)
	if t == nil {
		g.dropPlayer(p)
		return nil
	}

	// Seated players leave between hands. Fold them out of the
	// current one and let NewRound free the seat.
	if !p.WannaLeave {
		p.WannaLeave = true
		p.Next = SchedAction{Valid: true, Action: ActionFold}
		g.logger.Info("player leaving after hand", "cid", p.ClientID, "seat", seat)
	}
	if g.owner == p.ClientID {
		g.selectNewOwner(p.ClientID)
	}
	return nil
}

func (ringVariant) shouldStart(g *Game) bool { return len(g.players) >= 1 }

func (ringVariant) shouldExpire(g *Game) bool {
	if g.cfg.ExpireIn <= 0 {
		return false
	}
	anchor := g.createdAt
	if !g.startedAt.IsZero() {
		anchor = g.startedAt
	}
	return g.clock.Now().Sub(anchor) >= g.cfg.ExpireIn
}

func (ringVariant) tableFinished(g *Game, t *Table) bool { return false }

func (ringVariant) onNewRound(g *Game, t *Table) bool {
	g.applyRebuys(t)
	g.processLeavers(t)
	return t.CountSeats() >= 2
}

func (ringVariant) onBlinds(g *Game, t *Table) {
	g.postAntes(t)
	g.postStraddles(t)
}

func (ringVariant) onBlindsPosted(g *Game, t *Table) {
	g.sendStraddleInvite(t)
}

func (ringVariant) onTimeout(g *Game, t *Table, p *Player) bool {
	if g.clock.Now().Sub(t.timeoutStart) <= p.Timeout {
		return false
	}
	p.TimedOut++
	if p.TimedOut >= 3 {
		p.WannaLeave = true
		g.logger.Info("player timed out three times, leaving after hand", "cid", p.ClientID)
	}
	return true
}

func (ringVariant) broke(g *Game, p *Player) bool {
	if p.Stake <= 0 {
		return true
	}
	return p.Stake < g.cfg.anteAmount(g.blinds.amount)
}

// sngVariant is the sit-and-go rule set: registration closes at the
// first deal, blinds climb on a schedule and the game ends when one
// player holds all the chips.
type sngVariant struct{}

// sngBlindSchedule is indexed by level-1; level 1 always plays the
// configured starting blind.
var sngBlindSchedule = [...]int{
	20, 30, 50, 100, 200,
	400, 600, 800, 1000, 1200,
	1600, 2000, 3000, 4000, 6000,
	8000, 10000, 12000, 16000, 20000,
	24000, 30000, 40000, 60000, 80000,
	100000,
}

func (sngVariant) mode() int { return protocol.GameModeSNG }

func (sngVariant) canJoin(g *Game) error {
	if g.status != StatusCreated {
		return ErrGameStarted
	}
	if len(g.players) >= g.cfg.MaxPlayers {
		return ErrGameFull
	}
	return nil
}

func (sngVariant) onPlayerJoin(g *Game, p *Player) {}

func (sngVariant) removePlayer(g *Game, p *Player) error {
	if g.status != StatusCreated {
		return ErrGameStarted
	}
	g.dropPlayer(p)
	return nil
}

func (sngVariant) shouldStart(g *Game) bool {
	return len(g.players) >= 2 && len(g.players) == g.cfg.MaxPlayers
}

func (sngVariant) shouldExpire(g *Game) bool { return false }

func (sngVariant) tableFinished(g *Game, t *Table) bool {
	return t.CountSeats() == 1
}

func (sngVariant) onNewRound(g *Game, t *Table) bool {
	g.applyRebuys(t)
	return true
}

func (sngVariant) onBlinds(g *Game, t *Table) {
	g.advanceBlindLevel()
	g.sendBlinds(t)
}

func (sngVariant) onBlindsPosted(g *Game, t *Table) {}

func (sngVariant) onTimeout(g *Game, t *Table, p *Player) bool {
	if p.Sitout {
		return true
	}
	if g.clock.Now().Sub(t.timeoutStart) <= p.Timeout {
		return false
	}
	p.TimedOut++
	if p.TimedOut >= 3 {
		p.Sitout = true
		p.TimedOut = 0
	}
	return true
}

func (sngVariant) broke(g *Game, p *Player) bool { return p.Stake <= 0 }

func variantFor(mode int) variant {
	if mode == protocol.GameModeRingGame {
		return ringVariant{}
	}
	return sngVariant{}
}
