package game

import (
	"errors"
	"strconv"

	"github.com/feltd/feltd/internal/protocol"
)

var (
	errStraddleState    = errors.New("no straddling at this point of the hand")
	errStraddlePlayers  = errors.New("not enough players to straddle")
	errStraddlePosition = errors.New("straddle out of turn")
	errStraddleDone     = errors.New("everyone has straddled already")
)

// straddleMinPlayers is the table size straddling needs. The mandatory
// straddle occupies a seat of its own, so it raises the bar by one.
func (g *Game) straddleMinPlayers() int {
	if g.cfg.MandatoryStraddle {
		return 5
	}
	return 4
}

// straddleRate is the next straddle in big blinds: double the previous
// link of the chain, starting at twice the blind.
func straddleRate(chain int) int {
	return 1 << (chain + 1)
}

// straddleSeat returns the seat whose turn it is to extend the straddle
// chain, or -1 when the chain cannot grow.
func (g *Game) straddleSeat(t *Table) int {
	if t.lastStraddle == -1 {
		pos := t.NextSeat(t.NextSeat(t.bb))
		if g.cfg.MandatoryStraddle {
			pos = t.NextSeat(pos)
		}
		return pos
	}
	if t.lastStraddle == t.dealer {
		return -1
	}
	return t.NextSeat(t.lastStraddle)
}

// postStraddles posts the chain armed during the previous hand, doubling
// the amount seat by seat behind the big blind. A stack too short to keep
// the chain going cuts it off at the seat before. Afterwards the chain is
// re-armed for the next hand: at the first seat behind the blinds when the
// straddle is mandatory, otherwise not at all.
func (g *Game) postStraddles(t *Table) {
	if t.lastStraddle != -1 {
		amount := g.blinds.amount
		seat := t.bb
		for {
			amount *= 2
			seat = t.NextSeat(seat)
			p := t.seats[seat].Player
			if p.Stake < amount {
				t.lastStraddle = t.PrevSeat(seat)
				break
			}
			t.seats[seat].Bet += amount
			p.Stake -= amount
			t.straddleAmount = amount
			if seat == t.lastStraddle {
				break
			}
		}
	}

	if g.cfg.MandatoryStraddle {
		t.lastStraddle = t.NextSeat(t.NextSeat(t.bb))
		t.straddleChain = 1
	} else {
		t.lastStraddle = -1
		t.straddleChain = 0
	}
}

// sendStraddleInvite offers the next link of the chain to the seat behind
// the last armed straddler, telling it the rate it would have to post.
func (g *Game) sendStraddleInvite(t *Table) {
	if t.CountSeats() < g.straddleMinPlayers() {
		return
	}
	pos := g.straddleSeat(t)
	if pos < 0 || !t.seats[pos].Occupied {
		return
	}
	g.snapTo(t.seats[pos].Player.ClientID, t.id, protocol.SnapWantToStraddleNextRound,
		strconv.Itoa(straddleRate(t.straddleChain)))
}

// NextRoundStraddle arms the calling player's straddle for the next hand.
// Only the seat directly behind the chain may claim it, and only while a
// hand is underway. On success the seat behind the claimant is invited to
// re-straddle.
func (g *Game) NextRoundStraddle(cid int) error {
	p, ok := g.players[cid]
	if !ok {
		return ErrNotAPlayer
	}
	t := g.mainTable()
	if t == nil || t.state <= StateBlinds || t.state >= StateEndRound {
		return errStraddleState
	}
	if t.CountSeats() < g.straddleMinPlayers() {
		return errStraddlePlayers
	}
	pos := g.straddleSeat(t)
	if pos < 0 {
		return errStraddleDone
	}
	if t.seats[pos].Player != p {
		return errStraddlePosition
	}

	t.lastStraddle = pos
	t.straddleChain++
	g.logger.Info("straddle armed", "cid", cid, "seat", pos, "chain", t.straddleChain)

	g.sendStraddleInvite(t)
	return nil
}
