package game

import (
	"fmt"
	"strings"

	"github.com/feltd/feltd/internal/protocol"
)

// sendTableSnapshot broadcasts the full table state. The layout is
// positional:
//
//	<state>:<betround> <dealer>:<sb>:<bb>:<cur>:<lastbet> cc:<cards>
//	<seats> <pots> <bb-amount> <level> <next-amount> <next-level>
//	<last-blinds-time> <minimum-bet>
//
// Seats render as sN:cid:state:stake:rebuy:bet:lastaction:hole and
// carry a trailing space each; pots render as pN:amount.
func (g *Game) sendTableSnapshot(t *Table) {
	var cards strings.Builder
	for i, c := range t.community {
		if i > 0 {
			cards.WriteByte(':')
		}
		cards.WriteString(c.String())
	}

	var seats strings.Builder
	for i := 0; i < MaxSeats; i++ {
		s := &t.seats[i]
		if !s.Occupied {
			continue
		}
		p := s.Player

		// hole cards stay hidden until shown or the hand runs out
		hole := "-"
		if t.noMoreAction || s.ShowCards {
			hole = joinCards(p.Hole.Cards(), "")
		}

		pstate := 0
		if s.InRound {
			pstate |= protocol.PlayerStateInRound
		}
		if p.Sitout {
			pstate |= protocol.PlayerStateSitout
		}
		if p.WannaLeave {
			pstate |= protocol.PlayerStateWannaLeave
		}

		fmt.Fprintf(&seats, "s%d:%d:%d:%d:%d:%d:%d:%s ",
			s.No, p.ClientID, pstate, p.Stake, p.RebuyStake, s.Bet, p.LastAction, hole)
	}

	var pots strings.Builder
	for i, pot := range t.pots {
		if i > 0 {
			pots.WriteByte(' ')
		}
		fmt.Fprintf(&pots, "p%d:%d", i, pot.Amount)
	}

	turn := "-1"
	if t.state != StateGameStart && t.state != StateElectDealer {
		cur := -1
		if t.curPlayer != -1 {
			cur = t.seats[t.curPlayer].No
		}
		turn = fmt.Sprintf("%d:%d:%d:%d:%d",
			t.seats[t.dealer].No,
			t.seats[t.sb].No,
			t.seats[t.bb].No,
			cur,
			t.seats[t.lastBetPlayer].No)
	}

	betround := -1
	minimum := 0
	if t.state == StateBetting {
		betround = int(t.street)
		minimum = t.MinimumBet(g.blinds.amount)
	}

	nextLevel, nextAmount := g.nextBlind()

	g.snap(t.id, protocol.SnapTable,
		fmt.Sprintf("%d:%d %s cc:%s %s %s %d %d %d %d %d %d",
			t.state, betround,
			turn,
			cards.String(),
			seats.String(),
			pots.String(),
			g.blinds.amount,
			g.blinds.level,
			nextAmount,
			nextLevel,
			g.blinds.changedAt.Unix(),
			minimum))
}

// sendPlayerShow reveals a player's hole cards to the table.
func (g *Game) sendPlayerShow(t *Table, p *Player) {
	cards := p.Hole.Cards()
	if len(cards) < 2 {
		return
	}
	g.snap(t.id, protocol.SnapPlayerShow,
		fmt.Sprintf("%d %s %s", p.ClientID, cards[0], cards[1]))
}

// sendCurrentPlayer nudges the player whose turn it is. Nobody is
// nudged during an all-in runout.
func (g *Game) sendCurrentPlayer(t *Table) {
	if t.noMoreAction || t.curPlayer < 0 {
		return
	}
	s := &t.seats[t.curPlayer]
	if !s.Occupied || s.Player.Stake == 0 {
		return
	}
	g.snapTo(s.Player.ClientID, t.id, protocol.SnapPlayerCurrent, "")
}

// sendBlinds announces the hand's blind amounts and level schedule.
func (g *Game) sendBlinds(t *Table) {
	nextLevel, nextAmount := g.nextBlind()
	g.snap(t.id, protocol.SnapGameState,
		fmt.Sprintf("%d %d %d %d %d %d %d",
			protocol.GameStateBlinds,
			g.blinds.amount/2,
			g.blinds.amount,
			g.blinds.level,
			nextLevel,
			nextAmount,
			g.blinds.changedAt.Unix()))
}
