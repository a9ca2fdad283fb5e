package game

import (
	"fmt"
	"time"

	"github.com/feltd/feltd/internal/protocol"
)

// stateBetting runs the acting player's turn: consume their scheduled
// action if it is valid, fall back to fold-or-check once their clock
// runs out, then advance the turn or close the betting round.
func (g *Game) stateBetting(t *Table) {
	seat := &t.seats[t.curPlayer]
	p := seat.Player

	var (
		action  Action
		amount  int
		allowed bool
		auto    bool
	)

	minimum := t.MinimumBet(g.blinds.amount)

	switch {
	case t.noMoreAction || p.Stake == 0:
		// all-in runout, the seat just passes
		action = ActionNone
		allowed = true

	case p.Next.Valid:
		action = p.Next.Action

		switch action {
		case ActionFold:
			allowed = true

		case ActionCheck:
			if seat.Bet < t.betAmount {
				g.chatTo(p.ClientID, t.id, "You cannot check! Try call.")
			} else {
				allowed = true
			}

		case ActionCall:
			switch {
			case t.betAmount == 0 || t.betAmount == seat.Bet:
				// nothing to call, retry as check
				p.Next.Action = ActionCheck
				return
			case t.betAmount > seat.Bet+p.Stake:
				// covering the bet takes everything
				p.Next.Action = ActionAllin
				return
			default:
				allowed = true
				amount = t.betAmount - seat.Bet
			}

		case ActionBet:
			switch {
			case t.betAmount > 0:
				g.chatTo(p.ClientID, t.id, "You cannot bet, there was already a bet! Try raise.")
			case p.Next.Amount < minimum:
				g.chatTo(p.ClientID, t.id,
					fmt.Sprintf("You cannot bet this amount. Minimum bet is %d.", minimum))
			default:
				allowed = true
				amount = p.Next.Amount - seat.Bet
			}

		case ActionRaise:
			switch {
			case t.betAmount == 0:
				// nothing to raise, retry as bet
				p.Next.Action = ActionBet
				return
			case p.Next.Amount < minimum:
				g.chatTo(p.ClientID, t.id,
					fmt.Sprintf("You cannot raise this amount. Minimum bet is %d.", minimum))
			default:
				allowed = true
				amount = p.Next.Amount - seat.Bet
			}

		case ActionAllin:
			allowed = true
			amount = p.Stake
		}

		p.Next = SchedAction{}

	default:
		if !g.variant.onTimeout(g, t, p) {
			return
		}
		if seat.Bet < t.betAmount {
			action = ActionFold
		} else {
			action = ActionCheck
		}
		allowed = true
		auto = true
	}

	if !allowed {
		return
	}

	p.LastAction = action

	autoFlag := 0
	if auto {
		autoFlag = 1
	}

	switch action {
	case ActionNone:
		// nothing to do
	case ActionFold:
		seat.InRound = false
		g.snap(t.id, protocol.SnapPlayerAction,
			fmt.Sprintf("%d %d %d", protocol.ActionFolded, p.ClientID, autoFlag))
	case ActionCheck:
		g.snap(t.id, protocol.SnapPlayerAction,
			fmt.Sprintf("%d %d %d", protocol.ActionChecked, p.ClientID, autoFlag))
	default:
		if amount > p.Stake {
			amount = p.Stake
		}
		seat.Bet += amount
		p.Stake -= amount

		var msg string
		if action == ActionBet || action == ActionRaise || action == ActionAllin {
			// a short all-in below the table amount does not reopen
			// the round
			if seat.Bet > t.betAmount {
				t.lastBetPlayer = t.curPlayer
				t.lastBetAmount = t.betAmount
				t.betAmount = seat.Bet
			}
			switch {
			case action == ActionAllin || p.Stake == 0:
				msg = fmt.Sprintf("%d %d %d", protocol.ActionAllin, p.ClientID, seat.Bet)
			case action == ActionBet:
				msg = fmt.Sprintf("%d %d %d", protocol.ActionBet, p.ClientID, t.betAmount)
			default:
				msg = fmt.Sprintf("%d %d %d", protocol.ActionRaised, p.ClientID, t.betAmount)
			}
		} else {
			msg = fmt.Sprintf("%d %d %d", protocol.ActionCalled, p.ClientID, amount)
		}
		g.snap(t.id, protocol.SnapPlayerAction, msg)
	}

	// everyone else folded, end the hand
	if t.CountActiveSeats() == 1 {
		t.CollectBets()
		t.state = StateAskShow
		t.curPlayer = t.NextActiveSeat(t.curPlayer)
		t.timeoutStart = g.clock.Now()
		g.sendTableSnapshot(t)
		t.ResetLastActions()
		return
	}

	// the round closes when the action returns to the last aggressor
	if t.NextActiveSeat(t.curPlayer) == t.lastBetPlayer {
		g.closeBettingRound(t)
		return
	}

	// preflop: when the seat holding the round-close marker folds, the
	// marker moves on
	if action == ActionFold && t.curPlayer == t.lastBetPlayer {
		t.lastBetPlayer = t.NextActiveSeat(t.lastBetPlayer)
	}

	t.curPlayer = t.NextActiveSeat(t.curPlayer)
	t.timeoutStart = g.clock.Now()
	t.seats[t.curPlayer].Player.ResetLastAction()

	t.ScheduleState(StateBetting, time.Second)
	g.sendTableSnapshot(t)
	g.sendCurrentPlayer(t)
}

// closeBettingRound collects the bets, deals the next street or moves
// the hand to its showdown phase.
func (g *Game) closeBettingRound(t *Table) {
	t.CollectBets()

	if t.IsAllin() {
		t.noMoreAction = true
	}

	switch t.street {
	case Preflop:
		t.street = Flop
		g.dealFlop(t)
	case Flop:
		t.street = Turn
		g.dealTurn(t)
		if t.noMoreAction {
			g.settleInsurance(t, 0)
		}
	case Turn:
		t.street = River
		g.dealRiver(t)
		if t.noMoreAction {
			g.settleInsurance(t, 1)
		}
	case River:
		// the last aggressor must show first
		t.seats[t.lastBetPlayer].ShowCards = true
		t.curPlayer = t.NextActiveSeat(t.lastBetPlayer)
		t.timeoutStart = g.clock.Now()
		if t.noMoreAction {
			t.state = StateShowdown
		} else {
			t.state = StateAskShow
		}
		g.sendTableSnapshot(t)
		t.ResetLastActions()
		return
	}

	// intermediate snapshot with nobody to act
	t.curPlayer = -1
	g.sendTableSnapshot(t)

	t.betAmount = 0
	t.lastBetAmount = 0

	t.curPlayer = t.NextActiveSeat(t.dealer)
	t.timeoutStart = g.clock.Now()
	t.lastBetPlayer = t.curPlayer
	t.ResetLastActions()

	// an all-in runout pauses for the insurance market before the
	// street plays out
	if t.noMoreAction && (t.street == Flop || t.street == Turn) {
		round := 0
		if t.street == Turn {
			round = 1
		}
		if g.offerInsurance(t, round) {
			t.resumeState = StateBettingEnd
			t.suspendReason = SuspendBuyInsurance
			t.maxSuspendTimes = 20
			t.ScheduleState(StateSuspend, 0)
			return
		}
	}

	t.ScheduleState(StateBettingEnd, 2*time.Second)
	g.sendCurrentPlayer(t)
}
