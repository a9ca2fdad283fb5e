package game

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/feltd/feltd/internal/protocol"
	"github.com/feltd/feltd/poker"
)

// askShowTimeout is the short window a player gets to show or muck.
const askShowTimeout = time.Second

func (g *Game) stateNewRound(t *Table) {
	if !g.variant.onNewRound(g, t) {
		return
	}

	g.handNo++
	g.handID = uuid.NewString()
	g.logger.Info("new hand", "hand", g.handID, "no", g.handNo, "tid", t.id,
		"players", t.CountSeats())

	g.snap(t.id, protocol.SnapGameState,
		fmt.Sprintf("%d %d", protocol.GameStateNewHand, g.handNo))

	t.deck.Fill()
	t.deck.Shuffle()
	t.community = t.community[:0]

	t.betAmount = 0
	t.lastBetAmount = 0
	t.noMoreAction = false
	t.straddleAmount = 0

	t.ResetPots()
	t.ResetSeats(g.cfg.Timeout)

	if t.CountSeats() == 2 {
		// heads-up: the dealer posts the small blind
		t.bb = t.NextSeat(t.dealer)
		t.sb = t.NextSeat(t.bb)
	} else {
		t.sb = t.NextSeat(t.dealer)
		t.bb = t.NextSeat(t.sb)
	}

	t.curPlayer = t.NextSeat(t.bb) // under the gun
	t.lastBetPlayer = t.curPlayer

	g.sendTableSnapshot(t)
	t.state = StateBlinds
}

func (g *Game) stateBlinds(t *Table) {
	g.variant.onBlinds(g, t)

	t.betAmount = g.blinds.amount

	sbSeat, bbSeat := &t.seats[t.sb], &t.seats[t.bb]
	small, big := sbSeat.Player, bbSeat.Player

	amount := g.blinds.amount / 2
	if amount > small.Stake {
		amount = small.Stake
	}
	sbSeat.Bet += amount
	small.Stake -= amount

	amount = g.blinds.amount
	if amount > big.Stake {
		amount = big.Stake
	}
	bbSeat.Bet += amount
	big.Stake -= amount

	t.timeoutStart = g.clock.Now()

	g.dealHole(t)

	// a blind put somebody all-in; check whether any betting is left
	if t.IsAllin() {
		if (big.Stake == 0 && small.Stake == 0) ||
			(big.Stake == 0 && sbSeat.Bet >= bbSeat.Bet) ||
			small.Stake == 0 {
			t.noMoreAction = true
		}
	}

	if t.straddleAmount > t.betAmount {
		t.betAmount = t.straddleAmount
	}
	t.street = Preflop
	t.ScheduleState(StateBetting, 3*time.Second)

	g.sendTableSnapshot(t)
	g.sendCurrentPlayer(t)

	g.variant.onBlindsPosted(g, t)
}

func (g *Game) stateBettingEnd(t *Table) {
	// respite extensions last one street
	for i := 0; i < MaxSeats; i++ {
		if t.seats[i].Occupied {
			t.seats[i].Player.Timeout = g.cfg.Timeout
		}
	}
	t.state = StateBetting
	g.sendTableSnapshot(t)
}

func (g *Game) stateAskShow(t *Table) {
	chose := false
	seat := &t.seats[t.curPlayer]
	p := seat.Player

	switch {
	case p.Stake == 0 && t.CountActiveSeats() > 1:
		// an all-in player has no option to muck
		seat.ShowCards = true
		chose = true
		p.Next = SchedAction{}

	case p.Next.Valid:
		switch p.Next.Action {
		case ActionMuck:
			chose = true
		case ActionShow:
			seat.ShowCards = true
			chose = true
		}
		p.Next = SchedAction{}

	default:
		if p.Sitout || g.clock.Now().Sub(t.timeoutStart) > askShowTimeout {
			// default is to show, except when everyone else folded
			if t.CountActiveSeats() > 1 {
				seat.ShowCards = true
			}
			chose = true
		}
	}

	if !chose {
		return
	}

	if seat.ShowCards {
		p.LastAction = ActionShow
	} else {
		p.LastAction = ActionMuck
	}

	if t.CountActiveSeats() == 1 {
		t.state = StateAllFolded
		return
	}

	// mucking forfeits the showdown
	if !seat.ShowCards {
		seat.InRound = false
	}

	if t.NextActiveSeat(t.curPlayer) == t.lastBetPlayer {
		t.state = StateShowdown
		return
	}

	t.curPlayer = t.NextActiveSeat(t.curPlayer)
	t.timeoutStart = g.clock.Now()
	g.sendTableSnapshot(t)
}

func (g *Game) stateAllFolded(t *Table) {
	seat := &t.seats[t.curPlayer]
	p := seat.Player

	if seat.ShowCards {
		g.sendPlayerShow(t, p)
	}

	p.Stake += t.pots[0].Amount
	seat.Bet = t.pots[0].Amount // winnings, picked up by the snapshot

	g.snap(t.id, protocol.SnapWinPot,
		fmt.Sprintf("%d %d %d", p.ClientID, 0, t.pots[0].Amount))

	g.sendTableSnapshot(t)
	t.ScheduleState(StateEndRound, 2*time.Second)
}

func (g *Game) stateShowdown(t *Table) {
	// the last aggressor reveals first
	seat := t.lastBetPlayer
	for i := 0; i < t.CountActiveSeats(); i++ {
		if t.seats[seat].ShowCards || t.noMoreAction {
			g.sendPlayerShow(t, t.seats[seat].Player)
		}
		seat = t.NextActiveSeat(seat)
	}

	winlist := t.WinList(t.lastBetPlayer)

	for _, tier := range winlist {
		for potIdx, pot := range t.pots {
			involved := t.involvedCount(pot, tier)

			var win, odd int
			if involved > 0 {
				win = pot.Amount / involved
				odd = pot.Amount - win*involved
			}

			cashout := 0
			for _, ss := range tier {
				if !pot.Involves(ss.Seat) || win <= 0 {
					continue
				}
				s := &t.seats[ss.Seat]
				s.Player.Stake += win
				s.Bet += win
				cashout += win
				g.snap(t.id, protocol.SnapWinPot,
					fmt.Sprintf("%d %d %d", s.Player.ClientID, potIdx, win))
			}

			// odd chips go to the first involved seat behind the button
			if odd > 0 {
				no := t.NextActiveSeat(t.dealer)
				for !pot.Involves(no) {
					no = t.NextActiveSeat(no)
				}
				s := &t.seats[no]
				s.Player.Stake += odd
				s.Bet += odd
				cashout += odd
				g.snap(t.id, protocol.SnapOddChips,
					fmt.Sprintf("%d %d %d", s.Player.ClientID, potIdx, odd))
			}

			pot.Amount -= cashout
		}
	}

	for i, pot := range t.pots {
		if pot.Amount > 0 {
			g.logger.Error("chips left in pot", "hand", g.handID, "pot", i, "amount", pot.Amount)
		}
	}

	t.pots = nil

	g.sendTableSnapshot(t)
	t.ScheduleState(StateEndRound, 4*time.Second)

	g.applyInsurance(t)
}

func (g *Game) stateEndRound(t *Table) {
	type brokeSeat struct {
		stakeBefore int
		seat        int
	}
	var (
		changes []string
		broke   []brokeSeat
	)

	for i := 0; i < MaxSeats; i++ {
		s := &t.seats[i]
		if !s.Occupied {
			continue
		}
		p := s.Player

		changes = append(changes, fmt.Sprintf("%d:%d:%d",
			p.ClientID, p.Stake, p.Stake-p.StakeBefore))

		if g.variant.broke(g, p) {
			broke = append(broke, brokeSeat{p.StakeBefore, i})
		} else if p.Stake > p.StakeBefore {
			g.snap(t.id, protocol.SnapWinAmount,
				fmt.Sprintf("%d %d %d", p.ClientID, -1, p.Stake-p.StakeBefore))
		}
	}

	payload := strings.Join(changes, " ")
	if payload != "" {
		payload += " "
	}
	g.snap(t.id, protocol.SnapStakeChange, payload)

	g.sendTableSnapshot(t)

	// bust in stake order, shortest stack takes the worse position
	sort.SliceStable(broke, func(i, j int) bool {
		return broke[i].stakeBefore < broke[j].stakeBefore
	})
	for _, b := range broke {
		p := t.seats[b.seat].Player

		g.finish = append(g.finish, p)
		position := len(g.players) - len(g.finish) + 1

		g.snap(t.id, protocol.SnapGameState,
			fmt.Sprintf("%d %d %d", protocol.GameStateBroke, p.ClientID, position))
		g.logger.Info("player broke", "hand", g.handID, "cid", p.ClientID, "position", position)

		t.FreeSeat(b.seat)
	}

	t.AdvanceDealer()
	t.ScheduleState(StateNewRound, time.Second)
}

func (g *Game) stateSuspend(t *Table) {
	if t.suspendTimes == 0 {
		g.snap(t.id, protocol.SnapGameState, fmt.Sprintf("%d %d %d",
			protocol.GameStateTableSuspend, t.suspendReason,
			t.maxSuspendTimes-t.suspendTimes))
	}

	if t.suspendTimes >= t.maxSuspendTimes {
		t.ScheduleState(StateResume, 0)
		return
	}

	t.suspendTimes++
	t.ScheduleState(StateSuspend, time.Second)
}

func (g *Game) stateResume(t *Table) {
	if t.suspendReason == SuspendBuyInsurance && t.street == Turn {
		g.autoRebuyInsurance(t)
	}

	g.snap(t.id, protocol.SnapGameState, fmt.Sprintf("%d", protocol.GameStateTableResume))

	t.suspendTimes = 0
	t.maxSuspendTimes = 0
	t.suspendReason = SuspendNone
	t.ScheduleState(t.resumeState, 0)
}

// dealHole gives every seated player two cards, starting at the small
// blind, and tells each player theirs privately.
func (g *Game) dealHole(t *Table) {
	for i, c := t.sb, 0; c < t.CountSeats(); i = t.NextSeat(i) {
		s := &t.seats[i]
		if !s.Occupied {
			continue
		}

		c1, _ := t.deck.Pop()
		c2, _ := t.deck.Pop()
		s.Player.Hole.SetCards([]poker.Card{c1, c2})

		g.snapTo(s.Player.ClientID, t.id, protocol.SnapCards,
			fmt.Sprintf("%d %s %s", protocol.CardsHole, c1, c2))
		c++
	}
}

func (g *Game) dealFlop(t *Table) {
	f1, _ := t.deck.Pop()
	f2, _ := t.deck.Pop()
	f3, _ := t.deck.Pop()
	t.community = append(t.community, f1, f2, f3)

	g.snap(t.id, protocol.SnapCards,
		fmt.Sprintf("%d %s %s %s", protocol.CardsFlop, f1, f2, f3))
}

func (g *Game) dealTurn(t *Table) {
	c, _ := t.deck.Pop()
	t.community = append(t.community, c)

	g.snap(t.id, protocol.SnapCards, fmt.Sprintf("%d %s", protocol.CardsTurn, c))
}

func (g *Game) dealRiver(t *Table) {
	c, _ := t.deck.Pop()
	t.community = append(t.community, c)

	g.snap(t.id, protocol.SnapCards, fmt.Sprintf("%d %s", protocol.CardsRiver, c))
}
