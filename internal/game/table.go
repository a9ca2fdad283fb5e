package game

import (
	"math/rand"
	"time"

	"github.com/coder/quartz"

	"github.com/feltd/feltd/poker"
)

// MaxSeats is the number of seats at a table.
const MaxSeats = 10

// TableState is the table's position in the hand lifecycle. The numeric
// values appear in table snapshots and must stay stable.
type TableState int

const (
	StateGameStart TableState = iota
	StateElectDealer
	StateNewRound
	StateBlinds
	StateBetting
	StateBettingEnd
	StateAskShow
	StateAllFolded
	StateShowdown
	StateEndRound
	StateSuspend
	StateResume
)

// String returns the state name for logs.
func (s TableState) String() string {
	names := [...]string{"GameStart", "ElectDealer", "NewRound", "Blinds",
		"Betting", "BettingEnd", "AskShow", "AllFolded", "Showdown",
		"EndRound", "Suspend", "Resume"}
	if s < 0 || int(s) >= len(names) {
		return "Unknown"
	}
	return names[s]
}

// Street is the betting round within a hand.
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

// String returns the street name for logs.
func (s Street) String() string {
	names := [...]string{"preflop", "flop", "turn", "river"}
	if s < 0 || int(s) >= len(names) {
		return "unknown"
	}
	return names[s]
}

// SuspendReason says why a table was suspended.
type SuspendReason int

const (
	SuspendNone SuspendReason = iota
	SuspendBuyInsurance
)

// Seat is one chair at the table.
type Seat struct {
	No        int
	Occupied  bool
	Player    *Player
	Bet       int
	InRound   bool
	ShowCards bool
}

// Table holds the cards, seats and pots of one running table. All
// mutation happens through its methods and the state handlers; the
// session layer only ever sees rendered snapshots.
type Table struct {
	id    int
	clock quartz.Clock

	deck      *poker.Deck
	community []poker.Card

	seats [MaxSeats]Seat
	pots  []*Pot

	state   TableState
	readyAt time.Time
	street  Street

	noMoreAction bool

	dealer        int
	sb            int
	bb            int
	curPlayer     int
	lastBetPlayer int

	lastStraddle  int // armed straddle chain end for the next hand, -1 none
	straddleChain int // armed straddler count for the next hand

	betAmount      int
	lastBetAmount  int
	straddleAmount int

	timeoutStart time.Time

	resumeState     TableState
	suspendReason   SuspendReason
	suspendTimes    int
	maxSuspendTimes int
}

// NewTable builds an empty table with a freshly shuffled deck.
func NewTable(id int, clock quartz.Clock, rng *rand.Rand) *Table {
	t := &Table{
		id:            id,
		clock:         clock,
		deck:          poker.NewDeck(rng),
		state:         StateGameStart,
		dealer:        -1,
		sb:            -1,
		bb:            -1,
		curPlayer:     -1,
		lastBetPlayer: -1,
		lastStraddle:  -1,
	}
	for i := range t.seats {
		t.seats[i].No = i
	}
	return t
}

// ID returns the table number within its game.
func (t *Table) ID() int { return t.id }

// State returns the current lifecycle state.
func (t *Table) State() TableState { return t.state }

// Deck exposes the deck, used by tests to rig deals.
func (t *Table) Deck() *poker.Deck { return t.deck }

// Community returns the board cards dealt so far.
func (t *Table) Community() []poker.Card { return t.community }

// ScheduleState moves the table to next and holds handler dispatch for
// the given delay.
func (t *Table) ScheduleState(next TableState, delay time.Duration) {
	t.state = next
	t.readyAt = t.clock.Now().Add(delay)
}

// ready reports whether the scheduled delay has elapsed, clearing it on
// the first hit.
func (t *Table) ready() bool {
	if t.readyAt.IsZero() {
		return true
	}
	if t.clock.Now().Before(t.readyAt) {
		return false
	}
	t.readyAt = time.Time{}
	return true
}

// NextSeat returns the next occupied seat after pos, or -1 when the
// table is empty.
func (t *Table) NextSeat(pos int) int {
	for i := 1; i <= MaxSeats; i++ {
		n := (pos + i) % MaxSeats
		if t.seats[n].Occupied {
			return n
		}
	}
	return -1
}

// PrevSeat returns the closest occupied seat before pos, or -1 when the
// table is empty.
func (t *Table) PrevSeat(pos int) int {
	for i := 1; i <= MaxSeats; i++ {
		n := (pos - i + MaxSeats*2) % MaxSeats
		if t.seats[n].Occupied {
			return n
		}
	}
	return -1
}

// NextActiveSeat returns the next seat after pos still in the hand, or
// -1 when none is.
func (t *Table) NextActiveSeat(pos int) int {
	for i := 1; i <= MaxSeats; i++ {
		n := (pos + i) % MaxSeats
		if t.seats[n].Occupied && t.seats[n].InRound {
			return n
		}
	}
	return -1
}

// CountSeats returns the number of occupied seats.
func (t *Table) CountSeats() int {
	count := 0
	for i := range t.seats {
		if t.seats[i].Occupied {
			count++
		}
	}
	return count
}

// CountActiveSeats returns the number of seats still in the hand.
func (t *Table) CountActiveSeats() int {
	count := 0
	for i := range t.seats {
		if t.seats[i].Occupied && t.seats[i].InRound {
			count++
		}
	}
	return count
}

// IsAllin reports whether at most one player left in the hand still has
// chips behind, i.e. no further betting is possible.
func (t *Table) IsAllin() bool {
	withChips := 0
	for i := range t.seats {
		if t.seats[i].Occupied && t.seats[i].InRound && t.seats[i].Player.Stake > 0 {
			withChips++
		}
	}
	return withChips <= 1
}

// AdvanceDealer moves the button to the next occupied seat.
func (t *Table) AdvanceDealer() {
	t.dealer = t.NextSeat(t.dealer)
}

// FreeSeat releases a seat, keeping the player reference so a rebuy can
// reclaim the chair if nobody takes it first.
func (t *Table) FreeSeat(no int) {
	t.seats[no].Occupied = false
	t.seats[no].InRound = false
}

// ClearSeat releases a seat and drops the player reference.
func (t *Table) ClearSeat(no int) {
	t.seats[no] = Seat{No: no}
}

// SeatOf returns the seat currently holding the player, occupied or
// not, or -1.
func (t *Table) SeatOf(p *Player) int {
	for i := range t.seats {
		if t.seats[i].Player == p {
			return i
		}
	}
	return -1
}

// OccupiedSeatOf returns the occupied seat of the player, or -1.
func (t *Table) OccupiedSeatOf(p *Player) int {
	for i := range t.seats {
		if t.seats[i].Occupied && t.seats[i].Player == p {
			return i
		}
	}
	return -1
}

// ResetSeats prepares every occupied seat for a new hand.
func (t *Table) ResetSeats(timeout time.Duration) {
	for i := range t.seats {
		s := &t.seats[i]
		if !s.Occupied {
			continue
		}
		s.InRound = true
		s.ShowCards = false
		s.Bet = 0
		p := s.Player
		p.Hole.Clear()
		p.ResetLastAction()
		p.ClearInsurance()
		p.Next = SchedAction{}
		p.StakeBefore = p.Stake
		p.Timeout = timeout
	}
}

// ResetLastActions clears every seated player's published action.
func (t *Table) ResetLastActions() {
	for i := range t.seats {
		if t.seats[i].Occupied {
			t.seats[i].Player.ResetLastAction()
		}
	}
}

// MinimumBet returns the table's current minimum bet or raise-to amount.
func (t *Table) MinimumBet(blindAmount int) int {
	if t.betAmount == 0 {
		return blindAmount
	}
	return t.betAmount + (t.betAmount - t.lastBetAmount)
}
