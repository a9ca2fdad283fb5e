package game

import (
	"reflect"
	"testing"

	"github.com/coder/quartz"
)

type potSeat struct {
	no     int
	bet    int
	stake  int
	folded bool
}

// potTable builds a table holding only what CollectBets looks at: who
// sits where, what they still have behind and what is in front of them.
func potTable(seats []potSeat) *Table {
	tbl := NewTable(0, quartz.NewReal(), nil)
	for _, s := range seats {
		tbl.seats[s.no].Occupied = true
		tbl.seats[s.no].InRound = !s.folded
		tbl.seats[s.no].Bet = s.bet
		tbl.seats[s.no].Player = &Player{ClientID: 100 + s.no, Stake: s.stake}
	}
	tbl.ResetPots()
	return tbl
}

func TestCollectBetsSingleLevel(t *testing.T) {
	t.Parallel()
	tbl := potTable([]potSeat{
		{no: 1, bet: 20, stake: 100},
		{no: 4, bet: 20, stake: 100},
		{no: 7, bet: 20, stake: 100},
	})

	tbl.CollectBets()

	pots := tbl.Pots()
	if len(pots) != 1 {
		t.Fatalf("got %d pots, want 1", len(pots))
	}
	if pots[0].Amount != 60 {
		t.Errorf("pot amount = %d, want 60", pots[0].Amount)
	}
	if !reflect.DeepEqual(pots[0].Seats, []int{1, 4, 7}) {
		t.Errorf("pot seats = %v, want [1 4 7]", pots[0].Seats)
	}
	if pots[0].Final {
		t.Error("pot should stay open with chips behind every stack")
	}
}

func TestCollectBetsFoldedSeatPaysWithoutInvolvement(t *testing.T) {
	t.Parallel()
	tbl := potTable([]potSeat{
		{no: 1, bet: 20, stake: 100},
		{no: 4, bet: 10, stake: 100, folded: true},
		{no: 7, bet: 20, stake: 100},
	})

	tbl.CollectBets()

	pots := tbl.Pots()
	if len(pots) != 1 {
		t.Fatalf("got %d pots, want 1", len(pots))
	}
	if pots[0].Amount != 50 {
		t.Errorf("pot amount = %d, want 50", pots[0].Amount)
	}
	if pots[0].Involves(4) {
		t.Error("folded seat must not be eligible for the pot")
	}
	if !reflect.DeepEqual(pots[0].Seats, []int{1, 7}) {
		t.Errorf("pot seats = %v, want [1 7]", pots[0].Seats)
	}
}

func TestCollectBetsShortAllinCarvesSidePot(t *testing.T) {
	t.Parallel()
	tbl := potTable([]potSeat{
		{no: 1, bet: 100, stake: 0},
		{no: 4, bet: 300, stake: 500},
		{no: 7, bet: 300, stake: 500},
	})

	tbl.CollectBets()

	pots := tbl.Pots()
	if len(pots) != 2 {
		t.Fatalf("got %d pots, want 2", len(pots))
	}
	if pots[0].Amount != 300 || !reflect.DeepEqual(pots[0].Seats, []int{1, 4, 7}) {
		t.Errorf("main pot = %d %v, want 300 [1 4 7]", pots[0].Amount, pots[0].Seats)
	}
	if !pots[0].Final {
		t.Error("main pot must close once the short stack is all in")
	}
	if pots[1].Amount != 400 || !reflect.DeepEqual(pots[1].Seats, []int{4, 7}) {
		t.Errorf("side pot = %d %v, want 400 [4 7]", pots[1].Amount, pots[1].Seats)
	}
	if pots[1].Final {
		t.Error("side pot should stay open")
	}
}

func TestCollectBetsEqualAllinsFreezePot(t *testing.T) {
	t.Parallel()
	tbl := potTable([]potSeat{
		{no: 1, bet: 100, stake: 0},
		{no: 4, bet: 100, stake: 0},
		{no: 7, bet: 100, stake: 400},
	})

	tbl.CollectBets()

	pots := tbl.Pots()
	if len(pots) != 1 {
		t.Fatalf("got %d pots, want 1", len(pots))
	}
	if pots[0].Amount != 300 || !pots[0].Final {
		t.Fatalf("main pot = %d final=%v, want 300 final", pots[0].Amount, pots[0].Final)
	}

	// a later street cannot add to the frozen layer
	tbl.seats[7].Bet = 50
	tbl.CollectBets()

	pots = tbl.Pots()
	if len(pots) != 2 {
		t.Fatalf("got %d pots after second street, want 2", len(pots))
	}
	if pots[1].Amount != 50 || !reflect.DeepEqual(pots[1].Seats, []int{7}) {
		t.Errorf("overflow pot = %d %v, want 50 [7]", pots[1].Amount, pots[1].Seats)
	}
}

func TestCollectBetsSweepsFoldedOverbet(t *testing.T) {
	t.Parallel()
	// a folded seat that somehow has more in front than the survivors
	// still pays everything in, chip conservation over eligibility
	tbl := potTable([]potSeat{
		{no: 1, bet: 20, stake: 100},
		{no: 4, bet: 30, stake: 100, folded: true},
		{no: 7, bet: 20, stake: 100},
	})

	tbl.CollectBets()

	pots := tbl.Pots()
	if len(pots) != 1 {
		t.Fatalf("got %d pots, want 1", len(pots))
	}
	if pots[0].Amount != 70 {
		t.Errorf("pot amount = %d, want 70", pots[0].Amount)
	}
	if !reflect.DeepEqual(pots[0].Seats, []int{1, 7}) {
		t.Errorf("pot seats = %v, want [1 7]", pots[0].Seats)
	}
	for i := range tbl.seats {
		if tbl.seats[i].Bet != 0 {
			t.Errorf("seat %d still has %d in front", i, tbl.seats[i].Bet)
		}
	}
}

func TestWinListTiers(t *testing.T) {
	t.Parallel()
	tbl := potTable([]potSeat{
		{no: 2, stake: 100},
		{no: 5, stake: 100},
		{no: 8, stake: 100},
	})
	tbl.community = mustCards(t, "2c", "7d", "9h", "Jc", "3s")
	tbl.seats[2].Player.Hole.SetCards(mustCards(t, "Ah", "Ad"))
	tbl.seats[5].Player.Hole.SetCards(mustCards(t, "Kh", "Kd"))
	tbl.seats[8].Player.Hole.SetCards(mustCards(t, "As", "Ac"))

	seatsOf := func(tier []SeatStrength) []int {
		out := make([]int, len(tier))
		for i, ss := range tier {
			out[i] = ss.Seat
		}
		return out
	}

	tiers := tbl.WinList(2)
	if len(tiers) != 2 {
		t.Fatalf("got %d tiers, want 2", len(tiers))
	}
	if got := seatsOf(tiers[0]); !reflect.DeepEqual(got, []int{2, 8}) {
		t.Errorf("top tier = %v, want [2 8]", got)
	}
	if got := seatsOf(tiers[1]); !reflect.DeepEqual(got, []int{5}) {
		t.Errorf("second tier = %v, want [5]", got)
	}

	// starting the scan elsewhere reorders ties but not tiers
	tiers = tbl.WinList(8)
	if got := seatsOf(tiers[0]); !reflect.DeepEqual(got, []int{8, 2}) {
		t.Errorf("top tier from seat 8 = %v, want [8 2]", got)
	}

	// a folded starting seat falls through to the next active one
	tbl.seats[2].InRound = false
	tiers = tbl.WinList(2)
	if got := seatsOf(tiers[0]); !reflect.DeepEqual(got, []int{8}) {
		t.Errorf("top tier without seat 2 = %v, want [8]", got)
	}
}

func TestInvolvedCount(t *testing.T) {
	t.Parallel()
	tbl := potTable([]potSeat{{no: 1, stake: 1}, {no: 4, stake: 1}, {no: 7, stake: 1}})
	pot := &Pot{Seats: []int{1, 4}}
	tier := []SeatStrength{{Seat: 1}, {Seat: 7}}

	if got := tbl.involvedCount(pot, tier); got != 1 {
		t.Errorf("involvedCount = %d, want 1", got)
	}
}
