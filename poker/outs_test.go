package poker

import (
	"testing"
)

// remainingAfter builds the deck remainder once the given cards are dealt.
func remainingAfter(t *testing.T, dealt []Card) []Card {
	t.Helper()
	var rem []Card
	for suit := Suit(0); suit < 4; suit++ {
		for face := Face(0); face < 13; face++ {
			c := Card{Face: face, Suit: suit}
			if !ContainsCard(dealt, c) {
				rem = append(rem, c)
			}
		}
	}
	return rem
}

func TestOutsFlushDraw(t *testing.T) {
	t.Parallel()
	// Aces lead a flush draw on the flop. Exactly the nine remaining
	// diamonds dethrone the aces.
	leaderHole := mustCards(t, "Ah", "As")
	oppHole := mustCards(t, "Kd", "Qd")
	community := mustCards(t, "2d", "7d", "Jc")

	dealt := append(append(append([]Card{}, leaderHole...), oppHole...), community...)
	remaining := remainingAfter(t, dealt)
	if len(remaining) != 45 {
		t.Fatalf("remaining deck has %d cards, want 45", len(remaining))
	}

	outs, perOpp := Outs(
		SeatCards{Seat: 0, Hole: leaderHole},
		[]SeatCards{{Seat: 3, Hole: oppHole}},
		community, remaining,
	)

	if len(outs) != 9 {
		t.Fatalf("outs = %v, want the 9 remaining diamonds", outs)
	}
	for _, c := range outs {
		if c.Suit != Diamonds {
			t.Errorf("non-diamond out %v", c)
		}
	}
	if len(perOpp[3]) != 9 {
		t.Errorf("per-opponent outs = %v, want 9 cards", perOpp[3])
	}
}

func TestOutsLockedHand(t *testing.T) {
	t.Parallel()
	// A flopped royal flush cannot be dethroned by any turn card.
	leaderHole := mustCards(t, "Ah", "Kh")
	oppHole := mustCards(t, "2c", "2d")
	community := mustCards(t, "Qh", "Jh", "Th")

	dealt := append(append(append([]Card{}, leaderHole...), oppHole...), community...)
	remaining := remainingAfter(t, dealt)

	outs, perOpp := Outs(
		SeatCards{Seat: 1, Hole: leaderHole},
		[]SeatCards{{Seat: 5, Hole: oppHole}},
		community, remaining,
	)

	if len(outs) != 0 {
		t.Errorf("locked hand has outs %v", outs)
	}
	if len(perOpp[5]) != 0 {
		t.Errorf("locked hand has per-opponent outs %v", perOpp[5])
	}
}

func TestOutsTieFromBehind(t *testing.T) {
	t.Parallel()
	// The leader flopped the ten-high straight; the opponent holds a
	// bare ten. Any nine puts the same straight on both hands, turning
	// a lost pot into a chop, so the three live nines are outs.
	leaderHole := mustCards(t, "Th", "9h")
	oppHole := mustCards(t, "Tc", "4c")
	community := mustCards(t, "6s", "7d", "8c", "2d")

	dealt := append(append(append([]Card{}, leaderHole...), oppHole...), community...)
	remaining := remainingAfter(t, dealt)

	outs, perOpp := Outs(
		SeatCards{Seat: 2, Hole: leaderHole},
		[]SeatCards{{Seat: 4, Hole: oppHole}},
		community, remaining,
	)

	if len(outs) != 3 {
		t.Fatalf("outs = %v, want the three remaining nines", outs)
	}
	for _, c := range outs {
		if c.Face != Nine {
			t.Errorf("unexpected out %v", c)
		}
	}
	if len(perOpp[4]) != 3 {
		t.Errorf("per-opponent outs = %v, want 3 cards", perOpp[4])
	}
}

func TestOutsTiedLeadersNeedImprovement(t *testing.T) {
	t.Parallel()
	// Both players hold ace-king and already chop. A card that leaves
	// the tie in place is not an out; only the nine diamonds that give
	// the opponent a flush count.
	leaderHole := mustCards(t, "Ac", "Kc")
	oppHole := mustCards(t, "Ad", "Kd")
	community := mustCards(t, "2d", "7d", "Jc", "4s")

	dealt := append(append(append([]Card{}, leaderHole...), oppHole...), community...)
	remaining := remainingAfter(t, dealt)

	outs, perOpp := Outs(
		SeatCards{Seat: 0, Hole: leaderHole},
		[]SeatCards{{Seat: 6, Hole: oppHole}},
		community, remaining,
	)

	if len(outs) != 9 {
		t.Fatalf("outs = %v, want the 9 remaining diamonds", outs)
	}
	for _, c := range outs {
		if c.Suit != Diamonds {
			t.Errorf("non-diamond out %v", c)
		}
	}
	if len(perOpp[6]) != 9 {
		t.Errorf("per-opponent outs = %v, want 9 cards", perOpp[6])
	}
}

func TestOutsMultipleOpponents(t *testing.T) {
	t.Parallel()
	// Two different draws against one leader produce distinct
	// per-opponent out sets.
	leaderHole := mustCards(t, "As", "Ac")
	flushDraw := mustCards(t, "Kd", "Qd")
	gutshot := mustCards(t, "8c", "7h")
	community := mustCards(t, "2d", "7d", "Jc", "9s")

	dealt := append(append(append(append([]Card{}, leaderHole...), flushDraw...), gutshot...), community...)
	remaining := remainingAfter(t, dealt)

	outs, perOpp := Outs(
		SeatCards{Seat: 0, Hole: leaderHole},
		[]SeatCards{{Seat: 1, Hole: flushDraw}, {Seat: 2, Hole: gutshot}},
		community, remaining,
	)

	// The flush draw takes any diamond and, with KQ over J-9, any ten
	// for the straight; the gutshot needs a ten, an eight or a seven.
	if len(perOpp[1]) == 0 {
		t.Error("flush draw should have outs")
	}
	for _, c := range perOpp[1] {
		if c.Suit != Diamonds && c.Face != Ten {
			t.Errorf("unexpected flush draw out %v", c)
		}
	}
	if len(perOpp[2]) == 0 {
		t.Error("gutshot should have outs")
	}
	for _, c := range perOpp[2] {
		if c.Face != Ten && c.Face != Seven && c.Face != Eight {
			t.Errorf("unexpected gutshot out %v", c)
		}
	}
	if len(outs) < len(perOpp[1]) {
		t.Errorf("combined outs %d smaller than one opponent's %d", len(outs), len(perOpp[1]))
	}
}
