package game

import (
	"sort"

	"github.com/feltd/feltd/poker"
)

// Pot is one layer of chips wagered during a hand. Seats lists the
// seats eligible to win the layer. A final pot accepts no further
// bets; later streets open a new layer on top of it.
type Pot struct {
	Amount int
	Seats  []int
	Final  bool
}

// Involves reports whether seat can win from this pot.
func (p *Pot) Involves(seat int) bool {
	for _, s := range p.Seats {
		if s == seat {
			return true
		}
	}
	return false
}

// Pots returns the current pot layers, main pot first.
func (t *Table) Pots() []*Pot { return t.pots }

// ResetPots drops all layers and opens a fresh main pot.
func (t *Table) ResetPots() {
	t.pots = []*Pot{{}}
}

// openPot returns the deepest non-final pot, opening a new layer when
// the previous one was closed by an all-in.
func (t *Table) openPot() *Pot {
	if n := len(t.pots); n > 0 && !t.pots[n-1].Final {
		return t.pots[n-1]
	}
	t.pots = append(t.pots, &Pot{})
	return t.pots[len(t.pots)-1]
}

// CollectBets folds the street's seat bets into the pot layers. Bets
// are consumed over the distinct bet levels in ascending order; a seat
// whose chips ran out at a level is involved in no deeper layer, so an
// all-in for less carves out a side pot. Folded seats pay into the
// layers without becoming involved. Every seat involved in a layer has
// paid exactly that layer's share, and the layers' seat sets shrink
// monotonically from main pot to deepest side pot.
func (t *Table) CollectBets() {
	for {
		// smallest outstanding bet among seats still in the hand
		smallest := 0
		for i := range t.seats {
			s := &t.seats[i]
			if !s.Occupied || !s.InRound || s.Bet == 0 {
				continue
			}
			if smallest == 0 || s.Bet < smallest {
				smallest = s.Bet
			}
		}
		if smallest == 0 {
			break
		}

		pot := t.openPot()
		deeper := false

		for i := range t.seats {
			s := &t.seats[i]
			if !s.Occupied || s.Bet == 0 {
				continue
			}
			if s.InRound {
				pot.Amount += smallest
				s.Bet -= smallest
				if s.Bet > 0 {
					deeper = true
				}
				if !pot.Involves(i) {
					pot.Seats = append(pot.Seats, i)
				}
			} else if s.Bet > smallest {
				pot.Amount += smallest
				s.Bet -= smallest
			} else {
				pot.Amount += s.Bet
				s.Bet = 0
			}
		}

		if !deeper {
			break
		}
		pot.Final = true
	}

	// a folded seat can never outbid the table, but chip conservation
	// must hold even if one did: sweep any remainder without involvement
	for i := range t.seats {
		if s := &t.seats[i]; s.Occupied && s.Bet > 0 {
			t.openPot().Amount += s.Bet
			s.Bet = 0
		}
	}

	// an all-in seat freezes the open layer so that chips wagered on
	// later streets cannot be won by a seat that put nothing behind them
	if n := len(t.pots); n > 0 && !t.pots[n-1].Final {
		last := t.pots[n-1]
		for _, si := range last.Seats {
			s := &t.seats[si]
			if s.Occupied && s.InRound && s.Player.Stake == 0 {
				last.Final = true
				break
			}
		}
	}
}

// SeatStrength pairs a seat with its evaluated showdown strength.
type SeatStrength struct {
	Seat     int
	Strength poker.Strength
}

// WinList ranks the seats still in the hand by showdown strength,
// strongest tier first. Scanning starts at from so that tied winners
// keep their showdown order inside a tier.
func (t *Table) WinList(from int) [][]SeatStrength {
	if !t.seats[from].Occupied || !t.seats[from].InRound {
		from = t.NextActiveSeat(from)
		if from == -1 {
			return nil
		}
	}

	all := make([]SeatStrength, 0, MaxSeats)
	seat := from
	for i := 0; i < t.CountActiveSeats(); i++ {
		p := t.seats[seat].Player
		all = append(all, SeatStrength{
			Seat:     seat,
			Strength: poker.Evaluate(p.Hole.Cards(), t.community),
		})
		seat = t.NextActiveSeat(seat)
	}

	return rankStrengths(all)
}

// rankStrengths groups seats into descending-strength tiers.
func rankStrengths(all []SeatStrength) [][]SeatStrength {
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Strength > all[j].Strength
	})

	var tiers [][]SeatStrength
	for _, ss := range all {
		if n := len(tiers); n > 0 && tiers[n-1][0].Strength == ss.Strength {
			tiers[n-1] = append(tiers[n-1], ss)
			continue
		}
		tiers = append(tiers, []SeatStrength{ss})
	}
	return tiers
}

// involvedCount returns how many members of the tier can win from the
// pot.
func (t *Table) involvedCount(pot *Pot, tier []SeatStrength) int {
	count := 0
	for _, ss := range tier {
		if pot.Involves(ss.Seat) {
			count++
		}
	}
	return count
}
