package game

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/feltd/feltd/internal/protocol"
	"github.com/feltd/feltd/poker"
)

// InsuranceInfo tracks one insurance round for a pot leader. Round 0
// covers the turn card, round 1 the river card.
type InsuranceInfo struct {
	Bought      bool
	MaxPayment  int          // prorated pot share, caps the payout
	BuyAmount   int          // premium paid
	Outs        []poker.Card // cards that dethrone the leader
	PerOpponent map[int][]poker.Card
	BuyCards    []poker.Card // subset of Outs the leader insured
	Result      int          // settled net, positive credits the stake
}

// insuranceRates maps a card count 1..20 onto the payout multiplier.
// The same table sizes the premium and settles the claim.
var insuranceRates = [...]float64{
	0,
	32, 16, 10, 7.5, 6,
	5, 4, 3.5, 3, 2.5,
	2.2, 2.0, 1.8, 1.6, 1.4,
	1.3, 1.2, 1.1, 1.0, 0.8,
}

// insuranceRate returns the multiplier for n cards. Counts beyond the
// table use the last entry.
func insuranceRate(n int) float64 {
	if n >= len(insuranceRates) {
		n = len(insuranceRates) - 1
	}
	return insuranceRates[n]
}

// insuranceMaxBuy caps the premium so a full payout cannot exceed the
// leader's prorated pot share.
func insuranceMaxBuy(maxPayment, cards int) int {
	if rate := insuranceRate(cards); rate > 1 {
		return int(math.Ceil(float64(maxPayment) / rate))
	}
	return maxPayment
}

// insuranceTakeBack is the premium refund for the outs a leader left
// unbought. A full buy leaves nothing uncovered and never refunds; ok
// is false when the helper is reached with uncovered <= 0 anyway.
func insuranceTakeBack(buy, uncovered int) (amount int, ok bool) {
	if uncovered <= 0 {
		return 0, false
	}
	return int(math.Ceil(float64(buy) / insuranceRate(uncovered))), true
}

// insuranceOn reports whether this game runs the insurance market.
func (g *Game) insuranceOn() bool {
	return g.cfg.Insurance && g.cfg.Mode == protocol.GameModeRingGame
}

// offerInsurance computes outs for every pot leader and publishes a
// BuyInsurance snapshot per eligible one. It reports whether at least
// one offer went out, i.e. whether the table should suspend and wait.
func (g *Game) offerInsurance(t *Table, round int) bool {
	if !g.insuranceOn() {
		return false
	}

	remaining := t.deck.Remaining()
	offered := false

	for _, pot := range t.pots {
		contenders := make([]int, 0, len(pot.Seats))
		for _, si := range pot.Seats {
			if t.seats[si].Occupied && t.seats[si].InRound {
				contenders = append(contenders, si)
			}
		}
		if len(contenders) < 2 {
			continue
		}

		var all []SeatStrength
		for _, si := range contenders {
			all = append(all, SeatStrength{
				Seat:     si,
				Strength: poker.Evaluate(t.seats[si].Player.Hole.Cards(), t.community),
			})
		}
		tiers := rankStrengths(all)
		if len(tiers) < 2 {
			// dead-even pot, nobody to insure
			continue
		}

		leaders := tiers[0]
		for _, lead := range leaders {
			p := t.seats[lead.Seat].Player
			ins := &p.Insurance[round]

			var opps []poker.SeatCards
			for _, si := range contenders {
				if si == lead.Seat {
					continue
				}
				opps = append(opps, poker.SeatCards{
					Seat: si,
					Hole: t.seats[si].Player.Hole.Cards(),
				})
			}

			ins.Outs, ins.PerOpponent = poker.Outs(
				poker.SeatCards{Seat: lead.Seat, Hole: p.Hole.Cards()},
				opps, t.community, remaining)
			ins.MaxPayment += pot.Amount / len(leaders)

			if len(ins.Outs) > 0 && (round == 1 || len(ins.Outs) <= 20) {
				offered = true
			}
		}
	}

	if !offered {
		return false
	}

	offered = false
	seat := t.dealer
	if !t.seats[seat].Occupied || !t.seats[seat].InRound {
		seat = t.NextActiveSeat(seat)
	}
	for i := 0; i < t.CountActiveSeats(); i++ {
		p := t.seats[seat].Player
		ins := &p.Insurance[round]

		// a flop-round hand with more than 20 outs is too far behind
		// to insure
		if round == 0 && len(ins.Outs) > 20 {
			ins.Outs = nil
			ins.PerOpponent = nil
		}

		if len(ins.Outs) > 0 {
			g.snapTo(p.ClientID, t.id, protocol.SnapBuyInsurance,
				fmt.Sprintf("%d %s %s", ins.MaxPayment,
					joinCards(ins.Outs, ":"),
					g.renderPerOpponent(t, ins.PerOpponent)))
			offered = true
		}
		seat = t.NextActiveSeat(seat)
	}
	return offered
}

// renderPerOpponent renders the outs-divided list: one
// cid:count:card:card... entry per opponent, dash separated.
func (g *Game) renderPerOpponent(t *Table, perOpp map[int][]poker.Card) string {
	seats := make([]int, 0, len(perOpp))
	for si := range perOpp {
		seats = append(seats, si)
	}
	sort.Ints(seats)

	parts := make([]string, 0, len(seats))
	for _, si := range seats {
		cards := perOpp[si]
		if len(cards) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d:%d:%s",
			t.seats[si].Player.ClientID, len(cards), joinCards(cards, ":")))
	}
	return strings.Join(parts, "-")
}

func joinCards(cards []poker.Card, sep string) string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.String()
	}
	return strings.Join(names, sep)
}

var (
	errInsuranceClosed = errors.New("no insurance window open")
	errInsuranceBought = errors.New("insurance already bought")
	errInsuranceCards  = errors.New("card is not an out")
	errInsuranceAmount = errors.New("premium exceeds the allowed maximum")
)

// BuyInsurance services a BUYINSURANCE command. An empty card list
// declines the pending offer. When no offeree is left pending the
// suspend countdown is cut short.
func (g *Game) BuyInsurance(cid int, amount int, cards []poker.Card) error {
	if !g.insuranceOn() {
		return errInsuranceClosed
	}
	p := g.players[cid]
	if p == nil {
		return ErrNotAPlayer
	}
	t := g.tableOf(p)
	if t == nil {
		return errInsuranceClosed
	}
	if t.state != StateSuspend || t.suspendReason != SuspendBuyInsurance {
		return errInsuranceClosed
	}

	var round int
	switch t.street {
	case Flop:
		round = 0
	case Turn:
		round = 1
	default:
		return errInsuranceClosed
	}

	ins := &p.Insurance[round]
	if ins.Bought {
		return errInsuranceBought
	}

	if len(cards) == 0 {
		// decline: drop the offer so the pending check passes over us
		ins.Outs = nil
		ins.PerOpponent = nil
	} else {
		for _, c := range cards {
			if !poker.ContainsCard(ins.Outs, c) {
				return errInsuranceCards
			}
		}
		if amount < 0 || amount > insuranceMaxBuy(ins.MaxPayment, len(cards)) {
			return errInsuranceAmount
		}
		ins.Bought = true
		ins.BuyAmount = amount
		ins.BuyCards = append([]poker.Card(nil), cards...)
	}

	g.logger.Info("insurance order",
		"hand", g.handID, "client", cid, "round", round,
		"buy", amount, "cards", len(cards))

	if !g.insurancePending(t, round) {
		t.ScheduleState(StateResume, 0)
	}
	return nil
}

// insurancePending reports whether any offeree has not yet answered.
func (g *Game) insurancePending(t *Table, round int) bool {
	seat := t.dealer
	if !t.seats[seat].Occupied || !t.seats[seat].InRound {
		seat = t.NextActiveSeat(seat)
	}
	for i := 0; i < t.CountActiveSeats(); i++ {
		ins := &t.seats[seat].Player.Insurance[round]
		if len(ins.Outs) > 0 && !ins.Bought {
			return true
		}
		seat = t.NextActiveSeat(seat)
	}
	return false
}

// settleInsurance fixes each buyer's result against the community card
// that closed the round: the turn card for round 0, the river card for
// round 1. Stakes move later, at showdown.
func (g *Game) settleInsurance(t *Table, round int) {
	idx := 3 + round
	if len(t.community) <= idx {
		return
	}
	card := t.community[idx]

	seat := t.dealer
	if !t.seats[seat].Occupied || !t.seats[seat].InRound {
		seat = t.NextActiveSeat(seat)
	}
	for i := 0; i < t.CountActiveSeats(); i++ {
		p := t.seats[seat].Player
		seat = t.NextActiveSeat(seat)

		ins := &p.Insurance[round]
		if !ins.Bought {
			continue
		}

		uncovered := len(ins.Outs) - len(ins.BuyCards)

		switch {
		case !poker.ContainsCard(ins.Outs, card):
			// blank: the lead held, the premium is due
			if uncovered == 0 {
				ins.Result = -ins.BuyAmount
				break
			}
			ins.Result = -(ins.BuyAmount - g.takeBack(ins.BuyAmount, uncovered))

		case poker.ContainsCard(ins.BuyCards, card):
			// insured out hit: pay out, capped at the pot share
			payout := int(float64(ins.BuyAmount) * insuranceRate(len(ins.BuyCards)))
			payout = min(payout, ins.MaxPayment)
			if uncovered > 0 {
				payout -= g.takeBack(ins.BuyAmount, uncovered)
			}
			ins.Result = payout

		default:
			// an uninsured out hit: premium lost, uncovered share back
			ins.Result = -(ins.BuyAmount - g.takeBack(ins.BuyAmount, uncovered))
		}

		g.logger.Debug("insurance settled",
			"hand", g.handID, "client", p.ClientID, "round", round,
			"card", card.String(), "result", ins.Result)
	}
}

// takeBack wraps insuranceTakeBack with the boundary warning.
func (g *Game) takeBack(buy, uncovered int) int {
	amount, ok := insuranceTakeBack(buy, uncovered)
	if !ok {
		g.logger.Warn("take-back requested with no uncovered outs",
			"hand", g.handID, "buy", buy)
	}
	return amount
}

// applyInsurance moves each buyer's settled results onto the stake and
// publishes the signed net per client. Runs once, at showdown.
func (g *Game) applyInsurance(t *Table) {
	seat := t.dealer
	if !t.seats[seat].Occupied || !t.seats[seat].InRound {
		seat = t.NextActiveSeat(seat)
	}
	for i := 0; i < t.CountActiveSeats(); i++ {
		p := t.seats[seat].Player
		seat = t.NextActiveSeat(seat)

		net := 0
		for round := range p.Insurance {
			if p.Insurance[round].Bought {
				net += p.Insurance[round].Result
			}
		}
		if net == 0 {
			continue
		}

		p.Stake += net
		g.snap(t.id, protocol.SnapInsuranceBenefits,
			fmt.Sprintf("%d %d", p.ClientID, net))
		g.logger.Info("insurance paid",
			"hand", g.handID, "client", p.ClientID, "net", net)
	}
}

// autoRebuyInsurance re-enters a flop-round buyer who has river outs
// but skipped the turn-round offer. The full outs set is bought at the
// premium its rate implies.
func (g *Game) autoRebuyInsurance(t *Table) {
	seat := t.dealer
	if !t.seats[seat].Occupied || !t.seats[seat].InRound {
		seat = t.NextActiveSeat(seat)
	}
	for i := 0; i < t.CountActiveSeats(); i++ {
		p := t.seats[seat].Player
		seat = t.NextActiveSeat(seat)

		flop, turn := &p.Insurance[0], &p.Insurance[1]
		if !flop.Bought || turn.Bought || len(turn.Outs) == 0 {
			continue
		}

		turn.Bought = true
		turn.BuyCards = append([]poker.Card(nil), turn.Outs...)
		turn.BuyAmount = int(math.Ceil(
			float64(flop.BuyAmount) / insuranceRate(len(turn.Outs))))

		g.logger.Info("insurance auto-rebuy",
			"hand", g.handID, "client", p.ClientID,
			"buy", turn.BuyAmount, "cards", len(turn.BuyCards))
	}
}
