package poker

import (
	"math/rand"
)

// Deck is a stack of cards. The last element is the top of the stack.
type Deck struct {
	cards []Card
	rng   *rand.Rand // Random source for deterministic shuffling
}

// NewDeck creates a filled, shuffled deck drawing entropy from rng.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	d.Fill()
	d.Shuffle()
	return d
}

// Fill restores all 52 cards in canonical order, dropping whatever the
// deck held before.
func (d *Deck) Fill() {
	d.cards = d.cards[:0]
	for suit := Suit(0); suit < 4; suit++ {
		for face := Face(0); face < 13; face++ {
			d.cards = append(d.cards, Card{Face: face, Suit: suit})
		}
	}
}

// Shuffle shuffles the remaining cards using Fisher-Yates
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.Intn(i + 1)
		} else {
			j = rand.Intn(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Pop removes and returns the top card. It fails when the deck is empty.
func (d *Deck) Pop() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, true
}

// Push places cards on top of the stack so that subsequent Pops return
// them in the given order. A card already in the deck is moved, not
// duplicated. Used to rig deals in tests and debugging.
func (d *Deck) Push(cards ...Card) {
	for i := len(cards) - 1; i >= 0; i-- {
		d.remove(cards[i])
		d.cards = append(d.cards, cards[i])
	}
}

func (d *Deck) remove(c Card) {
	for i, x := range d.cards {
		if x == c {
			d.cards = append(d.cards[:i], d.cards[i+1:]...)
			return
		}
	}
}

// Len returns the number of cards left in the deck
func (d *Deck) Len() int {
	return len(d.cards)
}

// Remaining returns a copy of the cards still in the deck, top last.
func (d *Deck) Remaining() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
