// Package poker provides the card domain types, the deck and the hand
// strength adapter used by the game engine. Hand ranking itself is
// delegated to github.com/chehsunliu/poker.
package poker

import "fmt"

// Suit represents a card suit
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// String returns the one-letter suit form used on the wire
func (s Suit) String() string {
	switch s {
	case Clubs:
		return "c"
	case Diamonds:
		return "d"
	case Hearts:
		return "h"
	case Spades:
		return "s"
	default:
		return "?"
	}
}

// Face represents a card face, ordered Two to Ace
type Face uint8

const (
	Two Face = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const faceSymbols = "23456789TJQKA"

// String returns the one-letter face form used on the wire
func (f Face) String() string {
	if f > Ace {
		return "?"
	}
	return string(faceSymbols[f])
}

// Card represents a playing card
type Card struct {
	Face Face
	Suit Suit
}

// String returns the two-letter form, face then suit (e.g. "Ah", "Tc")
func (c Card) String() string {
	return c.Face.String() + c.Suit.String()
}

// ParseCard parses a two-letter card like "As" or "th"
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card string: %q", s)
	}

	var face Face
	switch s[0] {
	case '2':
		face = Two
	case '3':
		face = Three
	case '4':
		face = Four
	case '5':
		face = Five
	case '6':
		face = Six
	case '7':
		face = Seven
	case '8':
		face = Eight
	case '9':
		face = Nine
	case 'T', 't':
		face = Ten
	case 'J', 'j':
		face = Jack
	case 'Q', 'q':
		face = Queen
	case 'K', 'k':
		face = King
	case 'A', 'a':
		face = Ace
	default:
		return Card{}, fmt.Errorf("invalid face: %c", s[0])
	}

	var suit Suit
	switch s[1] {
	case 'c', 'C':
		suit = Clubs
	case 'd', 'D':
		suit = Diamonds
	case 'h', 'H':
		suit = Hearts
	case 's', 'S':
		suit = Spades
	default:
		return Card{}, fmt.Errorf("invalid suit: %c", s[1])
	}

	return Card{Face: face, Suit: suit}, nil
}

// ParseCards parses a space separated list of cards
func ParseCards(fields ...string) ([]Card, error) {
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// ContainsCard reports whether cards includes c
func ContainsCard(cards []Card, c Card) bool {
	for _, x := range cards {
		if x == c {
			return true
		}
	}
	return false
}
