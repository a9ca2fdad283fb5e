package poker

import (
	"testing"
)

func TestParseCard(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		wantCard Card
		wantErr  bool
	}{
		{
			name:     "ace of spades",
			input:    "As",
			wantCard: Card{Face: Ace, Suit: Spades},
		},
		{
			name:     "two of hearts",
			input:    "2h",
			wantCard: Card{Face: Two, Suit: Hearts},
		},
		{
			name:     "ten with T notation",
			input:    "Tc",
			wantCard: Card{Face: Ten, Suit: Clubs},
		},
		{
			name:     "lower case face accepted",
			input:    "kd",
			wantCard: Card{Face: King, Suit: Diamonds},
		},
		{
			name:     "upper case suit accepted",
			input:    "9S",
			wantCard: Card{Face: Nine, Suit: Spades},
		},
		{
			name:    "invalid face",
			input:   "Xs",
			wantErr: true,
		},
		{
			name:    "invalid suit",
			input:   "Ax",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "too long",
			input:   "Asd",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			card, err := ParseCard(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseCard(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if !tc.wantErr && card != tc.wantCard {
				t.Errorf("ParseCard(%q) = %v, want %v", tc.input, card, tc.wantCard)
			}
		})
	}
}

func TestCardStringRoundTrip(t *testing.T) {
	t.Parallel()
	for suit := Suit(0); suit < 4; suit++ {
		for face := Face(0); face < 13; face++ {
			card := Card{Face: face, Suit: suit}
			parsed, err := ParseCard(card.String())
			if err != nil {
				t.Fatalf("ParseCard(%q) failed: %v", card.String(), err)
			}
			if parsed != card {
				t.Errorf("round trip %v -> %q -> %v", card, card.String(), parsed)
			}
		}
	}
}

func TestParseCards(t *testing.T) {
	t.Parallel()
	cards, err := ParseCards("Ah", "Kd", "2c")
	if err != nil {
		t.Fatalf("ParseCards failed: %v", err)
	}
	if len(cards) != 3 || cards[0].String() != "Ah" || cards[2].String() != "2c" {
		t.Errorf("ParseCards = %v", cards)
	}

	if _, err := ParseCards("Ah", "zz"); err == nil {
		t.Error("expected error on invalid card in list")
	}
}

func TestContainsCard(t *testing.T) {
	t.Parallel()
	cards, _ := ParseCards("Ah", "Kd", "2c")
	ace, _ := ParseCard("Ah")
	queen, _ := ParseCard("Qs")

	if !ContainsCard(cards, ace) {
		t.Error("ContainsCard should find Ah")
	}
	if ContainsCard(cards, queen) {
		t.Error("ContainsCard should not find Qs")
	}
}
