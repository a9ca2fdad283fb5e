package poker

import (
	"testing"
)

func mustCards(t *testing.T, ss ...string) []Card {
	t.Helper()
	cards, err := ParseCards(ss...)
	if err != nil {
		t.Fatalf("bad test cards %v: %v", ss, err)
	}
	return cards
}

func TestEvaluateOrdering(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		community []string
		stronger  []string
		weaker    []string
	}{
		{
			name:      "pair beats high card",
			community: []string{"2c", "7h", "Qs", "9d", "4s"},
			stronger:  []string{"7d", "3c"},
			weaker:    []string{"Ah", "Kd"},
		},
		{
			name:      "flush beats straight",
			community: []string{"2d", "7d", "Jc", "Td", "9s"},
			stronger:  []string{"Ad", "3d"},
			weaker:    []string{"Kh", "Qc"},
		},
		{
			name:      "higher pair wins",
			community: []string{"2c", "7h", "Qs", "9d", "4s"},
			stronger:  []string{"Ah", "As"},
			weaker:    []string{"Kh", "Ks"},
		},
		{
			name:      "kicker decides",
			community: []string{"Qc", "Qh", "7s", "3d", "2s"},
			stronger:  []string{"Ah", "5c"},
			weaker:    []string{"Kh", "5d"},
		},
		{
			name:      "full house beats flush",
			community: []string{"8d", "8c", "Kd", "4d", "2h"},
			stronger:  []string{"8h", "Ks"},
			weaker:    []string{"Ad", "3d"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			community := mustCards(t, tc.community...)
			strong := Evaluate(mustCards(t, tc.stronger...), community)
			weak := Evaluate(mustCards(t, tc.weaker...), community)
			if strong <= weak {
				t.Errorf("Evaluate(%v) = %d should beat Evaluate(%v) = %d",
					tc.stronger, strong, tc.weaker, weak)
			}
		})
	}
}

func TestEvaluateBoardPlaysChop(t *testing.T) {
	t.Parallel()
	community := mustCards(t, "As", "Ad", "Ac", "Ah", "Kd")
	p1 := Evaluate(mustCards(t, "2c", "3c"), community)
	p2 := Evaluate(mustCards(t, "7h", "8h"), community)
	if p1 != p2 {
		t.Errorf("both players play the board, strengths %d != %d", p1, p2)
	}
}

func TestEvaluatePartialBoard(t *testing.T) {
	t.Parallel()
	// Five and six card evaluation must also order correctly.
	flop := mustCards(t, "2c", "7h", "Qs")
	pair := Evaluate(mustCards(t, "Qh", "3d"), flop)
	high := Evaluate(mustCards(t, "Ah", "Kd"), flop)
	if pair <= high {
		t.Errorf("flopped pair %d should beat ace high %d", pair, high)
	}

	turn := mustCards(t, "2c", "7h", "Qs", "Qd")
	trips := Evaluate(mustCards(t, "Qh", "3d"), turn)
	if trips <= pair {
		t.Errorf("trips on the turn %d should beat flopped pair %d", trips, pair)
	}
}

func TestStrengthClass(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		hole      []string
		community []string
		want      Class
	}{
		{"four of a kind", []string{"Ah", "As"}, []string{"Ac", "Ad", "Ks", "2c", "3d"}, FourOfAKind},
		{"straight flush", []string{"Th", "9h"}, []string{"8h", "7h", "6h", "2c", "3d"}, StraightFlush},
		{"two pair", []string{"Ah", "Kd"}, []string{"Ac", "Kh", "7s", "2c", "3d"}, TwoPair},
		{"high card", []string{"Ah", "Kd"}, []string{"Qc", "Js", "9s", "2c", "3d"}, HighCard},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := Evaluate(mustCards(t, tc.hole...), mustCards(t, tc.community...))
			if got := s.Class(); got != tc.want {
				t.Errorf("Class() = %v, want %v", got, tc.want)
			}
			if s.Describe() == "Unknown" || s.Describe() == "" {
				t.Errorf("Describe() = %q", s.Describe())
			}
		})
	}
}

func TestStrengthZeroValue(t *testing.T) {
	t.Parallel()
	var s Strength
	if s.Class() != HighCard {
		t.Errorf("zero Strength Class() = %v", s.Class())
	}
	if s.Describe() != "Unknown" {
		t.Errorf("zero Strength Describe() = %q", s.Describe())
	}
}
