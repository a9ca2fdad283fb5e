package poker

import (
	evaluator "github.com/chehsunliu/poker"
)

// Strength is a totally ordered hand strength. Higher values are stronger.
// The zero value means "not evaluated".
type Strength int32

// worstRank is the weakest rank the evaluator can return (7-5-4-3-2 offsuit).
const worstRank = 7462

// Class enumerates the categories of poker hands ordered from weakest to strongest.
type Class uint8

const (
	HighCard Class = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable hand category.
func (c Class) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// Evaluate returns the strength of the best 5-card hand drawn from the
// player's hole cards and the community cards. It accepts 5, 6 or 7
// cards in total. The evaluator ranks low-is-strong; Strength flips the
// scale so that higher is stronger.
func Evaluate(hole, community []Card) Strength {
	cards := make([]evaluator.Card, 0, len(hole)+len(community))
	for _, c := range hole {
		cards = append(cards, evaluator.NewCard(c.String()))
	}
	for _, c := range community {
		cards = append(cards, evaluator.NewCard(c.String()))
	}
	return Strength(worstRank + 1 - evaluator.Evaluate(cards))
}

func (s Strength) rank() int32 {
	return worstRank + 1 - int32(s)
}

// Class returns the category of the evaluated hand.
func (s Strength) Class() Class {
	if s <= 0 || s > worstRank {
		return HighCard
	}
	switch evaluator.RankClass(s.rank()) {
	case 1:
		return StraightFlush
	case 2:
		return FourOfAKind
	case 3:
		return FullHouse
	case 4:
		return Flush
	case 5:
		return Straight
	case 6:
		return ThreeOfAKind
	case 7:
		return TwoPair
	case 8:
		return Pair
	default:
		return HighCard
	}
}

// Describe returns the evaluator's description of the hand category.
func (s Strength) Describe() string {
	if s <= 0 || s > worstRank {
		return "Unknown"
	}
	return evaluator.RankString(s.rank())
}
