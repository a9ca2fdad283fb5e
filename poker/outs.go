package poker

// SeatCards pairs a seat number with that seat's hole cards.
type SeatCards struct {
	Seat int
	Hole []Card
}

// Outs computes, for a leading hand, which of the remaining deck cards
// would cost the leader the pot when dealt as the next community card.
// A card is an out for an opponent when it lifts that opponent strictly
// above the leader, or when it pulls a previously weaker opponent level
// with the leader. Cards that leave an existing tie tied do not count.
// perOpp maps each opponent's seat to the subset of outs that helps that
// specific opponent. Cards are returned in the order they appear in
// remaining.
func Outs(leader SeatCards, opponents []SeatCards, community, remaining []Card) (outs []Card, perOpp map[int][]Card) {
	perOpp = make(map[int][]Card, len(opponents))
	board := make([]Card, len(community), len(community)+1)
	copy(board, community)

	leaderNow := Evaluate(leader.Hole, board)
	oppNow := make([]Strength, len(opponents))
	for i, opp := range opponents {
		oppNow[i] = Evaluate(opp.Hole, board)
	}

	for _, candidate := range remaining {
		b := append(board, candidate)
		leaderThen := Evaluate(leader.Hole, b)
		hit := false
		for i, opp := range opponents {
			oppThen := Evaluate(opp.Hole, b)
			if oppThen > leaderThen || (oppThen == leaderThen && oppNow[i] < leaderNow) {
				perOpp[opp.Seat] = append(perOpp[opp.Seat], candidate)
				hit = true
			}
		}
		if hit {
			outs = append(outs, candidate)
		}
	}
	return outs, perOpp
}
