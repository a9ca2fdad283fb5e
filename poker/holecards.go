package poker

// HoleCards holds a player's private cards plus a per-card show flag
// set when the player reveals at showdown.
type HoleCards struct {
	cards []Card
	flags []bool
}

// SetCards replaces the hole cards and clears the show flags.
func (h *HoleCards) SetCards(cards []Card) {
	h.cards = append(h.cards[:0], cards...)
	h.flags = make([]bool, len(cards))
}

// Cards returns the hole cards in deal order.
func (h *HoleCards) Cards() []Card {
	return h.cards
}

// ShowCards flags every hole card as shown.
func (h *HoleCards) ShowCards() {
	for i := range h.flags {
		h.flags[i] = true
	}
}

// Shown reports whether the card at index i has been revealed.
func (h *HoleCards) Shown(i int) bool {
	return i < len(h.flags) && h.flags[i]
}

// Clear drops the cards and flags.
func (h *HoleCards) Clear() {
	h.cards = h.cards[:0]
	h.flags = h.flags[:0]
}
