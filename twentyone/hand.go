package twentyone

import "twentyone-lite/card"

// Hand is append-only during a round.
type Hand []card.Card

// HandValue sums the cards with aces as 11, then demotes aces to 1 one at a
// time while the total exceeds 21. The result may still exceed 21 (bust).
func HandValue(cards []card.Card) int {
	total := 0
	aces := 0
	for _, c := range cards {
		total += c.Points()
		if c.IsAce() {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

func (h Hand) Value() int { return HandValue(h) }

func (h Hand) IsBust() bool { return HandValue(h) > 21 }

func (h *Hand) Add(cards ...card.Card) {
	*h = append(*h, cards...)
}

func (h Hand) Clone() Hand {
	if h == nil {
		return nil
	}
	out := make(Hand, len(h))
	copy(out, h)
	return out
}
