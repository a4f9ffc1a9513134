package dealer

import "twentyone-lite/card"

// View is the read-only projection of the round the dealer decides on.
type View struct {
	Cards       []card.Card
	Value       int
	PlayerValue int
}

// Policy decides whether the automated dealer draws another card.
type Policy interface {
	// ShouldHit is called before every dealer draw.
	ShouldHit(view View) bool
	// Name returns a human-readable identifier for debugging.
	Name() string
}

// StandOn draws while the hand is below Threshold and never looks at the
// player's hand. Draws are not capped at 21, so the dealer can bust.
type StandOn struct {
	Threshold int
}

func (p StandOn) ShouldHit(view View) bool {
	return view.Value < p.Threshold
}

func (p StandOn) Name() string { return "stand_on" }
