package twentyone

import (
	"time"

	"twentyone-lite/card"
)

// HandView is a hand as one viewer may see it. When Hidden is set, Cards and
// Value only cover the exposed cards and Count tells how many are held.
type HandView struct {
	Cards  []card.Card
	Value  int
	Count  int
	Hidden bool
}

func revealed(h Hand) HandView {
	return HandView{
		Cards: append([]card.Card{}, h...),
		Value: h.Value(),
		Count: len(h),
	}
}

// upCard hides the dealer's first card, the way it is dealt face down.
func upCard(h Hand) HandView {
	if len(h) == 0 {
		return HandView{Hidden: true}
	}
	visible := append([]card.Card{}, h[1:]...)
	return HandView{
		Cards:  visible,
		Value:  HandValue(visible),
		Count:  len(h),
		Hidden: true,
	}
}

func concealed(h Hand) HandView {
	return HandView{Count: len(h), Hidden: true}
}

// TournamentView is returned when a tournament is (re)started.
type TournamentView struct {
	PlayerID    uint64
	Stake       string
	PlayerScore int
	DealerScore int
	TargetScore int
}

// RoundResult is the transport-agnostic outcome of every single-player
// operation. Outcome is OutcomeNone while the round is still in play.
type RoundResult struct {
	PlayerID uint64
	Stake    string
	Phase    Phase

	Player HandView
	Dealer HandView

	PlayerScore int
	DealerScore int

	Outcome      Outcome
	PlayerPoints int
	DealerPoints int

	Winner         Winner
	TournamentOver bool
}

// SessionView is the read-only lookup of one identity's state.
type SessionView struct {
	PlayerID    uint64
	Stake       string
	PlayerScore int
	DealerScore int
	Rounds      int
	Round       *RoundResult
}

// MatchView is one participant's projection of a match: the opponent's hand
// stays hidden.
type MatchView struct {
	MatchID  string
	Stake    string
	Round    int
	Viewer   uint64
	Opponent uint64

	Hand         HandView
	OpponentHand HandView

	Score         int
	OpponentScore int

	Stood    bool
	YourTurn bool
}

// MatchSettlement describes a finished two-player round with both hands shown.
type MatchSettlement struct {
	Round   int
	Hands   [2]HandView
	Outcome MatchOutcome
	Points  int
	Scores  [2]int
}

// MatchUpdate is returned by every two-player operation. Views holds one
// entry per participant unless the tournament finished.
type MatchUpdate struct {
	MatchID string
	Stake   string
	Players [2]uint64

	Busted     bool
	Settlement *MatchSettlement

	Finished bool
	Winner   uint64

	Views []MatchView
}

func (u MatchUpdate) ViewFor(playerID uint64) (MatchView, bool) {
	for _, v := range u.Views {
		if v.Viewer == playerID {
			return v, true
		}
	}
	return MatchView{}, false
}

// TournamentRecord is emitted to hooks when a tournament concludes.
// OpponentID and WinnerID are 0 when the opponent is the dealer.
type TournamentRecord struct {
	ID            string
	Mode          Mode
	MatchID       string
	PlayerID      uint64
	OpponentID    uint64
	Stake         string
	Winner        string
	WinnerID      uint64
	PlayerScore   int
	OpponentScore int
	Rounds        int
	StartedAt     time.Time
	EndedAt       time.Time
}

// Status is the auxiliary read-only counters view.
type Status struct {
	ActiveUsers          int
	KnownUsers           int
	ActiveSessions       int
	ConcludedTournaments uint64
	ActiveMatches        int
	PendingInvitations   int
	Window               time.Duration
}
