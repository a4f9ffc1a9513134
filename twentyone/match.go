package twentyone

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Match is the shared state of a two-player tournament. Index every per-seat
// field with SeatA / SeatB.
type Match struct {
	ID      string
	Stake   string
	Players [2]uint64
	Hands   [2]Hand
	Stand   [2]bool
	Turn    Seat
	Round   int
	Scores  [2]int

	CreatedAt time.Time
}

func (m *Match) clone() *Match {
	if m == nil {
		return nil
	}
	out := *m
	out.Hands = [2]Hand{m.Hands[SeatA].Clone(), m.Hands[SeatB].Clone()}
	return &out
}

func (m *Match) seatOf(playerID uint64) (Seat, bool) {
	switch playerID {
	case m.Players[SeatA]:
		return SeatA, true
	case m.Players[SeatB]:
		return SeatB, true
	}
	return SeatA, false
}

// roundOver keeps all four clauses: both stood, both bust, or one bust while
// the other has stood. A round can therefore end in the middle of a player's
// run of hits.
func (m *Match) roundOver() bool {
	bustA := m.Hands[SeatA].IsBust()
	bustB := m.Hands[SeatB].IsBust()
	return (m.Stand[SeatA] && m.Stand[SeatB]) ||
		(bustA && bustB) ||
		(bustA && m.Stand[SeatB]) ||
		(bustB && m.Stand[SeatA])
}

// settle awards the winning hand's value to its owner's tournament score.
func (m *Match) settle() MatchSettlement {
	va, vb := m.Hands[SeatA].Value(), m.Hands[SeatB].Value()
	bustA, bustB := va > 21, vb > 21

	st := MatchSettlement{
		Round: m.Round,
		Hands: [2]HandView{revealed(m.Hands[SeatA]), revealed(m.Hands[SeatB])},
	}
	switch {
	case bustA && bustB:
		st.Outcome = MatchOutcomeBothBust
	case bustA:
		st.Outcome, st.Points = MatchOutcomeSeatB, vb
		m.Scores[SeatB] += vb
	case bustB:
		st.Outcome, st.Points = MatchOutcomeSeatA, va
		m.Scores[SeatA] += va
	case va > vb:
		st.Outcome, st.Points = MatchOutcomeSeatA, va
		m.Scores[SeatA] += va
	case vb > va:
		st.Outcome, st.Points = MatchOutcomeSeatB, vb
		m.Scores[SeatB] += vb
	default:
		st.Outcome = MatchOutcomePush
	}
	st.Scores = m.Scores
	return st
}

func (m *Match) winner(target int) (Seat, bool) {
	switch {
	case m.Scores[SeatA] >= target:
		return SeatA, true
	case m.Scores[SeatB] >= target:
		return SeatB, true
	}
	return SeatA, false
}

func (m *Match) deal(d Drawer) {
	m.Hands[SeatA] = Hand{d.Draw(), d.Draw()}
	m.Hands[SeatB] = Hand{d.Draw(), d.Draw()}
	m.Stand = [2]bool{}
	m.Turn = SeatA
}

func (m *Match) view(seat Seat) MatchView {
	other := seat.Other()
	return MatchView{
		MatchID:       m.ID,
		Stake:         m.Stake,
		Round:         m.Round,
		Viewer:        m.Players[seat],
		Opponent:      m.Players[other],
		Hand:          revealed(m.Hands[seat]),
		OpponentHand:  concealed(m.Hands[other]),
		Score:         m.Scores[seat],
		OpponentScore: m.Scores[other],
		Stood:         m.Stand[seat],
		YourTurn:      m.Turn == seat,
	}
}

func (m *Match) update() MatchUpdate {
	return MatchUpdate{
		MatchID: m.ID,
		Stake:   m.Stake,
		Players: m.Players,
		Views:   []MatchView{m.view(SeatA), m.view(SeatB)},
	}
}

func (e *Engine) createMatch(playerA, playerB uint64, stake string) *Match {
	m := &Match{
		ID:        e.newMatchID(),
		Stake:     stake,
		Players:   [2]uint64{playerA, playerB},
		Round:     1,
		CreatedAt: e.now(),
	}
	m.deal(e.drawer)
	e.store.SaveMatch(m)
	return m
}

// MatchHit draws a card for the acting player. A bust counts as a forced
// stand and passes the turn without resolving the round by itself.
func (e *Engine) MatchHit(matchID string, playerID uint64) (MatchUpdate, error) {
	return e.matchAction(matchID, playerID, func(m *Match, seat Seat) bool {
		m.Hands[seat].Add(e.drawer.Draw())
		if !m.Hands[seat].IsBust() {
			return false
		}
		m.Stand[seat] = true
		m.Turn = seat.Other()
		return true
	})
}

// MatchStand ends the acting player's turn for this round.
func (e *Engine) MatchStand(matchID string, playerID uint64) (MatchUpdate, error) {
	return e.matchAction(matchID, playerID, func(m *Match, seat Seat) bool {
		m.Stand[seat] = true
		m.Turn = seat.Other()
		return false
	})
}

// Match returns viewer's projection of a running match.
func (e *Engine) Match(matchID string, viewer uint64) (MatchView, error) {
	unlock := e.locks.lock(matchKey(matchID))
	defer unlock()

	m, ok := e.store.LoadMatch(matchID)
	if !ok {
		return MatchView{}, ErrMatchNotFound
	}
	seat, ok := m.seatOf(viewer)
	if !ok {
		return MatchView{}, ErrMatchNotFound
	}
	return m.view(seat), nil
}

func (e *Engine) matchAction(matchID string, playerID uint64, act func(m *Match, seat Seat) (busted bool)) (MatchUpdate, error) {
	unlock := e.locks.lock(matchKey(matchID))

	m, ok := e.store.LoadMatch(matchID)
	if !ok {
		unlock()
		return MatchUpdate{}, ErrMatchNotFound
	}
	seat, ok := m.seatOf(playerID)
	if !ok || m.Turn != seat {
		unlock()
		return MatchUpdate{}, ErrNotYourTurn
	}

	busted := act(m, seat)
	if !m.roundOver() {
		e.store.SaveMatch(m)
		unlock()
		upd := m.update()
		upd.Busted = busted
		return upd, nil
	}

	upd, rec := e.endRoundAndContinue(m)
	upd.Busted = busted
	unlock()
	e.emit(rec)
	return upd, nil
}

// endRoundAndContinue settles the round, then either tears the match down on
// a tournament win or deals the next round with player A to act.
func (e *Engine) endRoundAndContinue(m *Match) (MatchUpdate, *TournamentRecord) {
	st := m.settle()
	upd := MatchUpdate{
		MatchID:    m.ID,
		Stake:      m.Stake,
		Players:    m.Players,
		Settlement: &st,
	}

	if seat, won := m.winner(e.cfg.TargetScore); won {
		e.store.DeleteMatch(m.ID)
		upd.Finished = true
		upd.Winner = m.Players[seat]
		return upd, &TournamentRecord{
			ID:            uuid.New().String(),
			Mode:          ModeMatch,
			MatchID:       m.ID,
			PlayerID:      m.Players[SeatA],
			OpponentID:    m.Players[SeatB],
			Stake:         m.Stake,
			Winner:        "player_" + strings.ToLower(seat.String()),
			WinnerID:      m.Players[seat],
			PlayerScore:   m.Scores[SeatA],
			OpponentScore: m.Scores[SeatB],
			Rounds:        m.Round,
			StartedAt:     m.CreatedAt,
			EndedAt:       e.now(),
		}
	}

	m.Round++
	m.deal(e.drawer)
	e.store.SaveMatch(m)
	upd.Views = []MatchView{m.view(SeatA), m.view(SeatB)}
	return upd, nil
}
