package twentyone

import (
	"github.com/google/uuid"

	"twentyone-lite/twentyone/dealer"
)

// maxDealerDraws bounds the dealer loop against a policy that never stands.
const maxDealerDraws = 32

// StartTournament (re)starts the tournament for playerID against the dealer.
// Any previous round and scores are discarded.
func (e *Engine) StartTournament(playerID uint64, stake string) TournamentView {
	unlock := e.locks.lock(sessionKey(playerID))
	defer unlock()

	s := &Session{
		PlayerID: playerID,
		Tournament: &Tournament{
			Stake:     CleanStake(stake),
			StartedAt: e.now(),
		},
	}
	e.store.SaveSession(s)
	return TournamentView{
		PlayerID:    playerID,
		Stake:       s.Tournament.Stake,
		TargetScore: e.cfg.TargetScore,
	}
}

// StartRound deals two cards each to the player and the dealer. An
// unresolved previous round is discarded.
func (e *Engine) StartRound(playerID uint64) (RoundResult, error) {
	unlock := e.locks.lock(sessionKey(playerID))
	defer unlock()

	s, ok := e.store.LoadSession(playerID)
	if !ok || s.Tournament == nil {
		return RoundResult{}, ErrNoActiveTournament
	}
	if e.tournamentWinner(s.Tournament) != WinnerNone {
		return RoundResult{}, ErrTournamentAlreadyDecided
	}

	s.Round = &Round{
		Player: Hand{e.drawer.Draw(), e.drawer.Draw()},
		Dealer: Hand{e.drawer.Draw(), e.drawer.Draw()},
		Phase:  PhasePlayerTurn,
	}
	s.Tournament.Rounds++
	e.store.SaveSession(s)
	return inPlayResult(s), nil
}

// Hit draws one card for the player; going over 21 resolves the round.
func (e *Engine) Hit(playerID uint64) (RoundResult, error) {
	unlock := e.locks.lock(sessionKey(playerID))
	s, err := e.loadPlayerTurn(playerID)
	if err != nil {
		unlock()
		return RoundResult{}, err
	}

	s.Round.Player.Add(e.drawer.Draw())
	if !s.Round.Player.IsBust() {
		e.store.SaveSession(s)
		unlock()
		return inPlayResult(s), nil
	}

	res, rec := e.resolveRound(s, OutcomePlayerBust)
	unlock()
	e.emit(rec)
	return res, nil
}

// Stand hands the round to the dealer, which plays out its policy at once.
func (e *Engine) Stand(playerID uint64) (RoundResult, error) {
	unlock := e.locks.lock(sessionKey(playerID))
	s, err := e.loadPlayerTurn(playerID)
	if err != nil {
		unlock()
		return RoundResult{}, err
	}

	s.Round.Phase = PhaseDealerTurn
	e.playDealer(s.Round)

	dv, pv := s.Round.Dealer.Value(), s.Round.Player.Value()
	var outcome Outcome
	switch {
	case dv > 21:
		outcome = OutcomeDealerBust
	case dv > pv:
		outcome = OutcomeDealerWins
	case dv < pv:
		outcome = OutcomePlayerWins
	default:
		outcome = OutcomePush
	}

	res, rec := e.resolveRound(s, outcome)
	unlock()
	e.emit(rec)
	return res, nil
}

// Surrender gives the dealer half of its as-dealt hand value, rounded down.
func (e *Engine) Surrender(playerID uint64) (RoundResult, error) {
	unlock := e.locks.lock(sessionKey(playerID))
	s, err := e.loadPlayerTurn(playerID)
	if err != nil {
		unlock()
		return RoundResult{}, err
	}

	res, rec := e.resolveRound(s, OutcomeSurrender)
	unlock()
	e.emit(rec)
	return res, nil
}

// ResetIdentity clears round, stake and scores and reports what was present.
func (e *Engine) ResetIdentity(playerID uint64) []ResetItem {
	unlock := e.locks.lock(sessionKey(playerID))
	defer unlock()

	s, ok := e.store.LoadSession(playerID)
	if !ok {
		return nil
	}
	var cleared []ResetItem
	if s.Round != nil {
		cleared = append(cleared, ResetRound)
	}
	if s.Tournament != nil {
		cleared = append(cleared, ResetBet, ResetPlayerScore, ResetDealerScore)
	}
	e.store.DeleteSession(playerID)
	return cleared
}

// Session looks up the state kept for playerID.
func (e *Engine) Session(playerID uint64) (SessionView, bool) {
	unlock := e.locks.lock(sessionKey(playerID))
	defer unlock()

	s, ok := e.store.LoadSession(playerID)
	if !ok || s.empty() {
		return SessionView{}, false
	}
	view := SessionView{PlayerID: playerID}
	if s.Tournament != nil {
		view.Stake = s.Tournament.Stake
		view.PlayerScore = s.Tournament.PlayerScore
		view.DealerScore = s.Tournament.DealerScore
		view.Rounds = s.Tournament.Rounds
	}
	if s.Round != nil {
		res := inPlayResult(s)
		view.Round = &res
	}
	return view, true
}

func (e *Engine) loadPlayerTurn(playerID uint64) (*Session, error) {
	s, ok := e.store.LoadSession(playerID)
	if !ok || s.Round == nil || s.Round.Phase != PhasePlayerTurn {
		return nil, ErrNoActiveRound
	}
	if s.Tournament == nil {
		return nil, ErrNoActiveTournament
	}
	return s, nil
}

func (e *Engine) playDealer(r *Round) {
	for i := 0; i < maxDealerDraws; i++ {
		view := dealer.View{
			Cards:       append(Hand{}, r.Dealer...),
			Value:       r.Dealer.Value(),
			PlayerValue: r.Player.Value(),
		}
		if !e.dealer.ShouldHit(view) {
			return
		}
		r.Dealer.Add(e.drawer.Draw())
	}
}

// resolveRound applies the scoring rule, checks for a tournament winner and
// tears down state. The winning side is awarded its own hand value.
func (e *Engine) resolveRound(s *Session, outcome Outcome) (RoundResult, *TournamentRecord) {
	t := s.Tournament
	pv, dv := s.Round.Player.Value(), s.Round.Dealer.Value()

	var playerPoints, dealerPoints int
	switch outcome {
	case OutcomePlayerWins, OutcomeDealerBust:
		playerPoints = pv
	case OutcomeDealerWins, OutcomePlayerBust:
		dealerPoints = dv
	case OutcomeSurrender:
		dealerPoints = dv / 2
	}
	t.PlayerScore += playerPoints
	t.DealerScore += dealerPoints
	s.Round.Phase = PhaseResolved

	res := RoundResult{
		PlayerID:     s.PlayerID,
		Stake:        t.Stake,
		Phase:        PhaseResolved,
		Player:       revealed(s.Round.Player),
		Dealer:       revealed(s.Round.Dealer),
		PlayerScore:  t.PlayerScore,
		DealerScore:  t.DealerScore,
		Outcome:      outcome,
		PlayerPoints: playerPoints,
		DealerPoints: dealerPoints,
	}

	winner := e.tournamentWinner(t)
	if winner == WinnerNone {
		s.Round = nil
		e.store.SaveSession(s)
		return res, nil
	}

	res.Winner = winner
	res.TournamentOver = true
	e.store.DeleteSession(s.PlayerID)

	rec := &TournamentRecord{
		ID:            uuid.New().String(),
		Mode:          ModeSingle,
		PlayerID:      s.PlayerID,
		Stake:         t.Stake,
		Winner:        winner.String(),
		PlayerScore:   t.PlayerScore,
		OpponentScore: t.DealerScore,
		Rounds:        t.Rounds,
		StartedAt:     t.StartedAt,
		EndedAt:       e.now(),
	}
	if winner == WinnerPlayer {
		rec.WinnerID = s.PlayerID
	}
	return res, rec
}

func (e *Engine) tournamentWinner(t *Tournament) Winner {
	switch {
	case t.PlayerScore >= e.cfg.TargetScore:
		return WinnerPlayer
	case t.DealerScore >= e.cfg.TargetScore:
		return WinnerDealer
	}
	return WinnerNone
}

func inPlayResult(s *Session) RoundResult {
	res := RoundResult{
		PlayerID: s.PlayerID,
		Phase:    s.Round.Phase,
		Player:   revealed(s.Round.Player),
		Dealer:   upCard(s.Round.Dealer),
	}
	if s.Tournament != nil {
		res.Stake = s.Tournament.Stake
		res.PlayerScore = s.Tournament.PlayerScore
		res.DealerScore = s.Tournament.DealerScore
	}
	return res
}
