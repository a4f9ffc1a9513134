package gateway

import (
	"time"

	"twentyone-lite/card"
	"twentyone-lite/twentyone"
)

type ClientMessage struct {
	Seq          uint64 `json:"seq,omitempty"`
	Op           string `json:"op"`
	Stake        string `json:"stake,omitempty"`
	InvitationID string `json:"invitation_id,omitempty"`
	MatchID      string `json:"match_id,omitempty"`
}

type ServerMessage struct {
	Type string `json:"type"`
	Seq  uint64 `json:"seq,omitempty"`
	TsMs int64  `json:"ts_ms"`

	Tournament *TournamentDTO `json:"tournament,omitempty"`
	Round      *RoundDTO      `json:"round,omitempty"`
	Session    *SessionDTO    `json:"session,omitempty"`
	Reset      []string       `json:"reset,omitempty"`
	Invitation *InvitationDTO `json:"invitation,omitempty"`
	Match      *MatchDTO      `json:"match,omitempty"`
	Status     *StatusDTO     `json:"status,omitempty"`
	Error      *ErrorDTO      `json:"error,omitempty"`
}

type ErrorDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type HandDTO struct {
	Cards  []string `json:"cards"`
	Value  int      `json:"value"`
	Count  int      `json:"count"`
	Hidden bool     `json:"hidden,omitempty"`
}

type TournamentDTO struct {
	Stake       string `json:"stake"`
	PlayerScore int    `json:"player_score"`
	DealerScore int    `json:"dealer_score"`
	TargetScore int    `json:"target_score"`
}

type RoundDTO struct {
	Stake          string  `json:"stake"`
	Phase          string  `json:"phase"`
	Player         HandDTO `json:"player"`
	Dealer         HandDTO `json:"dealer"`
	PlayerScore    int     `json:"player_score"`
	DealerScore    int     `json:"dealer_score"`
	Outcome        string  `json:"outcome,omitempty"`
	PlayerPoints   int     `json:"player_points,omitempty"`
	DealerPoints   int     `json:"dealer_points,omitempty"`
	Winner         string  `json:"winner,omitempty"`
	TournamentOver bool    `json:"tournament_over,omitempty"`
}

type SessionDTO struct {
	Found       bool      `json:"found"`
	Stake       string    `json:"stake,omitempty"`
	PlayerScore int       `json:"player_score"`
	DealerScore int       `json:"dealer_score"`
	Rounds      int       `json:"rounds"`
	Round       *RoundDTO `json:"round,omitempty"`
}

type InvitationDTO struct {
	ID        string `json:"id"`
	InviterID uint64 `json:"inviter_id"`
	Stake     string `json:"stake"`
	Status    string `json:"status"`
}

type SettlementDTO struct {
	Round   int        `json:"round"`
	Players [2]uint64  `json:"players"`
	Hands   [2]HandDTO `json:"hands"`
	Outcome string     `json:"outcome"`
	Points  int        `json:"points"`
	Scores  [2]int     `json:"scores"`
}

type MatchDTO struct {
	MatchID       string         `json:"match_id"`
	Stake         string         `json:"stake"`
	Round         int            `json:"round,omitempty"`
	Opponent      uint64         `json:"opponent"`
	Hand          *HandDTO       `json:"hand,omitempty"`
	OpponentHand  *HandDTO       `json:"opponent_hand,omitempty"`
	Score         int            `json:"score"`
	OpponentScore int            `json:"opponent_score"`
	Stood         bool           `json:"stood,omitempty"`
	YourTurn      bool           `json:"your_turn"`
	Busted        bool           `json:"busted,omitempty"`
	Settlement    *SettlementDTO `json:"settlement,omitempty"`
	Finished      bool           `json:"finished,omitempty"`
	Winner        uint64         `json:"winner,omitempty"`
}

type StatusDTO struct {
	ActiveUsers          int    `json:"active_users"`
	KnownUsers           int    `json:"known_users"`
	ActiveSessions       int    `json:"active_sessions"`
	ConcludedTournaments uint64 `json:"concluded_tournaments"`
	ActiveMatches        int    `json:"active_matches"`
	PendingInvitations   int    `json:"pending_invitations"`
	WindowHours          int    `json:"window_hours"`
}

func handToDTO(h twentyone.HandView) HandDTO {
	return HandDTO{
		Cards:  card.Strings(h.Cards),
		Value:  h.Value,
		Count:  h.Count,
		Hidden: h.Hidden,
	}
}

func roundToDTO(r twentyone.RoundResult) *RoundDTO {
	dto := &RoundDTO{
		Stake:          r.Stake,
		Phase:          r.Phase.String(),
		Player:         handToDTO(r.Player),
		Dealer:         handToDTO(r.Dealer),
		PlayerScore:    r.PlayerScore,
		DealerScore:    r.DealerScore,
		PlayerPoints:   r.PlayerPoints,
		DealerPoints:   r.DealerPoints,
		TournamentOver: r.TournamentOver,
	}
	if r.Outcome != twentyone.OutcomeNone {
		dto.Outcome = r.Outcome.String()
	}
	if r.Winner != twentyone.WinnerNone {
		dto.Winner = r.Winner.String()
	}
	return dto
}

func tournamentToDTO(v twentyone.TournamentView) *TournamentDTO {
	return &TournamentDTO{
		Stake:       v.Stake,
		PlayerScore: v.PlayerScore,
		DealerScore: v.DealerScore,
		TargetScore: v.TargetScore,
	}
}

func sessionToDTO(v twentyone.SessionView, found bool) *SessionDTO {
	if !found {
		return &SessionDTO{}
	}
	dto := &SessionDTO{
		Found:       true,
		Stake:       v.Stake,
		PlayerScore: v.PlayerScore,
		DealerScore: v.DealerScore,
		Rounds:      v.Rounds,
	}
	if v.Round != nil {
		dto.Round = roundToDTO(*v.Round)
	}
	return dto
}

func invitationToDTO(inv twentyone.Invitation) *InvitationDTO {
	return &InvitationDTO{
		ID:        inv.ID,
		InviterID: inv.InviterID,
		Stake:     inv.Stake,
		Status:    inv.Status.String(),
	}
}

func matchViewToDTO(v twentyone.MatchView) *MatchDTO {
	hand := handToDTO(v.Hand)
	opp := handToDTO(v.OpponentHand)
	return &MatchDTO{
		MatchID:       v.MatchID,
		Stake:         v.Stake,
		Round:         v.Round,
		Opponent:      v.Opponent,
		Hand:          &hand,
		OpponentHand:  &opp,
		Score:         v.Score,
		OpponentScore: v.OpponentScore,
		Stood:         v.Stood,
		YourTurn:      v.YourTurn,
	}
}

// matchUpdateFor projects an update onto one participant.
func matchUpdateFor(u twentyone.MatchUpdate, playerID uint64) *MatchDTO {
	var dto *MatchDTO
	if v, ok := u.ViewFor(playerID); ok {
		dto = matchViewToDTO(v)
	} else {
		dto = &MatchDTO{MatchID: u.MatchID, Stake: u.Stake}
		if u.Players[twentyone.SeatA] == playerID {
			dto.Opponent = u.Players[twentyone.SeatB]
		} else {
			dto.Opponent = u.Players[twentyone.SeatA]
		}
	}
	dto.Busted = u.Busted
	dto.Finished = u.Finished
	dto.Winner = u.Winner
	if st := u.Settlement; st != nil {
		dto.Settlement = &SettlementDTO{
			Round:   st.Round,
			Players: u.Players,
			Hands:   [2]HandDTO{handToDTO(st.Hands[0]), handToDTO(st.Hands[1])},
			Outcome: st.Outcome.String(),
			Points:  st.Points,
			Scores:  st.Scores,
		}
		if u.Finished {
			seat := twentyone.SeatA
			if u.Players[twentyone.SeatB] == playerID {
				seat = twentyone.SeatB
			}
			dto.Score = st.Scores[seat]
			dto.OpponentScore = st.Scores[seat.Other()]
		}
	}
	return dto
}

func statusToDTO(st twentyone.Status) *StatusDTO {
	return &StatusDTO{
		ActiveUsers:          st.ActiveUsers,
		KnownUsers:           st.KnownUsers,
		ActiveSessions:       st.ActiveSessions,
		ConcludedTournaments: st.ConcludedTournaments,
		ActiveMatches:        st.ActiveMatches,
		PendingInvitations:   st.PendingInvitations,
		WindowHours:          int(st.Window / time.Hour),
	}
}

func errorToDTO(err error) *ErrorDTO {
	return &ErrorDTO{Code: twentyone.ErrorCode(err), Message: err.Error()}
}
