package twentyone

import "errors"

// Error is a recoverable, user-facing precondition failure. Code is stable and
// safe for transports to switch on.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrNoActiveTournament       = &Error{Code: "NoActiveTournament", Message: "no active tournament"}
	ErrTournamentAlreadyDecided = &Error{Code: "TournamentAlreadyDecided", Message: "tournament already decided"}
	ErrNoActiveRound            = &Error{Code: "NoActiveRound", Message: "no active round"}
	ErrNotYourTurn              = &Error{Code: "NotYourTurn", Message: "not your turn"}
	ErrMatchNotFound            = &Error{Code: "MatchNotFound", Message: "match not found"}
	ErrInvitationNotFound       = &Error{Code: "InvitationNotFound", Message: "invitation not found"}
	ErrInvitationAlreadyUsed    = &Error{Code: "InvitationAlreadyUsed", Message: "invitation already used"}
	ErrSelfAccept               = &Error{Code: "SelfAccept", Message: "cannot accept own invitation"}
)

// ErrorCode returns the stable code of an engine error, or "Internal".
func ErrorCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "Internal"
}
