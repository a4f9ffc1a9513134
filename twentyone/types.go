package twentyone

// Phase of a single-player round.
type Phase byte

const (
	PhasePlayerTurn Phase = 1
	PhaseDealerTurn Phase = 2
	PhaseResolved   Phase = 3
)

var PhaseDictionary = map[Phase]string{
	PhasePlayerTurn: "player_turn",
	PhaseDealerTurn: "dealer_turn",
	PhaseResolved:   "resolved",
}

func (p Phase) String() string {
	if s, ok := PhaseDictionary[p]; ok {
		return s
	}
	return "unknown"
}

// Outcome of a resolved single-player round. The transport maps these to text.
type Outcome byte

const (
	OutcomeNone       Outcome = 0
	OutcomePlayerWins Outcome = 1
	OutcomeDealerWins Outcome = 2
	OutcomePlayerBust Outcome = 3
	OutcomeDealerBust Outcome = 4
	OutcomeSurrender  Outcome = 5
	OutcomePush       Outcome = 6
)

var OutcomeDictionary = map[Outcome]string{
	OutcomeNone:       "none",
	OutcomePlayerWins: "player_wins",
	OutcomeDealerWins: "dealer_wins",
	OutcomePlayerBust: "player_bust",
	OutcomeDealerBust: "dealer_bust",
	OutcomeSurrender:  "surrender",
	OutcomePush:       "push",
}

func (o Outcome) String() string {
	if s, ok := OutcomeDictionary[o]; ok {
		return s
	}
	return "unknown"
}

// Winner of a single-player tournament.
type Winner byte

const (
	WinnerNone   Winner = 0
	WinnerPlayer Winner = 1
	WinnerDealer Winner = 2
)

func (w Winner) String() string {
	switch w {
	case WinnerPlayer:
		return "player"
	case WinnerDealer:
		return "dealer"
	}
	return "none"
}

// Seat in a two-player match. SeatA is always the inviter and acts first.
type Seat byte

const (
	SeatA Seat = 0
	SeatB Seat = 1
)

func (s Seat) Other() Seat { return 1 - s }

func (s Seat) String() string {
	if s == SeatA {
		return "A"
	}
	return "B"
}

// MatchOutcome of one settled two-player round.
type MatchOutcome byte

const (
	MatchOutcomeBothBust MatchOutcome = 1
	MatchOutcomeSeatA    MatchOutcome = 2
	MatchOutcomeSeatB    MatchOutcome = 3
	MatchOutcomePush     MatchOutcome = 4
)

var MatchOutcomeDictionary = map[MatchOutcome]string{
	MatchOutcomeBothBust: "both_bust",
	MatchOutcomeSeatA:    "player_a_wins",
	MatchOutcomeSeatB:    "player_b_wins",
	MatchOutcomePush:     "push",
}

func (o MatchOutcome) String() string {
	if s, ok := MatchOutcomeDictionary[o]; ok {
		return s
	}
	return "unknown"
}

// ResetItem names one piece of per-identity state cleared by ResetIdentity.
type ResetItem string

const (
	ResetRound       ResetItem = "round"
	ResetBet         ResetItem = "bet"
	ResetPlayerScore ResetItem = "player_score"
	ResetDealerScore ResetItem = "dealer_score"
)

// Mode of a concluded tournament.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeMatch  Mode = "match"
)
