package lobby

import (
	"context"
	"log"
	"time"

	"twentyone-lite/internal/ledger"
	"twentyone-lite/internal/notify"
	"twentyone-lite/twentyone"
)

// Lobby owns the game engine and fans concluded tournaments out to the
// ledger and the admin channel.
type Lobby struct {
	engine *twentyone.Engine
	ledger ledger.Service
	pub    notify.Publisher
}

// New wires the tournament-end hook. ledgerService and pub may be nil.
func New(engine *twentyone.Engine, ledgerService ledger.Service, pub notify.Publisher) *Lobby {
	if ledgerService == nil {
		ledgerService = ledger.NewMemoryService()
	}
	if pub == nil {
		pub, _, _ = notify.NewPublisher("")
	}
	l := &Lobby{
		engine: engine,
		ledger: ledgerService,
		pub:    pub,
	}
	engine.OnTournamentEnd(l.onTournamentEnd)
	return l
}

func (l *Lobby) Engine() *twentyone.Engine { return l.engine }

func (l *Lobby) Ledger() ledger.Service { return l.ledger }

func (l *Lobby) Status() twentyone.Status { return l.engine.Status() }

func (l *Lobby) onTournamentEnd(rec twentyone.TournamentRecord) {
	log.Printf("[Lobby] Tournament %s ended: mode=%s player=%d opponent=%d winner=%s score=%d:%d rounds=%d stake=%q",
		rec.ID, rec.Mode, rec.PlayerID, rec.OpponentID, rec.Winner, rec.PlayerScore, rec.OpponentScore, rec.Rounds, rec.Stake)

	l.ledger.RecordTournament(rec)
	if err := l.pub.Publish(notify.SubjectTournamentEnded, notify.TournamentEndedFrom(rec)); err != nil {
		log.Printf("[Lobby] publish tournament %s failed: %v", rec.ID, err)
	}
}

// DailyStats collects the figures for the daily admin report.
func (l *Lobby) DailyStats(ctx context.Context, now time.Time) (notify.DailyStats, error) {
	st := l.engine.Status()
	n, err := l.ledger.CountSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return notify.DailyStats{}, err
	}
	return notify.DailyStats{
		Date:               now.Format("2006-01-02"),
		ActiveUsers:        st.ActiveUsers,
		KnownUsers:         st.KnownUsers,
		Tournaments24h:     n,
		ConcludedTotal:     st.ConcludedTournaments,
		ActiveSessions:     st.ActiveSessions,
		ActiveMatches:      st.ActiveMatches,
		PendingInvitations: st.PendingInvitations,
	}, nil
}
