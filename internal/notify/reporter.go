package notify

import (
	"context"
	"log"
	"time"
)

// DailyStats is published once a day at the configured local time.
type DailyStats struct {
	Date               string `json:"date"`
	ActiveUsers        int    `json:"active_users_24h"`
	KnownUsers         int    `json:"known_users"`
	Tournaments24h     int    `json:"tournaments_24h"`
	ConcludedTotal     uint64 `json:"concluded_total"`
	ActiveSessions     int    `json:"active_sessions"`
	ActiveMatches      int    `json:"active_matches"`
	PendingInvitations int    `json:"pending_invitations"`
}

type StatsFunc func(ctx context.Context, now time.Time) (DailyStats, error)

type Reporter struct {
	pub     Publisher
	at      time.Duration
	collect StatsFunc
	now     func() time.Time
}

// NewReporter publishes collect's result every day at local midnight + at.
func NewReporter(pub Publisher, at time.Duration, collect StatsFunc) *Reporter {
	return &Reporter{pub: pub, at: at, collect: collect, now: time.Now}
}

// Run blocks until ctx is done.
func (r *Reporter) Run(ctx context.Context) {
	for {
		next := nextRun(r.now(), r.at)
		log.Printf("[Notify] next stats report at %s", next.Format(time.RFC3339))
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		if err := r.Report(ctx); err != nil {
			log.Printf("[Notify] stats report failed: %v", err)
		}
	}
}

func (r *Reporter) Report(ctx context.Context) error {
	now := r.now()
	stats, err := r.collect(ctx, now)
	if err != nil {
		return err
	}
	if stats.Date == "" {
		stats.Date = now.Format("2006-01-02")
	}
	return r.pub.Publish(SubjectDailyStats, stats)
}

// nextRun returns the first moment strictly after now that falls on at past
// local midnight.
func nextRun(now time.Time, at time.Duration) time.Time {
	y, m, d := now.Date()
	next := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).Add(at)
	if !next.After(now) {
		next = time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()).Add(at)
	}
	return next
}
