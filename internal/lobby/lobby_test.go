package lobby

import (
	"context"
	"sync"
	"testing"
	"time"

	"twentyone-lite/internal/ledger"
	"twentyone-lite/internal/notify"
	"twentyone-lite/twentyone"
)

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (p *recordingPublisher) Publish(subject string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return nil
}

func (p *recordingPublisher) Close() {}

func TestLobby_RecordsAndPublishesConcludedTournament(t *testing.T) {
	cfg := twentyone.DefaultConfig()
	cfg.TargetScore = 1
	cfg.Seed = 42
	engine, err := twentyone.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	store := ledger.NewMemoryService()
	pub := &recordingPublisher{}
	lby := New(engine, store, pub)

	engine.Touch(5)
	engine.StartTournament(5, "на пиво")
	if _, err := engine.StartRound(5); err != nil {
		t.Fatal(err)
	}
	// Any surrender hands the dealer at least 2 points.
	res, err := engine.Surrender(5)
	if err != nil {
		t.Fatal(err)
	}
	if !res.TournamentOver {
		t.Fatalf("tournament should be over: %+v", res)
	}

	items, err := store.ListRecent(context.Background(), 5, 10)
	if err != nil || len(items) != 1 {
		t.Fatalf("expected one history item, got %d err=%v", len(items), err)
	}
	if items[0].Summary["winner"] != "dealer" || items[0].Summary["stake"] != "пиво" {
		t.Fatalf("unexpected summary: %v", items[0].Summary)
	}
	if len(pub.subjects) != 1 || pub.subjects[0] != notify.SubjectTournamentEnded {
		t.Fatalf("unexpected publications: %v", pub.subjects)
	}

	stats, err := lby.DailyStats(context.Background(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Tournaments24h != 1 || stats.ConcludedTotal != 1 || stats.ActiveUsers != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
