package twentyone

import (
	"sync"
	"testing"
	"time"

	"twentyone-lite/card"
)

// scriptDrawer hands out cards in a fixed order, then 2♣ forever.
type scriptDrawer struct {
	mu    sync.Mutex
	cards []card.Card
}

func script(cards ...string) *scriptDrawer {
	d := &scriptDrawer{}
	d.push(cards...)
	return d
}

func (d *scriptDrawer) push(cards ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range cards {
		d.cards = append(d.cards, card.MustParse(s))
	}
}

func (d *scriptDrawer) Draw() card.Card {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.cards) == 0 {
		return card.MustParse("2c")
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestEngine(t *testing.T, cfg Config, d Drawer, clock *fakeClock) *Engine {
	t.Helper()
	if clock == nil {
		clock = newFakeClock()
	}
	e, err := New(cfg, WithDrawer(d), WithClock(clock.Now))
	if err != nil {
		t.Fatalf("New err: %v", err)
	}
	return e
}

func collectRecords(e *Engine) *[]TournamentRecord {
	var mu sync.Mutex
	recs := &[]TournamentRecord{}
	e.OnTournamentEnd(func(rec TournamentRecord) {
		mu.Lock()
		defer mu.Unlock()
		*recs = append(*recs, rec)
	})
	return recs
}

func expectCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", code)
	}
	if got := ErrorCode(err); got != code {
		t.Fatalf("expected %s, got %s (%v)", code, got, err)
	}
}
