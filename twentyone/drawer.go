package twentyone

import (
	"math/rand"
	"sync"
	"time"

	"twentyone-lite/card"
)

// Drawer is the only randomized primitive of the engine.
type Drawer interface {
	Draw() card.Card
}

// RandomDrawer draws uniformly from the full 52-card set with replacement:
// there is no shoe, so the same card may show up twice in one hand.
type RandomDrawer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomDrawer(seed int64) *RandomDrawer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomDrawer{rng: rand.New(rand.NewSource(seed))}
}

func (d *RandomDrawer) Draw() card.Card {
	d.mu.Lock()
	defer d.mu.Unlock()
	return card.FullDeck[d.rng.Intn(len(card.FullDeck))]
}
