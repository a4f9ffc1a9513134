package twentyone

import (
	"fmt"
	"sync"
	"time"
)

type InvitationStatus byte

const (
	InvitationPending  InvitationStatus = 1
	InvitationAccepted InvitationStatus = 2
	InvitationExpired  InvitationStatus = 3
)

func (s InvitationStatus) String() string {
	switch s {
	case InvitationPending:
		return "pending"
	case InvitationAccepted:
		return "accepted"
	case InvitationExpired:
		return "expired"
	}
	return "unknown"
}

// Invitation binds an inviter and a stake until somebody accepts it.
// InviteeID is 0 until accepted.
type Invitation struct {
	ID        string
	InviterID uint64
	InviteeID uint64
	Stake     string
	CreatedAt time.Time
	Status    InvitationStatus
}

// InvitationRegistry holds pending invitations. Expiry is lazy: nothing
// removes an invitation until SweepExpired runs.
type InvitationRegistry struct {
	mu      sync.Mutex
	ttl     time.Duration
	counter uint64
	items   map[string]*Invitation
}

func NewInvitationRegistry(ttl time.Duration) *InvitationRegistry {
	return &InvitationRegistry{
		ttl:   ttl,
		items: make(map[string]*Invitation),
	}
}

// Create registers a pending invitation and returns its id.
func (r *InvitationRegistry) Create(inviterID uint64, stake string, now time.Time) Invitation {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counter++
	inv := &Invitation{
		ID:        fmt.Sprintf("inv_%d_%d", r.counter, inviterID),
		InviterID: inviterID,
		Stake:     stake,
		CreatedAt: now,
		Status:    InvitationPending,
	}
	r.items[inv.ID] = inv
	return *inv
}

// Accept binds accepterID to a pending invitation. The caller creates the
// match and then deletes the record.
func (r *InvitationRegistry) Accept(id string, accepterID uint64) (Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.items[id]
	if !ok {
		return Invitation{}, ErrInvitationNotFound
	}
	if inv.Status != InvitationPending {
		return Invitation{}, ErrInvitationAlreadyUsed
	}
	if inv.InviterID == accepterID {
		return Invitation{}, ErrSelfAccept
	}
	inv.InviteeID = accepterID
	inv.Status = InvitationAccepted
	return *inv, nil
}

func (r *InvitationRegistry) Get(id string) (Invitation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.items[id]
	if !ok {
		return Invitation{}, false
	}
	return *inv, true
}

func (r *InvitationRegistry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
}

// SweepExpired drops pending invitations older than the TTL and returns how
// many were removed.
func (r *InvitationRegistry) SweepExpired(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, inv := range r.items {
		if inv.Status != InvitationPending {
			continue
		}
		if now.Sub(inv.CreatedAt) > r.ttl {
			inv.Status = InvitationExpired
			delete(r.items, id)
			removed++
		}
	}
	return removed
}

func (r *InvitationRegistry) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, inv := range r.items {
		if inv.Status == InvitationPending {
			n++
		}
	}
	return n
}
