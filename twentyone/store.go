package twentyone

import (
	"sync"
	"time"
)

// Tournament is the per-identity score sheet against the dealer.
type Tournament struct {
	Stake       string
	PlayerScore int
	DealerScore int
	Rounds      int
	StartedAt   time.Time
}

// Round is one single-player deal. It only lives until it is resolved.
type Round struct {
	Player Hand
	Dealer Hand
	Phase  Phase
}

// Session groups everything the single-player engine keeps for one identity.
type Session struct {
	PlayerID   uint64
	Tournament *Tournament
	Round      *Round
}

func (s *Session) empty() bool {
	return s.Tournament == nil && s.Round == nil
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	out := &Session{PlayerID: s.PlayerID}
	if s.Tournament != nil {
		t := *s.Tournament
		out.Tournament = &t
	}
	if s.Round != nil {
		out.Round = &Round{
			Player: s.Round.Player.Clone(),
			Dealer: s.Round.Dealer.Clone(),
			Phase:  s.Round.Phase,
		}
	}
	return out
}

// Store is the repository behind the engine. Implementations must be safe for
// concurrent use; the engine serializes mutations per key on top of it.
type Store interface {
	LoadSession(playerID uint64) (*Session, bool)
	SaveSession(s *Session)
	DeleteSession(playerID uint64)
	CountSessions() int

	LoadMatch(matchID string) (*Match, bool)
	SaveMatch(m *Match)
	DeleteMatch(matchID string)
	CountMatches() int

	// RecordVisit appends a visit and drops visits older than now-retention.
	RecordVisit(playerID uint64, at time.Time, retention time.Duration)
	CountActiveSince(since time.Time) int
	CountKnown() int
}

// MemoryStore keeps everything in process memory. Values are copied on the
// way in and out so callers never share mutable state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uint64]*Session
	matches  map[string]*Match
	visits   map[uint64][]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[uint64]*Session),
		matches:  make(map[string]*Match),
		visits:   make(map[uint64][]time.Time),
	}
}

func (m *MemoryStore) LoadSession(playerID uint64) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[playerID]
	if !ok {
		return nil, false
	}
	return s.clone(), true
}

func (m *MemoryStore) SaveSession(s *Session) {
	if s == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.PlayerID] = s.clone()
}

func (m *MemoryStore) DeleteSession(playerID uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, playerID)
}

func (m *MemoryStore) CountSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemoryStore) LoadMatch(matchID string) (*Match, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	match, ok := m.matches[matchID]
	if !ok {
		return nil, false
	}
	return match.clone(), true
}

func (m *MemoryStore) SaveMatch(match *Match) {
	if match == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches[match.ID] = match.clone()
}

func (m *MemoryStore) DeleteMatch(matchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.matches, matchID)
}

func (m *MemoryStore) CountMatches() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.matches)
}

func (m *MemoryStore) RecordVisit(playerID uint64, at time.Time, retention time.Duration) {
	cutoff := at.Add(-retention)
	m.mu.Lock()
	defer m.mu.Unlock()
	visits := append(m.visits[playerID], at)
	kept := visits[:0]
	for _, v := range visits {
		if !v.Before(cutoff) {
			kept = append(kept, v)
		}
	}
	m.visits[playerID] = kept
}

func (m *MemoryStore) CountActiveSince(since time.Time) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, visits := range m.visits {
		for _, v := range visits {
			if !v.Before(since) {
				n++
				break
			}
		}
	}
	return n
}

func (m *MemoryStore) CountKnown() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.visits)
}
