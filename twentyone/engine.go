package twentyone

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"twentyone-lite/twentyone/dealer"
)

// TournamentHook is a post-tournament callback. Hooks run after the engine
// released its locks, on the caller's goroutine.
type TournamentHook func(rec TournamentRecord)

type Engine struct {
	cfg Config

	store       Store
	drawer      Drawer
	dealer      dealer.Policy
	invitations *InvitationRegistry
	locks       *keyLocks
	now         func() time.Time

	nextMatchID uint64
	concluded   uint64

	hooksMu sync.RWMutex
	hooks   []TournamentHook
}

type Option func(*Engine)

func WithStore(s Store) Option {
	return func(e *Engine) { e.store = s }
}

func WithDrawer(d Drawer) Option {
	return func(e *Engine) { e.drawer = d }
}

func WithDealerPolicy(p dealer.Policy) Option {
	return func(e *Engine) { e.dealer = p }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:         cfg,
		invitations: NewInvitationRegistry(cfg.InvitationTTL),
		locks:       newKeyLocks(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = NewMemoryStore()
	}
	if e.drawer == nil {
		e.drawer = NewRandomDrawer(cfg.Seed)
	}
	if e.dealer == nil {
		e.dealer = dealer.StandOn{Threshold: cfg.DealerStandOn}
	}
	return e, nil
}

func (e *Engine) Config() Config { return e.cfg }

// OnTournamentEnd registers a hook fired for every concluded tournament.
func (e *Engine) OnTournamentEnd(hook TournamentHook) {
	if hook == nil {
		return
	}
	e.hooksMu.Lock()
	defer e.hooksMu.Unlock()
	e.hooks = append(e.hooks, hook)
}

func (e *Engine) emit(rec *TournamentRecord) {
	if rec == nil {
		return
	}
	atomic.AddUint64(&e.concluded, 1)
	e.hooksMu.RLock()
	hooks := append([]TournamentHook{}, e.hooks...)
	e.hooksMu.RUnlock()
	for _, hook := range hooks {
		hook(*rec)
	}
}

// Touch records activity of an identity for the status query.
func (e *Engine) Touch(playerID uint64) {
	e.store.RecordVisit(playerID, e.now(), e.cfg.VisitRetention)
}

// Status returns the auxiliary counters. Expired invitations are swept first.
func (e *Engine) Status() Status {
	now := e.now()
	e.invitations.SweepExpired(now)
	return Status{
		ActiveUsers:          e.store.CountActiveSince(now.Add(-e.cfg.ActivityWindow)),
		KnownUsers:           e.store.CountKnown(),
		ActiveSessions:       e.store.CountSessions(),
		ConcludedTournaments: atomic.LoadUint64(&e.concluded),
		ActiveMatches:        e.store.CountMatches(),
		PendingInvitations:   e.invitations.PendingCount(),
		Window:               e.cfg.ActivityWindow,
	}
}

// CreateInvitation registers a pending invitation for inviterID.
func (e *Engine) CreateInvitation(inviterID uint64, stake string) Invitation {
	now := e.now()
	e.invitations.SweepExpired(now)
	return e.invitations.Create(inviterID, CleanStake(stake), now)
}

// AcceptInvitation binds accepterID to the invitation and starts the match.
func (e *Engine) AcceptInvitation(invitationID string, accepterID uint64) (MatchUpdate, error) {
	e.invitations.SweepExpired(e.now())

	inv, err := e.invitations.Accept(invitationID, accepterID)
	if err != nil {
		return MatchUpdate{}, err
	}
	m := e.createMatch(inv.InviterID, accepterID, inv.Stake)
	e.invitations.Delete(inv.ID)
	return m.update(), nil
}

// SweepInvitations exposes the lazy sweep for callers that want to run it
// opportunistically.
func (e *Engine) SweepInvitations() int {
	return e.invitations.SweepExpired(e.now())
}

func (e *Engine) Invitation(id string) (Invitation, bool) {
	return e.invitations.Get(id)
}

func sessionKey(playerID uint64) string {
	return "player:" + strconv.FormatUint(playerID, 10)
}

func matchKey(matchID string) string {
	return "match:" + matchID
}

func (e *Engine) newMatchID() string {
	return fmt.Sprintf("game_%d", atomic.AddUint64(&e.nextMatchID, 1))
}
