// Package session holds the client's authentication state.
//
// The Store merges two sources into one state: results of explicit calls
// (Login, Register, Logout) and session changes pushed by the auth provider.
// The provider gives no ordering token, so whichever update is applied last
// wins. The startup probe is the one exception: if a provider event lands
// while the probe is in flight, the probe's answer is older and is dropped.
package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/memoria/internal/client/models"
	"github.com/dmitrijs2005/memoria/internal/client/services"
	"github.com/dmitrijs2005/memoria/internal/logging"
)

type Status int

const (
	Initializing Status = iota
	Authenticated
	Anonymous
)

func (s Status) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// State is a snapshot of the session. Loading is true while initializing or
// while an explicit call is in flight.
type State struct {
	Status  Status
	User    *models.User
	Loading bool
}

// Result is the pass-through outcome of Login and Register.
type Result struct {
	Success bool
	Err     error
}

// Message returns the user-facing error text, empty on success.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

type Store struct {
	auth   services.AuthService
	logger logging.Logger

	mu        sync.Mutex
	status    Status
	user      *models.User
	busy      int
	version   uint64
	seq       uint64
	started   bool
	closed    bool
	unsubAuth func()
	subs      map[int]func(State)
	nextID    int

	// notifyMu serializes dispatch; notified is the seq last delivered.
	notifyMu sync.Mutex
	notified uint64
}

func New(auth services.AuthService, logger logging.Logger) *Store {
	return &Store{
		auth:   auth,
		logger: logger.With("component", "session"),
		status: Initializing,
		subs:   make(map[int]func(State)),
	}
}

// Start subscribes to provider events and probes for a restored session.
// It blocks until the probe finishes; run it in a goroutine to keep the
// Initializing state observable. Calling Start more than once is a no-op.
func (s *Store) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	unsub := s.auth.OnAuthStateChange(s.onProviderUser)

	s.mu.Lock()
	s.unsubAuth = unsub
	probeVersion := s.version
	s.mu.Unlock()

	u, _ := s.auth.CurrentUser(ctx)

	s.mu.Lock()
	if s.closed || s.version != probeVersion {
		s.mu.Unlock()
		s.logger.Debug(ctx, "startup probe superseded by provider event")
		return
	}
	st := s.setUserLocked(u)
	seq := s.nextSeqLocked()
	s.mu.Unlock()

	s.notify(st, seq)
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Store) Login(ctx context.Context, email, password string) Result {
	s.beginBusy()
	u, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.endBusy(nil, false)
		return Result{Err: err}
	}
	s.endBusy(u, true)
	return Result{Success: true}
}

func (s *Store) Register(ctx context.Context, email, password, name string) Result {
	s.beginBusy()
	u, err := s.auth.Register(ctx, email, password, name)
	if err != nil {
		s.endBusy(nil, false)
		return Result{Err: err}
	}
	s.endBusy(u, true)
	return Result{Success: true}
}

// Logout always ends Anonymous. A remote failure has been logged by the
// gateway and is not reported.
func (s *Store) Logout(ctx context.Context) {
	s.beginBusy()
	_ = s.auth.Logout(ctx)
	s.endBusy(nil, true)
}

// Subscribe registers fn for state changes. fn runs on the goroutine that
// caused the change, one call at a time, and never sees a state older than
// one it has already seen; a superseded change may be skipped. fn must not
// call Login, Register, Logout or Start. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Close detaches from the provider. Later provider events are ignored.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsub := s.unsubAuth
	s.unsubAuth = nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (s *Store) onProviderUser(u *models.User) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	st := s.setUserLocked(u)
	seq := s.nextSeqLocked()
	s.mu.Unlock()

	s.notify(st, seq)
}

func (s *Store) beginBusy() {
	s.mu.Lock()
	s.busy++
	st := s.stateLocked()
	seq := s.nextSeqLocked()
	s.mu.Unlock()

	s.notify(st, seq)
}

// endBusy clears one busy mark and, when apply is set, installs u.
func (s *Store) endBusy(u *models.User, apply bool) {
	s.mu.Lock()
	s.busy--
	var st State
	if apply {
		st = s.setUserLocked(u)
	} else {
		st = s.stateLocked()
	}
	seq := s.nextSeqLocked()
	s.mu.Unlock()

	s.notify(st, seq)
}

func (s *Store) setUserLocked(u *models.User) State {
	s.version++
	s.user = u
	if u != nil {
		s.status = Authenticated
	} else {
		s.status = Anonymous
	}
	return s.stateLocked()
}

func (s *Store) stateLocked() State {
	return State{
		Status:  s.status,
		User:    s.user,
		Loading: s.status == Initializing || s.busy > 0,
	}
}

func (s *Store) nextSeqLocked() uint64 {
	s.seq++
	return s.seq
}

// notify delivers st unless a later state has already been delivered.
// Subscribers run under notifyMu and must not change the store.
func (s *Store) notify(st State, seq uint64) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if seq <= s.notified {
		return
	}
	s.notified = seq

	s.mu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
