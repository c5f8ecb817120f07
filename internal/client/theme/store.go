package theme

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/memoria/internal/common"
	"github.com/dmitrijs2005/memoria/internal/logging"
)

// KV is the local key-value storage the preference lives in.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store holds the active mode. It starts in Light; Load applies the
// persisted preference and Toggle flips and persists it. Errors returned
// by Load and Toggle are advisory: they are already logged and the
// in-memory mode stays authoritative.
type Store struct {
	kv     KV
	logger logging.Logger

	mu      sync.Mutex
	mode    Mode
	toggled bool
	subs    map[int]func(Mode)
	nextID  int
}

func NewStore(kv KV, logger logging.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logger.With("component", "theme"),
		mode:   Light,
		subs:   make(map[int]func(Mode)),
	}
}

// Load reads the persisted preference. A missing or unknown value means
// Light. A toggle made before Load finishes is kept.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, common.ThemeKey)
	if err != nil {
		s.logger.Warn(ctx, "error loading theme preference", "error", err)
		return err
	}

	mode := Light
	if Mode(raw) == Dark {
		mode = Dark
	}

	s.mu.Lock()
	if s.toggled || s.mode == mode {
		s.mu.Unlock()
		return nil
	}
	s.mode = mode
	s.mu.Unlock()

	s.notify(mode)
	return nil
}

// Toggle flips the mode immediately, then persists it. A failed write is
// not rolled back.
func (s *Store) Toggle(ctx context.Context) error {
	s.mu.Lock()
	if s.mode == Dark {
		s.mode = Light
	} else {
		s.mode = Dark
	}
	s.toggled = true
	mode := s.mode
	s.mu.Unlock()

	s.notify(mode)

	if err := s.kv.Set(ctx, common.ThemeKey, []byte(mode)); err != nil {
		s.logger.Warn(ctx, "error saving theme preference", "mode", mode, "error", err)
		return err
	}
	return nil
}

func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Store) IsDark() bool { return s.Mode() == Dark }

func (s *Store) Palette() Palette { return PaletteFor(s.Mode()) }

// Subscribe registers fn for mode changes and returns an unsubscribe func.
func (s *Store) Subscribe(fn func(Mode)) func() {
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

func (s *Store) notify(m Mode) {
	s.mu.Lock()
	fns := make([]func(Mode), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(m)
	}
}
