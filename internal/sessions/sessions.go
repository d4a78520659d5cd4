// Package sessions keeps the games currently being played in memory.
package sessions

import (
	"context"
	"encoding/base64"
	"hash/maphash"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/gridsweeper/internal/mines"
)

type Session struct {
	ID string

	mu        sync.Mutex
	game      *mines.Game
	startedAt time.Time
	lastSeen  time.Time
	recorded  bool
}

// Do runs f with exclusive access to the game. Actions on one session never
// overlap.
func (s *Session) Do(f func(g *mines.Game)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	f(s.game)
}

// View runs f under the session lock along with the time the current board
// was dealt.
func (s *Session) View(f func(g *mines.Game, startedAt time.Time)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s.game, s.startedAt)
}

// Play runs move under the session lock. If the game is over afterwards and
// was not reported before, finished runs in the same critical section and
// Play returns true; each dealt board is reported at most once. Either
// callback may be nil.
func (s *Session) Play(move, finished func(g *mines.Game, startedAt time.Time)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	if move != nil {
		move(s.game, s.startedAt)
	}
	if s.game.Status() == mines.Running || s.recorded {
		return false
	}
	s.recorded = true
	if finished != nil {
		finished(s.game, s.startedAt)
	}
	return true
}

// Reset deals a new board and restarts the clock.
func (s *Session) Reset() {
	s.Do(func(g *mines.Game) {
		g.Reset()
		s.recorded = false
		s.startedAt = time.Now().UTC()
	})
}

func (s *Session) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

type Store struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	observers []mines.Observer
}

func NewStore(observers ...mines.Observer) *Store {
	return &Store{
		sessions:  make(map[string]*Session),
		observers: observers,
	}
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func newID() string {
	u := [16]byte(uuid.New())
	return base64.RawURLEncoding.EncodeToString(u[:])
}

func (st *Store) Create(params mines.GameParams) (*Session, error) {
	game, err := mines.New(params, createRand(), st.observers...)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	s := &Session{
		ID:        newID(),
		game:      game,
		startedAt: now.UTC(),
		lastSeen:  now,
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	mines.Log.Debug("session created", "id", s.ID, "params", params.Seed())
	return s, nil
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops sessions nobody has touched for maxIdle and returns how many
// were dropped.
func (st *Store) Sweep(maxIdle time.Duration) (n int) {
	cutoff := time.Now().Add(-maxIdle)
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			n++
		}
	}
	return
}

// Run sweeps every interval until ctx is done.
func (st *Store) Run(ctx context.Context, interval, maxIdle time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := st.Sweep(maxIdle); n > 0 {
				mines.Log.Info("swept idle sessions", "count", n, "remaining", st.Len())
			}
		}
	}
}
