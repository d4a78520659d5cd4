package sessions

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/gridsweeper/internal/mines"
)

type statusCounter struct {
	mu    sync.Mutex
	count map[mines.Status]int
}

func (c *statusCounter) CellChanged(mines.Cell) {}

func (c *statusCounter) StatusChanged(s mines.Status, _ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count[s]++
}

func TestCreateGetDelete(t *testing.T) {
	st := NewStore()
	s, err := st.Create(mines.DefaultParams)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.StartedAt().IsZero())

	got, ok := st.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, st.Len())

	other, err := st.Create(mines.DefaultParams)
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, other.ID)

	st.Delete(s.ID)
	_, ok = st.Get(s.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, st.Len())
}

func TestCreateBadParams(t *testing.T) {
	st := NewStore()
	_, err := st.Create(mines.GameParams{Size: 2, MineCount: 4})
	assert.ErrorIs(t, err, mines.ErrBadParams)
	assert.Equal(t, 0, st.Len())
}

func TestPlayReportsFinishedGameOnce(t *testing.T) {
	st := NewStore()
	s, err := st.Create(mines.GameParams{Size: 1})
	require.NoError(t, err)

	assert.False(t, s.Play(nil, nil), "running games are not reported")

	var (
		revealed  int
		startedAt time.Time
	)
	reported := s.Play(
		func(g *mines.Game, _ time.Time) { g.Reveal(0, 0) },
		func(g *mines.Game, at time.Time) {
			revealed = g.Revealed()
			startedAt = at
		},
	)
	assert.True(t, reported)
	assert.Equal(t, 1, revealed)
	assert.Equal(t, s.StartedAt(), startedAt)
	assert.False(t, s.Play(nil, nil))

	s.Reset()
	s.View(func(g *mines.Game, at time.Time) {
		assert.Equal(t, mines.Running, g.Status())
		assert.False(t, at.Before(startedAt))
	})
	assert.True(t, s.Play(func(g *mines.Game, _ time.Time) { g.Reveal(0, 0) }, nil))
}

func TestPlayReportsBeforeConcurrentReset(t *testing.T) {
	st := NewStore()
	s, err := st.Create(mines.GameParams{Size: 1})
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		reports int
	)
	const games = 50
	for range games {
		s.Reset()
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Play(
				func(g *mines.Game, _ time.Time) { g.Reveal(0, 0) },
				func(g *mines.Game, _ time.Time) {
					assert.Equal(t, mines.Won, g.Status())
					mu.Lock()
					reports++
					mu.Unlock()
				},
			)
		}()
		go func() {
			defer wg.Done()
			s.Reset()
		}()
		wg.Wait()
	}
	assert.Equal(t, games, reports, "every won board is reported before a reset replaces it")
}

func TestObserversAreAttached(t *testing.T) {
	counter := &statusCounter{count: make(map[mines.Status]int)}
	st := NewStore(counter)
	s, err := st.Create(mines.GameParams{Size: 1})
	require.NoError(t, err)
	s.Do(func(g *mines.Game) { g.Reveal(0, 0) })
	assert.Equal(t, 1, counter.count[mines.Won])
}

func TestDoSerializesActions(t *testing.T) {
	st := NewStore()
	s, err := st.Create(mines.GameParams{Size: 4, MineCount: 3})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Do(func(g *mines.Game) { g.ToggleFlag(0, 0) })
		}()
	}
	wg.Wait()

	s.Do(func(g *mines.Game) {
		assert.Equal(t, 0, g.Flags())
	})
}

func TestSweep(t *testing.T) {
	st := NewStore()
	stale, err := st.Create(mines.DefaultParams)
	require.NoError(t, err)
	fresh, err := st.Create(mines.DefaultParams)
	require.NoError(t, err)

	stale.mu.Lock()
	stale.lastSeen = time.Now().Add(-time.Hour)
	stale.mu.Unlock()

	assert.Equal(t, 1, st.Sweep(time.Minute))
	_, ok := st.Get(stale.ID)
	assert.False(t, ok)
	_, ok = st.Get(fresh.ID)
	assert.True(t, ok)
}

func TestRunStopsWithContext(t *testing.T) {
	st := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- st.Run(ctx, time.Millisecond, time.Hour)
	}()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
