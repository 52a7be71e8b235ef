package services

import (
	"context"
	"sync"
	"testing"

	"github.com/bellapacxx/bingo-caller/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCurrentWithoutGame(t *testing.T) {
	r := newTestRegistry(t, NewMemoryStore())
	snap, err := r.Current()
	assert.ErrorIs(t, err, ErrGameNotFound)
	assert.Equal(t, models.GameIdle, snap.Status)
}

func TestRegistryBlocksSecondGameUntilEnded(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t, NewMemoryStore())

	first, err := r.CreateSession(ctx, testSettings(t), "admin")
	require.NoError(t, err)
	_, err = r.CreateSession(ctx, testSettings(t), "admin")
	assert.ErrorIs(t, err, ErrGameInProgress)

	_, err = first.End(ctx)
	require.NoError(t, err)

	cur, err := r.Current()
	require.NoError(t, err)
	assert.Equal(t, models.GameEnded, cur.Status)
	_, err = r.Session(first.ID())
	assert.ErrorIs(t, err, ErrGameNotFound)

	second, err := r.CreateSession(ctx, testSettings(t), "admin")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())

	old, err := r.Lookup(first.ID())
	require.NoError(t, err)
	assert.Equal(t, models.GameEnded, old.Status)

	got, err := r.Session(second.ID())
	require.NoError(t, err)
	assert.Same(t, second, got)

	_, err = r.Lookup("missing")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestRegistryHistoryIsBounded(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t, NewMemoryStore(), WithHistorySize(2))

	var ids []string
	for i := 0; i < 4; i++ {
		s, err := r.CreateSession(ctx, testSettings(t), "admin")
		require.NoError(t, err)
		ids = append(ids, s.ID())
		_, err = s.End(ctx)
		require.NoError(t, err)
	}

	_, err := r.Lookup(ids[0])
	assert.ErrorIs(t, err, ErrGameNotFound)
	for _, id := range ids[1:] {
		_, err := r.Lookup(id)
		assert.NoError(t, err, id)
	}
}

func TestRegistryNegativeHistoryKeepsNothing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	r := newTestRegistry(t, store, WithHistorySize(-1))

	first, err := r.CreateSession(ctx, testSettings(t), "admin")
	require.NoError(t, err)
	_, err = first.End(ctx)
	require.NoError(t, err)

	var second *Session
	require.NotPanics(t, func() {
		second, err = r.CreateSession(ctx, testSettings(t), "admin")
	})
	require.NoError(t, err)

	_, err = r.Lookup(first.ID())
	assert.ErrorIs(t, err, ErrGameNotFound)
	cur, err := r.Current()
	require.NoError(t, err)
	assert.Equal(t, second.ID(), cur.GameID)

	open, err := store.FindOpenGame(ctx)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, second.ID(), open.ID)
}

func TestRegistryActivateTargetsOpenGame(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t, NewMemoryStore())

	_, _, err := r.ActivateTickets(ctx, "", "cashier", []string{"1"})
	assert.ErrorIs(t, err, ErrGameNotFound)

	s, err := r.CreateSession(ctx, testSettings(t), "admin")
	require.NoError(t, err)

	got, views, err := r.ActivateTickets(ctx, "", "cashier", []string{"1"})
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Len(t, views, 1)

	_, _, err = r.ActivateTickets(ctx, "other", "cashier", []string{"2"})
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestRegistryAutoCreate(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t, NewMemoryStore(), WithAutoCreate(true))

	s, views, err := r.ActivateTickets(ctx, "", "cashier", []string{"7", "8"})
	require.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, models.GameWaitingForPlayers, s.Status())
	assert.Equal(t, "10", s.Snapshot().BetAmount.String())

	cur, err := r.Current()
	require.NoError(t, err)
	assert.Equal(t, s.ID(), cur.GameID)
}

func TestRegistryRestoresOpenGame(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	r := newTestRegistry(t, store)
	s, err := r.CreateSession(ctx, testSettings(t), "admin")
	require.NoError(t, err)
	_, err = s.ActivateTickets(ctx, "cashier", []string{"1", "2"})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = s.CallNextNumber(ctx)
		require.NoError(t, err)
	}
	before := s.Snapshot()

	restarted := newTestRegistry(t, store)
	require.NoError(t, restarted.Restore(ctx))
	cur, err := restarted.Current()
	require.NoError(t, err)
	assert.Equal(t, before.GameID, cur.GameID)
	assert.Equal(t, before.DrawnNumbers, cur.DrawnNumbers)
	assert.Equal(t, before.Remaining, cur.Remaining)
	assert.Equal(t, before.Players, cur.Players)

	again, err := restarted.Session(before.GameID)
	require.NoError(t, err)
	res, err := again.CallNextNumber(ctx)
	require.NoError(t, err)
	assert.NotContains(t, before.DrawnNumbers, res.Number)
	assert.Len(t, res.DrawnNumbers, 6)
}

func TestRegistryNotifierSeesCommittedState(t *testing.T) {
	ctx := context.Background()
	var mu sync.Mutex
	var seen []models.GameStatus
	r := newTestRegistry(t, NewMemoryStore(), WithNotifier(func(s Snapshot) {
		mu.Lock()
		seen = append(seen, s.Status)
		mu.Unlock()
	}))

	s, err := r.CreateSession(ctx, testSettings(t), "admin")
	require.NoError(t, err)
	_, err = s.ActivateTickets(ctx, "cashier", []string{"1"})
	require.NoError(t, err)
	_, err = s.CallNextNumber(ctx)
	require.NoError(t, err)
	_, err = s.End(ctx)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []models.GameStatus{
		models.GameWaitingForPlayers,
		models.GameWaitingForPlayers,
		models.GameInProgress,
		models.GameEnded,
	}, seen)
}
