package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/bellapacxx/bingo-caller/config"
	"github.com/bellapacxx/bingo-caller/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newSQLiteStore(t *testing.T) *GormStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, config.Migrate(db))
	return NewGormStore(db)
}

func TestGormStoreGameRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	g := models.Game{
		ID:              "g-1",
		Status:          models.GameInProgress,
		BetAmount:       decimal.NewFromInt(10),
		HouseEdge:       decimal.NewFromInt(15),
		PatternName:     "fullHouse",
		DrawnNumbers:    []int{5, 22},
		UncalledNumbers: []int{1, 2, 3},
	}
	require.NoError(t, store.SaveGame(ctx, &g))

	g.DrawnNumbers = append(g.DrawnNumbers, 70)
	require.NoError(t, store.SaveGame(ctx, &g))

	got, err := store.FindGame(ctx, "g-1")
	require.NoError(t, err)
	assert.Equal(t, []int{5, 22, 70}, []int(got.DrawnNumbers))
	assert.Equal(t, []int{1, 2, 3}, []int(got.UncalledNumbers))
	assert.True(t, got.BetAmount.Equal(decimal.NewFromInt(10)))

	open, err := store.FindOpenGame(ctx)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, "g-1", open.ID)

	_, err = store.FindGame(ctx, "nope")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestGormStoreAtomicRollsBack(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	err := store.Atomic(ctx, func(tx Store) error {
		require.NoError(t, tx.SavePlayer(ctx, &models.Player{GameID: "g", SlipID: "1", UserID: "u", Status: models.PlayerActive}))
		return errDiskFull
	})
	assert.ErrorIs(t, err, errDiskFull)

	players, err := store.ListPlayers(ctx, "g")
	require.NoError(t, err)
	assert.Empty(t, players)

	assert.ErrorIs(t, store.DeletePlayer(ctx, "g", "1"), ErrPlayerNotFound)
}

func TestSessionOnGormStore(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)
	s := newTestSession(t, store, "101", "102", "103")

	_, err := s.RemovePlayer(ctx, "103")
	require.NoError(t, err)

	drawUntilWin(t, s, "101")
	res, err := s.VerifyClaim(ctx, "101")
	require.NoError(t, err)
	require.True(t, res.IsWinner)
	assert.Equal(t, "17", res.WinningAmount.String())

	stored, err := store.FindGame(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, models.GameClaimsPending, stored.Status)
	require.NotNil(t, stored.WinnerSlipID)
	assert.Equal(t, "101", *stored.WinnerSlipID)

	var types []models.TransactionType
	for _, tx := range ledger(t, store, TransactionFilter{GameID: s.ID()}) {
		types = append(types, tx.Type)
	}
	assert.Equal(t, []models.TransactionType{
		models.BetTransaction, models.BetTransaction, models.BetTransaction,
		models.CancellationTransaction, models.WinTransaction,
	}, types)

	restarted := newTestRegistry(t, store)
	require.NoError(t, restarted.Restore(ctx))
	cur, err := restarted.Current()
	require.NoError(t, err)
	assert.Equal(t, s.Snapshot().Players, cur.Players)
	assert.Equal(t, []string{"101"}, cur.Winners)
}

func TestGormStoreRollbackKeepsSessionConsistent(t *testing.T) {
	ctx := context.Background()
	base := newSQLiteStore(t)
	store := newFailingStore(base)
	store.failOn = models.BetTransaction
	s := newTestSession(t, store, "1")

	store.armed.Store(true)
	_, err := s.ActivateTickets(ctx, "u", []string{"2", "3"})
	assert.ErrorIs(t, err, ErrOperationFailed)

	players, err := base.ListPlayers(ctx, s.ID())
	require.NoError(t, err)
	require.Len(t, players, 1)
	card, err := base.FindCard(ctx, s.ID(), "2")
	require.NoError(t, err)
	assert.Nil(t, card)
	assert.Len(t, s.Snapshot().Players, 1)
}
