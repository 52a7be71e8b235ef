package services

import (
	"context"
	"testing"

	"github.com/bellapacxx/bingo-caller/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deposit(user string, amount int64) *models.Transaction {
	return &models.Transaction{UserID: user, Type: models.DepositTransaction, Amount: decimal.NewFromInt(amount)}
}

func TestMemoryStoreDiscardedWritesDoNotLeakIntoLedger(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.AppendTransaction(ctx, deposit("a", 1)))

	err := store.Atomic(ctx, func(tx Store) error {
		require.NoError(t, tx.AppendTransaction(ctx, deposit("ghost", 2)))
		require.NoError(t, tx.AppendTransaction(ctx, deposit("ghost", 3)))
		return errDiskFull
	})
	require.ErrorIs(t, err, errDiskFull)

	require.NoError(t, store.Atomic(ctx, func(tx Store) error {
		return tx.AppendTransaction(ctx, deposit("b", 4))
	}))
	require.NoError(t, store.AppendTransaction(ctx, deposit("c", 5)))

	txs, err := store.ListTransactions(ctx, TransactionFilter{})
	require.NoError(t, err)
	var users []string
	for _, tx := range txs {
		users = append(users, tx.UserID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, users)
	assert.Empty(t, ledger(t, store, TransactionFilter{UserID: "ghost"}))
}

func TestMemoryStoreListingIsACopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.AppendTransaction(ctx, deposit("a", 1)))

	txs, err := store.ListTransactions(ctx, TransactionFilter{})
	require.NoError(t, err)
	txs[0].UserID = "mutated"

	require.NoError(t, store.Atomic(ctx, func(tx Store) error {
		return tx.AppendTransaction(ctx, deposit("b", 2))
	}))
	again, err := store.ListTransactions(ctx, TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, "a", again[0].UserID)
	assert.Len(t, again, 2)
}
