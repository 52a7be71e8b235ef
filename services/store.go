package services

import (
	"context"

	"github.com/bellapacxx/bingo-caller/models"
)

// Ledger is the append-only transaction log.
type Ledger interface {
	AppendTransaction(ctx context.Context, tx *models.Transaction) error
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)
}

// TransactionFilter narrows ListTransactions. Empty fields match everything.
type TransactionFilter struct {
	GameID string
	UserID string
	SlipID string
	Type   models.TransactionType
}

func (f TransactionFilter) match(tx models.Transaction) bool {
	if f.GameID != "" && tx.GameID != f.GameID {
		return false
	}
	if f.UserID != "" && tx.UserID != f.UserID {
		return false
	}
	if f.SlipID != "" && (tx.SlipID == nil || *tx.SlipID != f.SlipID) {
		return false
	}
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	return true
}

// Store is the durable backing for games, rosters, cards and the ledger.
// Writes made through the Store passed to Atomic's callback commit together or not at all.
type Store interface {
	Ledger

	Atomic(ctx context.Context, fn func(tx Store) error) error

	SaveGame(ctx context.Context, g *models.Game) error
	FindGame(ctx context.Context, id string) (*models.Game, error)
	FindOpenGame(ctx context.Context) (*models.Game, error)

	SavePlayer(ctx context.Context, p *models.Player) error
	DeletePlayer(ctx context.Context, gameID, slipID string) error
	ListPlayers(ctx context.Context, gameID string) ([]models.Player, error)

	SaveCard(ctx context.Context, c *models.Card) error
	FindCard(ctx context.Context, gameID, slipID string) (*models.Card, error)
}
