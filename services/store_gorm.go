package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bellapacxx/bingo-caller/models"
	"gorm.io/gorm"
)

// GormStore persists to any gorm dialect. Production uses postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) SaveGame(ctx context.Context, g *models.Game) error {
	return s.db.WithContext(ctx).Save(g).Error
}

func (s *GormStore) FindGame(ctx context.Context, id string) (*models.Game, error) {
	var g models.Game
	if err := s.db.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("game %s: %w", id, ErrGameNotFound)
		}
		return nil, err
	}
	return &g, nil
}

// FindOpenGame returns the newest game that has not ended, or nil.
func (s *GormStore) FindOpenGame(ctx context.Context) (*models.Game, error) {
	var g models.Game
	err := s.db.WithContext(ctx).
		Where("status <> ?", models.GameEnded).
		Order("created_at DESC").
		First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GormStore) SavePlayer(ctx context.Context, p *models.Player) error {
	return s.db.WithContext(ctx).Save(p).Error
}

func (s *GormStore) DeletePlayer(ctx context.Context, gameID, slipID string) error {
	res := s.db.WithContext(ctx).
		Where("game_id = ? AND slip_id = ?", gameID, slipID).
		Delete(&models.Player{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("slip %s: %w", slipID, ErrPlayerNotFound)
	}
	return nil
}

func (s *GormStore) ListPlayers(ctx context.Context, gameID string) ([]models.Player, error) {
	var players []models.Player
	err := s.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("id ASC").
		Find(&players).Error
	return players, err
}

func (s *GormStore) SaveCard(ctx context.Context, c *models.Card) error {
	return s.db.WithContext(ctx).Save(c).Error
}

// FindCard returns nil when no card is stored for the slip.
func (s *GormStore) FindCard(ctx context.Context, gameID, slipID string) (*models.Card, error) {
	var c models.Card
	err := s.db.WithContext(ctx).
		Where("game_id = ? AND slip_id = ?", gameID, slipID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *GormStore) AppendTransaction(ctx context.Context, tx *models.Transaction) error {
	return s.db.WithContext(ctx).Create(tx).Error
}

func (s *GormStore) ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, error) {
	q := s.db.WithContext(ctx).Model(&models.Transaction{})
	if f.GameID != "" {
		q = q.Where("game_id = ?", f.GameID)
	}
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.SlipID != "" {
		q = q.Where("slip_id = ?", f.SlipID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	var txs []models.Transaction
	err := q.Order("id ASC").Find(&txs).Error
	return txs, err
}
