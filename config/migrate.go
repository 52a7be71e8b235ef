package config

import (
	"fmt"

	"github.com/bellapacxx/bingo-caller/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the session, roster, card and ledger tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Game{},
		&models.Player{},
		&models.Card{},
		&models.Transaction{},
	); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
