package models

import (
	"time"

	"gorm.io/datatypes"
)

// Card stores the numbers of one slip within a game, column-major B..O.
type Card struct {
	ID        uint                     `gorm:"primaryKey" json:"id"`
	GameID    string                   `gorm:"uniqueIndex:idx_card_game_slip;type:varchar(64);not null" json:"game_id"`
	SlipID    string                   `gorm:"uniqueIndex:idx_card_game_slip;type:varchar(64);not null" json:"slip_id"`
	Numbers   datatypes.JSONSlice[int] `json:"numbers"`
	CreatedAt time.Time                `json:"created_at"`
}
