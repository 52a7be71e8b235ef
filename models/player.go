package models

import "time"

type PlayerStatus string

const (
	PlayerActive       PlayerStatus = "active"
	PlayerClaimed      PlayerStatus = "claimed"
	PlayerDisqualified PlayerStatus = "disqualified"
)

// Player is a slip activated into a game.
type Player struct {
	ID        uint         `gorm:"primaryKey" json:"-"`
	GameID    string       `gorm:"uniqueIndex:idx_player_game_slip;type:varchar(64);not null" json:"game_id"`
	SlipID    string       `gorm:"uniqueIndex:idx_player_game_slip;type:varchar(64);not null" json:"slip_id"`
	UserID    string       `gorm:"index;type:varchar(64)" json:"user_id"`
	Status    PlayerStatus `gorm:"type:varchar(16);not null" json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
