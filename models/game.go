package models

import (
	"time"

	"github.com/bellapacxx/bingo-caller/game"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type GameStatus string

const (
	GameIdle              GameStatus = "idle"
	GameWaitingForPlayers GameStatus = "waiting_for_players"
	GameInProgress        GameStatus = "in_progress"
	GameClaimsPending     GameStatus = "claims_pending"
	GameEnded             GameStatus = "ended"
)

// Game is the durable record of one bingo session.
type Game struct {
	ID               string                         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Status           GameStatus                     `gorm:"index;type:varchar(32);not null" json:"status"`
	BetAmount        decimal.Decimal                `gorm:"type:decimal(18,2);not null" json:"bet_amount"`
	HouseEdge        decimal.Decimal                `gorm:"type:decimal(5,2);not null" json:"house_edge"`
	PatternName      string                         `gorm:"type:varchar(32)" json:"pattern_name"`
	PatternGrids     datatypes.JSONSlice[game.Grid] `json:"pattern_grids"`
	DrawnNumbers     datatypes.JSONSlice[int]       `json:"drawn_numbers"`
	UncalledNumbers  datatypes.JSONSlice[int]       `json:"-"`
	LastCalledNumber int                            `json:"last_called_number"`
	LastCalledLetter string                         `gorm:"type:varchar(1)" json:"last_called_letter"`
	WinnerSlipID     *string                        `gorm:"type:varchar(64)" json:"winner_slip_id"`
	WinningAmount    decimal.Decimal                `gorm:"type:decimal(18,2)" json:"winning_amount"`
	CreatedBy        string                         `gorm:"type:varchar(64)" json:"created_by"`
	StartTime        *time.Time                     `json:"start_time"`
	EndTime          *time.Time                     `json:"end_time"`
	CreatedAt        time.Time                      `json:"created_at"`
	UpdatedAt        time.Time                      `json:"updated_at"`
}

func (Game) TableName() string {
	return "games"
}
