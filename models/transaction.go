package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	DepositTransaction          TransactionType = "deposit"
	BetTransaction              TransactionType = "bet"
	WinTransaction              TransactionType = "win"
	WithdrawalTransaction       TransactionType = "withdrawal"
	CancellationTransaction     TransactionType = "cancellation"
	DisqualificationTransaction TransactionType = "disqualification"
)

// Transaction is an append-only ledger entry. GameID and SlipID are empty for deposits and withdrawals.
type Transaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    string          `gorm:"index;type:varchar(64);not null" json:"user_id"`
	GameID    string          `gorm:"index;type:varchar(64)" json:"game_id,omitempty"`
	SlipID    *string         `gorm:"type:varchar(64)" json:"slip_id,omitempty"`
	Type      TransactionType `gorm:"type:varchar(32);not null" json:"type"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}
