package services

import "errors"

// Validation errors.
var (
	ErrInvalidSettings = errors.New("invalid game settings")
	ErrInvalidInput    = errors.New("invalid input")
)

// State-conflict errors.
var (
	ErrGameInProgress      = errors.New("game already in progress")
	ErrNoPlayers           = errors.New("no players in game")
	ErrInvalidState        = errors.New("operation not allowed in current game state")
	ErrAlreadyDisqualified = errors.New("player already disqualified")
	ErrAlreadyClaimed      = errors.New("player already claimed")
	ErrStaleDraw           = errors.New("scheduled draw is stale")
)

// Not-found errors.
var (
	ErrGameNotFound   = errors.New("game not found")
	ErrPlayerNotFound = errors.New("player not found")
)

// ErrOperationFailed wraps durable store failures. No in-memory state changes when it is returned.
var ErrOperationFailed = errors.New("operation failed")
