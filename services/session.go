package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bellapacxx/bingo-caller/game"
	"github.com/bellapacxx/bingo-caller/models"
	"github.com/bellapacxx/bingo-caller/utils/logger"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Settings configure a new game.
type Settings struct {
	BetAmount decimal.Decimal
	HouseEdge decimal.Decimal
	Pattern   game.Pattern
}

func (s Settings) Validate() error {
	if !s.BetAmount.IsPositive() {
		return fmt.Errorf("%w: bet amount must be positive, got %s", ErrInvalidSettings, s.BetAmount)
	}
	if s.HouseEdge.IsNegative() || s.HouseEdge.GreaterThan(hundred) {
		return fmt.Errorf("%w: house edge must be within [0,100], got %s", ErrInvalidSettings, s.HouseEdge)
	}
	if err := s.Pattern.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}

// PayoutFunc computes what a verified claim pays.
type PayoutFunc func(bet, houseEdge decimal.Decimal, players int) decimal.Decimal

// DefaultPayout pays the pot less the house edge, rounded to cents.
func DefaultPayout(bet, houseEdge decimal.Decimal, players int) decimal.Decimal {
	pot := bet.Mul(decimal.NewFromInt(int64(players)))
	return pot.Mul(hundred.Sub(houseEdge)).Div(hundred).Round(2)
}

// PlayerView is a read-only copy of one roster entry.
type PlayerView struct {
	SlipID string              `json:"slip_id"`
	UserID string              `json:"user_id"`
	Status models.PlayerStatus `json:"status"`
	Card   game.Card           `json:"card"`
}

// Snapshot is a consistent read-only view of a session.
type Snapshot struct {
	GameID           string            `json:"game_id"`
	Status           models.GameStatus `json:"status"`
	BetAmount        decimal.Decimal   `json:"bet_amount"`
	HouseEdge        decimal.Decimal   `json:"house_edge"`
	Pattern          string            `json:"pattern"`
	DrawnNumbers     []int             `json:"drawn_numbers"`
	Remaining        int               `json:"remaining"`
	LastCalledNumber int               `json:"last_called_number,omitempty"`
	LastCalled       string            `json:"last_called,omitempty"`
	Players          []PlayerView      `json:"players"`
	WinnerSlipID     string            `json:"winner_slip_id,omitempty"`
	WinningAmount    decimal.Decimal   `json:"winning_amount"`
	Winners          []string          `json:"winners,omitempty"`
	StartTime        *time.Time        `json:"start_time,omitempty"`
	EndTime          *time.Time        `json:"end_time,omitempty"`
}

// DrawResult is returned by CallNextNumber. Exhausted marks the all-numbers-called outcome.
type DrawResult struct {
	Number       int               `json:"number,omitempty"`
	Letter       string            `json:"letter,omitempty"`
	Call         string            `json:"call,omitempty"`
	DrawnNumbers []int             `json:"drawn_numbers"`
	Remaining    int               `json:"remaining"`
	Status       models.GameStatus `json:"status"`
	Exhausted    bool              `json:"exhausted"`
}

type ClaimReason string

const (
	ClaimWinner         ClaimReason = "Winner"
	ClaimPlayerNotFound ClaimReason = "PlayerNotFound"
	ClaimAlreadyClaimed ClaimReason = "AlreadyClaimed"
	ClaimDisqualified   ClaimReason = "Disqualified"
	ClaimNotYetValid    ClaimReason = "NotYetValid"
)

// ClaimResult is the outcome of VerifyClaim. A failed claim is a result, not an error.
type ClaimResult struct {
	SlipID        string          `json:"slip_id"`
	IsWinner      bool            `json:"is_winner"`
	Reason        ClaimReason     `json:"reason"`
	Message       string          `json:"message"`
	WinningAmount decimal.Decimal `json:"winning_amount"`
}

type roster struct {
	player models.Player
	card   game.Card
}

type sessionDeps struct {
	store   Store
	catalog *CardCatalog
	payout  PayoutFunc
	notify  func(Snapshot)
}

// Session owns one game: settings, roster, draw progress and claims.
// Every command runs under mu together with its durable write; in-memory
// state changes only after the write commits.
type Session struct {
	mu   sync.Mutex
	deps sessionDeps

	record  models.Game
	pattern game.Pattern
	players map[string]*roster
	order   []string
	pool    *game.Pool
	winners []string

	// epoch changes whenever drawing must stop; scheduled draws carry the epoch they were scheduled under.
	epoch uint64
}

func newSession(ctx context.Context, deps sessionDeps, id, createdBy string, settings Settings) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	record := models.Game{
		ID:           id,
		Status:       models.GameWaitingForPlayers,
		BetAmount:    settings.BetAmount,
		HouseEdge:    settings.HouseEdge,
		PatternName:  settings.Pattern.Name,
		PatternGrids: settings.Pattern.Grids,
		CreatedBy:    createdBy,
	}
	if err := deps.store.SaveGame(ctx, &record); err != nil {
		return nil, fmt.Errorf("%w: create game: %v", ErrOperationFailed, err)
	}
	s := &Session{
		deps:    deps,
		record:  record,
		pattern: settings.Pattern,
		players: make(map[string]*roster),
	}
	logger.Infof("[Game %s] created bet=%s edge=%s pattern=%s", id, settings.BetAmount, settings.HouseEdge, settings.Pattern.Name)
	s.publishLocked()
	return s, nil
}

// restoreSession rebuilds an unfinished game from the store after a restart.
func restoreSession(ctx context.Context, deps sessionDeps, record models.Game) (*Session, error) {
	s := &Session{
		deps:    deps,
		record:  record,
		pattern: game.Pattern{Name: record.PatternName, Grids: record.PatternGrids},
		players: make(map[string]*roster),
	}
	players, err := deps.store.ListPlayers(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		card, err := resolveCard(ctx, deps.store, deps.catalog, record.ID, p.SlipID)
		if err != nil {
			return nil, err
		}
		s.players[p.SlipID] = &roster{player: p, card: card}
		s.order = append(s.order, p.SlipID)
		if p.Status == models.PlayerClaimed {
			s.winners = append(s.winners, p.SlipID)
		}
	}
	if record.Status != models.GameWaitingForPlayers {
		s.pool = game.RestorePool(record.UncalledNumbers)
	}
	logger.Infof("[Game %s] restored status=%s players=%d drawn=%d", record.ID, record.Status, len(players), len(record.DrawnNumbers))
	return s, nil
}

func (s *Session) ID() string {
	return s.record.ID
}

// Status returns the current status.
func (s *Session) Status() models.GameStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Status
}

// Epoch identifies the current drawing period.
func (s *Session) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		GameID:           s.record.ID,
		Status:           s.record.Status,
		BetAmount:        s.record.BetAmount,
		HouseEdge:        s.record.HouseEdge,
		Pattern:          s.record.PatternName,
		DrawnNumbers:     append([]int{}, s.record.DrawnNumbers...),
		Remaining:        game.MaxNumber,
		LastCalledNumber: s.record.LastCalledNumber,
		WinningAmount:    s.record.WinningAmount,
		Winners:          append([]string(nil), s.winners...),
		StartTime:        s.record.StartTime,
		EndTime:          s.record.EndTime,
		Players:          make([]PlayerView, 0, len(s.order)),
	}
	if s.pool != nil {
		snap.Remaining = s.pool.Len()
	}
	if s.record.LastCalledNumber > 0 {
		snap.LastCalled = game.Call(s.record.LastCalledNumber)
	}
	if s.record.WinnerSlipID != nil {
		snap.WinnerSlipID = *s.record.WinnerSlipID
	}
	for _, slip := range s.order {
		snap.Players = append(snap.Players, viewOf(s.players[slip]))
	}
	return snap
}

func viewOf(r *roster) PlayerView {
	return PlayerView{SlipID: r.player.SlipID, UserID: r.player.UserID, Status: r.player.Status, Card: r.card}
}

// publishLocked hands a snapshot to the notifier. The notifier must not block or call back into the session.
func (s *Session) publishLocked() {
	if s.deps.notify != nil {
		s.deps.notify(s.snapshotLocked())
	}
}

func (s *Session) endedLocked() error {
	if s.record.Status == models.GameEnded {
		return fmt.Errorf("game %s has ended: %w", s.record.ID, ErrGameNotFound)
	}
	return nil
}

func (s *Session) commit(ctx context.Context, fn func(tx Store) error) error {
	if err := s.deps.store.Atomic(ctx, fn); err != nil {
		logger.Errorf("[Game %s] store write failed: %v", s.record.ID, err)
		return fmt.Errorf("%w: %v", ErrOperationFailed, err)
	}
	return nil
}

func slipRef(slip string) *string {
	return &slip
}

// ActivateTickets adds each new slip to the roster with a bet. Slips already present are skipped.
func (s *Session) ActivateTickets(ctx context.Context, userID string, slipIDs []string) ([]PlayerView, error) {
	if len(slipIDs) == 0 {
		return nil, fmt.Errorf("%w: no slips given", ErrInvalidInput)
	}
	for _, slip := range slipIDs {
		if slip == "" {
			return nil, fmt.Errorf("%w: empty slip id", ErrInvalidInput)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.endedLocked(); err != nil {
		return nil, err
	}
	if s.record.Status != models.GameWaitingForPlayers {
		return nil, fmt.Errorf("game %s is %s: %w", s.record.ID, s.record.Status, ErrGameInProgress)
	}

	seen := make(map[string]bool, len(slipIDs))
	var fresh []string
	for _, slip := range slipIDs {
		if seen[slip] || s.players[slip] != nil {
			continue
		}
		seen[slip] = true
		fresh = append(fresh, slip)
	}
	if len(fresh) == 0 {
		return s.viewsLocked(), nil
	}

	added := make([]*roster, 0, len(fresh))
	err := s.commit(ctx, func(tx Store) error {
		for _, slip := range fresh {
			card, err := resolveCard(ctx, tx, s.deps.catalog, s.record.ID, slip)
			if err != nil {
				return err
			}
			p := models.Player{GameID: s.record.ID, SlipID: slip, UserID: userID, Status: models.PlayerActive}
			if err := tx.SavePlayer(ctx, &p); err != nil {
				return err
			}
			if err := tx.AppendTransaction(ctx, &models.Transaction{
				UserID: userID,
				GameID: s.record.ID,
				SlipID: slipRef(slip),
				Type:   models.BetTransaction,
				Amount: s.record.BetAmount,
			}); err != nil {
				return err
			}
			added = append(added, &roster{player: p, card: card})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, r := range added {
		s.players[r.player.SlipID] = r
		s.order = append(s.order, r.player.SlipID)
	}
	logger.Infof("[Game %s] user %s activated %d slips (roster=%d)", s.record.ID, userID, len(added), len(s.players))
	s.publishLocked()
	return s.viewsLocked(), nil
}

func (s *Session) viewsLocked() []PlayerView {
	out := make([]PlayerView, 0, len(s.order))
	for _, slip := range s.order {
		out = append(out, viewOf(s.players[slip]))
	}
	return out
}

// RemovePlayer drops a slip before the game starts and refunds its bet.
func (s *Session) RemovePlayer(ctx context.Context, slipID string) ([]PlayerView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.endedLocked(); err != nil {
		return nil, err
	}
	if s.record.Status != models.GameWaitingForPlayers {
		return nil, fmt.Errorf("game %s is %s: %w", s.record.ID, s.record.Status, ErrGameInProgress)
	}
	r, ok := s.players[slipID]
	if !ok {
		return nil, fmt.Errorf("slip %s: %w", slipID, ErrPlayerNotFound)
	}

	err := s.commit(ctx, func(tx Store) error {
		if err := tx.DeletePlayer(ctx, s.record.ID, slipID); err != nil {
			return err
		}
		return tx.AppendTransaction(ctx, &models.Transaction{
			UserID: r.player.UserID,
			GameID: s.record.ID,
			SlipID: slipRef(slipID),
			Type:   models.CancellationTransaction,
			Amount: s.record.BetAmount,
		})
	})
	if err != nil {
		return nil, err
	}

	delete(s.players, slipID)
	for i, slip := range s.order {
		if slip == slipID {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	logger.Infof("[Game %s] slip %s removed (roster=%d)", s.record.ID, slipID, len(s.players))
	s.publishLocked()
	return s.viewsLocked(), nil
}

// CallNextNumber draws one number. The first call starts the game and shuffles the pool.
// When every number has been called the game ends and Exhausted is set.
func (s *Session) CallNextNumber(ctx context.Context) (DrawResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawLocked(ctx)
}

// CancelScheduled invalidates every draw scheduled under the current epoch.
// Once it returns, no such draw can commit.
func (s *Session) CancelScheduled() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	logger.Debugf("[Game %s] scheduled draws cancelled (epoch %d)", s.record.ID, s.epoch)
}

// DrawScheduled draws only if nothing has stopped drawing since epoch was read.
func (s *Session) DrawScheduled(ctx context.Context, epoch uint64) (DrawResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		return DrawResult{}, fmt.Errorf("game %s epoch %d, scheduled %d: %w", s.record.ID, s.epoch, epoch, ErrStaleDraw)
	}
	return s.drawLocked(ctx)
}

func (s *Session) drawLocked(ctx context.Context) (DrawResult, error) {
	if err := s.endedLocked(); err != nil {
		return DrawResult{}, err
	}

	next := s.record
	var pool *game.Pool
	switch s.record.Status {
	case models.GameWaitingForPlayers:
		if len(s.players) == 0 {
			return DrawResult{}, fmt.Errorf("game %s: %w", s.record.ID, ErrNoPlayers)
		}
		pool = game.NewPool()
		now := time.Now()
		next.StartTime = &now
		next.Status = models.GameInProgress
	case models.GameInProgress:
		pool = game.RestorePool(s.pool.Remaining())
	default:
		return DrawResult{}, fmt.Errorf("game %s is %s: %w", s.record.ID, s.record.Status, ErrInvalidState)
	}

	n, err := pool.Draw()
	if errors.Is(err, game.ErrPoolExhausted) {
		return s.exhaustLocked(ctx, next)
	}

	next.DrawnNumbers = append(append([]int{}, s.record.DrawnNumbers...), n)
	next.UncalledNumbers = pool.Remaining()
	next.LastCalledNumber = n
	next.LastCalledLetter = game.Letter(n)
	if err := s.commit(ctx, func(tx Store) error { return tx.SaveGame(ctx, &next) }); err != nil {
		return DrawResult{}, err
	}

	if s.record.Status == models.GameWaitingForPlayers {
		logger.Infof("[Game %s] started with %d players", s.record.ID, len(s.players))
	}
	s.record = next
	s.pool = pool
	logger.Debugf("[Game %s] called %s (%d drawn)", s.record.ID, game.Call(n), len(s.record.DrawnNumbers))
	s.publishLocked()

	return DrawResult{
		Number:       n,
		Letter:       game.Letter(n),
		Call:         game.Call(n),
		DrawnNumbers: append([]int{}, s.record.DrawnNumbers...),
		Remaining:    s.pool.Len(),
		Status:       s.record.Status,
	}, nil
}

func (s *Session) exhaustLocked(ctx context.Context, next models.Game) (DrawResult, error) {
	now := time.Now()
	next.Status = models.GameEnded
	next.EndTime = &now
	if err := s.commit(ctx, func(tx Store) error { return tx.SaveGame(ctx, &next) }); err != nil {
		return DrawResult{}, err
	}
	s.record = next
	s.epoch++
	logger.Infof("[Game %s] all numbers called, game ended", s.record.ID)
	s.publishLocked()
	return DrawResult{
		DrawnNumbers: append([]int{}, s.record.DrawnNumbers...),
		Remaining:    0,
		Status:       s.record.Status,
		Exhausted:    true,
	}, nil
}

// VerifyClaim checks a slip against the winning pattern and the numbers drawn so far.
func (s *Session) VerifyClaim(ctx context.Context, slipID string) (ClaimResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.endedLocked(); err != nil {
		return ClaimResult{}, err
	}
	if s.record.Status != models.GameInProgress && s.record.Status != models.GameClaimsPending {
		return ClaimResult{}, fmt.Errorf("game %s is %s: %w", s.record.ID, s.record.Status, ErrInvalidState)
	}

	res := ClaimResult{SlipID: slipID, WinningAmount: decimal.Zero}
	r, ok := s.players[slipID]
	switch {
	case !ok:
		res.Reason, res.Message = ClaimPlayerNotFound, fmt.Sprintf("slip %s is not in this game", slipID)
		return res, nil
	case r.player.Status == models.PlayerClaimed:
		res.Reason, res.Message = ClaimAlreadyClaimed, fmt.Sprintf("slip %s has already claimed", slipID)
		return res, nil
	case r.player.Status == models.PlayerDisqualified:
		res.Reason, res.Message = ClaimDisqualified, fmt.Sprintf("slip %s is disqualified", slipID)
		return res, nil
	case !game.IsWinner(r.card, s.record.DrawnNumbers, s.pattern):
		res.Reason, res.Message = ClaimNotYetValid, fmt.Sprintf("slip %s does not match %s yet", slipID, s.pattern.Name)
		return res, nil
	}

	amount := s.deps.payout(s.record.BetAmount, s.record.HouseEdge, len(s.players))
	player := r.player
	player.Status = models.PlayerClaimed
	next := s.record
	next.Status = models.GameClaimsPending
	if next.WinnerSlipID == nil {
		next.WinnerSlipID = slipRef(slipID)
		next.WinningAmount = amount
	}

	err := s.commit(ctx, func(tx Store) error {
		if err := tx.SavePlayer(ctx, &player); err != nil {
			return err
		}
		if err := tx.SaveGame(ctx, &next); err != nil {
			return err
		}
		return tx.AppendTransaction(ctx, &models.Transaction{
			UserID: player.UserID,
			GameID: s.record.ID,
			SlipID: slipRef(slipID),
			Type:   models.WinTransaction,
			Amount: amount,
		})
	})
	if err != nil {
		return ClaimResult{}, err
	}

	if s.record.Status == models.GameInProgress {
		s.epoch++
	}
	r.player = player
	s.record = next
	s.winners = append(s.winners, slipID)
	logger.Infof("[Game %s] slip %s wins %s", s.record.ID, slipID, amount)
	s.publishLocked()

	res.IsWinner = true
	res.Reason = ClaimWinner
	res.Message = fmt.Sprintf("BINGO! slip %s wins %s", slipID, amount.StringFixed(2))
	res.WinningAmount = amount
	return res, nil
}

// DisqualifyPlayer marks an active slip disqualified and charges its bet.
func (s *Session) DisqualifyPlayer(ctx context.Context, slipID string) (PlayerView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.endedLocked(); err != nil {
		return PlayerView{}, err
	}
	if s.record.Status != models.GameInProgress && s.record.Status != models.GameClaimsPending {
		return PlayerView{}, fmt.Errorf("game %s is %s: %w", s.record.ID, s.record.Status, ErrInvalidState)
	}
	r, ok := s.players[slipID]
	if !ok {
		return PlayerView{}, fmt.Errorf("slip %s: %w", slipID, ErrPlayerNotFound)
	}
	switch r.player.Status {
	case models.PlayerDisqualified:
		return PlayerView{}, fmt.Errorf("slip %s: %w", slipID, ErrAlreadyDisqualified)
	case models.PlayerClaimed:
		return PlayerView{}, fmt.Errorf("slip %s: %w", slipID, ErrAlreadyClaimed)
	}

	player := r.player
	player.Status = models.PlayerDisqualified
	err := s.commit(ctx, func(tx Store) error {
		if err := tx.SavePlayer(ctx, &player); err != nil {
			return err
		}
		return tx.AppendTransaction(ctx, &models.Transaction{
			UserID: player.UserID,
			GameID: s.record.ID,
			SlipID: slipRef(slipID),
			Type:   models.DisqualificationTransaction,
			Amount: s.record.BetAmount.Neg(),
		})
	})
	if err != nil {
		return PlayerView{}, err
	}

	r.player = player
	logger.Infof("[Game %s] slip %s disqualified", s.record.ID, slipID)
	s.publishLocked()
	return viewOf(r), nil
}

// Resume returns a game from claims-pending to drawing.
func (s *Session) Resume(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.endedLocked(); err != nil {
		return Snapshot{}, err
	}
	if s.record.Status != models.GameClaimsPending {
		return Snapshot{}, fmt.Errorf("game %s is %s: %w", s.record.ID, s.record.Status, ErrInvalidState)
	}
	next := s.record
	next.Status = models.GameInProgress
	if err := s.commit(ctx, func(tx Store) error { return tx.SaveGame(ctx, &next) }); err != nil {
		return Snapshot{}, err
	}
	s.record = next
	s.epoch++
	logger.Infof("[Game %s] resumed", s.record.ID)
	s.publishLocked()
	return s.snapshotLocked(), nil
}

// End finishes the game from any state. Ending an ended game is a no-op.
func (s *Session) End(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.record.Status == models.GameEnded {
		return s.snapshotLocked(), nil
	}
	now := time.Now()
	next := s.record
	next.Status = models.GameEnded
	next.EndTime = &now
	if err := s.commit(ctx, func(tx Store) error { return tx.SaveGame(ctx, &next) }); err != nil {
		return Snapshot{}, err
	}
	s.record = next
	s.epoch++
	logger.Infof("[Game %s] ended (drawn=%d, winners=%d)", s.record.ID, len(s.record.DrawnNumbers), len(s.winners))
	s.publishLocked()
	return s.snapshotLocked(), nil
}
