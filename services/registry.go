package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/bellapacxx/bingo-caller/models"
	"github.com/bellapacxx/bingo-caller/utils/logger"
	"github.com/google/uuid"
)

const DefaultHistorySize = 20

// Registry holds the single active game. Creating a game retires the previous
// (ended) one into a bounded history of final snapshots.
type Registry struct {
	mu          sync.Mutex
	deps        sessionDeps
	defaults    Settings
	autoCreate  bool
	historySize int

	active  *Session
	history []Snapshot
}

type Option func(*Registry)

// WithDefaults sets the settings used when a game is created implicitly.
func WithDefaults(s Settings) Option {
	return func(r *Registry) { r.defaults = s }
}

// WithAutoCreate lets ActivateTickets without a game id create one from the defaults.
func WithAutoCreate(enabled bool) Option {
	return func(r *Registry) { r.autoCreate = enabled }
}

func WithCardCatalog(c *CardCatalog) Option {
	return func(r *Registry) { r.deps.catalog = c }
}

func WithPayout(fn PayoutFunc) Option {
	return func(r *Registry) { r.deps.payout = fn }
}

// WithNotifier receives a snapshot after every committed change.
func WithNotifier(fn func(Snapshot)) Option {
	return func(r *Registry) { r.deps.notify = fn }
}

// WithHistorySize bounds how many ended games stay readable. Negative values mean none.
func WithHistorySize(n int) Option {
	return func(r *Registry) { r.historySize = max(n, 0) }
}

func NewRegistry(store Store, opts ...Option) *Registry {
	r := &Registry{
		deps:        sessionDeps{store: store, payout: DefaultPayout},
		historySize: DefaultHistorySize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) Store() Store {
	return r.deps.store
}

func (r *Registry) Defaults() Settings {
	return r.defaults
}

// Restore reloads the newest unfinished game from the store, if any.
func (r *Registry) Restore(ctx context.Context) error {
	record, err := r.deps.store.FindOpenGame(ctx)
	if err != nil {
		return err
	}
	if record == nil {
		return nil
	}
	s, err := restoreSession(ctx, r.deps, *record)
	if err != nil {
		return fmt.Errorf("restore game %s: %w", record.ID, err)
	}
	r.mu.Lock()
	r.active = s
	r.mu.Unlock()
	return nil
}

// CreateSession starts a new game. An active game that has not ended blocks creation.
func (r *Registry) CreateSession(ctx context.Context, settings Settings, createdBy string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(ctx, settings, createdBy)
}

func (r *Registry) createLocked(ctx context.Context, settings Settings, createdBy string) (*Session, error) {
	if r.active != nil && r.active.Status() != models.GameEnded {
		return nil, fmt.Errorf("game %s must end first: %w", r.active.ID(), ErrGameInProgress)
	}
	s, err := newSession(ctx, r.deps, uuid.NewString(), createdBy, settings)
	if err != nil {
		return nil, err
	}
	if r.active != nil {
		r.retireLocked(r.active)
	}
	r.active = s
	return s, nil
}

func (r *Registry) retireLocked(s *Session) {
	r.history = append(r.history, s.Snapshot())
	if over := len(r.history) - r.historySize; over > 0 {
		r.history = append([]Snapshot(nil), r.history[over:]...)
	}
	logger.Debugf("[Registry] retired game %s (history=%d)", s.ID(), len(r.history))
}

// Session returns the active game with the given id. Ended or unknown ids yield ErrGameNotFound.
func (r *Registry) Session(gameID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active == nil || r.active.ID() != gameID || r.active.Status() == models.GameEnded {
		return nil, fmt.Errorf("game %s: %w", gameID, ErrGameNotFound)
	}
	return r.active, nil
}

// Current returns the active game's snapshot, including a just-ended one.
func (r *Registry) Current() (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active == nil {
		return Snapshot{Status: models.GameIdle}, fmt.Errorf("no game: %w", ErrGameNotFound)
	}
	return r.active.Snapshot(), nil
}

// Lookup finds a snapshot for the active game or one retained in history.
func (r *Registry) Lookup(gameID string) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil && r.active.ID() == gameID {
		return r.active.Snapshot(), nil
	}
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].GameID == gameID {
			return r.history[i], nil
		}
	}
	return Snapshot{}, fmt.Errorf("game %s: %w", gameID, ErrGameNotFound)
}

// ActivateTickets activates slips in gameID. With an empty gameID it targets the
// active game, creating one from the defaults when auto-create is enabled and none is open.
func (r *Registry) ActivateTickets(ctx context.Context, gameID, userID string, slipIDs []string) (*Session, []PlayerView, error) {
	s, err := r.activationTarget(ctx, gameID, userID)
	if err != nil {
		return nil, nil, err
	}
	views, err := s.ActivateTickets(ctx, userID, slipIDs)
	if err != nil {
		return nil, nil, err
	}
	return s, views, nil
}

func (r *Registry) activationTarget(ctx context.Context, gameID, userID string) (*Session, error) {
	if gameID != "" {
		return r.Session(gameID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil && r.active.Status() != models.GameEnded {
		return r.active, nil
	}
	if !r.autoCreate {
		return nil, fmt.Errorf("no open game: %w", ErrGameNotFound)
	}
	logger.Infof("[Registry] no open game, creating one for user %s", userID)
	return r.createLocked(ctx, r.defaults, userID)
}
