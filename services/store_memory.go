package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bellapacxx/bingo-caller/models"
)

// MemoryStore keeps everything in process. Used when no DATABASE_URL is configured and in tests;
// nothing survives a restart.
type MemoryStore struct {
	mu sync.RWMutex
	st *memState
}

type memState struct {
	games   map[string]models.Game
	players map[string]map[string]models.Player
	cards   map[string]models.Card
	txs     []models.Transaction
	nextID  uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{st: &memState{
		games:   make(map[string]models.Game),
		players: make(map[string]map[string]models.Player),
		cards:   make(map[string]models.Card),
	}}
}

// clone copies the per-game maps. The ledger is append-only, so the copy shares
// its backing array: a copy only writes past the committed length, and those
// entries count only if the copy is swapped in. Callers hold the store lock.
func (st *memState) clone() *memState {
	out := &memState{
		games:   make(map[string]models.Game, len(st.games)),
		players: make(map[string]map[string]models.Player, len(st.players)),
		cards:   make(map[string]models.Card, len(st.cards)),
		txs:     st.txs,
		nextID:  st.nextID,
	}
	for k, v := range st.games {
		out.games[k] = v
	}
	for g, roster := range st.players {
		m := make(map[string]models.Player, len(roster))
		for k, v := range roster {
			m[k] = v
		}
		out.players[g] = m
	}
	for k, v := range st.cards {
		out.cards[k] = v
	}
	return out
}

func (st *memState) id() uint {
	st.nextID++
	return st.nextID
}

func cardKey(gameID, slipID string) string {
	return gameID + "/" + slipID
}

// Atomic runs fn against a private copy and swaps it in only when fn succeeds.
func (s *MemoryStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &MemoryStore{st: s.st.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	s.st = tx.st
	return nil
}

func (s *MemoryStore) SaveGame(ctx context.Context, g *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now
	cp := *g
	cp.DrawnNumbers = append(cp.DrawnNumbers[:0:0], g.DrawnNumbers...)
	cp.UncalledNumbers = append(cp.UncalledNumbers[:0:0], g.UncalledNumbers...)
	s.st.games[g.ID] = cp
	return nil
}

func (s *MemoryStore) FindGame(ctx context.Context, id string) (*models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.st.games[id]
	if !ok {
		return nil, fmt.Errorf("game %s: %w", id, ErrGameNotFound)
	}
	return &g, nil
}

func (s *MemoryStore) FindOpenGame(ctx context.Context) (*models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var open *models.Game
	for _, g := range s.st.games {
		if g.Status == models.GameEnded {
			continue
		}
		if open == nil || g.CreatedAt.After(open.CreatedAt) {
			g := g
			open = &g
		}
	}
	return open, nil
}

func (s *MemoryStore) SavePlayer(ctx context.Context, p *models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if p.ID == 0 {
		p.ID = s.st.id()
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	roster, ok := s.st.players[p.GameID]
	if !ok {
		roster = make(map[string]models.Player)
		s.st.players[p.GameID] = roster
	}
	roster[p.SlipID] = *p
	return nil
}

func (s *MemoryStore) DeletePlayer(ctx context.Context, gameID, slipID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roster := s.st.players[gameID]
	if _, ok := roster[slipID]; !ok {
		return fmt.Errorf("slip %s: %w", slipID, ErrPlayerNotFound)
	}
	delete(roster, slipID)
	return nil
}

func (s *MemoryStore) ListPlayers(ctx context.Context, gameID string) ([]models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Player, 0, len(s.st.players[gameID]))
	for _, p := range s.st.players[gameID] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) SaveCard(ctx context.Context, c *models.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == 0 {
		c.ID = s.st.id()
		c.CreatedAt = time.Now()
	}
	s.st.cards[cardKey(c.GameID, c.SlipID)] = *c
	return nil
}

func (s *MemoryStore) FindCard(ctx context.Context, gameID, slipID string) (*models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.st.cards[cardKey(gameID, slipID)]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *MemoryStore) AppendTransaction(ctx context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx.ID = s.st.id()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	s.st.txs = append(s.st.txs, *tx)
	return nil
}

func (s *MemoryStore) ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Transaction
	for _, tx := range s.st.txs {
		if f.match(tx) {
			out = append(out, tx)
		}
	}
	return out, nil
}
