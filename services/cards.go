package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/bellapacxx/bingo-caller/game"
	"github.com/bellapacxx/bingo-caller/models"
)

// BingoCard is the on-disk format of a pre-printed card.
type BingoCard struct {
	B      []int `json:"B"`
	I      []int `json:"I"`
	N      []int `json:"N"`
	G      []int `json:"G"`
	O      []int `json:"O"`
	CardID int   `json:"card_id"`
}

// CardCatalog maps slip ids to pre-printed cards. Read-only after load.
type CardCatalog struct {
	cards map[string]game.Card
}

// LoadCardCatalog reads a cards.json file and validates every card.
func LoadCardCatalog(path string) (*CardCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var raw []BingoCard
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return NewCardCatalog(raw)
}

func NewCardCatalog(raw []BingoCard) (*CardCatalog, error) {
	c := &CardCatalog{cards: make(map[string]game.Card, len(raw))}
	for _, bc := range raw {
		slip := strconv.Itoa(bc.CardID)
		if _, dup := c.cards[slip]; dup {
			return nil, fmt.Errorf("card %s listed twice", slip)
		}
		card, err := game.CardFromColumns(slip, bc.B, bc.I, bc.N, bc.G, bc.O)
		if err != nil {
			return nil, err
		}
		c.cards[slip] = card
	}
	return c, nil
}

func (c *CardCatalog) Lookup(slipID string) (game.Card, bool) {
	if c == nil {
		return game.Card{}, false
	}
	card, ok := c.cards[slipID]
	return card, ok
}

func (c *CardCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.cards)
}

// resolveCard finds the card for a slip: catalog first, then a card already
// stored for this game, else a freshly generated one which is saved through tx.
func resolveCard(ctx context.Context, tx Store, catalog *CardCatalog, gameID, slipID string) (game.Card, error) {
	if card, ok := catalog.Lookup(slipID); ok {
		return card, nil
	}
	stored, err := tx.FindCard(ctx, gameID, slipID)
	if err != nil {
		return game.Card{}, err
	}
	if stored != nil {
		return game.CardFromNumbers(slipID, stored.Numbers)
	}
	card := game.GenerateCard(slipID)
	if err := tx.SaveCard(ctx, &models.Card{GameID: gameID, SlipID: slipID, Numbers: card.Numbers()}); err != nil {
		return game.Card{}, err
	}
	return card, nil
}
