package game

import (
	"fmt"
	"math/rand"
)

const (
	Columns     = 5
	ColumnSize  = 5
	ColumnRange = 15
	MaxNumber   = Columns * ColumnRange
)

var Letters = [Columns]string{"B", "I", "N", "G", "O"}

// Card is a 5x5 bingo card. Columns[c][r] is the number in column c (B..O), row r.
type Card struct {
	SlipID  string                   `json:"slip_id"`
	Columns [Columns][ColumnSize]int `json:"columns"`
}

// GenerateCard draws 5 distinct numbers per column from that column's range.
func GenerateCard(slipID string) Card {
	card := Card{SlipID: slipID}
	for c := 0; c < Columns; c++ {
		low := c*ColumnRange + 1
		perm := rand.Perm(ColumnRange)
		for r := 0; r < ColumnSize; r++ {
			card.Columns[c][r] = low + perm[r]
		}
	}
	return card
}

// CardFromColumns builds a card from per-letter slices, as stored in a card catalog.
func CardFromColumns(slipID string, b, i, n, g, o []int) (Card, error) {
	card := Card{SlipID: slipID}
	for c, col := range [][]int{b, i, n, g, o} {
		if len(col) != ColumnSize {
			return Card{}, fmt.Errorf("column %s has %d numbers, want %d", Letters[c], len(col), ColumnSize)
		}
		copy(card.Columns[c][:], col)
	}
	if err := card.Validate(); err != nil {
		return Card{}, err
	}
	return card, nil
}

// CardFromNumbers rebuilds a card from its column-major flat form.
func CardFromNumbers(slipID string, numbers []int) (Card, error) {
	if len(numbers) != Columns*ColumnSize {
		return Card{}, fmt.Errorf("card %s has %d numbers, want %d", slipID, len(numbers), Columns*ColumnSize)
	}
	card := Card{SlipID: slipID}
	for c := 0; c < Columns; c++ {
		copy(card.Columns[c][:], numbers[c*ColumnSize:(c+1)*ColumnSize])
	}
	if err := card.Validate(); err != nil {
		return Card{}, err
	}
	return card, nil
}

// Numbers flattens the card column by column: B1..B5, I1..I5, ...
func (c Card) Numbers() []int {
	out := make([]int, 0, Columns*ColumnSize)
	for col := 0; col < Columns; col++ {
		out = append(out, c.Columns[col][:]...)
	}
	return out
}

// At returns the number shown at grid position (row, col).
func (c Card) At(row, col int) int {
	return c.Columns[col][row]
}

// Validate checks every column holds distinct numbers from its own range.
func (c Card) Validate() error {
	for col := 0; col < Columns; col++ {
		low, high := col*ColumnRange+1, (col+1)*ColumnRange
		seen := make(map[int]bool, ColumnSize)
		for _, n := range c.Columns[col] {
			if n < low || n > high {
				return fmt.Errorf("card %s: %d out of range for column %s", c.SlipID, n, Letters[col])
			}
			if seen[n] {
				return fmt.Errorf("card %s: duplicate %d in column %s", c.SlipID, n, Letters[col])
			}
			seen[n] = true
		}
	}
	return nil
}
