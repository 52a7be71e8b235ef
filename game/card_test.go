package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCardColumns(t *testing.T) {
	for i := 0; i < 500; i++ {
		card := GenerateCard("101")
		require.NoError(t, card.Validate())
		for col := 0; col < Columns; col++ {
			low, high := col*ColumnRange+1, (col+1)*ColumnRange
			seen := map[int]bool{}
			for _, n := range card.Columns[col] {
				assert.GreaterOrEqual(t, n, low)
				assert.LessOrEqual(t, n, high)
				assert.False(t, seen[n], "duplicate %d in column %s", n, Letters[col])
				seen[n] = true
			}
		}
	}
}

func TestCardNumbersRoundTrip(t *testing.T) {
	card := GenerateCard("7")
	back, err := CardFromNumbers("7", card.Numbers())
	require.NoError(t, err)
	assert.Equal(t, card, back)
}

func TestCardFromColumnsRejectsBadShape(t *testing.T) {
	_, err := CardFromColumns("1",
		[]int{1, 2, 3, 4, 5},
		[]int{16, 17, 18, 19, 20},
		[]int{31, 32, 33, 34},
		[]int{46, 47, 48, 49, 50},
		[]int{61, 62, 63, 64, 65})
	assert.Error(t, err)

	_, err = CardFromColumns("1",
		[]int{1, 2, 3, 4, 16},
		[]int{16, 17, 18, 19, 20},
		[]int{31, 32, 33, 34, 35},
		[]int{46, 47, 48, 49, 50},
		[]int{61, 62, 63, 64, 65})
	assert.ErrorContains(t, err, "out of range")

	_, err = CardFromColumns("1",
		[]int{1, 1, 3, 4, 5},
		[]int{16, 17, 18, 19, 20},
		[]int{31, 32, 33, 34, 35},
		[]int{46, 47, 48, 49, 50},
		[]int{61, 62, 63, 64, 65})
	assert.ErrorContains(t, err, "duplicate")
}
