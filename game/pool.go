package game

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrPoolExhausted means all 75 numbers have been called.
var ErrPoolExhausted = errors.New("all numbers have been called")

// Pool holds the not-yet-called numbers in draw order.
type Pool struct {
	remaining []int
}

// NewPool shuffles 1..75.
func NewPool() *Pool {
	nums := make([]int, MaxNumber)
	for i := range nums {
		nums[i] = i + 1
	}
	rand.Shuffle(len(nums), func(i, j int) { nums[i], nums[j] = nums[j], nums[i] })
	return &Pool{remaining: nums}
}

// RestorePool rebuilds a pool from a persisted remaining order.
func RestorePool(remaining []int) *Pool {
	return &Pool{remaining: append([]int(nil), remaining...)}
}

// Draw removes and returns the next number.
func (p *Pool) Draw() (int, error) {
	if len(p.remaining) == 0 {
		return 0, ErrPoolExhausted
	}
	n := p.remaining[0]
	p.remaining = p.remaining[1:]
	return n, nil
}

// Remaining returns a copy of the uncalled numbers in draw order.
func (p *Pool) Remaining() []int {
	return append([]int(nil), p.remaining...)
}

func (p *Pool) Len() int {
	return len(p.remaining)
}

// Letter maps a number to its column letter.
func Letter(n int) string {
	if n < 1 || n > MaxNumber {
		return ""
	}
	return Letters[(n-1)/ColumnRange]
}

// Call formats a number the way the caller announces it, e.g. "B-7".
func Call(n int) string {
	return fmt.Sprintf("%s-%d", Letter(n), n)
}
