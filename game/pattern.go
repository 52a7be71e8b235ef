package game

import (
	"errors"
	"fmt"
	"sort"
)

// Grid marks the cells a pattern requires, indexed [row][col].
type Grid [ColumnSize][Columns]bool

// Cells counts the marked cells.
func (g Grid) Cells() int {
	n := 0
	for r := range g {
		for c := range g[r] {
			if g[r][c] {
				n++
			}
		}
	}
	return n
}

func (g Grid) union(o Grid) Grid {
	for r := range g {
		for c := range g[r] {
			g[r][c] = g[r][c] || o[r][c]
		}
	}
	return g
}

// Pattern is a winning shape. A card wins when any one of its grids is fully drawn.
type Pattern struct {
	Name  string `json:"name"`
	Grids []Grid `json:"grids"`
}

const (
	PatternFullHouse     = "fullHouse"
	PatternAnyHorizontal = "anyHorizontal"
	PatternAnyVertical   = "anyVertical"
	PatternBothDiagonals = "bothDiagonals"
	PatternFourCorners   = "fourCorners"
	PatternX             = "x"
	PatternAnyTwoLines   = "anyTwoLines"
	PatternCustom        = "custom"
)

var ErrInvalidPattern = errors.New("invalid winning pattern")

// aliases are alternative names for a catalog shape. "x" is the same cross as "bothDiagonals".
var aliases = map[string]string{
	PatternX: PatternBothDiagonals,
}

var catalog = buildCatalog()

func rowGrid(r int) Grid {
	var g Grid
	for c := 0; c < Columns; c++ {
		g[r][c] = true
	}
	return g
}

func colGrid(c int) Grid {
	var g Grid
	for r := 0; r < ColumnSize; r++ {
		g[r][c] = true
	}
	return g
}

func diagonals() (Grid, Grid) {
	var down, up Grid
	for i := 0; i < Columns; i++ {
		down[i][i] = true
		up[i][Columns-1-i] = true
	}
	return down, up
}

func buildCatalog() map[string]Pattern {
	var full, corners Grid
	for r := range full {
		for c := range full[r] {
			full[r][c] = true
		}
	}
	corners[0][0], corners[0][4], corners[4][0], corners[4][4] = true, true, true, true

	down, up := diagonals()
	cross := down.union(up)

	var rows, cols []Grid
	for i := 0; i < Columns; i++ {
		rows = append(rows, rowGrid(i))
		cols = append(cols, colGrid(i))
	}

	lines := append(append(append([]Grid{}, rows...), cols...), down, up)
	var twoLines []Grid
	for i := 0; i < len(lines); i++ {
		for j := i + 1; j < len(lines); j++ {
			twoLines = append(twoLines, lines[i].union(lines[j]))
		}
	}

	patterns := map[string]Pattern{
		PatternFullHouse:     {Name: PatternFullHouse, Grids: []Grid{full}},
		PatternAnyHorizontal: {Name: PatternAnyHorizontal, Grids: rows},
		PatternAnyVertical:   {Name: PatternAnyVertical, Grids: cols},
		PatternBothDiagonals: {Name: PatternBothDiagonals, Grids: []Grid{cross}},
		PatternFourCorners:   {Name: PatternFourCorners, Grids: []Grid{corners}},
		PatternAnyTwoLines:   {Name: PatternAnyTwoLines, Grids: twoLines},
	}
	for alias, target := range aliases {
		patterns[alias] = Pattern{Name: alias, Grids: patterns[target].Grids}
	}
	return patterns
}

// NamedPattern looks up a catalog pattern or alias.
func NamedPattern(name string) (Pattern, error) {
	p, ok := catalog[name]
	if !ok {
		return Pattern{}, fmt.Errorf("%w: unknown pattern %q", ErrInvalidPattern, name)
	}
	return Pattern{Name: p.Name, Grids: append([]Grid(nil), p.Grids...)}, nil
}

// PatternNames lists the catalog in a stable order, aliases included.
func PatternNames() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AliasOf returns the pattern an alias stands for, or "" when name is not an alias.
func AliasOf(name string) string {
	return aliases[name]
}

// CustomPattern wraps a caller-supplied grid verbatim.
func CustomPattern(g Grid) (Pattern, error) {
	p := Pattern{Name: PatternCustom, Grids: []Grid{g}}
	if err := p.Validate(); err != nil {
		return Pattern{}, err
	}
	return p, nil
}

// Validate rejects patterns that have no grid with a marked cell.
func (p Pattern) Validate() error {
	for _, g := range p.Grids {
		if g.Cells() > 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: pattern %q marks no cells", ErrInvalidPattern, p.Name)
}

// IsWinner reports whether every marked cell of some grid in the pattern holds a drawn number.
// Grids with no marked cells never match.
func IsWinner(card Card, drawn []int, pattern Pattern) bool {
	called := make(map[int]bool, len(drawn))
	for _, n := range drawn {
		called[n] = true
	}
	for _, g := range pattern.Grids {
		if matches(card, called, g) {
			return true
		}
	}
	return false
}

func matches(card Card, called map[int]bool, g Grid) bool {
	marked := 0
	for r := 0; r < ColumnSize; r++ {
		for c := 0; c < Columns; c++ {
			if !g[r][c] {
				continue
			}
			marked++
			if !called[card.At(r, c)] {
				return false
			}
		}
	}
	return marked > 0
}
