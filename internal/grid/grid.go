package grid

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Default extents of a new grid.
const (
	DefaultRows    = 10
	DefaultColumns = 10
)

var ErrInvalidRef = errors.New("invalid cell reference")

// Coord is a 0-based (row, column) position.
type Coord struct {
	Row int
	Col int
}

// Name renders the coordinate as a reference, e.g. {0,0} -> "A1".
func (c Coord) Name() string {
	return ColRowToName(c.Col, c.Row)
}

// Getter is the read side of a grid, as seen by the evaluator.
type Getter interface {
	Cell(row, col int) Cell
}

// Grid is a sparse cell store. Rows and Columns are the visible extents;
// cells outside them may still exist after a load.
type Grid struct {
	Rows    int
	Columns int
	cells   map[Coord]Cell
}

func New(rows, columns int) *Grid {
	if rows < 1 {
		rows = DefaultRows
	}
	if columns < 1 {
		columns = DefaultColumns
	}
	return &Grid{
		Rows:    rows,
		Columns: columns,
		cells:   map[Coord]Cell{},
	}
}

// Cell returns the stored cell or an empty one.
func (g *Grid) Cell(row, col int) Cell {
	return g.cells[Coord{row, col}]
}

// Lookup is like Cell but reports whether the cell exists.
func (g *Grid) Lookup(row, col int) (Cell, bool) {
	c, ok := g.cells[Coord{row, col}]
	return c, ok
}

// Set replaces the cell wholesale. Setting an empty cell clears it.
func (g *Grid) Set(row, col int, c Cell) {
	if c.IsEmpty() {
		g.Clear(row, col)
		return
	}
	g.cells[Coord{row, col}] = c
}

func (g *Grid) Clear(row, col int) {
	delete(g.cells, Coord{row, col})
}

func (g *Grid) Len() int {
	return len(g.cells)
}

// Coords lists occupied positions in row-major order.
func (g *Grid) Coords() []Coord {
	out := make([]Coord, 0, len(g.cells))
	for k := range g.cells {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Bounds returns the max occupied row and column, or -1,-1 for an empty grid.
func (g *Grid) Bounds() (int, int) {
	maxR, maxC := -1, -1
	for k := range g.cells {
		if k.Row > maxR {
			maxR = k.Row
		}
		if k.Col > maxC {
			maxC = k.Col
		}
	}
	return maxR, maxC
}

// Grow widens the extents so that (row, col) is inside them.
func (g *Grid) Grow(row, col int) {
	if row+1 > g.Rows {
		g.Rows = row + 1
	}
	if col+1 > g.Columns {
		g.Columns = col + 1
	}
}

// ColToName: 0 -> A, 25 -> Z, 26 -> AA and so on
func ColToName(col int) string {
	if col < 0 {
		return "?"
	}
	result := ""
	n := col + 1
	for n > 0 {
		n--
		result = string(rune('A'+(n%26))) + result
		n /= 26
	}
	return result
}

// ColRowToName builds cell name from 0-based col,row -> e.g., col 0,row0 -> "A1"
func ColRowToName(col, row int) string {
	return fmt.Sprintf("%s%d", ColToName(col), row+1)
}

// ParseRef decodes an uppercase reference like "B12" or "AA1".
func ParseRef(name string) (Coord, error) {
	i := 0
	for i < len(name) && isUpper(name[i]) {
		i++
	}
	if i == 0 || i == len(name) {
		return Coord{}, fmt.Errorf("%w: %q", ErrInvalidRef, name)
	}
	col := 0
	for j := 0; j < i; j++ {
		if col > (math.MaxInt32-26)/26 {
			return Coord{}, fmt.Errorf("%w: %q: column out of range", ErrInvalidRef, name)
		}
		col = col*26 + int(name[j]-'A') + 1
	}
	for j := i; j < len(name); j++ {
		if !isDigit(name[j]) {
			return Coord{}, fmt.Errorf("%w: %q", ErrInvalidRef, name)
		}
	}
	rowNum, err := strconv.Atoi(name[i:])
	if err != nil || rowNum < 1 {
		return Coord{}, fmt.Errorf("%w: %q: row out of range", ErrInvalidRef, name)
	}
	return Coord{Row: rowNum - 1, Col: col - 1}, nil
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
