package minefield

import (
	"math/rand/v2"
	"slices"
)

// MaxCells bounds rows*cols so index arithmetic never overflows.
const MaxCells = 1 << 24

// Rand is the random source used for mine placement.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// Coord addresses one cell.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// State is the grid-level game state.
type State int

const (
	InPlay State = iota
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case InPlay:
		return "in_play"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

type cell struct {
	row, col    int
	isMine      bool
	isFlagged   bool
	isRevealed  bool
	minesAround uint8
}

// Grid is one Minesweeper board and its play state.
type Grid struct {
	rows, cols  int
	numMines    int
	numRevealed int
	numFlagged  int
	state       State
	started     bool

	cells []cell

	// Neighbors of cell i are nbrs[nbrOff[i]:nbrOff[i+1]].
	nbrOff []int32
	nbrs   []int32

	queue cellQueue
}

// New creates a grid and places numMines mines by rejection sampling:
// (row, col) pairs are drawn uniformly from rng until numMines distinct
// cells are mines.
//
// Fails with INVALID_CONFIG unless rows >= 1, cols >= 1 and
// 0 <= numMines <= rows*cols-1.
func New(rows, cols, numMines int, rng Rand) (*Grid, error) {
	if err := validateConfig(rows, cols, numMines); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, newConfigError(rows, cols, numMines, "random source is required")
	}

	g := newGrid(rows, cols, numMines)
	for placed := 0; placed < numMines; {
		row := rng.IntN(rows)
		col := rng.IntN(cols)
		c := &g.cells[g.index(row, col)]
		if c.isMine {
			continue
		}
		c.isMine = true
		placed++
	}
	g.link()
	return g, nil
}

// NewSeeded is New with a PCG generator derived from seed.
// The same seed always yields the same mine layout.
func NewSeeded(rows, cols, numMines int, seed uint64) (*Grid, error) {
	return New(rows, cols, numMines, NewRand(seed))
}

// NewRand returns the deterministic generator used by NewSeeded.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewFromLayout creates a grid whose mines are exactly the given cells.
// Duplicate or out-of-range coordinates are INVALID_CONFIG.
func NewFromLayout(rows, cols int, mines []Coord) (*Grid, error) {
	if err := validateConfig(rows, cols, len(mines)); err != nil {
		return nil, err
	}

	g := newGrid(rows, cols, len(mines))
	for _, m := range mines {
		if !g.inBounds(m.Row, m.Col) {
			return nil, newConfigError(rows, cols, len(mines), "mine (%d, %d) outside %dx%d board", m.Row, m.Col, rows, cols)
		}
		c := &g.cells[g.index(m.Row, m.Col)]
		if c.isMine {
			return nil, newConfigError(rows, cols, len(mines), "duplicate mine at (%d, %d)", m.Row, m.Col)
		}
		c.isMine = true
	}
	g.link()
	return g, nil
}

func newGrid(rows, cols, numMines int) *Grid {
	n := rows * cols
	g := &Grid{
		rows:     rows,
		cols:     cols,
		numMines: numMines,
		cells:    make([]cell, n),
		queue:    newCellQueue(),
	}
	for i := range g.cells {
		g.cells[i].row = i / cols
		g.cells[i].col = i % cols
	}
	return g
}

// link builds the adjacency arena and computes minesAround for every
// non-mine cell. Runs once, after mine placement.
func (g *Grid) link() {
	n := len(g.cells)
	g.nbrOff = make([]int32, n+1)
	g.nbrs = make([]int32, 0, n*8)

	for i := range g.cells {
		c := &g.cells[i]
		top, bottom := max(c.row-1, 0), min(c.row+1, g.rows-1)
		left, right := max(c.col-1, 0), min(c.col+1, g.cols-1)

		mines := uint8(0)
		for r := top; r <= bottom; r++ {
			for col := left; col <= right; col++ {
				if r == c.row && col == c.col {
					continue
				}
				j := g.index(r, col)
				g.nbrs = append(g.nbrs, int32(j))
				if g.cells[j].isMine {
					mines++
				}
			}
		}
		g.nbrOff[i+1] = int32(len(g.nbrs))
		if !c.isMine {
			c.minesAround = mines
		}
	}
}

func (g *Grid) index(row, col int) int {
	return row*g.cols + col
}

func (g *Grid) inBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// locate validates a coordinate and returns its arena index.
func (g *Grid) locate(row, col int) (int, error) {
	if !g.inBounds(row, col) {
		return 0, newBoundsError(g, row, col)
	}
	return g.index(row, col), nil
}

func (g *Grid) neighbors(i int) []int32 {
	return g.nbrs[g.nbrOff[i]:g.nbrOff[i+1]]
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// NumMines returns the number of mines on the board.
func (g *Grid) NumMines() int { return g.numMines }

// NumRevealed returns how many cells have been revealed.
func (g *Grid) NumRevealed() int { return g.numRevealed }

// FlagCount returns how many cells are currently flagged.
func (g *Grid) FlagCount() int { return g.numFlagged }

// MinesRemaining is the classic mine counter: mines minus flags.
// It goes negative when the player over-flags.
func (g *Grid) MinesRemaining() int { return g.numMines - g.numFlagged }

// State returns the grid-level game state.
func (g *Grid) State() State { return g.state }

// Started reports whether any reveal or chord has been attempted.
// Timers start on the first such move.
func (g *Grid) Started() bool { return g.started }

// Clone returns an independent copy of the board and its play state.
// The adjacency arena is immutable after construction and is shared.
func (g *Grid) Clone() *Grid {
	c := *g
	c.cells = slices.Clone(g.cells)
	c.queue = newCellQueue()
	return &c
}

// Mines returns the mine layout in row-major order.
func (g *Grid) Mines() []Coord {
	out := make([]Coord, 0, g.numMines)
	for i := range g.cells {
		if g.cells[i].isMine {
			out = append(out, Coord{Row: g.cells[i].row, Col: g.cells[i].col})
		}
	}
	return out
}

// Neighbors returns the coordinates adjacent to (row, col), in traversal
// order.
func (g *Grid) Neighbors(row, col int) ([]Coord, error) {
	i, err := g.locate(row, col)
	if err != nil {
		return nil, err
	}
	nbrs := g.neighbors(i)
	out := make([]Coord, len(nbrs))
	for k, j := range nbrs {
		out[k] = Coord{Row: g.cells[j].row, Col: g.cells[j].col}
	}
	return out, nil
}
