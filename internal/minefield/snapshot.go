package minefield

import (
	"bufio"
	"fmt"
	"io"
)

// CellSnapshot is the renderer-facing view of one cell.
//
// IsMine is only reported once the game is over. MinesAround is zero for
// unrevealed cells while the game is in play.
type CellSnapshot struct {
	Row         int  `json:"row"`
	Col         int  `json:"col"`
	IsMine      bool `json:"is_mine,omitempty"`
	IsFlagged   bool `json:"is_flagged"`
	IsRevealed  bool `json:"is_revealed"`
	MinesAround int  `json:"mines_around"`
}

// Snapshot returns the view of the cell at (row, col).
func (g *Grid) Snapshot(row, col int) (CellSnapshot, error) {
	i, err := g.locate(row, col)
	if err != nil {
		return CellSnapshot{}, err
	}
	return g.snapshot(i), nil
}

// Snapshots returns every cell in row-major order.
func (g *Grid) Snapshots() []CellSnapshot {
	out := make([]CellSnapshot, len(g.cells))
	for i := range g.cells {
		out[i] = g.snapshot(i)
	}
	return out
}

func (g *Grid) snapshot(i int) CellSnapshot {
	c := &g.cells[i]
	over := g.state != InPlay
	s := CellSnapshot{
		Row:        c.row,
		Col:        c.col,
		IsFlagged:  c.isFlagged,
		IsRevealed: c.isRevealed,
	}
	if c.isRevealed || over {
		s.MinesAround = int(c.minesAround)
	}
	if over {
		s.IsMine = c.isMine
	}
	return s
}

// Render glyphs.
const (
	GlyphHidden  = '-'
	GlyphFlag    = 'F'
	GlyphMine    = '*'
	GlyphEmpty   = '.'
	GlyphBadFlag = 'X'
)

// Render writes a plain-text dump of the board, one row per line.
//
// Hidden cells are '-', flags 'F', revealed zero cells '.', numbered cells
// their digit. Mines ('*') and wrong flags ('X') are shown when showMines
// is set or the game is over.
func (g *Grid) Render(w io.Writer, showMines bool) error {
	bw := bufio.NewWriter(w)
	show := showMines || g.state != InPlay

	for r := 0; r < g.rows; r++ {
		for col := 0; col < g.cols; col++ {
			c := &g.cells[g.index(r, col)]
			if err := bw.WriteByte(glyph(c, show)); err != nil {
				return fmt.Errorf("render: %w", err)
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}
	return bw.Flush()
}

func glyph(c *cell, show bool) byte {
	switch {
	case c.isRevealed && c.minesAround == 0:
		return GlyphEmpty
	case c.isRevealed:
		return '0' + c.minesAround
	case c.isFlagged && show && !c.isMine:
		return GlyphBadFlag
	case c.isFlagged:
		return GlyphFlag
	case c.isMine && show:
		return GlyphMine
	default:
		return GlyphHidden
	}
}
