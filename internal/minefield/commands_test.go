package minefield

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func layout(t *testing.T, rows, cols int, mines ...Coord) *Grid {
	t.Helper()
	g, err := NewFromLayout(rows, cols, mines)
	require.NoError(t, err)
	return g
}

func coords(snaps []CellSnapshot) []Coord {
	out := make([]Coord, len(snaps))
	for i, s := range snaps {
		out[i] = Coord{Row: s.Row, Col: s.Col}
	}
	return out
}

func revealedCount(g *Grid) int {
	n := 0
	for i := range g.cells {
		if g.cells[i].isRevealed {
			n++
		}
	}
	return n
}

func render(t *testing.T, g *Grid, showMines bool) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, g.Render(&buf, showMines))
	return buf.String()
}

func TestReveal_ZeroCellCascadesAndWins(t *testing.T) {
	g := layout(t, 3, 3, Coord{0, 0})

	res, err := g.Reveal(2, 2)
	require.NoError(t, err)

	assert.Equal(t, Win, res.Outcome)
	assert.False(t, res.NoOp)
	assert.Nil(t, res.Detonated)
	assert.Equal(t, []Coord{{2, 2}, {1, 1}, {1, 2}, {2, 1}, {0, 1}, {0, 2}, {1, 0}, {2, 0}}, coords(res.Revealed))
	assert.Equal(t, 8, g.NumRevealed())
	assert.Equal(t, Won, g.State())
	assert.True(t, g.CheckWin())
	assert.True(t, g.Started())

	for _, s := range res.Revealed {
		assert.True(t, s.IsRevealed)
		assert.False(t, s.IsMine)
	}

	mine, err := g.Snapshot(0, 0)
	require.NoError(t, err)
	assert.True(t, mine.IsMine, "mines are exposed once the game is over")
	assert.False(t, mine.IsRevealed)
}

func TestReveal_NumberedCellDoesNotCascade(t *testing.T) {
	g := layout(t, 3, 3, Coord{0, 0})

	res, err := g.Reveal(1, 1)
	require.NoError(t, err)

	assert.Equal(t, Continue, res.Outcome)
	require.Len(t, res.Revealed, 1)
	assert.Equal(t, CellSnapshot{Row: 1, Col: 1, IsRevealed: true, MinesAround: 1}, res.Revealed[0])
	assert.Equal(t, 1, g.NumRevealed())
	assert.Equal(t, "---\n-1-\n---\n", render(t, g, false))
	assert.Equal(t, "*--\n-1-\n---\n", render(t, g, true))
}

func TestReveal_MineLosesWithoutCascade(t *testing.T) {
	g := layout(t, 3, 3, Coord{0, 0})

	res, err := g.Reveal(0, 0)
	require.NoError(t, err)

	assert.Equal(t, Lose, res.Outcome)
	assert.Empty(t, res.Revealed)
	require.NotNil(t, res.Detonated)
	assert.Equal(t, Coord{0, 0}, *res.Detonated)
	assert.Equal(t, 0, g.NumRevealed())
	assert.Equal(t, Lost, g.State())
	assert.Equal(t, 0, revealedCount(g))
}

func TestReveal_AfterGameOverIsNoOp(t *testing.T) {
	g := layout(t, 3, 3, Coord{0, 0})
	_, err := g.Reveal(0, 0)
	require.NoError(t, err)

	res, err := g.Reveal(2, 2)
	require.NoError(t, err)
	assert.True(t, res.NoOp)
	assert.Equal(t, Lose, res.Outcome)
	assert.Equal(t, 0, g.NumRevealed())

	flag, err := g.ToggleFlag(2, 2)
	require.NoError(t, err)
	assert.True(t, flag.NoOp)
	assert.False(t, flag.Flagged)

	chord, err := g.Chord(1, 1)
	require.NoError(t, err)
	assert.True(t, chord.NoOp)
	assert.Equal(t, Lose, chord.Outcome)
}

func TestReveal_RevealedAndFlaggedAreNoOps(t *testing.T) {
	g := layout(t, 3, 3, Coord{0, 0})

	_, err := g.Reveal(1, 1)
	require.NoError(t, err)

	res, err := g.Reveal(1, 1)
	require.NoError(t, err)
	assert.True(t, res.NoOp)
	assert.Equal(t, Continue, res.Outcome)
	assert.Equal(t, 1, g.NumRevealed())

	_, err = g.ToggleFlag(0, 0)
	require.NoError(t, err)
	res, err = g.Reveal(0, 0)
	require.NoError(t, err)
	assert.True(t, res.NoOp, "flagged mine cannot be revealed directly")
	assert.Equal(t, InPlay, g.State())
}

func TestReveal_FloodStopsAtFlags(t *testing.T) {
	g := layout(t, 1, 5, Coord{0, 4})

	_, err := g.ToggleFlag(0, 1)
	require.NoError(t, err)

	res, err := g.Reveal(0, 0)
	require.NoError(t, err)
	assert.Equal(t, []Coord{{0, 0}}, coords(res.Revealed))

	snap, err := g.Snapshot(0, 1)
	require.NoError(t, err)
	assert.True(t, snap.IsFlagged)
	assert.False(t, snap.IsRevealed)
}

func TestReveal_OutOfBounds(t *testing.T) {
	g := layout(t, 2, 3)

	for _, c := range []Coord{{-1, 0}, {0, -1}, {2, 0}, {0, 3}} {
		_, err := g.Reveal(c.Row, c.Col)
		assert.True(t, IsOutOfBounds(err), "reveal %v", c)
		_, err = g.ToggleFlag(c.Row, c.Col)
		assert.True(t, IsOutOfBounds(err), "flag %v", c)
		_, err = g.Chord(c.Row, c.Col)
		assert.True(t, IsOutOfBounds(err), "chord %v", c)
		_, err = g.Snapshot(c.Row, c.Col)
		assert.True(t, IsOutOfBounds(err), "snapshot %v", c)
	}
}

func TestReveal_NoMinesWinsImmediately(t *testing.T) {
	g := layout(t, 4, 4)
	res, err := g.Reveal(3, 0)
	require.NoError(t, err)
	assert.Equal(t, Win, res.Outcome)
	assert.Len(t, res.Revealed, 16)
}

func TestToggleFlag(t *testing.T) {
	g := layout(t, 3, 3, Coord{0, 0})

	res, err := g.ToggleFlag(0, 0)
	require.NoError(t, err)
	assert.Equal(t, FlagResult{Flagged: true}, res)
	assert.Equal(t, 1, g.FlagCount())
	assert.Equal(t, 0, g.MinesRemaining())

	res, err = g.ToggleFlag(2, 2)
	require.NoError(t, err)
	assert.True(t, res.Flagged)
	assert.Equal(t, -1, g.MinesRemaining())

	res, err = g.ToggleFlag(2, 2)
	require.NoError(t, err)
	assert.False(t, res.Flagged)
	assert.Equal(t, 1, g.FlagCount())

	assert.Equal(t, 0, g.NumRevealed(), "flags never reveal")
	assert.False(t, g.Started(), "flags do not start the game")
}

func TestToggleFlag_RevealedIsNoOp(t *testing.T) {
	g := layout(t, 3, 3, Coord{0, 0})
	_, err := g.Reveal(1, 1)
	require.NoError(t, err)

	res, err := g.ToggleFlag(1, 1)
	require.NoError(t, err)
	assert.Equal(t, FlagResult{Flagged: false, NoOp: true}, res)
	assert.Equal(t, 0, g.FlagCount())
}

func TestChord_RevealsUnflaggedNeighbors(t *testing.T) {
	// Mines at (0,0) and (2,4) on a 3x5 board.
	g := layout(t, 3, 5, Coord{0, 0}, Coord{2, 4})

	_, err := g.Reveal(1, 1)
	require.NoError(t, err)
	_, err = g.ToggleFlag(0, 0)
	require.NoError(t, err)

	res, err := g.Chord(1, 1)
	require.NoError(t, err)
	assert.False(t, res.NoOp)

	// (0,2) is a zero cell, so its cascade opens the rest of the board.
	assert.Equal(t, Win, res.Outcome)
	assert.Equal(t, 13, g.NumRevealed())

	// Every revealed cell must be a non-mine neighbor of (1,1) or reached
	// through a zero neighbor's cascade.
	for _, s := range res.Revealed {
		assert.False(t, g.cells[g.index(s.Row, s.Col)].isMine)
	}
	snap, err := g.Snapshot(0, 0)
	require.NoError(t, err)
	assert.True(t, snap.IsFlagged, "chord never changes flags")
	assert.False(t, snap.IsRevealed)

	nbrs, err := g.Neighbors(1, 1)
	require.NoError(t, err)
	for _, n := range nbrs {
		s, err := g.Snapshot(n.Row, n.Col)
		require.NoError(t, err)
		if n == (Coord{0, 0}) {
			continue
		}
		assert.True(t, s.IsRevealed, "neighbor %v should be revealed", n)
	}
	assert.Equal(t, revealedCount(g), g.NumRevealed())
}

func TestChord_ExactNeighborhood(t *testing.T) {
	// The zero cells at (2,0) and (2,1) cascade only into other neighbors
	// of (1,1), so the chord opens exactly its unflagged neighborhood.
	g := layout(t, 3, 4, Coord{0, 0}, Coord{0, 3}, Coord{2, 3})

	_, err := g.Reveal(1, 1)
	require.NoError(t, err)
	_, err = g.ToggleFlag(0, 0)
	require.NoError(t, err)

	res, err := g.Chord(1, 1)
	require.NoError(t, err)
	assert.Equal(t, []Coord{{0, 1}, {0, 2}, {1, 0}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}, coords(res.Revealed))
	assert.Equal(t, 8, g.NumRevealed())
	assert.Equal(t, 1, g.FlagCount())
}

func TestChord_WinsWhenLastCellsOpen(t *testing.T) {
	g := layout(t, 3, 3, Coord{0, 0})
	_, err := g.Reveal(1, 1)
	require.NoError(t, err)
	_, err = g.ToggleFlag(0, 0)
	require.NoError(t, err)

	res, err := g.Chord(1, 1)
	require.NoError(t, err)
	assert.Equal(t, Win, res.Outcome)
	assert.Len(t, res.Revealed, 7)
	assert.Equal(t, Won, g.State())
}

func TestChord_WrongFlagLoses(t *testing.T) {
	g := layout(t, 3, 3, Coord{0, 0})
	_, err := g.Reveal(1, 1)
	require.NoError(t, err)
	_, err = g.ToggleFlag(0, 1)
	require.NoError(t, err)

	res, err := g.Chord(1, 1)
	require.NoError(t, err)
	assert.Equal(t, Lose, res.Outcome)
	require.NotNil(t, res.Detonated)
	assert.Equal(t, Coord{0, 0}, *res.Detonated)
	assert.Empty(t, res.Revealed)
	assert.Equal(t, Lost, g.State())
	assert.Equal(t, 1, g.NumRevealed())
	assert.Equal(t, "*X-\n-1-\n---\n", render(t, g, false))
}

func TestChord_NoOps(t *testing.T) {
	tests := []struct {
		name  string
		mines []Coord
		setup func(g *Grid)
		row   int
		col   int
	}{
		{
			name:  "hidden cell",
			mines: []Coord{{0, 0}},
			setup: func(g *Grid) {},
			row:   1, col: 1,
		},
		{
			name:  "zero cell",
			mines: []Coord{{0, 0}, {0, 2}, {1, 2}, {2, 2}},
			setup: func(g *Grid) {
				_, _ = g.Reveal(0, 4)
			},
			row: 0, col: 4,
		},
		{
			name:  "too few flags",
			mines: []Coord{{0, 0}},
			setup: func(g *Grid) {
				_, _ = g.Reveal(1, 1)
			},
			row: 1, col: 1,
		},
		{
			name:  "too many flags",
			mines: []Coord{{0, 0}},
			setup: func(g *Grid) {
				_, _ = g.Reveal(1, 1)
				_, _ = g.ToggleFlag(0, 0)
				_, _ = g.ToggleFlag(2, 2)
			},
			row: 1, col: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := layout(t, 3, 5, tt.mines...)
			tt.setup(g)
			before := g.NumRevealed()

			res, err := g.Chord(tt.row, tt.col)
			require.NoError(t, err)
			assert.True(t, res.NoOp)
			assert.Equal(t, Continue, res.Outcome)
			assert.Equal(t, before, g.NumRevealed())
			assert.Equal(t, InPlay, g.State())
		})
	}
}

// referenceRegion computes, by recursion, the cells a zero-cell reveal
// should open on an unflagged board.
func referenceRegion(g *Grid, row, col int) map[Coord]bool {
	seen := make(map[Coord]bool)
	var visit func(r, c int)
	visit = func(r, c int) {
		if r < 0 || r >= g.rows || c < 0 || c >= g.cols {
			return
		}
		k := Coord{r, c}
		cl := g.cells[g.index(r, c)]
		if seen[k] || cl.isMine {
			return
		}
		seen[k] = true
		if bruteMinesAround(g, r, c) != 0 {
			return
		}
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				visit(r+dr, c+dc)
			}
		}
	}
	visit(row, col)
	return seen
}

func TestReveal_FloodMatchesReferenceRegion(t *testing.T) {
	for seed := uint64(1); seed <= 30; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			g, err := NewSeeded(10, 14, 18, seed)
			require.NoError(t, err)

			// Pick the first zero cell.
			start := -1
			for i := range g.cells {
				if !g.cells[i].isMine && g.cells[i].minesAround == 0 {
					start = i
					break
				}
			}
			if start < 0 {
				t.Skip("no zero cell on this board")
			}
			row, col := g.cells[start].row, g.cells[start].col
			expected := referenceRegion(g, row, col)

			res, err := g.Reveal(row, col)
			require.NoError(t, err)

			got := make(map[Coord]bool)
			for _, s := range res.Revealed {
				c := Coord{s.Row, s.Col}
				assert.False(t, got[c], "cell %v revealed twice", c)
				got[c] = true
			}
			assert.Equal(t, expected, got)
			assert.Equal(t, len(expected), g.NumRevealed())
		})
	}
}

func TestRandomPlay_RevealedCountMatchesCells(t *testing.T) {
	for seed := uint64(1); seed <= 25; seed++ {
		g, err := NewSeeded(8, 8, 10, seed)
		require.NoError(t, err)
		moves := NewRand(seed + 1000)

		last := 0
		for step := 0; step < 200 && g.State() == InPlay; step++ {
			r, c := moves.IntN(8), moves.IntN(8)
			switch moves.IntN(4) {
			case 0:
				_, err = g.ToggleFlag(r, c)
			case 1:
				_, err = g.Chord(r, c)
			default:
				cl := g.cells[g.index(r, c)]
				if cl.isMine && moves.IntN(5) != 0 {
					continue
				}
				_, err = g.Reveal(r, c)
			}
			require.NoError(t, err)

			assert.Equal(t, revealedCount(g), g.NumRevealed(), "seed %d step %d", seed, step)
			assert.GreaterOrEqual(t, g.NumRevealed(), last, "numRevealed never decreases")
			last = g.NumRevealed()
			assert.Equal(t, g.NumRevealed() == 64-10, g.State() == Won, "win exactly when all safe cells are open")

			for i := range g.cells {
				cl := g.cells[i]
				assert.False(t, cl.isRevealed && cl.isFlagged, "cell cannot be revealed and flagged")
				assert.False(t, cl.isRevealed && cl.isMine, "mines are never revealed")
			}
		}
	}
}

func TestOutcome_ParseRoundTrip(t *testing.T) {
	for _, o := range []Outcome{Continue, Win, Lose} {
		got, ok := ParseOutcome(o.String())
		require.True(t, ok)
		assert.Equal(t, o, got)
	}
	_, ok := ParseOutcome("draw")
	assert.False(t, ok)
}
