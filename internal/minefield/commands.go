package minefield

// Outcome is the game-level result of a command.
type Outcome int

const (
	Continue Outcome = iota
	Win
	Lose
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Win:
		return "win"
	case Lose:
		return "lose"
	default:
		return "unknown"
	}
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) (Outcome, bool) {
	switch s {
	case "continue":
		return Continue, true
	case "win":
		return Win, true
	case "lose":
		return Lose, true
	}
	return Continue, false
}

// RevealResult is returned by Reveal and Chord.
type RevealResult struct {
	// Revealed lists the cells opened by this command in reveal order.
	Revealed []CellSnapshot `json:"revealed"`

	// Outcome is Win or Lose if the command ended the game (or the game
	// had already ended), Continue otherwise.
	Outcome Outcome `json:"outcome"`

	// NoOp is true when the command changed nothing.
	NoOp bool `json:"noop,omitempty"`

	// Detonated is the mine that lost the game, if this command lost it.
	Detonated *Coord `json:"detonated,omitempty"`
}

// FlagResult is returned by ToggleFlag.
type FlagResult struct {
	Flagged bool `json:"flagged"`
	NoOp    bool `json:"noop,omitempty"`
}

// Reveal opens the cell at (row, col).
//
// Revealed and flagged cells are no-ops. A mine loses the game without
// touching any other cell. A cell with no adjacent mines opens its whole
// connected zero region plus the numbered cells bordering it. Every reveal
// is followed by a win check.
func (g *Grid) Reveal(row, col int) (RevealResult, error) {
	i, err := g.locate(row, col)
	if err != nil {
		return RevealResult{}, err
	}
	if g.state != InPlay {
		return g.noop(), nil
	}

	c := &g.cells[i]
	if c.isRevealed || c.isFlagged {
		return g.noop(), nil
	}
	g.started = true

	if c.isMine {
		return g.detonate(i), nil
	}

	opened := g.flood(i, nil)
	return g.settle(opened), nil
}

// ToggleFlag flips the flag on a hidden cell.
// Revealed cells are a silent no-op. Flags never affect the win check.
func (g *Grid) ToggleFlag(row, col int) (FlagResult, error) {
	i, err := g.locate(row, col)
	if err != nil {
		return FlagResult{}, err
	}

	c := &g.cells[i]
	if g.state != InPlay || c.isRevealed {
		return FlagResult{Flagged: c.isFlagged, NoOp: true}, nil
	}

	c.isFlagged = !c.isFlagged
	if c.isFlagged {
		g.numFlagged++
	} else {
		g.numFlagged--
	}
	return FlagResult{Flagged: c.isFlagged}, nil
}

// Chord opens every unflagged hidden neighbor of a revealed numbered cell
// once the number of flagged neighbors equals its mine count.
//
// If the flags do not sit exactly on the neighboring mines the game is
// lost. Each opened neighbor floods independently, as Reveal would.
func (g *Grid) Chord(row, col int) (RevealResult, error) {
	i, err := g.locate(row, col)
	if err != nil {
		return RevealResult{}, err
	}
	if g.state != InPlay {
		return g.noop(), nil
	}

	c := &g.cells[i]
	if !c.isRevealed || c.minesAround == 0 {
		return g.noop(), nil
	}

	flagged, flaggedMines, missed := 0, 0, -1
	for _, j := range g.neighbors(i) {
		n := &g.cells[j]
		switch {
		case n.isFlagged:
			flagged++
			if n.isMine {
				flaggedMines++
			}
		case n.isMine && missed < 0:
			missed = int(j)
		}
	}
	if flagged != int(c.minesAround) {
		return g.noop(), nil
	}
	g.started = true

	if flaggedMines != flagged {
		return g.detonate(missed), nil
	}

	var opened []int
	for _, j := range g.neighbors(i) {
		n := &g.cells[j]
		if n.isFlagged || n.isRevealed {
			continue
		}
		opened = g.flood(int(j), opened)
	}
	return g.settle(opened), nil
}

// CheckWin reports whether every non-mine cell is revealed.
// Flag placement is not considered.
func (g *Grid) CheckWin() bool {
	return g.numRevealed == len(g.cells)-g.numMines
}

// flood reveals start and, through the work queue, every cell reachable
// from it across zero cells. Each cell is revealed at most once because it
// is marked before being queued. Appends opened indices to out.
func (g *Grid) flood(start int, out []int) []int {
	out = g.open(start, out)
	for g.queue.len() > 0 {
		i, _ := g.queue.pop()
		for _, j := range g.neighbors(i) {
			n := &g.cells[j]
			if n.isRevealed || n.isFlagged || n.isMine {
				continue
			}
			out = g.open(int(j), out)
		}
	}
	return out
}

func (g *Grid) open(i int, out []int) []int {
	c := &g.cells[i]
	c.isRevealed = true
	g.numRevealed++
	if c.minesAround == 0 {
		g.queue.push(i)
	}
	return append(out, i)
}

// settle runs the win check and packages the opened cells.
func (g *Grid) settle(opened []int) RevealResult {
	outcome := Continue
	if g.CheckWin() {
		g.state = Won
		outcome = Win
	}

	res := RevealResult{
		Revealed: make([]CellSnapshot, len(opened)),
		Outcome:  outcome,
		NoOp:     len(opened) == 0,
	}
	for k, i := range opened {
		res.Revealed[k] = g.snapshot(i)
	}
	return res
}

func (g *Grid) detonate(i int) RevealResult {
	g.state = Lost
	res := RevealResult{Revealed: []CellSnapshot{}, Outcome: Lose}
	if i >= 0 {
		res.Detonated = &Coord{Row: g.cells[i].row, Col: g.cells[i].col}
	}
	return res
}

// noop reports the current outcome without changing anything.
func (g *Grid) noop() RevealResult {
	outcome := Continue
	switch g.state {
	case Won:
		outcome = Win
	case Lost:
		outcome = Lose
	}
	return RevealResult{Revealed: []CellSnapshot{}, Outcome: outcome, NoOp: true}
}
