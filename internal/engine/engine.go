package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/minefield/internal/minefield"
	"github.com/roach88/minefield/internal/record"
)

// Recorder receives a game and every move applied to it.
// Implemented by *store.Store.
type Recorder interface {
	WriteGame(ctx context.Context, g record.Game) error
	AppendMove(ctx context.Context, m record.Move, p record.Progress) error
}

// nopRecorder keeps a game in memory only.
type nopRecorder struct{}

func (nopRecorder) WriteGame(context.Context, record.Game) error { return nil }
func (nopRecorder) AppendMove(context.Context, record.Move, record.Progress) error {
	return nil
}

// Params describes a board to create.
type Params struct {
	Rows  int
	Cols  int
	Mines int
	Seed  uint64
	Label string
}

// MoveResult is what one command did: the recorded move plus the cells it
// opened, for rendering.
type MoveResult struct {
	Move      record.Move
	Revealed  []minefield.CellSnapshot
	Detonated *minefield.Coord
}

// Engine is one recorded game session.
type Engine struct {
	grid   *minefield.Grid
	game   record.Game
	moves  []record.Move
	clock  SeqClock
	idGen  GameIDGenerator
	rec    Recorder
	logger *slog.Logger
	layout []minefield.Coord
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used to stamp the game and its moves.
func WithClock(c SeqClock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithIDGenerator sets the game ID generator. Default: UUIDv7Generator.
func WithIDGenerator(g GameIDGenerator) Option {
	return func(e *Engine) { e.idGen = g }
}

// WithRecorder sets where the game and its moves are written.
// Without it the game lives in memory only.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.rec = r }
}

// WithLogger sets the logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithNow sets the wall clock used for play time. Default: time.Now.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLayout places mines at exactly these cells instead of drawing them
// from the seed. Params.Mines and Params.Seed are ignored.
func WithLayout(mines []minefield.Coord) Option {
	return func(e *Engine) { e.layout = mines }
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		clock:  NewClock(),
		idGen:  UUIDv7Generator{},
		rec:    nopRecorder{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// New creates a game, stamps it with the first seq and records it.
func New(ctx context.Context, p Params, opts ...Option) (*Engine, error) {
	e := newEngine(opts)

	var err error
	seeded := e.layout == nil
	if seeded {
		e.grid, err = minefield.NewSeeded(p.Rows, p.Cols, p.Mines, p.Seed)
	} else {
		e.grid, err = minefield.NewFromLayout(p.Rows, p.Cols, e.layout)
	}
	if err != nil {
		return nil, err
	}

	mines := e.grid.Mines()
	hash, err := record.BoardHash(p.Rows, p.Cols, mines)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}

	e.game = record.Game{
		ID:            e.idGen.Generate(),
		Label:         record.NormalizeLabel(p.Label),
		Rows:          p.Rows,
		Cols:          p.Cols,
		Mines:         len(mines),
		Layout:        mines,
		BoardHash:     hash,
		Status:        record.StatusInPlay,
		Seq:           e.clock.Next(),
		EngineVersion: record.EngineVersion,
		FormatVersion: record.FormatVersion,
	}
	if seeded {
		e.game.Seed = p.Seed
		e.game.Seeded = true
	}

	if err := e.rec.WriteGame(ctx, e.game); err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}

	e.logger.Debug("game created",
		"game", e.game.ID,
		"rows", e.game.Rows,
		"cols", e.game.Cols,
		"mines", e.game.Mines,
		"seeded", e.game.Seeded,
		"board_hash", e.game.BoardHash)

	return e, nil
}

// Reveal opens the cell at (row, col).
func (e *Engine) Reveal(ctx context.Context, row, col int) (MoveResult, error) {
	return e.Apply(ctx, record.MoveReveal, row, col)
}

// ToggleFlag flips the flag on the cell at (row, col).
func (e *Engine) ToggleFlag(ctx context.Context, row, col int) (MoveResult, error) {
	return e.Apply(ctx, record.MoveFlag, row, col)
}

// Chord opens the neighbors of the revealed number at (row, col).
func (e *Engine) Chord(ctx context.Context, row, col int) (MoveResult, error) {
	return e.Apply(ctx, record.MoveChord, row, col)
}

// Apply runs one command, stamps it and records it.
//
// The command runs on a copy of the board. The board, clock and game record
// only advance once the recorder has accepted the move, so a failed append
// leaves the engine as it was and the move can be retried.
//
// Out-of-bounds coordinates fail without consuming a seq. Once the game is
// won or lost every command fails with GAME_OVER.
func (e *Engine) Apply(ctx context.Context, kind record.MoveKind, row, col int) (MoveResult, error) {
	if st := e.grid.State(); st != minefield.InPlay {
		return MoveResult{}, &Error{
			Code:    ErrCodeGameOver,
			Message: fmt.Sprintf("game already %s", st),
			GameID:  e.game.ID,
		}
	}

	next := e.grid.Clone()
	res, err := execute(next, kind, row, col)
	if err != nil {
		return MoveResult{}, err
	}

	seq := e.clock.Current() + 1
	id, err := record.MoveID(e.game.ID, seq, kind, row, col)
	if err != nil {
		return MoveResult{}, fmt.Errorf("apply %s: %w", kind, err)
	}
	res.Move.ID = id
	res.Move.GameID = e.game.ID
	res.Move.Seq = seq

	game := e.game
	game.Status = next.State().String()
	now := e.now().UTC().Truncate(time.Millisecond)
	if game.StartedAt.IsZero() && next.Started() {
		game.StartedAt = now
	}
	if game.Status != record.StatusInPlay {
		game.FinishedAt = now
	}

	if err := e.rec.AppendMove(ctx, res.Move, game.Progress()); err != nil {
		return MoveResult{}, fmt.Errorf("apply %s: %w", kind, err)
	}
	e.clock.Next()
	e.grid = next
	e.game = game
	e.moves = append(e.moves, res.Move)

	e.logger.Debug("move applied",
		"game", e.game.ID,
		"seq", seq,
		"kind", kind,
		"row", row,
		"col", col,
		"outcome", res.Move.Outcome,
		"noop", res.Move.NoOp,
		"revealed", res.Move.Revealed)
	if game.Status != record.StatusInPlay {
		e.logger.Info("game finished",
			"game", e.game.ID,
			"status", game.Status,
			"moves", len(e.moves),
			"elapsed", game.Elapsed(now))
	}

	return res, nil
}

// execute applies a command to the grid and fills in the move's effect.
// ID, GameID and Seq are left for the caller.
func execute(g *minefield.Grid, kind record.MoveKind, row, col int) (MoveResult, error) {
	res := MoveResult{Move: record.Move{Kind: kind, Row: row, Col: col}}

	switch kind {
	case record.MoveReveal, record.MoveChord:
		var rr minefield.RevealResult
		var err error
		if kind == record.MoveReveal {
			rr, err = g.Reveal(row, col)
		} else {
			rr, err = g.Chord(row, col)
		}
		if err != nil {
			return MoveResult{}, err
		}
		res.Move.Outcome = rr.Outcome.String()
		res.Move.NoOp = rr.NoOp
		res.Move.Revealed = len(rr.Revealed)
		res.Revealed = rr.Revealed
		res.Detonated = rr.Detonated

	case record.MoveFlag:
		fr, err := g.ToggleFlag(row, col)
		if err != nil {
			return MoveResult{}, err
		}
		res.Move.Outcome = minefield.Continue.String()
		res.Move.NoOp = fr.NoOp
		res.Move.Flagged = fr.Flagged

	default:
		return MoveResult{}, fmt.Errorf("apply: unknown move kind %q", kind)
	}

	return res, nil
}

// ID returns the game ID.
func (e *Engine) ID() string { return e.game.ID }

// Game returns the game record, with its status and play times kept
// current.
func (e *Engine) Game() record.Game { return e.game }

// Grid returns the board for rendering and snapshots.
// Mutating it directly bypasses the move log.
func (e *Engine) Grid() *minefield.Grid { return e.grid }

// Moves returns the moves applied so far, including replayed ones.
func (e *Engine) Moves() []record.Move {
	out := make([]record.Move, len(e.moves))
	copy(out, e.moves)
	return out
}

// State returns the board's game state.
func (e *Engine) State() minefield.State { return e.grid.State() }

// Seq returns the clock's current position.
func (e *Engine) Seq() int64 { return e.clock.Current() }
