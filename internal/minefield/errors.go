package minefield

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes minefield errors.
type ErrorCode string

const (
	// ErrCodeInvalidConfig indicates bad board dimensions or mine count.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"

	// ErrCodeOutOfBounds indicates a coordinate outside the grid.
	ErrCodeOutOfBounds ErrorCode = "OUT_OF_BOUNDS"
)

// Error is returned for construction failures and bad coordinates.
// Game-rule no-ops (clicking a flagged cell, an unsatisfied chord) are
// never errors.
type Error struct {
	Code    ErrorCode
	Message string

	// Row and Col are the offending coordinate (OUT_OF_BOUNDS only).
	Row, Col int

	// Rows, Cols and Mines describe the board involved.
	Rows, Cols, Mines int
}

func (e *Error) Error() string {
	if e.Code == ErrCodeOutOfBounds {
		return fmt.Sprintf("%s: %s (%d, %d) on %dx%d board", e.Code, e.Message, e.Row, e.Col, e.Rows, e.Cols)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidConfig reports whether err is an INVALID_CONFIG error.
// Uses errors.As to handle wrapped errors.
func IsInvalidConfig(err error) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.Code == ErrCodeInvalidConfig
	}
	return false
}

// IsOutOfBounds reports whether err is an OUT_OF_BOUNDS error.
func IsOutOfBounds(err error) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.Code == ErrCodeOutOfBounds
	}
	return false
}

func newConfigError(rows, cols, mines int, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeInvalidConfig,
		Message: fmt.Sprintf(format, args...),
		Rows:    rows,
		Cols:    cols,
		Mines:   mines,
	}
}

func newBoundsError(g *Grid, row, col int) *Error {
	return &Error{
		Code:    ErrCodeOutOfBounds,
		Message: "coordinate outside grid",
		Row:     row,
		Col:     col,
		Rows:    g.rows,
		Cols:    g.cols,
		Mines:   g.numMines,
	}
}

// validateConfig enforces rows >= 1, cols >= 1 and 0 <= mines < rows*cols.
// The upper bound keeps rejection sampling terminating: a full board would
// never find a free cell for the last mine.
func validateConfig(rows, cols, mines int) error {
	switch {
	case rows < 1:
		return newConfigError(rows, cols, mines, "cannot create a board with %d rows", rows)
	case cols < 1:
		return newConfigError(rows, cols, mines, "cannot create a board with %d columns", cols)
	case rows > MaxCells/cols:
		return newConfigError(rows, cols, mines, "board %dx%d exceeds %d cells", rows, cols, MaxCells)
	case mines < 0:
		return newConfigError(rows, cols, mines, "cannot create a board with negative amount of mines: %d", mines)
	case mines >= rows*cols:
		return newConfigError(rows, cols, mines, "not enough space for %d mines (need < %d * %d)", mines, rows, cols)
	}
	return nil
}
