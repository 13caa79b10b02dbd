package engine

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes session errors.
type ErrorCode string

const (
	// ErrCodeGameNotFound indicates no stored game has the requested ID.
	ErrCodeGameNotFound ErrorCode = "GAME_NOT_FOUND"

	// ErrCodeReplayMismatch indicates re-executing the stored moves did not
	// reproduce the recorded outcomes.
	ErrCodeReplayMismatch ErrorCode = "REPLAY_MISMATCH"

	// ErrCodeGameOver indicates a move was submitted after the game ended.
	ErrCodeGameOver ErrorCode = "GAME_OVER"
)

// Error is a session-level failure with enough context to find the row
// that caused it.
type Error struct {
	Code    ErrorCode
	Message string

	// GameID identifies the affected game.
	GameID string

	// Seq is the clock stamp of the offending move, or 0.
	Seq int64
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.GameID != "" && e.Seq > 0 {
		return fmt.Sprintf("%s: %s (game=%s, seq=%d)", e.Code, e.Message, e.GameID, e.Seq)
	}
	if e.GameID != "" {
		return fmt.Sprintf("%s: %s (game=%s)", e.Code, e.Message, e.GameID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsGameNotFound reports whether err is a GAME_NOT_FOUND error.
func IsGameNotFound(err error) bool { return hasCode(err, ErrCodeGameNotFound) }

// IsReplayMismatch reports whether err is a REPLAY_MISMATCH error.
func IsReplayMismatch(err error) bool { return hasCode(err, ErrCodeReplayMismatch) }

// IsGameOver reports whether err is a GAME_OVER error.
func IsGameOver(err error) bool { return hasCode(err, ErrCodeGameOver) }

func newMismatchError(gameID string, seq int64, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeReplayMismatch,
		Message: fmt.Sprintf(format, args...),
		GameID:  gameID,
		Seq:     seq,
	}
}
