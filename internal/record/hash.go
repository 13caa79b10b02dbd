package record

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/minefield/internal/minefield"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for algorithm migration.
const (
	DomainMove  = "minefield/move/v1"
	DomainBoard = "minefield/board/v1"
	DomainTrace = "minefield/trace/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// LayoutValue converts a mine layout to a canonical JSON array of
// [row, col] pairs.
func LayoutValue(mines []minefield.Coord) []any {
	out := make([]any, len(mines))
	for i, m := range mines {
		out[i] = []any{m.Row, m.Col}
	}
	return out
}

// BoardHash fingerprints a board: its dimensions and mine layout.
// Two boards with the same hash are indistinguishable to a player.
func BoardHash(rows, cols int, mines []minefield.Coord) (string, error) {
	obj := map[string]any{
		"rows":  rows,
		"cols":  cols,
		"mines": LayoutValue(mines),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("BoardHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainBoard, canonical), nil
}

// MoveID computes the content-addressed ID of a move.
//
// Only the command (game, seq, kind, coordinate) is hashed, not its
// outcome: the ID names what the player did, and replay compares outcomes
// separately.
func MoveID(gameID string, seq int64, kind MoveKind, row, col int) (string, error) {
	obj := map[string]any{
		"game_id": gameID,
		"seq":     seq,
		"kind":    kind,
		"row":     row,
		"col":     col,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("MoveID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainMove, canonical), nil
}

// TraceHash fingerprints an ordered list of moves including outcomes.
// Equal hashes mean two plays of a game were indistinguishable.
func TraceHash(moves []Move) (string, error) {
	list := make([]any, len(moves))
	for i, m := range moves {
		list[i] = MoveValue(m)
	}
	canonical, err := MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("TraceHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTrace, canonical), nil
}

// MoveValue converts a move to a canonical JSON object.
func MoveValue(m Move) map[string]any {
	return map[string]any{
		"seq":      m.Seq,
		"kind":     m.Kind,
		"row":      m.Row,
		"col":      m.Col,
		"outcome":  m.Outcome,
		"noop":     m.NoOp,
		"revealed": m.Revealed,
		"flagged":  m.Flagged,
	}
}

// MustMoveID is like MoveID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustMoveID(gameID string, seq int64, kind MoveKind, row, col int) string {
	id, err := MoveID(gameID, seq, kind, row, col)
	if err != nil {
		panic(err)
	}
	return id
}

// MustBoardHash is like BoardHash but panics on error.
func MustBoardHash(rows, cols int, mines []minefield.Coord) string {
	h, err := BoardHash(rows, cols, mines)
	if err != nil {
		panic(err)
	}
	return h
}
