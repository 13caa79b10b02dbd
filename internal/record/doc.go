// Package record defines the durable representation of games and moves.
//
// A Game captures everything needed to rebuild a board: dimensions, the
// seed (when the board was generated) and the exact mine layout. A Move is
// one player command stamped with a logical sequence number, plus the
// outcome it produced, so that replay can verify determinism.
//
// Key design constraints:
//   - Ordering uses Seq (logical clock) only, never wall-clock time
//   - No float types; all numbers are integers
//   - IDs are SHA-256 over canonical JSON with domain separation
//   - JSON tags use snake_case
//
// record imports only internal/minefield.
package record
