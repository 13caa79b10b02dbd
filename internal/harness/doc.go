// Package harness runs minefield scenarios for conformance testing.
//
// A scenario is a YAML file describing a board, a sequence of moves with
// optional expectations, and assertions on the final game. Scenarios run
// through the real session engine against an in-memory store, so every
// scenario also exercises recording and replay.
//
// # Scenario Format
//
//	name: corner_cascade
//	description: Revealing the far corner cascades to a win
//	board:
//	  rows: 3
//	  cols: 3
//	  mines: [[0, 0]]
//	steps:
//	  - action: reveal
//	    row: 2
//	    col: 2
//	    expect:
//	      outcome: win
//	      revealed: 8
//	assertions:
//	  - type: final_outcome
//	    status: won
//
// A board is either an explicit mine layout (mines) or a seeded random
// board (seed and count). Expectations may name an error code
// (OUT_OF_BOUNDS, GAME_OVER) instead of an outcome.
//
// # Assertion Types
//
//   - final_outcome: the game ended (or is still) in the given status
//   - revealed_count: exactly N cells are revealed
//   - flag_count: exactly N flags are placed
//   - cell_state: a cell is hidden, flagged or revealed, optionally with
//     its mine count or mine flag
//   - move_count: the store holds exactly N moves for the game
//
// # Deterministic Testing
//
// Every run uses a deterministic logical clock, a fixed game ID and a fresh
// in-memory SQLite store, so traces are byte-identical across runs and can
// be compared against golden files with RunWithGolden.
package harness
