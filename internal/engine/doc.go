// Package engine runs recorded minefield games.
//
// An Engine wraps one minefield.Grid with the bookkeeping that makes a game
// durable and reproducible:
//
//   - a logical Clock stamping the game and each move with a seq
//   - a GameIDGenerator naming the game
//   - a Recorder (normally *store.Store) receiving the game and its moves
//
// Every command is recorded, including no-ops, because the move log is the
// input sequence replay re-executes. Move IDs are content hashes of
// (game, seq, kind, coordinate), so writing the same move twice is harmless.
//
// Replay rebuilds the board from the stored layout (and seed, when there is
// one), re-applies the moves in seq order and fails with REPLAY_MISMATCH on
// the first move whose outcome differs from the record. Resume is Replay
// plus a clock positioned after the last move.
//
// An Engine is not safe for concurrent use.
package engine
