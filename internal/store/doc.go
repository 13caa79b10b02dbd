// Package store provides SQLite-backed durable storage for minefield games.
//
// The store is an append-only log with two tables:
//   - games: board parameters, mine layout and current status
//   - moves: every command applied to a game, in clock order
//
// # Ordering
//
// All ordering uses the seq column (the game's logical clock), never
// timestamps. Queries returning several rows use
// ORDER BY seq ASC, id ASC COLLATE BINARY so results are identical across
// replays.
//
// # Idempotency
//
// Game and move IDs are stable: a game ID is issued once and a move ID is
// a content hash of (game, seq, kind, coordinate). Writes use
// ON CONFLICT(id) DO NOTHING, so re-recording the same move is harmless,
// while a different move at an already used seq fails on UNIQUE(game_id, seq).
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
