// Package minefield implements the Minesweeper puzzle core.
//
// A Grid owns every cell of one game: mine placement, the cached adjacency
// graph, and the reveal/flag/chord state machine. It performs no I/O and
// never logs. Given the same seed and the same command sequence it produces
// byte-identical results.
//
// # Storage
//
// Cells live in a flat arena indexed row*cols+col. Neighbor lists are
// arena indices laid out contiguously (one offset table, one index table),
// computed once after mine placement. Neighbors are listed in row-major
// order starting at the top-left neighbor, with edges clamped.
//
// # Commands
//
//   - Reveal opens a hidden cell. Zero cells flood-fill through an explicit
//     FIFO work queue, so board size never affects call-stack depth.
//   - ToggleFlag flips a hidden cell between Hidden and Flagged.
//   - Chord opens the neighborhood of a satisfied numbered cell.
//
// Commands return result values instead of emitting events; renderers
// consume the CellSnapshot values they carry.
//
// # State machines
//
// Cell: Hidden <-> Flagged, Hidden -> Revealed (terminal).
// Grid: InPlay -> Won | Lost (terminal). Once terminal every command is a
// no-op that reports the terminal outcome.
//
// A Grid is not safe for concurrent use.
package minefield
