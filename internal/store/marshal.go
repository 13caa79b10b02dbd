package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/minefield/internal/minefield"
	"github.com/roach88/minefield/internal/record"
)

// SQLite integers are signed 64-bit. Seeds are stored bit-for-bit so the
// full uint64 range round-trips.
func seedToDB(seed uint64) int64 { return int64(seed) }

func seedFromDB(v int64) uint64 { return uint64(v) }

// Timestamps are Unix milliseconds; the zero time is NULL.
func timeToDB(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func timeFromDB(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return time.UnixMilli(v.Int64).UTC()
}

func marshalLayout(mines []minefield.Coord) (string, error) {
	s, err := record.EncodeLayout(mines)
	if err != nil {
		return "", fmt.Errorf("marshal layout: %w", err)
	}
	return s, nil
}

func unmarshalLayout(data string) ([]minefield.Coord, error) {
	mines, err := record.DecodeLayout(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal layout: %w", err)
	}
	return mines, nil
}
