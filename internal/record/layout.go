package record

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/minefield/internal/minefield"
)

// EncodeLayout serializes a mine layout as canonical JSON: [[row,col],...].
func EncodeLayout(mines []minefield.Coord) (string, error) {
	data, err := MarshalCanonical(LayoutValue(mines))
	if err != nil {
		return "", fmt.Errorf("encode layout: %w", err)
	}
	return string(data), nil
}

// DecodeLayout parses the output of EncodeLayout.
func DecodeLayout(data string) ([]minefield.Coord, error) {
	if data == "" || data == "[]" {
		return []minefield.Coord{}, nil
	}
	var pairs [][2]int
	if err := json.Unmarshal([]byte(data), &pairs); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	out := make([]minefield.Coord, len(pairs))
	for i, p := range pairs {
		out[i] = minefield.Coord{Row: p[0], Col: p[1]}
	}
	return out, nil
}
