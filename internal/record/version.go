package record

// Version constants stored alongside every game.
const (
	// FormatVersion is the record schema version.
	FormatVersion = "1"

	// EngineVersion is the minefield engine version.
	EngineVersion = "0.1.0"
)
