package harness

// TraceEvent is one executed step. Steps that failed with an expected
// error carry Error and no Seq.
type TraceEvent struct {
	Seq      int64  `json:"seq,omitempty"`
	Action   string `json:"action"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Outcome  string `json:"outcome,omitempty"`
	NoOp     bool   `json:"noop"`
	Revealed int    `json:"revealed"`
	Flagged  bool   `json:"flagged"`
	Error    string `json:"error,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expect clauses and assertions match.
	Pass bool `json:"pass"`

	GameID    string `json:"game_id"`
	BoardHash string `json:"board_hash"`
	Rows      int    `json:"rows"`
	Cols      int    `json:"cols"`
	Mines     int    `json:"mines"`

	// Trace contains every step in order, including expected failures.
	Trace []TraceEvent `json:"trace"`

	// TraceHash fingerprints the recorded moves.
	TraceHash string `json:"trace_hash"`

	// Status, Revealed and Flags describe the final board.
	Status   string `json:"status"`
	Revealed int    `json:"revealed"`
	Flags    int    `json:"flags"`

	// Board is the final board rendered one row per string.
	Board []string `json:"board"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step to the trace.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
