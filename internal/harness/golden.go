package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/minefield/internal/record"
)

// TraceSnapshot captures everything a golden file pins down for a scenario.
type TraceSnapshot struct {
	ScenarioName string
	Result       *Result
}

// toCanonicalMap converts the snapshot for canonical JSON serialization.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Result.Trace))
	for i, ev := range s.Result.Trace {
		m := map[string]any{
			"action": ev.Action,
			"row":    ev.Row,
			"col":    ev.Col,
		}
		if ev.Error != "" {
			m["error"] = ev.Error
		} else {
			m["seq"] = ev.Seq
			m["outcome"] = ev.Outcome
			m["noop"] = ev.NoOp
			m["revealed"] = ev.Revealed
			m["flagged"] = ev.Flagged
		}
		traceList[i] = m
	}

	r := s.Result
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"game_id":       r.GameID,
		"board_hash":    r.BoardHash,
		"rows":          r.Rows,
		"cols":          r.Cols,
		"mines":         r.Mines,
		"trace":         traceList,
		"trace_hash":    r.TraceHash,
		"status":        r.Status,
		"revealed":      r.Revealed,
		"flags":         r.Flags,
		"board":         r.Board,
	}
}

// Canonical returns the canonical JSON form of a scenario result.
func Canonical(scenarioName string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{ScenarioName: scenarioName, Result: result}
	return record.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its canonical result
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the result doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against its golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Canonical(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
