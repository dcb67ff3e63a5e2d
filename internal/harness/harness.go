package harness

import (
	"errors"
	"fmt"

	"github.com/poliolab/runmerge/internal/engine"
	"github.com/poliolab/runmerge/internal/schema"
)

// Result captures one scenario execution.
type Result struct {
	// Output is the composed report, nil when the merge failed.
	Output []byte

	// Rows is the composed row count.
	Rows int

	// ErrorCode is the structured merge error code, empty on success.
	ErrorCode string
}

// Run executes a scenario against the default registry.
//
// A merge error is part of the scenario outcome, not a harness failure: it
// lands in Result.ErrorCode. Only unexpected failures (a non-engine error)
// are returned as errors.
func Run(s *Scenario) (*Result, error) {
	result, err := engine.Merge(engine.MergeInput{
		Samples:  []byte(s.Samples),
		Epi:      []byte(s.Epi),
		Report:   reportBytes(s),
		Operator: engine.RunMetadata(s.Operator),
	}, schema.Default())
	if err != nil {
		var me *engine.MergeError
		if errors.As(err, &me) {
			return &Result{ErrorCode: string(me.Code)}, nil
		}
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return &Result{Output: result.Data, Rows: result.Rows}, nil
}

// Verify checks a result against the scenario's expected outcome and
// returns a diagnostic for any mismatch. Golden comparison of successful
// output happens separately (see RunWithGolden).
func Verify(s *Scenario, r *Result) error {
	switch {
	case s.ExpectError != "" && r.ErrorCode == "":
		return fmt.Errorf("scenario %s: expected error %s, merge succeeded", s.Name, s.ExpectError)
	case s.ExpectError != "" && r.ErrorCode != s.ExpectError:
		return fmt.Errorf("scenario %s: expected error %s, got %s", s.Name, s.ExpectError, r.ErrorCode)
	case s.ExpectError == "" && r.ErrorCode != "":
		return fmt.Errorf("scenario %s: unexpected error %s", s.Name, r.ErrorCode)
	}
	return nil
}

func reportBytes(s *Scenario) []byte {
	if s.Report == "" {
		return nil
	}
	return []byte(s.Report)
}
