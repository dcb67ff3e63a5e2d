package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and checks its outcome.
//
// Error scenarios are verified against their expected code. Success
// scenarios are additionally compared byte for byte against the golden
// file testdata/golden/{scenario.Name}.golden: the composed report must
// be deterministic down to quoting and line endings because downstream
// pipelines diff these files.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if err := Verify(scenario, result); err != nil {
		return err
	}
	if scenario.ExpectError != "" {
		return nil
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, result.Output)
	return nil
}
