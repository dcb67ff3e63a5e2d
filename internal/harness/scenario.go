package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario for the merge engine.
type Scenario struct {
	// Name uniquely identifies this scenario. Names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Samples is the sample/barcode sheet payload.
	Samples string `yaml:"samples"`

	// Epi is the Epi database export payload.
	Epi string `yaml:"epi"`

	// Report is the optional instrument report payload.
	Report string `yaml:"report,omitempty"`

	// Operator holds manually entered run-constant values.
	Operator map[string]string `yaml:"operator,omitempty"`

	// ExpectError, when set, is the merge error code this scenario must
	// fail with. Scenarios without it must succeed and match their golden
	// file.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// LoadScenario parses one scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if strings.TrimSpace(s.Samples) == "" || strings.TrimSpace(s.Epi) == "" {
		return nil, fmt.Errorf("scenario %s: samples and epi payloads are required", path)
	}
	return &s, nil
}

// LoadScenarios loads every *.yaml scenario in a directory, sorted by file
// name so execution order is stable.
func LoadScenarios(dir string) ([]*Scenario, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	var scenarios []*Scenario
	for _, path := range matches {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}
	return scenarios, nil
}
