package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/regram/internal/regexast"
)

// Scenario is a translation test defined in YAML.
type Scenario struct {
	// Name identifies the scenario; it also names the golden file.
	Name string `yaml:"name"`

	// Description documents what the scenario validates.
	Description string `yaml:"description"`

	// Config holds settings in the same keys as a regram config file.
	// Unset keys keep their defaults.
	Config map[string]any `yaml:"config,omitempty"`

	// Documents seed the scratch index, in ID order.
	Documents []string `yaml:"documents,omitempty"`

	// Cases are the patterns to translate.
	Cases []Case `yaml:"cases"`

	// Assertions are checked across every case.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Case is one pattern and its expected results. Empty expectations are
// not checked.
type Case struct {
	Pattern string `yaml:"pattern"`

	// Dialect overrides the scenario dialect for this case.
	Dialect string `yaml:"dialect,omitempty"`

	// Expect is the simplified query in its String form.
	Expect string `yaml:"expect,omitempty"`

	// IndexQuery is the rendered index query string.
	IndexQuery string `yaml:"index_query,omitempty"`

	// Candidates are the expected candidate document IDs. Use an empty
	// list to require that nothing qualifies.
	Candidates []string `yaml:"candidates,omitempty"`

	// Error is a substring of the expected translation error.
	Error string `yaml:"error,omitempty"`
}

// Assertion is a property checked across the scenario.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Patterns restricts the assertion to these patterns; empty means
	// every case. Required for "any".
	Patterns []string `yaml:"patterns,omitempty"`
}

// Assertion type constants.
const (
	AssertSound         = "sound"
	AssertDNF           = "dnf"
	AssertMinimal       = "minimal"
	AssertDeterministic = "deterministic"
	AssertAny           = "any"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	for i, c := range s.Cases {
		if c.Pattern == "" {
			return fmt.Errorf("cases[%d]: pattern is required", i)
		}
		if c.Dialect != "" {
			if _, err := regexast.ParseDialect(c.Dialect); err != nil {
				return fmt.Errorf("cases[%d]: %w", i, err)
			}
		}
		if c.Error != "" && (c.Expect != "" || c.IndexQuery != "" || c.Candidates != nil) {
			return fmt.Errorf("cases[%d]: error cannot be combined with other expectations", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertSound, AssertDNF, AssertMinimal, AssertDeterministic:
		return nil
	case AssertAny:
		if len(a.Patterns) == 0 {
			return fmt.Errorf("assertions[%d]: patterns list is required for any", index)
		}
		return nil
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
}
