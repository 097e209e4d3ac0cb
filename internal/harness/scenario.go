package harness

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/qsfilter/internal/config"
	"github.com/roach88/qsfilter/internal/predicate"
	"github.com/roach88/qsfilter/internal/store"
)

// DatasetCustomers seeds the demo customers table.
const DatasetCustomers = "customers"

// DefaultDrivers are used when a scenario lists none.
var DefaultDrivers = []string{string(store.SQLite), string(store.DuckDB)}

// Scenario defines a conformance scenario.
type Scenario struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Config      *config.File `yaml:"config,omitempty"`
	Dataset     string       `yaml:"dataset,omitempty"`
	Setup       []string     `yaml:"setup,omitempty"`
	Table       string       `yaml:"table"`
	Columns     []string     `yaml:"columns,omitempty"`
	Drivers     []string     `yaml:"drivers,omitempty"`

	// SkipMemory disables the in-memory cross-check, for datasets whose
	// column types the memory evaluator compares differently than SQL.
	SkipMemory bool `yaml:"skip_memory,omitempty"`

	Cases []Case `yaml:"cases"`
}

// Case is one query string and what it must produce.
type Case struct {
	Query  string `yaml:"query"`
	Expect Expect `yaml:"expect"`
}

// Expect lists the checks for one case. Unset checks are skipped.
type Expect struct {
	Predicates map[string]PredicateExpect `yaml:"predicates,omitempty"`
	Absent     []string                   `yaml:"absent,omitempty"`
	Order      []string                   `yaml:"order,omitempty"`
	Offset     *int                       `yaml:"offset,omitempty"`
	Limit      *int                       `yaml:"limit,omitempty"`
	Warnings   *int                       `yaml:"warnings,omitempty"`
	Count      *int64                     `yaml:"count,omitempty"`
	Rows       []map[string]any           `yaml:"rows,omitempty"`
}

// PredicateExpect matches one field's predicate. Value and Values are
// compared only when present.
type PredicateExpect struct {
	Kind     string `yaml:"kind"`
	Value    any    `yaml:"value,omitempty"`
	Values   []any  `yaml:"values,omitempty"`
	DateOnly bool   `yaml:"date_only,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(scenario.Drivers) == 0 {
		scenario.Drivers = slices.Clone(DefaultDrivers)
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
	if s.Table == "" {
		return fmt.Errorf("table is required")
	}
	if s.Dataset != "" && s.Dataset != DatasetCustomers {
		return fmt.Errorf("unknown dataset %q", s.Dataset)
	}
	for _, d := range s.Drivers {
		if _, err := store.ParseDriver(d); err != nil {
			return err
		}
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	for i, c := range s.Cases {
		for field, p := range c.Expect.Predicates {
			if !predicate.Kind(p.Kind).Valid() {
				return fmt.Errorf("cases[%d].expect.predicates.%s: unknown kind %q", i, field, p.Kind)
			}
		}
		for _, key := range c.Expect.Order {
			if _, _, err := parseOrderKey(key); err != nil {
				return fmt.Errorf("cases[%d].expect.order: %w", i, err)
			}
		}
	}
	return nil
}

// parseOrderKey splits "field DIRECTION".
func parseOrderKey(key string) (string, predicate.Direction, error) {
	field, dir, ok := strings.Cut(key, " ")
	d := predicate.Direction(strings.ToUpper(strings.TrimSpace(dir)))
	if !ok || field == "" || (d != predicate.Asc && d != predicate.Desc) {
		return "", "", fmt.Errorf("order key %q must be \"field ASC\" or \"field DESC\"", key)
	}
	return field, d, nil
}
