package harness

import (
	"context"
	"fmt"

	"github.com/roach88/qsfilter/internal/filter"
	"github.com/roach88/qsfilter/internal/predicate"
	"github.com/roach88/qsfilter/internal/store"
)

// Result is the outcome of a scenario.
type Result struct {
	Name   string       `json:"name"`
	Pass   bool         `json:"pass"`
	Cases  []CaseResult `json:"cases"`
	Errors []string     `json:"errors,omitempty"`
}

// CaseResult records what one query produced on every driver.
type CaseResult struct {
	Query       string                   `json:"query"`
	Fingerprint string                   `json:"fingerprint,omitempty"`
	SQL         map[string]CompiledQuery `json:"sql,omitempty"`
	Counts      map[string]int64         `json:"counts,omitempty"`
}

// CompiledQuery is the SELECT a driver ran for a case.
type CompiledQuery struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}

// NewResult creates a new passing result.
func NewResult(name string) *Result {
	return &Result{Name: name, Pass: true, Cases: []CaseResult{}, Errors: []string{}}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

type target struct {
	driver string
	store  *store.Store
}

// Run executes a scenario. Each driver gets a fresh in-memory database.
//
// The returned error covers setup problems (bad config, unreachable
// driver, failing setup SQL); expectation mismatches are reported in
// Result.Errors.
func Run(ctx context.Context, s *Scenario) (*Result, error) {
	p, err := parserFor(s)
	if err != nil {
		return nil, err
	}

	targets, err := openTargets(ctx, s)
	defer func() {
		for _, t := range targets {
			t.store.Close()
		}
	}()
	if err != nil {
		return nil, err
	}

	result := NewResult(s.Name)
	for i, c := range s.Cases {
		result.Cases = append(result.Cases, runCase(ctx, s, p, targets, i, c, result))
	}
	return result, nil
}

func parserFor(s *Scenario) (*filter.Parser, error) {
	if s.Config == nil {
		return filter.New(filter.Config{})
	}
	return s.Config.Parser()
}

func openTargets(ctx context.Context, s *Scenario) ([]target, error) {
	var targets []target
	for _, name := range s.Drivers {
		driver, err := store.ParseDriver(name)
		if err != nil {
			return targets, err
		}
		st, err := store.Open(driver, "")
		if err != nil {
			return targets, fmt.Errorf("%s: %w", name, err)
		}
		targets = append(targets, target{driver: name, store: st})

		if s.Dataset == DatasetCustomers {
			if err := st.SeedCustomers(ctx); err != nil {
				return targets, fmt.Errorf("%s: seed: %w", name, err)
			}
		}
		for i, stmt := range s.Setup {
			if _, err := st.Exec(ctx, stmt); err != nil {
				return targets, fmt.Errorf("%s: setup[%d]: %w", name, i, err)
			}
		}
	}
	return targets, nil
}

func runCase(ctx context.Context, s *Scenario, p *filter.Parser, targets []target, i int, c Case, result *Result) CaseResult {
	cr := CaseResult{Query: c.Query, SQL: map[string]CompiledQuery{}, Counts: map[string]int64{}}
	prefix := fmt.Sprintf("cases[%d] %q", i, c.Query)

	spec, err := p.ParseString(c.Query)
	if err != nil {
		result.AddError("%s: %v", prefix, err)
		return cr
	}
	if fp, err := predicate.Fingerprint(spec); err == nil {
		cr.Fingerprint = fp
	}
	for _, msg := range checkSpec(spec, predicate.Validate(spec), c.Expect) {
		result.AddError("%s: %s", prefix, msg)
	}

	for _, t := range targets {
		at := fmt.Sprintf("%s [%s]", prefix, t.driver)

		query, params, err := t.store.Compiler().Compile(s.Table, s.Columns, spec)
		if err != nil {
			result.AddError("%s: compile: %v", at, err)
			continue
		}
		if params == nil {
			params = []any{}
		}
		cr.SQL[t.driver] = CompiledQuery{SQL: query, Params: params}

		count, err := t.store.Count(ctx, s.Table, spec)
		if err != nil {
			result.AddError("%s: count: %v", at, err)
			continue
		}
		cr.Counts[t.driver] = count
		if c.Expect.Count != nil && count != *c.Expect.Count {
			result.AddError("%s: count = %d, want %d", at, count, *c.Expect.Count)
		}

		rows, err := t.store.Find(ctx, s.Table, s.Columns, spec)
		if err != nil {
			result.AddError("%s: find: %v", at, err)
			continue
		}
		for _, msg := range checkRows(rows, c.Expect.Rows) {
			result.AddError("%s: %s", at, msg)
		}

		if !s.SkipMemory {
			if err := CheckMemory(ctx, t.store, s.Table, s.Columns, spec, rows); err != nil {
				result.AddError("%s: memory: %v", at, err)
			}
		}
	}
	return cr
}
