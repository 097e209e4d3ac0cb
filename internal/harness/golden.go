package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot is the golden form of a scenario run: the SQL every driver
// executed and the counts it returned. Fingerprints are omitted.
type Snapshot struct {
	Scenario string         `json:"scenario"`
	Cases    []SnapshotCase `json:"cases"`
}

// SnapshotCase is one case of a Snapshot.
type SnapshotCase struct {
	Query  string                   `json:"query"`
	SQL    map[string]CompiledQuery `json:"sql"`
	Counts map[string]int64         `json:"counts"`
}

// NewSnapshot builds the golden form of result.
func NewSnapshot(result *Result) Snapshot {
	snap := Snapshot{Scenario: result.Name, Cases: make([]SnapshotCase, len(result.Cases))}
	for i, c := range result.Cases {
		snap.Cases[i] = SnapshotCase{Query: c.Query, SQL: c.SQL, Counts: c.Counts}
	}
	return snap
}

// Marshal renders the snapshot as indented JSON with sorted map keys.
// HTML characters are kept literal so query strings stay readable.
func (s Snapshot) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}

	data, err := NewSnapshot(result).Marshal()
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return result, nil
}
