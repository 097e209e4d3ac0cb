package harness

import (
	"context"
	"fmt"
	"reflect"

	"github.com/roach88/qsfilter/internal/memory"
	"github.com/roach88/qsfilter/internal/predicate"
	"github.com/roach88/qsfilter/internal/store"
)

// CheckMemory evaluates spec in memory over every row of table and
// compares the outcome with rows, the page the database returned for the
// same spec and columns.
//
// The full table is read in tiebreak order, which is also the order the
// database falls back to for equal sort keys.
func CheckMemory(ctx context.Context, st *store.Store, table string, columns []string, spec *predicate.Spec, rows []store.Row) error {
	all, err := st.Find(ctx, table, nil, &predicate.Spec{})
	if err != nil {
		return err
	}

	records := make([]memory.Record, len(all))
	for i, row := range all {
		records[i] = memory.Record(row)
	}

	want := memory.Apply(records, spec)
	if len(want) != len(rows) {
		return fmt.Errorf("sql returned %d row(s), memory %d", len(rows), len(want))
	}
	for i, rec := range want {
		if !reflect.DeepEqual(store.Row(project(rec, columns)), rows[i]) {
			return fmt.Errorf("row %d differs: sql %v, memory %v", i, rows[i], rec)
		}
	}
	return nil
}

func project(rec memory.Record, columns []string) memory.Record {
	if len(columns) == 0 {
		return rec
	}
	out := make(memory.Record, len(columns))
	for _, col := range columns {
		out[col] = rec[col]
	}
	return out
}
