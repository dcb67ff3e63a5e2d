package engine

import (
	"errors"
	"fmt"

	"github.com/poliolab/runmerge/internal/schema"
	"github.com/poliolab/runmerge/internal/table"
)

// LoadReport carries the informational outcome of a load: columns present
// beyond the required set. Unexpected columns never block a load; the shell
// may surface them as a notice.
type LoadReport struct {
	Kind       schema.Kind
	Rows       int
	Unexpected []string
}

// Load parses a CSV payload and validates it against the registry schema
// for the given kind.
//
// Validation:
//   - a row whose field count differs from the header fails with MALFORMED_ROW
//   - required columns missing from the header fail with SCHEMA_MISMATCH,
//     listing exactly which columns are absent
//   - extra columns are tolerated and reported via LoadReport
//
// Epi exports get two extra normalization steps, matching what the labs'
// established sheets expect: the identifier alias column is renamed to the
// canonical key column, and identifier values are folded to plain ASCII.
func Load(data []byte, kind schema.Kind, reg *schema.Registry) (*table.Table, *LoadReport, error) {
	t, err := table.ReadCSV(data)
	if err != nil {
		var malformed *table.MalformedRowError
		if errors.As(err, &malformed) {
			return nil, nil, NewMalformedRowError(kind, malformed.Row, malformed.Fields, malformed.Want)
		}
		var notText *table.NotTextError
		if errors.As(err, &notText) && kind == schema.InstrumentReport {
			return nil, nil, NewUnreadableReportError()
		}
		return nil, nil, fmt.Errorf("loading %s file: %w", kind, err)
	}

	expected := reg.ExpectedColumns(kind)
	var missing []string
	want := make(map[string]bool, len(expected))
	for _, c := range expected {
		want[c] = true
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, nil, NewSchemaMismatchError(kind, missing)
	}

	var unexpected []string
	for _, c := range t.Columns {
		if !want[c] {
			unexpected = append(unexpected, c)
		}
	}

	if kind == schema.EpiInfo {
		if err := t.Rename(reg.EpiKeyAlias, reg.KeyColumn); err != nil {
			return nil, nil, fmt.Errorf("normalizing %s file: %w", kind, err)
		}
		table.FoldASCIIValues(t, t.Columns...)
	}

	return t, &LoadReport{Kind: kind, Rows: len(t.Rows), Unexpected: unexpected}, nil
}
