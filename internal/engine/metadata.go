package engine

import (
	"regexp"

	"github.com/poliolab/runmerge/internal/schema"
	"github.com/poliolab/runmerge/internal/table"
)

// RunMetadata maps a run-constant output column to its value. Keys are the
// registry's metadata columns; absent keys and empty values both mean "not
// provided" and render as an empty field, never an error.
type RunMetadata map[string]string

// patternHints names the formats the registry patterns encode, for error
// messages. Unlisted patterns fall back to the pattern text itself.
var patternHints = map[string]string{
	`^\d{8}_\d{3}$`:       "yyyymmdd_xxx",
	`^\d{4}-\d{2}-\d{2}$`: "yyyy-mm-dd",
}

// ValidateOperator checks operator-entered values against each field's
// declared pattern. Empty values always pass: every metadata field is
// optional. Returns the first INVALID_FIELD error found, in registry field
// order so the diagnostic is stable.
func ValidateOperator(operator RunMetadata, reg *schema.Registry) error {
	for _, f := range reg.MetadataFields {
		v := operator[f.Column]
		if v == "" || f.Pattern == "" {
			continue
		}
		re, err := regexp.Compile(f.Pattern)
		if err != nil {
			continue // registry validation rejects bad patterns up front
		}
		if !re.MatchString(v) {
			hint := patternHints[f.Pattern]
			if hint == "" {
				hint = f.Pattern
			}
			return NewInvalidFieldError(f.Column, v, hint)
		}
	}
	return nil
}

// Apply broadcasts the run-constant metadata onto every joined row and
// returns a table whose header additionally carries every metadata column.
//
// For each field the registry declares its sources in priority order
// (operator-entered beats instrument-extracted beats a value already on the
// sheet); the first source with a non-empty value wins. Apply never fails:
// a field with no value anywhere renders as an empty string.
func Apply(joined *table.Table, operator, instrument RunMetadata, reg *schema.Registry) *table.Table {
	columns := make([]string, 0, len(joined.Columns)+len(reg.MetadataFields))
	columns = append(columns, joined.Columns...)
	for _, f := range reg.MetadataFields {
		if !joined.HasColumn(f.Column) {
			columns = append(columns, f.Column)
		}
	}

	out := table.MustNew(columns)
	for _, r := range joined.Rows {
		row := make(table.Row, len(columns))
		for _, c := range joined.Columns {
			row[c] = r[c]
		}
		for _, f := range reg.MetadataFields {
			row[f.Column] = resolve(f, r, operator, instrument)
		}
		out.AppendRow(row)
	}
	return out
}

// resolve picks a field's value per its declared source priority.
func resolve(f schema.MetadataField, row table.Row, operator, instrument RunMetadata) string {
	for _, s := range f.Sources {
		var v string
		switch s {
		case schema.SourceOperator:
			v = operator[f.Column]
		case schema.SourceInstrument:
			v = instrument[f.Column]
		case schema.SourceSheet:
			v = row[f.Column]
		}
		if v != "" {
			return v
		}
	}
	return ""
}
