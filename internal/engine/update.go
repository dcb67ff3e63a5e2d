package engine

import (
	"github.com/poliolab/runmerge/internal/schema"
	"github.com/poliolab/runmerge/internal/table"
)

// Update re-applies Epi enrichment onto a previously produced report.
//
// The previous report is validated against the output schema, then each of
// its rows is re-joined against the refreshed Epi export on the key column.
// Only Epi-sourced columns are overwritten; run-constant values, reserved
// columns and anything filled in by hand since the report was produced are
// preserved byte for byte. A row whose key is no longer present in the
// refreshed export fails the whole update with UNMATCHED_SAMPLE_KEY, same
// rule as a fresh join.
func Update(previous, epiData []byte, reg *schema.Registry) (*Result, error) {
	prev, prevLoad, err := Load(previous, schema.OutputReport, reg)
	if err != nil {
		return nil, err
	}
	epi, epiLoad, err := Load(epiData, schema.EpiInfo, reg)
	if err != nil {
		return nil, err
	}

	key := reg.KeyColumn
	index := make(map[string]table.Row, len(epi.Rows))
	dupes := make(map[string]bool)
	for _, r := range epi.Rows {
		k := r[key]
		if _, ok := index[k]; ok {
			dupes[k] = true
			continue
		}
		index[k] = r
	}

	epiColumns := reg.EpiDataColumns()
	updated := prev.Clone()
	for _, row := range updated.Rows {
		k := row[key]
		er, ok := index[k]
		if !ok {
			return nil, NewUnmatchedKeyError(k)
		}
		if dupes[k] {
			return nil, NewDuplicateKeyError(schema.EpiInfo, k)
		}
		for _, c := range epiColumns {
			row[c] = er[c]
		}
	}

	data, rows := Compose(updated, reg)
	runNumber := ""
	if len(updated.Rows) > 0 {
		runNumber = updated.Rows[0][schema.ColRunNumber]
	}
	return &Result{
		Data:     data,
		Rows:     rows,
		Filename: ReportFilename(runNumber),
		Loads:    []*LoadReport{prevLoad, epiLoad},
	}, nil
}
