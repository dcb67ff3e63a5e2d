// Package testutil provides fixture builders shared by engine, cli and
// harness tests.
package testutil

import (
	"strings"

	"github.com/poliolab/runmerge/internal/table"
)

// CSV joins lines with newlines and returns the bytes of a CSV payload.
//
// Fixture files written inline read better as one line per record:
//
//	data := testutil.CSV(
//	    "sample,barcode",
//	    "S1,barcode01",
//	)
func CSV(lines ...string) []byte {
	return []byte(strings.Join(lines, "\n") + "\n")
}

// Table builds a table from a header and rows given as cell slices.
// Panics on malformed input; fixtures are statically known.
func Table(columns []string, rows ...[]string) *table.Table {
	t := table.MustNew(columns)
	for _, cells := range rows {
		if len(cells) != len(columns) {
			panic("testutil: row width does not match header")
		}
		row := make(table.Row, len(columns))
		for i, c := range columns {
			row[c] = cells[i]
		}
		t.AppendRow(row)
	}
	return t
}

// EpiCSV builds a minimal Epi export carrying every required column, with
// the given sample identifiers. Non-key columns are filled with
// "<column>-<sample>" so tests can assert values survived the join.
func EpiCSV(epiColumns []string, keyAlias string, samples ...string) []byte {
	lines := []string{strings.Join(epiColumns, ",")}
	for _, s := range samples {
		cells := make([]string, len(epiColumns))
		for i, c := range epiColumns {
			if c == keyAlias {
				cells[i] = s
			} else {
				cells[i] = c + "-" + s
			}
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return CSV(lines...)
}
