package engine

import (
	"fmt"

	"github.com/poliolab/runmerge/internal/schema"
	"github.com/poliolab/runmerge/internal/table"
)

// Compose assembles the detailed run report from an enriched table and
// serializes it. The output header is exactly the registry's output order:
// sample sheet columns, Epi columns, run-constant columns, reserved
// columns. Reserved columns are always present; a column the enriched
// table does not carry is emitted empty. Returns the serialized bytes and
// the row count.
func Compose(enriched *table.Table, reg *schema.Registry) ([]byte, int) {
	out := table.MustNew(reg.OutputColumns())
	for _, r := range enriched.Rows {
		out.AppendRow(r) // AppendRow drops extras and blanks missing columns
	}
	return table.WriteCSV(out), len(out.Rows)
}

// Template emits a header-only CSV for the requested kind, for the operator
// to fill in by hand. The sample/barcode template is pre-filled with the
// standard ninety-six barcode labels so the operator only types sample IDs.
// Unknown kinds yield an empty header.
func Template(kind schema.Kind, reg *schema.Registry) []byte {
	t := table.MustNew(reg.ExpectedColumns(kind))
	if kind == schema.SampleTemplate {
		for n := 1; n <= 96; n++ {
			t.AppendRow(table.Row{"barcode": fmt.Sprintf("barcode%02d", n)})
		}
	}
	return table.WriteCSV(t)
}

// TemplateFilename names a template file for a kind.
func TemplateFilename(kind schema.Kind) string {
	return fmt.Sprintf("template_%s.csv", kind)
}

// ReportFilename names the output file by the run-number convention.
// A blank run number drops the prefix rather than producing a leading
// underscore.
func ReportFilename(runNumber string) string {
	if runNumber == "" {
		return "detailed_run_report.csv"
	}
	return fmt.Sprintf("%s_detailed_run_report.csv", runNumber)
}
