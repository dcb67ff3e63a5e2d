package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poliolab/runmerge/internal/schema"
	"github.com/poliolab/runmerge/internal/table"
	"github.com/poliolab/runmerge/internal/testutil"
)

func TestCompose_HeaderIsRegistryOutputOrder(t *testing.T) {
	reg := schema.Default()
	enriched := testutil.Table([]string{"sample", "barcode"},
		[]string{"S1", "barcode01"},
	)

	data, rows := Compose(enriched, reg)
	assert.Equal(t, 1, rows)

	parsed, err := table.ReadCSV(data)
	require.NoError(t, err)
	assert.Equal(t, reg.OutputColumns(), parsed.Columns)
}

func TestCompose_ReservedColumnsPresentAndEmpty(t *testing.T) {
	reg := schema.Default()
	enriched := testutil.Table([]string{"sample", "barcode"},
		[]string{"S1", "barcode01"},
	)

	data, _ := Compose(enriched, reg)
	parsed, err := table.ReadCSV(data)
	require.NoError(t, err)

	for _, c := range reg.ReservedColumns {
		require.True(t, parsed.HasColumn(c))
		assert.Equal(t, "", parsed.Rows[0][c])
	}
}

func TestCompose_DropsColumnsOutsideOutputSchema(t *testing.T) {
	reg := schema.Default()
	enriched := testutil.Table([]string{"sample", "barcode", "ScratchNotes"},
		[]string{"S1", "barcode01", "internal only"},
	)

	data, _ := Compose(enriched, reg)
	parsed, err := table.ReadCSV(data)
	require.NoError(t, err)
	assert.False(t, parsed.HasColumn("ScratchNotes"))
}

func TestTemplate_SampleSheet(t *testing.T) {
	reg := schema.Default()
	data := Template(schema.SampleTemplate, reg)

	parsed, err := table.ReadCSV(data)
	require.NoError(t, err)
	assert.Equal(t, reg.SampleColumns, parsed.Columns)
	require.Len(t, parsed.Rows, 96, "one row per standard barcode")
	assert.Equal(t, "barcode01", parsed.Rows[0]["barcode"])
	assert.Equal(t, "barcode96", parsed.Rows[95]["barcode"])
	assert.Equal(t, "", parsed.Rows[0]["sample"], "sample IDs left for the operator")
}

func TestTemplate_RoundTripValidates(t *testing.T) {
	// Template output re-parsed with the matching kind never fails the
	// schema check.
	reg := schema.Default()
	for _, kind := range []schema.Kind{schema.SampleTemplate, schema.EpiInfo} {
		data := Template(kind, reg)
		_, load, err := Load(data, kind, reg)
		require.NoError(t, err, "kind %s", kind)
		assert.Empty(t, load.Unexpected, "kind %s", kind)
	}
}

func TestTemplateFilename(t *testing.T) {
	assert.Equal(t, "template_samples.csv", TemplateFilename(schema.SampleTemplate))
	assert.Equal(t, "template_epi.csv", TemplateFilename(schema.EpiInfo))
}

func TestReportFilename(t *testing.T) {
	assert.Equal(t, "20250206_005_detailed_run_report.csv", ReportFilename("20250206_005"))
	assert.Equal(t, "detailed_run_report.csv", ReportFilename(""))
}
