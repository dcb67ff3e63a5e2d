package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poliolab/runmerge/internal/schema"
	"github.com/poliolab/runmerge/internal/testutil"
)

func TestLoad_SampleSheet(t *testing.T) {
	reg := schema.Default()
	data := testutil.CSV(
		"sample,barcode",
		"S1,barcode01",
		"S2,barcode02",
	)

	tbl, load, err := Load(data, schema.SampleTemplate, reg)
	require.NoError(t, err)
	assert.Equal(t, 2, load.Rows)
	assert.Empty(t, load.Unexpected)
	assert.Equal(t, []string{"sample", "barcode"}, tbl.Columns)
}

func TestLoad_MissingColumnsListedExactly(t *testing.T) {
	reg := schema.Default()
	data := testutil.CSV(
		"sample,Well",
		"S1,A01",
	)

	_, _, err := Load(data, schema.SampleTemplate, reg)
	require.Error(t, err)

	var me *MergeError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, ErrCodeSchemaMismatch, me.Code)
	assert.Equal(t, schema.SampleTemplate, me.Kind)
	assert.Equal(t, []string{"barcode"}, me.Columns)
	assert.True(t, IsSchemaMismatch(err))
}

func TestLoad_UnexpectedColumnsTolerated(t *testing.T) {
	reg := schema.Default()
	data := testutil.CSV(
		"sample,barcode,Well,Operator",
		"S1,barcode01,A01,JD",
	)

	tbl, load, err := Load(data, schema.SampleTemplate, reg)
	require.NoError(t, err, "extra columns never block a load")
	assert.Equal(t, []string{"Well", "Operator"}, load.Unexpected)
	assert.True(t, tbl.HasColumn("Well"), "extra columns are kept on the table")
}

func TestLoad_MalformedRow(t *testing.T) {
	reg := schema.Default()
	data := testutil.CSV(
		"sample,barcode",
		"S1,barcode01",
		"S2",
	)

	_, _, err := Load(data, schema.SampleTemplate, reg)
	var me *MergeError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, ErrCodeMalformedRow, me.Code)
	assert.Equal(t, 2, me.Row)
}

func TestLoad_EpiNormalization(t *testing.T) {
	reg := schema.Default()
	header := strings.Join(reg.EpiColumns, ",")
	row := "S1," + strings.Repeat("x,", 3) + "Guiné," + strings.TrimSuffix(strings.Repeat("y,", 16), ",")
	data := testutil.CSV(header, row)

	tbl, _, err := Load(data, schema.EpiInfo, reg)
	require.NoError(t, err)

	assert.False(t, tbl.HasColumn("ICLabID"), "alias renamed to the canonical key")
	assert.True(t, tbl.HasColumn("sample"))
	assert.Equal(t, "S1", tbl.Rows[0]["sample"])
	assert.Equal(t, "Guine", tbl.Rows[0]["Province"], "values folded to ASCII")
}

func TestLoad_InstrumentReportNotText(t *testing.T) {
	reg := schema.Default()
	_, _, err := Load([]byte{0xFF, 0xFE}, schema.InstrumentReport, reg)
	assert.True(t, IsUnreadableReport(err))
}
