package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poliolab/runmerge/internal/schema"
	"github.com/poliolab/runmerge/internal/testutil"
)

func TestJoin_RowCountAndOrderFollowSampleSheet(t *testing.T) {
	sample := testutil.Table([]string{"sample", "barcode"},
		[]string{"S3", "barcode03"},
		[]string{"S1", "barcode01"},
		[]string{"S2", "barcode02"},
	)
	epi := testutil.Table([]string{"sample", "Country"},
		[]string{"S1", "Chad"},
		[]string{"S2", "Niger"},
		[]string{"S3", "Ghana"},
	)

	joined, err := Join(sample, epi, "sample")
	require.NoError(t, err)

	require.Len(t, joined.Rows, len(sample.Rows))
	assert.Equal(t, []string{"S3", "S1", "S2"}, joined.Values("sample"),
		"output follows sample sheet order, not Epi order")
	assert.Equal(t, "Ghana", joined.Rows[0]["Country"])
}

func TestJoin_SpecimenFieldsCombine(t *testing.T) {
	// One sample, one Epi record: the joined row carries both sides.
	sample := testutil.Table([]string{"SampleID", "Barcode"},
		[]string{"S1", "BC01"},
	)
	epi := testutil.Table([]string{"SampleID", "Age", "Sex"},
		[]string{"S1", "34", "F"},
	)

	joined, err := Join(sample, epi, "SampleID")
	require.NoError(t, err)

	assert.Equal(t, []string{"SampleID", "Barcode", "Age", "Sex"}, joined.Columns)
	require.Len(t, joined.Rows, 1)
	assert.Equal(t, "S1", joined.Rows[0]["SampleID"])
	assert.Equal(t, "BC01", joined.Rows[0]["Barcode"])
	assert.Equal(t, "34", joined.Rows[0]["Age"])
	assert.Equal(t, "F", joined.Rows[0]["Sex"])
}

func TestJoin_UnmatchedSampleKeyIsFatal(t *testing.T) {
	sample := testutil.Table([]string{"sample", "barcode"},
		[]string{"S1", "barcode01"},
		[]string{"S2", "barcode02"},
	)
	epi := testutil.Table([]string{"sample", "Country"},
		[]string{"S1", "Chad"},
	)

	joined, err := Join(sample, epi, "sample")
	assert.Nil(t, joined, "no partial output on failure")

	var me *MergeError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, ErrCodeUnmatchedSampleKey, me.Code)
	assert.Equal(t, "S2", me.Key)
	assert.True(t, IsUnmatchedKey(err))
}

func TestJoin_ExtraEpiRowsDropped(t *testing.T) {
	sample := testutil.Table([]string{"sample", "barcode"},
		[]string{"S1", "barcode01"},
	)
	epi := testutil.Table([]string{"sample", "Country"},
		[]string{"S1", "Chad"},
		[]string{"S9", "Benin"},
		[]string{"S8", "Togo"},
	)

	joined, err := Join(sample, epi, "sample")
	require.NoError(t, err, "the Epi export may be a superset")
	assert.Equal(t, []string{"S1"}, joined.Values("sample"))
}

func TestJoin_DuplicateSampleKey(t *testing.T) {
	sample := testutil.Table([]string{"sample", "barcode"},
		[]string{"S1", "barcode01"},
		[]string{"S1", "barcode02"},
	)
	epi := testutil.Table([]string{"sample", "Country"},
		[]string{"S1", "Chad"},
	)

	_, err := Join(sample, epi, "sample")
	var me *MergeError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, ErrCodeDuplicateKey, me.Code)
	assert.Equal(t, schema.SampleTemplate, me.Kind)
	assert.Equal(t, "S1", me.Key)
}

func TestJoin_DuplicateEpiKey(t *testing.T) {
	t.Run("referenced duplicate is an error", func(t *testing.T) {
		sample := testutil.Table([]string{"sample", "barcode"},
			[]string{"S1", "barcode01"},
		)
		epi := testutil.Table([]string{"sample", "Country"},
			[]string{"S1", "Chad"},
			[]string{"S1", "Niger"},
		)

		_, err := Join(sample, epi, "sample")
		var me *MergeError
		require.ErrorAs(t, err, &me)
		assert.Equal(t, ErrCodeDuplicateKey, me.Code)
		assert.Equal(t, schema.EpiInfo, me.Kind)
	})

	t.Run("unreferenced duplicate is tolerated", func(t *testing.T) {
		sample := testutil.Table([]string{"sample", "barcode"},
			[]string{"S1", "barcode01"},
		)
		epi := testutil.Table([]string{"sample", "Country"},
			[]string{"S1", "Chad"},
			[]string{"S9", "Benin"},
			[]string{"S9", "Togo"},
		)

		joined, err := Join(sample, epi, "sample")
		require.NoError(t, err)
		assert.Len(t, joined.Rows, 1)
	})
}

func TestJoin_SharedColumnPrefersEpiValue(t *testing.T) {
	sample := testutil.Table([]string{"sample", "barcode", "Country"},
		[]string{"S1", "barcode01", "typo-land"},
		[]string{"S2", "barcode02", "Benin"},
	)
	epi := testutil.Table([]string{"sample", "Country"},
		[]string{"S1", "Chad"},
		[]string{"S2", ""},
	)

	joined, err := Join(sample, epi, "sample")
	require.NoError(t, err)

	assert.Equal(t, "Chad", joined.Rows[0]["Country"], "Epi is authoritative when it has a value")
	assert.Equal(t, "Benin", joined.Rows[1]["Country"], "sheet value survives an empty Epi cell")
}
