package engine

import (
	"github.com/poliolab/runmerge/internal/minknow"
	"github.com/poliolab/runmerge/internal/schema"
)

// MergeInput carries everything a merge needs. The caller owns all file
// I/O: byte slices here are file contents, already read.
type MergeInput struct {
	// Samples is the sample/barcode sheet CSV. Required.
	Samples []byte

	// Epi is the Epi database export CSV. Required.
	Epi []byte

	// Report is the instrument report, HTML or text. Optional; nil means
	// no instrument-derived metadata.
	Report []byte

	// Operator holds the manually entered run-constant values.
	Operator RunMetadata
}

// Result is one produced artifact.
type Result struct {
	// Data is the serialized report, ready to write.
	Data []byte

	// Rows is the number of data rows (header excluded).
	Rows int

	// Filename is the conventional destination name.
	Filename string

	// Loads describes each input that was parsed, for diagnostics.
	Loads []*LoadReport

	// ReportSkipped is set when the instrument report was present but
	// unreadable; the merge proceeded without instrument metrics.
	ReportSkipped bool
}

// Merge produces a new detailed run report.
//
// Order of operations: validate operator values, extract instrument
// metrics, load and schema-check both tables, join, broadcast metadata,
// compose. Any validation error aborts before output bytes exist.
//
// An unreadable instrument report does not abort the merge: the report is
// optional and best-effort, so the merge degrades to missing metrics and
// flags the skip on the Result.
func Merge(in MergeInput, reg *schema.Registry) (*Result, error) {
	if err := ValidateOperator(in.Operator, reg); err != nil {
		return nil, err
	}

	instrument := RunMetadata{}
	reportSkipped := false
	if len(in.Report) > 0 {
		metrics, err := minknow.Extract(in.Report)
		if err != nil {
			reportSkipped = true
		} else {
			instrument = metrics
		}
	}

	samples, sampleLoad, err := Load(in.Samples, schema.SampleTemplate, reg)
	if err != nil {
		return nil, err
	}
	epi, epiLoad, err := Load(in.Epi, schema.EpiInfo, reg)
	if err != nil {
		return nil, err
	}

	joined, err := Join(samples, epi, reg.KeyColumn)
	if err != nil {
		return nil, err
	}

	enriched := Apply(joined, in.Operator, instrument, reg)
	data, rows := Compose(enriched, reg)

	return &Result{
		Data:          data,
		Rows:          rows,
		Filename:      ReportFilename(in.Operator[schema.ColRunNumber]),
		Loads:         []*LoadReport{sampleLoad, epiLoad},
		ReportSkipped: reportSkipped,
	}, nil
}
