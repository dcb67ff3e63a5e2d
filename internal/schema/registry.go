package schema

import "slices"

// Kind identifies one of the file schemas the registry knows about.
type Kind string

const (
	// EpiInfo is the epidemiological database export, one row per sample.
	EpiInfo Kind = "epi"

	// SampleTemplate is the operator-filled sheet mapping sample IDs to
	// sequencing barcodes.
	SampleTemplate Kind = "samples"

	// InstrumentReport is the sequencing instrument's run report. Listed
	// here for its metric column names; it is scanned, not schema-checked.
	InstrumentReport Kind = "instrument"

	// OutputReport is the detailed run report the merger produces.
	OutputReport Kind = "output"
)

// Kinds lists every registered kind.
var Kinds = []Kind{EpiInfo, SampleTemplate, InstrumentReport, OutputReport}

// Source identifies where a run-metadata value may come from.
type Source string

const (
	// SourceOperator is a value typed in by the operator.
	SourceOperator Source = "operator"

	// SourceInstrument is a value extracted from the instrument report.
	SourceInstrument Source = "instrument"

	// SourceSheet is a value already present in the loaded sample sheet.
	SourceSheet Source = "sheet"
)

// MetadataField declares one run-constant output column and, in priority
// order, the sources its value may come from. The first source with a
// non-empty value wins; if none has one the field renders empty.
type MetadataField struct {
	Column  string   `yaml:"column"`
	Sources []Source `yaml:"sources"`

	// Pattern, when non-empty, is a regular expression a non-empty
	// operator-entered value must match.
	Pattern string `yaml:"pattern,omitempty"`
}

// Output column names filled by the instrument report extractor.
const (
	ColMinKNOWVersion  = "MinKNOWSoftwareVersion"
	ColPoresAvailable  = "PoresAvilableAtFlowCellCheck" // spelling matches the established sheet header
	ColFlowCellID      = "FlowCellID"
	ColFlowCellVersion = "FlowCellVersion"
	ColLibraryKit      = "LibraryPreparationKit"
	ColRunHours        = "RunHoursDuration"
	ColDateSeqLoaded   = "DateSeqRunLoaded"
	ColRunNumber       = "RunNumber"
)

// Value format patterns enforced on operator input.
const (
	runNumberPattern = `^\d{8}_\d{3}$`       // yyyymmdd_xxx
	datePattern      = `^\d{4}-\d{2}-\d{2}$` // yyyy-mm-dd
)

// Registry holds the expected header sets for each input kind and the
// derived header of the output report. Lookups never fail; unknown kinds
// return nil.
type Registry struct {
	// KeyColumn is the canonical sample-identifier column. Join key for
	// every merge and update.
	KeyColumn string `yaml:"key_column"`

	// EpiKeyAlias is the identifier column's name in Epi exports. The
	// loader renames it to KeyColumn after validation.
	EpiKeyAlias string `yaml:"epi_key_alias"`

	// SampleColumns are required in the sample/barcode sheet.
	SampleColumns []string `yaml:"sample_columns"`

	// EpiColumns are required in the Epi export, alias included.
	EpiColumns []string `yaml:"epi_columns"`

	// MetadataFields are the run-constant output columns, in output order.
	MetadataFields []MetadataField `yaml:"metadata_fields"`

	// ReservedColumns are emitted empty for later manual completion.
	ReservedColumns []string `yaml:"reserved_columns"`
}

// Default returns the registry as agreed with the reporting pipeline.
// Column names (including historical misspellings) are load-bearing: they
// must match the sheets already circulating in the labs.
func Default() *Registry {
	return &Registry{
		KeyColumn:   "sample",
		EpiKeyAlias: "ICLabID",
		SampleColumns: []string{
			"sample",
			"barcode",
		},
		EpiColumns: []string{
			"ICLabID",
			"EpidNumber",
			"CaseOrContact",
			"Country",
			"Province",
			"District",
			"StoolCondition",
			"SpecimenNumber",
			"DateOfOnset",
			"DateStoolCollected",
			"DateStoolSentfromField",
			"DateStoolReceivedNatLevel",
			"DateStoolSentToLab",
			"DateStoolReceivedinLab",
			"FinalCellCultureResult",
			"DateFinalCellCultureResults",
			"FinalITDResult",
			"DateFinalrRTPCRResults",
			"DateIsolateSentforSeq",
			"SequenceName",
			"DateSeqResult",
		},
		MetadataFields: []MetadataField{
			{Column: "SequencingLab", Sources: []Source{SourceOperator, SourceSheet}},
			{Column: ColRunNumber, Sources: []Source{SourceOperator, SourceSheet}, Pattern: runNumberPattern},
			{Column: "DateRNAextraction", Sources: []Source{SourceOperator, SourceSheet}, Pattern: datePattern},
			{Column: "DateRTPCR", Sources: []Source{SourceOperator, SourceSheet}, Pattern: datePattern},
			{Column: "RTPCRMachine", Sources: []Source{SourceOperator, SourceSheet}},
			{Column: "DateVP1PCR", Sources: []Source{SourceOperator, SourceSheet}, Pattern: datePattern},
			{Column: "VP1PCRMachine", Sources: []Source{SourceOperator, SourceSheet}},
			{Column: "PositiveControlPCRCheck", Sources: []Source{SourceOperator, SourceSheet}},
			{Column: "NegativeControlPCRCheck", Sources: []Source{SourceOperator, SourceSheet}},
			{Column: ColLibraryKit, Sources: []Source{SourceOperator, SourceInstrument, SourceSheet}},
			{Column: ColDateSeqLoaded, Sources: []Source{SourceOperator, SourceInstrument, SourceSheet}, Pattern: datePattern},
			{Column: "SequencerUsed", Sources: []Source{SourceOperator, SourceSheet}},
			{Column: ColFlowCellVersion, Sources: []Source{SourceOperator, SourceInstrument, SourceSheet}},
			{Column: ColFlowCellID, Sources: []Source{SourceOperator, SourceInstrument, SourceSheet}},
			{Column: "FlowCellPriorUses", Sources: []Source{SourceOperator, SourceSheet}},
			{Column: ColPoresAvailable, Sources: []Source{SourceOperator, SourceInstrument, SourceSheet}},
			{Column: ColMinKNOWVersion, Sources: []Source{SourceOperator, SourceInstrument, SourceSheet}},
			{Column: ColRunHours, Sources: []Source{SourceOperator, SourceInstrument, SourceSheet}},
			{Column: "DateFastaGenerated", Sources: []Source{SourceOperator, SourceSheet}, Pattern: datePattern},
			{Column: "AnalysisPipelineVersion", Sources: []Source{SourceOperator, SourceSheet}},
		},
		ReservedColumns: []string{
			"RunQC",
			"DDNSclassification",
			"SampleQC",
			"SampleQCChecksComplete",
			"QCComments",
			"ToReport",
			"DateReported",
			"EmergenceGroupVDPV1",
			"EmergenceGroupVDPV2",
			"EmergenceGroupVDPV3",
		},
	}
}

// ExpectedColumns returns the required header for a kind, in order.
// Pure lookup: unknown kinds return nil, never an error.
func (r *Registry) ExpectedColumns(kind Kind) []string {
	switch kind {
	case EpiInfo:
		return slices.Clone(r.EpiColumns)
	case SampleTemplate:
		return slices.Clone(r.SampleColumns)
	case InstrumentReport:
		return r.instrumentColumns()
	case OutputReport:
		return r.OutputColumns()
	default:
		return nil
	}
}

// OutputColumns derives the detailed run report header: sample sheet
// columns, Epi data columns, run-constant columns, reserved columns.
// Duplicate-free by construction because each group draws from a distinct
// part of the registry.
func (r *Registry) OutputColumns() []string {
	out := make([]string, 0, len(r.SampleColumns)+len(r.EpiColumns)+len(r.MetadataFields)+len(r.ReservedColumns))
	out = append(out, r.SampleColumns...)
	out = append(out, r.EpiDataColumns()...)
	out = append(out, r.MetadataColumns()...)
	out = append(out, r.ReservedColumns...)
	return out
}

// EpiDataColumns returns the Epi columns carried into the output: the
// export's columns with the key alias excluded (it lands in KeyColumn).
func (r *Registry) EpiDataColumns() []string {
	out := make([]string, 0, len(r.EpiColumns))
	for _, c := range r.EpiColumns {
		if c == r.EpiKeyAlias {
			continue
		}
		out = append(out, c)
	}
	return out
}

// MetadataColumns returns the run-constant output columns in output order.
func (r *Registry) MetadataColumns() []string {
	out := make([]string, len(r.MetadataFields))
	for i, f := range r.MetadataFields {
		out[i] = f.Column
	}
	return out
}

// Field looks up a metadata field declaration by output column name.
func (r *Registry) Field(column string) (MetadataField, bool) {
	for _, f := range r.MetadataFields {
		if f.Column == column {
			return f, true
		}
	}
	return MetadataField{}, false
}

// instrumentColumns lists the output columns an instrument report can fill.
func (r *Registry) instrumentColumns() []string {
	var out []string
	for _, f := range r.MetadataFields {
		if slices.Contains(f.Sources, SourceInstrument) {
			out = append(out, f.Column)
		}
	}
	return out
}
