package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/poliolab/runmerge/internal/engine"
	"github.com/poliolab/runmerge/internal/schema"
)

// operatorFlags maps a merge flag to the output column it fills. One flag
// per run-constant field the operator types in by hand; anything beyond
// this set (for overridden registries) goes through --set.
var operatorFlags = []struct {
	Flag   string
	Column string
	Usage  string
}{
	{"run-number", schema.ColRunNumber, "run number (yyyymmdd_xxx)"},
	{"lab", "SequencingLab", "sequencing laboratory"},
	{"rna-date", "DateRNAextraction", "RNA extraction date (yyyy-mm-dd)"},
	{"rt-date", "DateRTPCR", "RT PCR date (yyyy-mm-dd)"},
	{"vp1-date", "DateVP1PCR", "VP1 PCR date (yyyy-mm-dd)"},
	{"pos-control", "PositiveControlPCRCheck", "positive control PCR check (Pass/Fail)"},
	{"neg-control", "NegativeControlPCRCheck", "negative control PCR check (Pass/Fail)"},
	{"seq-kit", schema.ColLibraryKit, "library preparation kit"},
	{"seq-date", schema.ColDateSeqLoaded, "date the run was loaded (yyyy-mm-dd)"},
	{"sequencer", "SequencerUsed", "sequencer device"},
	{"fc-version", schema.ColFlowCellVersion, "flow cell version"},
	{"fc-id", schema.ColFlowCellID, "flow cell ID"},
	{"fc-uses", "FlowCellPriorUses", "flow cell prior uses"},
	{"fc-pores", schema.ColPoresAvailable, "pores available at flow cell check"},
	{"minknow-version", schema.ColMinKNOWVersion, "MinKNOW software version"},
	{"seq-hours", schema.ColRunHours, "run duration in hours"},
	{"fasta-date", "DateFastaGenerated", "fasta generation date (yyyy-mm-dd)"},
	{"piranha-version", "AnalysisPipelineVersion", "analysis pipeline version"},
}

// MergeOptions holds flags for the merge command.
type MergeOptions struct {
	SamplesPath string
	EpiPath     string
	ReportPath  string
	Dest        string
	PCRMachine  string
	Values      map[string]*string // output column -> flag value
	Extra       []string           // --set Column=Value entries
}

// MergeResult is the success payload for merge and update.
type MergeResult struct {
	File          string `json:"file"`
	Rows          int    `json:"rows"`
	ReportSkipped bool   `json:"report_skipped,omitempty"`
}

func (r MergeResult) String() string {
	msg := fmt.Sprintf("Merged detailed run report saved as %s (%d rows)", r.File, r.Rows)
	if r.ReportSkipped {
		msg += "\nNote: instrument report could not be read; instrument metrics were left blank"
	}
	return msg
}

// NewMergeCommand creates the merge command.
func NewMergeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MergeOptions{Values: map[string]*string{}}

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge a sample sheet with the Epi export into a detailed run report",
		Long: `Merge the sample/barcode sheet and the Epi database export into a new
detailed run report.

Every sample in the sheet must have a matching record in the Epi export;
an unmatched sample fails the whole merge, because an incomplete report is
worse than no report. Run-constant values entered on the command line take
precedence over values extracted from the MinKNOW report.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.SamplesPath, "samples", "", "sample/barcode sheet CSV (required)")
	cmd.Flags().StringVar(&opts.EpiPath, "epi", "", "Epi database export CSV (required)")
	cmd.Flags().StringVar(&opts.ReportPath, "report", "", "MinKNOW run report (HTML or text, optional)")
	cmd.Flags().StringVar(&opts.Dest, "dest", ".", "destination directory")
	cmd.Flags().StringVar(&opts.PCRMachine, "pcr-machine", "", "PCR machine (fills both RT and VP1 machine columns)")
	cmd.Flags().StringArrayVar(&opts.Extra, "set", nil, "extra run-constant value as Column=Value (repeatable)")
	for _, f := range operatorFlags {
		opts.Values[f.Column] = cmd.Flags().String(f.Flag, "", f.Usage)
	}
	cmd.MarkFlagRequired("samples")
	cmd.MarkFlagRequired("epi")

	return cmd
}

func runMerge(rootOpts *RootOptions, opts *MergeOptions, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	operator, err := gatherOperator(opts)
	if err != nil {
		_ = formatter.Error("COMMAND_ERROR", err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid flag", err)
	}

	samples, err := readInput(opts.SamplesPath, "samples")
	if err != nil {
		return err
	}
	epi, err := readInput(opts.EpiPath, "epi")
	if err != nil {
		return err
	}
	var report []byte
	if opts.ReportPath != "" {
		if report, err = readInput(opts.ReportPath, "instrument report"); err != nil {
			return err
		}
	}

	result, err := engine.Merge(engine.MergeInput{
		Samples:  samples,
		Epi:      epi,
		Report:   report,
		Operator: operator,
	}, rootOpts.Registry())
	if err != nil {
		return reportEngineError(formatter, err)
	}

	for _, load := range result.Loads {
		if len(load.Unexpected) > 0 {
			formatter.VerboseLog("%s file: %d extra column(s) ignored: %s",
				load.Kind, len(load.Unexpected), strings.Join(load.Unexpected, ", "))
		}
	}

	path, err := writeArtifact(opts.Dest, result.Filename, result.Data)
	if err != nil {
		return err
	}

	return formatter.SuccessWithArtifact(MergeResult{
		File:          path,
		Rows:          result.Rows,
		ReportSkipped: result.ReportSkipped,
	}, uuid.Must(uuid.NewV7()).String())
}

// gatherOperator assembles the operator-entered run metadata from flags.
func gatherOperator(opts *MergeOptions) (engine.RunMetadata, error) {
	operator := engine.RunMetadata{}
	for column, value := range opts.Values {
		if *value != "" {
			operator[column] = *value
		}
	}
	// One machine runs both PCR stages; the sheet tracks them separately.
	if opts.PCRMachine != "" {
		operator["RTPCRMachine"] = opts.PCRMachine
		operator["VP1PCRMachine"] = opts.PCRMachine
	}
	for _, kv := range opts.Extra {
		column, value, ok := strings.Cut(kv, "=")
		if !ok || column == "" {
			return nil, fmt.Errorf("invalid --set %q: expected Column=Value", kv)
		}
		operator[column] = value
	}
	return operator, nil
}
