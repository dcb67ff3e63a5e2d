package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/poliolab/runmerge/internal/engine"
)

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	PreviousPath string
	EpiPath      string
	Dest         string
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{}

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Re-apply Epi enrichment onto an existing detailed run report",
		Long: `Update an existing detailed run report against a refreshed Epi export.

Only Epi-sourced columns are rewritten. Run-constant values, QC columns and
everything filled in by hand since the report was produced are preserved.
A sample whose record disappeared from the Epi export fails the update.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.PreviousPath, "previous", "", "previously produced report CSV (required)")
	cmd.Flags().StringVar(&opts.EpiPath, "epi", "", "refreshed Epi database export CSV (required)")
	cmd.Flags().StringVar(&opts.Dest, "dest", ".", "destination directory")
	cmd.MarkFlagRequired("previous")
	cmd.MarkFlagRequired("epi")

	return cmd
}

func runUpdate(rootOpts *RootOptions, opts *UpdateOptions, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	previous, err := readInput(opts.PreviousPath, "previous report")
	if err != nil {
		return err
	}
	epi, err := readInput(opts.EpiPath, "epi")
	if err != nil {
		return err
	}

	result, err := engine.Update(previous, epi, rootOpts.Registry())
	if err != nil {
		return reportEngineError(formatter, err)
	}

	path, err := writeArtifact(opts.Dest, result.Filename, result.Data)
	if err != nil {
		return err
	}

	return formatter.SuccessWithArtifact(MergeResult{
		File: path,
		Rows: result.Rows,
	}, uuid.Must(uuid.NewV7()).String())
}
