package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/poliolab/runmerge/internal/engine"
	"github.com/poliolab/runmerge/internal/schema"
)

// validateKinds maps the command argument to a registry kind.
var validateKinds = map[string]schema.Kind{
	"samples": schema.SampleTemplate,
	"epi":     schema.EpiInfo,
	"report":  schema.OutputReport,
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool     `json:"valid"`
	Rows       int      `json:"rows"`
	Missing    []string `json:"missing,omitempty"`
	Unexpected []string `json:"unexpected,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <samples|epi|report> <file>",
		Short: "Check a CSV file against its expected schema",
		Long: `Check that a CSV file carries the required columns for its kind
without producing any output. Lists exactly which columns are missing and
which extra columns would be ignored. Faster feedback than running a full
merge when preparing input files.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runValidate(rootOpts *RootOptions, kindArg, path string, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	kind, ok := validateKinds[kindArg]
	if !ok {
		err := fmt.Errorf("unknown kind %q: expected samples, epi or report", kindArg)
		_ = formatter.Error("COMMAND_ERROR", err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid argument", err)
	}

	data, err := readInput(path, kindArg)
	if err != nil {
		return err
	}

	_, load, err := engine.Load(data, kind, rootOpts.Registry())
	if err != nil {
		var me *engine.MergeError
		if errors.As(err, &me) && me.Code == engine.ErrCodeSchemaMismatch {
			return outputValidationFailure(formatter, me.Columns)
		}
		return reportEngineError(formatter, err)
	}

	return outputValidationSuccess(formatter, load)
}

// outputValidationSuccess outputs successful validation results.
func outputValidationSuccess(formatter *OutputFormatter, load *engine.LoadReport) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{
			Valid:      true,
			Rows:       load.Rows,
			Unexpected: load.Unexpected,
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ %s file valid (%d rows)\n", load.Kind, load.Rows)
	if len(load.Unexpected) > 0 {
		fmt.Fprintf(formatter.Writer, "  %d extra column(s) would be ignored: %s\n",
			len(load.Unexpected), strings.Join(load.Unexpected, ", "))
	}
	return nil
}

// outputValidationFailure outputs the missing-column diagnostic.
func outputValidationFailure(formatter *OutputFormatter, missing []string) error {
	if formatter.Format == "json" {
		_ = formatter.Error(string(engine.ErrCodeSchemaMismatch),
			fmt.Sprintf("%d required column(s) missing", len(missing)),
			map[string]interface{}{"columns": missing})
		return NewExitError(ExitFailure, "validation failed")
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, c := range missing {
		fmt.Fprintf(formatter.Writer, "  missing column: %s\n", c)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed: %d missing column(s)", len(missing)))
}
