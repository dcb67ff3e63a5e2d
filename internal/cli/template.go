package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/poliolab/runmerge/internal/engine"
	"github.com/poliolab/runmerge/internal/schema"
)

// templateKinds maps the command argument to a registry kind.
var templateKinds = map[string]schema.Kind{
	"samples": schema.SampleTemplate,
	"epi":     schema.EpiInfo,
}

// TemplateResult is the success payload for the template command.
type TemplateResult struct {
	File string `json:"file"`
}

func (r TemplateResult) String() string {
	return fmt.Sprintf("Template saved as %s", r.File)
}

// NewTemplateCommand creates the template command.
func NewTemplateCommand(rootOpts *RootOptions) *cobra.Command {
	var dest string

	cmd := &cobra.Command{
		Use:   "template <samples|epi>",
		Short: "Generate a header-only template for the operator to fill in",
		Long: `Generate an empty template CSV with the correct header for a given
input kind. The samples template comes pre-filled with the standard 96
barcode labels; the operator only types in sample IDs.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplate(rootOpts, args[0], dest, cmd)
		},
	}

	cmd.Flags().StringVar(&dest, "dest", ".", "destination directory")

	return cmd
}

func runTemplate(rootOpts *RootOptions, kindArg, dest string, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	kind, ok := templateKinds[kindArg]
	if !ok {
		err := fmt.Errorf("unknown template kind %q: expected samples or epi", kindArg)
		_ = formatter.Error("COMMAND_ERROR", err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid argument", err)
	}

	data := engine.Template(kind, rootOpts.Registry())
	path, err := writeArtifact(dest, engine.TemplateFilename(kind), data)
	if err != nil {
		return err
	}

	return formatter.Success(TemplateResult{File: path})
}
