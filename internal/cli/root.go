package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/poliolab/runmerge/internal/schema"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string // optional registry override YAML

	registry *schema.Registry
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Registry returns the column registry in effect: the default, or the
// default with the --config overrides applied.
func (o *RootOptions) Registry() *schema.Registry {
	if o.registry == nil {
		o.registry = schema.Default()
	}
	return o.registry
}

// NewRootCommand creates the root command for the runmerge CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "runmerge",
		Short: "runmerge - detailed run report reconciliation",
		Long: `Merges a sequencing run's sample/barcode sheet with the Epi database
export into one detailed run report, enriched with run-level metadata and
metrics extracted from the MinKNOW run report.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			// Load the registry override, if any
			if opts.ConfigPath != "" {
				data, err := os.ReadFile(opts.ConfigPath)
				if err != nil {
					return fmt.Errorf("reading config: %w", err)
				}
				reg, err := schema.LoadConfig(data)
				if err != nil {
					return err
				}
				opts.registry = reg
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "registry override YAML file")

	// Add subcommands
	cmd.AddCommand(NewMergeCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewTemplateCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
