package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/poliolab/runmerge/internal/engine"
)

// readInput reads one input file, mapping failures to command errors.
func readInput(path, what string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("reading %s file", what), err)
	}
	return data, nil
}

// writeArtifact writes a produced artifact into the destination directory
// and returns the full path. The destination must already exist; the shell
// never creates directories the operator did not pick.
func writeArtifact(dest, filename string, data []byte) (string, error) {
	path := filepath.Join(dest, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", WrapExitError(ExitCommandError, "writing output file", err)
	}
	return path, nil
}

// reportEngineError renders a structured engine error and returns the
// matching ExitError. Engine errors are operation failures (exit code 1);
// anything else is surfaced as a command error.
func reportEngineError(f *OutputFormatter, err error) error {
	var me *engine.MergeError
	if errors.As(err, &me) {
		details := map[string]interface{}{}
		if len(me.Columns) > 0 {
			details["columns"] = me.Columns
		}
		if me.Row > 0 {
			details["row"] = me.Row
		}
		if me.Key != "" {
			details["sample"] = me.Key
		}
		if me.Kind != "" {
			details["file"] = string(me.Kind)
		}
		_ = f.Error(string(me.Code), me.Message, details)
		return WrapExitError(ExitFailure, me.Error(), err)
	}

	_ = f.Error("COMMAND_ERROR", err.Error(), nil)
	return WrapExitError(ExitCommandError, "command failed", err)
}

// newFormatter builds the formatter for a command invocation. Verbose and
// diagnostic output goes to stderr so JSON on stdout stays parseable.
func newFormatter(opts *RootOptions, out, errOut io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    out,
		ErrWriter: errOut,
		Verbose:   opts.Verbose,
	}
}
