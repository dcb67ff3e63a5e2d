package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Empty(t, resp.ArtifactID)
}

func TestOutputFormatter_JSONSuccessWithArtifact(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.SuccessWithArtifact(MergeResult{File: "out.csv", Rows: 3}, "0191d2a0-test")
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "0191d2a0-test", resp.ArtifactID)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("SCHEMA_MISMATCH", "2 required column(s) missing", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, "SCHEMA_MISMATCH", resp.Error.Code)
	assert.Equal(t, "2 required column(s) missing", resp.Error.Message)
}

func TestOutputFormatter_JSONErrorWithDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	details := map[string]interface{}{"columns": []string{"barcode"}}
	err := formatter.Error("SCHEMA_MISMATCH", "1 required column(s) missing", details)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Error)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success(MergeResult{File: "out.csv", Rows: 3})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Merged detailed run report saved as out.csv (3 rows)")
}

func TestOutputFormatter_TextSuccessReportSkipped(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success(MergeResult{File: "out.csv", Rows: 3, ReportSkipped: true})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "instrument report could not be read")
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error("UNMATCHED_SAMPLE_KEY", "sample has no matching record in the Epi export", nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [UNMATCHED_SAMPLE_KEY]")
	assert.Contains(t, buf.String(), "no matching record")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	details := map[string]interface{}{"sample": "ENV-404"}
	err := formatter.Error("UNMATCHED_SAMPLE_KEY", "sample has no matching record in the Epi export", details)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [UNMATCHED_SAMPLE_KEY]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:  "text",
				Writer:  buf,
				Verbose: tt.verbose,
			}

			formatter.VerboseLog("Loaded %s", "epi.csv")

			if tt.wantLog {
				assert.Contains(t, buf.String(), "Loaded epi.csv")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestOutputFormatter_VerboseLogUsesErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:    "json",
		Writer:    out,
		ErrWriter: errOut,
		Verbose:   true,
	}

	formatter.VerboseLog("Loaded %s", "epi.csv")
	assert.Empty(t, out.String(), "verbose output must not corrupt JSON on stdout")
	assert.Contains(t, errOut.String(), "Loaded epi.csv")
}

func TestExitError(t *testing.T) {
	base := errors.New("open failed")
	err := WrapExitError(ExitCommandError, "reading samples file", base)

	assert.Equal(t, "reading samples file: open failed", err.Error())
	assert.Equal(t, base, errors.Unwrap(err))
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	plain := NewExitError(ExitFailure, "validation failed")
	assert.Equal(t, "validation failed", plain.Error())
	assert.Equal(t, ExitFailure, GetExitCode(plain))

	// Non-ExitError defaults to an operation failure.
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("anything")))
}
