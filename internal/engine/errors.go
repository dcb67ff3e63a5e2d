package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/poliolab/runmerge/internal/schema"
)

// MergeError represents a validation or reconciliation failure.
//
// Merge errors include:
//   - Schema mismatch: required columns missing from an input file
//   - Malformed row: a data row's field count differs from the header
//   - Duplicate key: a sample identifier appears twice where it must be unique
//   - Unmatched sample key: a sample sheet row has no Epi record
//   - Unreadable report: the instrument report is not decodable as text
//   - Invalid field: an operator-entered value fails its declared format
//
// MergeError carries structured fields so the calling shell can render a
// localized, human-readable diagnostic without parsing message text.
type MergeError struct {
	// Code identifies the error category.
	Code MergeErrorCode

	// Message is a human-readable description.
	Message string

	// Kind identifies the input file the error was detected in.
	Kind schema.Kind

	// Columns lists the affected column names (schema mismatch, invalid field).
	Columns []string

	// Row is the 1-based data row index (malformed row), 0 if not applicable.
	Row int

	// Key is the sample identifier value (duplicate / unmatched key).
	Key string

	// Details contains additional context.
	Details map[string]string
}

// MergeErrorCode categorizes merge errors.
type MergeErrorCode string

const (
	// ErrCodeSchemaMismatch indicates required columns are missing.
	ErrCodeSchemaMismatch MergeErrorCode = "SCHEMA_MISMATCH"

	// ErrCodeMalformedRow indicates a row/header field-count mismatch.
	ErrCodeMalformedRow MergeErrorCode = "MALFORMED_ROW"

	// ErrCodeDuplicateKey indicates a non-unique sample identifier.
	ErrCodeDuplicateKey MergeErrorCode = "DUPLICATE_KEY"

	// ErrCodeUnmatchedSampleKey indicates a sample sheet key absent from
	// the Epi export. Fatal for the whole operation, never a row skip.
	ErrCodeUnmatchedSampleKey MergeErrorCode = "UNMATCHED_SAMPLE_KEY"

	// ErrCodeUnreadableReport indicates the instrument report could not be
	// decoded as text.
	ErrCodeUnreadableReport MergeErrorCode = "UNREADABLE_REPORT"

	// ErrCodeInvalidField indicates an operator value failed its format check.
	ErrCodeInvalidField MergeErrorCode = "INVALID_FIELD"
)

// Error implements the error interface.
func (e *MergeError) Error() string {
	switch {
	case len(e.Columns) > 0 && e.Kind != "":
		return fmt.Sprintf("%s: %s (file=%s, columns=%s)", e.Code, e.Message, e.Kind, strings.Join(e.Columns, ", "))
	case e.Row > 0 && e.Kind != "":
		return fmt.Sprintf("%s: %s (file=%s, row=%d)", e.Code, e.Message, e.Kind, e.Row)
	case e.Key != "":
		return fmt.Sprintf("%s: %s (sample=%q)", e.Code, e.Message, e.Key)
	case e.Kind != "":
		return fmt.Sprintf("%s: %s (file=%s)", e.Code, e.Message, e.Kind)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsUnmatchedKey returns true if the error is an unmatched sample key error.
// Uses errors.As to handle wrapped errors.
func IsUnmatchedKey(err error) bool {
	var me *MergeError
	return errors.As(err, &me) && me.Code == ErrCodeUnmatchedSampleKey
}

// IsSchemaMismatch returns true if the error is a schema mismatch error.
func IsSchemaMismatch(err error) bool {
	var me *MergeError
	return errors.As(err, &me) && me.Code == ErrCodeSchemaMismatch
}

// IsUnreadableReport returns true if the error is an unreadable report error.
func IsUnreadableReport(err error) bool {
	var me *MergeError
	return errors.As(err, &me) && me.Code == ErrCodeUnreadableReport
}

// NewSchemaMismatchError creates a MergeError listing the missing columns.
func NewSchemaMismatchError(kind schema.Kind, missing []string) *MergeError {
	return &MergeError{
		Code:    ErrCodeSchemaMismatch,
		Message: fmt.Sprintf("%d required column(s) missing", len(missing)),
		Kind:    kind,
		Columns: missing,
	}
}

// NewMalformedRowError creates a MergeError for a field-count mismatch.
func NewMalformedRowError(kind schema.Kind, row, fields, want int) *MergeError {
	return &MergeError{
		Code:    ErrCodeMalformedRow,
		Message: fmt.Sprintf("row has %d fields, header has %d", fields, want),
		Kind:    kind,
		Row:     row,
		Details: map[string]string{
			"fields": fmt.Sprintf("%d", fields),
			"want":   fmt.Sprintf("%d", want),
		},
	}
}

// NewDuplicateKeyError creates a MergeError for a repeated identifier.
func NewDuplicateKeyError(kind schema.Kind, key string) *MergeError {
	return &MergeError{
		Code:    ErrCodeDuplicateKey,
		Message: "sample identifier appears more than once",
		Kind:    kind,
		Key:     key,
	}
}

// NewUnmatchedKeyError creates a MergeError for a key with no Epi record.
func NewUnmatchedKeyError(key string) *MergeError {
	return &MergeError{
		Code:    ErrCodeUnmatchedSampleKey,
		Message: "sample has no matching record in the Epi export",
		Key:     key,
	}
}

// NewUnreadableReportError creates a MergeError for a non-text report.
func NewUnreadableReportError() *MergeError {
	return &MergeError{
		Code:    ErrCodeUnreadableReport,
		Message: "instrument report is not decodable as text",
		Kind:    schema.InstrumentReport,
	}
}

// NewInvalidFieldError creates a MergeError for a badly formatted value.
func NewInvalidFieldError(column, value, hint string) *MergeError {
	return &MergeError{
		Code:    ErrCodeInvalidField,
		Message: fmt.Sprintf("value %q does not match the expected %s format", value, hint),
		Columns: []string{column},
	}
}
