package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// MalformedRowError reports a data row whose field count does not match the
// header. Row is 1-based and counts data rows, not the header line.
type MalformedRowError struct {
	Row    int
	Fields int
	Want   int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("row %d has %d fields, header has %d", e.Row, e.Fields, e.Want)
}

// NotTextError reports a payload that cannot be decoded as UTF-8 text.
type NotTextError struct{}

func (e *NotTextError) Error() string {
	return "input is not valid UTF-8 text"
}

// sniffDelimiter picks the delimiter used by the header line.
//
// The operators' source systems export comma-, semicolon- or tab-delimited
// files interchangeably, so the delimiter is chosen by whichever candidate
// splits the first line into the most fields. Comma wins ties.
func sniffDelimiter(data []byte) rune {
	line := string(data)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	best, bestCount := ',', strings.Count(line, ",")
	for _, cand := range []struct {
		r rune
		n int
	}{
		{';', strings.Count(line, ";")},
		{'\t', strings.Count(line, "\t")},
	} {
		if cand.n > bestCount {
			best, bestCount = cand.r, cand.n
		}
	}
	return best
}

// ReadCSV parses delimited text into a Table. The first record is the
// header. The delimiter is sniffed from the header line.
//
// A UTF-8 byte order mark is stripped if present; exports from the Epi
// database routinely carry one.
func ReadCSV(data []byte) (*Table, error) {
	if !utf8.Valid(data) {
		return nil, &NotTextError{}
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data)
	r.FieldsPerRecord = -1 // field counts are checked here, with row context

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("input is empty: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	t, err := New(header)
	if err != nil {
		return nil, err
	}

	for rowNum := 1; ; rowNum++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", rowNum, err)
		}
		if len(record) != len(header) {
			return nil, &MalformedRowError{Row: rowNum, Fields: len(record), Want: len(header)}
		}
		row := make(Row, len(header))
		for i, c := range header {
			row[c] = record[i]
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// WriteCSV serializes a table to comma-delimited UTF-8 text.
//
// Output is deterministic: fields are quoted only when they contain the
// delimiter, a quote or a line break; records end with \n; the payload ends
// with a trailing newline. Downstream pipelines diff these files, so
// identical tables must serialize to identical bytes.
func WriteCSV(t *Table) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(t.Columns)
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, c := range t.Columns {
			record[i] = row[c]
		}
		w.Write(record)
	}
	w.Flush()
	return buf.Bytes()
}
