// Package minknow extracts run metrics from a MinKNOW sequencing report.
//
// Two report shapes are understood: the HTML report MinKNOW exports after a
// run, which embeds its data as a JSON literal inside a script tag, and a
// plain text or CSV rendition with one labeled metric per line. Extraction
// is best-effort throughout: a metric the report does not carry simply
// yields no field. The only error is a payload that is not text at all.
package minknow

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/poliolab/runmerge/internal/schema"
	"github.com/poliolab/runmerge/internal/table"
)

// reportDataMarker precedes the embedded JSON in MinKNOW HTML reports.
const reportDataMarker = "const reportData="

// titleValue is the {title, value} pair MinKNOW uses for most settings.
type titleValue struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// reportData is the subset of the embedded JSON the merger cares about.
type reportData struct {
	RunEndTime       string       `json:"run_end_time"`
	SoftwareVersions []titleValue `json:"software_versions"`
	RunSetup         []titleValue `json:"run_setup"`
	RunSettings      []titleValue `json:"run_settings"`
	PoreScan         struct {
		SeriesData []struct {
			Name string          `json:"name"`
			Data [][]json.Number `json:"data"`
		} `json:"series_data"`
	} `json:"pore_scan"`
}

// Extract pulls the known run metrics out of an instrument report.
//
// The returned map is keyed by output report column name (see package
// schema) and holds only the metrics actually found. Returns
// table.NotTextError when the payload cannot be decoded as UTF-8 text;
// every other shortfall is a silently absent metric.
func Extract(data []byte) (map[string]string, error) {
	if !utf8.Valid(data) {
		return nil, &table.NotTextError{}
	}

	if bytes.Contains(data, []byte(reportDataMarker)) {
		return extractHTML(data), nil
	}
	return extractText(data), nil
}

// extractHTML walks the report's script tags, locates the embedded JSON and
// decodes the metric fields out of it.
func extractHTML(data []byte) map[string]string {
	metrics := map[string]string{}

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return metrics
	}

	var payload string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if payload != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "script" {
			var text strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				text.WriteString(c.Data)
			}
			if s := text.String(); strings.Contains(s, reportDataMarker) {
				payload = s
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if payload == "" {
		return metrics
	}

	_, rest, _ := strings.Cut(payload, reportDataMarker)
	var report reportData
	// Decoder stops at the end of the first JSON value, so the trailing
	// script text after the literal does not matter.
	if err := json.NewDecoder(strings.NewReader(rest)).Decode(&report); err != nil {
		return metrics
	}

	for _, v := range report.SoftwareVersions {
		if v.Title == "MinKNOW" && v.Value != "" {
			metrics[schema.ColMinKNOWVersion] = v.Value
		}
	}
	for _, v := range report.RunSetup {
		switch v.Title {
		case "Flow cell ID":
			setIfPresent(metrics, schema.ColFlowCellID, v.Value)
		case "Flow cell type":
			setIfPresent(metrics, schema.ColFlowCellVersion, v.Value)
		case "Kit type":
			setIfPresent(metrics, schema.ColLibraryKit, v.Value)
		}
	}
	for _, v := range report.RunSettings {
		if v.Title == "Run limit" {
			setIfPresent(metrics, schema.ColRunHours, v.Value)
		}
	}
	if report.RunEndTime != "" {
		date, _, _ := strings.Cut(report.RunEndTime, "T")
		setIfPresent(metrics, schema.ColDateSeqLoaded, date)
	}
	// Pores available at the first scan of the run.
	for _, series := range report.PoreScan.SeriesData {
		if series.Name != "Pore available" || len(series.Data) == 0 || len(series.Data[0]) < 2 {
			continue
		}
		setIfPresent(metrics, schema.ColPoresAvailable, series.Data[0][1].String())
	}
	return metrics
}

// textLabels maps normalized line labels to output columns. Labels are
// matched after lowercasing and whitespace collapsing, so "Flow Cell ID",
// "flow cell id" and "FLOW  CELL  ID" all land on the same column.
var textLabels = map[string]string{
	"minknow version":          schema.ColMinKNOWVersion,
	"minknow software version": schema.ColMinKNOWVersion,
	"flow cell id":             schema.ColFlowCellID,
	"flowcell id":              schema.ColFlowCellID,
	"flow cell type":           schema.ColFlowCellVersion,
	"flow cell version":        schema.ColFlowCellVersion,
	"kit type":                 schema.ColLibraryKit,
	"kit":                      schema.ColLibraryKit,
	"run limit":                schema.ColRunHours,
	"run hours":                schema.ColRunHours,
	"pore available":           schema.ColPoresAvailable,
	"pores available":          schema.ColPoresAvailable,
	"run end time":             schema.ColDateSeqLoaded,
}

// extractText scans a text or CSV report for "label: value" lines.
func extractText(data []byte) map[string]string {
	metrics := map[string]string{}
	for _, line := range strings.Split(string(data), "\n") {
		label, value, ok := splitLabeled(line)
		if !ok {
			continue
		}
		column, known := textLabels[normalizeLabel(label)]
		if !known || value == "" {
			continue
		}
		if column == schema.ColDateSeqLoaded {
			value, _, _ = strings.Cut(value, "T")
		}
		setIfPresent(metrics, column, value)
	}
	return metrics
}

// splitLabeled splits a report line at the first label/value separator.
func splitLabeled(line string) (label, value string, ok bool) {
	i := strings.IndexAny(line, ":,\t;")
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), true
}

// normalizeLabel lowercases and collapses internal whitespace.
func normalizeLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}

// setIfPresent records a metric only when the value is non-empty and the
// column has not already been filled; the first occurrence in the report
// wins.
func setIfPresent(metrics map[string]string, column, value string) {
	if value == "" {
		return
	}
	if _, ok := metrics[column]; ok {
		return
	}
	metrics[column] = value
}
