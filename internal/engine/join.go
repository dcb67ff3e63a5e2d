package engine

import (
	"github.com/poliolab/runmerge/internal/schema"
	"github.com/poliolab/runmerge/internal/table"
)

// Join matches every sample sheet row against the Epi table on the key
// column and returns one combined row per sample, in sample sheet order.
//
// Completeness is asymmetric:
//   - every sample key must exist in the Epi table; a missing key fails the
//     whole join with UNMATCHED_SAMPLE_KEY, because an incomplete run report
//     is worse than no report
//   - Epi rows with no corresponding sample row are silently dropped; the
//     export is routinely a superset covering many runs
//
// Uniqueness:
//   - sample sheet keys must be unique, always
//   - Epi keys must be unique among rows a sample actually references;
//     duplicated Epi keys nobody references are not an error
//
// The combined header is the sample sheet's columns followed by the Epi
// columns not already present in the sample sheet. Where both tables carry
// the same column, the sample sheet's value is kept only when the Epi value
// is empty; authoritative demographic data comes from Epi.
func Join(sample, epi *table.Table, key string) (*table.Table, error) {
	// Epi index. Second occurrences are recorded, not rejected: a duplicate
	// only matters if a sample row looks it up.
	index := make(map[string]table.Row, len(epi.Rows))
	dupes := make(map[string]bool)
	for _, r := range epi.Rows {
		k := r[key]
		if _, ok := index[k]; ok {
			dupes[k] = true
			continue
		}
		index[k] = r
	}

	seen := make(map[string]bool, len(sample.Rows))

	columns := make([]string, 0, len(sample.Columns)+len(epi.Columns))
	columns = append(columns, sample.Columns...)
	for _, c := range epi.Columns {
		if !sample.HasColumn(c) {
			columns = append(columns, c)
		}
	}
	joined, err := table.New(columns)
	if err != nil {
		return nil, err
	}

	for _, sr := range sample.Rows {
		k := sr[key]
		if seen[k] {
			return nil, NewDuplicateKeyError(schema.SampleTemplate, k)
		}
		seen[k] = true

		er, ok := index[k]
		if !ok {
			return nil, NewUnmatchedKeyError(k)
		}
		if dupes[k] {
			return nil, NewDuplicateKeyError(schema.EpiInfo, k)
		}

		row := make(table.Row, len(columns))
		for _, c := range sample.Columns {
			row[c] = sr[c]
		}
		for _, c := range epi.Columns {
			if c == key {
				continue
			}
			if v := er[c]; v != "" || row[c] == "" {
				row[c] = v
			}
		}
		joined.AppendRow(row)
	}
	return joined, nil
}
