package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldASCII(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"plain ascii untouched", "Conakry-Ratoma", "Conakry-Ratoma"},
		{"acute accent stripped", "Guiné", "Guine"},
		{"cedilla stripped", "Français", "Francais"},
		{"tilde stripped", "São Tomé", "Sao Tome"},
		{"no decomposition dropped", "N’Djamena", "NDjamena"},
		{"empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FoldASCII(tc.in))
		})
	}
}

func TestFoldASCIIValues(t *testing.T) {
	tbl := MustNew([]string{"Province", "District"})
	tbl.AppendRow(Row{"Province": "Boké", "District": "Gaoual"})

	FoldASCIIValues(tbl, "Province", "NotAColumn")

	assert.Equal(t, "Boke", tbl.Rows[0]["Province"], "named column folded")
	assert.Equal(t, "Gaoual", tbl.Rows[0]["District"], "unnamed column untouched")
}
