package table

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiFold decomposes accented characters and strips their combining marks.
var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// FoldASCII reduces a value to plain ASCII: accents are stripped
// ("Conakry-Ratoma" stays, "Guiné" becomes "Guine") and any character with
// no ASCII decomposition is dropped. Epi database exports mix encodings and
// the downstream pipeline only accepts ASCII identifiers.
func FoldASCII(s string) string {
	folded, _, err := transform.String(asciiFold, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FoldASCIIValues applies FoldASCII to every cell of the named columns,
// in place. Columns absent from the table are skipped.
func FoldASCIIValues(t *Table, columns ...string) {
	for _, c := range columns {
		if !t.HasColumn(c) {
			continue
		}
		for _, row := range t.Rows {
			row[c] = FoldASCII(row[c])
		}
	}
}
