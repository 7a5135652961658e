package csv

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// foldDiacritics removes combining marks after NFD decomposition, so headers
// like "Počet" normalize to "pocet". Header rows are tiny, so building the
// transformer per call is fine.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeHeaders produces canonical column keys from a raw header row.
//
// Each cell is trimmed, stripped of a leading UTF-8 BOM (first cell only),
// looked up in headerMap for an explicit rename, and otherwise normalized:
// diacritics folded, lowercased, spaces replaced with underscores. Cells that
// normalize to the empty string keep a synthesized col_N name.
func NormalizeHeaders(h []string, headerMap map[string]string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		if headerMap != nil {
			if m, ok := headerMap[c]; ok && m != "" {
				res[i] = m
				continue
			}
		}
		if folded, _, err := transform.String(foldDiacritics, c); err == nil {
			c = folded
		}
		c = strings.ReplaceAll(strings.ToLower(c), " ", "_")
		if c == "" {
			c = syntheticHeaders(i + 1)[i]
		}
		res[i] = c
	}
	return res
}
