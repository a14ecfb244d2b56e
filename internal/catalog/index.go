package catalog

import (
	"strings"
	"unicode/utf8"

	"docgen/internal/sheet"
	"docgen/internal/util"
)

// Index maps a normalized job code to its description. It is built once and
// only read afterwards.
type Index struct {
	entries map[string]string
	maxLen  int
}

// Padder turns a raw job code into the form stored in the index.
type Padder func(code string) string

// BuildIndex indexes rows by codeCol. Rows with an empty code are skipped and
// a later duplicate code overwrites an earlier one.
func BuildIndex(rows []sheet.Row, codeCol, descCol string) *Index {
	idx := &Index{entries: map[string]string{}}
	for _, row := range rows {
		code := util.Normalize(row[codeCol])
		if code == "" {
			continue
		}
		idx.entries[code] = util.Normalize(row[descCol])
		if n := utf8.RuneCountInString(code); n > idx.maxLen {
			idx.maxLen = n
		}
	}
	return idx
}

func (i *Index) Lookup(code string) (string, bool) {
	desc, ok := i.entries[code]
	return desc, ok
}

func (i *Index) Len() int {
	return len(i.entries)
}

// MaxKeyLen is the length in characters of the longest code.
func (i *Index) MaxKeyLen() int {
	return i.maxLen
}

// DerivePadder left-pads all-digit codes with zeros up to the longest code in
// idx, so "7" can match a stored "007". Anything else is only normalized.
func DerivePadder(idx *Index) Padder {
	maxLen := idx.MaxKeyLen()
	return func(code string) string {
		s := util.Normalize(code)
		n := utf8.RuneCountInString(s)
		if n >= maxLen || !util.IsDigits(s) {
			return s
		}
		return strings.Repeat("0", maxLen-n) + s
	}
}
