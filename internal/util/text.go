package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Letters of the South-Slavic Latin alphabet that fold to one ASCII letter.
	// đ has no decomposition, so the transform chain below cannot handle it.
	foldReplacer = strings.NewReplacer(
		"č", "c", "Č", "C",
		"ć", "c", "Ć", "C",
		"š", "s", "Š", "S",
		"ž", "z", "Ž", "Z",
		"đ", "d", "Đ", "D",
	)
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	filenameReplacer = strings.NewReplacer(
		"\\", "_", "/", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_",
	)
)

// Normalize turns a cell value into its canonical display form: non-breaking
// spaces become spaces, whitespace runs collapse to one space, ends are trimmed.
// An absent value and an empty one both normalize to "".
func Normalize(input string) string {
	s := strings.ReplaceAll(input, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}

// FoldKey returns a case- and diacritic-insensitive comparison key.
// It is never meant for display.
func FoldKey(input string) string {
	s := foldReplacer.Replace(Normalize(input))
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	return strings.ToLower(s)
}

// IsDigits reports whether s is non-empty and made of ASCII digits only.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SanitizeFilename replaces characters that common filesystems reject.
func SanitizeFilename(name string) string {
	return strings.TrimSpace(filenameReplacer.Replace(name))
}

func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
