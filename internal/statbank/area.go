package statbank

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var (
	areaCodePrefix   = regexp.MustCompile(`^[0-9]{3} `)
	parentheticalTag = regexp.MustCompile(`\s*\([^)]*\)$`)
)

// StripAreaCode removes a leading three-digit area code and its single trailing
// space, e.g. "461 Odense" -> "Odense". Other strings are returned unchanged.
func StripAreaCode(s string) string {
	return areaCodePrefix.ReplaceAllString(s, "")
}

// NormalizeName returns the key two area labels are compared by: NFC-normalised,
// area code stripped, a trailing parenthetical removed, case-folded and trimmed.
func NormalizeName(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	s = StripAreaCode(s)
	s = parentheticalTag.ReplaceAllString(s, "")
	return strings.TrimSpace(cases.Fold().String(s))
}

// splitCode splits a CodeAndValue cell such as "H10 Grundskole" into its code and label.
func splitCode(cell string) (code, label string) {
	cell = strings.TrimSpace(cell)
	code, label, _ = strings.Cut(cell, " ")
	return code, strings.TrimSpace(label)
}
