package value

import (
	"strings"
	"unicode/utf16"
)

const exportFilenamePrefix = "website-revolution"

// ExportFilename names a CSV export. Each UTF-16 code unit outside
// [A-Za-z0-9] becomes one hyphen, so "New York!" becomes "New-York-" and an
// emoji becomes "--".
func ExportFilename(location, niche string) string {
	return exportFilenamePrefix + "-" + sanitize(location) + "-" + sanitize(niche) + ".csv"
}

func sanitize(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isASCIIAlnum(r) {
			b.WriteRune(r)
			continue
		}

		b.WriteString(strings.Repeat("-", utf16Len(r)))
	}

	return b.String()
}

// utf16Len counts invalid runes as a single unit.
func utf16Len(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
