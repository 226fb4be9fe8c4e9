// Package normalizers provides text normalization for name comparison,
// search-query building and date canonicalization.
package normalizers

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	Register("compare", ForCompare)
	Register("slug", SearchSlug)
	Register("lowercase", strings.ToLower)
	Register("trim", strings.TrimSpace)
	Register("date", Date)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Apply applies a named normalizer to a value. Unknown names pass the value
// through unchanged.
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

var (
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	nonWord    = regexp.MustCompile(`[^\w\s]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// ForCompare prepares a name for equality comparison: Unicode-decompose,
// drop combining marks, drop everything that is not a word or space
// character, trim. "Kylian Mbappé" and "Kylian Mbappe" compare equal after
// this.
func ForCompare(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	out = nonWord.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// SearchSlug builds a search-query string from a display name: ForCompare,
// lowercase, internal whitespace collapsed to single hyphens.
func SearchSlug(s string) string {
	out := strings.ToLower(ForCompare(s))
	return whitespace.ReplaceAllString(out, "-")
}

// SearchSlugWords is SearchSlug without the hyphen joining: lowercased,
// diacritic-stripped, internal whitespace collapsed to single spaces. Used
// when a caller needs to split the normalized name back into tokens.
func SearchSlugWords(s string) string {
	out := strings.ToLower(ForCompare(s))
	return whitespace.ReplaceAllString(out, " ")
}

// months is the fixed abbreviation table Date matches against.
var months = map[string]string{
	"jan": "01", "feb": "02", "mar": "03", "apr": "04",
	"may": "05", "jun": "06", "jul": "07", "aug": "08",
	"sep": "09", "oct": "10", "nov": "11", "dec": "12",
}

var (
	isoDate  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	freeDate = regexp.MustCompile(`(\d{1,2})\s+([A-Za-z]+)\.?,?\s+(\d{4})`)
)

// Date parses a free-text date into canonical YYYY-MM-DD form. ISO input
// passes through unchanged. Otherwise a "<day> <month-name> <year>" pattern
// is matched, with the month name checked case-insensitively against the
// abbreviation table. Returns "" when nothing matches; never panics on
// arbitrary text.
func Date(s string) string {
	s = strings.TrimSpace(s)
	if isoDate.MatchString(s) {
		return s
	}

	m := freeDate.FindStringSubmatch(s)
	if m == nil {
		return ""
	}

	name := strings.ToLower(m[2])
	if len(name) > 3 {
		name = name[:3]
	}
	month, ok := months[name]
	if !ok {
		return ""
	}

	day := m[1]
	if len(day) == 1 {
		day = "0" + day
	}

	return fmt.Sprintf("%s-%s-%s", m[3], month, day)
}
