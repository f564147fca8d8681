package columns

import (
	"strings"
	"unicode"

	"github.com/angelmondragon/salespulse-backend/internal/dataset"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases a column label, folds diacritics and reduces it to
// [a-z0-9_]. Separators become a single underscore.
func Normalize(key string) string {
	lowered := strings.ToLower(strings.TrimSpace(key))
	lowered = strings.ReplaceAll(lowered, "ß", "ss")

	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, lowered)
	if err != nil {
		folded = lowered
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastUnderscore := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case r == '_' || r == '-' || r == '.' || r == '/' || unicode.IsSpace(r):
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimRight(b.String(), "_")
}

// Lookup returns the value of the first column whose normalized label contains
// one of patterns. Columns are scanned in row order and every pattern is tried
// against a column before moving on. Missing data is not an error: callers get
// (nil, false) and pick their own default.
func Lookup(row dataset.RawRow, patterns []string) (any, bool) {
	for _, cell := range row {
		key := Normalize(cell.Key)
		if key == "" {
			continue
		}
		for _, pattern := range patterns {
			if pattern != "" && strings.Contains(key, pattern) {
				return cell.Value, true
			}
		}
	}
	return nil, false
}

// Resolve looks up a canonical field using the Fields table.
func Resolve(row dataset.RawRow, field Field) (any, bool) {
	return Lookup(row, Fields[field])
}

// Has reports whether the row carries a column for field at all.
func Has(row dataset.RawRow, field Field) bool {
	_, ok := Resolve(row, field)
	return ok
}

// NumberOf resolves field and coerces it leniently, 0 when absent.
func NumberOf(row dataset.RawRow, field Field) float64 {
	value, ok := Resolve(row, field)
	if !ok {
		return 0
	}
	return Number(value)
}

// TextOf resolves field as trimmed text, "" when absent.
func TextOf(row dataset.RawRow, field Field) string {
	value, ok := Resolve(row, field)
	if !ok {
		return ""
	}
	return Text(value)
}
