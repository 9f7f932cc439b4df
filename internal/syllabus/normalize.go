package syllabus

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeKey converts a subject name to its lookup key: accents folded,
// lowercased, spaces to underscores. "Français" and "francais" resolve to
// the same catalog entry.
func NormalizeKey(name string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, name)
	if err != nil {
		folded = name
	}
	key := strings.ToLower(strings.TrimSpace(folded))
	return strings.ReplaceAll(key, " ", "_")
}
