package knowledge

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxNameTokens bounds the length of gazetteer names
const MaxNameTokens = 20

var lower = cases.Lower(language.Und)

// Normalize folds a name for lookup: diacritics removed, lower-cased,
// every run of non-alphanumeric characters collapsed to one space, trimmed.
func Normalize(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	folded = lower.String(folded)

	var b strings.Builder
	b.Grow(len(folded))
	space := true
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

// NormalizeTokens normalizes a token sequence, truncated to MaxNameTokens
func NormalizeTokens(tokens []string) string {
	if len(tokens) > MaxNameTokens {
		tokens = tokens[:MaxNameTokens]
	}
	return Normalize(strings.Join(tokens, " "))
}
