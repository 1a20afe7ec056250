package knowledge

import (
	"strings"
	"unicode"
)

var acronymStopWords = map[string]bool{
	"a": true, "an": true, "and": true, "&": true, "at": true, "de": true,
	"for": true, "in": true, "of": true, "on": true, "the": true, "to": true,
}

// PossibleAcronyms returns the acronyms a multi-token name may be
// abbreviated to: the initials run together, with separating periods, and
// with a trailing period. Single-token names have none.
func PossibleAcronyms(tokens []string) []string {
	if len(tokens) < 2 {
		return nil
	}

	var initials []rune
	for _, tok := range tokens {
		if acronymStopWords[strings.ToLower(tok)] {
			continue
		}
		for _, r := range tok {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				initials = append(initials, unicode.ToLower(r))
			}
			break
		}
	}
	if len(initials) < 2 {
		return nil
	}

	parts := make([]string, len(initials))
	for i, r := range initials {
		parts[i] = string(r)
	}
	dotted := strings.Join(parts, ".")
	return []string{string(initials), dotted, dotted + "."}
}

// IsAcronym reports whether a word looks like an acronym: at least two
// letters, all upper case, optionally separated by periods
func IsAcronym(word string) bool {
	letters := 0
	for _, r := range word {
		switch {
		case r == '.':
		case unicode.IsLetter(r) && unicode.IsUpper(r):
			letters++
		default:
			return false
		}
	}
	return letters >= 2
}

// EditDistance is the Levenshtein distance with adjacent transpositions
// also costing 1
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// three rolling rows: i-2, i-1, i
	prev2 := make([]int, len(rb)+1)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			best := min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				best = min(best, prev2[j-2]+1)
			}
			cur[j] = best
		}
		prev2, prev, cur = prev, cur, prev2
	}
	return prev[len(rb)]
}
