package guard

import (
	"regexp"
	"strings"
)

var tokenSplitRe = regexp.MustCompile(`[^a-z0-9]+`)

// titleStopwords are function words that carry no topical signal. Dropping
// them keeps "How AI Changes X" and "How AI Is Changing X" adjacent.
var titleStopwords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "to": true, "of": true, "and": true, "or": true,
	"for": true, "in": true, "on": true, "at": true, "your": true, "our": true,
}

// TitleSimilarity computes Jaccard similarity between the token sets of two
// titles: lowercase, split on non-alphanumerics, stopwords removed, light
// suffix stemming so inflections ("changes"/"changing") collapse to one
// token. Returns 0 when either side has no tokens.
func TitleSimilarity(a, b string) float64 {
	setA := titleTokens(a)
	setB := titleTokens(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var intersection int
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// titleTokens normalizes a title into its token set.
func titleTokens(title string) map[string]bool {
	tokens := make(map[string]bool)
	for _, raw := range tokenSplitRe.Split(strings.ToLower(title), -1) {
		if raw == "" || titleStopwords[raw] {
			continue
		}
		tokens[stem(raw)] = true
	}
	return tokens
}

// stem strips common English suffixes. Deliberately crude: it only needs to
// make inflected forms of the same word collide.
func stem(word string) string {
	if len(word) <= 4 {
		return word
	}
	for _, suffix := range []string{"ing", "edly", "ed", "es", "s"} {
		if strings.HasSuffix(word, suffix) && len(word)-len(suffix) >= 3 {
			return word[:len(word)-len(suffix)]
		}
	}
	return word
}
