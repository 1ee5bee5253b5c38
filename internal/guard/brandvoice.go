package guard

import (
	"regexp"
	"strings"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/content"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
)

// bannedPhrases are clichés the house style forbids. Each occurrence costs
// points; repeated offenders fail fast.
var bannedPhrases = []string{
	"game-changer",
	"game changing",
	"synergy",
	"cutting-edge",
	"best-in-class",
	"revolutionize",
	"in today's fast-paced world",
	"in today's digital age",
	"unlock the power",
	"take it to the next level",
	"delve into",
	"look no further",
}

var sentenceSplitRe = regexp.MustCompile(`[.!?]+\s`)

// Scoring weights. Base plus all bonuses reaches 100; the pass threshold
// sits where one banned phrase or a badly missed length band fails a piece
// that earns nothing else.
const (
	baseScore      = 50
	bannedPenalty  = 20
	lengthBonus    = 20
	headingBonus   = 15
	ctaBonus       = 15
	sentenceMinAvg = 8.0
	sentenceMaxAvg = 24.0
)

// BrandVoiceScore computes a deterministic 0-100 style conformance score for
// a generated document. No external calls; the same document always scores
// the same.
func BrandVoiceScore(doc *models.Document) int {
	body := content.Body(doc)
	lower := strings.ToLower(doc.Title + "\n" + body)

	score := baseScore

	for _, phrase := range bannedPhrases {
		score -= bannedPenalty * strings.Count(lower, phrase)
	}

	if avg := avgSentenceLength(body); avg >= sentenceMinAvg && avg <= sentenceMaxAvg {
		score += lengthBonus
	}

	if content.LongForm(doc.Type) {
		if strings.Contains(body, "\n## ") || strings.HasPrefix(body, "## ") {
			score += headingBonus
		}
		if hasCTA(lower) {
			score += ctaBonus
		}
	} else {
		// Short formats carry no structural requirements; grant both bonuses
		// so their ceiling matches long-form.
		score += headingBonus + ctaBonus
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// avgSentenceLength returns the mean words per sentence.
func avgSentenceLength(text string) float64 {
	sentences := sentenceSplitRe.Split(text, -1)
	var total, count int
	for _, s := range sentences {
		words := len(strings.Fields(s))
		if words == 0 {
			continue
		}
		total += words
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

// hasCTA looks for a call-to-action marker near the end of the piece.
func hasCTA(lower string) bool {
	for _, marker := range []string{"talk to", "contact", "get in touch", "book a", "let's talk"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
