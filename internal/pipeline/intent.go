package pipeline

import (
	"regexp"
	"strings"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
)

// Query intents recognized by the seeder's pattern rules.
const (
	IntentComparison = "comparison"
	IntentDefinition = "definition"
	IntentQuestion   = "question"
	IntentTerm       = "term"
	IntentTopic      = "topic"
)

var (
	comparisonRe = regexp.MustCompile(`(?i)\bvs\.?\b|\bversus\b|\bcompared to\b|\bor\b.*\bwhich\b`)
	definitionRe = regexp.MustCompile(`(?i)^(what is|what are|define |definition of|meaning of)\b`)
	questionRe   = regexp.MustCompile(`(?i)^(how|why|when|where|who|should|can|do|does|is|are|what)\b`)
)

// ClassifyIntent maps a target query to an intent label and the content type
// best suited to cover it. Order matters: "what is X vs Y" is a comparison,
// "what is X" a definition, and only then does the generic question rule
// apply. Short bare terms read like glossary lookups; everything else gets a
// long-form article.
func ClassifyIntent(query string) (string, models.ContentType) {
	q := strings.TrimSpace(query)

	switch {
	case comparisonRe.MatchString(q):
		return IntentComparison, models.TypeComparison
	case definitionRe.MatchString(q):
		return IntentDefinition, models.TypeGlossary
	case questionRe.MatchString(q) || strings.HasSuffix(q, "?"):
		return IntentQuestion, models.TypeFAQ
	case len(strings.Fields(q)) <= 3:
		return IntentTerm, models.TypeGlossary
	default:
		return IntentTopic, models.TypeBlog
	}
}
