package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
)

// envelope is the common subset of every completion payload.
type envelope struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

// ParseDocument turns a raw completion into a typed content document. The
// model is told to emit bare JSON but code fences and stray prose still show
// up, so parsing extracts the outermost JSON object before unmarshalling.
func ParseDocument(contentType models.ContentType, raw string) (*models.Document, error) {
	jsonText, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal([]byte(jsonText), &env); err != nil {
		return nil, fmt.Errorf("parse completion envelope: %w", err)
	}
	if strings.TrimSpace(env.Title) == "" {
		return nil, fmt.Errorf("parse completion: missing title")
	}

	doc := &models.Document{
		Type:    contentType,
		Title:   strings.TrimSpace(env.Title),
		Slug:    models.Slugify(env.Title),
		Summary: strings.TrimSpace(env.Summary),
		Tags:    env.Tags,
	}

	if err := unmarshalPayload(doc, jsonText); err != nil {
		return nil, err
	}
	return doc, nil
}

// unmarshalPayload decodes the per-type fields from the completion into the
// payload slot selected by the document's type tag.
func unmarshalPayload(doc *models.Document, jsonText string) error {
	data := []byte(jsonText)

	decode := func(v any) error {
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parse %s payload: %w", doc.Type, err)
		}
		return nil
	}

	switch doc.Type {
	case models.TypeBlog:
		doc.Blog = &models.BlogPayload{}
		return decode(doc.Blog)
	case models.TypeFAQ:
		doc.FAQ = &models.FAQPayload{}
		return decode(doc.FAQ)
	case models.TypeGlossary:
		doc.Glossary = &models.GlossaryPayload{}
		return decode(doc.Glossary)
	case models.TypeComparison:
		doc.Comparison = &models.ComparisonPayload{}
		return decode(doc.Comparison)
	case models.TypeExpertQA:
		doc.ExpertQA = &models.ExpertQAPayload{}
		return decode(doc.ExpertQA)
	case models.TypeNews:
		doc.News = &models.NewsPayload{}
		return decode(doc.News)
	case models.TypeCaseStudy:
		doc.CaseStudy = &models.CaseStudyPayload{}
		return decode(doc.CaseStudy)
	case models.TypeIndustryBrief:
		doc.IndustryBrief = &models.IndustryBriefPayload{}
		return decode(doc.IndustryBrief)
	case models.TypeVideo:
		doc.Video = &models.VideoPayload{}
		return decode(doc.Video)
	case models.TypeTool:
		doc.Tool = &models.ToolPayload{}
		return decode(doc.Tool)
	}
	return fmt.Errorf("unknown content type %q", doc.Type)
}

// extractJSON returns the outermost JSON object in a completion, stripping
// markdown code fences and any prose around it.
func extractJSON(raw string) (string, error) {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if i := strings.LastIndex(text, "```"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("parse completion: no JSON object found")
	}
	return text[start : end+1], nil
}
