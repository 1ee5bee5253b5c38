// Package content validates generated documents against their per-type schema.
package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
	"github.com/go-playground/validator/v10"
)

// ErrNoPayload indicates the document carries no payload for its type tag.
var ErrNoPayload = errors.New("document has no payload for its type")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a document's envelope and the payload selected by its type
// tag. A nil payload, a mismatched tag, or a failed field constraint all
// return an error; a valid document returns nil.
func Validate(doc *models.Document) error {
	if !doc.Type.Valid() {
		return fmt.Errorf("unknown content type %q", doc.Type)
	}
	if strings.TrimSpace(doc.Title) == "" {
		return errors.New("document title is empty")
	}
	if strings.TrimSpace(doc.Slug) == "" {
		return errors.New("document slug is empty")
	}

	payload, err := payloadFor(doc)
	if err != nil {
		return err
	}
	if err := validate.Struct(payload); err != nil {
		return fmt.Errorf("%s schema: %w", doc.Type, err)
	}
	return nil
}

// payloadFor returns the payload matching the document's type tag.
func payloadFor(doc *models.Document) (any, error) {
	var payload any
	switch doc.Type {
	case models.TypeBlog:
		if doc.Blog != nil {
			payload = doc.Blog
		}
	case models.TypeFAQ:
		if doc.FAQ != nil {
			payload = doc.FAQ
		}
	case models.TypeGlossary:
		if doc.Glossary != nil {
			payload = doc.Glossary
		}
	case models.TypeComparison:
		if doc.Comparison != nil {
			payload = doc.Comparison
		}
	case models.TypeExpertQA:
		if doc.ExpertQA != nil {
			payload = doc.ExpertQA
		}
	case models.TypeNews:
		if doc.News != nil {
			payload = doc.News
		}
	case models.TypeCaseStudy:
		if doc.CaseStudy != nil {
			payload = doc.CaseStudy
		}
	case models.TypeIndustryBrief:
		if doc.IndustryBrief != nil {
			payload = doc.IndustryBrief
		}
	case models.TypeVideo:
		if doc.Video != nil {
			payload = doc.Video
		}
	case models.TypeTool:
		if doc.Tool != nil {
			payload = doc.Tool
		}
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoPayload, doc.Type)
	}
	return payload, nil
}

// Body returns the main prose of a document for scoring and feed rendering.
// Falls back to the summary when the type has no single body field.
func Body(doc *models.Document) string {
	switch doc.Type {
	case models.TypeBlog:
		if doc.Blog != nil {
			return doc.Blog.Body
		}
	case models.TypeFAQ:
		if doc.FAQ != nil {
			return doc.FAQ.Answer
		}
	case models.TypeGlossary:
		if doc.Glossary != nil {
			return doc.Glossary.Definition
		}
	case models.TypeComparison:
		if doc.Comparison != nil {
			return doc.Comparison.Body
		}
	case models.TypeExpertQA:
		if doc.ExpertQA != nil {
			return doc.ExpertQA.Answer
		}
	case models.TypeNews:
		if doc.News != nil {
			return doc.News.Body
		}
	case models.TypeCaseStudy:
		if doc.CaseStudy != nil {
			return doc.CaseStudy.Challenge + "\n\n" + doc.CaseStudy.Approach + "\n\n" + doc.CaseStudy.Results
		}
	case models.TypeIndustryBrief:
		if doc.IndustryBrief != nil {
			return doc.IndustryBrief.Body
		}
	case models.TypeVideo:
		if doc.Video != nil {
			return doc.Video.Script
		}
	case models.TypeTool:
		if doc.Tool != nil {
			return doc.Tool.Description
		}
	}
	return doc.Summary
}

// LongForm reports whether a type is expected to carry markdown structure
// (headings, call-to-action) in its body.
func LongForm(t models.ContentType) bool {
	switch t {
	case models.TypeBlog, models.TypeComparison, models.TypeCaseStudy, models.TypeIndustryBrief:
		return true
	}
	return false
}
