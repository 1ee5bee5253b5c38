// Package seo builds schema.org JSON-LD structured data for published
// content documents.
package seo

import (
	"fmt"
	"time"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/content"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
)

const schemaContext = "https://schema.org"

// StructuredData builds the JSON-LD object for a document. The schema.org
// type dispatches on the content type; everything unhandled falls back to a
// plain Article.
func StructuredData(doc *models.Document, siteURL string) map[string]any {
	url := canonicalURL(doc, siteURL)

	base := map[string]any{
		"@context": schemaContext,
		"url":      url,
		"name":     doc.Title,
	}
	if doc.Summary != "" {
		base["description"] = doc.Summary
	}
	if doc.Published != nil {
		base["datePublished"] = doc.Published.UTC().Format(time.RFC3339)
	}

	switch doc.Type {
	case models.TypeFAQ:
		if doc.FAQ != nil {
			return faqPage(base, doc.FAQ.Question, doc.FAQ.Answer)
		}
	case models.TypeExpertQA:
		if doc.ExpertQA != nil {
			return faqPage(base, doc.ExpertQA.Question, doc.ExpertQA.Answer)
		}
	case models.TypeGlossary:
		if doc.Glossary != nil {
			base["@type"] = "DefinedTerm"
			base["name"] = doc.Glossary.Term
			base["description"] = doc.Glossary.Definition
			return base
		}
	case models.TypeNews:
		base["@type"] = "NewsArticle"
		base["headline"] = doc.Title
		return base
	case models.TypeVideo:
		base["@type"] = "VideoObject"
		if doc.Video != nil && doc.Video.DurationSec > 0 {
			base["duration"] = fmt.Sprintf("PT%dS", doc.Video.DurationSec)
		}
		return base
	case models.TypeTool:
		base["@type"] = "WebApplication"
		base["applicationCategory"] = "BusinessApplication"
		return base
	}

	base["@type"] = "Article"
	base["headline"] = doc.Title
	if doc.Blog != nil && doc.Blog.Author != "" {
		base["author"] = map[string]any{"@type": "Person", "name": doc.Blog.Author}
	}
	if body := content.Body(doc); body != "" {
		base["articleBody"] = body
	}
	return base
}

// faqPage wraps one question/answer pair in the FAQPage shape.
func faqPage(base map[string]any, question, answer string) map[string]any {
	base["@type"] = "FAQPage"
	base["mainEntity"] = []map[string]any{{
		"@type": "Question",
		"name":  question,
		"acceptedAnswer": map[string]any{
			"@type": "Answer",
			"text":  answer,
		},
	}}
	return base
}

// canonicalURL builds the public URL for a document.
func canonicalURL(doc *models.Document, siteURL string) string {
	return fmt.Sprintf("%s/%s/%s", siteURL, string(doc.Type), doc.Slug)
}
