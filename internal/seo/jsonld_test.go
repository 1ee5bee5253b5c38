package seo

import (
	"testing"
	"time"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
)

const site = "https://example.com"

func TestStructuredData(t *testing.T) {
	published := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

	t.Run("faq becomes FAQPage", func(t *testing.T) {
		doc := &models.Document{
			Type:      models.TypeFAQ,
			Title:     "What does a fractional CMO cost?",
			Slug:      "what-does-a-fractional-cmo-cost",
			Published: &published,
			FAQ: &models.FAQPayload{
				Question: "What does a fractional CMO cost?",
				Answer:   "Most engagements run between four and twelve thousand dollars per month.",
			},
		}

		ld := StructuredData(doc, site)
		if ld["@type"] != "FAQPage" {
			t.Errorf("@type = %v", ld["@type"])
		}
		if ld["url"] != site+"/faq/what-does-a-fractional-cmo-cost" {
			t.Errorf("url = %v", ld["url"])
		}
		entities, ok := ld["mainEntity"].([]map[string]any)
		if !ok || len(entities) != 1 {
			t.Fatalf("mainEntity = %v", ld["mainEntity"])
		}
		if entities[0]["name"] != doc.FAQ.Question {
			t.Errorf("question = %v", entities[0]["name"])
		}
		if ld["datePublished"] != "2026-02-01T08:00:00Z" {
			t.Errorf("datePublished = %v", ld["datePublished"])
		}
	})

	t.Run("glossary becomes DefinedTerm", func(t *testing.T) {
		doc := &models.Document{
			Type:  models.TypeGlossary,
			Title: "Demand Generation",
			Slug:  "demand-generation",
			Glossary: &models.GlossaryPayload{
				Term:       "Demand Generation",
				Definition: "The discipline of creating and capturing buyer interest.",
			},
		}

		ld := StructuredData(doc, site)
		if ld["@type"] != "DefinedTerm" {
			t.Errorf("@type = %v", ld["@type"])
		}
		if ld["description"] != doc.Glossary.Definition {
			t.Errorf("description = %v", ld["description"])
		}
	})

	t.Run("blog becomes Article with author", func(t *testing.T) {
		doc := &models.Document{
			Type:  models.TypeBlog,
			Title: "Rebuilding Attribution",
			Slug:  "rebuilding-attribution",
			Blog:  &models.BlogPayload{Body: "## Intro\n\nBody text here.", Author: "Editorial Team"},
		}

		ld := StructuredData(doc, site)
		if ld["@type"] != "Article" {
			t.Errorf("@type = %v", ld["@type"])
		}
		author, ok := ld["author"].(map[string]any)
		if !ok || author["name"] != "Editorial Team" {
			t.Errorf("author = %v", ld["author"])
		}
	})

	t.Run("video duration formatted", func(t *testing.T) {
		doc := &models.Document{
			Type:  models.TypeVideo,
			Title: "Positioning in 3 Minutes",
			Slug:  "positioning-in-3-minutes",
			Video: &models.VideoPayload{Script: "s", DurationSec: 180},
		}

		ld := StructuredData(doc, site)
		if ld["@type"] != "VideoObject" || ld["duration"] != "PT180S" {
			t.Errorf("ld = %v", ld)
		}
	})

	t.Run("comparison falls back to Article", func(t *testing.T) {
		doc := &models.Document{
			Type:       models.TypeComparison,
			Title:      "In-House vs Agency",
			Slug:       "in-house-vs-agency",
			Comparison: &models.ComparisonPayload{SubjectA: "a", SubjectB: "b", Body: "body", Verdict: "v"},
		}
		if ld := StructuredData(doc, site); ld["@type"] != "Article" {
			t.Errorf("@type = %v", ld["@type"])
		}
	})
}
