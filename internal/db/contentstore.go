package db

import (
	"context"
	"fmt"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
)

// InsertContent persists a validated document and returns its ID. The unique
// slug_key index rejects a second document with the same type and slug;
// callers see that as ErrDuplicateSlug.
func (c *Client) InsertContent(ctx context.Context, doc *models.Document) (string, error) {
	id := uuid.New().String()[:8]

	vars := map[string]any{
		"id":      id,
		"type":    string(doc.Type),
		"title":   doc.Title,
		"slug":    doc.Slug,
		"status":  doc.Status,
		"tags":    doc.Tags,
		"summary": doc.Summary,
		"payload": payloadVars(doc),
	}

	// The payload is stored under its type-tag field (blog, faq, ...) so that
	// SELECT * round-trips straight back into the Document union. The tag
	// comes from the ContentType enum, never from user input.
	sql := fmt.Sprintf(`
		CREATE type::record("content", $id) SET
			type = $type,
			title = $title,
			slug = $slug,
			status = $status,
			tags = $tags,
			summary = $summary,
			%s = $payload,
			published = IF $status = "published" THEN time::now() ELSE NONE END
	`, string(doc.Type))

	_, err := surrealdb.Query[any](ctx, c.db, sql, vars)
	if err != nil {
		return "", fmt.Errorf("insert content: %w", wrapQueryError(err))
	}
	return id, nil
}

// payloadVars flattens the one non-nil typed payload into a map for storage.
func payloadVars(doc *models.Document) any {
	switch doc.Type {
	case models.TypeBlog:
		return doc.Blog
	case models.TypeFAQ:
		return doc.FAQ
	case models.TypeGlossary:
		return doc.Glossary
	case models.TypeComparison:
		return doc.Comparison
	case models.TypeExpertQA:
		return doc.ExpertQA
	case models.TypeNews:
		return doc.News
	case models.TypeCaseStudy:
		return doc.CaseStudy
	case models.TypeIndustryBrief:
		return doc.IndustryBrief
	case models.TypeVideo:
		return doc.Video
	case models.TypeTool:
		return doc.Tool
	}
	return nil
}

// PublishedTitles returns the titles of published documents of one type, for
// duplicate-title screening.
func (c *Client) PublishedTitles(ctx context.Context, contentType models.ContentType) ([]string, error) {
	results, err := surrealdb.Query[[]struct {
		Title string `json:"title"`
	}](ctx, c.db, `
		SELECT title FROM content
		WHERE type = $type AND status = "published"
	`, map[string]any{"type": string(contentType)})
	if err != nil {
		return nil, fmt.Errorf("published titles: %w", err)
	}

	var titles []string
	if results != nil && len(*results) > 0 {
		for _, row := range (*results)[0].Result {
			titles = append(titles, row.Title)
		}
	}
	return titles, nil
}

// ListPublished returns published documents across all types, newest first,
// capped at limit. Feeds the syndication endpoints.
func (c *Client) ListPublished(ctx context.Context, limit int) ([]models.Document, error) {
	results, err := surrealdb.Query[[]models.Document](ctx, c.db, `
		SELECT * FROM content
		WHERE status = "published"
		ORDER BY published DESC
		LIMIT $limit
	`, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("list published: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.Document{}, nil
	}
	return (*results)[0].Result, nil
}

// GetPublishedBySlug returns one published document, or ErrNotFound.
func (c *Client) GetPublishedBySlug(ctx context.Context, slug string) (*models.Document, error) {
	results, err := surrealdb.Query[[]models.Document](ctx, c.db, `
		SELECT * FROM content
		WHERE slug = $slug AND status = "published"
		LIMIT 1
	`, map[string]any{"slug": slug})
	if err != nil {
		return nil, fmt.Errorf("get by slug: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, ErrNotFound
	}
	return &(*results)[0].Result[0], nil
}
