package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// ContentType tags a generated document variant.
type ContentType string

// The ten content types the pipeline can produce.
const (
	TypeBlog          ContentType = "blog"
	TypeFAQ           ContentType = "faq"
	TypeGlossary      ContentType = "glossary"
	TypeComparison    ContentType = "comparison"
	TypeExpertQA      ContentType = "expert_qa"
	TypeNews          ContentType = "news"
	TypeCaseStudy     ContentType = "case_study"
	TypeIndustryBrief ContentType = "industry_brief"
	TypeVideo         ContentType = "video"
	TypeTool          ContentType = "tool"
)

// AllContentTypes lists every variant in a stable order.
var AllContentTypes = []ContentType{
	TypeBlog, TypeFAQ, TypeGlossary, TypeComparison, TypeExpertQA,
	TypeNews, TypeCaseStudy, TypeIndustryBrief, TypeVideo, TypeTool,
}

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	for _, known := range AllContentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Publish status values for content documents.
const (
	ContentStatusPublished = "published"
	ContentStatusDraft     = "draft"
)

// Document is the persisted form of a generated content piece: a common
// envelope plus exactly one per-type payload selected by Type.
type Document struct {
	ID        surrealmodels.RecordID `json:"id"`
	Type      ContentType            `json:"type"`
	Title     string                 `json:"title"`
	Slug      string                 `json:"slug"`
	Status    string                 `json:"status"`
	Tags      []string               `json:"tags,omitempty"`
	Summary   string                 `json:"summary,omitempty"`
	Created   time.Time              `json:"created"`
	Published *time.Time             `json:"published,omitempty"`

	Blog          *BlogPayload          `json:"blog,omitempty"`
	FAQ           *FAQPayload           `json:"faq,omitempty"`
	Glossary      *GlossaryPayload      `json:"glossary,omitempty"`
	Comparison    *ComparisonPayload    `json:"comparison,omitempty"`
	ExpertQA      *ExpertQAPayload      `json:"expert_qa,omitempty"`
	News          *NewsPayload          `json:"news,omitempty"`
	CaseStudy     *CaseStudyPayload     `json:"case_study,omitempty"`
	IndustryBrief *IndustryBriefPayload `json:"industry_brief,omitempty"`
	Video         *VideoPayload         `json:"video,omitempty"`
	Tool          *ToolPayload          `json:"tool,omitempty"`
}

// BlogPayload is a long-form article.
type BlogPayload struct {
	Body   string `json:"body" validate:"required,min=400"`
	Author string `json:"author" validate:"required"`
}

// FAQPayload is a single question with its answer.
type FAQPayload struct {
	Question string `json:"question" validate:"required,min=8"`
	Answer   string `json:"answer" validate:"required,min=40"`
}

// GlossaryPayload defines a marketing term.
type GlossaryPayload struct {
	Term       string `json:"term" validate:"required"`
	Definition string `json:"definition" validate:"required,min=40"`
}

// ComparisonPayload contrasts two approaches or vendors.
type ComparisonPayload struct {
	SubjectA string `json:"subject_a" validate:"required"`
	SubjectB string `json:"subject_b" validate:"required"`
	Body     string `json:"body" validate:"required,min=200"`
	Verdict  string `json:"verdict" validate:"required"`
}

// ExpertQAPayload is an interview-style question and long answer.
type ExpertQAPayload struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required,min=120"`
	Expert   string `json:"expert" validate:"required"`
}

// NewsPayload is a short industry news item.
type NewsPayload struct {
	Body      string `json:"body" validate:"required,min=120"`
	SourceURL string `json:"source_url" validate:"omitempty,url"`
}

// CaseStudyPayload tells a client outcome story.
type CaseStudyPayload struct {
	Client    string `json:"client" validate:"required"`
	Challenge string `json:"challenge" validate:"required"`
	Approach  string `json:"approach" validate:"required"`
	Results   string `json:"results" validate:"required"`
}

// IndustryBriefPayload summarizes one vertical for buyers.
type IndustryBriefPayload struct {
	Industry string `json:"industry" validate:"required"`
	Body     string `json:"body" validate:"required,min=200"`
}

// VideoPayload is a script plus metadata for a produced video.
type VideoPayload struct {
	Script      string `json:"script" validate:"required,min=200"`
	DurationSec int    `json:"duration_sec" validate:"gte=0"`
}

// ToolPayload describes an interactive tool page.
type ToolPayload struct {
	Description string `json:"description" validate:"required,min=80"`
	InputsSpec  string `json:"inputs_spec" validate:"required"`
}
