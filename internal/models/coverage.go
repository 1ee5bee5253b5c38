package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// CoverageEntry tracks one target search query (a job-to-be-done) and whether
// published content already addresses it.
type CoverageEntry struct {
	ID        surrealmodels.RecordID `json:"id"`
	Query     string                 `json:"query"`
	Cluster   string                 `json:"cluster"`
	Intent    string                 `json:"intent,omitempty"`
	Covered   bool                   `json:"covered"`
	ContentID *string                `json:"content_id,omitempty"`
	Synced    time.Time              `json:"synced"`
}
