package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// LedgerEntry records the cost of one generation attempt. The estimate gates
// the attempt up front; ActualCost is what the ledger reports when the API
// response carried usable token counts.
type LedgerEntry struct {
	ID            surrealmodels.RecordID `json:"id"`
	Day           string                 `json:"day"` // YYYY-MM-DD, UTC
	ContentType   ContentType            `json:"content_type"`
	EstimatedCost float64                `json:"estimated_cost"`
	ActualCost    *float64               `json:"actual_cost,omitempty"`
	Created       time.Time              `json:"created"`
}

// DayKey formats t as the ledger's day-granularity key.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
