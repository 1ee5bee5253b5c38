// Package models defines data structures for the marketing content pipeline.
package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Queue item status values.
const (
	QueueStatusPending    = "pending"
	QueueStatusProcessing = "processing"
	QueueStatusCompleted  = "completed"
	QueueStatusFailed     = "failed"
)

// QueueItem is one unit of pending autonomous content-generation work.
// Items are never deleted; completed and failed rows stay as an audit trail.
type QueueItem struct {
	ID          surrealmodels.RecordID `json:"id"`
	ContentType ContentType            `json:"content_type"`
	Status      string                 `json:"status"`
	Topic       string                 `json:"topic"`
	Cluster     string                 `json:"cluster,omitempty"`
	Attempts    int                    `json:"attempts"`
	FailReason  *string                `json:"fail_reason,omitempty"`
	Created     time.Time              `json:"created"`
	LastAttempt *time.Time             `json:"last_attempt,omitempty"`
}
