package pipeline

import (
	"context"
	"log/slog"
	"testing"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
)

func TestLoggerAppendsEvents(t *testing.T) {
	store := newFakeStore()
	l := testLogger(store)

	l.Info(context.Background(), models.PhaseGenerate, models.TypeBlog, "content published",
		map[string]any{"cost": 0.002})
	l.Error(context.Background(), models.PhaseValidate, models.TypeFAQ, "item failed",
		map[string]any{"error_kind": "validation_failure"})

	if len(store.events) != 2 {
		t.Fatalf("events = %d, want 2", len(store.events))
	}
	first := store.events[0]
	if first.Phase != models.PhaseGenerate || first.ContentType != models.TypeBlog {
		t.Errorf("first event = %+v", first)
	}
	if first.Severity != slog.LevelInfo.String() {
		t.Errorf("severity = %q", first.Severity)
	}
	if store.events[1].Metadata["error_kind"] != "validation_failure" {
		t.Errorf("metadata = %v", store.events[1].Metadata)
	}
}

func TestLoggerNilEventStore(t *testing.T) {
	l := NewLogger(slog.New(slog.DiscardHandler), nil)
	// Must not panic without a persistent event sink.
	l.Warn(context.Background(), models.PhaseFetchQueue, "", "queue empty", nil)
}
