// Package pipeline contains the cron-triggered jobs: the generation
// orchestrator, the queue seeder, and the coverage sync, plus the structured
// event log they all write through.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
)

// EventStore appends pipeline events to the persistent audit log.
type EventStore interface {
	AppendEvent(ctx context.Context, ev models.PipelineEvent) error
}

// Logger writes every pipeline action twice: to the process log via slog and
// to the append-only event table. Event persistence is best-effort; a store
// failure never interrupts the run that is being logged.
type Logger struct {
	log    *slog.Logger
	events EventStore
	now    func() time.Time
}

// NewLogger creates a pipeline logger. events may be nil, in which case only
// the process log is written.
func NewLogger(log *slog.Logger, events EventStore) *Logger {
	return &Logger{log: log, events: events, now: time.Now}
}

// Info records a successful or neutral pipeline action.
func (l *Logger) Info(ctx context.Context, phase string, contentType models.ContentType, msg string, meta map[string]any) {
	l.emit(ctx, slog.LevelInfo, phase, contentType, msg, meta)
}

// Warn records a skipped or degraded action.
func (l *Logger) Warn(ctx context.Context, phase string, contentType models.ContentType, msg string, meta map[string]any) {
	l.emit(ctx, slog.LevelWarn, phase, contentType, msg, meta)
}

// Error records a failed action.
func (l *Logger) Error(ctx context.Context, phase string, contentType models.ContentType, msg string, meta map[string]any) {
	l.emit(ctx, slog.LevelError, phase, contentType, msg, meta)
}

func (l *Logger) emit(ctx context.Context, level slog.Level, phase string, contentType models.ContentType, msg string, meta map[string]any) {
	attrs := []any{"phase", phase}
	if contentType != "" {
		attrs = append(attrs, "content_type", string(contentType))
	}
	for k, v := range meta {
		attrs = append(attrs, k, v)
	}
	l.log.Log(ctx, level, msg, attrs...)

	if l.events == nil {
		return
	}
	ev := models.PipelineEvent{
		Timestamp:   l.now(),
		Phase:       phase,
		Severity:    level.String(),
		ContentType: contentType,
		Message:     msg,
		Metadata:    meta,
	}
	if err := l.events.AppendEvent(ctx, ev); err != nil {
		l.log.Debug("append pipeline event failed", "error", err)
	}
}
