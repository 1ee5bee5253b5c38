package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/db"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/metrics"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/seo"
)

// beaconFieldMax is the length string beacon fields are truncated to.
const beaconFieldMax = 256

// trackBodyLimit bounds how much of a beacon request body is read.
const trackBodyLimit = 8 << 10

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleCron runs one cron job and reports its summary. Job failures are
// 500s here; the scheduler's retry policy decides what to do with them.
func (s *Server) handleCron(name string, job func(ctx context.Context) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if job == nil {
			writeJSON(w, http.StatusNotImplemented, map[string]any{"ok": false, "error": "job not wired"})
			return
		}
		summary, err := job(r.Context())
		if err != nil {
			s.metrics.RecordRun(name, "error")
			s.logger.Error("cron job failed", "job", name, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": err.Error()})
			return
		}
		s.metrics.RecordRun(name, "ok")
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "summary": summary})
	}
}

// trackPayload is the allowlisted beacon shape. Unknown fields in the
// request body simply have nowhere to land and are discarded by decoding.
type trackPayload struct {
	Type        string `json:"type"`
	SessionID   string `json:"sessionId"`
	Page        string `json:"page"`
	Component   string `json:"component"`
	Label       string `json:"label"`
	Destination string `json:"destination"`
	CTAID       string `json:"ctaId"`
	Referrer    string `json:"referrer"`
	UserAgent   string `json:"userAgent"`
	Viewport    string `json:"viewport"`
}

func truncate(s string) string {
	if len(s) <= beaconFieldMax {
		return s
	}
	// Cut on a rune boundary so the stored value stays valid UTF-8.
	cut := beaconFieldMax
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// handleTrack ingests tracking beacons. The response is success-shaped no
// matter what: malformed payloads, rate-limited callers, and a down backend
// all get `{"ok":true}` because beacons never retry.
func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	ok := func() {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}

	if !s.limiter.Allow(clientIP(r)) {
		s.metrics.RecordBeacon(metrics.BeaconDropped)
		ok()
		return
	}

	var p trackPayload
	body := http.MaxBytesReader(w, r.Body, trackBodyLimit)
	if err := json.NewDecoder(body).Decode(&p); err != nil || p.Type == "" {
		s.metrics.RecordBeacon(metrics.BeaconDiscarded)
		ok()
		return
	}

	ev := models.BeaconEvent{
		Type:        truncate(p.Type),
		SessionID:   truncate(p.SessionID),
		Page:        truncate(p.Page),
		Component:   truncate(p.Component),
		Label:       truncate(p.Label),
		Destination: truncate(p.Destination),
		CTAID:       truncate(p.CTAID),
		Referrer:    truncate(p.Referrer),
		UserAgent:   truncate(p.UserAgent),
		Viewport:    truncate(p.Viewport),
		Received:    time.Now().UTC(),
	}

	if err := s.store.StoreBeacon(r.Context(), ev); err != nil {
		s.metrics.RecordBeacon(metrics.BeaconDiscarded)
		s.logger.Warn("beacon store failed", "error", err)
		ok()
		return
	}

	s.metrics.RecordBeacon(metrics.BeaconAccepted)
	ok()
}

// handleStructuredData returns the JSON-LD object for a published document.
func (s *Server) handleStructuredData(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "slug required"})
		return
	}

	doc, err := s.store.GetPublishedBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "not found"})
			return
		}
		s.logger.Error("structured data lookup failed", "slug", slug, "error", err)
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "not found"})
		return
	}

	writeJSON(w, http.StatusOK, seo.StructuredData(doc, s.cfg.SiteURL))
}

// handleHealth reports process and store health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.store.Ping(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{"status": status})
}
