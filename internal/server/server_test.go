package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/config"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/db"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/metrics"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
)

type fakeContentStore struct {
	beacons   []models.BeaconEvent
	beaconErr error
	published []models.Document
	listErr   error
	pingErr   error
}

func (f *fakeContentStore) StoreBeacon(ctx context.Context, ev models.BeaconEvent) error {
	if f.beaconErr != nil {
		return f.beaconErr
	}
	f.beacons = append(f.beacons, ev)
	return nil
}

func (f *fakeContentStore) ListPublished(ctx context.Context, limit int) ([]models.Document, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.published, nil
}

func (f *fakeContentStore) GetPublishedBySlug(ctx context.Context, slug string) (*models.Document, error) {
	for i := range f.published {
		if f.published[i].Slug == slug {
			return &f.published[i], nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeContentStore) Ping(ctx context.Context) error { return f.pingErr }

func newTestServer(cfg config.Config, store *fakeContentStore, jobs Jobs) *Server {
	if cfg.SiteURL == "" {
		cfg.SiteURL = "https://example.com"
	}
	return New(cfg, store, jobs, metrics.NewCollector(), slog.New(slog.DiscardHandler))
}

func TestCronAuthFailClosed(t *testing.T) {
	ran := false
	jobs := Jobs{Seed: func(ctx context.Context) (string, error) {
		ran = true
		return "ok", nil
	}}

	t.Run("no secret configured denies everything", func(t *testing.T) {
		s := newTestServer(config.Config{}, &fakeContentStore{}, jobs)
		req := httptest.NewRequest(http.MethodPost, "/api/cron/seed-content-queue", nil)
		req.Header.Set("Authorization", "Bearer anything")
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		if ran {
			t.Error("job must not run without a configured secret")
		}
	})

	t.Run("wrong token denied", func(t *testing.T) {
		s := newTestServer(config.Config{CronSecret: "s3cret"}, &fakeContentStore{}, jobs)
		req := httptest.NewRequest(http.MethodPost, "/api/cron/seed-content-queue", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized || ran {
			t.Errorf("status = %d, ran = %v", rec.Code, ran)
		}
	})

	t.Run("correct token runs the job", func(t *testing.T) {
		s := newTestServer(config.Config{CronSecret: "s3cret"}, &fakeContentStore{}, jobs)
		req := httptest.NewRequest(http.MethodPost, "/api/cron/seed-content-queue", nil)
		req.Header.Set("Authorization", "Bearer s3cret")
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		if !ran {
			t.Error("job did not run")
		}
	})

	t.Run("failing job answers 500", func(t *testing.T) {
		failing := Jobs{Seed: func(ctx context.Context) (string, error) {
			return "", errors.New("store down")
		}}
		s := newTestServer(config.Config{CronSecret: "s3cret"}, &fakeContentStore{}, failing)
		req := httptest.NewRequest(http.MethodPost, "/api/cron/seed-content-queue", nil)
		req.Header.Set("Authorization", "Bearer s3cret")
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})
}

func postTrack(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/track", strings.NewReader(body))
	req.RemoteAddr = "203.0.113.9:4411"
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestTrackEndpoint(t *testing.T) {
	t.Run("stores allowlisted fields only", func(t *testing.T) {
		store := &fakeContentStore{}
		s := newTestServer(config.Config{}, store, Jobs{})

		rec := postTrack(t, s, `{"type":"cta_click","sessionId":"abc","admin":true}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if len(store.beacons) != 1 {
			t.Fatalf("beacons stored = %d", len(store.beacons))
		}
		b := store.beacons[0]
		if b.Type != "cta_click" || b.SessionID != "abc" {
			t.Errorf("beacon = %+v", b)
		}
	})

	t.Run("malformed json still answers 200", func(t *testing.T) {
		store := &fakeContentStore{}
		s := newTestServer(config.Config{}, store, Jobs{})

		rec := postTrack(t, s, `{"type": `)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"ok":true`) {
			t.Errorf("body = %s", rec.Body.String())
		}
		if len(store.beacons) != 0 {
			t.Error("malformed beacon must not be stored")
		}
	})

	t.Run("missing type discarded", func(t *testing.T) {
		store := &fakeContentStore{}
		s := newTestServer(config.Config{}, store, Jobs{})
		if rec := postTrack(t, s, `{"page":"/pricing"}`); rec.Code != http.StatusOK {
			t.Errorf("status = %d", rec.Code)
		}
		if len(store.beacons) != 0 {
			t.Error("typeless beacon must not be stored")
		}
	})

	t.Run("backend failure still answers 200", func(t *testing.T) {
		store := &fakeContentStore{beaconErr: errors.New("db down")}
		s := newTestServer(config.Config{}, store, Jobs{})
		rec := postTrack(t, s, `{"type":"page_view"}`)
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok":true`) {
			t.Errorf("status = %d body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("long fields truncated", func(t *testing.T) {
		store := &fakeContentStore{}
		s := newTestServer(config.Config{}, store, Jobs{})
		long := strings.Repeat("x", 1000)
		rec := postTrack(t, s, `{"type":"page_view","label":"`+long+`"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if got := len(store.beacons[0].Label); got != beaconFieldMax {
			t.Errorf("label length = %d, want %d", got, beaconFieldMax)
		}
	})

	t.Run("truncation keeps valid utf8", func(t *testing.T) {
		store := &fakeContentStore{}
		s := newTestServer(config.Config{}, store, Jobs{})
		// A multi-byte rune straddles the cut point.
		long := strings.Repeat("a", beaconFieldMax-1) + "日本語"
		rec := postTrack(t, s, `{"type":"page_view","label":"`+long+`"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		got := store.beacons[0].Label
		if !utf8.ValidString(got) {
			t.Errorf("truncated label is not valid UTF-8: %q", got)
		}
		if want := strings.Repeat("a", beaconFieldMax-1); got != want {
			t.Errorf("label = %q, want the straddling rune dropped", got)
		}
	})

	t.Run("rate limited beacons dropped silently", func(t *testing.T) {
		store := &fakeContentStore{}
		s := newTestServer(config.Config{}, store, Jobs{})
		s.limiter.Stop()
		s.limiter = newIPRateLimiter(1)
		defer s.limiter.Stop()

		first := postTrack(t, s, `{"type":"page_view"}`)
		second := postTrack(t, s, `{"type":"page_view"}`)
		if first.Code != http.StatusOK || second.Code != http.StatusOK {
			t.Errorf("statuses = %d, %d, want 200 for both", first.Code, second.Code)
		}
		if len(store.beacons) != 1 {
			t.Errorf("beacons stored = %d, want 1 (second dropped)", len(store.beacons))
		}
	})
}

func publishedDoc(title string, published time.Time) models.Document {
	return models.Document{
		Type:      models.TypeBlog,
		Title:     title,
		Slug:      models.Slugify(title),
		Status:    models.ContentStatusPublished,
		Published: &published,
		Blog:      &models.BlogPayload{Body: "body", Author: "Editorial Team"},
	}
}

func TestFeeds(t *testing.T) {
	t.Run("rss contains published items", func(t *testing.T) {
		store := &fakeContentStore{published: []models.Document{
			publishedDoc("Rebuilding Attribution", time.Now()),
		}}
		s := newTestServer(config.Config{}, store, Jobs{})
		req := httptest.NewRequest(http.MethodGet, "/feed.xml", nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Rebuilding Attribution") {
			t.Errorf("feed missing item: %s", rec.Body.String())
		}
	})

	t.Run("store failure degrades to empty feed", func(t *testing.T) {
		store := &fakeContentStore{listErr: errors.New("db down")}
		s := newTestServer(config.Config{}, store, Jobs{})
		req := httptest.NewRequest(http.MethodGet, "/feed.xml", nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, feeds must not 5xx", rec.Code)
		}
	})

	t.Run("json feed renders", func(t *testing.T) {
		store := &fakeContentStore{published: []models.Document{
			publishedDoc("Rebuilding Attribution", time.Now()),
		}}
		s := newTestServer(config.Config{}, store, Jobs{})
		req := httptest.NewRequest(http.MethodGet, "/feed.json", nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Rebuilding Attribution") {
			t.Errorf("status = %d body = %s", rec.Code, rec.Body.String())
		}
	})
}

func TestStructuredDataEndpoint(t *testing.T) {
	store := &fakeContentStore{published: []models.Document{
		publishedDoc("Rebuilding Attribution", time.Now()),
	}}
	s := newTestServer(config.Config{}, store, Jobs{})

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/structured-data?slug=rebuilding-attribution", nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Article") {
			t.Errorf("status = %d body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("missing slug", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/structured-data", nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("unknown slug", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/structured-data?slug=nope", nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d", rec.Code)
		}
	})
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		s := newTestServer(config.Config{}, &fakeContentStore{}, Jobs{})
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("degraded", func(t *testing.T) {
		s := newTestServer(config.Config{}, &fakeContentStore{pingErr: errors.New("no db")}, Jobs{})
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d", rec.Code)
		}
	})
}
