package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/star/neodash/internal/asteroids"
	"github.com/star/neodash/internal/cache"
	"github.com/star/neodash/internal/httputil"
	"github.com/star/neodash/internal/neo"
	"github.com/star/neodash/web"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

type fakeFeed struct {
	calls  atomic.Int64
	result []neo.Asteroid
	err    error
}

func (f *fakeFeed) FetchDate(ctx context.Context, date, apiKey string) ([]neo.Asteroid, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func ptr(f float64) *float64 { return &f }

func sampleAsteroids() []neo.Asteroid {
	return []neo.Asteroid{
		{ID: "1", Name: "(2015 OD22)", SizeMilesAvg: ptr(0.15305), MissDistanceMiles: ptr(40648475.1), SpeedMPH: ptr(56801.97)},
		{ID: "2", Name: "(2024 AB1)", MissDistanceMiles: ptr(1000)},
	}
}

func newTestServer(t *testing.T, feed *fakeFeed) http.Handler {
	t.Helper()
	c := cache.NewFeedCache(cache.Config{TTL: time.Minute}, testLogger())
	svc := asteroids.NewService(feed, c, "test-key", testLogger())
	srv, err := NewServer(Options{Addr: ":0", Web: web.Content}, svc, testLogger())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv.Handler()
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", target, nil))
	return w
}

func TestAsteroidsEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing date",
			query:      "",
			wantStatus: http.StatusBadRequest,
			wantError:  "date is required in YYYY-MM-DD format",
		},
		{
			name:       "malformed date",
			query:      "?date=2024-1-01",
			wantStatus: http.StatusBadRequest,
			wantError:  "date is required in YYYY-MM-DD format",
		},
		{
			name:       "rate limited",
			query:      "?date=2024-01-01",
			err:        &neo.UpstreamError{StatusCode: 429, Kind: neo.KindRateLimited, Message: "NASA rate limit hit. Try again shortly or use a personal API key."},
			wantStatus: http.StatusTooManyRequests,
			wantError:  "NASA rate limit hit. Try again shortly or use a personal API key.",
		},
		{
			name:       "forbidden",
			query:      "?date=2024-01-01",
			err:        &neo.UpstreamError{StatusCode: 403, Kind: neo.KindForbidden, Message: "NASA rejected the API key (403). Verify NASA_API_KEY in backend/.env."},
			wantStatus: http.StatusForbidden,
			wantError:  "NASA rejected the API key (403). Verify NASA_API_KEY in backend/.env.",
		},
		{
			name:       "upstream failure keeps status",
			query:      "?date=2024-01-01",
			err:        &neo.UpstreamError{StatusCode: 502, Kind: neo.KindFailure, Message: "NASA API request failed."},
			wantStatus: http.StatusBadGateway,
			wantError:  "NASA API request failed.",
		},
		{
			name:       "transport error",
			query:      "?date=2024-01-01",
			err:        errors.New("dial tcp: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, &fakeFeed{err: tt.err})
			w := get(h, "/api/asteroids"+tt.query)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body httputil.ErrorBody
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error != tt.wantError {
				t.Errorf("error = %q, want %q", body.Error, tt.wantError)
			}
		})
	}
}

func TestAsteroidsEndpointSuccessAndCache(t *testing.T) {
	feed := &fakeFeed{result: sampleAsteroids()}
	h := newTestServer(t, feed)

	w := get(h, "/api/asteroids?date=2024-01-01")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var body struct {
		Date      string           `json:"date"`
		Count     int              `json:"count"`
		Asteroids []map[string]any `json:"asteroids"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Date != "2024-01-01" || body.Count != 2 || len(body.Asteroids) != 2 {
		t.Fatalf("body = %+v", body)
	}
	if v, ok := body.Asteroids[1]["speed_mph"]; !ok || v != nil {
		t.Errorf("absent speed should encode as null, got %v (present=%v)", v, ok)
	}

	if w := get(h, "/api/asteroids?date=2024-01-01"); w.Code != http.StatusOK {
		t.Fatalf("second status = %d", w.Code)
	}
	if n := feed.calls.Load(); n != 1 {
		t.Errorf("feed calls = %d, want 1 (second request served from cache)", n)
	}
}

func TestAsteroidsEndpointEmptyDay(t *testing.T) {
	h := newTestServer(t, &fakeFeed{})
	w := get(h, "/api/asteroids?date=2024-01-01")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != `{"date":"2024-01-01","count":0,"asteroids":[]}` {
		t.Errorf("body = %s", body)
	}
}

func TestProbesAndMetrics(t *testing.T) {
	h := newTestServer(t, &fakeFeed{})

	if w := get(h, "/health"); w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `{"ok":true}` {
		t.Errorf("/health = %d %q", w.Code, w.Body.String())
	}
	if w := get(h, "/healthz"); w.Code != http.StatusOK {
		t.Errorf("/healthz = %d", w.Code)
	}
	if w := get(h, "/readyz"); w.Code != http.StatusOK {
		t.Errorf("/readyz = %d", w.Code)
	}
	if w := get(h, "/metrics"); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "neodash_http_requests_total") {
		t.Errorf("/metrics = %d, missing request counter", w.Code)
	}
	if w := get(h, "/nope"); w.Code != http.StatusNotFound {
		t.Errorf("/nope = %d, want 404", w.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestServer(t, &fakeFeed{})

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "trace-42")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "trace-42" {
		t.Errorf("X-Request-ID = %q, want trace-42", got)
	}
	if got := get(h, "/health").Header().Get("X-Request-ID"); got == "" {
		t.Error("expected a generated X-Request-ID")
	}
}

func TestStaticStylesheet(t *testing.T) {
	h := newTestServer(t, &fakeFeed{})
	w := get(h, "/static/styles.css")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRecoverMiddleware(t *testing.T) {
	h := recoverMiddleware(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := get(h, "/")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"error":"Server error"`) {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestProbePath(t *testing.T) {
	for _, p := range []string{"/health", "/healthz", "/readyz", "/metrics"} {
		if !probePath(p) {
			t.Errorf("probePath(%q) = false", p)
		}
	}
	if probePath("/api/asteroids") {
		t.Error("probePath(/api/asteroids) = true")
	}
}
