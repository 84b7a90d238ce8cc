package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/HerbHall/rigplanner/internal/metrics"
	"github.com/HerbHall/rigplanner/internal/testutil"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

type pingRoutes struct{}

func (pingRoutes) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/ping/{name}", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"pong": r.PathValue("name")})
	})
}

func TestHealth(t *testing.T) {
	s := New(":0", testutil.Logger(t), metrics.New(), Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("X-Rigplanner-Version"); got == "" {
		t.Error("missing X-Rigplanner-Version header")
	}
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["service"] != "rigplanner" {
		t.Errorf("body = %v", body)
	}
}

func TestRegistrarRoutesAreMounted(t *testing.T) {
	m := metrics.New()
	s := New(":0", testutil.Logger(t), m, Options{}, pingRoutes{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping/gpu", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"pong":"gpu"`) {
		t.Errorf("body = %s", w.Body.String())
	}

	got := promtest.ToFloat64(m.HTTPRequests.WithLabelValues("GET /api/v1/ping/{name}", http.MethodGet, "200"))
	if got != 1 {
		t.Errorf("http_requests_total = %v, want 1", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := New(":0", testutil.Logger(t), metrics.New(), Options{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "rigplanner_comparisons_total") {
		t.Error("metrics output missing rigplanner collectors")
	}
}

func TestRateLimit(t *testing.T) {
	m := metrics.New()
	s := New(":0", testutil.Logger(t), m, Options{RateLimit: 0.001, RateBurst: 2})

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		req.RemoteAddr = "10.0.0.7:5555"
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("first two codes = %v, want 200s", codes[:2])
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third code = %d, want 429", codes[2])
	}
	if got := promtest.ToFloat64(m.RateLimited); got != 1 {
		t.Errorf("rate_limited_total = %v, want 1", got)
	}

	// A different client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.RemoteAddr = "10.0.0.8:5555"
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("other client code = %d, want 200", w.Code)
	}
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		name      string
		remote    string
		forwarded string
		want      string
	}{
		{"remote host", "192.168.1.4:1234", "", "192.168.1.4"},
		{"forwarded first hop", "10.0.0.1:80", "203.0.113.9, 10.0.0.1", "203.0.113.9"},
		{"no port", "pipe", "", "pipe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := clientKey(req); got != tt.want {
				t.Errorf("clientKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNilLimiterAllows(t *testing.T) {
	var l *clientLimiter
	if !l.Allow("anyone") {
		t.Error("nil limiter should allow")
	}
	if newClientLimiter(0, 10) != nil {
		t.Error("zero rate should disable limiting")
	}
}

func TestClientLimiter_EvictsIdleClients(t *testing.T) {
	clock := testutil.NewClock()
	l := newClientLimiter(1, 1)
	l.now = clock.Now

	for i := range 50 {
		l.Allow(fmt.Sprintf("10.0.0.%d", i))
	}
	if got := l.Len(); got != 50 {
		t.Fatalf("tracked clients = %d, want 50", got)
	}

	clock.Advance(clientIdleTTL + time.Second)
	if !l.Allow("10.0.1.1") {
		t.Error("fresh client should be allowed")
	}
	if got := l.Len(); got != 1 {
		t.Errorf("tracked clients after idle sweep = %d, want 1", got)
	}
}

func TestClientLimiter_CapsTrackedClients(t *testing.T) {
	clock := testutil.NewClock()
	l := newClientLimiter(1, 1)
	l.now = clock.Now
	l.max = 3

	for _, key := range []string{"a", "b", "c"} {
		l.Allow(key)
		clock.Advance(time.Second)
	}
	l.Allow("a")
	clock.Advance(time.Second)
	l.Allow("d")

	if got := l.Len(); got != 3 {
		t.Fatalf("tracked clients = %d, want 3", got)
	}
	l.mu.Lock()
	_, keptA := l.clients["a"]
	_, keptB := l.clients["b"]
	l.mu.Unlock()
	if !keptA || keptB {
		t.Errorf("expected least recently seen b evicted (a kept=%v, b kept=%v)", keptA, keptB)
	}
}
