package server

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sehatnxt/prescriptions-api/config"
	"github.com/sehatnxt/prescriptions-api/data"
	"github.com/sehatnxt/prescriptions-api/drafts"
	"github.com/sehatnxt/prescriptions-api/handlers"
	"github.com/sehatnxt/prescriptions-api/health"
	"github.com/sehatnxt/prescriptions-api/logging"
	"github.com/sehatnxt/prescriptions-api/refdata"
	"github.com/sehatnxt/prescriptions-api/render"
	"github.com/sehatnxt/prescriptions-api/validation"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:           "8100",
		Address:        "127.0.0.1",
		Env:            "test",
		LogLevel:       "info",
		MaxRequestBody: 1048576,
		MaxHeaderSize:  1048576,
		ReloadMinutes:  60,
		SuggestLimit:   10,
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logging.InitLogger(t.TempDir())

	ds, err := refdata.Load("")
	if err != nil {
		t.Fatalf("loading embedded reference data: %v", err)
	}
	container := data.NewContainer(false)
	container.Swap(ds)
	container.SetServerStartTime(time.Now())

	store := drafts.NewStore()
	validator := validation.NewValidator()

	handler := handlers.NewHandler(handlers.Options{
		DataStore:      container,
		Drafts:         store,
		DraftValidator: validator,
		InputValidator: validator,
		HealthChecker:  health.NewHealthChecker(container, store, time.Hour),
		Surface:        render.NewMemorySurface(),
		Clinic: render.ClinicProfile{
			DoctorName: "Dr. Sharma",
			ClinicName: "SehatNxt+",
		},
		SuggestLimit: 10,
		PrintDelay:   time.Millisecond,
	})

	return NewServer(testConfig(), handler)
}

// doAs issues a request through the full middleware stack as a given
// client IP, keeping rate limit buckets isolated between tests.
func doAs(srv *Server, method, path, clientIP string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-Forwarded-For", clientIP)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)
	return rr
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/catalog", http.StatusOK},
		{"GET", "/catalog/suggest/parac", http.StatusOK},
		{"GET", "/templates", http.StatusOK},
		{"GET", "/templates/1", http.StatusOK},
		{"GET", "/patients", http.StatusOK},
		{"GET", "/patients/P001", http.StatusOK},
		{"POST", "/prescriptions", http.StatusCreated},
		{"GET", "/metrics", http.StatusOK},
		{"GET", "/nope", http.StatusNotFound},
		{"GET", "/prescriptions/unknown", http.StatusNotFound},
	}

	for i, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := doAs(srv, tt.method, tt.path, fmt.Sprintf("10.1.0.%d", i+1))
			if rr.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestRateLimitHeaders(t *testing.T) {
	srv := newTestServer(t)

	rr := doAs(srv, "GET", "/health", "10.2.0.1")
	if rr.Header().Get("X-RateLimit-Limit") != "1000" {
		t.Errorf("expected rate limit header, got %q", rr.Header().Get("X-RateLimit-Limit"))
	}
	if rr.Header().Get("X-RateLimit-Remaining") == "" {
		t.Error("expected remaining tokens header")
	}
}

func TestRateLimitExceeded(t *testing.T) {
	srv := newTestServer(t)

	// The full catalog costs 100 tokens against a 1000 token bucket
	var got429 bool
	for i := 0; i < 15; i++ {
		rr := doAs(srv, "GET", "/catalog", "10.3.0.1")
		if rr.Code == http.StatusTooManyRequests {
			got429 = true
			if rr.Header().Get("Retry-After") != "60" {
				t.Errorf("expected Retry-After header, got %q", rr.Header().Get("Retry-After"))
			}
			break
		}
	}
	if !got429 {
		t.Error("expected the bucket to run out of tokens")
	}
}

func TestRequestSizeLimit(t *testing.T) {
	srv := newTestServer(t)

	body := bytes.NewReader(make([]byte, 64))
	req := httptest.NewRequest("POST", "/prescriptions", body)
	req.Header.Set("X-Forwarded-For", "10.4.0.1")
	req.Header.Set("Content-Length", "99999999")
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Request body too large") {
		t.Errorf("unexpected body: %s", rr.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/prescriptions", nil)
	req.Header.Set("X-Forwarded-For", "10.5.0.1")
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("expected open CORS policy, got %q", rr.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestRealIPMiddleware(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.RemoteAddr
	})

	tests := []struct {
		name string
		xff  string
		want string
	}{
		{"single ip", "203.0.113.7", "203.0.113.7"},
		{"proxy chain keeps first", "203.0.113.7, 10.0.0.1", "203.0.113.7"},
		{"no header keeps remote addr", "", "192.0.2.1:1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			RealIPMiddleware(inner).ServeHTTP(httptest.NewRecorder(), req)
			if seen != tt.want {
				t.Errorf("expected %q, got %q", tt.want, seen)
			}
		})
	}
}

func TestGetTokenCost(t *testing.T) {
	tests := []struct {
		path string
		want int64
	}{
		{"/metrics", 0},
		{"/health", 5},
		{"/catalog", 100},
		{"/catalog/suggest/parac", 5},
		{"/templates", 20},
		{"/templates/1", 20},
		{"/patients/P001", 20},
		{"/prescriptions", 10},
		{"/prescriptions/abc/save", 10},
		{"/anything-else", 20},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if got := getTokenCost(req); got != tt.want {
				t.Errorf("expected cost %d, got %d", tt.want, got)
			}
		})
	}
}
