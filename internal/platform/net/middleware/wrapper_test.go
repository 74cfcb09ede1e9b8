package middleware_test

import (
	"compress/flate"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"assistify/internal/platform/net/middleware"
)

func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func TestCompress_GzipWhenAccepted(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"message":"`+strings.Repeat("a", 4<<10)+`"}`)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	middleware.Compress(flate.BestSpeed)(h).ServeHTTP(rr, req)

	if rr.Result().Header.Get("Content-Encoding") == "" {
		t.Fatal("response was not compressed")
	}
}

func TestCORS_PreflightUsesWidgetDefaults(t *testing.T) {
	cors := middleware.CORS(middleware.CORSOptions{AllowedOrigins: []string{"https://shop.example"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/assistant/chat", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rr := httptest.NewRecorder()
	cors(http.NotFoundHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK && rr.Code != http.StatusNoContent {
		t.Fatalf("preflight status %d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Access-Control-Allow-Methods"), "POST") {
		t.Fatalf("allow methods %q", rr.Header().Get("Access-Control-Allow-Methods"))
	}
	if rr.Header().Get("Access-Control-Allow-Headers") == "" {
		t.Fatal("allow headers missing")
	}
}

func TestStack_RequestIDRealIPNoCacheHeartbeat(t *testing.T) {
	var rid, addr string
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid = chimw.GetReqID(r.Context())
		addr = r.RemoteAddr
		w.WriteHeader(http.StatusOK)
	}),
		middleware.RealIP,
		middleware.RequestID,
		middleware.NoCache,
		middleware.Heartbeat("/ping"),
		middleware.Timeout(time.Second),
	)

	req := httptest.NewRequest(http.MethodGet, "/assistant/intents", nil)
	req.RemoteAddr = "127.0.0.1:12345"
	req.Header.Set("X-Forwarded-For", "1.2.3.4")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if rid == "" {
		t.Fatal("request id not set")
	}
	if addr != "1.2.3.4" {
		t.Fatalf("remote addr %q want forwarded ip", addr)
	}
	if rr.Header().Get("Cache-Control") == "" {
		t.Fatal("no-cache headers missing")
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "." {
		t.Fatalf("heartbeat %d %q", rr.Code, rr.Body.String())
	}
}

func TestRedirectSlashes_Redirects(t *testing.T) {
	rr := httptest.NewRecorder()
	middleware.RedirectSlashes(http.NotFoundHandler()).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/meta/health/", nil))
	if rr.Code != http.StatusMovedPermanently {
		t.Fatalf("status %d want 301", rr.Code)
	}
}
