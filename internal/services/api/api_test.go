package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"assistify/internal/platform/config"
	phttp "assistify/internal/platform/net/http"
)

func TestMount_ServesModulesAndMetrics(t *testing.T) {
	t.Setenv("ASSISTANT_AUTO_MIGRATE", "false")

	mux := chi.NewRouter()
	closeAll := Mount(phttp.AdaptChi(mux), Options{
		Config:        config.New(),
		EnableMetrics: true,
	})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/meta/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("health: %d %s", rr.Code, rr.Body.String())
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assistant/classify", strings.NewReader(`{"message":"where is my order #1042"}`))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("classify: %d %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"customer_order_status"`) {
		t.Fatalf("classify body %s", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "assistify_classifications_total") {
		t.Fatalf("metrics: %d", rr.Code)
	}

	if err := closeAll(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
}
