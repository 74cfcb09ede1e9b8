package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "assistify/internal/platform/errors"
	pnet "assistify/internal/platform/net"
)

func TestRecoverJSON_WritesEnvelope(t *testing.T) {
	h := RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assistant/chat", nil)
	req = req.WithContext(pnet.WithRequestID(req.Context(), "rid-9"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d want 500", rec.Code)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "rid-9" {
		t.Fatalf("X-Request-ID %q", got)
	}

	var body pnet.Wire
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != perr.ErrorCodePanic || body.Error != "internal error" || body.RequestID != "rid-9" {
		t.Fatalf("envelope %+v", body)
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Fatal("panic value leaked to the client")
	}
}

func TestRecoverJSON_PassThroughAndAbort(t *testing.T) {
	rec := httptest.NewRecorder()
	RecoverJSON(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status %d want 202", rec.Code)
	}

	abort := RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic(http.ErrAbortHandler) }))
	defer func() {
		if r := recover(); r != http.ErrAbortHandler {
			t.Fatalf("recovered %v want ErrAbortHandler", r)
		}
	}()
	abort.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}
