package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	perr "assistify/internal/platform/errors"
	pnet "assistify/internal/platform/net"
	phttp "assistify/internal/platform/net/http"
)

func serve(t *testing.T, resp phttp.Response) (*httptest.ResponseRecorder, phttp.Envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/assistant/confirm", nil)
	req = req.WithContext(pnet.WithRequestID(req.Context(), "rid-7"))
	rec := httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response { return resp })(rec, req)

	var env phttp.Envelope
	if rec.Code != http.StatusNoContent {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
	}
	return rec, env
}

func TestJSON_SetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.JSON(rec, http.StatusTeapot, map[string]any{"k": "v"})
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Fatalf("content type %q", got)
	}
}

func TestHandle_SuccessEnvelope(t *testing.T) {
	rec, env := serve(t, phttp.OK(map[string]bool{"success": true}))
	if rec.Code != http.StatusOK || env.StatusCode != 200 || env.Status != "OK" {
		t.Fatalf("status %d envelope %+v", rec.Code, env)
	}
	if env.RequestID != "rid-7" {
		t.Fatalf("request id %q", env.RequestID)
	}
	if !reflect.DeepEqual(env.Data, map[string]any{"success": true}) {
		t.Fatalf("data %#v", env.Data)
	}
	if env.Error != "" {
		t.Fatalf("error %q on success", env.Error)
	}
}

func TestHandle_ErrorEnvelopeCarriesCodeAndField(t *testing.T) {
	err := perr.WithField(perr.New(perr.ErrorCodeInvalidArgument, "confirmation code does not match"), "confirmation_code")
	rec, env := serve(t, phttp.Error(err))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d want 422", rec.Code)
	}
	if env.Code != perr.ErrorCodeInvalidArgument || env.Error != "confirmation code does not match" || env.Field != "confirmation_code" {
		t.Fatalf("envelope %+v", env)
	}
	if env.Data != nil {
		t.Fatalf("data %#v on error", env.Data)
	}

	rec, env = serve(t, phttp.Error(perr.New(perr.ErrorCodeExpired, "confirmation expired or already used")))
	if rec.Code != http.StatusGone || env.Status != "Gone" {
		t.Fatalf("expired: %d %q", rec.Code, env.Status)
	}

	rec, _ = serve(t, phttp.Error(errors.New("boom")))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("plain error: status %d", rec.Code)
	}
}

func TestHandle_NoContentAndHeaders(t *testing.T) {
	rec, _ := serve(t, phttp.Response{Status: http.StatusNoContent})
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("no content: %d %q", rec.Code, rec.Body.String())
	}

	rec, _ = serve(t, phttp.Response{Body: "x", Header: http.Header{"X-Assistant": {"1"}}})
	if rec.Code != http.StatusOK || rec.Header().Get("X-Assistant") != "1" {
		t.Fatalf("headers: %d %v", rec.Code, rec.Header())
	}
}
