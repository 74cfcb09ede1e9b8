package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "assistify/internal/platform/errors"
	pnet "assistify/internal/platform/net"
	"assistify/internal/platform/net/middleware"
)

type stubPort struct {
	uid, role string
	err       error
}

func (s stubPort) Parse(*http.Request) (string, string, error) { return s.uid, s.role, s.err }

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestAuth(t *testing.T) {
	unauthorized := perr.Unauthorizedf("unknown token")

	cases := []struct {
		name     string
		optional bool
		port     middleware.AuthPort
		header   string
		status   int
		identity pnet.Identity
	}{
		{name: "nil port passes", port: nil, status: http.StatusOK},
		{name: "admin token", port: stubPort{uid: "u1", role: "admin"}, header: "Bearer t", status: http.StatusOK,
			identity: pnet.Identity{UserID: "u1", Role: "admin"}},
		{name: "rejected token", port: stubPort{err: unauthorized}, header: "Bearer t", status: http.StatusUnauthorized},
		{name: "required without header", port: stubPort{err: unauthorized}, status: http.StatusUnauthorized},
		{name: "optional without header", optional: true, port: stubPort{err: unauthorized}, status: http.StatusOK},
		{name: "optional bad header", optional: true, port: stubPort{err: unauthorized}, header: "Bearer nope",
			status: http.StatusUnauthorized},
		{name: "optional customer token", optional: true, port: stubPort{uid: "u2"}, header: "Bearer t", status: http.StatusOK,
			identity: pnet.Identity{UserID: "u2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mw := middleware.Auth(tc.port, writeJSON)
			if tc.optional {
				mw = middleware.OptionalAuth(tc.port, writeJSON)
			}
			var seen pnet.Identity
			h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = pnet.IdentityOf(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/assistant/audit", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tc.status {
				t.Fatalf("status %d want %d", rr.Code, tc.status)
			}
			if seen != tc.identity {
				t.Fatalf("identity %+v want %+v", seen, tc.identity)
			}
			if tc.status != http.StatusOK {
				var body pnet.Wire
				if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if body.Code != perr.ErrorCodeUnauthorized {
					t.Fatalf("code %v want unauthorized", body.Code)
				}
			}
		})
	}
}
