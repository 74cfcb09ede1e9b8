package http

import (
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func header(k string) func(stdhttp.Handler) stdhttp.Handler {
	return func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			w.Header().Set(k, "1")
			next.ServeHTTP(w, r)
		})
	}
}

func text(s string) Handler {
	return func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { _, _ = io.WriteString(w, s) }
}

func TestAdaptChi_ScopesMiddlewareAndRoutes(t *testing.T) {
	t.Parallel()

	r := AdaptChi(chi.NewRouter())
	r.Use(header("X-Root"))
	r.Get("/root", text("root"))
	r.Group(func(g Router) {
		g.Use(header("X-Group"))
		g.Post("/g", text("group"))
	})
	r.Route("/api", func(api Router) {
		api.Use(header("X-Api"))
		api.Get("/ping", text("pong"))
		api.Handle("/raw", stdhttp.HandlerFunc(text("raw")))
		if r.Mux() != api.Mux() {
			t.Fatal("Route should share the root mux")
		}
	})

	cases := []struct {
		method, path, body string
		set, unset         []string
	}{
		{stdhttp.MethodGet, "/root", "root", []string{"X-Root"}, []string{"X-Group", "X-Api"}},
		{stdhttp.MethodPost, "/g", "group", []string{"X-Root", "X-Group"}, []string{"X-Api"}},
		{stdhttp.MethodGet, "/api/ping", "pong", []string{"X-Root", "X-Api"}, []string{"X-Group"}},
		{stdhttp.MethodPut, "/api/raw", "raw", []string{"X-Api"}, nil},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		r.Mux().ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
		if rr.Code != stdhttp.StatusOK || rr.Body.String() != tc.body {
			t.Fatalf("%s: got %d %q want 200 %q", tc.path, rr.Code, rr.Body.String(), tc.body)
		}
		for _, h := range tc.set {
			if rr.Header().Get(h) != "1" {
				t.Fatalf("%s: header %s not set", tc.path, h)
			}
		}
		for _, h := range tc.unset {
			if rr.Header().Get(h) != "" {
				t.Fatalf("%s: header %s leaked", tc.path, h)
			}
		}
	}

	rr := httptest.NewRecorder()
	r.Mux().ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodPost, "/api/ping", nil))
	if rr.Code != stdhttp.StatusMethodNotAllowed {
		t.Fatalf("status %d want 405", rr.Code)
	}
}
