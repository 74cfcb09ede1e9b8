package modkit

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"assistify/internal/modkit/httpkit"
	phttp "assistify/internal/platform/net/http"
)

func tag(name string, log *[]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*log = append(*log, name)
			next.ServeHTTP(w, r)
		})
	}
}

func TestBuild_Defaults(t *testing.T) {
	t.Parallel()

	b := Build()
	if b.Name != "" || b.Prefix != "" || b.Ports != nil || len(b.Mw) != 0 || b.Register != nil {
		t.Fatalf("zero Build should be empty: %+v", b)
	}
}

func TestBuild_OptionsAccumulateAndCopy(t *testing.T) {
	t.Parallel()

	type ports struct{ N int }
	var calls []string
	mw := []func(http.Handler) http.Handler{tag("a", &calls), tag("b", &calls)}

	registered := 0
	b := Build(
		WithName("assistant"),
		WithPrefix("/assistant"),
		WithMiddlewares(mw...),
		WithMiddlewares(tag("c", &calls)),
		WithPorts(ports{N: 7}),
		WithRegister(func(phttp.Router) { registered++ }),
	)

	if b.Name != "assistant" || b.Prefix != "/assistant" {
		t.Fatalf("name/prefix %q %q", b.Name, b.Prefix)
	}
	if b.Ports != (ports{N: 7}) {
		t.Fatalf("ports %+v", b.Ports)
	}
	if len(b.Mw) != 3 {
		t.Fatalf("middlewares %d want 3", len(b.Mw))
	}

	// later edits to the caller's slice do not leak into Built
	mw[0] = tag("z", &calls)

	var h http.Handler = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	for i := len(b.Mw) - 1; i >= 0; i-- {
		h = b.Mw[i](h)
	}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !reflect.DeepEqual(calls, []string{"a", "b", "c"}) {
		t.Fatalf("middleware order %v", calls)
	}

	var r httpkit.Router
	b.Register(r)
	if registered != 1 {
		t.Fatalf("register called %d times", registered)
	}
}
