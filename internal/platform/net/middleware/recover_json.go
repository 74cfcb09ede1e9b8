package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"

	perr "assistify/internal/platform/errors"
	"assistify/internal/platform/logger"
	pnet "assistify/internal/platform/net"
)

// RecoverJSON turns a handler panic into the standard 500 envelope and logs the stack
// http.ErrAbortHandler is re-raised so net/http can drop the connection quietly
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("stack", string(debug.Stack())).
				Msg("panic recovered")

			status, body := pnet.Error(perr.PanicErrf("internal error"), reqID)
			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(body)
		}()
		next.ServeHTTP(w, r)
	})
}
