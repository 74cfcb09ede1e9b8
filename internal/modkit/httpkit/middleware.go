package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "assistify/internal/platform/net/http"
	"assistify/internal/platform/net/middleware"
)

// CommonStack returns the middleware shared by every module
// the access log sits inside RequestID so each line carries request_id
func CommonStack(cors middleware.CORSOptions) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RealIP,
		middleware.AccessLog(middleware.AccessLogOptions{Slow: middleware.DefaultSlow}),
		middleware.RecoverJSON,
		middleware.NoCache,
		middleware.CORS(cors),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.RedirectSlashes,
		middleware.Timeout(requestTimeout),
	}
}

const requestTimeout = 30 * time.Second

// OptionalAuth resolves bearer tokens when present and lets anonymous callers through
// a token the port rejects still fails with 401
func OptionalAuth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.OptionalAuth(p, phttp.JSON)
}
