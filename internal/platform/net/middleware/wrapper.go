// Package middleware holds the HTTP middleware stack; chi types stay behind plain func(http.Handler) http.Handler
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"

	pstrings "assistify/internal/platform/strings"
)

// chi middlewares used as is
var (
	RequestID       = chimw.RequestID       // honours an inbound X-Request-ID
	RealIP          = chimw.RealIP          // trusts X-Forwarded-For and X-Real-IP
	NoCache         = chimw.NoCache
	RedirectSlashes = chimw.RedirectSlashes // /foo/ becomes a 301 to /foo
)

// Timeout cancels the request context after d
func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

// Heartbeat answers GET path with 200 before routing
func Heartbeat(path string) func(http.Handler) http.Handler { return chimw.Heartbeat(path) }

// Compress gzips or deflates responses at level
func Compress(level int) func(http.Handler) http.Handler {
	return chimw.NewCompressor(level).Handler
}

// CORSOptions is the subset of go-chi/cors the chat widget needs; empty fields take widget defaults
type CORSOptions struct {
	AllowedOrigins   []string // empty allows every origin
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// CORS answers preflights for the storefront and admin widgets
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   o.AllowedOrigins,
		AllowedMethods:   pstrings.IfEmpty(o.AllowedMethods, []string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		AllowedHeaders:   pstrings.IfEmpty(o.AllowedHeaders, []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"}),
		ExposedHeaders:   pstrings.IfEmpty(o.ExposedHeaders, []string{"X-Request-ID"}),
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}
