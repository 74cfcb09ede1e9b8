package middleware

import (
	"net/http"
	"strings"

	pnet "assistify/internal/platform/net"
	"assistify/internal/platform/logger"
)

// AuthPort resolves the caller of a request
type AuthPort interface {
	// Parse returns a user id and role from the request or an error
	Parse(r *http.Request) (userID string, role string, err error)
}

// Auth rejects requests the port cannot parse. A nil port passes everything through
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return auth(p, write, false)
}

// OptionalAuth lets requests without an Authorization header through anonymously
// a header that is present must still parse
func OptionalAuth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return auth(p, write, true)
}

func auth(p AuthPort, write func(w http.ResponseWriter, status int, body any), optional bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			if optional && strings.TrimSpace(r.Header.Get("Authorization")) == "" {
				next.ServeHTTP(w, r)
				return
			}
			uid, role, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithIdentity(r.Context(), uid, role)
			ctx = logger.WithRequest(ctx, pnet.RequestID(ctx), uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
