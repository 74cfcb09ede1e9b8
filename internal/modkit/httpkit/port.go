// Package httpkit provides tiny HTTP helpers and adapters
package httpkit

import (
	"crypto/subtle"
	"net/http"
	"strings"

	perrs "assistify/internal/platform/errors"
)

// TokenFunc parses a bearer token and returns userID and role
// an empty role means an ordinary customer
type TokenFunc func(token string) (userID string, role string, err error)

// Port implements middleware.AuthPort by reading Authorization and delegating to a TokenFunc
type Port struct {
	parse TokenFunc
}

// NewPortFunc builds a Port from a simple parser function
func NewPortFunc(fn TokenFunc) *Port {
	return &Port{parse: fn}
}

// Parse reads "Authorization: Bearer <token>" and hands the token to the parser
// every failure is reported as unauthorized without the parser's reason
func (p *Port) Parse(r *http.Request) (string, string, error) {
	f := strings.Fields(r.Header.Get("Authorization"))
	if len(f) != 2 || !strings.EqualFold(f[0], "bearer") {
		return "", "", perrs.Unauthorizedf("missing bearer token")
	}
	if p.parse == nil {
		return "", "", perrs.Unauthorizedf("invalid bearer token")
	}
	uid, role, err := p.parse(f[1])
	if err != nil {
		return "", "", perrs.Unauthorizedf("invalid bearer token")
	}
	return uid, role, nil
}

// StaticTokens builds a TokenFunc from "token:user_id[:role]" entries separated by commas
// intended for service accounts and local development
func StaticTokens(csv string) (TokenFunc, error) {
	type ident struct{ token, uid, role string }
	var ids []ident
	for _, raw := range strings.Split(csv, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts := strings.Split(raw, ":")
		if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
			return nil, perrs.InvalidArgf("token entry %q must be token:user_id[:role]", redact(parts[0]))
		}
		id := ident{token: parts[0], uid: parts[1]}
		if len(parts) == 3 {
			id.role = parts[2]
		}
		ids = append(ids, id)
	}
	return func(token string) (string, string, error) {
		for _, id := range ids {
			if subtle.ConstantTimeCompare([]byte(token), []byte(id.token)) == 1 {
				return id.uid, id.role, nil
			}
		}
		return "", "", perrs.Unauthorizedf("unknown token")
	}, nil
}

func redact(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
