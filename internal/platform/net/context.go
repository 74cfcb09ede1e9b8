// Package net carries per request identity on the context
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type identityKey struct{}

// Identity is the authenticated caller; the zero value is an anonymous customer
type Identity struct {
	UserID string
	Role   string
}

// WithRequestID stores id where chi's RequestID middleware keeps it
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, id)
}

// WithIdentity stores the caller identity
func WithIdentity(ctx context.Context, userID, role string) context.Context {
	if userID == "" && role == "" {
		return ctx
	}
	return context.WithValue(ctx, identityKey{}, Identity{UserID: userID, Role: role})
}

// RequestID returns the request id or ""
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// IdentityOf returns the caller identity, zero when anonymous
func IdentityOf(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}

// UserID returns the authenticated user id or ""
func UserID(ctx context.Context) string { return IdentityOf(ctx).UserID }

// Role returns the caller role or ""
func Role(ctx context.Context) string { return IdentityOf(ctx).Role }
