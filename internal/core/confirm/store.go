package confirm

import (
	"context"
	"encoding/json"
	"time"

	"assistify/internal/platform/cache"
	perr "assistify/internal/platform/errors"
)

// Requester identifies who asked for or redeems a confirmation
type Requester struct {
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// Pending is a stored action awaiting confirmation
type Pending struct {
	Token     string         `json:"token"`
	AbilityID string         `json:"ability_id"`
	Params    map[string]any `json:"params"`
	Level     Level          `json:"level"`
	Code      string         `json:"code,omitempty"`
	Preview   string         `json:"preview"`
	UserID    string         `json:"user_id,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// Requester returns who created p
func (p Pending) Requester() Requester {
	return Requester{UserID: p.UserID, SessionID: p.SessionID}
}

// OwnedBy reports whether r may redeem p: user ids when p has one, session ids otherwise
func (p Pending) OwnedBy(r Requester) bool {
	if p.UserID != "" {
		return p.UserID == r.UserID
	}
	return p.SessionID != "" && p.SessionID == r.SessionID
}

// Store keeps pending actions; Take must hand a record to at most one caller
type Store interface {
	Put(ctx context.Context, p Pending, ttl time.Duration) (bool, error)
	Get(ctx context.Context, token string) (Pending, bool, error)
	Take(ctx context.Context, token string) (Pending, bool, error)
	Delete(ctx context.Context, token string) (bool, error)
}

// CacheStore is a Store on any cache.Cache, encoding records as JSON with EncodeParams number rules
type CacheStore struct {
	c      cache.Cache
	prefix string
}

var _ Store = (*CacheStore)(nil)

// NewCacheStore wraps c; keys are prefixed with "pending:"
func NewCacheStore(c cache.Cache) *CacheStore {
	return &CacheStore{c: c, prefix: "pending:"}
}

// Put implements Store
func (s *CacheStore) Put(ctx context.Context, p Pending, ttl time.Duration) (bool, error) {
	p.Params, _ = marked(p.Params).(map[string]any)
	b, err := json.Marshal(p)
	if err != nil {
		return false, perr.Wrapf(err, perr.ErrorCodeJSON, "encode pending action")
	}
	return s.c.Put(ctx, s.prefix+p.Token, b, ttl)
}

// Get implements Store
func (s *CacheStore) Get(ctx context.Context, token string) (Pending, bool, error) {
	b, ok, err := s.c.Get(ctx, s.prefix+token)
	return decode(b, ok, err)
}

// Take implements Store
func (s *CacheStore) Take(ctx context.Context, token string) (Pending, bool, error) {
	b, ok, err := s.c.Take(ctx, s.prefix+token)
	return decode(b, ok, err)
}

// Delete implements Store
func (s *CacheStore) Delete(ctx context.Context, token string) (bool, error) {
	return s.c.Delete(ctx, s.prefix+token)
}

func decode(b []byte, ok bool, err error) (Pending, bool, error) {
	if err != nil || !ok {
		return Pending{}, false, err
	}
	var p Pending
	if err := unmarshalNumbers(b, &p); err != nil {
		return Pending{}, false, perr.Wrapf(err, perr.ErrorCodeJSON, "decode pending action")
	}
	p.Params, _ = typed(p.Params).(map[string]any)
	return p, true, nil
}
