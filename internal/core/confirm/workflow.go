package confirm

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"assistify/internal/core/ability"
	"assistify/internal/core/audit"
	perr "assistify/internal/platform/errors"
	"assistify/internal/platform/logger"
)

// DefaultTTL is how long a pending action stays redeemable
const DefaultTTL = 300 * time.Second

const maxTokenAttempts = 4

// Request is what Create returns to the caller
type Request struct {
	RequiresConfirmation bool      `json:"requires_confirmation"`
	Token                string    `json:"confirmation_token,omitempty"`
	AbilityID            string    `json:"ability_id"`
	Preview              string    `json:"preview,omitempty"`
	Destructive          bool      `json:"is_destructive"`
	Level                Level     `json:"confirmation_level"`
	Code                 string    `json:"confirmation_code,omitempty"`
	ExpiresIn            int       `json:"expires_in,omitempty"`
	ExpiresAt            time.Time `json:"expires_at,omitzero"`
}

// Result is the outcome of a successful Redeem
type Result struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	AbilityID string `json:"ability_id"`
	Result    any    `json:"result"`
}

// Observer is notified of lifecycle transitions, used for metrics
type Observer func(event string)

// Workflow creates and redeems pending actions
type Workflow struct {
	store    Store
	registry ability.Registry
	policy   Policy
	sink     audit.Sink
	ttl      time.Duration
	now      func() time.Time
	newToken func() string
	observe  Observer
	log      logger.Logger
}

// Option configures a Workflow
type Option func(*Workflow)

// WithPolicy replaces DefaultPolicy
func WithPolicy(p Policy) Option { return func(w *Workflow) { w.policy = p } }

// WithAudit sets the audit sink; callers wanting fire-and-forget pass an *audit.Async
func WithAudit(s audit.Sink) Option {
	return func(w *Workflow) {
		if s != nil {
			w.sink = s
		}
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) {
		if now != nil {
			w.now = now
		}
	}
}

// WithTTL overrides DefaultTTL
func WithTTL(d time.Duration) Option {
	return func(w *Workflow) {
		if d > 0 {
			w.ttl = d
		}
	}
}

// WithTokenSource overrides uuid generation
func WithTokenSource(fn func() string) Option {
	return func(w *Workflow) {
		if fn != nil {
			w.newToken = fn
		}
	}
}

// WithObserver registers a lifecycle observer
func WithObserver(o Observer) Option { return func(w *Workflow) { w.observe = o } }

// NewWorkflow constructs a Workflow
func NewWorkflow(store Store, registry ability.Registry, opts ...Option) *Workflow {
	w := &Workflow{
		store:    store,
		registry: registry,
		policy:   DefaultPolicy(),
		sink:     audit.Discard,
		ttl:      DefaultTTL,
		now:      time.Now,
		newToken: func() string { return uuid.NewString() },
		observe:  func(string) {},
		log:      *logger.Named("confirm"),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Policy returns the active policy
func (w *Workflow) Policy() Policy { return w.policy }

// Create stores a pending action for abilities that need confirmation; others return RequiresConfirmation false
func (w *Workflow) Create(ctx context.Context, abilityID string, params map[string]any, who Requester) (Request, error) {
	return w.create(ctx, abilityID, params, who, LevelNone)
}

// CreateAction is Create for a match flagged as an action: it always stores a pending action,
// raising abilities missing from the policy to single confirmation
func (w *Workflow) CreateAction(ctx context.Context, abilityID string, params map[string]any, who Requester) (Request, error) {
	return w.create(ctx, abilityID, params, who, LevelSingle)
}

func (w *Workflow) create(ctx context.Context, abilityID string, params map[string]any, who Requester, floor Level) (Request, error) {
	level := w.policy.Level(abilityID)
	if level < floor {
		w.log.Warn().Str("ability", abilityID).Str("level", floor.String()).Msg("action missing from confirmation policy, raising level")
		level = floor
	}
	if level == LevelNone {
		return Request{RequiresConfirmation: false, AbilityID: abilityID, Level: LevelNone}, nil
	}

	meta, ok := w.registry.Describe(abilityID)
	if !ok {
		meta = ability.Meta{ID: abilityID, Label: abilityID}
	}
	if params == nil {
		params = map[string]any{}
	}

	now := w.now()
	p := Pending{
		AbilityID: abilityID,
		Params:    params,
		Level:     level,
		Preview:   Preview(meta, params),
		UserID:    who.UserID,
		SessionID: who.SessionID,
		CreatedAt: now,
		ExpiresAt: now.Add(w.ttl),
	}
	if level == LevelDouble {
		p.Code = w.policy.Code(abilityID)
	}

	var stored bool
	for range maxTokenAttempts {
		p.Token = w.newToken()
		var err error
		stored, err = w.store.Put(ctx, p, w.ttl)
		if err != nil {
			return Request{}, perr.WithOp(err, "confirm.create")
		}
		if stored {
			break
		}
		w.log.Warn().Str("ability", abilityID).Msg("confirmation token collision, regenerating")
	}
	if !stored {
		return Request{}, perr.Conflictf("could not allocate a confirmation token")
	}

	w.observe("created")
	w.record(ctx, audit.KindRequested, p, "")

	return Request{
		RequiresConfirmation: true,
		Token:                p.Token,
		AbilityID:            abilityID,
		Preview:              p.Preview,
		Destructive:          level == LevelDouble,
		Level:                level,
		Code:                 p.Code,
		ExpiresIn:            int(w.ttl / time.Second),
		ExpiresAt:            p.ExpiresAt,
	}, nil
}

// Redeem executes a pending action at most once
func (w *Workflow) Redeem(ctx context.Context, token, code string, who Requester) (Result, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Result{}, w.expired(ctx, Pending{}, who)
	}

	p, ok, err := w.store.Get(ctx, token)
	if err != nil {
		return Result{}, perr.WithOp(err, "confirm.redeem")
	}
	if !ok {
		return Result{}, w.expired(ctx, Pending{Token: token}, who)
	}
	if !w.now().Before(p.ExpiresAt) {
		if _, err := w.store.Delete(ctx, token); err != nil {
			w.log.Debug().Err(err).Msg("stale confirmation cleanup failed")
		}
		return Result{}, w.expired(ctx, p, who)
	}

	if !p.OwnedBy(who) {
		w.observe("wrong_user")
		w.record(ctx, audit.KindRejected, withRequester(p, who), ErrWrongUser.Error())
		return Result{}, ErrWrongUser
	}

	if p.Level == LevelDouble && !strings.EqualFold(strings.TrimSpace(code), p.Code) {
		w.observe("invalid_code")
		w.record(ctx, audit.KindBadCode, withRequester(p, who), ErrInvalidConfirmationCode.Error())
		return Result{}, ErrInvalidConfirmationCode
	}

	taken, ok, err := w.store.Take(ctx, token)
	if err != nil {
		return Result{}, perr.WithOp(err, "confirm.redeem")
	}
	if !ok {
		return Result{}, w.expired(ctx, p, who)
	}
	p = taken
	if !w.now().Before(p.ExpiresAt) {
		return Result{}, w.expired(ctx, p, who)
	}

	out, err := w.registry.Execute(ctx, p.AbilityID, p.Params)
	if err != nil {
		w.observe("failed")
		w.record(ctx, audit.KindFailed, p, err.Error())
		return Result{}, &AbilityExecutionError{AbilityID: p.AbilityID, Err: err}
	}

	w.observe("executed")
	w.record(ctx, audit.KindExecuted, p, "")
	return Result{Success: true, Message: p.Preview, AbilityID: p.AbilityID, Result: out}, nil
}

// Cancel removes a pending action; cancelling an unknown or consumed token is not an error
func (w *Workflow) Cancel(ctx context.Context, token string, who Requester) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}
	p, found, err := w.store.Take(ctx, token)
	if err != nil {
		w.log.Debug().Err(err).Msg("cancel lookup failed")
		return false
	}
	if !found {
		return false
	}
	w.observe("cancelled")
	w.record(ctx, audit.KindCancelled, withRequester(p, who), "")
	return true
}

// expired records a redemption of an absent, consumed or stale token and returns ErrConfirmationExpired
func (w *Workflow) expired(ctx context.Context, p Pending, who Requester) error {
	w.observe("expired")
	w.record(ctx, audit.KindExpired, withRequester(p, who), ErrConfirmationExpired.Error())
	return ErrConfirmationExpired
}

func withRequester(p Pending, who Requester) Pending {
	if who.UserID != "" {
		p.UserID = who.UserID
	}
	if who.SessionID != "" {
		p.SessionID = who.SessionID
	}
	return p
}

func (w *Workflow) record(ctx context.Context, kind audit.Kind, p Pending, errMsg string) {
	e := audit.Event{
		At:        w.now(),
		Kind:      kind,
		Token:     p.Token,
		AbilityID: p.AbilityID,
		Level:     p.Level.String(),
		UserID:    p.UserID,
		SessionID: p.SessionID,
		Params:    p.Params,
		Error:     errMsg,
	}
	if err := w.sink.Record(ctx, e); err != nil {
		w.log.Debug().Err(err).Str("kind", string(kind)).Msg("audit record failed")
	}
}
