// Package service contains the assistant dispatcher
package service

import (
	"context"
	"errors"
	"strings"

	"assistify/internal/core/ability"
	"assistify/internal/core/classifier"
	"assistify/internal/core/confirm"
	"assistify/internal/core/intent"
	perr "assistify/internal/platform/errors"
	"assistify/internal/platform/logger"
	pnet "assistify/internal/platform/net"
	"assistify/internal/services/assistant/domain"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// DefaultAdminRole is the role that may use the admin context
const DefaultAdminRole = "admin"

const maxSuggestions = 3

const (
	helpAdmin    = "I didn't catch that. Try asking about orders, products, customers, coupons, reports or store settings."
	helpCustomer = "I didn't catch that. Try asking about your orders, a product, shipping or returns."
)

// Options control service behavior
type Options struct {
	// Table is required
	Table *intent.Table

	// Registry is required
	Registry ability.Registry

	// Workflow is required
	Workflow *confirm.Workflow

	// Audit is optional; without it Audit reports unavailable
	Audit domain.AuditReader

	// Metrics is optional
	Metrics *Metrics

	// AdminRole defaults to DefaultAdminRole
	AdminRole string

	// AllowAnonAdmin lets unauthenticated callers use the admin context, for local development only
	AllowAnonAdmin bool
}

// Svc implements the service port
type Svc struct {
	table    *intent.Table
	scoped   map[intent.Scope]*classifier.Classifier
	registry ability.Registry
	flow     *confirm.Workflow
	audit    domain.AuditReader
	metrics  *Metrics
	log      logger.Logger

	adminRole      string
	allowAnonAdmin bool
}

// New constructs the service
func New(opt Options) *Svc {
	if opt.Table == nil {
		panic("assistant.Service requires a non nil intent table")
	}
	if opt.Registry == nil {
		panic("assistant.Service requires a non nil ability registry")
	}
	if opt.Workflow == nil {
		panic("assistant.Service requires a non nil confirmation workflow")
	}
	role := opt.AdminRole
	if role == "" {
		role = DefaultAdminRole
	}
	log := logger.Named("assistant")
	for _, p := range opt.Table.Patterns() {
		if p.IsAction && opt.Workflow.Policy().Level(p.AbilityID) == confirm.LevelNone {
			log.Warn().Str("pattern", p.Name).Str("ability", p.AbilityID).Msg("action has no confirmation policy, single confirmation will be required")
		}
	}
	return &Svc{
		table: opt.Table,
		scoped: map[intent.Scope]*classifier.Classifier{
			intent.ScopeAny:      classifier.New(opt.Table),
			intent.ScopeAdmin:    classifier.New(opt.Table, classifier.WithScope(intent.ScopeAdmin)),
			intent.ScopeCustomer: classifier.New(opt.Table, classifier.WithScope(intent.ScopeCustomer)),
		},
		registry:       opt.Registry,
		flow:           opt.Workflow,
		audit:          opt.Audit,
		metrics:        opt.Metrics,
		log:            *log,
		adminRole:      role,
		allowAnonAdmin: opt.AllowAnonAdmin,
	}
}

// Chat classifies a message and either runs a read ability or opens a pending confirmation
func (s *Svc) Chat(ctx context.Context, in domain.ChatInput) (domain.ChatOutput, error) {
	scope, err := s.callerScope(ctx, in.Context, false)
	if err != nil {
		return domain.ChatOutput{}, err
	}

	m, ok := s.pick(s.scoped[scope].Classify(in.Message))
	if !ok {
		s.metrics.classified(scope.String(), "unmatched")
		return domain.ChatOutput{
			Understood:  false,
			Message:     helpFor(scope),
			Suggestions: s.suggestions(scope),
		}, nil
	}
	s.metrics.classified(scope.String(), "matched")

	out := domain.ChatOutput{
		Understood: true,
		Intent:     m.Intent,
		AbilityID:  m.AbilityID,
		Params:     m.Params,
	}
	params := map[string]any(m.Params)
	if m.AbilityID == ability.HelpID {
		params = intent.Params{"scope": scope.String()}.Merge(m.Params)
	}

	if m.IsAction || s.flow.Policy().Level(m.AbilityID) != confirm.LevelNone {
		who := requester(ctx, in.SessionID)
		if who.UserID == "" && who.SessionID == "" {
			return domain.ChatOutput{}, perr.WithField(
				perr.InvalidArgf("session_id is required to request actions anonymously"), "session_id")
		}
		create := s.flow.Create
		if m.IsAction {
			create = s.flow.CreateAction
		}
		req, err := create(ctx, m.AbilityID, params, who)
		if err != nil {
			return domain.ChatOutput{}, err
		}
		if req.RequiresConfirmation {
			out.RequiresConfirmation = true
			out.Confirmation = &req
			out.Message = req.Preview
			s.log.Info().
				Str("ability", m.AbilityID).
				Str("level", req.Level.String()).
				Msg("confirmation requested")
			return out, nil
		}
	}

	res, err := s.registry.Execute(ctx, m.AbilityID, params)
	s.metrics.executed(m.AbilityID, err)
	if err != nil {
		return domain.ChatOutput{}, &confirm.AbilityExecutionError{AbilityID: m.AbilityID, Err: err}
	}
	out.Result = res
	if meta, ok := s.registry.Describe(m.AbilityID); ok {
		out.Message = meta.Label
	}
	return out, nil
}

// Confirm redeems a pending action for the caller
func (s *Svc) Confirm(ctx context.Context, in domain.ConfirmInput) (domain.ConfirmOutput, error) {
	res, err := s.flow.Redeem(ctx, in.Token, in.ConfirmationCode, requester(ctx, in.SessionID))
	if err != nil {
		if aerr, ok := abilityErr(err); ok {
			s.metrics.executed(aerr.AbilityID, err)
		}
		return domain.ConfirmOutput{}, err
	}
	s.metrics.executed(res.AbilityID, nil)
	return res, nil
}

// Cancel drops a pending action; unknown tokens are not an error
func (s *Svc) Cancel(ctx context.Context, in domain.CancelInput) (domain.CancelOutput, error) {
	return domain.CancelOutput{Success: s.flow.Cancel(ctx, in.Token, requester(ctx, in.SessionID))}, nil
}

// Classify explains how a message would be routed without running anything
func (s *Svc) Classify(ctx context.Context, in domain.ClassifyInput) (domain.ClassifyOutput, error) {
	scope, err := s.callerScope(ctx, in.Context, true)
	if err != nil {
		return domain.ClassifyOutput{}, err
	}
	ex := s.scoped[scope].Explain(in.Message)
	policy := s.flow.Policy()

	items := make([]domain.ClassifiedItem, 0, len(ex.Matches))
	for _, m := range ex.Matches {
		_, registered := s.registry.Describe(m.AbilityID)
		items = append(items, domain.ClassifiedItem{
			Match:        m,
			Confirmation: policy.Level(m.AbilityID),
			Registered:   registered,
		})
	}
	return domain.ClassifyOutput{
		Message: ex.Message,
		Folded:  ex.Folded,
		Scope:   scope,
		Matches: items,
	}, nil
}

// Intents lists the catalogue entries a caller in the given scope can trigger
func (s *Svc) Intents(ctx context.Context, in domain.IntentsQuery) ([]domain.IntentInfo, error) {
	scope, err := s.callerScope(ctx, in.Scope, true)
	if err != nil {
		return nil, err
	}
	policy := s.flow.Policy()
	patterns := s.scoped[scope].Table().Patterns()

	out := make([]domain.IntentInfo, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, domain.IntentInfo{
			Name:         p.Name,
			AbilityID:    p.AbilityID,
			Scope:        p.Scope,
			Priority:     p.Priority,
			IsAction:     p.IsAction,
			Confirmation: policy.Level(p.AbilityID),
			Description:  p.Description,
			Examples:     p.Examples,
		})
	}
	return out, nil
}

// Audit lists recorded actions; admin only
func (s *Svc) Audit(ctx context.Context, in domain.AuditQuery) ([]domain.AuditRow, error) {
	if !s.isAdmin(ctx) {
		return nil, perr.Forbiddenf("audit log requires the %s role", s.adminRole)
	}
	if s.audit == nil {
		return nil, perr.Unavailablef("audit store not configured")
	}
	if in.Limit <= 0 {
		in.Limit = 50
	}
	return s.audit.Recent(ctx, in)
}

// pick returns the best match whose ability the registry knows
func (s *Svc) pick(ms []classifier.Match) (classifier.Match, bool) {
	for _, m := range ms {
		if _, ok := s.registry.Describe(m.AbilityID); ok {
			return m, true
		}
		s.log.Debug().Str("ability", m.AbilityID).Msg("skipping match with unregistered ability")
	}
	return classifier.Match{}, false
}

// callerScope resolves the requested context against the caller role
// an empty context picks admin for admins and customer otherwise
func (s *Svc) callerScope(ctx context.Context, requested string, allowAny bool) (intent.Scope, error) {
	admin := s.isAdmin(ctx)
	if strings.TrimSpace(requested) == "" {
		if admin {
			return intent.ScopeAdmin, nil
		}
		return intent.ScopeCustomer, nil
	}
	scope, err := intent.ParseScope(requested)
	if err != nil {
		return 0, perr.WithField(perr.InvalidArgf("%v", err), "context")
	}
	switch scope {
	case intent.ScopeCustomer:
		return scope, nil
	case intent.ScopeAny:
		if !allowAny {
			return 0, perr.WithField(perr.InvalidArgf("context must be admin or customer"), "context")
		}
	}
	if !admin {
		return 0, perr.Forbiddenf("the %s context requires the %s role", scope, s.adminRole)
	}
	return scope, nil
}

func (s *Svc) isAdmin(ctx context.Context) bool {
	if pnet.Role(ctx) == s.adminRole {
		return true
	}
	return s.allowAnonAdmin && pnet.UserID(ctx) == ""
}

// suggestions returns sample utterances from the caller's own scope
func (s *Svc) suggestions(scope intent.Scope) []string {
	var out []string
	for _, p := range s.scoped[scope].Table().Patterns() {
		if len(p.Examples) == 0 || p.IsAction {
			continue
		}
		if _, ok := s.registry.Describe(p.AbilityID); !ok {
			continue
		}
		out = append(out, p.Examples[0])
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func helpFor(scope intent.Scope) string {
	if scope == intent.ScopeAdmin {
		return helpAdmin
	}
	return helpCustomer
}

func requester(ctx context.Context, sessionID string) confirm.Requester {
	return confirm.Requester{
		UserID:    pnet.UserID(ctx),
		SessionID: strings.TrimSpace(sessionID),
	}
}

func abilityErr(err error) (*confirm.AbilityExecutionError, bool) {
	var aerr *confirm.AbilityExecutionError
	if errors.As(err, &aerr) {
		return aerr, true
	}
	return nil, false
}
