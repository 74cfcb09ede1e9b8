// Package http provides http transport for the assistant
package http

import (
	"errors"
	stdhttp "net/http"
	"strconv"
	"time"

	"assistify/internal/core/confirm"
	"assistify/internal/modkit/httpkit"
	perr "assistify/internal/platform/errors"
	"assistify/internal/services/assistant/domain"
	svc "assistify/internal/services/assistant/service"
)

// Register mounts the router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.ChatInput](r, "/chat", h.chat)
	httpkit.PostJSON[domain.ConfirmInput](r, "/confirm", h.confirm)
	httpkit.PostJSON[domain.CancelInput](r, "/cancel", h.cancel)
	httpkit.PostJSON[domain.ClassifyInput](r, "/classify", h.classify)
	httpkit.Get(r, "/intents", h.intents)
	httpkit.Get(r, "/audit", h.audit)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /assistant/chat Assistant chat
// @Summary Send a message to the assistant
// @Description Classifies the message, runs read abilities directly and opens a confirmation for actions
// @Tags assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body domain.ChatInput true "Message"
// @Success 200 {object} domain.ChatOutput "ok"
// @Failure 403 {object} httpkit.Envelope "admin context without admin role"
// @Failure 422 {object} httpkit.Envelope "invalid input"
// @Failure 502 {object} httpkit.Envelope "ability failed"
// @Router /assistant/chat [post]
func (h *handlers) chat(r *stdhttp.Request, in domain.ChatInput) (any, error) {
	out, err := h.svc.Chat(r.Context(), in)
	return out, upstream(err)
}

// swagger:route POST /assistant/confirm Assistant confirm
// @Summary Confirm a pending action
// @Tags assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body domain.ConfirmInput true "Confirmation"
// @Success 200 {object} confirm.Result "executed"
// @Failure 403 {object} httpkit.Envelope "token belongs to another user"
// @Failure 410 {object} httpkit.Envelope "expired or already used"
// @Failure 422 {object} httpkit.Envelope "wrong confirmation code"
// @Failure 502 {object} httpkit.Envelope "ability failed"
// @Router /assistant/confirm [post]
func (h *handlers) confirm(r *stdhttp.Request, in domain.ConfirmInput) (any, error) {
	out, err := h.svc.Confirm(r.Context(), in)
	return out, upstream(err)
}

// swagger:route POST /assistant/cancel Assistant cancel
// @Summary Cancel a pending action
// @Tags assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body domain.CancelInput true "Cancel"
// @Success 200 {object} domain.CancelOutput "ok"
// @Router /assistant/cancel [post]
func (h *handlers) cancel(r *stdhttp.Request, in domain.CancelInput) (any, error) {
	return h.svc.Cancel(r.Context(), in)
}

// swagger:route POST /assistant/classify Assistant classify
// @Summary Explain how a message would be routed
// @Tags assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body domain.ClassifyInput true "Message"
// @Success 200 {object} domain.ClassifyOutput "ok"
// @Router /assistant/classify [post]
func (h *handlers) classify(r *stdhttp.Request, in domain.ClassifyInput) (any, error) {
	return h.svc.Classify(r.Context(), in)
}

// swagger:route GET /assistant/intents Assistant intents
// @Summary List intents visible to a scope
// @Tags assistant
// @Produce json
// @Security BearerAuth
// @Param scope query string false "admin, customer or any"
// @Success 200 {array} domain.IntentInfo "ok"
// @Router /assistant/intents [get]
func (h *handlers) intents(r *stdhttp.Request) (any, error) {
	return h.svc.Intents(r.Context(), domain.IntentsQuery{Scope: r.URL.Query().Get("scope")})
}

// swagger:route GET /assistant/audit Assistant audit
// @Summary Recent assistant actions
// @Tags assistant
// @Produce json
// @Security BearerAuth
// @Param ability_id query string false "ability id"
// @Param user_id query string false "user id"
// @Param since query string false "RFC3339 start time"
// @Param limit query int false "max rows (1-500)"
// @Success 200 {array} domain.AuditRow "ok"
// @Failure 403 {object} httpkit.Envelope "admin only"
// @Failure 503 {object} httpkit.Envelope "audit store not configured"
// @Router /assistant/audit [get]
func (h *handlers) audit(r *stdhttp.Request) (any, error) {
	q, err := auditQuery(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Audit(r.Context(), q)
}

func auditQuery(r *stdhttp.Request) (domain.AuditQuery, error) {
	v := r.URL.Query()
	q := domain.AuditQuery{
		AbilityID: v.Get("ability_id"),
		UserID:    v.Get("user_id"),
	}
	if s := v.Get("since"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return q, perr.WithField(perr.InvalidArgf("since must be RFC3339"), "since")
		}
		q.Since = t
	}
	if s := v.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 500 {
			return q, perr.WithField(perr.InvalidArgf("limit must be between 1 and 500"), "limit")
		}
		q.Limit = n
	}
	return q, nil
}

// upstream reports ability failures as 502 with the ability's own message
func upstream(err error) error {
	var aerr *confirm.AbilityExecutionError
	if errors.As(err, &aerr) {
		return perr.Wrap(aerr, perr.ErrorCodeUpstream, aerr.Error())
	}
	return err
}
