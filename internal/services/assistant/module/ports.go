package module

import (
	"context"

	"assistify/internal/services/assistant/domain"
	asvc "assistify/internal/services/assistant/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptAssistantPort exposes service methods as module ports for cross-module usage
type adaptAssistantPort struct{ svc asvc.Service }

var _ domain.ServicePort = adaptAssistantPort{}

func (a adaptAssistantPort) Chat(ctx context.Context, in domain.ChatInput) (domain.ChatOutput, error) {
	return a.svc.Chat(ctx, in)
}

func (a adaptAssistantPort) Confirm(ctx context.Context, in domain.ConfirmInput) (domain.ConfirmOutput, error) {
	return a.svc.Confirm(ctx, in)
}

func (a adaptAssistantPort) Cancel(ctx context.Context, in domain.CancelInput) (domain.CancelOutput, error) {
	return a.svc.Cancel(ctx, in)
}

func (a adaptAssistantPort) Classify(ctx context.Context, in domain.ClassifyInput) (domain.ClassifyOutput, error) {
	return a.svc.Classify(ctx, in)
}

func (a adaptAssistantPort) Intents(ctx context.Context, in domain.IntentsQuery) ([]domain.IntentInfo, error) {
	return a.svc.Intents(ctx, in)
}

func (a adaptAssistantPort) Audit(ctx context.Context, in domain.AuditQuery) ([]domain.AuditRow, error) {
	return a.svc.Audit(ctx, in)
}
