package domain

import "context"

// ServicePort is the interface implemented by the assistant service
type ServicePort interface {
	Chat(ctx context.Context, in ChatInput) (ChatOutput, error)
	Confirm(ctx context.Context, in ConfirmInput) (ConfirmOutput, error)
	Cancel(ctx context.Context, in CancelInput) (CancelOutput, error)
	Classify(ctx context.Context, in ClassifyInput) (ClassifyOutput, error)
	Intents(ctx context.Context, in IntentsQuery) ([]IntentInfo, error)
	Audit(ctx context.Context, in AuditQuery) ([]AuditRow, error)
}

// AuditReader lists stored audit events, backed by postgres when enabled
type AuditReader interface {
	Recent(ctx context.Context, q AuditQuery) ([]AuditRow, error)
}
