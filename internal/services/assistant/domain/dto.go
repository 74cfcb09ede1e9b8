// Package domain holds DTOs for assistant http and service contracts
package domain

import (
	"time"

	"assistify/internal/core/classifier"
	"assistify/internal/core/confirm"
	"assistify/internal/core/intent"
)

// ChatInput is one user message sent to the assistant
type ChatInput struct {
	Message   string `json:"message"    validate:"required,min=1,max=2000" example:"refund order #1042"`
	SessionID string `json:"session_id" validate:"omitempty,max=128,session_id" example:"sess-5f2c"`
	Context   string `json:"context"    validate:"omitempty,oneof=admin customer" example:"admin"`
}

// Confirmation is a pending action handed back by Chat
type Confirmation = confirm.Request

// ChatOutput is the assistant reply; exactly one of Confirmation or Result is set when Understood.
// Confirmation fields are inlined so the reply carries requires_confirmation, confirmation_token,
// preview, is_destructive and expires_in at the top level.
type ChatOutput struct {
	Understood           bool          `json:"understood" example:"true"`
	RequiresConfirmation bool          `json:"requires_confirmation" example:"true"`
	Intent               string        `json:"intent,omitempty" example:"refund_order"`
	AbilityID            string        `json:"ability_id,omitempty" example:"afw/orders/refund"`
	Params               intent.Params `json:"params,omitempty" swaggertype:"object"`
	*Confirmation
	Result      any      `json:"result,omitempty" swaggertype:"object"`
	Message     string   `json:"message,omitempty" example:"Refund full amount from Order #1042"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// ConfirmInput redeems a pending action
type ConfirmInput struct {
	Token            string `json:"confirmation_token" validate:"required,max=64" example:"0b6f3a0c-3d4e-4b7a-9f1e-2c8d5e6f7a81"`
	ConfirmationCode string `json:"confirmation_code"  validate:"omitempty,max=32" example:"REFUND"`
	SessionID        string `json:"session_id"         validate:"omitempty,max=128,session_id" example:"sess-5f2c"`
}

// ConfirmOutput reports an executed action
type ConfirmOutput = confirm.Result

// CancelInput drops a pending action
type CancelInput struct {
	Token     string `json:"confirmation_token" validate:"required,max=64" example:"0b6f3a0c-3d4e-4b7a-9f1e-2c8d5e6f7a81"`
	SessionID string `json:"session_id"         validate:"omitempty,max=128,session_id" example:"sess-5f2c"`
}

// CancelOutput says whether anything was removed
type CancelOutput struct {
	Success bool `json:"success" example:"true"`
}

// ClassifyInput asks for a ranked explanation without executing anything
type ClassifyInput struct {
	Message string `json:"message" validate:"required,min=1,max=2000" example:"show low stock products"`
	Context string `json:"context" validate:"omitempty,oneof=admin customer any" example:"admin"`
}

// ClassifyOutput is the explanation plus the confirmation level of each candidate
type ClassifyOutput struct {
	Message string           `json:"message"`
	Folded  string           `json:"folded"`
	Scope   intent.Scope     `json:"scope" swaggertype:"string" example:"admin"`
	Matches []ClassifiedItem `json:"matches"`
}

// ClassifiedItem is a classifier match annotated with its confirmation requirement
type ClassifiedItem struct {
	classifier.Match
	Confirmation confirm.Level `json:"confirmation_level" swaggertype:"string" example:"double"`
	Registered   bool          `json:"registered"`
}

// IntentsQuery filters the intent listing
type IntentsQuery struct {
	Scope string `json:"scope" validate:"omitempty,oneof=admin customer any" example:"customer"`
}

// IntentInfo describes one catalogue entry
type IntentInfo struct {
	Name         string        `json:"name" example:"order_status"`
	AbilityID    string        `json:"ability_id" example:"afw/customer/order-status"`
	Scope        intent.Scope  `json:"scope" swaggertype:"string" example:"customer"`
	Priority     int           `json:"priority" example:"8"`
	IsAction     bool          `json:"is_action"`
	Confirmation confirm.Level `json:"confirmation_level" swaggertype:"string" example:"none"`
	Description  string        `json:"description,omitempty"`
	Examples     []string      `json:"examples,omitempty"`
}

// AuditQuery pages through recorded assistant actions
type AuditQuery struct {
	AbilityID string    `json:"ability_id" validate:"omitempty,max=128" example:"afw/orders/refund"`
	UserID    string    `json:"user_id"    validate:"omitempty,max=128" example:"u-17"`
	Since     time.Time `json:"since" example:"2026-10-01T00:00:00Z"`
	Limit     int       `json:"limit"      validate:"omitempty,min=1,max=500" example:"50"`
}

// AuditRow is one stored audit event
type AuditRow struct {
	At        time.Time      `json:"at"         db:"at"`
	Kind      string         `json:"kind"       db:"kind"`
	Token     string         `json:"token"      db:"token"`
	AbilityID string         `json:"ability_id" db:"ability_id"`
	Level     string         `json:"level"      db:"level"`
	UserID    string         `json:"user_id"    db:"user_id"`
	SessionID string         `json:"session_id" db:"session_id"`
	Params    map[string]any `json:"params"     db:"params" swaggertype:"object"`
	Error     string         `json:"error"      db:"error"`
}
