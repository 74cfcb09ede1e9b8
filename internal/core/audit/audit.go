// Package audit records the lifecycle of confirmed actions
package audit

import (
	"context"
	"errors"
	"time"

	"assistify/internal/platform/logger"
)

// Kind is the lifecycle step an event describes
type Kind string

// Lifecycle kinds
const (
	KindRequested Kind = "requested"
	KindExecuted  Kind = "executed"
	KindFailed    Kind = "failed"
	KindCancelled Kind = "cancelled"
	KindRejected  Kind = "rejected"
	KindExpired   Kind = "expired"
	KindBadCode   Kind = "invalid_code"
)

// Event is one audit record
type Event struct {
	At        time.Time      `json:"at"`
	Kind      Kind           `json:"kind"`
	Token     string         `json:"token"`
	AbilityID string         `json:"ability_id"`
	Level     string         `json:"level"`
	UserID    string         `json:"user_id,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Sink persists events
type Sink interface {
	Record(ctx context.Context, e Event) error
}

// SinkFunc adapts a func to Sink
type SinkFunc func(ctx context.Context, e Event) error

// Record implements Sink
func (f SinkFunc) Record(ctx context.Context, e Event) error { return f(ctx, e) }

// Discard drops every event
var Discard Sink = SinkFunc(func(context.Context, Event) error { return nil })

// LogSink writes events as structured log lines
type LogSink struct {
	log logger.Logger
}

// NewLogSink returns a LogSink on the named "audit" logger
func NewLogSink() *LogSink { return &LogSink{log: *logger.Named("audit")} }

// NewLogSinkWith uses l instead of the root logger
func NewLogSinkWith(l logger.Logger) *LogSink { return &LogSink{log: l} }

// Record implements Sink
func (s *LogSink) Record(_ context.Context, e Event) error {
	ev := s.log.Info()
	if e.Kind == KindFailed || e.Kind == KindRejected {
		ev = s.log.Warn()
	}
	ev = ev.Time("at", e.At).
		Str("kind", string(e.Kind)).
		Str("token", e.Token).
		Str("ability", e.AbilityID).
		Str("level", e.Level)
	if e.UserID != "" {
		ev = ev.Str("user_id", e.UserID)
	}
	if e.SessionID != "" {
		ev = ev.Str("session_id", e.SessionID)
	}
	if len(e.Params) > 0 {
		ev = ev.Interface("params", e.Params)
	}
	if e.Error != "" {
		ev = ev.Str("error", e.Error)
	}
	ev.Msg("assistant action")
	return nil
}

// Multi fans out to every sink and joins their errors
type Multi []Sink

// Record implements Sink
func (m Multi) Record(ctx context.Context, e Event) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Record(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
