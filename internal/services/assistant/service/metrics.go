package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"assistify/internal/platform/metrics"
)

// Metrics counts classifications, confirmation transitions and ability runs
// a nil *Metrics records nothing
type Metrics struct {
	classifications *prometheus.CounterVec
	confirmations   *prometheus.CounterVec
	executions      *prometheus.CounterVec
	audit           *prometheus.CounterVec
}

// NewMetrics registers the assistant collectors on reg, reusing any already present
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		classifications: metrics.Register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "classifications_total",
			Help:      "Chat messages classified, by caller scope and outcome.",
		}, []string{"scope", "outcome"})),
		confirmations: metrics.Register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "confirmations_total",
			Help:      "Pending action lifecycle transitions.",
		}, []string{"event"})),
		executions: metrics.Register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "ability_executions_total",
			Help:      "Ability executions, by ability id and status.",
		}, []string{"ability", "status"})),
		audit: metrics.Register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "audit_lost_total",
			Help:      "Audit events that were dropped by the async queue or rejected by a sink.",
		}, []string{"reason"})),
	}
}

// AuditDropped counts an event the async queue dropped
func (m *Metrics) AuditDropped() { m.auditLost("dropped") }

// AuditFailed counts an event a sink rejected
func (m *Metrics) AuditFailed() { m.auditLost("failed") }

func (m *Metrics) auditLost(reason string) {
	if m == nil {
		return
	}
	m.audit.WithLabelValues(reason).Inc()
}

// ObserveConfirmation matches confirm.Observer
func (m *Metrics) ObserveConfirmation(event string) {
	if m == nil {
		return
	}
	m.confirmations.WithLabelValues(event).Inc()
}

func (m *Metrics) classified(scope, outcome string) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(scope, outcome).Inc()
}

func (m *Metrics) executed(abilityID string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.executions.WithLabelValues(abilityID, status).Inc()
}
