package httpapi

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/agendaccp/agenda-ccp/pkg/core/rules"
)

// Metrics holds the API's Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	Decisions       *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agenda_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route, method and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agenda_assignment_decisions_total",
			Help: "Self-service assignment decisions by operation and outcome kind",
		}, []string{"operation", "kind"}),
	}
}

// ObserveRequest records one served request
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// RecordDecision counts the outcome of an assignment operation; a nil error counts as "ok"
func (m *Metrics) RecordDecision(operation string, err error) {
	if m == nil {
		return
	}
	kind := rules.KindOf(err)
	if kind == rules.KindNone {
		kind = "ok"
	}
	m.Decisions.WithLabelValues(operation, string(kind)).Inc()
}
