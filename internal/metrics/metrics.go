// Package metrics exposes Prometheus instruments for the contact flow on a
// dedicated registry.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "smdata"

// Submission outcomes recorded by ObserveSubmission.
const (
	OutcomeCreated       = "created"
	OutcomeInvalid       = "invalid"
	OutcomePersistFailed = "persist_failed"
)

// Notification results recorded by ObserveNotification.
const (
	ResultSent   = "sent"
	ResultFailed = "failed"
	ResultError  = "error"
)

// PendingCounter reports how many submissions still await notification.
type PendingCounter interface {
	CountPending(ctx context.Context) (int, error)
}

// Metrics holds the registry and instruments. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	submissions    *prometheus.CounterVec
	notifications  *prometheus.CounterVec
	notifyDuration *prometheus.HistogramVec
}

// New builds a registry with the contact-flow instruments plus the Go and
// process collectors. When pending is non-nil a gauge reports its count on
// every scrape.
func New(pending PendingCounter) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contact_submissions_total",
			Help:      "Contact form submissions by outcome.",
		}, []string{"outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification attempts by backend and result.",
		}, []string{"backend", "result"}),
		notifyDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "notify_duration_seconds",
			Help:      "Duration of notification attempts.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30},
		}, []string{"backend"}),
	}
	reg.MustRegister(m.submissions, m.notifications, m.notifyDuration)

	if pending != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "submissions_pending",
			Help:      "Stored submissions whose notification never succeeded.",
		}, func() float64 {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			n, err := pending.CountPending(ctx)
			if err != nil {
				return -1
			}
			return float64(n)
		}))
	}

	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveSubmission counts one submission attempt.
func (m *Metrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

// ObserveNotification counts one notification attempt and records its duration.
func (m *Metrics) ObserveNotification(backend, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(backend, result).Inc()
	m.notifyDuration.WithLabelValues(backend).Observe(d.Seconds())
}
