// Package metrics provides Prometheus metrics for the console API client.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// API call metrics
var (
	// apiCallsTotal records the total number of backend calls.
	// Labels:
	//   - method: HTTP method (e.g., "GET", "POST")
	//   - route: Route template (e.g., "/api/db/config/{id}/verify")
	//   - outcome: "ok", "network", "timeout", "http_status", "unauthorized", "envelope"
	apiCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mtconsole_api_calls_total",
			Help: "Total number of backend API calls by outcome",
		},
		[]string{"method", "route", "outcome"},
	)

	// apiCallDuration records the latency of backend calls.
	// Buckets cover normal calls (30s timeout) and question answering (240s timeout).
	apiCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mtconsole_api_call_duration_seconds",
			Help:    "Duration of backend API calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 240},
		},
		[]string{"method", "route"},
	)

	// notificationsTotal records user-visible failure notifications.
	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mtconsole_notifications_total",
			Help: "Total number of failure notifications shown to the user",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(apiCallsTotal)
	prometheus.MustRegister(apiCallDuration)
	prometheus.MustRegister(notificationsTotal)
}

// Recorder is the hook the API client calls after every request.
// The zero value of Prometheus is ready to use.
type Recorder interface {
	ObserveCall(method, route, outcome string, durationSeconds float64)
	ObserveNotification(kind string)
}

// Prometheus records into the package-level collectors.
type Prometheus struct{}

// ObserveCall records one finished call.
func (Prometheus) ObserveCall(method, route, outcome string, durationSeconds float64) {
	RecordAPICall(method, route, outcome)
	RecordAPICallDuration(method, route, durationSeconds)
}

// ObserveNotification records one notification.
func (Prometheus) ObserveNotification(kind string) {
	RecordNotification(kind)
}

// RecordAPICall records a call outcome.
func RecordAPICall(method, route, outcome string) {
	apiCallsTotal.WithLabelValues(method, route, outcome).Inc()
}

// RecordAPICallDuration records the duration of a call.
func RecordAPICallDuration(method, route string, durationSeconds float64) {
	apiCallDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

// RecordNotification records a user-visible failure notification.
func RecordNotification(kind string) {
	notificationsTotal.WithLabelValues(kind).Inc()
}

// WriteSummary writes the mtconsole_* counters gathered from g in a
// compact "name{labels} value" form, one series per line.
func WriteSummary(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "mtconsole_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			fmt.Fprintf(w, "%s%s %s\n", mf.GetName(), formatLabels(m.GetLabel()), formatValue(mf.GetType(), m))
		}
	}
	return nil
}

func formatLabels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", p.GetName(), p.GetValue()))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}

func formatValue(t dto.MetricType, m *dto.Metric) string {
	switch t {
	case dto.MetricType_COUNTER:
		return fmt.Sprintf("%g", m.GetCounter().GetValue())
	case dto.MetricType_GAUGE:
		return fmt.Sprintf("%g", m.GetGauge().GetValue())
	case dto.MetricType_HISTOGRAM:
		h := m.GetHistogram()
		return fmt.Sprintf("count=%d sum=%g", h.GetSampleCount(), h.GetSampleSum())
	default:
		return "?"
	}
}
