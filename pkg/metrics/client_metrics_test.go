package metrics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordAPICall(t *testing.T) {
	// Reset metrics before test
	apiCallsTotal.Reset()

	RecordAPICall("GET", "/api/user/list", "ok")

	metric := &dto.Metric{}
	if err := apiCallsTotal.WithLabelValues("GET", "/api/user/list", "ok").Write(metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("Expected counter value 1, got %f", metric.Counter.GetValue())
	}

	RecordAPICall("GET", "/api/user/list", "ok")
	metric = &dto.Metric{}
	if err := apiCallsTotal.WithLabelValues("GET", "/api/user/list", "ok").Write(metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("Expected counter value 2, got %f", metric.Counter.GetValue())
	}
}

func TestPrometheusRecorder(t *testing.T) {
	apiCallsTotal.Reset()
	apiCallDuration.Reset()
	notificationsTotal.Reset()

	var r Recorder = Prometheus{}
	r.ObserveCall("POST", "/api/db/config/{id}/verify", "envelope", 0.2)
	r.ObserveNotification("envelope")

	metric := &dto.Metric{}
	if err := apiCallsTotal.WithLabelValues("POST", "/api/db/config/{id}/verify", "envelope").Write(metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("Expected counter value 1, got %f", metric.Counter.GetValue())
	}

	metric = &dto.Metric{}
	if err := notificationsTotal.WithLabelValues("envelope").Write(metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("Expected notification count 1, got %f", metric.Counter.GetValue())
	}
}

func TestOutcomeLabels(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		route   string
		outcome string
	}{
		{"network failure", "GET", "/api/chat/sessions", "network"},
		{"timeout", "POST", "/api/data-question/ask", "timeout"},
		{"not found", "GET", "/knowledge/{id}", "http_status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiCallsTotal.Reset()

			RecordAPICall(tt.method, tt.route, tt.outcome)

			metric := &dto.Metric{}
			if err := apiCallsTotal.WithLabelValues(tt.method, tt.route, tt.outcome).Write(metric); err != nil {
				t.Fatalf("write metric: %v", err)
			}
			if metric.Counter.GetValue() != 1 {
				t.Errorf("Expected counter value 1, got %f", metric.Counter.GetValue())
			}
		})
	}
}

func TestWriteSummary(t *testing.T) {
	apiCallsTotal.Reset()
	apiCallDuration.Reset()
	RecordAPICall("DELETE", "/tool/{id}", "ok")
	RecordAPICallDuration("DELETE", "/tool/{id}", 0.5)

	var buf bytes.Buffer
	if err := WriteSummary(&buf, prometheus.DefaultGatherer); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `mtconsole_api_calls_total{method="DELETE",outcome="ok",route="/tool/{id}"} 1`) {
		t.Errorf("summary missing counter line:\n%s", out)
	}
	if !strings.Contains(out, "mtconsole_api_call_duration_seconds") || !strings.Contains(out, "count=1") {
		t.Errorf("summary missing histogram line:\n%s", out)
	}
	if strings.Contains(out, "go_goroutines") {
		t.Errorf("summary should only include mtconsole series:\n%s", out)
	}
}
