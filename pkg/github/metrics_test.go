package github

import (
	"testing"
	"time"
)

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	// Instrumentation is optional; a nil receiver must be a no-op.
	m.IncRequest("2xx")
	m.ObserveDuration(time.Second)
	m.IncPages()
	m.IncRetries()
	m.IncRateLimitWaits()
}

func TestMetricsRegistered(t *testing.T) {
	m := NewMetrics()
	m.IncRequest("2xx")
	m.IncPages()

	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"ghdeps_requests_total", "ghdeps_pages_total"} {
		if !names[want] {
			t.Errorf("metric %s not gathered; got %v", want, names)
		}
	}
}

func TestStatusClass(t *testing.T) {
	for code, want := range map[int]string{
		200: "2xx",
		202: "2xx",
		403: "4xx",
		422: "4xx",
		500: "5xx",
	} {
		if got := statusClass(code); got != want {
			t.Errorf("statusClass(%d) = %q, want %q", code, got, want)
		}
	}
}
