package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollectorsRegisteredWithDefaultRegistry(t *testing.T) {
	GuardDecisionsTotal.WithLabelValues("render", "finances").Inc()
	LoginAttemptsTotal.WithLabelValues("success").Inc()
	SessionRestoresTotal.WithLabelValues("hit").Inc()
	LogoutsTotal.Inc()
	AuditEventsTotal.WithLabelValues("stored").Inc()
	AuditQueueDepth.WithLabelValues("0").Set(0)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	got := make(map[string]bool, len(families))
	for _, mf := range families {
		got[mf.GetName()] = true
	}
	for _, name := range []string{
		"visioncare_guard_decisions_total",
		"visioncare_login_attempts_total",
		"visioncare_session_restores_total",
		"visioncare_logouts_total",
		"visioncare_audit_events_total",
		"visioncare_audit_queue_depth",
	} {
		if !got[name] {
			t.Errorf("metric %s not registered", name)
		}
	}
}
