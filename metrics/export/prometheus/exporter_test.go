package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goCred "github.com/MrEthical07/goCred"
)

type fakeSource struct {
	snapshot goCred.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() goCred.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                    { return f.dropped }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goCred.MetricsSnapshot{
			Counters: map[goCred.MetricID]uint64{},
		},
		dropped: 0,
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderIncludesRotationCounters(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goCred.MetricsSnapshot{
			Counters: map[goCred.MetricID]uint64{
				goCred.MetricRotationSuccess:    7,
				goCred.MetricRevocationPartial:  2,
				goCred.MetricRotationInvalidOld: 0,
			},
		},
		dropped: 3,
	})

	out := exp.Render()

	for _, want := range []string{
		"# HELP gocred_rotation_success_total",
		"# TYPE gocred_rotation_success_total counter",
		"gocred_rotation_success_total 7",
		"gocred_revocation_partial_total 2",
		"gocred_rotation_invalid_old_total 0",
		"gocred_audit_dropped_total 3",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRenderIsStableAcrossCalls(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goCred.MetricsSnapshot{
			Counters: map[goCred.MetricID]uint64{
				goCred.MetricRotationSuccess: 1,
			},
		},
	})

	if exp.Render() != exp.Render() {
		t.Fatal("expected deterministic rendering")
	}
}

func TestHandlerServesTextExposition(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goCred.MetricsSnapshot{
			Counters: map[goCred.MetricID]uint64{
				goCred.MetricRotationBlocked: 4,
			},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "gocred_rotation_blocked_total 4") {
		t.Fatalf("expected blocked counter in body, got:\n%s", rec.Body.String())
	}
}

func TestRenderNilExporter(t *testing.T) {
	var exp *PrometheusExporter
	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output from nil exporter, got %q", got)
	}
}
