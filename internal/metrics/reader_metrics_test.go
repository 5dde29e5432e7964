package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// getMetric returns the value of a metric by its fully-qualified name from gathered families.
func getMetric(mfs []*dto.MetricFamily, name string) float64 {
	for _, mf := range mfs {
		if mf.GetName() == name {
			// counters here are unlabelled, take the first
			if len(mf.Metric) > 0 && mf.GetType() == dto.MetricType_COUNTER {
				return mf.Metric[0].GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestRegisterAndCounters(t *testing.T) {
	reg := prometheus.NewRegistry()

	// First registration should succeed
	if err := Register(reg); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	// Second registration should be idempotent (ignore AlreadyRegistered)
	if err := Register(reg); err != nil {
		t.Fatalf("Register (second) failed: %v", err)
	}

	// Capture baseline values (collectors are globals; use deltas for assertions)
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	baseLines := getMetric(mfs, "skimread_lines_total")
	baseBytes := getMetric(mfs, "skimread_bytes_total")
	baseFiles := getMetric(mfs, "skimread_files_total")
	baseErrors := getMetric(mfs, "skimread_read_errors_total")
	baseRestored := getMetric(mfs, "skimread_restored_checkpoints_total")

	IncLines(3)
	IncLines(0) // no-op
	AddBytes(10)
	AddBytes(-5) // no-op
	IncFiles()
	IncReadErrors()
	IncRestoredCheckpoints()

	mfs2, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather 2 failed: %v", err)
	}

	if got := getMetric(mfs2, "skimread_lines_total") - baseLines; got != 3 {
		t.Fatalf("lines_total delta = %v, want 3", got)
	}
	if got := getMetric(mfs2, "skimread_bytes_total") - baseBytes; got != 10 {
		t.Fatalf("bytes_total delta = %v, want 10", got)
	}
	if got := getMetric(mfs2, "skimread_files_total") - baseFiles; got != 1 {
		t.Fatalf("files_total delta = %v, want 1", got)
	}
	if got := getMetric(mfs2, "skimread_read_errors_total") - baseErrors; got != 1 {
		t.Fatalf("read_errors_total delta = %v, want 1", got)
	}
	if got := getMetric(mfs2, "skimread_restored_checkpoints_total") - baseRestored; got != 1 {
		t.Fatalf("restored_checkpoints_total delta = %v, want 1", got)
	}
}
