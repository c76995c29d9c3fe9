package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Spok95/safiro-portal/internal/metrics"
)

func TestRunOnceCountsErrors(t *testing.T) {
	r := New(context.Background(), nil)
	runs := testutil.ToFloat64(metrics.JobRuns.WithLabelValues("ping_test"))
	fails := testutil.ToFloat64(metrics.JobErrors.WithLabelValues("ping_test"))

	r.runOnce("ping_test", func(context.Context) error { return nil })
	r.runOnce("ping_test", func(context.Context) error { return errors.New("boom") })

	if got := testutil.ToFloat64(metrics.JobRuns.WithLabelValues("ping_test")) - runs; got != 2 {
		t.Fatalf("expected 2 runs, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.JobErrors.WithLabelValues("ping_test")) - fails; got != 1 {
		t.Fatalf("expected 1 error, got %v", got)
	}
}

func TestEveryStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var n atomic.Int32
	New(ctx, nil).Every(5*time.Millisecond, "tick_test", func(context.Context) error {
		n.Add(1)
		return nil
	})

	deadline := time.Now().Add(2 * time.Second)
	for n.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if n.Load() < 2 {
		t.Fatalf("job did not tick, runs=%d", n.Load())
	}
	cancel()
	time.Sleep(20 * time.Millisecond)
	stopped := n.Load()
	time.Sleep(30 * time.Millisecond)
	if n.Load() != stopped {
		t.Fatal("job kept running after cancel")
	}
}
