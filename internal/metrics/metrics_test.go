package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStatusClass(t *testing.T) {
	cases := map[int]string{0: "none", -1: "none", 200: "2xx", 204: "2xx", 404: "4xx", 503: "5xx"}
	for code, want := range cases {
		if got := StatusClass(code); got != want {
			t.Fatalf("StatusClass(%d): expected %s, got %s", code, want, got)
		}
	}
}

func TestObserveAPI(t *testing.T) {
	before := testutil.ToFloat64(APIRequests.WithLabelValues("PATCH", "4xx"))
	ObserveAPI("PATCH", 409, 10*time.Millisecond)
	after := testutil.ToFloat64(APIRequests.WithLabelValues("PATCH", "4xx"))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v", after-before)
	}
}

func TestObserveJob(t *testing.T) {
	runs := testutil.ToFloat64(JobRuns.WithLabelValues("metrics_test"))
	fails := testutil.ToFloat64(JobErrors.WithLabelValues("metrics_test"))
	ObserveJob("metrics_test", false, time.Millisecond)
	ObserveJob("metrics_test", true, time.Millisecond)
	if got := testutil.ToFloat64(JobRuns.WithLabelValues("metrics_test")) - runs; got != 2 {
		t.Fatalf("expected 2 runs, got %v", got)
	}
	if got := testutil.ToFloat64(JobErrors.WithLabelValues("metrics_test")) - fails; got != 1 {
		t.Fatalf("expected 1 error, got %v", got)
	}
}
