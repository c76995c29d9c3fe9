package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	APIRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safiro", Subsystem: "client", Name: "requests_total", Help: "API requests by method and status class",
	}, []string{"method", "code"})
	APIFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safiro", Subsystem: "client", Name: "failures_total", Help: "Failed API requests by kind",
	}, []string{"kind"})
	APIDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "safiro", Subsystem: "client", Name: "request_seconds", Help: "API request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	Logins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safiro", Subsystem: "client", Name: "logins_total", Help: "Login attempts by result",
	}, []string{"result"})

	MockRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safiro", Subsystem: "mockapi", Name: "requests_total", Help: "Mock backend requests",
	}, []string{"route", "code"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "safiro", Subsystem: "mockapi", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})

	JobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safiro", Subsystem: "job", Name: "runs_total", Help: "Background job runs",
	}, []string{"job"})
	JobErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safiro", Subsystem: "job", Name: "errors_total", Help: "Background job errors",
	}, []string{"job"})
	JobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "safiro", Subsystem: "job", Name: "duration_seconds", Help: "Background job duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
)

func init() {
	prometheus.MustRegister(APIRequests, APIFailures, APIDuration, Logins, MockRequests, DBPing,
		JobRuns, JobErrors, JobDuration)
}

func Handler() http.Handler { return promhttp.Handler() }

// ObserveAPI: code=0 означает, что ответа не было.
func ObserveAPI(method string, code int, d time.Duration) {
	APIRequests.WithLabelValues(method, StatusClass(code)).Inc()
	APIDuration.WithLabelValues(method).Observe(d.Seconds())
}

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

// ObserveJob: один прогон фоновой задачи; failed увеличивает счётчик ошибок.
func ObserveJob(name string, failed bool, d time.Duration) {
	if failed {
		JobErrors.WithLabelValues(name).Inc()
	}
	JobRuns.WithLabelValues(name).Inc()
	JobDuration.WithLabelValues(name).Observe(d.Seconds())
}

// StatusClass: 200 -> "2xx", 0 -> "none".
func StatusClass(code int) string {
	if code <= 0 {
		return "none"
	}
	return strconv.Itoa(code/100) + "xx"
}
