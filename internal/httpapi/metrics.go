package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the collectors exported on /metrics, one registry per server.
type metrics struct {
	registry *prometheus.Registry

	answers          *prometheus.CounterVec
	sessionsStarted  prometheus.Counter
	sessionsFinished prometheus.Counter
	activeSessions   prometheus.Gauge
	requestDuration  *prometheus.HistogramVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	m := &metrics{
		registry: reg,
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kubika",
			Name:      "answers_total",
			Help:      "Answers submitted, by topic and correctness.",
		}, []string{"topic", "correct"}),
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kubika",
			Name:      "sessions_started_total",
			Help:      "Working sets built, including repeats and reshuffles.",
		}),
		sessionsFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kubika",
			Name:      "sessions_finished_total",
			Help:      "Sessions that reached a result.",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kubika",
			Name:      "sessions_active",
			Help:      "Sessions held by the server that have no result yet.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kubika",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		m.answers,
		m.sessionsStarted,
		m.sessionsFinished,
		m.activeSessions,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) observeAnswer(topic string, correct bool) {
	m.answers.WithLabelValues(topic, strconv.FormatBool(correct)).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// middleware records request latency labelled with the chi route pattern,
// so ids in the path do not explode cardinality.
func (m *metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := newResponseWriter(w)

		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.requestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).
			Observe(time.Since(start).Seconds())
	})
}
