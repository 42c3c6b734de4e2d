// Package metrics owns the Prometheus collectors for the HTTP surface and the directory.
package metrics

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"IG_DIRECTORY_BACK-END/internal/services"
)

const namespace = "igdir"

// Options configures New
type Options struct {
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Buckets    []float64
}

// Metrics groups every collector the service exports
type Metrics struct {
	Requests    *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	InFlight    prometheus.Gauge
	Submissions *prometheus.CounterVec
	Moderation  *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New builds and registers the collectors. Collectors already registered
// under the same name are reused.
func New(opts Options) (*Metrics, error) {
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	buckets := opts.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	requests, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests partitioned by method, route, and status code.",
	}, []string{"method", "route", "status"}))
	if err != nil {
		return nil, err
	}

	duration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Histogram of HTTP request latencies in seconds.",
		Buckets:   buckets,
	}, []string{"method", "route", "status"}))
	if err != nil {
		return nil, err
	}

	inFlight, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "in_flight_requests",
		Help:      "Current number of in-flight HTTP requests.",
	}))
	if err != nil {
		return nil, err
	}

	submissions, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_total",
		Help:      "Profile submissions partitioned by outcome.",
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}

	moderation, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_actions_total",
		Help:      "Moderation decisions partitioned by action.",
	}, []string{"action"}))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		Requests:    requests,
		Duration:    duration,
		InFlight:    inFlight,
		Submissions: submissions,
		Moderation:  moderation,
		gatherer:    gatherer,
	}, nil
}

// RegisterRuntime adds the Go runtime and process collectors
func RegisterRuntime(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if _, err := register(reg, c); err != nil {
			return err
		}
	}
	return nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			existing, ok := already.ExistingCollector.(T)
			if !ok {
				return c, fmt.Errorf("existing collector has unexpected type %T", already.ExistingCollector)
			}
			return existing, nil
		}
		return c, fmt.Errorf("register collector: %w", err)
	}
	return c, nil
}

// Handler serves the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// SubmissionObserved counts one submission outcome
func (m *Metrics) SubmissionObserved(outcome string) {
	m.Submissions.WithLabelValues(outcome).Inc()
}

// ModerationObserved counts one moderation decision
func (m *Metrics) ModerationObserved(action services.ModerationAction) {
	m.Moderation.WithLabelValues(string(action)).Inc()
}

var _ services.DirectoryMetrics = (*Metrics)(nil)
