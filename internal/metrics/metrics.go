// Package metrics exports resolver events as Prometheus metrics and
// OpenTelemetry spans.
//
// Both are wired through the hook interfaces of the observability package:
//
//	m := metrics.New(metrics.Config{})
//	m.Install(metrics.NewTracing(m))
//	http.Handle("/metrics", m.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jtripath/maven-dependency-management-extension/pkg/errors"
	"github.com/jtripath/maven-dependency-management-extension/pkg/observability"
)

// Config configures the collectors.
type Config struct {
	// Namespace prefixes every metric (default: "depmgmt").
	Namespace string

	// Registry receives the collectors. Default: a fresh registry, so that
	// several instances can coexist in tests.
	Registry *prometheus.Registry

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64
}

// Metrics implements the observability hooks with Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	resolves        *prometheus.CounterVec
	resolveDuration *prometheus.HistogramVec
	overrides       *prometheus.HistogramVec
	modelBuilds     *prometheus.CounterVec
	lineageDepth    prometheus.Histogram
	localHits       prometheus.Counter
	fetches         *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	cacheOps        *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New creates and registers the collectors.
func New(cfg Config) *Metrics {
	if cfg.Namespace == "" {
		cfg.Namespace = "depmgmt"
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	if cfg.Buckets == nil {
		cfg.Buckets = prometheus.DefBuckets
	}
	factory := promauto.With(cfg.Registry)
	ns := cfg.Namespace

	return &Metrics{
		registry: cfg.Registry,

		resolves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "resolutions_total",
			Help:      "Service calls by kind and result code",
		}, []string{"kind", "code"}),

		resolveDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "resolution_duration_seconds",
			Help:      "Service call duration in seconds",
			Buckets:   cfg.Buckets,
		}, []string{"kind"}),

		overrides: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "overrides_entries",
			Help:      "Entries returned by override queries",
			Buckets:   []float64{0, 10, 50, 100, 250, 500, 1000},
		}, []string{"kind"}),

		modelBuilds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "model_builds_total",
			Help:      "Effective model builds by result",
		}, []string{"result"}),

		lineageDepth: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "lineage_depth",
			Help:      "Number of POMs in built lineages",
			Buckets:   []float64{1, 2, 3, 4, 6, 8, 12},
		}),

		localHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "local_repository_hits_total",
			Help:      "Files served from the local repository",
		}),

		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "repository_fetches_total",
			Help:      "Remote repository attempts by repository and result",
		}, []string{"repository", "result"}),

		fetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "repository_fetch_duration_seconds",
			Help:      "Remote repository attempt duration in seconds",
			Buckets:   cfg.Buckets,
		}, []string{"repository"}),

		cacheOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "cache_operations_total",
			Help:      "Response cache operations",
		}, []string{"key_type", "op"}),

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "Outgoing HTTP requests by host and status",
		}, []string{"host", "status"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "Outgoing HTTP request duration in seconds",
			Buckets:   cfg.Buckets,
		}, []string{"host"}),
	}
}

// Install registers m as fetch, cache and HTTP hooks, and resolve (or
// the given resolve hooks, typically a [Tracing] wrapping m).
func (m *Metrics) Install(resolve observability.ResolveHooks) {
	if resolve == nil {
		resolve = m
	}
	observability.SetResolveHooks(resolve)
	observability.SetFetchHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func codeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return string(errors.ErrCodeInternal)
}

func (m *Metrics) OnResolveStart(context.Context, string, string) {}

func (m *Metrics) OnResolveComplete(_ context.Context, kind, _ string, entries int, d time.Duration, err error) {
	m.resolves.WithLabelValues(kind, codeLabel(err)).Inc()
	m.resolveDuration.WithLabelValues(kind).Observe(d.Seconds())
	if err == nil && kind != "model" {
		m.overrides.WithLabelValues(kind).Observe(float64(entries))
	}
}

func (m *Metrics) OnModelBuild(_ context.Context, _ string, lineage int, _ time.Duration, err error) {
	m.modelBuilds.WithLabelValues(resultLabel(err)).Inc()
	if err == nil {
		m.lineageDepth.Observe(float64(lineage))
	}
}

func (m *Metrics) OnLocalHit(context.Context, string) {
	m.localHits.Inc()
}

func (m *Metrics) OnFetch(_ context.Context, repo, _ string, d time.Duration, err error) {
	m.fetches.WithLabelValues(repo, resultLabel(err)).Inc()
	m.fetchDuration.WithLabelValues(repo).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(host, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.httpRequests.WithLabelValues(host, "error").Inc()
}
