package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus-метрик сервиса
type Metrics struct {
	// HTTP метрики
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Метрики базы данных
	DBQueriesTotal  *prometheus.CounterVec
	DBQueryDuration *prometheus.HistogramVec
	DBConnsOpen     *prometheus.GaugeVec
	DBConnsIdle     *prometheus.GaugeVec

	// Метрики фоновой сверки кэша
	ReconcileRunsTotal      *prometheus.CounterVec
	CacheDiscrepanciesTotal *prometheus.CounterVec
	ReclaimedSlotsTotal     prometheus.Counter
}

// New создает и регистрирует метрики в default registry
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests",
				ConstLabels: constLabels,
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "HTTP request duration in seconds",
				ConstLabels: constLabels,
				Buckets:     prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		DBQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "db_queries_total",
				Help:        "Total number of database queries",
				ConstLabels: constLabels,
			},
			[]string{"operation", "status"},
		),
		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "db_query_duration_seconds",
				Help:        "Database query duration in seconds",
				ConstLabels: constLabels,
				Buckets:     []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"operation"},
		),
		DBConnsOpen: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "db_connections_open",
				Help:        "Number of open database connections",
				ConstLabels: constLabels,
			},
			[]string{"state"},
		),
		DBConnsIdle: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "db_connections_idle",
				Help:        "Number of idle database connections",
				ConstLabels: constLabels,
			},
			[]string{"state"},
		),
		ReconcileRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "cache_reconcile_runs_total",
				Help:        "Total number of cache reconciliation passes",
				ConstLabels: constLabels,
			},
			[]string{"status"},
		),
		CacheDiscrepanciesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "cache_discrepancies_total",
				Help:        "Total number of cache/store discrepancies found",
				ConstLabels: constLabels,
			},
			[]string{"kind"},
		),
		ReclaimedSlotsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name:        "reclaimed_slots_total",
				Help:        "Total number of expired reservations returned to available",
				ConstLabels: constLabels,
			},
		),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueriesTotal,
		m.DBQueryDuration,
		m.DBConnsOpen,
		m.DBConnsIdle,
		m.ReconcileRunsTotal,
		m.CacheDiscrepanciesTotal,
		m.ReclaimedSlotsTotal,
	)

	return m
}
