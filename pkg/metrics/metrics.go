package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBConnections   *prometheus.GaugeVec

	TxRetriesTotal *prometheus.CounterVec

	AvailabilityDecisions *prometheus.CounterVec
	StatusTransitions     *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном регистре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в переданном регистре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			ConstLabels: constLabels,
		}, []string{"operation"}),

		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		DBConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: constLabels,
		}, []string{"state"}),

		TxRetriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_tx_retries_total",
			Help:        "Transactions retried after a transient failure",
			ConstLabels: constLabels,
		}, []string{"isolation"}),

		AvailabilityDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_availability_decisions_total",
			Help:        "Availability checks grouped by decision reason",
			ConstLabels: constLabels,
		}, []string{"reason"}),

		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_status_transitions_total",
			Help:        "Booking status transition attempts",
			ConstLabels: constLabels,
		}, []string{"from", "to", "result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBConnections,
		m.TxRetriesTotal,
		m.AvailabilityDecisions,
		m.StatusTransitions,
	)

	return m
}

// ObserveHTTPRequest фиксирует завершённый HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// ObservePoolStats реализует dbmetrics.PoolObserver
func (m *Metrics) ObservePoolStats(stats sql.DBStats) {
	m.DBConnections.WithLabelValues("open").Set(float64(stats.OpenConnections))
	m.DBConnections.WithLabelValues("in_use").Set(float64(stats.InUse))
	m.DBConnections.WithLabelValues("idle").Set(float64(stats.Idle))
	m.DBConnections.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
}

// ObserveTxRetry реализует txmanager.RetryObserver
func (m *Metrics) ObserveTxRetry(isolation string) {
	m.TxRetriesTotal.WithLabelValues(isolation).Inc()
}

// ObserveAvailabilityDecision реализует check_availability.DecisionObserver
func (m *Metrics) ObserveAvailabilityDecision(reason string) {
	m.AvailabilityDecisions.WithLabelValues(reason).Inc()
}

// ObserveStatusTransition реализует bookings.TransitionObserver
func (m *Metrics) ObserveStatusTransition(from, to string, ok bool) {
	result := "ok"
	if !ok {
		result = "rejected"
	}
	m.StatusTransitions.WithLabelValues(from, to, result).Inc()
}
