package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus-метрик сервиса
type Metrics struct {
	service string

	// HTTP метрики
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Метрики БД
	DBQueriesTotal  *prometheus.CounterVec
	DBQueryDuration *prometheus.HistogramVec
	DBConnsOpen     *prometheus.GaugeVec
	DBConnsInUse    *prometheus.GaugeVec
	DBConnsIdle     *prometheus.GaugeVec

	// Метрики планировщика напоминаний
	RemindersSentTotal   *prometheus.CounterVec
	ReminderTickDuration *prometheus.HistogramVec
}

// New создает и регистрирует метрики сервиса
func New(serviceName string) *Metrics {
	return &Metrics{
		service: serviceName,

		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		DBQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total number of database queries",
		}, []string{"service", "operation", "status"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"service", "operation"}),

		DBConnsOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections_open",
			Help: "Number of open database connections",
		}, []string{"service"}),

		DBConnsInUse: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections_in_use",
			Help: "Number of database connections currently in use",
		}, []string{"service"}),

		DBConnsIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		}, []string{"service"}),

		RemindersSentTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reminders_sent_total",
			Help: "Total number of reminder dispatch attempts",
		}, []string{"service", "kind", "status"}),

		ReminderTickDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reminder_tick_duration_seconds",
			Help:    "Reminder scheduler tick duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		}, []string{"service", "kind"}),
	}
}

// Service возвращает имя сервиса для подстановки в лейблы
func (m *Metrics) Service() string {
	return m.service
}

// ObserveHTTPRequest фиксирует выполненный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path, status string, seconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(m.service, method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.service, method, path).Observe(seconds)
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation, status string, seconds float64) {
	m.DBQueriesTotal.WithLabelValues(m.service, operation, status).Inc()
	m.DBQueryDuration.WithLabelValues(m.service, operation).Observe(seconds)
}

// ObserveReminder фиксирует попытку отправки напоминания
func (m *Metrics) ObserveReminder(kind, status string) {
	m.RemindersSentTotal.WithLabelValues(m.service, kind, status).Inc()
}

// ObserveReminderTick фиксирует длительность тика планировщика
func (m *Metrics) ObserveReminderTick(kind string, seconds float64) {
	m.ReminderTickDuration.WithLabelValues(m.service, kind).Observe(seconds)
}
