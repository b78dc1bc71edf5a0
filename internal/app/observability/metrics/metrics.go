package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	AuthAttemptsTotal   *prometheus.CounterVec
	RoleChangesTotal    *prometheus.CounterVec
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *AppMetrics {
	m := &AppMetrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ella_http_requests_total",
			Help: "Total number of HTTP requests completed",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ella_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		AuthAttemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ella_auth_attempts_total",
			Help: "Signup and login attempts by outcome",
		}, []string{"action", "outcome"}),
		RoleChangesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ella_role_changes_total",
			Help: "Manager promotions and demotions by outcome",
		}, []string{"action", "outcome"}),
	}
	reg.MustRegister(m.HTTPRequestsTotal, m.HTTPRequestDuration, m.AuthAttemptsTotal, m.RoleChangesTotal)
	return m
}

// Get returns the process-wide instruments registered with the default registry.
func Get() *AppMetrics {
	once.Do(func() {
		appMetrics = New(prometheus.DefaultRegisterer)
	})
	return appMetrics
}
