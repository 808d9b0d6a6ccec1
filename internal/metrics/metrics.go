// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barberia_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "barberia_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	citaTransiciones = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barberia_cita_transiciones_total",
		Help: "Appointment state transitions by resulting state",
	}, []string{"estado"})

	jobsProcesados = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barberia_jobs_total",
		Help: "Async jobs processed by type and result",
	}, []string{"type", "result"})

	circuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "barberia_circuit_breaker_open",
		Help: "1 while the named circuit breaker is not closed",
	}, []string{"name"})

	wsConexiones = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "barberia_ws_connections",
		Help: "Connected notification websocket clients",
	})
)

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveTransicion counts an appointment reaching estado.
func ObserveTransicion(estado string) {
	citaTransiciones.WithLabelValues(estado).Inc()
}

// ObserveJob counts a processed job; result is "ok", "retry" or "dlq".
func ObserveJob(jobType, result string) {
	jobsProcesados.WithLabelValues(jobType, result).Inc()
}

// SetBreakerOpen flags whether the named breaker is tripped.
func SetBreakerOpen(name string, open bool) {
	v := 0.0
	if open {
		v = 1
	}
	circuitBreakerState.WithLabelValues(name).Set(v)
}

func IncrementWS() { wsConexiones.Inc() }
func DecrementWS() { wsConexiones.Dec() }
