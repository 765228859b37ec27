package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	StoreOperations *prometheus.CounterVec
	StoreDuration   *prometheus.HistogramVec
	FleetRecords    prometheus.Gauge
	FleetLoading    prometheus.Gauge
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

// NewMetrics creates new prometheus metrics registered on reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StoreOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "The total number of remote record store round-trips",
		}, []string{"op", "result"}),
		StoreDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Time taken by remote record store round-trips",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		FleetRecords: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fleet_records",
			Help:      "Number of records currently loaded",
		}),
		FleetLoading: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fleet_loading",
			Help:      "1 while a round-trip is outstanding",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "The total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time taken to serve HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// ObserveStoreOp records one round-trip. Safe on a nil receiver.
func (m *Metrics) ObserveStoreOp(op string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.StoreOperations.WithLabelValues(op, result).Inc()
	m.StoreDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// SetFleetState updates the fleet gauges. Safe on a nil receiver.
func (m *Metrics) SetFleetState(records int, loading bool) {
	if m == nil {
		return
	}
	m.FleetRecords.Set(float64(records))
	if loading {
		m.FleetLoading.Set(1)
	} else {
		m.FleetLoading.Set(0)
	}
}

// ObserveHTTP records one served request. Safe on a nil receiver.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
