// Package metrics collects settlement engine counters. Services depend on
// the Collector interface; wiring decides between the Prometheus
// implementation and the no-op.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records engine activity.
type Collector interface {
	RecordOperation(kind string)
	RecordSettledValue(kind string, value int64)
	RecordError(operation, code string)
}

// NoopCollector is a no-op implementation of Collector.
type NoopCollector struct{}

func (NoopCollector) RecordOperation(string)           {}
func (NoopCollector) RecordSettledValue(string, int64) {}
func (NoopCollector) RecordError(string, string)       {}

// PrometheusCollector exports engine counters under the aurum namespace.
type PrometheusCollector struct {
	operationsTotal   *prometheus.CounterVec
	settledValueTotal *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
}

// NewPrometheusCollector registers the engine counters on the default
// registry.
func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		operationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "aurum",
				Subsystem: "ledger",
				Name:      "operations_total",
				Help:      "Settled operations partitioned by transition kind.",
			},
			[]string{"kind"},
		),
		settledValueTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "aurum",
				Subsystem: "ledger",
				Name:      "settled_value_minor_total",
				Help:      "Total settled value in minor currency units.",
			},
			[]string{"kind"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "aurum",
				Subsystem: "ledger",
				Name:      "errors_total",
				Help:      "Engine errors partitioned by operation and code.",
			},
			[]string{"operation", "code"},
		),
	}
}

func (c *PrometheusCollector) RecordOperation(kind string) {
	c.operationsTotal.WithLabelValues(kind).Inc()
}

func (c *PrometheusCollector) RecordSettledValue(kind string, value int64) {
	c.settledValueTotal.WithLabelValues(kind).Add(float64(value))
}

func (c *PrometheusCollector) RecordError(operation, code string) {
	c.errorsTotal.WithLabelValues(operation, code).Inc()
}
