package colseg

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/colseg/index"
)

// PrometheusCollector exports MetricsCollector events as Prometheus metrics.
type PrometheusCollector struct {
	opLatency    *prometheus.HistogramVec
	columnLoads  *prometheus.CounterVec
	openSegments prometheus.Gauge
}

var _ MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheusCollector creates the collector and registers its metrics
// with reg (prometheus.DefaultRegisterer when nil).
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	p := &PrometheusCollector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "colseg",
			Name:      "operation_duration_seconds",
			Help:      "Latency of segment opens and column loads.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
		columnLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "colseg",
			Name:      "column_loads_total",
			Help:      "Column loads by forward index kind and status.",
		}, []string{"forward", "status"}),
		openSegments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "colseg",
			Name:      "open_segments",
			Help:      "Segments currently mounted.",
		}),
	}
	for _, c := range []prometheus.Collector{p.opLatency, p.columnLoads, p.openSegments} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordSegmentOpen implements MetricsCollector.
func (p *PrometheusCollector) RecordSegmentOpen(duration time.Duration, err error) {
	p.opLatency.WithLabelValues("open", status(err)).Observe(duration.Seconds())
	if err == nil {
		p.openSegments.Inc()
	}
}

// RecordColumnLoad implements MetricsCollector.
func (p *PrometheusCollector) RecordColumnLoad(kind index.ForwardKind, duration time.Duration, err error) {
	p.opLatency.WithLabelValues("column_load", status(err)).Observe(duration.Seconds())
	p.columnLoads.WithLabelValues(kind.String(), status(err)).Inc()
}

// RecordSegmentClose implements MetricsCollector.
func (p *PrometheusCollector) RecordSegmentClose(error) {
	p.openSegments.Dec()
}
