package colseg

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/colseg/index"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; a
// Prometheus implementation is provided by PrometheusCollector.
type MetricsCollector interface {
	// RecordSegmentOpen is called after each Open, successful or not.
	RecordSegmentOpen(duration time.Duration, err error)

	// RecordColumnLoad is called after each column resolution. kind is zero
	// when the column failed before its forward reader was selected.
	RecordColumnLoad(kind index.ForwardKind, duration time.Duration, err error)

	// RecordSegmentClose is called once per segment when it is closed.
	RecordSegmentClose(err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSegmentOpen(time.Duration, error)                    {}
func (NoopMetricsCollector) RecordColumnLoad(index.ForwardKind, time.Duration, error) {}
func (NoopMetricsCollector) RecordSegmentClose(error)                                  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SegmentOpenCount      atomic.Int64
	SegmentOpenErrors     atomic.Int64
	SegmentOpenTotalNanos atomic.Int64
	ColumnLoadCount       atomic.Int64
	ColumnLoadErrors      atomic.Int64
	ColumnLoadTotalNanos  atomic.Int64
	SegmentCloseCount     atomic.Int64
	SegmentCloseErrors    atomic.Int64
}

// RecordSegmentOpen implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSegmentOpen(duration time.Duration, err error) {
	b.SegmentOpenCount.Add(1)
	b.SegmentOpenTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SegmentOpenErrors.Add(1)
	}
}

// RecordColumnLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordColumnLoad(_ index.ForwardKind, duration time.Duration, err error) {
	b.ColumnLoadCount.Add(1)
	b.ColumnLoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ColumnLoadErrors.Add(1)
	}
}

// RecordSegmentClose implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSegmentClose(err error) {
	b.SegmentCloseCount.Add(1)
	if err != nil {
		b.SegmentCloseErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SegmentOpenCount:    b.SegmentOpenCount.Load(),
		SegmentOpenErrors:   b.SegmentOpenErrors.Load(),
		SegmentOpenAvgNanos: avg(b.SegmentOpenTotalNanos.Load(), b.SegmentOpenCount.Load()),
		ColumnLoadCount:     b.ColumnLoadCount.Load(),
		ColumnLoadErrors:    b.ColumnLoadErrors.Load(),
		ColumnLoadAvgNanos:  avg(b.ColumnLoadTotalNanos.Load(), b.ColumnLoadCount.Load()),
		SegmentCloseCount:   b.SegmentCloseCount.Load(),
		SegmentCloseErrors:  b.SegmentCloseErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SegmentOpenCount    int64
	SegmentOpenErrors   int64
	SegmentOpenAvgNanos int64
	ColumnLoadCount     int64
	ColumnLoadErrors    int64
	ColumnLoadAvgNanos  int64
	SegmentCloseCount   int64
	SegmentCloseErrors  int64
}
