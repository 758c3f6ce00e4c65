package datrie

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Lookups are not instrumented individually; they are too cheap for a
// callback to be free. FindBatch reports once per batch.
type MetricsCollector interface {
	// RecordBuild is called after each build. units is 0 on failure.
	RecordBuild(keys, units int, duration time.Duration, err error)

	// RecordLoad is called after each load from a file, blob or archive.
	RecordLoad(units int, duration time.Duration, err error)

	// RecordDump is called after each dump to a file, blob or archive.
	RecordDump(units int, duration time.Duration, err error)

	// RecordBatchFind is called after each FindBatch. found counts the keys
	// that were present.
	RecordBatchFind(count, found int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordLoad(int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordDump(int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordBatchFind(int, int, time.Duration)    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount      atomic.Int64
	BuildErrors     atomic.Int64
	BuildKeys       atomic.Int64
	BuildTotalNanos atomic.Int64
	LoadCount       atomic.Int64
	LoadErrors      atomic.Int64
	LoadUnits       atomic.Int64
	DumpCount       atomic.Int64
	DumpErrors      atomic.Int64
	DumpUnits       atomic.Int64
	BatchFindCount  atomic.Int64
	BatchFindKeys   atomic.Int64
	BatchFindFound  atomic.Int64
	BatchFindNanos  atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(keys, _ int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildKeys.Add(int64(keys))
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(units int, _ time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadUnits.Add(int64(units))
}

// RecordDump implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDump(units int, _ time.Duration, err error) {
	b.DumpCount.Add(1)
	if err != nil {
		b.DumpErrors.Add(1)
		return
	}
	b.DumpUnits.Add(int64(units))
}

// RecordBatchFind implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatchFind(count, found int, duration time.Duration) {
	b.BatchFindCount.Add(1)
	b.BatchFindKeys.Add(int64(count))
	b.BatchFindFound.Add(int64(found))
	b.BatchFindNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:        b.BuildCount.Load(),
		BuildErrors:       b.BuildErrors.Load(),
		BuildKeys:         b.BuildKeys.Load(),
		BuildAvgNanos:     avg(b.BuildTotalNanos.Load(), b.BuildCount.Load()),
		LoadCount:         b.LoadCount.Load(),
		LoadErrors:        b.LoadErrors.Load(),
		LoadUnits:         b.LoadUnits.Load(),
		DumpCount:         b.DumpCount.Load(),
		DumpErrors:        b.DumpErrors.Load(),
		DumpUnits:         b.DumpUnits.Load(),
		BatchFindCount:    b.BatchFindCount.Load(),
		BatchFindKeys:     b.BatchFindKeys.Load(),
		BatchFindFound:    b.BatchFindFound.Load(),
		BatchFindAvgNanos: avg(b.BatchFindNanos.Load(), b.BatchFindCount.Load()),
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
	BuildCount        int64
	BuildErrors       int64
	BuildKeys         int64
	BuildAvgNanos     int64
	LoadCount         int64
	LoadErrors        int64
	LoadUnits         int64
	DumpCount         int64
	DumpErrors        int64
	DumpUnits         int64
	BatchFindCount    int64
	BatchFindKeys     int64
	BatchFindFound    int64
	BatchFindAvgNanos int64
}
