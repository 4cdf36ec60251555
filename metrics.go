package formdb

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    updates prometheus.Counter
//	    lookups prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordLookup(candidates, returned int, d time.Duration) {
//	    p.lookups.Observe(d.Seconds())
//	}
type MetricsCollector interface {
	// RecordLoad is called once after the dump has been read at construction.
	RecordLoad(records int, duration time.Duration, err error)

	// RecordLookup is called after each SimilarWords or SimilarForms call.
	// candidates is the number of scored strings, returned the result length.
	RecordLookup(candidates, returned int, duration time.Duration)

	// RecordUpdate is called after each upsert, including the save.
	RecordUpdate(created bool, duration time.Duration, err error)

	// RecordDelete is called after each delete. found is false for a no-op.
	RecordDelete(found bool, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordLookup(int, int, time.Duration)    {}
func (NoopMetricsCollector) RecordUpdate(bool, time.Duration, error) {}
func (NoopMetricsCollector) RecordDelete(bool, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LoadedRecords    atomic.Int64
	LoadErrors       atomic.Int64
	LookupCount      atomic.Int64
	LookupCandidates atomic.Int64
	LookupTotalNanos atomic.Int64
	UpdateCount      atomic.Int64
	CreateCount      atomic.Int64
	UpdateErrors     atomic.Int64
	UpdateTotalNanos atomic.Int64
	DeleteCount      atomic.Int64
	DeleteMisses     atomic.Int64
	DeleteErrors     atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(records int, duration time.Duration, err error) {
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadedRecords.Store(int64(records))
}

// RecordLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLookup(candidates, returned int, duration time.Duration) {
	b.LookupCount.Add(1)
	b.LookupCandidates.Add(int64(candidates))
	b.LookupTotalNanos.Add(duration.Nanoseconds())
}

// RecordUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpdate(created bool, duration time.Duration, err error) {
	b.UpdateCount.Add(1)
	b.UpdateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.UpdateErrors.Add(1)
		return
	}
	if created {
		b.CreateCount.Add(1)
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(found bool, duration time.Duration, err error) {
	b.DeleteCount.Add(1)
	if !found {
		b.DeleteMisses.Add(1)
	}
	if err != nil {
		b.DeleteErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadedRecords:    b.LoadedRecords.Load(),
		LoadErrors:       b.LoadErrors.Load(),
		LookupCount:      b.LookupCount.Load(),
		LookupCandidates: b.LookupCandidates.Load(),
		LookupAvgNanos:   avg(b.LookupTotalNanos.Load(), b.LookupCount.Load()),
		UpdateCount:      b.UpdateCount.Load(),
		CreateCount:      b.CreateCount.Load(),
		UpdateErrors:     b.UpdateErrors.Load(),
		UpdateAvgNanos:   avg(b.UpdateTotalNanos.Load(), b.UpdateCount.Load()),
		DeleteCount:      b.DeleteCount.Load(),
		DeleteMisses:     b.DeleteMisses.Load(),
		DeleteErrors:     b.DeleteErrors.Load(),
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
	LoadedRecords    int64
	LoadErrors       int64
	LookupCount      int64
	LookupCandidates int64
	LookupAvgNanos   int64
	UpdateCount      int64
	CreateCount      int64
	UpdateErrors     int64
	UpdateAvgNanos   int64
	DeleteCount      int64
	DeleteMisses     int64
	DeleteErrors     int64
}
