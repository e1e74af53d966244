package gemgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
// See the metrics/prometheus package for a ready-made collector.
type MetricsCollector interface {
	// RecordIndexBuild is called once after the size and facet indexes are built.
	// gems is the number of gems loaded, duration is the total time taken.
	RecordIndexBuild(gems int, duration time.Duration, err error)

	// RecordRound is called after each ordering round.
	// batch is the number of facets revealed, impacted the number of gems
	// that lost facets. err is non-nil when the round did not apply;
	// IsTerminal(err) marks the expected end of a run rather than a failure.
	RecordRound(batch, impacted int, usedBaseline bool, duration time.Duration, err error)

	// RecordLoad is called after gems are decoded from a store.
	RecordLoad(gems int, bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordIndexBuild(int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordRound(int, int, bool, time.Duration, error) {}
func (NoopMetricsCollector) RecordLoad(int, int64, time.Duration, error)      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	IndexBuilds      atomic.Int64
	IndexBuildErrors atomic.Int64
	IndexedGems      atomic.Int64
	RoundCount       atomic.Int64
	RoundErrors      atomic.Int64
	RoundTerminals   atomic.Int64
	RoundTotalNanos  atomic.Int64
	BaselineRounds   atomic.Int64
	RevealedFacets   atomic.Int64
	ImpactedGems     atomic.Int64
	LoadCount        atomic.Int64
	LoadErrors       atomic.Int64
	LoadedGems       atomic.Int64
	LoadedBytes      atomic.Int64
}

// RecordIndexBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIndexBuild(gems int, _ time.Duration, err error) {
	b.IndexBuilds.Add(1)
	if err != nil {
		b.IndexBuildErrors.Add(1)
		return
	}
	b.IndexedGems.Add(int64(gems))
}

// RecordRound implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRound(batch, impacted int, usedBaseline bool, duration time.Duration, err error) {
	b.RoundCount.Add(1)
	b.RoundTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		if IsTerminal(err) {
			b.RoundTerminals.Add(1)
		} else {
			b.RoundErrors.Add(1)
		}
		return
	}
	if usedBaseline {
		b.BaselineRounds.Add(1)
	}
	b.RevealedFacets.Add(int64(batch))
	b.ImpactedGems.Add(int64(impacted))
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(gems int, bytes int64, _ time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadedGems.Add(int64(gems))
	b.LoadedBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		IndexBuilds:      b.IndexBuilds.Load(),
		IndexBuildErrors: b.IndexBuildErrors.Load(),
		IndexedGems:      b.IndexedGems.Load(),
		RoundCount:       b.RoundCount.Load(),
		RoundErrors:      b.RoundErrors.Load(),
		RoundTerminals:   b.RoundTerminals.Load(),
		RoundAvgNanos:    b.getAvgRoundNanos(),
		BaselineRounds:   b.BaselineRounds.Load(),
		RevealedFacets:   b.RevealedFacets.Load(),
		ImpactedGems:     b.ImpactedGems.Load(),
		LoadCount:        b.LoadCount.Load(),
		LoadErrors:       b.LoadErrors.Load(),
		LoadedGems:       b.LoadedGems.Load(),
		LoadedBytes:      b.LoadedBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgRoundNanos() int64 {
	count := b.RoundCount.Load()
	if count == 0 {
		return 0
	}
	return b.RoundTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	IndexBuilds      int64
	IndexBuildErrors int64
	IndexedGems      int64
	RoundCount       int64
	RoundErrors      int64
	RoundTerminals   int64
	RoundAvgNanos    int64
	BaselineRounds   int64
	RevealedFacets   int64
	ImpactedGems     int64
	LoadCount        int64
	LoadErrors       int64
	LoadedGems       int64
	LoadedBytes      int64
}
