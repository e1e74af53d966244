// Package prometheus exports ordering and load metrics to Prometheus.
//
//	c := prometheus.NewCollector(prom.DefaultRegisterer)
//	o, _ := gemgo.New(gems, gemgo.WithMetricsCollector(c))
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/gemgo"
)

var _ gemgo.MetricsCollector = (*Collector)(nil)

// Collector implements gemgo.MetricsCollector on Prometheus metrics.
type Collector struct {
	opLatency    *prometheus.HistogramVec
	ops          *prometheus.CounterVec
	indexedGems  prometheus.Gauge
	roundBatch   prometheus.Histogram
	impactedGems prometheus.Counter
	baseline     prometheus.Counter
	revealed     prometheus.Counter
	loadedGems   prometheus.Counter
	loadedBytes  prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
// A nil reg skips registration.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gemgo_operation_latency_seconds",
			Help:    "Latency of index builds, rounds and loads",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "status"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gemgo_operations_total",
			Help: "Total operations by kind and outcome",
		}, []string{"op", "status"}),
		indexedGems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gemgo_indexed_gems",
			Help: "Gems in the most recent index build",
		}),
		roundBatch: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gemgo_round_batch_size",
			Help:    "Facets revealed per round",
			Buckets: prometheus.LinearBuckets(1, 1, 8),
		}),
		impactedGems: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gemgo_impacted_gems_total",
			Help: "Gems that lost at least one unknown facet",
		}),
		baseline: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gemgo_baseline_rounds_total",
			Help: "Rounds that fell back to the baseline frequency table",
		}),
		revealed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gemgo_revealed_facets_total",
			Help: "Facets revealed across all rounds",
		}),
		loadedGems: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gemgo_loaded_gems_total",
			Help: "Gems decoded from blob storage",
		}),
		loadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gemgo_loaded_bytes_total",
			Help: "Bytes read from blob storage",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			c.opLatency,
			c.ops,
			c.indexedGems,
			c.roundBatch,
			c.impactedGems,
			c.baseline,
			c.revealed,
			c.loadedGems,
			c.loadedBytes,
		)
	}
	return c
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	status := "success"
	switch {
	case err == nil:
	case gemgo.IsTerminal(err):
		status = "terminal"
	default:
		status = "error"
	}
	c.opLatency.WithLabelValues(op, status).Observe(d.Seconds())
	c.ops.WithLabelValues(op, status).Inc()
}

// RecordIndexBuild implements gemgo.MetricsCollector.
func (c *Collector) RecordIndexBuild(gems int, d time.Duration, err error) {
	c.observe("index_build", d, err)
	if err == nil {
		c.indexedGems.Set(float64(gems))
	}
}

// RecordRound implements gemgo.MetricsCollector.
func (c *Collector) RecordRound(batch, impacted int, usedBaseline bool, d time.Duration, err error) {
	c.observe("round", d, err)
	if err != nil {
		return
	}
	c.roundBatch.Observe(float64(batch))
	c.revealed.Add(float64(batch))
	c.impactedGems.Add(float64(impacted))
	if usedBaseline {
		c.baseline.Inc()
	}
}

// RecordLoad implements gemgo.MetricsCollector.
func (c *Collector) RecordLoad(gems int, bytes int64, d time.Duration, err error) {
	c.observe("load", d, err)
	if err != nil {
		return
	}
	c.loadedGems.Add(float64(gems))
	c.loadedBytes.Add(float64(bytes))
}
