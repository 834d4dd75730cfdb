package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mantlenetworkio/chainview/op-chainview/chain"
	"github.com/mantlenetworkio/chainview/op-chainview/types"
	opmetrics "github.com/mantlenetworkio/chainview/op-service/metrics"
)

const Namespace = "op_chainview"

type Metricer interface {
	RecordInfo(version string)
	RecordUp()

	chain.Metrics
	RecordTip(ref types.BlockRef)

	CacheAdd(label string, cacheSize int, evicted bool)
	CacheGet(label string, hit bool)

	RecordSnapshotVerified(entries int64)
	RecordTornSnapshot()

	Document() []opmetrics.DocumentedMetric
}

type Metrics struct {
	ns       string
	registry *prometheus.Registry
	factory  opmetrics.Factory

	RefMetrics opmetrics.RefMetrics

	ChainHeight      prometheus.Gauge
	BaseSize         prometheus.Gauge
	MergesTotal      prometheus.Counter
	TailCopiesTotal  prometheus.Counter
	TailCopySize     prometheus.Histogram
	RewindsTotal     prometheus.Counter
	RewindDepth      prometheus.Histogram
	SnapshotsTotal   prometheus.Counter
	SnapshotEntries  prometheus.Histogram
	TornSnapshots    prometheus.Counter

	CacheSizeVec *prometheus.GaugeVec
	CacheGetVec  *prometheus.CounterVec
	CacheAddVec  *prometheus.CounterVec

	info prometheus.GaugeVec
	up   prometheus.Gauge
}

var _ Metricer = (*Metrics)(nil)

// implements the Registry getter, for metrics HTTP server to hook into
var _ opmetrics.RegistryMetricer = (*Metrics)(nil)

func NewMetrics(procName string) *Metrics {
	if procName == "" {
		procName = "default"
	}
	ns := Namespace + "_" + procName

	registry := opmetrics.NewRegistry()
	factory := opmetrics.With(registry)

	return &Metrics{
		ns:       ns,
		registry: registry,
		factory:  factory,

		RefMetrics: opmetrics.MakeRefMetrics(ns, factory),

		info: *factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "info",
			Help:      "Pseudo-metric tracking version and config info",
		}, []string{
			"version",
		}),
		up: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "up",
			Help:      "1 if the op-chainview has finished starting up",
		}),

		ChainHeight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "chain_height",
			Help:      "Number of entries in the published chain",
		}),
		BaseSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "base_size",
			Help:      "Number of entries in the base segment after the last merge",
		}),
		MergesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "merges_total",
			Help:      "Number of times the tail was merged into a new base segment",
		}),
		TailCopiesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "tail_copies_total",
			Help:      "Number of times a shared tail was copied before an append",
		}),
		TailCopySize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "tail_copy_size",
			Help:      "Entries copied per tail copy",
			Buckets:   []float64{1, 2, 4, 8, 16, 64, 256, 1024},
		}),
		RewindsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "rewinds_total",
			Help:      "Number of rewinds and resets of the chain",
		}),
		RewindDepth: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "rewind_depth",
			Help:      "Entries removed per rewind",
			Buckets:   []float64{1, 2, 4, 8, 16, 64, 256},
		}),
		SnapshotsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "snapshots_verified_total",
			Help:      "Number of snapshots traversed and verified by readers",
		}),
		SnapshotEntries: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "snapshot_entries",
			Help:      "Entries traversed per verified snapshot",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		TornSnapshots: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "torn_snapshots_total",
			Help:      "Number of snapshots that were found not to be a contiguous chain",
		}),

		CacheSizeVec: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "cache_size",
			Help:      "Header cache size",
		}, []string{
			"type",
		}),
		CacheGetVec: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "cache_get",
			Help:      "Header cache lookups, hitting or not",
		}, []string{
			"type",
			"hit",
		}),
		CacheAddVec: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "cache_add",
			Help:      "Header cache additions, evicting previous values or not",
		}, []string{
			"type",
			"evicted",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Document() []opmetrics.DocumentedMetric {
	return m.factory.Document()
}

// RecordInfo sets a pseudo-metric that contains versioning and config info for the op-chainview.
func (m *Metrics) RecordInfo(version string) {
	m.info.WithLabelValues(version).Set(1)
}

// RecordUp sets the up metric to 1.
func (m *Metrics) RecordUp() {
	m.up.Set(1)
}

func (m *Metrics) RecordChainHeight(height int64) {
	m.ChainHeight.Set(float64(height))
}

func (m *Metrics) RecordMerge(baseSize int) {
	m.MergesTotal.Inc()
	m.BaseSize.Set(float64(baseSize))
}

func (m *Metrics) RecordTailCopy(size int) {
	m.TailCopiesTotal.Inc()
	m.TailCopySize.Observe(float64(size))
}

func (m *Metrics) RecordRewind(depth int64) {
	m.RewindsTotal.Inc()
	m.RewindDepth.Observe(float64(depth))
}

func (m *Metrics) RecordTip(ref types.BlockRef) {
	m.RefMetrics.RecordRef("chain", "tip", ref.Number, ref.Time, ref.Hash)
}

func (m *Metrics) CacheAdd(label string, cacheSize int, evicted bool) {
	m.CacheSizeVec.WithLabelValues(label).Set(float64(cacheSize))
	if evicted {
		m.CacheAddVec.WithLabelValues(label, "true").Inc()
	} else {
		m.CacheAddVec.WithLabelValues(label, "false").Inc()
	}
}

func (m *Metrics) CacheGet(label string, hit bool) {
	if hit {
		m.CacheGetVec.WithLabelValues(label, "true").Inc()
	} else {
		m.CacheGetVec.WithLabelValues(label, "false").Inc()
	}
}

func (m *Metrics) RecordSnapshotVerified(entries int64) {
	m.SnapshotsTotal.Inc()
	m.SnapshotEntries.Observe(float64(entries))
}

func (m *Metrics) RecordTornSnapshot() {
	m.TornSnapshots.Inc()
}
