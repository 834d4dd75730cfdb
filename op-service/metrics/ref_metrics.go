package metrics

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ethereum/go-ethereum/common"
)

type RefMetricer interface {
	RecordRef(layer string, name string, num uint64, timestamp uint64, h common.Hash)
}

// RefMetrics provides block reference metrics. It is embedded into a service metrics type,
// which sets up the namespace and factory before calling MakeRefMetrics.
type RefMetrics struct {
	RefsNumber  *prometheus.GaugeVec
	RefsTime    *prometheus.GaugeVec
	RefsHash    *prometheus.GaugeVec
	RefsLatency *prometheus.GaugeVec
	// hash of the last seen block per name, so latency is only measured on the first occurrence
	latencySeen map[string]common.Hash
	mu          *sync.Mutex // by pointer reference, since RefMetrics is copied
}

var _ RefMetricer = (*RefMetrics)(nil)

// MakeRefMetrics returns a new RefMetrics, initializing its prometheus fields using factory.
//
// ns is the fully qualified namespace, e.g. "op_chainview_default".
func MakeRefMetrics(ns string, factory Factory) RefMetrics {
	labels := []string{"layer", "type"}
	return RefMetrics{
		RefsNumber: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "refs_number",
			Help:      "Gauge representing the different block reference numbers",
		}, labels),
		RefsTime: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "refs_time",
			Help:      "Gauge representing the different block reference timestamps",
		}, labels),
		RefsHash: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "refs_hash",
			Help:      "Gauge representing the different block reference hashes truncated to float values",
		}, labels),
		RefsLatency: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "refs_latency",
			Help:      "Gauge representing the different block reference timestamps minus current time, in seconds",
		}, labels),
		latencySeen: make(map[string]common.Hash),
		mu:          new(sync.Mutex),
	}
}

func (m *RefMetrics) RecordRef(layer string, name string, num uint64, timestamp uint64, h common.Hash) {
	m.mu.Lock()
	defer m.mu.Unlock()

	labels := []string{layer, name}
	m.RefsNumber.WithLabelValues(labels...).Set(float64(num))
	if timestamp != 0 {
		m.RefsTime.WithLabelValues(labels...).Set(float64(timestamp))
		if m.latencySeen[name] != h {
			m.latencySeen[name] = h
			m.RefsLatency.WithLabelValues(labels...).Set(float64(timestamp) - (float64(time.Now().UnixNano()) / 1e9))
		}
	}
	// the first 8 bytes of the hash, as float, to graph hash changes and spot divergences
	m.RefsHash.WithLabelValues(labels...).Set(float64(binary.LittleEndian.Uint64(h[:])))
}
