package metrics

import (
	"github.com/mantlenetworkio/chainview/op-chainview/chain"
	"github.com/mantlenetworkio/chainview/op-chainview/types"
	opmetrics "github.com/mantlenetworkio/chainview/op-service/metrics"
)

type noopMetrics struct {
	chain.NoopMetrics
}

var NoopMetrics Metricer = new(noopMetrics)

func (*noopMetrics) Document() []opmetrics.DocumentedMetric { return nil }

func (*noopMetrics) RecordInfo(version string) {}
func (*noopMetrics) RecordUp()                 {}

func (*noopMetrics) RecordTip(_ types.BlockRef) {}

func (*noopMetrics) CacheAdd(_ string, _ int, _ bool) {}
func (*noopMetrics) CacheGet(_ string, _ bool)        {}

func (*noopMetrics) RecordSnapshotVerified(_ int64) {}
func (*noopMetrics) RecordTornSnapshot()            {}
