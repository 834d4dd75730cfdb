package chain

type Metrics interface {
	RecordChainHeight(height int64)
	RecordMerge(baseSize int)
	RecordTailCopy(size int)
	RecordRewind(depth int64)
}

type NoopMetrics struct{}

func (NoopMetrics) RecordChainHeight(height int64) {}
func (NoopMetrics) RecordMerge(baseSize int)        {}
func (NoopMetrics) RecordTailCopy(size int)         {}
func (NoopMetrics) RecordRewind(depth int64)        {}

var _ Metrics = NoopMetrics{}
