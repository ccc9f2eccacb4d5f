package metrics

import (
	"time"

	"github.com/onflow/streamlet/module"
)

type NoopCollector struct{}

var _ module.StreamletMetrics = (*NoopCollector)(nil)
var _ module.StorageMetrics = (*NoopCollector)(nil)
var _ module.CacheMetrics = (*NoopCollector)(nil)
var _ module.MempoolMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) SetCurEpoch(epoch uint64)                             {}
func (nc *NoopCollector) CountSkipped()                                        {}
func (nc *NoopCollector) BlockIncorporated()                                   {}
func (nc *NoopCollector) BlockNotarized(epoch uint64)                          {}
func (nc *NoopCollector) BlockFinalized(height uint64, epoch uint64)           {}
func (nc *NoopCollector) VoteProcessed(outcome string)                         {}
func (nc *NoopCollector) ProtocolViolation(kind string)                        {}
func (nc *NoopCollector) MessageDropped(reason string)                         {}
func (nc *NoopCollector) PendingBufferSize(proposals uint, votes uint)         {}
func (nc *NoopCollector) InboundQueueLength(queue string, length uint)         {}
func (nc *NoopCollector) HandlerDuration(duration time.Duration, event string) {}
func (nc *NoopCollector) RetryOnConflict()                                     {}
func (nc *NoopCollector) StorageQueueLength(length uint)                       {}
func (nc *NoopCollector) StorageWriteFailed()                                  {}
func (nc *NoopCollector) CacheEntries(resource string, entries uint)           {}
func (nc *NoopCollector) CacheHit(resource string)                             {}
func (nc *NoopCollector) CacheNotFound(resource string)                        {}
func (nc *NoopCollector) CacheMiss(resource string)                            {}
func (nc *NoopCollector) MempoolEntries(resource string, entries uint)         {}
