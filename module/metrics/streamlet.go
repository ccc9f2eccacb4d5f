package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/onflow/streamlet/model/flow"
	"github.com/onflow/streamlet/module"
)

// StreamletCollector reports the progress of one consensus replica. All
// metrics carry the replica's node ID as a constant label, so several
// replicas can share a registry.
type StreamletCollector struct {
	curEpoch         prometheus.Gauge
	skips            prometheus.Counter
	incorporated     prometheus.Counter
	notarized        prometheus.Counter
	notarizedEpoch   prometheus.Gauge
	finalizedHeight  prometheus.Gauge
	finalizedEpoch   prometheus.Gauge
	finalizedBlocks  prometheus.Counter
	votes            *prometheus.CounterVec
	violations       *prometheus.CounterVec
	dropped          *prometheus.CounterVec
	pendingProposals prometheus.Gauge
	pendingVotes     prometheus.Gauge
	inboundQueue     *prometheus.GaugeVec
	handlerDuration  *prometheus.HistogramVec
}

var _ module.StreamletMetrics = (*StreamletCollector)(nil)

func NewStreamletCollector(registerer prometheus.Registerer, nodeID flow.Identifier) *StreamletCollector {
	factory := promauto.With(registerer)
	labels := prometheus.Labels{LabelNodeID: nodeID.String()}

	sc := &StreamletCollector{
		curEpoch: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "cur_epoch",
			Namespace:   namespaceStreamlet,
			Subsystem:   subsystemEventHandler,
			Help:        "the current epoch of the replica",
			ConstLabels: labels,
		}),
		skips: factory.NewCounter(prometheus.CounterOpts{
			Name:        "skips_total",
			Namespace:   namespaceStreamlet,
			Subsystem:   subsystemEventHandler,
			Help:        "the number of epochs that ended without the replica voting",
			ConstLabels: labels,
		}),
		incorporated: factory.NewCounter(prometheus.CounterOpts{
			Name:        "blocks_incorporated_total",
			Namespace:   namespaceStreamlet,
			Subsystem:   subsystemEventHandler,
			Help:        "the number of blocks added to the block store",
			ConstLabels: labels,
		}),
		notarized: factory.NewCounter(prometheus.CounterOpts{
			Name:        "blocks_notarized_total",
			Namespace:   namespaceStreamlet,
			Subsystem:   subsystemVoteLedger,
			Help:        "the number of blocks that reached the notarization threshold",
			ConstLabels: labels,
		}),
		notarizedEpoch: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "notarized_epoch",
			Namespace:   namespaceStreamlet,
			Subsystem:   subsystemVoteLedger,
			Help:        "the epoch of the most recently notarized block",
			ConstLabels: labels,
		}),
		finalizedHeight: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "finalized_height",
			Namespace:   namespaceStreamlet,
			Subsystem:   subsystemFinalizer,
			Help:        "the height of the latest finalized block",
			ConstLabels: labels,
		}),
		finalizedEpoch: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "finalized_epoch",
			Namespace:   namespaceStreamlet,
			Subsystem:   subsystemFinalizer,
			Help:        "the epoch of the latest finalized block",
			ConstLabels: labels,
		}),
		finalizedBlocks: factory.NewCounter(prometheus.CounterOpts{
			Name:        "finalized_blocks_total",
			Namespace:   namespaceStreamlet,
			Subsystem:   subsystemFinalizer,
			Help:        "the number of finalized blocks",
			ConstLabels: labels,
		}),
		votes: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "votes_total",
			Namespace:   namespaceStreamlet,
			Subsystem:   subsystemVoteLedger,
			Help:        "the number of processed votes by outcome",
			ConstLabels: labels,
		}, []string{LabelOutcome}),
		violations: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "protocol_violations_total",
			Namespace:   namespaceStreamlet,
			Subsystem:   subsystemEventHandler,
			Help:        "the number of detected protocol violations by kind",
			ConstLabels: labels,
		}, []string{LabelKind}),
		dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "dropped_messages_total",
			Namespace:   namespaceStreamlet,
			Subsystem:   subsystemInbound,
			Help:        "the number of inbound messages dropped without processing by reason",
			ConstLabels: labels,
		}, []string{LabelReason}),
		pendingProposals: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "proposals",
			Namespace:   namespaceStreamlet,
			Subsystem:   subsystemPending,
			Help:        "the number of buffered proposals with an unknown parent",
			ConstLabels: labels,
		}),
		pendingVotes: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "votes",
			Namespace:   namespaceStreamlet,
			Subsystem:   subsystemPending,
			Help:        "the number of buffered votes for unknown blocks",
			ConstLabels: labels,
		}),
		inboundQueue: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "queue_length",
			Namespace:   namespaceStreamlet,
			Subsystem:   subsystemInbound,
			Help:        "the length of the inbound queues of the event loop",
			ConstLabels: labels,
		}, []string{LabelQueue}),
		handlerDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "handler_duration_seconds",
			Namespace:   namespaceStreamlet,
			Subsystem:   subsystemEventHandler,
			Help:        "the time the event handler spent processing an event",
			Buckets:     []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			ConstLabels: labels,
		}, []string{LabelEvent}),
	}

	return sc
}

func (sc *StreamletCollector) SetCurEpoch(epoch uint64) {
	sc.curEpoch.Set(float64(epoch))
}

func (sc *StreamletCollector) CountSkipped() {
	sc.skips.Inc()
}

func (sc *StreamletCollector) BlockIncorporated() {
	sc.incorporated.Inc()
}

func (sc *StreamletCollector) BlockNotarized(epoch uint64) {
	sc.notarized.Inc()
	sc.notarizedEpoch.Set(float64(epoch))
}

func (sc *StreamletCollector) BlockFinalized(height uint64, epoch uint64) {
	sc.finalizedBlocks.Inc()
	sc.finalizedHeight.Set(float64(height))
	sc.finalizedEpoch.Set(float64(epoch))
}

func (sc *StreamletCollector) VoteProcessed(outcome string) {
	sc.votes.WithLabelValues(outcome).Inc()
}

func (sc *StreamletCollector) ProtocolViolation(kind string) {
	sc.violations.WithLabelValues(kind).Inc()
}

func (sc *StreamletCollector) MessageDropped(reason string) {
	sc.dropped.WithLabelValues(reason).Inc()
}

func (sc *StreamletCollector) PendingBufferSize(proposals uint, votes uint) {
	sc.pendingProposals.Set(float64(proposals))
	sc.pendingVotes.Set(float64(votes))
}

func (sc *StreamletCollector) InboundQueueLength(queue string, length uint) {
	sc.inboundQueue.WithLabelValues(queue).Set(float64(length))
}

func (sc *StreamletCollector) HandlerDuration(duration time.Duration, event string) {
	sc.handlerDuration.WithLabelValues(event).Observe(duration.Seconds())
}
