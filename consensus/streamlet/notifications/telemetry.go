package notifications

import (
	"go.uber.org/atomic"

	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
	"github.com/onflow/streamlet/module"
	"github.com/onflow/streamlet/module/metrics"
)

// TelemetryConsumer translates protocol notifications into metrics. Finalized
// blocks are reported with their height, which the consumer derives by
// counting: OnFinalizedBlock is emitted exactly once per block, in chain order.
type TelemetryConsumer struct {
	NoopParticipantConsumer
	metrics         module.StreamletMetrics
	finalizedHeight *atomic.Uint64
}

var _ streamlet.Consumer = (*TelemetryConsumer)(nil)

// NewTelemetryConsumer returns a consumer reporting to the given collector.
// finalizedHeight is the height of the latest finalized block at startup.
func NewTelemetryConsumer(collector module.StreamletMetrics, finalizedHeight uint64) *TelemetryConsumer {
	return &TelemetryConsumer{
		metrics:         collector,
		finalizedHeight: atomic.NewUint64(finalizedHeight),
	}
}

func (t *TelemetryConsumer) OnBlockIncorporated(*model.Block) {
	t.metrics.BlockIncorporated()
}

func (t *TelemetryConsumer) OnBlockNotarized(block *model.Block) {
	t.metrics.BlockNotarized(block.Epoch)
}

func (t *TelemetryConsumer) OnFinalizedBlock(block *model.Block) {
	t.metrics.BlockFinalized(t.finalizedHeight.Inc(), block.Epoch)
}

func (t *TelemetryConsumer) OnVoteProcessed(_ *model.Vote, outcome model.VoteOutcome) {
	t.metrics.VoteProcessed(outcome.String())
}

func (t *TelemetryConsumer) OnDoubleVotingDetected(*model.Vote, *model.Vote) {
	t.metrics.ProtocolViolation(metrics.KindDoubleVote)
}

func (t *TelemetryConsumer) OnInvalidVoteDetected(model.InvalidVoteError) {
	t.metrics.ProtocolViolation(metrics.KindInvalidVote)
}

func (t *TelemetryConsumer) OnInvalidBlockDetected(model.InvalidBlockError) {
	t.metrics.ProtocolViolation(metrics.KindInvalidBlock)
}

func (t *TelemetryConsumer) OnInvalidProposalDetected(model.InvalidProposalError) {
	t.metrics.ProtocolViolation(metrics.KindInvalidProposal)
}

func (t *TelemetryConsumer) OnDoubleProposeDetected(*model.Block, *model.Block) {
	t.metrics.ProtocolViolation(metrics.KindDoubleProposal)
}

func (t *TelemetryConsumer) OnEnteringEpoch(epoch uint64, _ flow.Identifier) {
	t.metrics.SetCurEpoch(epoch)
}

func (t *TelemetryConsumer) OnSkippedEpoch(uint64) {
	t.metrics.CountSkipped()
}

func (t *TelemetryConsumer) OnMessageOutsideWindow(uint64, uint64) {
	t.metrics.MessageDropped(metrics.ReasonOutsideWindow)
}
