package notifications

import (
	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

// NoopConsumer is an implementation of the notifications consumer that
// doesn't do anything.
type NoopConsumer struct {
	NoopFinalizationConsumer
	NoopVoteLedgerConsumer
	NoopProtocolViolationConsumer
	NoopParticipantConsumer
}

var _ streamlet.Consumer = (*NoopConsumer)(nil)

func NewNoopConsumer() *NoopConsumer {
	nc := &NoopConsumer{}
	return nc
}

// no-op implementation of streamlet.FinalizationConsumer

type NoopFinalizationConsumer struct{}

var _ streamlet.FinalizationConsumer = (*NoopFinalizationConsumer)(nil)

func (*NoopFinalizationConsumer) OnBlockIncorporated(*model.Block) {}

func (*NoopFinalizationConsumer) OnBlockNotarized(*model.Block) {}

func (*NoopFinalizationConsumer) OnFinalizedBlock(*model.Block) {}

// no-op implementation of streamlet.VoteLedgerConsumer

type NoopVoteLedgerConsumer struct{}

var _ streamlet.VoteLedgerConsumer = (*NoopVoteLedgerConsumer)(nil)

func (*NoopVoteLedgerConsumer) OnVoteProcessed(*model.Vote, model.VoteOutcome) {}

func (*NoopVoteLedgerConsumer) OnDoubleVotingDetected(*model.Vote, *model.Vote) {}

func (*NoopVoteLedgerConsumer) OnInvalidVoteDetected(model.InvalidVoteError) {}

// no-op implementation of streamlet.ProtocolViolationConsumer

type NoopProtocolViolationConsumer struct{}

var _ streamlet.ProtocolViolationConsumer = (*NoopProtocolViolationConsumer)(nil)

func (*NoopProtocolViolationConsumer) OnInvalidBlockDetected(model.InvalidBlockError) {}

func (*NoopProtocolViolationConsumer) OnInvalidProposalDetected(model.InvalidProposalError) {}

func (*NoopProtocolViolationConsumer) OnDoubleProposeDetected(*model.Block, *model.Block) {}

// no-op implementation of streamlet.ParticipantConsumer

type NoopParticipantConsumer struct{}

var _ streamlet.ParticipantConsumer = (*NoopParticipantConsumer)(nil)

func (*NoopParticipantConsumer) OnEventProcessed() {}

func (*NoopParticipantConsumer) OnStart(uint64) {}

func (*NoopParticipantConsumer) OnEnteringEpoch(uint64, flow.Identifier) {}

func (*NoopParticipantConsumer) OnSkippedEpoch(uint64) {}

func (*NoopParticipantConsumer) OnReceiveProposal(uint64, *model.Proposal) {}

func (*NoopParticipantConsumer) OnReceiveVote(uint64, *model.Vote) {}

func (*NoopParticipantConsumer) OnOwnProposal(*model.Proposal) {}

func (*NoopParticipantConsumer) OnOwnVote(*model.Vote) {}

func (*NoopParticipantConsumer) OnProposalBuffered(*model.Proposal) {}

func (*NoopParticipantConsumer) OnVoteBuffered(*model.Vote) {}

func (*NoopParticipantConsumer) OnMessageOutsideWindow(uint64, uint64) {}
