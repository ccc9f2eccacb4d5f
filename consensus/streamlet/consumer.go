package streamlet

import (
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

// FinalizationConsumer consumes outbound notifications about the block tree.
// Implementations must:
//   - be concurrency safe
//   - be non-blocking
//   - handle repetition of the same events (with some processing overhead).
type FinalizationConsumer interface {
	// OnBlockIncorporated notifications are produced by the engine when a
	// block is added to the block store.
	OnBlockIncorporated(block *model.Block)

	// OnBlockNotarized notifications are produced when a stored block first
	// reaches the notarization threshold.
	OnBlockNotarized(block *model.Block)

	// OnFinalizedBlock notifications are produced once per block, in chain
	// order, when the block becomes part of the finalized prefix.
	OnFinalizedBlock(block *model.Block)
}

// VoteLedgerConsumer consumes outbound notifications produced by the vote ledger.
// Implementations must be concurrency safe and non-blocking.
type VoteLedgerConsumer interface {
	// OnVoteProcessed notifications are produced for every vote the ledger accepted.
	OnVoteProcessed(vote *model.Vote, outcome model.VoteOutcome)

	// OnDoubleVotingDetected notifications are produced when a replica voted
	// for two different blocks in the same epoch.
	OnDoubleVotingDetected(first *model.Vote, conflicting *model.Vote)

	// OnInvalidVoteDetected notifications are produced for votes from unknown
	// signers or with invalid signatures.
	OnInvalidVoteDetected(err model.InvalidVoteError)
}

// ProtocolViolationConsumer consumes evidence of Byzantine proposers.
// Implementations must be concurrency safe and non-blocking.
type ProtocolViolationConsumer interface {
	// OnInvalidBlockDetected notifications are produced for blocks that fail
	// content or epoch validation.
	OnInvalidBlockDetected(err model.InvalidBlockError)

	// OnInvalidProposalDetected notifications are produced for proposals
	// with bad signatures or from a replica that does not lead the epoch.
	OnInvalidProposalDetected(err model.InvalidProposalError)

	// OnDoubleProposeDetected notifications are produced when the leader of
	// an epoch proposed two different blocks.
	OnDoubleProposeDetected(first *model.Block, second *model.Block)
}

// ParticipantConsumer consumes outbound notifications produced by the
// consensus engine while it processes events.
// Implementations must be concurrency safe and non-blocking.
type ParticipantConsumer interface {
	// OnEventProcessed is called after the engine has fully processed an event.
	OnEventProcessed()

	// OnStart is called once when the engine starts, with the epoch it starts in.
	OnStart(currentEpoch uint64)

	// OnEnteringEpoch is called whenever the engine enters a new epoch.
	OnEnteringEpoch(epoch uint64, leader flow.Identifier)

	// OnSkippedEpoch is called when an epoch ends without the local replica
	// having voted in it.
	OnSkippedEpoch(epoch uint64)

	// OnReceiveProposal is called whenever the engine receives a proposal.
	OnReceiveProposal(currentEpoch uint64, proposal *model.Proposal)

	// OnReceiveVote is called whenever the engine receives a vote.
	OnReceiveVote(currentEpoch uint64, vote *model.Vote)

	// OnOwnProposal is called after the local replica signed a proposal and
	// handed it to the communicator.
	OnOwnProposal(proposal *model.Proposal)

	// OnOwnVote is called after the local replica persisted and broadcast a vote.
	OnOwnVote(vote *model.Vote)

	// OnProposalBuffered is called when a proposal waits for its parent.
	OnProposalBuffered(proposal *model.Proposal)

	// OnVoteBuffered is called when a vote waits for its block.
	OnVoteBuffered(vote *model.Vote)

	// OnMessageOutsideWindow is called when a message is dropped because its
	// epoch is too far from the current epoch.
	OnMessageOutsideWindow(currentEpoch uint64, messageEpoch uint64)
}

// Consumer consumes all outbound notifications of a replica.
type Consumer interface {
	FinalizationConsumer
	VoteLedgerConsumer
	ProtocolViolationConsumer
	ParticipantConsumer
}
