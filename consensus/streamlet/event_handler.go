package streamlet

import (
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/module/component"
)

// EpochPhase is the engine's progress within the current epoch.
type EpochPhase int

const (
	// AwaitingEpoch means the engine has not entered any epoch yet.
	AwaitingEpoch EpochPhase = iota
	// Proposing means the local replica leads the epoch and is building its proposal.
	Proposing
	// Voting means the engine waits for the epoch's proposal to vote for.
	Voting
	// AwaitingVotes means the engine voted and waits for the epoch to end.
	AwaitingVotes
	// EpochComplete means a block of the current epoch was notarized.
	EpochComplete
)

func (p EpochPhase) String() string {
	switch p {
	case AwaitingEpoch:
		return "awaiting_epoch"
	case Proposing:
		return "proposing"
	case Voting:
		return "voting"
	case AwaitingVotes:
		return "awaiting_votes"
	case EpochComplete:
		return "epoch_complete"
	default:
		return "unknown"
	}
}

// EventHandler runs the state machine of a replica. It is driven by epoch
// ticks and inbound messages, and is NOT concurrency safe: the event loop
// feeds it from a single goroutine.
type EventHandler interface {

	// Start enters the epoch of the clock's current tick. Called once by the event loop.
	Start() error

	// OnEpochTick moves the replica to the given epoch. Stale ticks are ignored.
	OnEpochTick(epoch uint64) error

	// OnReceiveProposal processes a proposal received from another replica
	// or produced locally. Invalid proposals are dropped; only exceptions are returned.
	OnReceiveProposal(proposal *model.Proposal) error

	// OnReceiveVote processes a vote. Invalid votes are dropped; only
	// exceptions are returned.
	OnReceiveVote(vote *model.Vote) error

	// CurrentEpoch returns the epoch the replica is in.
	CurrentEpoch() uint64

	// Phase returns the replica's progress within the current epoch.
	Phase() EpochPhase
}

// EventLoop serializes all inbound events onto a single goroutine that drives
// the EventHandler.
type EventLoop interface {
	component.Component

	// SubmitProposal queues a proposal without blocking. Drops it if the queue is full.
	SubmitProposal(proposal *model.Proposal)

	// SubmitVote queues a vote without blocking. Drops it if the queue is full.
	SubmitVote(vote *model.Vote)
}
