package streamlet

import (
	"github.com/onflow/streamlet/consensus/streamlet/model"
)

// Communicator is the outbound network interface of the consensus engine.
// Implementations must hand the message off without blocking on delivery.
type Communicator interface {
	// BroadcastProposal sends the proposal to all other committee members.
	BroadcastProposal(proposal *model.Proposal) error

	// BroadcastVote sends the vote to all other committee members.
	BroadcastVote(vote *model.Vote) error
}

// PayloadProvider supplies the opaque payload for a block the local replica
// proposes.
type PayloadProvider interface {
	GetPayload(epoch uint64) ([]byte, error)
}
