package streamlet

import (
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

// Hasher derives block identifiers from block content.
type Hasher = model.Hasher

// Signer is responsible for creating votes and proposals with the local
// replica's key.
type Signer interface {
	// CreateProposal signs the block ID of the given block.
	CreateProposal(block *model.Block) (*model.Proposal, error)

	// CreateVote signs epoch‖block_id for the given block.
	CreateVote(block *model.Block) (*model.Vote, error)
}

// Verifier checks signatures of proposals and votes against the public key
// of the claimed signer.
//
// Expected errors during normal operations:
//   - model.ErrInvalidSignature if the signature does not verify
//
// All other errors are exceptions.
type Verifier interface {
	VerifyProposal(proposer *flow.Identity, proposal *model.Proposal) error
	VerifyVote(voter *flow.Identity, vote *model.Vote) error
}
