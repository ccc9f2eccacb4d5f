package verification

import (
	"crypto/ed25519"
	"fmt"

	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

// Ed25519Signer creates proposals and votes signed with the local replica's
// ed25519 key.
type Ed25519Signer struct {
	signerID flow.Identifier
	key      ed25519.PrivateKey
}

var _ streamlet.Signer = (*Ed25519Signer)(nil)

// NewEd25519Signer instantiates a signer for the replica with the given ID.
func NewEd25519Signer(signerID flow.Identifier, key ed25519.PrivateKey) (*Ed25519Signer, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, model.NewConfigurationErrorf("invalid ed25519 private key length %d", len(key))
	}
	return &Ed25519Signer{
		signerID: signerID,
		key:      key,
	}, nil
}

// CreateProposal signs the block ID of a block proposed by the local replica.
func (s *Ed25519Signer) CreateProposal(block *model.Block) (*model.Proposal, error) {
	if block.ProposerID != s.signerID {
		return nil, fmt.Errorf("can't create proposal for someone else's block (proposer %x)", block.ProposerID)
	}

	sigData := ed25519.Sign(s.key, model.ProposalMessage(block))
	return &model.Proposal{
		Block:   block,
		SigData: sigData,
	}, nil
}

// CreateVote signs epoch‖block_id of the given block.
func (s *Ed25519Signer) CreateVote(block *model.Block) (*model.Vote, error) {
	sigData := ed25519.Sign(s.key, model.VoteMessage(block.Epoch, block.BlockID))
	vote, err := model.NewVote(model.UntrustedVote{
		Epoch:    block.Epoch,
		BlockID:  block.BlockID,
		SignerID: s.signerID,
		SigData:  sigData,
	})
	if err != nil {
		return nil, fmt.Errorf("could not construct vote for block %x at epoch %d: %w", block.BlockID, block.Epoch, err)
	}
	return vote, nil
}
