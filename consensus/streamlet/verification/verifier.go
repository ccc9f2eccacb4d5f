package verification

import (
	"crypto/ed25519"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/sha3"

	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

// DefaultVerifiedCacheSize is the number of verified signatures remembered.
const DefaultVerifiedCacheSize = 4096

// Ed25519Verifier checks ed25519 signatures of proposals and votes.
// Signatures that verified before are remembered, so redelivered messages are
// not verified twice. Safe for concurrent use.
type Ed25519Verifier struct {
	verified *lru.Cache[flow.Identifier, struct{}]
}

var _ streamlet.Verifier = (*Ed25519Verifier)(nil)

// NewEd25519Verifier returns a verifier remembering up to cacheSize verified signatures.
func NewEd25519Verifier(cacheSize int) (*Ed25519Verifier, error) {
	cache, err := lru.New[flow.Identifier, struct{}](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("could not create verified signature cache: %w", err)
	}
	return &Ed25519Verifier{verified: cache}, nil
}

// VerifyProposal checks the proposer's signature over the block ID.
// Returns model.ErrInvalidSignature if the signature is invalid.
func (v *Ed25519Verifier) VerifyProposal(proposer *flow.Identity, proposal *model.Proposal) error {
	return v.verify(proposer, model.ProposalMessage(proposal.Block), proposal.SigData)
}

// VerifyVote checks the voter's signature over epoch‖block_id.
// Returns model.ErrInvalidSignature if the signature is invalid.
func (v *Ed25519Verifier) VerifyVote(voter *flow.Identity, vote *model.Vote) error {
	return v.verify(voter, model.VoteMessage(vote.Epoch, vote.BlockID), vote.SigData)
}

func (v *Ed25519Verifier) verify(signer *flow.Identity, msg []byte, sig []byte) error {
	if len(signer.PublicKey) != ed25519.PublicKeySize {
		return fmt.Errorf("signer %x has a malformed public key: %w", signer.NodeID, model.ErrInvalidSignature)
	}

	key := cacheKey(signer.PublicKey, msg, sig)
	if v.verified.Contains(key) {
		return nil
	}
	if !ed25519.Verify(signer.PublicKey, msg, sig) {
		return fmt.Errorf("signature by %x does not verify: %w", signer.NodeID, model.ErrInvalidSignature)
	}
	v.verified.Add(key, struct{}{})
	return nil
}

func cacheKey(publicKey []byte, msg []byte, sig []byte) flow.Identifier {
	hasher := sha3.New256()
	_, _ = hasher.Write(publicKey)
	_, _ = hasher.Write(msg)
	_, _ = hasher.Write(sig)
	return flow.HashToID(hasher.Sum(nil))
}
