package unittest

import (
	"crypto/ed25519"
	crand "crypto/rand"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/onflow/streamlet/consensus/streamlet/committees"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/consensus/streamlet/verification"
	"github.com/onflow/streamlet/model/flow"
)

// Hasher returns the hasher all fixtures derive block IDs with.
func Hasher() model.Hasher {
	return verification.NewSHA3Hasher()
}

func IdentifierFixture() flow.Identifier {
	var id flow.Identifier
	_, err := crand.Read(id[:])
	if err != nil {
		panic(err)
	}
	return id
}

func IdentifierListFixture(n int) flow.IdentifierList {
	list := make(flow.IdentifierList, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, IdentifierFixture())
	}
	return list
}

func PayloadFixture() []byte {
	payload := make([]byte, 16)
	_, err := crand.Read(payload)
	if err != nil {
		panic(err)
	}
	return payload
}

func SignatureFixture() []byte {
	sig := make([]byte, ed25519.SignatureSize)
	_, err := crand.Read(sig)
	if err != nil {
		panic(err)
	}
	return sig
}

// Participant is a committee member with its private key.
type Participant struct {
	Identity   *flow.Identity
	PrivateKey ed25519.PrivateKey
}

func (p *Participant) NodeID() flow.Identifier {
	return p.Identity.NodeID
}

// Signer returns an ed25519 signer for the participant's key.
func (p *Participant) Signer() *verification.Ed25519Signer {
	signer, err := verification.NewEd25519Signer(p.NodeID(), p.PrivateKey)
	if err != nil {
		panic(err)
	}
	return signer
}

// Vote returns the participant's signed vote for the block.
func (p *Participant) Vote(block *model.Block) *model.Vote {
	vote, err := p.Signer().CreateVote(block)
	if err != nil {
		panic(err)
	}
	return vote
}

// Propose returns the participant's signed proposal for a block it proposed.
func (p *Participant) Propose(block *model.Block) *model.Proposal {
	proposal, err := p.Signer().CreateProposal(block)
	if err != nil {
		panic(err)
	}
	return proposal
}

// ParticipantFixture returns a participant with a fresh ed25519 key pair.
func ParticipantFixture() *Participant {
	pub, priv, err := ed25519.GenerateKey(crand.Reader)
	if err != nil {
		panic(err)
	}
	return &Participant{
		Identity: &flow.Identity{
			NodeID:    IdentifierFixture(),
			Address:   fmt.Sprintf("node-%x.streamlet:0", pub[:4]),
			PublicKey: pub,
		},
		PrivateKey: priv,
	}
}

// ParticipantsFixture returns n participants in canonical (ascending node ID) order.
func ParticipantsFixture(n int) []*Participant {
	participants := make([]*Participant, 0, n)
	for i := 0; i < n; i++ {
		participants = append(participants, ParticipantFixture())
	}
	ordered := IdentityListOf(participants).Order(flow.Canonical)
	byID := make(map[flow.Identifier]*Participant, n)
	for _, p := range participants {
		byID[p.NodeID()] = p
	}
	for i, identity := range ordered {
		participants[i] = byID[identity.NodeID]
	}
	return participants
}

// IdentityListOf returns the identities of the participants, in order.
func IdentityListOf(participants []*Participant) flow.IdentityList {
	list := make(flow.IdentityList, 0, len(participants))
	for _, p := range participants {
		list = append(list, p.Identity)
	}
	return list
}

// ParticipantByID looks up a participant by node ID and fails the test if absent.
func ParticipantByID(t testing.TB, participants []*Participant, nodeID flow.Identifier) *Participant {
	for _, p := range participants {
		if p.NodeID() == nodeID {
			return p
		}
	}
	require.FailNow(t, "unknown participant", "node %x", nodeID)
	return nil
}

// CommitteeFixture returns a static committee of the participants as seen by self.
func CommitteeFixture(t testing.TB, participants []*Participant, self flow.Identifier) *committees.Static {
	committee, err := committees.NewStaticCommittee(IdentityListOf(participants), self)
	require.NoError(t, err)
	return committee
}

func GenesisFixture() *model.Block {
	return model.Genesis(Hasher())
}

func WithPayload(payload []byte) func(*model.UntrustedBlock) {
	return func(block *model.UntrustedBlock) {
		block.Payload = payload
	}
}

func WithProposer(proposerID flow.Identifier) func(*model.UntrustedBlock) {
	return func(block *model.UntrustedBlock) {
		block.ProposerID = proposerID
	}
}

// BlockFixture returns a block at the given epoch extending parent, with a
// random payload and proposer unless overridden.
func BlockFixture(parent *model.Block, epoch uint64, opts ...func(*model.UntrustedBlock)) *model.Block {
	untrusted := model.UntrustedBlock{
		Epoch:      epoch,
		ParentID:   parent.BlockID,
		Payload:    PayloadFixture(),
		ProposerID: IdentifierFixture(),
	}
	for _, apply := range opts {
		apply(&untrusted)
	}
	block, err := model.NewBlock(Hasher(), untrusted)
	if err != nil {
		panic(err)
	}
	return block
}

// ChainFixture returns a chain of blocks extending parent, one per given epoch.
func ChainFixture(parent *model.Block, epochs ...uint64) []*model.Block {
	chain := make([]*model.Block, 0, len(epochs))
	for _, epoch := range epochs {
		block := BlockFixture(parent, epoch)
		chain = append(chain, block)
		parent = block
	}
	return chain
}

func WithVoteEpoch(epoch uint64) func(*model.Vote) {
	return func(vote *model.Vote) {
		vote.Epoch = epoch
	}
}

func WithVoteBlockID(blockID flow.Identifier) func(*model.Vote) {
	return func(vote *model.Vote) {
		vote.BlockID = blockID
	}
}

func WithVoteSignerID(signerID flow.Identifier) func(*model.Vote) {
	return func(vote *model.Vote) {
		vote.SignerID = signerID
	}
}

// VoteFixture returns a vote with a random, unverifiable signature.
func VoteFixture(opts ...func(*model.Vote)) *model.Vote {
	vote := &model.Vote{
		Epoch:    1,
		BlockID:  IdentifierFixture(),
		SignerID: IdentifierFixture(),
		SigData:  SignatureFixture(),
	}
	for _, apply := range opts {
		apply(vote)
	}
	return vote
}

// VoteForBlockFixture returns an unsigned vote for the block by the given signer.
func VoteForBlockFixture(block *model.Block, signerID flow.Identifier) *model.Vote {
	return VoteFixture(WithVoteEpoch(block.Epoch), WithVoteBlockID(block.BlockID), WithVoteSignerID(signerID))
}
