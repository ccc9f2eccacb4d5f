package model_test

import (
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

type sha256Hasher struct{}

func (sha256Hasher) Hash(data []byte) flow.Identifier {
	return flow.Identifier(sha256.Sum256(data))
}

func TestBlockID(t *testing.T) {
	hasher := sha256Hasher{}
	genesis := model.Genesis(hasher)
	proposer := flow.Identifier{0x01}

	t.Run("genesis is deterministic", func(t *testing.T) {
		other := model.Genesis(hasher)
		assert.Equal(t, genesis.BlockID, other.BlockID)
		assert.True(t, genesis.IsGenesis())
		require.NoError(t, genesis.Verify(hasher))
	})

	t.Run("ID covers epoch, parent and payload", func(t *testing.T) {
		base := model.UntrustedBlock{Epoch: 1, ParentID: genesis.BlockID, Payload: []byte("tx"), ProposerID: proposer}
		block, err := model.NewBlock(hasher, base)
		require.NoError(t, err)
		require.NoError(t, block.Verify(hasher))

		differentEpoch := base
		differentEpoch.Epoch = 2
		differentPayload := base
		differentPayload.Payload = []byte("ty")
		differentParent := base
		differentParent.ParentID = flow.Identifier{0xaa}

		for _, untrusted := range []model.UntrustedBlock{differentEpoch, differentPayload, differentParent} {
			other, err := model.NewBlock(hasher, untrusted)
			require.NoError(t, err)
			assert.NotEqual(t, block.BlockID, other.BlockID)
		}

		// the proposer is not part of the content hash
		otherProposer := base
		otherProposer.ProposerID = flow.Identifier{0x02}
		other, err := model.NewBlock(hasher, otherProposer)
		require.NoError(t, err)
		assert.Equal(t, block.BlockID, other.BlockID)
	})

	t.Run("tampered content fails verification", func(t *testing.T) {
		block, err := model.NewBlock(hasher, model.UntrustedBlock{Epoch: 1, ParentID: genesis.BlockID, Payload: []byte("tx"), ProposerID: proposer})
		require.NoError(t, err)
		tampered := *block
		tampered.Payload = []byte("evil")
		err = tampered.Verify(hasher)
		require.Error(t, err)
		assert.True(t, model.IsInvalidBlockError(err))
		assert.True(t, model.IsProtocolViolation(err))
	})

	t.Run("invalid construction input", func(t *testing.T) {
		_, err := model.NewBlock(hasher, model.UntrustedBlock{Epoch: 0, ParentID: genesis.BlockID, ProposerID: proposer})
		assert.Error(t, err)
		_, err = model.NewBlock(hasher, model.UntrustedBlock{Epoch: 1, ParentID: flow.ZeroID, ProposerID: proposer})
		assert.Error(t, err)
		_, err = model.NewBlock(hasher, model.UntrustedBlock{Epoch: 1, ParentID: genesis.BlockID})
		assert.Error(t, err)
	})
}

func TestVoteConstruction(t *testing.T) {
	valid := model.UntrustedVote{Epoch: 3, BlockID: flow.Identifier{0x01}, SignerID: flow.Identifier{0x02}, SigData: []byte{0x03}}
	vote, err := model.NewVote(valid)
	require.NoError(t, err)
	assert.True(t, vote.SameAs(vote))

	invalid := []func(v *model.UntrustedVote){
		func(v *model.UntrustedVote) { v.Epoch = 0 },
		func(v *model.UntrustedVote) { v.BlockID = flow.ZeroID },
		func(v *model.UntrustedVote) { v.SignerID = flow.ZeroID },
		func(v *model.UntrustedVote) { v.SigData = nil },
	}
	for i, mutate := range invalid {
		untrusted := valid
		mutate(&untrusted)
		_, err := model.NewVote(untrusted)
		assert.Error(t, err, fmt.Sprintf("case %d", i))
	}
}

func TestSignedMessagesAreDomainSeparated(t *testing.T) {
	hasher := sha256Hasher{}
	block, err := model.NewBlock(hasher, model.UntrustedBlock{Epoch: 1, ParentID: model.Genesis(hasher).BlockID, ProposerID: flow.Identifier{0x01}})
	require.NoError(t, err)

	assert.NotEqual(t, model.ProposalMessage(block), model.VoteMessage(block.Epoch, block.BlockID))
	assert.NotEqual(t, model.VoteMessage(1, block.BlockID), model.VoteMessage(2, block.BlockID))
}

func TestErrorClassification(t *testing.T) {
	vote := &model.Vote{Epoch: 1, BlockID: flow.Identifier{0x01}, SignerID: flow.Identifier{0x02}}

	doubleVote := model.NewDoubleVoteErrorf(vote, vote, "equivocation")
	wrapped := fmt.Errorf("context: %w", doubleVote)
	dve, ok := model.AsDoubleVoteError(wrapped)
	require.True(t, ok)
	assert.Equal(t, vote, dve.FirstVote)
	assert.True(t, model.IsProtocolViolation(wrapped))

	unknownSigner := model.NewInvalidVoteError(vote, model.NewInvalidSignerErrorf("unknown signer %x", vote.SignerID))
	assert.True(t, model.IsInvalidVoteError(unknownSigner))
	assert.True(t, model.IsInvalidSignerError(unknownSigner))

	badSig := model.NewInvalidVoteError(vote, model.ErrInvalidSignature)
	assert.ErrorIs(t, badSig, model.ErrInvalidSignature)

	assert.False(t, model.IsProtocolViolation(model.MissingBlockError{BlockID: flow.Identifier{0x01}}))
	assert.False(t, model.IsProtocolViolation(fmt.Errorf("disk full")))
	assert.True(t, model.IsConfigurationError(fmt.Errorf("wrap: %w", model.NewConfigurationErrorf("bad"))))
}
