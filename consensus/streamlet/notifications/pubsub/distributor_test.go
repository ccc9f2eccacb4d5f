package pubsub_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/onflow/streamlet/consensus/streamlet/mocks"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/consensus/streamlet/notifications/pubsub"
	"github.com/onflow/streamlet/utils/unittest"
)

// TestDistributorFansOut checks that every subscriber receives every event.
func TestDistributorFansOut(t *testing.T) {
	genesis := unittest.GenesisFixture()
	block := unittest.BlockFixture(genesis, 1)
	vote := unittest.VoteForBlockFixture(block, unittest.IdentifierFixture())

	distributor := pubsub.NewDistributor()
	subscribers := []*mocks.Consumer{mocks.NewConsumer(t), mocks.NewConsumer(t)}
	for _, s := range subscribers {
		s.On("OnBlockNotarized", block).Once()
		s.On("OnVoteProcessed", vote, model.VoteCountedNewlyNotarized).Once()
		s.On("OnEnteringEpoch", uint64(3), block.ProposerID).Once()
		s.On("OnMessageOutsideWindow", uint64(3), uint64(20)).Once()
		distributor.AddConsumer(s)
	}

	distributor.OnBlockNotarized(block)
	distributor.OnVoteProcessed(vote, model.VoteCountedNewlyNotarized)
	distributor.OnEnteringEpoch(3, block.ProposerID)
	distributor.OnMessageOutsideWindow(3, 20)
}

func TestDistributorWithoutSubscribers(t *testing.T) {
	distributor := pubsub.NewDistributor()
	distributor.OnFinalizedBlock(unittest.GenesisFixture())
	distributor.OnEventProcessed()
}

func TestFinalizationDistributor(t *testing.T) {
	genesis := unittest.GenesisFixture()
	block := unittest.BlockFixture(genesis, 1)

	distributor := pubsub.NewFinalizationDistributor()
	var finalized, notarized []*model.Block
	distributor.AddOnBlockFinalizedConsumer(func(b *model.Block) { finalized = append(finalized, b) })
	distributor.AddOnBlockNotarizedConsumer(func(b *model.Block) { notarized = append(notarized, b) })

	consumer := mocks.NewFinalizationConsumer(t)
	consumer.On("OnBlockIncorporated", block).Once()
	consumer.On("OnBlockNotarized", block).Once()
	consumer.On("OnFinalizedBlock", mock.Anything).Once()
	distributor.AddConsumer(consumer)

	distributor.OnBlockIncorporated(block)
	distributor.OnBlockNotarized(block)
	distributor.OnFinalizedBlock(block)

	assert.Equal(t, []*model.Block{block}, finalized)
	assert.Equal(t, []*model.Block{block}, notarized)
}
