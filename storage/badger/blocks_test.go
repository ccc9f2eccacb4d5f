package badger_test

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/module/metrics"
	"github.com/onflow/streamlet/storage"
	bstorage "github.com/onflow/streamlet/storage/badger"
	"github.com/onflow/streamlet/utils/unittest"
)

func TestBlocksStoreAndRetrieve(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		blocks := bstorage.NewBlocks(metrics.NewNoopCollector(), db, 2)
		genesis := unittest.GenesisFixture()
		chain := unittest.ChainFixture(genesis, 1, 2, 5, 6)

		for _, block := range chain {
			require.NoError(t, blocks.Store(block))
		}
		// storing again is a no-op
		require.NoError(t, blocks.Store(chain[0]))

		// the cache holds only two blocks, older ones are read from the database
		for _, block := range chain {
			actual, err := blocks.ByID(block.BlockID)
			require.NoError(t, err)
			assert.Equal(t, block, actual)
		}

		_, err := blocks.ByID(unittest.IdentifierFixture())
		assert.ErrorIs(t, err, storage.ErrNotFound)

		all, err := blocks.All()
		require.NoError(t, err)
		assert.Equal(t, chain, all)
	})
}

// TestBlocksReopen checks that blocks are read back from a fresh store
// instance with an empty cache.
func TestBlocksReopen(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		chain := unittest.ChainFixture(unittest.GenesisFixture(), 1, 2)
		require.NoError(t, bstorage.NewBlocks(metrics.NewNoopCollector(), db, 10).Store(chain[0]))
		require.NoError(t, bstorage.NewBlocks(metrics.NewNoopCollector(), db, 10).Store(chain[1]))

		all, err := bstorage.NewBlocks(metrics.NewNoopCollector(), db, 10).All()
		require.NoError(t, err)
		assert.Equal(t, chain, all)
	})
}

func TestVotesFirstStands(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		votes := bstorage.NewVotes(metrics.NewNoopCollector(), db)
		signer := unittest.IdentifierFixture()
		first := unittest.VoteFixture(unittest.WithVoteSignerID(signer), unittest.WithVoteEpoch(3))
		second := unittest.VoteFixture(unittest.WithVoteSignerID(signer), unittest.WithVoteEpoch(3))

		require.NoError(t, votes.Store(first))
		require.NoError(t, votes.Store(second))

		all, err := votes.All()
		require.NoError(t, err)
		assert.Equal(t, []*model.Vote{first}, all)
	})
}

func TestFinalizationHeights(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		finalization := bstorage.NewFinalization(metrics.NewNoopCollector(), db)

		height, err := finalization.FinalizedHeight()
		require.NoError(t, err)
		assert.Equal(t, uint64(0), height)

		// heights must be contiguous
		assert.Error(t, finalization.Finalize(2, unittest.IdentifierFixture()))

		ids := unittest.IdentifierListFixture(3)
		for i, id := range ids {
			require.NoError(t, finalization.Finalize(uint64(i+1), id))
		}
		assert.Error(t, finalization.Finalize(3, unittest.IdentifierFixture()))

		height, err = finalization.FinalizedHeight()
		require.NoError(t, err)
		assert.Equal(t, uint64(3), height)
		for i, id := range ids {
			actual, err := finalization.FinalizedBlockID(uint64(i + 1))
			require.NoError(t, err)
			assert.Equal(t, id, actual)
		}
		_, err = finalization.FinalizedBlockID(4)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
