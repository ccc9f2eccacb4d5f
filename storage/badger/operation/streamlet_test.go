package operation

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
	"github.com/onflow/streamlet/storage"
	"github.com/onflow/streamlet/utils/unittest"
)

func TestBlockInsertRetrieve(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		genesis := unittest.GenesisFixture()
		block := unittest.BlockFixture(genesis, 3)

		var exists bool
		require.NoError(t, db.View(BlockExists(block.BlockID, &exists)))
		assert.False(t, exists)

		require.NoError(t, db.Update(InsertBlock(block)))
		err := db.Update(InsertBlock(block))
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
		require.NoError(t, db.Update(SkipDuplicates(InsertBlock(block))))

		var actual model.Block
		require.NoError(t, db.View(RetrieveBlock(block.BlockID, &actual)))
		assert.Equal(t, *block, actual)
		require.NoError(t, actual.Verify(unittest.Hasher()))

		require.NoError(t, db.View(BlockExists(block.BlockID, &exists)))
		assert.True(t, exists)

		err = db.View(RetrieveBlock(unittest.IdentifierFixture(), &actual))
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

// TestLookupBlocksByEpoch checks that blocks are returned parents first,
// regardless of insertion order.
func TestLookupBlocksByEpoch(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		genesis := unittest.GenesisFixture()
		chain := unittest.ChainFixture(genesis, 1, 2, 300, 70000)
		for i := len(chain) - 1; i >= 0; i-- {
			require.NoError(t, db.Update(InsertBlock(chain[i])))
		}

		var blockIDs []flow.Identifier
		require.NoError(t, db.View(LookupBlocksByEpoch(&blockIDs)))
		require.Len(t, blockIDs, len(chain))
		for i, block := range chain {
			assert.Equal(t, block.BlockID, blockIDs[i])
		}
	})
}

// TestVoteFirstStands checks that a second vote of a signer in the same
// epoch cannot overwrite the first.
func TestVoteFirstStands(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		signerID := unittest.IdentifierFixture()
		first := unittest.VoteFixture(unittest.WithVoteSignerID(signerID), unittest.WithVoteEpoch(5))
		second := unittest.VoteFixture(unittest.WithVoteSignerID(signerID), unittest.WithVoteEpoch(5))
		earlier := unittest.VoteFixture(unittest.WithVoteSignerID(signerID), unittest.WithVoteEpoch(2))

		require.NoError(t, db.Update(InsertVote(first)))
		assert.ErrorIs(t, db.Update(InsertVote(second)), storage.ErrAlreadyExists)
		require.NoError(t, db.Update(InsertVote(earlier)))

		var actual model.Vote
		require.NoError(t, db.View(RetrieveVote(5, signerID, &actual)))
		assert.Equal(t, *first, actual)

		var votes []*model.Vote
		require.NoError(t, db.View(TraverseVotes(func(vote *model.Vote) error {
			v := *vote
			votes = append(votes, &v)
			return nil
		})))
		assert.Equal(t, []*model.Vote{earlier, first}, votes)
	})
}

func TestFinalization(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		var height uint64
		assert.ErrorIs(t, db.View(RetrieveFinalizedHeight(&height)), storage.ErrNotFound)

		blockID := unittest.IdentifierFixture()
		require.NoError(t, db.Update(func(tx *badger.Txn) error {
			if err := IndexFinalizedBlock(1, blockID)(tx); err != nil {
				return err
			}
			return UpdateFinalizedHeight(1)(tx)
		}))
		assert.ErrorIs(t, db.Update(IndexFinalizedBlock(1, unittest.IdentifierFixture())), storage.ErrAlreadyExists)

		require.NoError(t, db.View(RetrieveFinalizedHeight(&height)))
		assert.Equal(t, uint64(1), height)
		var actual flow.Identifier
		require.NoError(t, db.View(LookupFinalizedBlock(1, &actual)))
		assert.Equal(t, blockID, actual)

		require.NoError(t, db.Update(UpdateFinalizedHeight(2)))
		require.NoError(t, db.View(RetrieveFinalizedHeight(&height)))
		assert.Equal(t, uint64(2), height)
	})
}

func TestSafetyData(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		var actual streamlet.SafetyData
		assert.ErrorIs(t, db.View(RetrieveSafetyData(&actual)), storage.ErrNotFound)

		expected := &streamlet.SafetyData{
			LastVotedEpoch:    9,
			LastVotedBlockID:  unittest.IdentifierFixture(),
			LastProposedEpoch: 7,
		}
		require.NoError(t, db.Update(UpsertSafetyData(expected)))
		require.NoError(t, db.View(RetrieveSafetyData(&actual)))
		assert.Equal(t, *expected, actual)

		expected.LastVotedEpoch = 10
		require.NoError(t, db.Update(UpsertSafetyData(expected)))
		require.NoError(t, db.View(RetrieveSafetyData(&actual)))
		assert.Equal(t, *expected, actual)
	})
}
