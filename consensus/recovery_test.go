package consensus

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/streamlet/consensus/streamlet/blockstore"
	"github.com/onflow/streamlet/consensus/streamlet/finalizer"
	"github.com/onflow/streamlet/consensus/streamlet/forkchoice"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/consensus/streamlet/notifications"
	"github.com/onflow/streamlet/consensus/streamlet/verification"
	"github.com/onflow/streamlet/consensus/streamlet/voteledger"
	"github.com/onflow/streamlet/module/metrics"
	"github.com/onflow/streamlet/storage"
	bstorage "github.com/onflow/streamlet/storage/badger"
	"github.com/onflow/streamlet/utils/unittest"
)

// recoveryState is the in-memory state rebuilt by Recover.
type recoveryState struct {
	blocks     *blockstore.BlockStore
	ledger     *voteledger.Ledger
	forkChoice *forkchoice.ForkChoice
	finalizer  *finalizer.Finalizer
}

func emptyState(t *testing.T, participants []*unittest.Participant) *recoveryState {
	genesis := unittest.GenesisFixture()
	committee := unittest.CommitteeFixture(t, participants, participants[0].NodeID())
	verifier, err := verification.NewEd25519Verifier(verification.DefaultVerifiedCacheSize)
	require.NoError(t, err)

	blocks, err := blockstore.New(genesis)
	require.NoError(t, err)
	ledger, err := voteledger.New(committee, verifier, notifications.NewNoopConsumer(), genesis.BlockID)
	require.NoError(t, err)
	final, err := finalizer.New(genesis)
	require.NoError(t, err)
	return &recoveryState{
		blocks:     blocks,
		ledger:     ledger,
		forkChoice: forkchoice.New(blocks, ledger),
		finalizer:  final,
	}
}

// persistNotarizedChain stores a chain of blocks for consecutive epochs,
// each with votes of the first three participants.
func persistNotarizedChain(t *testing.T, all *storage.All, participants []*unittest.Participant, epochs ...uint64) []*model.Block {
	chain := unittest.ChainFixture(unittest.GenesisFixture(), epochs...)
	for _, block := range chain {
		require.NoError(t, all.Blocks.Store(block))
		for _, p := range participants[:3] {
			require.NoError(t, all.Votes.Store(p.Vote(block)))
		}
	}
	return chain
}

func TestRecoverEmptyStorage(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		participants := unittest.ParticipantsFixture(4)
		all := bstorage.InitAll(metrics.NewNoopCollector(), db)
		state := emptyState(t, participants)

		finalized, err := Recover(unittest.Logger(), all, state.blocks, state.ledger, state.forkChoice, state.finalizer)
		require.NoError(t, err)
		assert.Empty(t, finalized)
		assert.Equal(t, 1, state.blocks.Size())
		assert.Equal(t, uint64(0), state.finalizer.FinalizedHeight())
	})
}

// TestRecoverCatchesUpFinalization checks that blocks finalized before the
// crash, but not yet in the finalized index, are finalized again and
// returned.
func TestRecoverCatchesUpFinalization(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		participants := unittest.ParticipantsFixture(4)
		all := bstorage.InitAll(metrics.NewNoopCollector(), db)
		chain := persistNotarizedChain(t, all, participants, 1, 2, 3)
		state := emptyState(t, participants)

		finalized, err := Recover(unittest.Logger(), all, state.blocks, state.ledger, state.forkChoice, state.finalizer)
		require.NoError(t, err)
		assert.Equal(t, chain[:2], finalized)
		assert.Equal(t, 4, state.blocks.Size())
		for _, block := range chain {
			assert.True(t, state.ledger.IsNotarized(block.BlockID))
		}
		assert.Equal(t, chain[2], state.forkChoice.Tip())
		assert.Equal(t, chain[1], state.finalizer.FinalizedBlock())
	})
}

// TestRecoverFinalizedIndex checks that the persisted finalized prefix is
// restored and only the blocks beyond it are returned.
func TestRecoverFinalizedIndex(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		participants := unittest.ParticipantsFixture(4)
		all := bstorage.InitAll(metrics.NewNoopCollector(), db)
		chain := persistNotarizedChain(t, all, participants, 1, 2, 3)
		require.NoError(t, all.Finalization.Finalize(1, chain[0].BlockID))
		state := emptyState(t, participants)

		finalized, err := Recover(unittest.Logger(), all, state.blocks, state.ledger, state.forkChoice, state.finalizer)
		require.NoError(t, err)
		assert.Equal(t, chain[1:2], finalized)
		assert.Equal(t, uint64(2), state.finalizer.FinalizedHeight())
	})
}

// TestRecoverWithoutTriple checks that notarized blocks of non-consecutive
// epochs are recovered without finalizing anything.
func TestRecoverWithoutTriple(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		participants := unittest.ParticipantsFixture(4)
		all := bstorage.InitAll(metrics.NewNoopCollector(), db)
		chain := persistNotarizedChain(t, all, participants, 1, 2, 4)
		state := emptyState(t, participants)

		finalized, err := Recover(unittest.Logger(), all, state.blocks, state.ledger, state.forkChoice, state.finalizer)
		require.NoError(t, err)
		assert.Empty(t, finalized)
		assert.Equal(t, chain[2], state.forkChoice.Tip())
	})
}
