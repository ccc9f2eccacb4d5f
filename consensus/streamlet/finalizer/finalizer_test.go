package finalizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/streamlet/consensus/streamlet/finalizer"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/utils/unittest"
)

// NOTATION:
// A chain is denoted by its epochs, G being genesis: [G 1 2 3] is a
// notarized chain of blocks at epochs 1, 2 and 3 extending genesis.

func withGenesis(genesis *model.Block, blocks ...*model.Block) []*model.Block {
	return append([]*model.Block{genesis}, blocks...)
}

func newFinalizer(t *testing.T, genesis *model.Block) *finalizer.Finalizer {
	f, err := finalizer.New(genesis)
	require.NoError(t, err)
	return f
}

// TestThreeConsecutiveEpochs checks the basic rule.
// [G 1 2 3] finalizes 1 and 2.
func TestThreeConsecutiveEpochs(t *testing.T) {
	genesis := unittest.GenesisFixture()
	blocks := unittest.ChainFixture(genesis, 1, 2, 3)
	f := newFinalizer(t, genesis)

	finalized, err := f.OnNotarized(withGenesis(genesis, blocks[:2]...))
	require.NoError(t, err)
	assert.Empty(t, finalized)
	assert.Equal(t, genesis, f.FinalizedBlock())

	finalized, err = f.OnNotarized(withGenesis(genesis, blocks...))
	require.NoError(t, err)
	assert.Equal(t, blocks[:2], finalized)
	assert.Equal(t, blocks[1], f.FinalizedBlock())
	assert.Equal(t, uint64(2), f.FinalizedEpoch())
	assert.Equal(t, uint64(2), f.FinalizedHeight())
	assert.True(t, f.IsFinalized(blocks[0].BlockID))
	assert.False(t, f.IsFinalized(blocks[2].BlockID))

	// re-examining the same chain finalizes nothing new
	finalized, err = f.OnNotarized(withGenesis(genesis, blocks...))
	require.NoError(t, err)
	assert.Empty(t, finalized)
}

// TestGenesisNotInTriple checks that genesis is not part of a triple even
// though it has epoch 0.
// [G 1 2] finalizes nothing.
func TestGenesisNotInTriple(t *testing.T) {
	genesis := unittest.GenesisFixture()
	blocks := unittest.ChainFixture(genesis, 1, 2)
	f := newFinalizer(t, genesis)

	finalized, err := f.OnNotarized(withGenesis(genesis, blocks...))
	require.NoError(t, err)
	assert.Empty(t, finalized)
	assert.True(t, f.IsFinalized(genesis.BlockID))
}

// TestSkippedEpoch checks that a gap in epochs interrupts a triple.
// [G 1 2 4 5] finalizes nothing, [G 1 2 4 5 6] finalizes 1, 2, 4 and 5.
func TestSkippedEpoch(t *testing.T) {
	genesis := unittest.GenesisFixture()
	blocks := unittest.ChainFixture(genesis, 1, 2, 4, 5, 6)
	f := newFinalizer(t, genesis)

	for i := 1; i <= 4; i++ {
		finalized, err := f.OnNotarized(withGenesis(genesis, blocks[:i]...))
		require.NoError(t, err)
		assert.Empty(t, finalized, "chain of %d blocks", i)
	}

	finalized, err := f.OnNotarized(withGenesis(genesis, blocks...))
	require.NoError(t, err)
	assert.Equal(t, blocks[:4], finalized)
	assert.Equal(t, uint64(5), f.FinalizedEpoch())
}

// TestIncrementalFinalization checks that each block is returned exactly once
// as the chain grows.
// [G 1 2 3 4 5] grown block by block finalizes 1 2, then 3, then 4.
func TestIncrementalFinalization(t *testing.T) {
	genesis := unittest.GenesisFixture()
	blocks := unittest.ChainFixture(genesis, 1, 2, 3, 4, 5)
	f := newFinalizer(t, genesis)

	var all []*model.Block
	for i := 1; i <= len(blocks); i++ {
		finalized, err := f.OnNotarized(withGenesis(genesis, blocks[:i]...))
		require.NoError(t, err)
		all = append(all, finalized...)
	}
	assert.Equal(t, blocks[:4], all)
	assert.Equal(t, withGenesis(genesis, blocks[:4]...), f.FinalizedChain())
}

// TestShorterFork checks that notarized forks which cannot finalize anything
// are accepted without error.
// finalized [G 1 2], then [G 1 2 5] finalizes nothing.
func TestShorterFork(t *testing.T) {
	genesis := unittest.GenesisFixture()
	blocks := unittest.ChainFixture(genesis, 1, 2, 3)
	f := newFinalizer(t, genesis)
	_, err := f.OnNotarized(withGenesis(genesis, blocks...))
	require.NoError(t, err)

	fork := unittest.BlockFixture(blocks[1], 5)
	finalized, err := f.OnNotarized(withGenesis(genesis, blocks[0], blocks[1], fork))
	require.NoError(t, err)
	assert.Empty(t, finalized)

	orphan := unittest.ChainFixture(genesis, 7)
	finalized, err = f.OnNotarized(withGenesis(genesis, orphan...))
	require.NoError(t, err)
	assert.Empty(t, finalized)
}

// TestConflictingFinalization checks that a chain finalizing a block that
// conflicts with the finalized prefix is reported as a safety violation.
// finalized [G 1 2], then [G 4 5 6] conflicts.
func TestConflictingFinalization(t *testing.T) {
	genesis := unittest.GenesisFixture()
	main := unittest.ChainFixture(genesis, 1, 2, 3)
	fork := unittest.ChainFixture(genesis, 4, 5, 6)
	f := newFinalizer(t, genesis)

	_, err := f.OnNotarized(withGenesis(genesis, main...))
	require.NoError(t, err)

	finalized, err := f.OnNotarized(withGenesis(genesis, fork...))
	require.Error(t, err)
	assert.True(t, model.IsByzantineThresholdExceededError(err))
	assert.Empty(t, finalized)
	assert.Equal(t, main[1], f.FinalizedBlock())
	assert.False(t, f.IsFinalized(fork[0].BlockID))
}

// TestConflictingFinalizationAfterFork checks forks leaving the finalized
// prefix above genesis. A fork is only a violation once it holds a triple
// past the fork point, wherever that triple sits relative to the finalized
// height.
// finalized [G 1 2]: [G 1 5 6] is accepted, [G 1 5 6 7] and [G 1 2 ...] with
// a triple below the finalized tip are violations.
func TestConflictingFinalizationAfterFork(t *testing.T) {
	genesis := unittest.GenesisFixture()
	main := unittest.ChainFixture(genesis, 1, 2, 3)
	f := newFinalizer(t, genesis)
	_, err := f.OnNotarized(withGenesis(genesis, main...))
	require.NoError(t, err)

	fork := unittest.ChainFixture(main[0], 5, 6, 7)
	finalized, err := f.OnNotarized(withGenesis(genesis, main[0], fork[0], fork[1]))
	require.NoError(t, err)
	assert.Empty(t, finalized)

	finalized, err = f.OnNotarized(withGenesis(genesis, main[0], fork[0], fork[1], fork[2]))
	assert.True(t, model.IsByzantineThresholdExceededError(err))
	assert.Empty(t, finalized)

	// [G 8 9 10]: the triple's middle block sits at the finalized height
	low := unittest.ChainFixture(genesis, 8, 9, 10)
	finalized, err = f.OnNotarized(withGenesis(genesis, low...))
	assert.True(t, model.IsByzantineThresholdExceededError(err))
	assert.Empty(t, finalized)

	assert.Equal(t, main[1], f.FinalizedBlock())
	assert.False(t, f.IsFinalized(fork[0].BlockID))
}

func TestRestore(t *testing.T) {
	genesis := unittest.GenesisFixture()
	blocks := unittest.ChainFixture(genesis, 1, 2, 3, 4)
	f := newFinalizer(t, genesis)

	require.NoError(t, f.Restore(withGenesis(genesis, blocks[:2]...)))
	assert.Equal(t, blocks[1], f.FinalizedBlock())
	assert.True(t, f.IsFinalized(blocks[0].BlockID))

	// continues from the restored prefix
	finalized, err := f.OnNotarized(withGenesis(genesis, blocks...))
	require.NoError(t, err)
	assert.Equal(t, blocks[2:3], finalized)

	// restoring below the current height or a broken chain fails
	assert.Error(t, f.Restore(withGenesis(genesis, blocks[0])))
	assert.Error(t, f.Restore(withGenesis(genesis, blocks[0], blocks[2], blocks[3], blocks[3])))
	assert.Error(t, f.Restore(blocks))
}

func TestNewRejectsNonGenesis(t *testing.T) {
	_, err := finalizer.New(unittest.BlockFixture(unittest.GenesisFixture(), 1))
	assert.True(t, model.IsConfigurationError(err))
}
