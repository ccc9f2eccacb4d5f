package consensus

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/forkchoice"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/storage"
)

// RecoverableFinalizer is a finalizer that can be reset to the finalized
// chain loaded from storage.
type RecoverableFinalizer interface {
	streamlet.Finalizer
	Restore(chain []*model.Block) error
}

// Recover rebuilds the in-memory consensus state from storage: persisted
// blocks are ingested into the block store, persisted votes are counted by
// the vote ledger, and the finalizer is reset to the persisted finalized
// prefix.
//
// The finalized index is written asynchronously, so it may lag behind the
// notarized blocks. Recover finalizes whatever the recovered notarizations
// imply and returns those blocks, oldest first. The caller must emit them to
// the finalization consumers.
func Recover(
	log zerolog.Logger,
	all *storage.All,
	blocks streamlet.BlockStore,
	ledger streamlet.VoteLedger,
	forkChoice streamlet.ForkChoice,
	finalizer RecoverableFinalizer,
) ([]*model.Block, error) {
	pending, err := all.Blocks.All()
	if err != nil {
		return nil, fmt.Errorf("could not read blocks: %w", err)
	}
	log.Info().Int("total", len(pending)).Msg("recovery started")

	// the index orders blocks by epoch, so parents come before their children
	for _, block := range pending {
		_, err := blocks.Add(block)
		if err != nil {
			return nil, fmt.Errorf("could not recover block %x at epoch %d: %w", block.BlockID, block.Epoch, err)
		}
	}

	votes, err := all.Votes.All()
	if err != nil {
		return nil, fmt.Errorf("could not read votes: %w", err)
	}
	for _, vote := range votes {
		_, err := ledger.RecordVote(vote)
		if err != nil {
			return nil, fmt.Errorf("could not recover vote of %x for block %x: %w", vote.SignerID, vote.BlockID, err)
		}
	}

	height, err := all.Finalization.FinalizedHeight()
	if err != nil {
		return nil, fmt.Errorf("could not read finalized height: %w", err)
	}
	if height > 0 {
		tipID, err := all.Finalization.FinalizedBlockID(height)
		if err != nil {
			return nil, fmt.Errorf("could not read finalized block at height %d: %w", height, err)
		}
		chain, err := blocks.Chain(tipID)
		if err != nil {
			return nil, fmt.Errorf("could not recover finalized chain ending at %x: %w", tipID, err)
		}
		err = finalizer.Restore(chain)
		if err != nil {
			return nil, fmt.Errorf("could not restore finalized chain: %w", err)
		}
	}

	finalized, err := catchUp(blocks, ledger, forkChoice, finalizer)
	if err != nil {
		return nil, fmt.Errorf("could not finalize recovered blocks: %w", err)
	}

	log.Info().
		Int("blocks", len(pending)).
		Int("votes", len(votes)).
		Uint64("finalized_height", height+uint64(len(finalized))).
		Msg("recovery completed")
	return finalized, nil
}

// catchUp runs the finalization rule over every chain ending in a notarized
// block, lowest first.
func catchUp(
	blocks streamlet.BlockStore,
	ledger streamlet.VoteLedger,
	forkChoice streamlet.ForkChoice,
	finalizer streamlet.Finalizer,
) ([]*model.Block, error) {
	notarized := ledger.Notarized()
	tips := make([]*model.Block, 0, len(notarized))
	for _, blockID := range notarized {
		block, ok := blocks.Get(blockID)
		if !ok {
			continue
		}
		tips = append(tips, block)
	}
	sort.Slice(tips, func(i, j int) bool {
		return tips[i].Epoch < tips[j].Epoch
	})

	var finalized []*model.Block
	for _, tip := range tips {
		chain, err := forkChoice.NotarizedChain(tip.BlockID)
		if errors.Is(err, forkchoice.ErrNotNotarized) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("could not read notarized chain ending at %x: %w", tip.BlockID, err)
		}
		newlyFinalized, err := finalizer.OnNotarized(chain)
		if err != nil {
			return nil, err
		}
		finalized = append(finalized, newlyFinalized...)
	}
	return finalized, nil
}
