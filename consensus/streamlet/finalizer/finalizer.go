package finalizer

import (
	"fmt"
	"sync"

	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

// Finalizer applies the finalization rule to notarized chains: whenever a
// notarized chain contains three adjacent blocks with consecutive epochs,
// the middle block and all its ancestors are final.
//
// The finalized prefix is a single chain starting at genesis and only ever
// grows. Genesis is final by definition but never takes part in a triple.
// Safe for concurrent use; OnNotarized is expected to be called from a single
// goroutine.
type Finalizer struct {
	mu        sync.RWMutex
	finalized []*model.Block // genesis first; index equals height
	byID      map[flow.Identifier]struct{}
}

var _ streamlet.Finalizer = (*Finalizer)(nil)

// New returns a finalizer whose finalized prefix consists of genesis only.
func New(genesis *model.Block) (*Finalizer, error) {
	if !genesis.IsGenesis() {
		return nil, model.NewConfigurationErrorf("block %x at epoch %d is not a genesis block", genesis.BlockID, genesis.Epoch)
	}
	return &Finalizer{
		finalized: []*model.Block{genesis},
		byID:      map[flow.Identifier]struct{}{genesis.BlockID: {}},
	}, nil
}

// Restore resets the finalized prefix to the given chain, which must run from
// genesis to the last finalized block. Used when recovering from storage.
func (f *Finalizer) Restore(chain []*model.Block) error {
	if len(chain) == 0 || chain[0].BlockID != f.Genesis().BlockID {
		return fmt.Errorf("finalized chain must start at genesis")
	}
	for i := 1; i < len(chain); i++ {
		if chain[i].ParentID != chain[i-1].BlockID {
			return fmt.Errorf("finalized chain broken at height %d: block %x does not extend %x", i, chain[i].BlockID, chain[i-1].BlockID)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(chain) < len(f.finalized) {
		return fmt.Errorf("cannot restore finalized height %d below current height %d", len(chain)-1, len(f.finalized)-1)
	}
	f.finalized = append([]*model.Block(nil), chain...)
	f.byID = make(map[flow.Identifier]struct{}, len(chain))
	for _, b := range chain {
		f.byID[b.BlockID] = struct{}{}
	}
	return nil
}

// OnNotarized examines a notarized chain, given from genesis to its tip, and
// returns the blocks it newly finalizes, oldest first. Each block is returned
// at most once over the lifetime of the finalizer.
//
// A chain extending the finalized tip is scanned backward from its tip down
// to the finalized height, so the cost is proportional to the unfinalized
// suffix. A chain that forks off the finalized prefix is scanned down to the
// fork point: any triple it contains past the fork finalizes a conflicting
// block.
// Error returns:
//   - model.ByzantineThresholdExceededError if the chain finalizes a block
//     that conflicts with the finalized prefix. This is a safety violation
//     and must be treated as fatal.
//   - generic error if the chain is malformed
func (f *Finalizer) OnNotarized(chain []*model.Block) ([]*model.Block, error) {
	if len(chain) == 0 || !chain[0].IsGenesis() {
		return nil, fmt.Errorf("notarized chain must start at genesis")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	finalizedHeight := len(f.finalized) - 1
	fork := f.forkPoint(chain)
	if fork != finalizedHeight {
		// the chain does not extend the finalized tip
		pivot := findPivot(chain, fork)
		if pivot < 0 {
			return nil, nil
		}
		conflicting := f.finalized[fork+1]
		return nil, model.ByzantineThresholdExceededError{Evidence: fmt.Sprintf(
			"finalizing block %x at epoch %d conflicts with finalized block %x at epoch %d (height %d)",
			chain[pivot].BlockID, chain[pivot].Epoch, conflicting.BlockID, conflicting.Epoch, fork+1)}
	}

	pivot := findPivot(chain, finalizedHeight)
	if pivot < 0 {
		return nil, nil
	}
	for i := finalizedHeight + 1; i <= pivot; i++ {
		if chain[i].ParentID != chain[i-1].BlockID {
			return nil, fmt.Errorf("notarized chain broken at height %d", i)
		}
	}

	newlyFinalized := make([]*model.Block, 0, pivot-finalizedHeight)
	for i := finalizedHeight + 1; i <= pivot; i++ {
		f.finalized = append(f.finalized, chain[i])
		f.byID[chain[i].BlockID] = struct{}{}
		newlyFinalized = append(newlyFinalized, chain[i])
	}
	return newlyFinalized, nil
}

// forkPoint returns the height of the last block the chain shares with the
// finalized prefix. Both start at genesis, so the result is at least 0.
func (f *Finalizer) forkPoint(chain []*model.Block) int {
	height := len(f.finalized) - 1
	if len(chain)-1 < height {
		height = len(chain) - 1
	}
	for ; height > 0; height-- {
		if chain[height].BlockID == f.finalized[height].BlockID {
			break
		}
	}
	return height
}

// findPivot scans the chain backward for the newest triple of blocks with
// consecutive epochs whose middle block lies above height, and returns the
// index of that middle block, or -1. Genesis never takes part in a triple.
func findPivot(chain []*model.Block, height int) int {
	for i := len(chain) - 1; i >= 3 && i-1 > height; i-- {
		b1, b2, b3 := chain[i-2], chain[i-1], chain[i]
		if b2.Epoch == b1.Epoch+1 && b3.Epoch == b2.Epoch+1 {
			return i - 1
		}
	}
	return -1
}

// Genesis returns the root of the finalized prefix.
func (f *Finalizer) Genesis() *model.Block {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.finalized[0]
}

// FinalizedBlock returns the latest finalized block.
func (f *Finalizer) FinalizedBlock() *model.Block {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.finalized[len(f.finalized)-1]
}

// FinalizedEpoch returns the epoch of the latest finalized block.
func (f *Finalizer) FinalizedEpoch() uint64 {
	return f.FinalizedBlock().Epoch
}

// FinalizedHeight returns the height of the latest finalized block.
func (f *Finalizer) FinalizedHeight() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return uint64(len(f.finalized) - 1)
}

// FinalizedChain returns the finalized prefix, genesis first.
func (f *Finalizer) FinalizedChain() []*model.Block {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]*model.Block(nil), f.finalized...)
}

// IsFinalized returns true if the block is part of the finalized prefix.
func (f *Finalizer) IsFinalized(blockID flow.Identifier) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.byID[blockID]
	return ok
}
