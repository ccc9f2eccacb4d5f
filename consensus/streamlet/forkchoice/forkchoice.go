package forkchoice

import (
	"fmt"

	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

// NotarizedFunc reports whether a block is notarized.
type NotarizedFunc func(blockID flow.Identifier) bool

// Choose returns the tip of the longest notarized chain in the store: among
// the blocks whose entire ancestry is notarized, the one with the greatest
// height. Ties are broken by the lower block ID. Returns genesis if no other
// block qualifies.
func Choose(store streamlet.BlockReader, notarized NotarizedFunc) *model.Block {
	genesis := store.Genesis()
	tip, tipHeight := genesis, uint64(0)

	type entry struct {
		block  *model.Block
		height uint64
	}
	queue := []entry{{block: genesis, height: 0}}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		if next.height > tipHeight || (next.height == tipHeight && next.block.BlockID.Less(tip.BlockID)) {
			tip, tipHeight = next.block, next.height
		}
		for _, child := range store.ChildrenOf(next.block.BlockID) {
			if notarized(child.BlockID) {
				queue = append(queue, entry{block: child, height: next.height + 1})
			}
		}
	}
	return tip
}

// NotarizedChain returns the chain from genesis up to and including the
// given block.
// Expected errors during normal operations:
//   - model.MissingBlockError if the block is unknown
//   - ErrNotNotarized if any block on the chain is not notarized
func NotarizedChain(store streamlet.BlockReader, notarized NotarizedFunc, blockID flow.Identifier) ([]*model.Block, error) {
	chain, err := store.Chain(blockID)
	if err != nil {
		return nil, err
	}
	for _, block := range chain {
		if block.IsGenesis() {
			continue
		}
		if !notarized(block.BlockID) {
			return nil, fmt.Errorf("block %x at epoch %d: %w", block.BlockID, block.Epoch, ErrNotNotarized)
		}
	}
	return chain, nil
}

// ForkChoice evaluates the longest notarized chain over a block store and a
// vote ledger. It holds no state of its own, so every call reflects the
// latest blocks and votes.
type ForkChoice struct {
	store  streamlet.BlockReader
	ledger streamlet.VoteLedger
}

var _ streamlet.ForkChoice = (*ForkChoice)(nil)

func New(store streamlet.BlockReader, ledger streamlet.VoteLedger) *ForkChoice {
	return &ForkChoice{
		store:  store,
		ledger: ledger,
	}
}

// Tip returns the tip of the longest notarized chain.
func (f *ForkChoice) Tip() *model.Block {
	return Choose(f.store, f.ledger.IsNotarized)
}

// NotarizedChain returns the chain from genesis to the given block if every
// block on it is notarized.
func (f *ForkChoice) NotarizedChain(blockID flow.Identifier) ([]*model.Block, error) {
	return NotarizedChain(f.store, f.ledger.IsNotarized, blockID)
}

// IsSafeToExtend returns true if the block's parent ends a fully notarized
// chain that is at least as long as every other notarized chain. Only such
// blocks may be voted for.
func (f *ForkChoice) IsSafeToExtend(block *model.Block) bool {
	chain, err := f.NotarizedChain(block.ParentID)
	if err != nil {
		return false
	}
	tipHeight, ok := f.store.Height(f.Tip().BlockID)
	if !ok {
		return false
	}
	return uint64(len(chain)-1) >= tipHeight
}
