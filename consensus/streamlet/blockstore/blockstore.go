package blockstore

import (
	"fmt"
	"sync"

	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

// vertex wraps a stored block with its position in the tree. The height is
// computed once, at ingestion, from the parent's height.
type vertex struct {
	block    *model.Block
	height   uint64
	children []*model.Block
}

// BlockStore is an append-only tree of blocks rooted at genesis. A block is
// only ingested once its parent is present, so every stored block is
// connected to genesis. Entries are never mutated or removed.
//
// BlockStore is safe for concurrent use; writes are expected to come from the
// single event loop goroutine while observers read.
type BlockStore struct {
	mu       sync.RWMutex
	genesis  *model.Block
	vertices map[flow.Identifier]*vertex
	byEpoch  map[uint64][]*model.Block
}

var _ streamlet.BlockStore = (*BlockStore)(nil)

// New returns a block store containing only the given genesis block.
func New(genesis *model.Block) (*BlockStore, error) {
	if !genesis.IsGenesis() {
		return nil, model.NewConfigurationErrorf("block %x at epoch %d is not a genesis block", genesis.BlockID, genesis.Epoch)
	}
	return &BlockStore{
		genesis: genesis,
		vertices: map[flow.Identifier]*vertex{
			genesis.BlockID: {block: genesis, height: 0},
		},
		byEpoch: map[uint64][]*model.Block{
			genesis.Epoch: {genesis},
		},
	}, nil
}

// Add ingests a block whose parent is already stored. Returns (false, nil) if
// the block was stored before, without modifying anything.
// Expected errors during normal operations:
//   - model.ErrGenesisReingest if the block has no parent
//   - model.MissingBlockError if the parent is unknown; the caller should buffer
//     the block and retry once the parent was ingested
//   - model.InvalidEpochError if the epoch does not exceed the parent's
func (s *BlockStore) Add(block *model.Block) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vertices[block.BlockID]; ok {
		return false, nil
	}
	if block.ParentID == flow.ZeroID {
		return false, fmt.Errorf("cannot add block %x: %w", block.BlockID, model.ErrGenesisReingest)
	}
	parent, ok := s.vertices[block.ParentID]
	if !ok {
		return false, model.MissingBlockError{Epoch: block.Epoch, BlockID: block.ParentID}
	}
	if block.Epoch <= parent.block.Epoch {
		return false, model.InvalidEpochError{BlockID: block.BlockID, Epoch: block.Epoch, ParentEpoch: parent.block.Epoch}
	}

	s.vertices[block.BlockID] = &vertex{
		block:  block,
		height: parent.height + 1,
	}
	parent.children = append(parent.children, block)
	s.byEpoch[block.Epoch] = append(s.byEpoch[block.Epoch], block)
	return true, nil
}

// Get returns the block with the given ID, if stored.
func (s *BlockStore) Get(blockID flow.Identifier) (*model.Block, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vertices[blockID]
	if !ok {
		return nil, false
	}
	return v.block, true
}

// ChildrenOf returns the stored children of a block in ingestion order.
func (s *BlockStore) ChildrenOf(blockID flow.Identifier) []*model.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vertices[blockID]
	if !ok || len(v.children) == 0 {
		return nil
	}
	children := make([]*model.Block, len(v.children))
	copy(children, v.children)
	return children
}

// Height returns the number of ancestors of the block, genesis having height 0.
func (s *BlockStore) Height(blockID flow.Identifier) (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vertices[blockID]
	if !ok {
		return 0, false
	}
	return v.height, true
}

// BlocksAtEpoch returns the stored blocks of the given epoch in ingestion order.
func (s *BlockStore) BlocksAtEpoch(epoch uint64) []*model.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blocks := s.byEpoch[epoch]
	if len(blocks) == 0 {
		return nil
	}
	dup := make([]*model.Block, len(blocks))
	copy(dup, blocks)
	return dup
}

// Chain returns the blocks from genesis to the given block, both inclusive.
// The walk is iterative, so arbitrarily long chains are safe.
// Expected errors during normal operations:
//   - model.MissingBlockError if the block is unknown
func (s *BlockStore) Chain(blockID flow.Identifier) ([]*model.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vertices[blockID]
	if !ok {
		return nil, model.MissingBlockError{BlockID: blockID}
	}

	chain := make([]*model.Block, v.height+1)
	for i := int(v.height); i >= 0; i-- {
		chain[i] = v.block
		if i == 0 {
			break
		}
		parent, ok := s.vertices[v.block.ParentID]
		if !ok {
			return nil, fmt.Errorf("block store corrupted: parent %x of stored block %x is missing", v.block.ParentID, v.block.BlockID)
		}
		v = parent
	}
	return chain, nil
}

// Genesis returns the genesis block.
func (s *BlockStore) Genesis() *model.Block {
	return s.genesis
}

// Size returns the number of stored blocks, genesis included.
func (s *BlockStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vertices)
}
