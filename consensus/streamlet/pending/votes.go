package pending

import (
	"sync"

	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

// Votes buffers votes for blocks that are not yet known, indexed by block ID.
// Safe for concurrent use.
type Votes struct {
	mu       sync.Mutex
	capacity uint
	size     uint
	byBlock  map[flow.Identifier][]*model.Vote
}

// NewVotes returns a buffer holding at most capacity votes.
func NewVotes(capacity uint) *Votes {
	return &Votes{
		capacity: capacity,
		byBlock:  make(map[flow.Identifier][]*model.Vote),
	}
}

// Add buffers the vote. Returns false if the same vote is already buffered
// or the buffer is full.
func (v *Votes) Add(vote *model.Vote) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, buffered := range v.byBlock[vote.BlockID] {
		if buffered.SameAs(vote) {
			return false
		}
	}
	if v.size >= v.capacity {
		return false
	}
	v.byBlock[vote.BlockID] = append(v.byBlock[vote.BlockID], vote)
	v.size++
	return true
}

// ByBlockID returns the buffered votes for the block, in the order they were buffered.
func (v *Votes) ByBlockID(blockID flow.Identifier) []*model.Vote {
	v.mu.Lock()
	defer v.mu.Unlock()

	votes := v.byBlock[blockID]
	if len(votes) == 0 {
		return nil
	}
	dup := make([]*model.Vote, len(votes))
	copy(dup, votes)
	return dup
}

// DropForBlock removes all votes for the block.
func (v *Votes) DropForBlock(blockID flow.Identifier) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.size -= uint(len(v.byBlock[blockID]))
	delete(v.byBlock, blockID)
}

// PruneUpToEpoch removes all votes with epoch at or below the given epoch.
// Returns the number of removed votes.
func (v *Votes) PruneUpToEpoch(epoch uint64) uint {
	v.mu.Lock()
	defer v.mu.Unlock()

	var pruned uint
	for blockID, votes := range v.byBlock {
		kept := votes[:0]
		for _, vote := range votes {
			if vote.Epoch <= epoch {
				pruned++
				continue
			}
			kept = append(kept, vote)
		}
		if len(kept) == 0 {
			delete(v.byBlock, blockID)
		} else {
			v.byBlock[blockID] = kept
		}
	}
	v.size -= pruned
	return pruned
}

// Size returns the number of buffered votes.
func (v *Votes) Size() uint {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.size
}
