package pending

import (
	"sync"

	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

// Proposals buffers proposals whose parent is not yet known, indexed by
// parent ID so they can be released once the parent is ingested.
// Safe for concurrent use.
type Proposals struct {
	mu       sync.Mutex
	capacity uint
	byID     map[flow.Identifier]*model.Proposal
	byParent map[flow.Identifier][]flow.Identifier
}

// NewProposals returns a buffer holding at most capacity proposals.
func NewProposals(capacity uint) *Proposals {
	return &Proposals{
		capacity: capacity,
		byID:     make(map[flow.Identifier]*model.Proposal),
		byParent: make(map[flow.Identifier][]flow.Identifier),
	}
}

// Add buffers the proposal. Returns false if it was buffered before or the
// buffer is full.
func (p *Proposals) Add(proposal *model.Proposal) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	blockID := proposal.Block.BlockID
	if _, ok := p.byID[blockID]; ok {
		return false
	}
	if uint(len(p.byID)) >= p.capacity {
		return false
	}
	p.byID[blockID] = proposal
	parentID := proposal.Block.ParentID
	p.byParent[parentID] = append(p.byParent[parentID], blockID)
	return true
}

// ByParentID returns the buffered proposals extending the given parent, in
// the order they were buffered.
func (p *Proposals) ByParentID(parentID flow.Identifier) []*model.Proposal {
	p.mu.Lock()
	defer p.mu.Unlock()

	ids := p.byParent[parentID]
	if len(ids) == 0 {
		return nil
	}
	proposals := make([]*model.Proposal, 0, len(ids))
	for _, id := range ids {
		proposals = append(proposals, p.byID[id])
	}
	return proposals
}

// DropForParent removes all proposals extending the given parent.
func (p *Proposals) DropForParent(parentID flow.Identifier) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, id := range p.byParent[parentID] {
		delete(p.byID, id)
	}
	delete(p.byParent, parentID)
}

// PruneUpToEpoch removes all proposals for blocks with epoch at or below the
// given epoch. Returns the number of removed proposals.
func (p *Proposals) PruneUpToEpoch(epoch uint64) uint {
	p.mu.Lock()
	defer p.mu.Unlock()

	var pruned uint
	for parentID, ids := range p.byParent {
		kept := ids[:0]
		for _, id := range ids {
			if p.byID[id].Block.Epoch <= epoch {
				delete(p.byID, id)
				pruned++
				continue
			}
			kept = append(kept, id)
		}
		if len(kept) == 0 {
			delete(p.byParent, parentID)
		} else {
			p.byParent[parentID] = kept
		}
	}
	return pruned
}

// Size returns the number of buffered proposals.
func (p *Proposals) Size() uint {
	p.mu.Lock()
	defer p.mu.Unlock()
	return uint(len(p.byID))
}
