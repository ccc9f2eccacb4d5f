package storage

import (
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

// Blocks persists the blocks the replica ingested.
type Blocks interface {
	// Store persists the block. Storing a block twice is a no-op.
	Store(block *model.Block) error

	// ByID returns the block with the given ID.
	// Error returns:
	//   - storage.ErrNotFound if the block is unknown
	ByID(blockID flow.Identifier) (*model.Block, error)

	// All returns all stored blocks, every block after its parent.
	All() ([]*model.Block, error)
}
