package storage

import (
	"github.com/onflow/streamlet/model/flow"
)

// Finalization persists the finalized prefix of the chain by height.
type Finalization interface {
	// Finalize records the block finalized at the given height, which must be
	// one above the current finalized height.
	Finalize(height uint64, blockID flow.Identifier) error

	// FinalizedHeight returns the height of the latest finalized block, 0 if
	// only genesis is finalized.
	FinalizedHeight() (uint64, error)

	// FinalizedBlockID returns the ID of the block finalized at the given height.
	// Error returns:
	//   - storage.ErrNotFound if no block was finalized at that height
	FinalizedBlockID(height uint64) (flow.Identifier, error)
}
