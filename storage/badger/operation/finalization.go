package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/streamlet/model/flow"
)

// IndexFinalizedBlock indexes the finalized block at the given height.
// Error returns:
//   - storage.ErrAlreadyExists if a block was finalized at that height before
func IndexFinalizedBlock(height uint64, blockID flow.Identifier) func(*badger.Txn) error {
	return insert(makePrefix(codeFinalizedBlock, height), blockID)
}

// LookupFinalizedBlock retrieves the ID of the block finalized at the given height.
// Error returns:
//   - storage.ErrNotFound if no block was finalized at that height
func LookupFinalizedBlock(height uint64, blockID *flow.Identifier) func(*badger.Txn) error {
	return retrieve(makePrefix(codeFinalizedBlock, height), blockID)
}

// UpdateFinalizedHeight records the height of the latest finalized block.
func UpdateFinalizedHeight(height uint64) func(*badger.Txn) error {
	return upsert(makePrefix(codeFinalizedHeight), height)
}

// RetrieveFinalizedHeight retrieves the height of the latest finalized block.
// Error returns:
//   - storage.ErrNotFound if nothing was finalized yet
func RetrieveFinalizedHeight(height *uint64) func(*badger.Txn) error {
	return retrieve(makePrefix(codeFinalizedHeight), height)
}
