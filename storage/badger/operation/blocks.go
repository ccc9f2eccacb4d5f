package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

// InsertBlock stores a block and indexes it by epoch.
// Error returns:
//   - storage.ErrAlreadyExists if the block was stored before
func InsertBlock(block *model.Block) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		err := insert(makePrefix(codeBlock, block.BlockID), block)(tx)
		if err != nil {
			return err
		}
		return insert(makePrefix(codeBlockByEpoch, block.Epoch, block.BlockID), block.BlockID)(tx)
	}
}

// RetrieveBlock retrieves a block by its ID.
// Error returns:
//   - storage.ErrNotFound if the block is unknown
func RetrieveBlock(blockID flow.Identifier, block *model.Block) func(*badger.Txn) error {
	return retrieve(makePrefix(codeBlock, blockID), block)
}

// BlockExists checks whether a block was stored.
func BlockExists(blockID flow.Identifier, blockExists *bool) func(*badger.Txn) error {
	return exists(makePrefix(codeBlock, blockID), blockExists)
}

// LookupBlocksByEpoch retrieves the IDs of all stored blocks ordered by
// ascending epoch. Since a block's epoch exceeds its parent's, every parent
// precedes its children.
func LookupBlocksByEpoch(blockIDs *[]flow.Identifier) func(*badger.Txn) error {
	*blockIDs = make([]flow.Identifier, 0, len(*blockIDs))
	return traverse(makePrefix(codeBlockByEpoch), func() (createFunc, handleFunc) {
		var blockID flow.Identifier
		create := func() interface{} {
			return &blockID
		}
		handle := func() error {
			*blockIDs = append(*blockIDs, blockID)
			return nil
		}
		return create, handle
	})
}
