package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
	"github.com/onflow/streamlet/module"
	"github.com/onflow/streamlet/module/metrics"
	"github.com/onflow/streamlet/storage"
	"github.com/onflow/streamlet/storage/badger/operation"
)

// Blocks implements a block storage around a badger DB, with an LRU cache
// for lookups by ID.
type Blocks struct {
	db      *badger.DB
	metrics module.StorageMetrics
	cache   *Cache[flow.Identifier, *model.Block]
}

var _ storage.Blocks = (*Blocks)(nil)

func NewBlocks(collector Collector, db *badger.DB, cacheSize uint) *Blocks {
	retrieve := func(blockID flow.Identifier) func(*badger.Txn) (*model.Block, error) {
		return func(tx *badger.Txn) (*model.Block, error) {
			var block model.Block
			err := operation.RetrieveBlock(blockID, &block)(tx)
			return &block, err
		}
	}

	b := &Blocks{
		db:      db,
		metrics: collector,
		cache: newCache[flow.Identifier, *model.Block](collector, metrics.ResourceBlock,
			withLimit[flow.Identifier, *model.Block](cacheSize),
			withRetrieve[flow.Identifier, *model.Block](retrieve)),
	}
	return b
}

// Store persists the block. Storing a block twice is a no-op.
func (b *Blocks) Store(block *model.Block) error {
	if b.cache.IsCached(block.BlockID) {
		return nil
	}
	err := operation.RetryOnConflict(b.metrics, b.db.Update, operation.SkipDuplicates(operation.InsertBlock(block)))
	if err != nil {
		return fmt.Errorf("could not store block %x: %w", block.BlockID, err)
	}
	b.cache.Insert(block.BlockID, block)
	return nil
}

// ByID returns the block with the given ID.
// Error returns:
//   - storage.ErrNotFound if the block is unknown
func (b *Blocks) ByID(blockID flow.Identifier) (*model.Block, error) {
	tx := b.db.NewTransaction(false)
	defer tx.Discard()
	return b.cache.Get(blockID)(tx)
}

// All returns all stored blocks ordered by epoch, so that every block comes
// after its parent.
func (b *Blocks) All() ([]*model.Block, error) {
	var blocks []*model.Block
	err := b.db.View(func(tx *badger.Txn) error {
		var blockIDs []flow.Identifier
		err := operation.LookupBlocksByEpoch(&blockIDs)(tx)
		if err != nil {
			return fmt.Errorf("could not look up block index: %w", err)
		}
		blocks = make([]*model.Block, 0, len(blockIDs))
		for _, blockID := range blockIDs {
			block, err := b.cache.Get(blockID)(tx)
			if err != nil {
				return fmt.Errorf("could not retrieve indexed block %x: %w", blockID, err)
			}
			blocks = append(blocks, block)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return blocks, nil
}
