package badger

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/streamlet/model/flow"
	"github.com/onflow/streamlet/module"
	"github.com/onflow/streamlet/storage"
	"github.com/onflow/streamlet/storage/badger/operation"
)

// Finalization persists the finalized chain as a height index.
type Finalization struct {
	db      *badger.DB
	metrics module.StorageMetrics
}

var _ storage.Finalization = (*Finalization)(nil)

func NewFinalization(collector module.StorageMetrics, db *badger.DB) *Finalization {
	return &Finalization{
		db:      db,
		metrics: collector,
	}
}

// Finalize indexes the block at the given height and advances the finalized
// height in one transaction. The height must be one above the current
// finalized height.
func (f *Finalization) Finalize(height uint64, blockID flow.Identifier) error {
	return operation.RetryOnConflict(f.metrics, f.db.Update, func(tx *badger.Txn) error {
		var current uint64
		err := operation.RetrieveFinalizedHeight(&current)(tx)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("could not retrieve finalized height: %w", err)
		}
		if height != current+1 {
			return fmt.Errorf("cannot finalize height %d on top of finalized height %d", height, current)
		}
		err = operation.IndexFinalizedBlock(height, blockID)(tx)
		if err != nil {
			return fmt.Errorf("could not index finalized block: %w", err)
		}
		return operation.UpdateFinalizedHeight(height)(tx)
	})
}

// FinalizedHeight returns the height of the latest finalized block, 0 if only
// genesis is finalized.
func (f *Finalization) FinalizedHeight() (uint64, error) {
	var height uint64
	err := f.db.View(operation.RetrieveFinalizedHeight(&height))
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("could not retrieve finalized height: %w", err)
	}
	return height, nil
}

// FinalizedBlockID returns the ID of the block finalized at the given height.
// Error returns:
//   - storage.ErrNotFound if no block was finalized at that height
func (f *Finalization) FinalizedBlockID(height uint64) (flow.Identifier, error) {
	var blockID flow.Identifier
	err := f.db.View(operation.LookupFinalizedBlock(height, &blockID))
	return blockID, err
}
