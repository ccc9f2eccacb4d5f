package badger

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/streamlet/module"
	"github.com/onflow/streamlet/storage"
)

// Collector reports storage and cache metrics.
type Collector interface {
	module.StorageMetrics
	module.CacheMetrics
}

// DefaultBlockCacheSize is the number of blocks kept in the read cache.
const DefaultBlockCacheSize = 1000

func InitAll(collector Collector, db *badger.DB) *storage.All {
	return &storage.All{
		Blocks:       NewBlocks(collector, db, DefaultBlockCacheSize),
		Votes:        NewVotes(collector, db),
		Finalization: NewFinalization(collector, db),
	}
}
