package operation

import (
	"errors"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/streamlet/module"
	"github.com/onflow/streamlet/storage"
)

// SkipDuplicates turns storage.ErrAlreadyExists returned by op into a no-op.
func SkipDuplicates(op func(*badger.Txn) error) func(tx *badger.Txn) error {
	return func(tx *badger.Txn) error {
		err := op(tx)
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil
		}
		return err
	}
}

// RetryOnConflict runs the operation until it no longer fails with a badger
// transaction conflict, counting each retry.
func RetryOnConflict(metrics module.StorageMetrics, action func(func(*badger.Txn) error) error, op func(tx *badger.Txn) error) error {
	for {
		err := action(op)
		if errors.Is(err, badger.ErrConflict) {
			metrics.RetryOnConflict()
			continue
		}
		return err
	}
}
