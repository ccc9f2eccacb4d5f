package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/streamlet/consensus/streamlet"
)

// UpsertSafetyData stores the local replica's safety data.
func UpsertSafetyData(safetyData *streamlet.SafetyData) func(*badger.Txn) error {
	return upsert(makePrefix(codeSafetyData), safetyData)
}

// RetrieveSafetyData retrieves the local replica's safety data.
// Error returns:
//   - storage.ErrNotFound if no safety data was stored yet
func RetrieveSafetyData(safetyData *streamlet.SafetyData) func(*badger.Txn) error {
	return retrieve(makePrefix(codeSafetyData), safetyData)
}
