package persister

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/module"
	"github.com/onflow/streamlet/storage"
	"github.com/onflow/streamlet/storage/badger/operation"
)

// Persister can persist the safety data of the local replica.
type Persister struct {
	db      *badger.DB
	metrics module.StorageMetrics
}

var _ streamlet.Persister = (*Persister)(nil)

// New creates a new persister storing the safety data in the given database.
func New(db *badger.DB, metrics module.StorageMetrics) *Persister {
	p := &Persister{
		db:      db,
		metrics: metrics,
	}
	return p
}

// GetSafetyData will retrieve last persisted safety data. A replica that
// never persisted anything starts from the zero value.
func (p *Persister) GetSafetyData() (*streamlet.SafetyData, error) {
	var safetyData streamlet.SafetyData
	err := p.db.View(operation.RetrieveSafetyData(&safetyData))
	if errors.Is(err, storage.ErrNotFound) {
		return &streamlet.SafetyData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not retrieve safety data: %w", err)
	}
	return &safetyData, nil
}

// PutSafetyData persists the last safety data. The data survives a crash once
// this returns only if the database was opened with SyncWrites enabled.
func (p *Persister) PutSafetyData(safetyData *streamlet.SafetyData) error {
	return operation.RetryOnConflict(p.metrics, p.db.Update, operation.UpsertSafetyData(safetyData))
}
