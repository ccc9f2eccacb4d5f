package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/module"
	"github.com/onflow/streamlet/storage"
	"github.com/onflow/streamlet/storage/badger/operation"
)

// Votes implements a vote storage around a badger DB.
type Votes struct {
	db      *badger.DB
	metrics module.StorageMetrics
}

var _ storage.Votes = (*Votes)(nil)

func NewVotes(collector module.StorageMetrics, db *badger.DB) *Votes {
	return &Votes{
		db:      db,
		metrics: collector,
	}
}

// Store persists the vote. Only the first vote of a signer in an epoch is kept.
func (v *Votes) Store(vote *model.Vote) error {
	err := operation.RetryOnConflict(v.metrics, v.db.Update, operation.SkipDuplicates(operation.InsertVote(vote)))
	if err != nil {
		return fmt.Errorf("could not store vote by %x in epoch %d: %w", vote.SignerID, vote.Epoch, err)
	}
	return nil
}

// All returns all stored votes in ascending epoch order.
func (v *Votes) All() ([]*model.Vote, error) {
	var votes []*model.Vote
	err := v.db.View(operation.TraverseVotes(func(vote *model.Vote) error {
		stored := *vote
		votes = append(votes, &stored)
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("could not traverse votes: %w", err)
	}
	return votes, nil
}
