package storage

import (
	"github.com/onflow/streamlet/consensus/streamlet/model"
)

// Votes persists the votes the replica counted.
type Votes interface {
	// Store persists the vote. Only the first vote of a signer in an epoch is
	// kept; storing another one is a no-op.
	Store(vote *model.Vote) error

	// All returns all stored votes in ascending epoch order.
	All() ([]*model.Vote, error)
}
