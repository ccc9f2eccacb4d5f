package streamlet

import (
	"github.com/onflow/streamlet/model/flow"
)

// SafetyData is the replica state that must survive a crash so that the
// replica never votes twice in the same epoch.
type SafetyData struct {
	// LastVotedEpoch is the epoch of the last vote this replica cast.
	LastVotedEpoch uint64
	// LastVotedBlockID is the block that vote was for.
	LastVotedBlockID flow.Identifier
	// LastProposedEpoch is the last epoch this replica proposed in.
	LastProposedEpoch uint64
}

// Persister persists the safety data. PutSafetyData must be durable when it
// returns, since a vote is only broadcast afterwards.
type Persister interface {
	// GetSafetyData returns the persisted safety data, or the zero value if
	// nothing was persisted yet.
	GetSafetyData() (*SafetyData, error)

	// PutSafetyData durably persists the safety data.
	PutSafetyData(safetyData *SafetyData) error
}
