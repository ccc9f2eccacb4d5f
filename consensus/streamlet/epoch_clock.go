package streamlet

import (
	"github.com/onflow/streamlet/model/flow"
)

// EpochClock tells the engine which epoch the replica is in and who leads
// any given epoch. Implementations are safe for concurrent use.
type EpochClock interface {
	// CurrentEpoch returns the current epoch. Epoch 0 means no epoch has started yet.
	CurrentEpoch() uint64

	// LeaderFor returns the leader of the given epoch.
	LeaderFor(epoch uint64) flow.Identifier
}
