package epochclock

import (
	"go.uber.org/atomic"

	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/model/flow"
)

// Clock maps a monotonically increasing tick counter to epochs: tick t is
// epoch t, so the first tick enters epoch 1. Epoch 0 means no epoch has
// started yet. Leader lookups are delegated to the committee's pure schedule.
//
// Clock is safe for concurrent use.
type Clock struct {
	committee streamlet.Committee
	epoch     *atomic.Uint64
}

// NewClock returns a clock positioned at the given epoch. A fresh replica
// starts at 0; a recovering replica resumes from its last known epoch.
func NewClock(committee streamlet.Committee, startEpoch uint64) *Clock {
	return &Clock{
		committee: committee,
		epoch:     atomic.NewUint64(startEpoch),
	}
}

var _ streamlet.EpochClock = (*Clock)(nil)

// Tick advances the clock by one tick and returns the new epoch.
func (c *Clock) Tick() uint64 {
	return c.epoch.Inc()
}

// AdvanceTo moves the clock forward to the given epoch. Returns false, without
// changing the clock, if the clock already reached it.
func (c *Clock) AdvanceTo(epoch uint64) bool {
	for {
		current := c.epoch.Load()
		if epoch <= current {
			return false
		}
		if c.epoch.CompareAndSwap(current, epoch) {
			return true
		}
	}
}

// CurrentEpoch returns the current epoch.
func (c *Clock) CurrentEpoch() uint64 {
	return c.epoch.Load()
}

// LeaderFor returns the leader of the given epoch.
func (c *Clock) LeaderFor(epoch uint64) flow.Identifier {
	return c.committee.LeaderForEpoch(epoch)
}
