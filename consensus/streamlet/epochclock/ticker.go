package epochclock

import (
	"context"
	"time"
)

// TickSource delivers epoch numbers to the event loop. Epochs on the channel
// are strictly increasing, but a slow receiver may observe gaps.
type TickSource interface {
	// Start begins ticking until ctx is cancelled.
	Start(ctx context.Context)
	// Channel returns the channel epochs are delivered on.
	Channel() <-chan uint64
}

// Ticker advances a Clock according to wall-clock time. Epoch e covers the
// interval [genesis + (e-1)*d, genesis + e*d). Replicas sharing the genesis
// time and epoch duration agree on the current epoch without coordination.
type Ticker struct {
	clock    *Clock
	duration time.Duration
	genesis  time.Time
	channel  chan uint64
}

var _ TickSource = (*Ticker)(nil)

// NewTicker returns a ticker for epochs of the given duration counted from the
// genesis time. A zero genesis time means "when Start is called".
func NewTicker(clock *Clock, duration time.Duration, genesis time.Time) *Ticker {
	return &Ticker{
		clock:    clock,
		duration: duration,
		genesis:  genesis,
		channel:  make(chan uint64, 1),
	}
}

// Channel returns the channel epochs are delivered on. If the receiver falls
// behind, only the most recent epoch is kept.
func (t *Ticker) Channel() <-chan uint64 {
	return t.channel
}

// Start launches the ticking goroutine. The epoch the clock is in when ticking
// starts is delivered immediately.
func (t *Ticker) Start(ctx context.Context) {
	if t.genesis.IsZero() {
		t.genesis = time.Now()
	}
	go t.tickOnSchedule(ctx)
}

// EpochAt returns the epoch covering the given time, or 0 before genesis.
func (t *Ticker) EpochAt(now time.Time) uint64 {
	if now.Before(t.genesis) {
		return 0
	}
	return uint64(now.Sub(t.genesis)/t.duration) + 1
}

// tickOnSchedule sleeps until the start of the next epoch, then advances the
// clock and publishes the epoch. All timing stops when ctx is cancelled.
func (t *Ticker) tickOnSchedule(ctx context.Context) {
	for {
		epoch := t.EpochAt(time.Now())
		if t.clock.AdvanceTo(epoch) {
			t.publish(epoch)
		}

		current := t.clock.CurrentEpoch()
		nextStart := t.genesis.Add(time.Duration(current) * t.duration)
		timer := time.NewTimer(time.Until(nextStart))
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// publish replaces any undelivered epoch with the given one. Only the ticking
// goroutine publishes, so draining and sending cannot race with another sender.
func (t *Ticker) publish(epoch uint64) {
	select {
	case t.channel <- epoch:
		return
	default:
	}
	select {
	case <-t.channel:
	default:
	}
	t.channel <- epoch
}

// ManualTicker delivers an epoch each time Advance is called. Used by tests
// and simulations that drive epochs explicitly.
type ManualTicker struct {
	clock   *Clock
	channel chan uint64
}

var _ TickSource = (*ManualTicker)(nil)

// NewManualTicker returns a ticker driven by Advance. Up to capacity epochs
// may be pending before Advance blocks.
func NewManualTicker(clock *Clock, capacity int) *ManualTicker {
	return &ManualTicker{
		clock:   clock,
		channel: make(chan uint64, capacity),
	}
}

// Start is a no-op; ticks are produced by Advance.
func (m *ManualTicker) Start(context.Context) {}

func (m *ManualTicker) Channel() <-chan uint64 {
	return m.channel
}

// Advance ticks the clock and delivers the new epoch.
func (m *ManualTicker) Advance() uint64 {
	epoch := m.clock.Tick()
	m.channel <- epoch
	return epoch
}
