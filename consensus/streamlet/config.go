package streamlet

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

const (
	// DefaultEpochDuration is the wall-clock length of one epoch.
	DefaultEpochDuration = 1 * time.Second
	// DefaultToleranceEpochs is how far a message's epoch may be from the current epoch.
	DefaultToleranceEpochs = 8
	// DefaultPendingWindow is how many epochs a buffered message may lag behind.
	DefaultPendingWindow = 16
	// DefaultInboundQueueCapacity bounds each inbound message queue.
	DefaultInboundQueueCapacity = 1000
)

// Config holds the parameters of a replica.
type Config struct {
	// CommitteeSize is the expected number of committee members.
	CommitteeSize uint
	// LocalID is the node ID of the local replica.
	LocalID flow.Identifier
	// EpochDuration is the wall-clock length of one epoch.
	EpochDuration time.Duration
	// ToleranceEpochs bounds the distance between the epoch of an inbound
	// message and the current epoch. Messages outside the window are dropped.
	ToleranceEpochs uint64
	// PendingWindow is the number of epochs orphaned proposals and early
	// votes are kept before they are evicted.
	PendingWindow uint64
	// InboundQueueCapacity is the capacity of each inbound event queue.
	InboundQueueCapacity uint32
}

// Option modifies a Config.
type Option func(*Config)

// WithEpochDuration sets the wall-clock length of one epoch.
func WithEpochDuration(duration time.Duration) Option {
	return func(cfg *Config) {
		cfg.EpochDuration = duration
	}
}

// WithToleranceEpochs sets the epoch tolerance window for inbound messages.
func WithToleranceEpochs(epochs uint64) Option {
	return func(cfg *Config) {
		cfg.ToleranceEpochs = epochs
	}
}

// WithPendingWindow sets the number of epochs buffered messages are kept.
func WithPendingWindow(epochs uint64) Option {
	return func(cfg *Config) {
		cfg.PendingWindow = epochs
	}
}

// WithInboundQueueCapacity sets the capacity of each inbound queue.
func WithInboundQueueCapacity(capacity uint32) Option {
	return func(cfg *Config) {
		cfg.InboundQueueCapacity = capacity
	}
}

// DefaultConfig returns a config with default timing and buffering parameters.
// CommitteeSize and LocalID must still be set.
func DefaultConfig() Config {
	return Config{
		EpochDuration:        DefaultEpochDuration,
		ToleranceEpochs:      DefaultToleranceEpochs,
		PendingWindow:        DefaultPendingWindow,
		InboundQueueCapacity: DefaultInboundQueueCapacity,
	}
}

// NewConfig returns the default config for the given committee size and
// local replica, modified by the given options.
func NewConfig(committeeSize uint, localID flow.Identifier, opts ...Option) Config {
	cfg := DefaultConfig()
	cfg.CommitteeSize = committeeSize
	cfg.LocalID = localID
	for _, apply := range opts {
		apply(&cfg)
	}
	return cfg
}

// Validate checks the config against the committee member list. All problems
// are reported together, wrapped in a model.ConfigurationError.
func (c Config) Validate(members flow.IdentityList) error {
	var result *multierror.Error

	if c.CommitteeSize == 0 {
		result = multierror.Append(result, fmt.Errorf("committee size must be positive"))
	}
	if members.Count() != c.CommitteeSize {
		result = multierror.Append(result, fmt.Errorf("committee size %d does not match %d members", c.CommitteeSize, members.Count()))
	}
	if members.HasDuplicates() {
		result = multierror.Append(result, fmt.Errorf("committee contains duplicate node IDs"))
	}
	if c.LocalID == flow.ZeroID {
		result = multierror.Append(result, fmt.Errorf("local ID must not be empty"))
	} else if _, ok := members.ByNodeID(c.LocalID); !ok {
		result = multierror.Append(result, fmt.Errorf("local ID %x is not a committee member", c.LocalID))
	}
	if c.EpochDuration <= 0 {
		result = multierror.Append(result, fmt.Errorf("epoch duration must be positive, got %s", c.EpochDuration))
	}
	if c.PendingWindow == 0 {
		result = multierror.Append(result, fmt.Errorf("pending window must be at least one epoch"))
	}
	if c.InboundQueueCapacity == 0 {
		result = multierror.Append(result, fmt.Errorf("inbound queue capacity must be positive"))
	}

	if err := result.ErrorOrNil(); err != nil {
		return model.NewConfigurationErrorf("invalid streamlet config: %w", err)
	}
	return nil
}
