package module

import (
	"errors"

	"github.com/onflow/streamlet/module/irrecoverable"
)

// ErrMultipleStartup is returned when Start is called on a component that was
// already started.
var ErrMultipleStartup = errors.New("component may only be started once")

// Startable provides an interface to start a component. Once started, the
// component can be stopped by cancelling the given context.
type Startable interface {
	// Start starts the component. Any irrecoverable errors encountered while
	// the component is running are thrown with the given context.
	// Panics with ErrMultipleStartup if called more than once.
	Start(irrecoverable.SignalerContext)
}

// ReadyDoneAware provides an interface to wait for module startup and shutdown.
// Modules that implement this interface only support a single start-stop cycle.
type ReadyDoneAware interface {
	// Ready returns a channel that is closed once startup has completed.
	// This is an idempotent method.
	Ready() <-chan struct{}

	// Done returns a channel that is closed once shutdown has completed.
	// This is an idempotent method.
	Done() <-chan struct{}
}
