package component

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/atomic"

	"github.com/onflow/streamlet/module"
	"github.com/onflow/streamlet/module/irrecoverable"
	"github.com/onflow/streamlet/module/util"
)

// ErrComponentShutdown is returned by a component which has already been shut down.
var ErrComponentShutdown = fmt.Errorf("component has already shut down")

// Component represents a component which can be started and stopped, and exposes
// channels that close when startup and shutdown have completed.
// Once Start has been called, the channel returned by Done must close eventually,
// whether that be because of a graceful shutdown or an irrecoverable error.
type Component interface {
	module.Startable
	module.ReadyDoneAware
}

// ComponentFactory builds a fresh instance of a component, used by RunComponent on every (re)start.
type ComponentFactory func() (Component, error)

// OnError inspects an irrecoverable error and decides whether RunComponent
// restarts the component or stops.
type OnError = func(err error) ErrorHandlingResult

type ErrorHandlingResult int

const (
	ErrorHandlingRestart ErrorHandlingResult = iota
	ErrorHandlingStop
)

// RunComponent starts components built by the factory, shutting each one down
// when it throws an irrecoverable error and passing the error to the handler.
// It returns:
//   - the context error if ctx was cancelled
//   - the last handled error if the handler returned ErrorHandlingStop
//   - an error from the factory
//   - nil if the component shut down on its own without error
func RunComponent(ctx context.Context, componentFactory ComponentFactory, handler OnError) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		component, err := componentFactory()
		if err != nil {
			// a restart won't help, handled by the caller
			return err
		}

		runCtx, cancel := context.WithCancel(ctx)
		signalCtx, errChan := irrecoverable.WithSignaler(runCtx)

		// Start runs in its own goroutine since Throw terminates the calling goroutine
		go component.Start(signalCtx)
		done := component.Done()

		err = util.WaitError(errChan, done)
		if err == nil {
			cancel()
			<-done
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		}

		cancel()
		<-done

		switch result := handler(err); result {
		case ErrorHandlingRestart:
			continue
		case ErrorHandlingStop:
			return err
		default:
			panic(fmt.Sprintf("invalid error handling result: %v", result))
		}
	}
}

// ReadyFunc is called within a ComponentWorker function to indicate that the worker is ready.
// ComponentManager's Ready channel is closed when all workers are ready.
type ReadyFunc func()

// ComponentWorker represents a worker routine of a component. It must call
// ready once it is initialized, and return when ctx is cancelled.
type ComponentWorker func(ctx irrecoverable.SignalerContext, ready ReadyFunc)

// ComponentManagerBuilder provides a mechanism for building a ComponentManager
type ComponentManagerBuilder interface {
	// AddWorker adds a worker routine for the ComponentManager
	AddWorker(ComponentWorker) ComponentManagerBuilder

	// Build builds and returns a new ComponentManager instance
	Build() *ComponentManager
}

type componentManagerBuilderImpl struct {
	workers []ComponentWorker
}

// NewComponentManagerBuilder returns a new ComponentManagerBuilder
func NewComponentManagerBuilder() ComponentManagerBuilder {
	return &componentManagerBuilderImpl{}
}

// AddWorker adds a ComponentWorker closure to the ComponentManagerBuilder.
// All workers run concurrently once the ComponentManager is started.
// Not concurrency safe.
func (c *componentManagerBuilderImpl) AddWorker(worker ComponentWorker) ComponentManagerBuilder {
	c.workers = append(c.workers, worker)
	return c
}

// Build returns a new ComponentManager instance with the configured workers.
func (c *componentManagerBuilderImpl) Build() *ComponentManager {
	return &ComponentManager{
		started:        atomic.NewBool(false),
		ready:          make(chan struct{}),
		done:           make(chan struct{}),
		workersDone:    make(chan struct{}),
		shutdownSignal: make(chan struct{}),
		workers:        c.workers,
	}
}

var _ Component = (*ComponentManager)(nil)

// ComponentManager runs the worker routines of a Component and implements the
// Component interface on their behalf.
//
// Ready() closes once every worker called its ReadyFunc; Done() closes once
// every worker returned. Shutdown is signalled by cancelling the context given
// to Start. An error thrown by any worker shuts all workers down and is
// propagated to the parent context's Throw.
type ComponentManager struct {
	started        *atomic.Bool
	ready          chan struct{}
	done           chan struct{}
	workersDone    chan struct{}
	shutdownSignal chan struct{}

	workers []ComponentWorker
}

// Start launches all worker routines. Panics if called more than once.
func (c *ComponentManager) Start(parent irrecoverable.SignalerContext) {
	if !c.started.CompareAndSwap(false, true) {
		panic(module.ErrMultipleStartup)
	}

	ctx, cancel := context.WithCancel(parent)
	signalerCtx, errChan := irrecoverable.WithSignaler(ctx)

	go func() {
		<-ctx.Done()
		close(c.shutdownSignal)
	}()

	go func() {
		// done closes only after the error reached the parent, so a parent
		// waiting on Done never misses the error
		defer func() {
			<-c.workersDone
			close(c.done)
		}()

		if err := util.WaitError(errChan, c.workersDone); err != nil {
			cancel()
			parent.Throw(err)
		}
	}()

	var workersReady sync.WaitGroup
	var workersDone sync.WaitGroup
	workersReady.Add(len(c.workers))
	workersDone.Add(len(c.workers))

	for _, worker := range c.workers {
		worker := worker
		go func() {
			defer workersDone.Done()
			var readyOnce sync.Once
			worker(signalerCtx, func() {
				readyOnce.Do(workersReady.Done)
			})
		}()
	}

	go func() {
		workersReady.Wait()
		close(c.ready)
	}()
	go func() {
		workersDone.Wait()
		close(c.workersDone)
	}()
}

// Ready returns a channel which is closed once all the worker routines are ready.
// If a worker returns before signalling readiness, the channel never closes.
func (c *ComponentManager) Ready() <-chan struct{} {
	return c.ready
}

// Done returns a channel which is closed once all worker routines returned,
// either gracefully or by throwing an error.
func (c *ComponentManager) Done() <-chan struct{} {
	return c.done
}

// ShutdownSignal returns a channel that is closed when shutdown has commenced,
// either because the context was cancelled or because a worker threw an error.
func (c *ComponentManager) ShutdownSignal() <-chan struct{} {
	return c.shutdownSignal
}
