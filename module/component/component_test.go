package component_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/onflow/streamlet/module/component"
	"github.com/onflow/streamlet/module/irrecoverable"
)

func TestComponentManagerLifecycle(t *testing.T) {
	workerStopped := atomic.NewBool(false)
	cm := component.NewComponentManagerBuilder().
		AddWorker(func(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
			ready()
			<-ctx.Done()
			workerStopped.Store(true)
		}).
		Build()

	ctx, cancel := irrecoverable.NewMockSignalerContextWithCancel(t, context.Background())
	cm.Start(ctx)

	select {
	case <-cm.Ready():
	case <-time.After(time.Second):
		t.Fatal("component did not become ready")
	}

	cancel()
	select {
	case <-cm.Done():
	case <-time.After(time.Second):
		t.Fatal("component did not shut down")
	}
	assert.True(t, workerStopped.Load())

	select {
	case <-cm.ShutdownSignal():
	default:
		t.Fatal("shutdown signal should be closed")
	}

	assert.Panics(t, func() { cm.Start(ctx) })
}

func TestComponentManagerPropagatesThrownError(t *testing.T) {
	thrown := errors.New("worker failed")
	cm := component.NewComponentManagerBuilder().
		AddWorker(func(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
			ready()
			ctx.Throw(thrown)
		}).
		AddWorker(func(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
			ready()
			<-ctx.Done()
		}).
		Build()

	parent, errChan := irrecoverable.WithSignaler(context.Background())
	go cm.Start(parent)

	select {
	case err := <-errChan:
		assert.ErrorIs(t, err, thrown)
	case <-time.After(time.Second):
		t.Fatal("error was not propagated")
	}

	select {
	case <-cm.Done():
	case <-time.After(time.Second):
		t.Fatal("other workers were not shut down")
	}
}

func TestRunComponentRestarts(t *testing.T) {
	starts := atomic.NewInt32(0)
	thrown := errors.New("transient")

	factory := func() (component.Component, error) {
		run := starts.Inc()
		return component.NewComponentManagerBuilder().
			AddWorker(func(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
				ready()
				if run < 3 {
					ctx.Throw(thrown)
				}
			}).
			Build(), nil
	}

	handled := atomic.NewInt32(0)
	err := component.RunComponent(context.Background(), factory, func(err error) component.ErrorHandlingResult {
		require.ErrorIs(t, err, thrown)
		handled.Inc()
		return component.ErrorHandlingRestart
	})

	require.NoError(t, err)
	assert.Equal(t, int32(3), starts.Load())
	assert.Equal(t, int32(2), handled.Load())
}
