package irrecoverable_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/streamlet/module/irrecoverable"
)

func TestThrowTerminatesGoroutine(t *testing.T) {
	ctx, errChan := irrecoverable.WithSignaler(context.Background())
	sentinel := errors.New("state corrupted")

	reachedAfterThrow := make(chan struct{})
	go func() {
		ctx.Throw(sentinel)
		close(reachedAfterThrow)
	}()

	select {
	case err := <-errChan:
		assert.ErrorIs(t, err, sentinel)
	case <-time.After(time.Second):
		t.Fatal("no error signalled")
	}

	select {
	case <-reachedAfterThrow:
		t.Fatal("goroutine continued after Throw")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestOnlyFirstErrorIsSignalled(t *testing.T) {
	ctx, errChan := irrecoverable.WithSignaler(context.Background())
	first := errors.New("first")

	done := make(chan struct{})
	go func() {
		defer close(done)
		ctx.Throw(first)
	}()
	<-done

	done = make(chan struct{})
	go func() {
		defer close(done)
		ctx.Throw(errors.New("second"))
	}()
	<-done

	err, ok := <-errChan
	require.True(t, ok)
	assert.Equal(t, first, err)
	_, ok = <-errChan
	assert.False(t, ok, "channel should be closed after the first error")
}

func TestException(t *testing.T) {
	cause := errors.New("disk failure")
	exc := irrecoverable.NewExceptionf("could not persist safety data: %w", cause)

	assert.True(t, irrecoverable.IsException(exc))
	assert.True(t, irrecoverable.IsException(fmt.Errorf("wrapped: %w", exc)))
	assert.ErrorIs(t, exc, cause)
	assert.False(t, irrecoverable.IsException(cause))
}
