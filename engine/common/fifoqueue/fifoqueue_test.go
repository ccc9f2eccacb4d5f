package fifoqueue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFifoQueue_Order(t *testing.T) {
	queue, err := NewFifoQueue()
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		require.True(t, queue.Push(i))
	}
	assert.Equal(t, 100, queue.Len())
	for i := 0; i < 100; i++ {
		element, ok := queue.Pop()
		require.True(t, ok)
		assert.Equal(t, i, element)
	}
	_, ok := queue.Pop()
	assert.False(t, ok)
}

// TestFifoQueue_Capacity checks that elements beyond the capacity are dropped
// and that space freed by Pop can be reused.
func TestFifoQueue_Capacity(t *testing.T) {
	queue, err := NewFifoQueue(WithCapacity(2))
	require.NoError(t, err)

	assert.True(t, queue.Push("a"))
	assert.True(t, queue.Push("b"))
	assert.False(t, queue.Push("c"))
	assert.Equal(t, 2, queue.Len())

	element, ok := queue.Pop()
	require.True(t, ok)
	assert.Equal(t, "a", element)
	assert.True(t, queue.Push("d"))
}

func TestFifoQueue_LengthObserver(t *testing.T) {
	var lengths []int
	queue, err := NewFifoQueue(WithCapacity(2), WithLengthObserver(func(length int) {
		lengths = append(lengths, length)
	}))
	require.NoError(t, err)

	queue.Push(1)
	queue.Push(2)
	queue.Push(3) // dropped, not observed
	queue.Pop()
	queue.Pop()
	queue.Pop() // empty, not observed

	assert.Equal(t, []int{1, 2, 1, 0}, lengths)
}

func TestFifoQueue_InvalidOptions(t *testing.T) {
	_, err := NewFifoQueue(WithCapacity(0))
	assert.Error(t, err)
	_, err = NewFifoQueue(WithLengthObserver(nil))
	assert.Error(t, err)
}

func TestFifoQueue_Concurrent(t *testing.T) {
	queue, err := NewFifoQueue()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				queue.Push(i)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 8000, queue.Len())

	popped := 0
	for {
		if _, ok := queue.Pop(); !ok {
			break
		}
		popped++
	}
	assert.Equal(t, 8000, popped)
}
