package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/module/metrics"
	"github.com/onflow/streamlet/utils/unittest"
)

func newBuilder(t *testing.T, poolSize uint, maxItems uint) *Builder {
	b, err := NewBuilder(unittest.Logger(), metrics.NewNoopCollector(), unittest.Hasher(), poolSize, maxItems)
	require.NoError(t, err)
	return b
}

func TestPayloadIncludesOldestItems(t *testing.T) {
	b := newBuilder(t, 10, 2)
	require.True(t, b.Submit([]byte("a")))
	require.True(t, b.Submit([]byte("b")))
	require.True(t, b.Submit([]byte("c")))
	require.False(t, b.Submit([]byte("a")))

	payload, err := b.GetPayload(1)
	require.NoError(t, err)
	items, err := DecodePayload(payload)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, items)

	// building does not consume the items
	assert.Equal(t, uint(3), b.Pending())
}

func TestEmptyPayload(t *testing.T) {
	b := newBuilder(t, 10, 2)
	payload, err := b.GetPayload(1)
	require.NoError(t, err)
	assert.Empty(t, payload)

	items, err := DecodePayload(payload)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFinalizationRemovesIncludedItems(t *testing.T) {
	b := newBuilder(t, 10, 2)
	b.Submit([]byte("a"))
	b.Submit([]byte("b"))
	b.Submit([]byte("c"))

	payload, err := b.GetPayload(1)
	require.NoError(t, err)
	block := unittest.BlockFixture(unittest.GenesisFixture(), 1, unittest.WithPayload(payload))
	b.OnFinalizedBlock(block)
	assert.Equal(t, uint(1), b.Pending())

	payload, err = b.GetPayload(2)
	require.NoError(t, err)
	items, err := DecodePayload(payload)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("c")}, items)
}

func TestUndecodablePayloadIsSkipped(t *testing.T) {
	b := newBuilder(t, 10, 2)
	b.Submit([]byte("a"))

	block := unittest.BlockFixture(unittest.GenesisFixture(), 1, unittest.WithPayload([]byte{0xc1}))
	b.OnFinalizedBlock(block)
	assert.Equal(t, uint(1), b.Pending())
}

func TestPoolEvictsOldest(t *testing.T) {
	b := newBuilder(t, 2, 10)
	b.Submit([]byte("a"))
	b.Submit([]byte("b"))
	b.Submit([]byte("c"))
	assert.Equal(t, uint(2), b.Pending())

	payload, err := b.GetPayload(1)
	require.NoError(t, err)
	items, err := DecodePayload(payload)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("b"), []byte("c")}, items)
}

func TestBuilderConfiguration(t *testing.T) {
	_, err := NewBuilder(unittest.Logger(), metrics.NewNoopCollector(), unittest.Hasher(), 10, 0)
	assert.True(t, model.IsConfigurationError(err))

	_, err = NewBuilder(unittest.Logger(), metrics.NewNoopCollector(), unittest.Hasher(), 0, 10)
	assert.True(t, model.IsConfigurationError(err))
}
