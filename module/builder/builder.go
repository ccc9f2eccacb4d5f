package builder

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v4"

	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
	"github.com/onflow/streamlet/module"
	"github.com/onflow/streamlet/module/metrics"
	"github.com/onflow/streamlet/utils/logging"
)

const (
	// DefaultPoolSize is the number of pending items kept before the oldest is evicted.
	DefaultPoolSize = 10_000
	// DefaultMaxItems is the number of items packed into one payload.
	DefaultMaxItems = 100
)

// Builder assembles block payloads from a pool of pending items. An item
// stays in the pool until a finalized block includes it, so items proposed on
// an abandoned fork are proposed again.
//
// Builder is safe for concurrent use.
type Builder struct {
	log      zerolog.Logger
	metrics  module.MempoolMetrics
	hasher   model.Hasher
	pool     *lru.Cache[flow.Identifier, []byte]
	maxItems uint
}

var _ module.Builder = (*Builder)(nil)
var _ streamlet.PayloadProvider = (*Builder)(nil)

// NewBuilder creates a builder whose pool holds at most poolSize items and
// whose payloads hold at most maxItems items.
func NewBuilder(log zerolog.Logger, collector module.MempoolMetrics, hasher model.Hasher, poolSize uint, maxItems uint) (*Builder, error) {
	if maxItems == 0 {
		return nil, model.NewConfigurationErrorf("payloads must hold at least one item")
	}
	pool, err := lru.New[flow.Identifier, []byte](int(poolSize))
	if err != nil {
		return nil, model.NewConfigurationErrorf("could not create payload pool: %w", err)
	}
	return &Builder{
		log:      log.With().Str("component", "builder").Logger(),
		metrics:  collector,
		hasher:   hasher,
		pool:     pool,
		maxItems: maxItems,
	}, nil
}

// Submit adds an item to the pool. Returns false if the item is already
// pending. When the pool is full, the oldest item is evicted.
func (b *Builder) Submit(item []byte) bool {
	itemID := b.hasher.Hash(item)
	stored := make([]byte, len(item))
	copy(stored, item)

	found, _ := b.pool.ContainsOrAdd(itemID, stored)
	b.metrics.MempoolEntries(metrics.ResourcePayloadItem, uint(b.pool.Len()))
	return !found
}

// GetPayload packs the oldest pending items into a payload.
func (b *Builder) GetPayload(epoch uint64) ([]byte, error) {
	items := make([][]byte, 0, b.maxItems)
	for _, itemID := range b.pool.Keys() {
		if uint(len(items)) == b.maxItems {
			break
		}
		item, ok := b.pool.Peek(itemID)
		if !ok {
			continue // removed concurrently
		}
		items = append(items, item)
	}

	payload, err := EncodePayload(items)
	if err != nil {
		return nil, fmt.Errorf("could not build payload for epoch %d: %w", epoch, err)
	}
	return payload, nil
}

// Pending returns the number of items in the pool.
func (b *Builder) Pending() uint {
	return uint(b.pool.Len())
}

// OnFinalizedBlock removes the items included in the finalized block from the
// pool. Payloads of other proposers which cannot be decoded carry no items
// of ours and are skipped.
func (b *Builder) OnFinalizedBlock(block *model.Block) {
	items, err := DecodePayload(block.Payload)
	if err != nil {
		b.log.Warn().Err(err).
			Hex("block_id", logging.ID(block.BlockID)).
			Uint64("block_epoch", block.Epoch).
			Msg("could not decode payload of finalized block")
		return
	}
	for _, item := range items {
		b.pool.Remove(b.hasher.Hash(item))
	}
	b.metrics.MempoolEntries(metrics.ResourcePayloadItem, uint(b.pool.Len()))
}

// EncodePayload encodes the items of a payload. An empty list of items
// encodes to an empty payload.
func EncodePayload(items [][]byte) ([]byte, error) {
	if len(items) == 0 {
		return []byte{}, nil
	}
	payload, err := msgpack.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("could not encode payload: %w", err)
	}
	return payload, nil
}

// DecodePayload returns the items of a payload created by EncodePayload.
func DecodePayload(payload []byte) ([][]byte, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	var items [][]byte
	err := msgpack.Unmarshal(payload, &items)
	if err != nil {
		return nil, fmt.Errorf("could not decode payload: %w", err)
	}
	return items, nil
}
