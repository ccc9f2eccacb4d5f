package module

import (
	"time"
)

type CacheMetrics interface {
	// CacheEntries report the total number of cached items
	CacheEntries(resource string, entries uint)
	// CacheHit report the number of times the queried item is found in the cache
	CacheHit(resource string)
	// CacheNotFound records the number of times the queried item was not found in either cache or database.
	CacheNotFound(resource string)
	// CacheMiss report the number of times the queried item is not found in the cache, but found in the database.
	CacheMiss(resource string)
}

// MempoolMetrics tracks the items waiting to be included in a proposal.
type MempoolMetrics interface {
	// MempoolEntries reports the number of items in the given mempool.
	MempoolEntries(resource string, entries uint)
}

// StorageMetrics tracks the persistence of consensus data.
type StorageMetrics interface {
	// RetryOnConflict counts badger transactions retried after a conflict.
	RetryOnConflict()
	// StorageQueueLength reports the number of writes waiting to be persisted.
	StorageQueueLength(length uint)
	// StorageWriteFailed counts writes that failed after all retries.
	StorageWriteFailed()
}

// StreamletMetrics tracks the progress of the consensus core.
type StreamletMetrics interface {
	// SetCurEpoch reports the epoch the replica is currently in.
	SetCurEpoch(epoch uint64)

	// CountSkipped counts epochs that ended without the replica voting.
	CountSkipped()

	// BlockIncorporated counts blocks added to the block store.
	BlockIncorporated()

	// BlockNotarized reports a block reaching the notarization threshold.
	BlockNotarized(epoch uint64)

	// BlockFinalized reports a newly finalized block.
	BlockFinalized(height uint64, epoch uint64)

	// VoteProcessed counts votes by their outcome.
	VoteProcessed(outcome string)

	// ProtocolViolation counts Byzantine inputs by kind.
	ProtocolViolation(kind string)

	// MessageDropped counts inbound messages dropped without processing, by reason.
	MessageDropped(reason string)

	// PendingBufferSize reports the number of buffered proposals and votes.
	PendingBufferSize(proposals uint, votes uint)

	// InboundQueueLength reports the length of an inbound queue.
	InboundQueueLength(queue string, length uint)

	// HandlerDuration reports the time the event handler spent on an event.
	HandlerDuration(duration time.Duration, event string)
}
