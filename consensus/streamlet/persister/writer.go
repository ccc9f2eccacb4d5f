package persister

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"go.uber.org/atomic"

	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/engine/common/fifoqueue"
	"github.com/onflow/streamlet/model/flow"
	"github.com/onflow/streamlet/module"
	"github.com/onflow/streamlet/module/component"
	"github.com/onflow/streamlet/module/irrecoverable"
	"github.com/onflow/streamlet/storage"
	"github.com/onflow/streamlet/utils/logging"
)

const (
	writeRetryBase = 10 * time.Millisecond
	writeRetryMax  = time.Second
	writeRetries   = 8
)

// write is a single queued storage operation.
type write struct {
	kind     string
	entityID flow.Identifier
	run      func() error
}

// Writer persists incorporated blocks, counted votes and finalized blocks in
// the background, so the event loop never waits for the disk. Writes are
// applied in the order the events were emitted. A write that keeps failing
// after retries is thrown as an irrecoverable error.
//
// Safety data is not written here; SafetyRules persists it synchronously
// through the Persister before a vote is released.
type Writer struct {
	*component.ComponentManager
	log        zerolog.Logger
	storage    *storage.All
	metrics    module.StorageMetrics
	queue      *fifoqueue.FifoQueue
	notifier   module.Notifier
	nextHeight *atomic.Uint64
}

var _ streamlet.FinalizationConsumer = (*Writer)(nil)
var _ streamlet.VoteLedgerConsumer = (*Writer)(nil)

// NewWriter creates a writer which continues the finalized height index
// found in storage.
func NewWriter(log zerolog.Logger, all *storage.All, metrics module.StorageMetrics) (*Writer, error) {
	height, err := all.Finalization.FinalizedHeight()
	if err != nil {
		return nil, fmt.Errorf("could not read finalized height: %w", err)
	}
	queue, err := fifoqueue.NewFifoQueue(fifoqueue.WithLengthObserver(func(length int) {
		metrics.StorageQueueLength(uint(length))
	}))
	if err != nil {
		return nil, fmt.Errorf("could not create write queue: %w", err)
	}

	w := &Writer{
		log:        log.With().Str("component", "storage_writer").Logger(),
		storage:    all,
		metrics:    metrics,
		queue:      queue,
		notifier:   module.NewNotifier(),
		nextHeight: atomic.NewUint64(height + 1),
	}
	w.ComponentManager = component.NewComponentManagerBuilder().
		AddWorker(w.processWrites).
		Build()
	return w, nil
}

// OnBlockIncorporated queues the block for storage.
func (w *Writer) OnBlockIncorporated(block *model.Block) {
	w.enqueue(write{kind: "block", entityID: block.BlockID, run: func() error {
		return w.storage.Blocks.Store(block)
	}})
}

func (w *Writer) OnBlockNotarized(*model.Block) {}

// OnFinalizedBlock queues the block for the finalized height index. Blocks
// are finalized in order, so each one is one above the previous.
func (w *Writer) OnFinalizedBlock(block *model.Block) {
	height := w.nextHeight.Inc() - 1
	w.enqueue(write{kind: "finalized", entityID: block.BlockID, run: func() error {
		return w.storage.Finalization.Finalize(height, block.BlockID)
	}})
}

// OnVoteProcessed queues counted votes for storage.
func (w *Writer) OnVoteProcessed(vote *model.Vote, _ model.VoteOutcome) {
	w.enqueue(write{kind: "vote", entityID: vote.BlockID, run: func() error {
		return w.storage.Votes.Store(vote)
	}})
}

func (w *Writer) OnDoubleVotingDetected(*model.Vote, *model.Vote) {}

func (w *Writer) OnInvalidVoteDetected(model.InvalidVoteError) {}

// Pending returns the number of writes not yet applied.
func (w *Writer) Pending() int {
	return w.queue.Len()
}

func (w *Writer) enqueue(op write) {
	w.queue.Push(op)
	w.notifier.Notify()
}

// processWrites applies queued writes until shutdown. Writes still queued at
// shutdown are applied before the worker exits. Writes are never interrupted
// by cancellation; the retry budget bounds how long one write may take.
func (w *Writer) processWrites(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	ready()
	for {
		select {
		case <-ctx.Done():
			w.drain(ctx)
			return
		case <-w.notifier.Channel():
			w.drain(ctx)
		}
	}
}

func (w *Writer) drain(signaler irrecoverable.SignalerContext) {
	for {
		item, ok := w.queue.Pop()
		if !ok {
			return
		}
		op := item.(write)
		err := w.apply(op)
		if err != nil {
			w.metrics.StorageWriteFailed()
			signaler.Throw(fmt.Errorf("could not persist %s: %w", op.kind, err))
			return
		}
	}
}

func (w *Writer) apply(op write) error {
	backoff := retry.NewExponential(writeRetryBase)
	backoff = retry.WithCappedDuration(writeRetryMax, backoff)
	backoff = retry.WithMaxRetries(writeRetries, backoff)

	attempt := 0
	return retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		attempt++
		err := op.run()
		if err == nil {
			return nil
		}
		w.log.Warn().Err(err).
			Str("write", op.kind).
			Hex("entity_id", logging.ID(op.entityID)).
			Int("attempt", attempt).
			Msg("could not persist, retrying")
		return retry.RetryableError(err)
	})
}

