package eventloop

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/epochclock"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/engine/common/fifoqueue"
	"github.com/onflow/streamlet/module"
	"github.com/onflow/streamlet/module/component"
	"github.com/onflow/streamlet/module/irrecoverable"
	"github.com/onflow/streamlet/module/metrics"
	"github.com/onflow/streamlet/utils/logging"
)

// EventLoop buffers all incoming events to the streamlet EventHandler, and feeds EventHandler one event at a time.
// Epoch ticks are prioritized over inbound messages: an epoch change is
// processed before any message queued behind it.
type EventLoop struct {
	*component.ComponentManager
	log          zerolog.Logger
	eventHandler streamlet.EventHandler
	ticker       epochclock.TickSource
	metrics      module.StreamletMetrics
	proposals    *fifoqueue.FifoQueue
	votes        *fifoqueue.FifoQueue
	notifier     module.Notifier
}

var _ streamlet.EventLoop = (*EventLoop)(nil)

// NewEventLoop creates an instance of EventLoop. Each inbound queue holds at
// most capacity messages.
func NewEventLoop(
	log zerolog.Logger,
	collector module.StreamletMetrics,
	eventHandler streamlet.EventHandler,
	ticker epochclock.TickSource,
	capacity uint32,
) (*EventLoop, error) {
	proposals, err := fifoqueue.NewFifoQueue(
		fifoqueue.WithCapacity(int(capacity)),
		fifoqueue.WithLengthObserver(func(len int) { collector.InboundQueueLength(metrics.QueueProposals, uint(len)) }),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create queue for inbound proposals: %w", err)
	}
	votes, err := fifoqueue.NewFifoQueue(
		fifoqueue.WithCapacity(int(capacity)),
		fifoqueue.WithLengthObserver(func(len int) { collector.InboundQueueLength(metrics.QueueVotes, uint(len)) }),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create queue for inbound votes: %w", err)
	}

	el := &EventLoop{
		log:          log.With().Str("streamlet", "event_loop").Logger(),
		eventHandler: eventHandler,
		ticker:       ticker,
		metrics:      collector,
		proposals:    proposals,
		votes:        votes,
		notifier:     module.NewNotifier(),
	}
	el.ComponentManager = component.NewComponentManagerBuilder().
		AddWorker(el.loop).
		Build()
	return el, nil
}

// loop executes the core streamlet logic in a single thread. It starts the
// ticker and the event handler, then processes events until shutdown.
func (el *EventLoop) loop(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	el.ticker.Start(ctx)
	err := el.eventHandler.Start()
	if err != nil {
		ctx.Throw(fmt.Errorf("could not start event handler: %w", err))
		return
	}
	ready()

	shutdownSignaled := ctx.Done()
	tickChannel := el.ticker.Channel()
	messageSignal := el.notifier.Channel()
	for {
		// Giving epoch ticks priority over other events
		select {
		case <-shutdownSignaled:
			return
		case epoch := <-tickChannel:
			el.onTick(ctx, epoch)
			continue
		default:
		}

		select {
		case <-shutdownSignaled:
			return
		case epoch := <-tickChannel:
			el.onTick(ctx, epoch)
		case <-messageSignal:
			err := el.processQueuedMessages(tickChannel)
			if err != nil {
				ctx.Throw(err)
				return
			}
		}
	}
}

func (el *EventLoop) onTick(ctx irrecoverable.SignalerContext, epoch uint64) {
	start := time.Now()
	err := el.eventHandler.OnEpochTick(epoch)
	el.metrics.HandlerDuration(time.Since(start), metrics.EventTick)
	if err != nil {
		ctx.Throw(fmt.Errorf("could not process tick for epoch %d: %w", epoch, err))
	}
}

// processQueuedMessages feeds queued proposals, then queued votes, to the
// event handler until both queues are empty. Returns early, with the message
// signal re-armed, if an epoch tick is waiting.
// No errors are expected during normal operation. All returned exceptions are
// potential symptoms of internal state corruption and should be fatal.
func (el *EventLoop) processQueuedMessages(tickChannel <-chan uint64) error {
	for {
		if len(tickChannel) > 0 {
			el.notifier.Notify()
			return nil
		}

		if msg, ok := el.proposals.Pop(); ok {
			proposal := msg.(*model.Proposal)
			start := time.Now()
			err := el.eventHandler.OnReceiveProposal(proposal)
			el.metrics.HandlerDuration(time.Since(start), metrics.EventProposal)
			if err != nil {
				return fmt.Errorf("could not process proposal %x: %w", proposal.Block.BlockID, err)
			}
			continue
		}

		if msg, ok := el.votes.Pop(); ok {
			vote := msg.(*model.Vote)
			start := time.Now()
			err := el.eventHandler.OnReceiveVote(vote)
			el.metrics.HandlerDuration(time.Since(start), metrics.EventVote)
			if err != nil {
				return fmt.Errorf("could not process vote for block %x: %w", vote.BlockID, err)
			}
			continue
		}

		// when there are no more messages in the queues, back to the loop to wait
		// for the next incoming message to arrive.
		return nil
	}
}

// SubmitProposal pushes the received proposal to the proposals queue. Never
// blocks; drops the proposal if the queue is full.
func (el *EventLoop) SubmitProposal(proposal *model.Proposal) {
	if !el.proposals.Push(proposal) {
		el.metrics.MessageDropped(metrics.ReasonQueueFull)
		el.log.Warn().
			Uint64("block_epoch", proposal.Block.Epoch).
			Hex("block_id", logging.ID(proposal.Block.BlockID)).
			Msg("dropping proposal, inbound queue is full")
		return
	}
	el.notifier.Notify()
}

// SubmitVote pushes the received vote to the votes queue. Never blocks; drops
// the vote if the queue is full.
func (el *EventLoop) SubmitVote(vote *model.Vote) {
	if !el.votes.Push(vote) {
		el.metrics.MessageDropped(metrics.ReasonQueueFull)
		el.log.Warn().
			Uint64("vote_epoch", vote.Epoch).
			Hex("signer_id", logging.ID(vote.SignerID)).
			Msg("dropping vote, inbound queue is full")
		return
	}
	el.notifier.Notify()
}
