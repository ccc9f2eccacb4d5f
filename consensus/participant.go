package consensus

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/blockstore"
	"github.com/onflow/streamlet/consensus/streamlet/epochclock"
	"github.com/onflow/streamlet/consensus/streamlet/eventhandler"
	"github.com/onflow/streamlet/consensus/streamlet/eventloop"
	"github.com/onflow/streamlet/consensus/streamlet/finalizer"
	"github.com/onflow/streamlet/consensus/streamlet/forkchoice"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/consensus/streamlet/notifications"
	"github.com/onflow/streamlet/consensus/streamlet/notifications/pubsub"
	"github.com/onflow/streamlet/consensus/streamlet/persister"
	"github.com/onflow/streamlet/consensus/streamlet/safetyrules"
	"github.com/onflow/streamlet/consensus/streamlet/voteledger"
	"github.com/onflow/streamlet/module"
	"github.com/onflow/streamlet/module/component"
	"github.com/onflow/streamlet/module/irrecoverable"
	"github.com/onflow/streamlet/module/util"
	"github.com/onflow/streamlet/storage"
)

// Participant is one replica of the consensus core, assembled from its
// components. Its lifecycle is that of its event loop and, if it persists its
// state, its storage writer.
type Participant struct {
	*component.ComponentManager
	EventLoop    *eventloop.EventLoop
	Handler      *eventhandler.EventHandler
	Blocks       *blockstore.BlockStore
	Ledger       *voteledger.Ledger
	ForkChoice   *forkchoice.ForkChoice
	Finalizer    *finalizer.Finalizer
	Finalization *pubsub.FinalizationDistributor
	writer       *persister.Writer
}

// ParticipantOption configures optional parts of a participant.
type ParticipantOption func(*participantConfig)

type participantConfig struct {
	consumers      []streamlet.Consumer
	storage        *storage.All
	storageMetrics module.StorageMetrics
}

// WithConsumer subscribes an additional consumer to the protocol notifications.
func WithConsumer(consumer streamlet.Consumer) ParticipantOption {
	return func(cfg *participantConfig) {
		cfg.consumers = append(cfg.consumers, consumer)
	}
}

// WithStorage makes the participant recover its state from the given storage
// at construction, and persist blocks, votes and finalized blocks to it.
func WithStorage(all *storage.All, collector module.StorageMetrics) ParticipantOption {
	return func(cfg *participantConfig) {
		cfg.storage = all
		cfg.storageMetrics = collector
	}
}

// NewParticipant wires up a replica. The committee must contain the local
// node, and the config must be valid for the committee.
func NewParticipant(
	log zerolog.Logger,
	collector module.StreamletMetrics,
	config streamlet.Config,
	committee streamlet.Committee,
	clock *epochclock.Clock,
	ticker epochclock.TickSource,
	hasher streamlet.Hasher,
	signer streamlet.Signer,
	verifier streamlet.Verifier,
	persist streamlet.Persister,
	payloads streamlet.PayloadProvider,
	communicator streamlet.Communicator,
	opts ...ParticipantOption,
) (*Participant, error) {
	cfg := &participantConfig{}
	for _, apply := range opts {
		apply(cfg)
	}

	err := config.Validate(committee.Members())
	if err != nil {
		return nil, err
	}

	genesis := model.Genesis(hasher)
	distributor := pubsub.NewDistributor()

	blocks, err := blockstore.New(genesis)
	if err != nil {
		return nil, fmt.Errorf("could not initialize block store: %w", err)
	}
	ledger, err := voteledger.New(committee, verifier, distributor, genesis.BlockID)
	if err != nil {
		return nil, fmt.Errorf("could not initialize vote ledger: %w", err)
	}
	forkChoice := forkchoice.New(blocks, ledger)
	final, err := finalizer.New(genesis)
	if err != nil {
		return nil, fmt.Errorf("could not initialize finalizer: %w", err)
	}

	// recover before any consumer is subscribed, so replayed state is not
	// reported again
	var recovered []*model.Block
	if cfg.storage != nil {
		recovered, err = Recover(log, cfg.storage, blocks, ledger, forkChoice, final)
		if err != nil {
			return nil, fmt.Errorf("could not recover consensus state: %w", err)
		}
	}

	safety, err := safetyrules.New(signer, forkChoice, persist, committee)
	if err != nil {
		return nil, fmt.Errorf("could not initialize safety rules: %w", err)
	}

	finalization := pubsub.NewFinalizationDistributor()
	distributor.AddConsumer(notifications.NewLogConsumer(log))
	distributor.AddConsumer(notifications.NewTelemetryConsumer(collector, final.FinalizedHeight()-uint64(len(recovered))))
	distributor.AddConsumer(&finalizationConsumer{FinalizationConsumer: finalization})
	for _, consumer := range cfg.consumers {
		distributor.AddConsumer(consumer)
	}

	var writer *persister.Writer
	if cfg.storage != nil {
		writer, err = persister.NewWriter(log, cfg.storage, cfg.storageMetrics)
		if err != nil {
			return nil, fmt.Errorf("could not initialize storage writer: %w", err)
		}
		distributor.AddConsumer(&storageConsumer{Writer: writer})
	}

	handler, err := eventhandler.NewEventHandler(log, config, clock, committee, hasher, verifier,
		blocks, ledger, forkChoice, final, safety, payloads, communicator, distributor, collector)
	if err != nil {
		return nil, fmt.Errorf("could not initialize event handler: %w", err)
	}
	loop, err := eventloop.NewEventLoop(log, collector, handler, ticker, config.InboundQueueCapacity)
	if err != nil {
		return nil, fmt.Errorf("could not initialize event loop: %w", err)
	}

	for _, block := range recovered {
		distributor.OnFinalizedBlock(block)
	}

	p := &Participant{
		EventLoop:    loop,
		Handler:      handler,
		Blocks:       blocks,
		Ledger:       ledger,
		ForkChoice:   forkChoice,
		Finalizer:    final,
		Finalization: finalization,
		writer:       writer,
	}
	p.ComponentManager = component.NewComponentManagerBuilder().
		AddWorker(p.run).
		Build()
	return p, nil
}

// SubmitProposal queues an inbound proposal without blocking.
func (p *Participant) SubmitProposal(proposal *model.Proposal) {
	p.EventLoop.SubmitProposal(proposal)
}

// SubmitVote queues an inbound vote without blocking.
func (p *Participant) SubmitVote(vote *model.Vote) {
	p.EventLoop.SubmitVote(vote)
}

// run starts the event loop and the storage writer. The writer is stopped
// only after the event loop returned, so it persists every event the loop
// emitted.
func (p *Participant) run(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	if p.writer == nil {
		p.EventLoop.Start(ctx)
		if util.WaitClosed(ctx, p.EventLoop.Ready()) == nil {
			ready()
		}
		<-p.EventLoop.Done()
		return
	}

	writerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signalerCtx, writerErrs := irrecoverable.WithSignaler(writerCtx)
	p.writer.Start(signalerCtx)
	p.EventLoop.Start(ctx)

	if util.WaitClosed(ctx, util.AllReady(p.EventLoop, p.writer)) == nil {
		ready()
	}

	select {
	case err := <-writerErrs:
		ctx.Throw(err)
	case <-p.EventLoop.Done():
	}

	cancel()
	<-p.writer.Done()
	select {
	case err := <-writerErrs:
		ctx.Throw(err)
	default:
	}
}

// finalizationConsumer subscribes a FinalizationConsumer to the full set of
// protocol notifications.
type finalizationConsumer struct {
	notifications.NoopVoteLedgerConsumer
	notifications.NoopProtocolViolationConsumer
	notifications.NoopParticipantConsumer
	streamlet.FinalizationConsumer
}

// storageConsumer subscribes the storage writer to the full set of protocol
// notifications.
type storageConsumer struct {
	notifications.NoopProtocolViolationConsumer
	notifications.NoopParticipantConsumer
	*persister.Writer
}
