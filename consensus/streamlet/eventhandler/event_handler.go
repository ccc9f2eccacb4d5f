package eventhandler

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/forkchoice"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/consensus/streamlet/pending"
	"github.com/onflow/streamlet/consensus/streamlet/voteledger"
	"github.com/onflow/streamlet/model/flow"
	"github.com/onflow/streamlet/module"
	"github.com/onflow/streamlet/module/metrics"
	"github.com/onflow/streamlet/utils/logging"
)

// EventHandler is the main handler for individual events that trigger state transition.
// It exposes API to handle one event at a time synchronously. The caller is
// responsible for running the event loop to ensure that.
//
// Byzantine inputs are dropped and reported through the notifier. Only
// exceptions are returned: failures to persist or sign, and evidence that
// the finalized chain forked.
type EventHandler struct {
	log          zerolog.Logger
	config       streamlet.Config
	clock        streamlet.EpochClock
	committee    streamlet.Committee
	hasher       streamlet.Hasher
	verifier     streamlet.Verifier
	blocks       streamlet.BlockStore
	ledger       streamlet.VoteLedger
	forkChoice   streamlet.ForkChoice
	finalizer    streamlet.Finalizer
	safetyRules  streamlet.SafetyRules
	payloads     streamlet.PayloadProvider
	communicator streamlet.Communicator
	notifier     streamlet.Consumer
	metrics      module.StreamletMetrics

	pendingProposals *pending.Proposals
	pendingVotes     *pending.Votes

	curEpoch uint64
	phase    streamlet.EpochPhase
	// first block of the current epoch, the only one this replica may vote for
	curProposal *model.Block
}

var _ streamlet.EventHandler = (*EventHandler)(nil)

// NewEventHandler creates an EventHandler instance with initial components.
func NewEventHandler(
	log zerolog.Logger,
	config streamlet.Config,
	clock streamlet.EpochClock,
	committee streamlet.Committee,
	hasher streamlet.Hasher,
	verifier streamlet.Verifier,
	blocks streamlet.BlockStore,
	ledger streamlet.VoteLedger,
	forkChoice streamlet.ForkChoice,
	finalizer streamlet.Finalizer,
	safetyRules streamlet.SafetyRules,
	payloads streamlet.PayloadProvider,
	communicator streamlet.Communicator,
	notifier streamlet.Consumer,
	collector module.StreamletMetrics,
) (*EventHandler, error) {
	if config.PendingWindow == 0 || config.InboundQueueCapacity == 0 {
		return nil, model.NewConfigurationErrorf("pending window and inbound queue capacity must be positive")
	}
	e := &EventHandler{
		log:              log.With().Str("streamlet", "participant").Logger(),
		config:           config,
		clock:            clock,
		committee:        committee,
		hasher:           hasher,
		verifier:         verifier,
		blocks:           blocks,
		ledger:           ledger,
		forkChoice:       forkChoice,
		finalizer:        finalizer,
		safetyRules:      safetyRules,
		payloads:         payloads,
		communicator:     communicator,
		notifier:         notifier,
		metrics:          collector,
		pendingProposals: pending.NewProposals(uint(config.InboundQueueCapacity)),
		pendingVotes:     pending.NewVotes(uint(config.InboundQueueCapacity)),
		phase:            streamlet.AwaitingEpoch,
	}
	return e, nil
}

// Start enters the epoch the clock is in, if any epoch has started yet.
func (e *EventHandler) Start() error {
	curEpoch := e.clock.CurrentEpoch()
	e.notifier.OnStart(curEpoch)
	defer e.notifier.OnEventProcessed()

	if curEpoch == 0 {
		return nil
	}
	return e.enterEpoch(curEpoch)
}

// CurrentEpoch returns the epoch the replica is in.
func (e *EventHandler) CurrentEpoch() uint64 {
	return e.curEpoch
}

// Phase returns the replica's progress within the current epoch.
func (e *EventHandler) Phase() streamlet.EpochPhase {
	return e.phase
}

// OnEpochTick moves the replica to the given epoch. Ticks for the current or
// an earlier epoch are ignored.
func (e *EventHandler) OnEpochTick(epoch uint64) error {
	defer e.notifier.OnEventProcessed()
	if epoch <= e.curEpoch {
		e.log.Debug().
			Uint64("cur_epoch", e.curEpoch).
			Uint64("tick_epoch", epoch).
			Msg("ignoring stale epoch tick")
		return nil
	}
	return e.enterEpoch(epoch)
}

// OnReceiveProposal processes a block proposal, either received from another
// replica or produced locally.
func (e *EventHandler) OnReceiveProposal(proposal *model.Proposal) error {
	e.notifier.OnReceiveProposal(e.curEpoch, proposal)
	defer e.notifier.OnEventProcessed()

	err := e.processProposal(proposal)
	if err != nil {
		return fmt.Errorf("failed processing proposal %x at epoch %d: %w", proposal.Block.BlockID, proposal.Block.Epoch, err)
	}
	return nil
}

// OnReceiveVote processes a vote, either received from another replica or
// produced locally.
func (e *EventHandler) OnReceiveVote(vote *model.Vote) error {
	e.notifier.OnReceiveVote(e.curEpoch, vote)
	defer e.notifier.OnEventProcessed()

	err := e.processVote(vote)
	if err != nil {
		return fmt.Errorf("failed processing vote by %x at epoch %d: %w", vote.SignerID, vote.Epoch, err)
	}
	return nil
}

// enterEpoch switches to a later epoch. The leader proposes; every other
// replica waits for the leader's proposal, unless it already arrived.
func (e *EventHandler) enterEpoch(epoch uint64) error {
	if e.curEpoch > 0 && e.safetyRules.LastVotedEpoch() < e.curEpoch {
		e.notifier.OnSkippedEpoch(e.curEpoch)
	}

	e.curEpoch = epoch
	e.curProposal = nil
	e.pruneBuffers()

	leader := e.clock.LeaderFor(epoch)
	log := e.log.With().
		Uint64("cur_epoch", epoch).
		Hex("leader_id", logging.ID(leader)).
		Logger()
	log.Debug().Msg("entering new epoch")
	e.notifier.OnEnteringEpoch(epoch, leader)

	if leader == e.committee.Self() {
		e.phase = streamlet.Proposing
		return e.propose()
	}

	e.phase = streamlet.Voting
	// the proposal may have been ingested ahead of its epoch
	early := e.blocks.BlocksAtEpoch(epoch)
	if len(early) == 0 {
		log.Debug().Msg("waiting for proposal from leader")
		return nil
	}
	e.curProposal = early[0]
	return e.ownVote(e.curProposal)
}

// propose builds a block on the tip of the longest notarized chain, hands it
// to the communicator and processes it like any inbound proposal.
func (e *EventHandler) propose() error {
	parent := e.forkChoice.Tip()
	payload, err := e.payloads.GetPayload(e.curEpoch)
	if err != nil {
		return fmt.Errorf("could not build payload for epoch %d: %w", e.curEpoch, err)
	}
	block, err := model.NewBlock(e.hasher, model.UntrustedBlock{
		Epoch:      e.curEpoch,
		ParentID:   parent.BlockID,
		Payload:    payload,
		ProposerID: e.committee.Self(),
	})
	if err != nil {
		return fmt.Errorf("could not construct block for epoch %d: %w", e.curEpoch, err)
	}

	log := e.log.With().
		Uint64("block_epoch", block.Epoch).
		Hex("block_id", logging.ID(block.BlockID)).
		Uint64("parent_epoch", parent.Epoch).
		Hex("parent_id", logging.ID(parent.BlockID)).
		Logger()

	proposal, err := e.safetyRules.ProduceProposal(block, e.curEpoch)
	if err != nil {
		if model.IsNoVoteError(err) {
			log.Debug().Err(err).Msg("not proposing in this epoch")
			return nil
		}
		return fmt.Errorf("could not produce proposal for epoch %d: %w", e.curEpoch, err)
	}
	e.notifier.OnOwnProposal(proposal)

	log.Debug().Msg("forwarding proposal to communicator for broadcasting")
	err = e.communicator.BroadcastProposal(proposal)
	if err != nil {
		log.Warn().Err(err).Msg("could not forward proposal")
	}

	return e.processProposal(proposal)
}

// processProposal validates a proposal and ingests it together with any
// buffered descendants.
func (e *EventHandler) processProposal(proposal *model.Proposal) error {
	valid, err := e.validateProposal(proposal)
	if err != nil || !valid {
		return err
	}

	block := proposal.Block
	if _, found := e.blocks.Get(block.BlockID); found {
		return nil
	}
	if _, found := e.blocks.Get(block.ParentID); !found {
		e.bufferProposal(proposal)
		return nil
	}
	return e.ingest(proposal)
}

// validateProposal checks everything about a proposal that does not depend on
// the block tree. Returns false if the proposal must be dropped.
func (e *EventHandler) validateProposal(proposal *model.Proposal) (bool, error) {
	block := proposal.Block
	log := e.log.With().
		Uint64("block_epoch", block.Epoch).
		Hex("block_id", logging.ID(block.BlockID)).
		Hex("proposer_id", logging.ID(block.ProposerID)).
		Logger()

	err := block.Verify(e.hasher)
	if err == nil && (block.Epoch == 0 || block.ParentID == flow.ZeroID) {
		err = model.NewInvalidBlockErrorf(block, "only the genesis block may have epoch 0 or no parent")
	}
	if err != nil {
		invalid, ok := model.AsInvalidBlockError(err)
		if !ok {
			return false, fmt.Errorf("unexpected error verifying block content: %w", err)
		}
		log.Warn().Err(err).Msg("dropping proposal with invalid block")
		e.notifier.OnInvalidBlockDetected(*invalid)
		return false, nil
	}

	if !e.withinWindow(block.Epoch) {
		e.notifier.OnMessageOutsideWindow(e.curEpoch, block.Epoch)
		return false, nil
	}

	if block.ProposerID != e.clock.LeaderFor(block.Epoch) {
		e.reportInvalidProposal(proposal, fmt.Errorf("proposer %x does not lead epoch %d", block.ProposerID, block.Epoch))
		return false, nil
	}
	proposer, err := e.committee.IdentityByID(block.ProposerID)
	if err != nil {
		return false, fmt.Errorf("leader %x of epoch %d is not a committee member: %w", block.ProposerID, block.Epoch, err)
	}
	err = e.verifier.VerifyProposal(proposer, proposal)
	if err != nil {
		if errors.Is(err, model.ErrInvalidSignature) {
			e.reportInvalidProposal(proposal, err)
			return false, nil
		}
		return false, fmt.Errorf("could not verify proposal signature: %w", err)
	}
	return true, nil
}

func (e *EventHandler) reportInvalidProposal(proposal *model.Proposal, err error) {
	invalid := model.InvalidProposalError{Proposal: proposal, Err: err}
	e.log.Warn().
		Str(logging.KeySuspicious, "true").
		Err(invalid).
		Msg("dropping invalid proposal")
	e.notifier.OnInvalidProposalDetected(invalid)
}

func (e *EventHandler) bufferProposal(proposal *model.Proposal) {
	if e.pendingProposals.Add(proposal) {
		e.notifier.OnProposalBuffered(proposal)
	} else {
		e.metrics.MessageDropped(metrics.ReasonPendingFull)
	}
	e.reportPending()
}

// ingest adds a validated proposal whose parent is known to the block store,
// then cascades to the buffered proposals extending it. Iterative, so long
// chains of orphans do not grow the stack.
func (e *EventHandler) ingest(proposal *model.Proposal) error {
	queue := []*model.Proposal{proposal}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		added, err := e.addBlock(next.Block)
		if err != nil {
			return err
		}
		if !added {
			continue
		}

		blockID := next.Block.BlockID
		children := e.pendingProposals.ByParentID(blockID)
		e.pendingProposals.DropForParent(blockID)
		queue = append(queue, children...)
	}
	e.reportPending()
	return nil
}

// addBlock stores one block, votes for it if it is the current epoch's
// proposal and replays the votes that arrived before it.
func (e *EventHandler) addBlock(block *model.Block) (bool, error) {
	added, err := e.blocks.Add(block)
	if err != nil {
		if model.IsInvalidEpochError(err) {
			invalid := model.InvalidBlockError{BlockID: block.BlockID, Epoch: block.Epoch, Err: err}
			e.log.Warn().Str(logging.KeySuspicious, "true").Err(invalid).Msg("dropping block with invalid epoch")
			e.notifier.OnInvalidBlockDetected(invalid)
			return false, nil
		}
		return false, fmt.Errorf("could not add block %x to block store: %w", block.BlockID, err)
	}
	if !added {
		return false, nil
	}
	e.notifier.OnBlockIncorporated(block)

	for _, other := range e.blocks.BlocksAtEpoch(block.Epoch) {
		if other.BlockID != block.BlockID {
			e.notifier.OnDoubleProposeDetected(other, block)
			break
		}
	}

	if block.Epoch == e.curEpoch && e.curProposal == nil {
		e.curProposal = block
		err = e.ownVote(block)
		if err != nil {
			return false, err
		}
	}

	votes := e.pendingVotes.ByBlockID(block.BlockID)
	e.pendingVotes.DropForBlock(block.BlockID)
	for _, vote := range votes {
		err = e.processVote(vote)
		if err != nil {
			return false, err
		}
	}
	return true, nil
}

// ownVote generates and forwards the own vote, if we decide to vote.
// Any errors are potential symptoms of uncovered edge cases or corrupted internal state (fatal).
func (e *EventHandler) ownVote(block *model.Block) error {
	log := e.log.With().
		Uint64("block_epoch", block.Epoch).
		Hex("block_id", logging.ID(block.BlockID)).
		Hex("parent_id", logging.ID(block.ParentID)).
		Logger()

	// safetyRules performs all the checks to decide whether to vote for this block or not.
	vote, err := e.safetyRules.ProduceVote(block, e.curEpoch)
	if err != nil {
		if !model.IsNoVoteError(err) {
			return fmt.Errorf("could not produce vote: %w", err)
		}
		log.Debug().Err(err).Msg("should not vote for this block")
		return nil
	}

	if e.phase != streamlet.EpochComplete {
		e.phase = streamlet.AwaitingVotes
	}
	e.notifier.OnOwnVote(vote)
	log.Debug().Msg("forwarding vote to communicator for broadcasting")
	err = e.communicator.BroadcastVote(vote)
	if err != nil {
		log.Warn().Err(err).Msg("could not forward vote")
	}

	return e.processVote(vote)
}

// processVote records a vote for a known block, whatever its epoch. A vote
// for an unknown block is buffered until the block arrives, unless its epoch
// lies outside the tolerance window.
func (e *EventHandler) processVote(vote *model.Vote) error {
	block, found := e.blocks.Get(vote.BlockID)
	if !found {
		if !e.withinWindow(vote.Epoch) {
			e.notifier.OnMessageOutsideWindow(e.curEpoch, vote.Epoch)
			return nil
		}
		if e.pendingVotes.Add(vote) {
			e.notifier.OnVoteBuffered(vote)
		} else {
			e.metrics.MessageDropped(metrics.ReasonPendingFull)
		}
		e.reportPending()
		return nil
	}

	err := voteledger.EnsureVoteForBlock(vote, block)
	if err != nil {
		invalid := model.InvalidVoteError{Vote: vote, Err: err}
		e.log.Warn().Str(logging.KeySuspicious, "true").Err(invalid).Msg("dropping vote for incompatible block")
		e.notifier.OnInvalidVoteDetected(invalid)
		return nil
	}

	outcome, err := e.ledger.RecordVote(vote)
	if err != nil {
		if model.IsInvalidVoteError(err) || model.IsDoubleVoteError(err) {
			// reported by the ledger
			return nil
		}
		return fmt.Errorf("could not record vote: %w", err)
	}
	if outcome != model.VoteCountedNewlyNotarized {
		return nil
	}
	return e.onBlockNotarized(block)
}

// onBlockNotarized is called exactly once per block, when the block is stored
// and has just reached the notarization threshold.
func (e *EventHandler) onBlockNotarized(block *model.Block) error {
	e.notifier.OnBlockNotarized(block)
	if block.Epoch == e.curEpoch {
		e.phase = streamlet.EpochComplete
	}

	chain, err := e.forkChoice.NotarizedChain(block.BlockID)
	if err != nil {
		if !errors.Is(err, forkchoice.ErrNotNotarized) {
			return fmt.Errorf("could not compute notarized chain of block %x: %w", block.BlockID, err)
		}
		// finalization is evaluated once the gap is notarized
		e.log.Debug().
			Uint64("block_epoch", block.Epoch).
			Hex("block_id", logging.ID(block.BlockID)).
			Msg("notarized block has an ancestor that is not notarized yet")
	} else {
		err = e.finalize(chain)
		if err != nil {
			return err
		}
	}

	// a new notarization may have made the current proposal safe to vote for
	if e.curProposal != nil && e.safetyRules.LastVotedEpoch() < e.curEpoch {
		return e.ownVote(e.curProposal)
	}
	return nil
}

// finalize applies the finalization rule to every maximal notarized chain
// running through the tip of the given chain. Notarizing a block may connect
// notarized descendants to genesis, so all of them are examined.
func (e *EventHandler) finalize(chain []*model.Block) error {
	chains := [][]*model.Block{chain}
	for len(chains) > 0 {
		chain := chains[len(chains)-1]
		chains = chains[:len(chains)-1]

		for {
			tip := chain[len(chain)-1]
			children := e.notarizedChildren(tip.BlockID)
			if len(children) == 0 {
				break
			}
			for _, child := range children[1:] {
				branch := make([]*model.Block, len(chain), len(chain)+1)
				copy(branch, chain)
				chains = append(chains, append(branch, child))
			}
			chain = append(chain, children[0])
		}

		finalized, err := e.finalizer.OnNotarized(chain)
		if err != nil {
			return fmt.Errorf("could not finalize notarized chain ending at %x: %w", chain[len(chain)-1].BlockID, err)
		}
		for _, block := range finalized {
			e.notifier.OnFinalizedBlock(block)
		}
	}
	return nil
}

func (e *EventHandler) notarizedChildren(blockID flow.Identifier) []*model.Block {
	var notarized []*model.Block
	for _, child := range e.blocks.ChildrenOf(blockID) {
		if e.ledger.IsNotarized(child.BlockID) {
			notarized = append(notarized, child)
		}
	}
	return notarized
}

// withinWindow returns true if the epoch is at most ToleranceEpochs away from
// the current epoch.
func (e *EventHandler) withinWindow(epoch uint64) bool {
	tolerance := e.config.ToleranceEpochs
	if epoch+tolerance < e.curEpoch {
		return false
	}
	return epoch <= e.curEpoch+tolerance
}

// pruneBuffers evicts buffered messages that fell out of the pending window.
func (e *EventHandler) pruneBuffers() {
	if e.curEpoch <= e.config.PendingWindow {
		return
	}
	cutoff := e.curEpoch - e.config.PendingWindow - 1
	pruned := e.pendingProposals.PruneUpToEpoch(cutoff) + e.pendingVotes.PruneUpToEpoch(cutoff)
	if pruned > 0 {
		e.log.Debug().
			Uint64("cur_epoch", e.curEpoch).
			Uint64("cutoff_epoch", cutoff).
			Uint("pruned", pruned).
			Msg("evicted buffered messages outside the pending window")
	}
	for i := uint(0); i < pruned; i++ {
		e.metrics.MessageDropped(metrics.ReasonPendingPruned)
	}
	e.reportPending()
}

func (e *EventHandler) reportPending() {
	e.metrics.PendingBufferSize(e.pendingProposals.Size(), e.pendingVotes.Size())
}
