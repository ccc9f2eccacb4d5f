package pubsub

import (
	"sync"

	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

// Distributor distributes notifications to a list of subscribers (event consumers).
//
// It allows thread-safe subscription of multiple consumers to events.
type Distributor struct {
	subscribers []streamlet.Consumer
	lock        sync.RWMutex
}

var _ streamlet.Consumer = (*Distributor)(nil)

func NewDistributor() *Distributor {
	return &Distributor{}
}

// AddConsumer adds an event consumer to the Distributor
func (p *Distributor) AddConsumer(consumer streamlet.Consumer) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.subscribers = append(p.subscribers, consumer)
}

func (p *Distributor) OnBlockIncorporated(block *model.Block) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, subscriber := range p.subscribers {
		subscriber.OnBlockIncorporated(block)
	}
}

func (p *Distributor) OnBlockNotarized(block *model.Block) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, subscriber := range p.subscribers {
		subscriber.OnBlockNotarized(block)
	}
}

func (p *Distributor) OnFinalizedBlock(block *model.Block) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, subscriber := range p.subscribers {
		subscriber.OnFinalizedBlock(block)
	}
}

func (p *Distributor) OnVoteProcessed(vote *model.Vote, outcome model.VoteOutcome) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, subscriber := range p.subscribers {
		subscriber.OnVoteProcessed(vote, outcome)
	}
}

func (p *Distributor) OnDoubleVotingDetected(first *model.Vote, conflicting *model.Vote) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, subscriber := range p.subscribers {
		subscriber.OnDoubleVotingDetected(first, conflicting)
	}
}

func (p *Distributor) OnInvalidVoteDetected(err model.InvalidVoteError) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, subscriber := range p.subscribers {
		subscriber.OnInvalidVoteDetected(err)
	}
}

func (p *Distributor) OnInvalidBlockDetected(err model.InvalidBlockError) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, subscriber := range p.subscribers {
		subscriber.OnInvalidBlockDetected(err)
	}
}

func (p *Distributor) OnInvalidProposalDetected(err model.InvalidProposalError) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, subscriber := range p.subscribers {
		subscriber.OnInvalidProposalDetected(err)
	}
}

func (p *Distributor) OnDoubleProposeDetected(first *model.Block, second *model.Block) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, subscriber := range p.subscribers {
		subscriber.OnDoubleProposeDetected(first, second)
	}
}

func (p *Distributor) OnEventProcessed() {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, subscriber := range p.subscribers {
		subscriber.OnEventProcessed()
	}
}

func (p *Distributor) OnStart(currentEpoch uint64) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, subscriber := range p.subscribers {
		subscriber.OnStart(currentEpoch)
	}
}

func (p *Distributor) OnEnteringEpoch(epoch uint64, leader flow.Identifier) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, subscriber := range p.subscribers {
		subscriber.OnEnteringEpoch(epoch, leader)
	}
}

func (p *Distributor) OnSkippedEpoch(epoch uint64) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, subscriber := range p.subscribers {
		subscriber.OnSkippedEpoch(epoch)
	}
}

func (p *Distributor) OnReceiveProposal(currentEpoch uint64, proposal *model.Proposal) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, subscriber := range p.subscribers {
		subscriber.OnReceiveProposal(currentEpoch, proposal)
	}
}

func (p *Distributor) OnReceiveVote(currentEpoch uint64, vote *model.Vote) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, subscriber := range p.subscribers {
		subscriber.OnReceiveVote(currentEpoch, vote)
	}
}

func (p *Distributor) OnOwnProposal(proposal *model.Proposal) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, subscriber := range p.subscribers {
		subscriber.OnOwnProposal(proposal)
	}
}

func (p *Distributor) OnOwnVote(vote *model.Vote) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, subscriber := range p.subscribers {
		subscriber.OnOwnVote(vote)
	}
}

func (p *Distributor) OnProposalBuffered(proposal *model.Proposal) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, subscriber := range p.subscribers {
		subscriber.OnProposalBuffered(proposal)
	}
}

func (p *Distributor) OnVoteBuffered(vote *model.Vote) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, subscriber := range p.subscribers {
		subscriber.OnVoteBuffered(vote)
	}
}

func (p *Distributor) OnMessageOutsideWindow(currentEpoch uint64, messageEpoch uint64) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, subscriber := range p.subscribers {
		subscriber.OnMessageOutsideWindow(currentEpoch, messageEpoch)
	}
}
