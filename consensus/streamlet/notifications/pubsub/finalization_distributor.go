package pubsub

import (
	"sync"

	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/model"
)

type OnBlockFinalizedConsumer = func(block *model.Block)
type OnBlockNotarizedConsumer = func(block *model.Block)

// FinalizationDistributor ingests finalization events from the consensus core
// and distributes them to subscribers, either plain callbacks or full
// FinalizationConsumers. It is itself a FinalizationConsumer, so it can be
// added to the core's Distributor.
type FinalizationDistributor struct {
	lock                    sync.RWMutex
	blockFinalizedConsumers []OnBlockFinalizedConsumer
	blockNotarizedConsumers []OnBlockNotarizedConsumer
	finalizationConsumers   []streamlet.FinalizationConsumer
}

var _ streamlet.FinalizationConsumer = (*FinalizationDistributor)(nil)

func NewFinalizationDistributor() *FinalizationDistributor {
	return &FinalizationDistributor{}
}

func (p *FinalizationDistributor) AddOnBlockFinalizedConsumer(consumer OnBlockFinalizedConsumer) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.blockFinalizedConsumers = append(p.blockFinalizedConsumers, consumer)
}

func (p *FinalizationDistributor) AddOnBlockNotarizedConsumer(consumer OnBlockNotarizedConsumer) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.blockNotarizedConsumers = append(p.blockNotarizedConsumers, consumer)
}

func (p *FinalizationDistributor) AddConsumer(consumer streamlet.FinalizationConsumer) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.finalizationConsumers = append(p.finalizationConsumers, consumer)
}

func (p *FinalizationDistributor) OnBlockIncorporated(block *model.Block) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, consumer := range p.finalizationConsumers {
		consumer.OnBlockIncorporated(block)
	}
}

func (p *FinalizationDistributor) OnBlockNotarized(block *model.Block) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, consumer := range p.blockNotarizedConsumers {
		consumer(block)
	}
	for _, consumer := range p.finalizationConsumers {
		consumer.OnBlockNotarized(block)
	}
}

func (p *FinalizationDistributor) OnFinalizedBlock(block *model.Block) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, consumer := range p.blockFinalizedConsumers {
		consumer(block)
	}
	for _, consumer := range p.finalizationConsumers {
		consumer.OnFinalizedBlock(block)
	}
}
