package stub

import (
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"go.uber.org/atomic"

	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

// Receiver accepts inbound consensus messages without blocking.
type Receiver interface {
	SubmitProposal(proposal *model.Proposal)
	SubmitVote(vote *model.Vote)
}

// BlockOrDelayFunc decides for each message and receiver whether the message
// is dropped, or otherwise how long its delivery is delayed.
type BlockOrDelayFunc func(event interface{}, senderID flow.Identifier, receiverID flow.Identifier) (bool, time.Duration)

// Hub is an in-memory network connecting the replicas of one committee.
// Messages are delivered asynchronously by a pool of workers, so a broadcast
// never blocks the sender.
type Hub struct {
	mu           sync.RWMutex
	receivers    map[flow.Identifier]Receiver
	disconnected map[flow.Identifier]struct{}
	blockOrDelay BlockOrDelayFunc
	stopped      bool
	pool         *workerpool.WorkerPool

	sent      *atomic.Uint64
	delivered *atomic.Uint64
	dropped   *atomic.Uint64
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithBlockOrDelay installs a function simulating network conditions.
func WithBlockOrDelay(blockOrDelay BlockOrDelayFunc) HubOption {
	return func(h *Hub) {
		h.blockOrDelay = blockOrDelay
	}
}

// NewHub creates a hub delivering messages with the given number of workers.
func NewHub(workers int, opts ...HubOption) *Hub {
	h := &Hub{
		receivers:    make(map[flow.Identifier]Receiver),
		disconnected: make(map[flow.Identifier]struct{}),
		pool:         workerpool.New(workers),
		sent:         atomic.NewUint64(0),
		delivered:    atomic.NewUint64(0),
		dropped:      atomic.NewUint64(0),
	}
	for _, apply := range opts {
		apply(h)
	}
	return h
}

// Register connects the receiver of a replica to the hub.
func (h *Hub) Register(nodeID flow.Identifier, receiver Receiver) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.receivers[nodeID] = receiver
}

// Communicator returns the communicator a replica broadcasts through. A
// replica may broadcast before its own receiver is registered.
func (h *Hub) Communicator(nodeID flow.Identifier) *Communicator {
	return &Communicator{hub: h, nodeID: nodeID}
}

// Disconnect cuts a replica off: messages from and to it are dropped until it
// is reconnected.
func (h *Hub) Disconnect(nodeID flow.Identifier) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.disconnected[nodeID] = struct{}{}
}

// Reconnect restores the connectivity of a replica.
func (h *Hub) Reconnect(nodeID flow.Identifier) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.disconnected, nodeID)
}

// Stop waits for in-flight deliveries to finish. Messages sent or due after
// Stop are dropped.
func (h *Hub) Stop() {
	h.mu.Lock()
	h.stopped = true
	h.mu.Unlock()
	h.pool.StopWait()
}

// Sent returns the number of messages handed to the hub, counted per receiver.
func (h *Hub) Sent() uint64 {
	return h.sent.Load()
}

// Delivered returns the number of messages handed to a receiver.
func (h *Hub) Delivered() uint64 {
	return h.delivered.Load()
}

// Dropped returns the number of messages that were never delivered.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// broadcast sends the event to every registered replica except the sender.
func (h *Hub) broadcast(senderID flow.Identifier, event interface{}, deliver func(Receiver)) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, senderDown := h.disconnected[senderID]
	for receiverID, receiver := range h.receivers {
		if receiverID == senderID {
			continue
		}
		h.sent.Inc()
		_, receiverDown := h.disconnected[receiverID]
		if h.stopped || senderDown || receiverDown {
			h.dropped.Inc()
			continue
		}

		var delay time.Duration
		if h.blockOrDelay != nil {
			var blocked bool
			blocked, delay = h.blockOrDelay(event, senderID, receiverID)
			if blocked {
				h.dropped.Inc()
				continue
			}
		}

		receiver := receiver
		task := func() {
			deliver(receiver)
			h.delivered.Inc()
		}
		if delay <= 0 {
			h.pool.Submit(task)
			continue
		}
		time.AfterFunc(delay, func() { h.submit(task) })
	}
}

// submit hands a delayed delivery to the worker pool unless the hub stopped.
func (h *Hub) submit(task func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.stopped {
		h.dropped.Inc()
		return
	}
	h.pool.Submit(task)
}

// Communicator broadcasts the messages of one replica through the hub.
type Communicator struct {
	hub    *Hub
	nodeID flow.Identifier
}

var _ streamlet.Communicator = (*Communicator)(nil)

// BroadcastProposal sends the proposal to all other replicas.
func (c *Communicator) BroadcastProposal(proposal *model.Proposal) error {
	c.hub.broadcast(c.nodeID, proposal, func(r Receiver) { r.SubmitProposal(proposal) })
	return nil
}

// BroadcastVote sends the vote to all other replicas.
func (c *Communicator) BroadcastVote(vote *model.Vote) error {
	c.hub.broadcast(c.nodeID, vote, func(r Receiver) { r.SubmitVote(vote) })
	return nil
}
