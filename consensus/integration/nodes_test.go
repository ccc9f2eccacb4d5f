package integration_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/require"

	"github.com/onflow/streamlet/consensus"
	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/committees"
	"github.com/onflow/streamlet/consensus/streamlet/epochclock"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/consensus/streamlet/notifications"
	"github.com/onflow/streamlet/consensus/streamlet/persister"
	"github.com/onflow/streamlet/consensus/streamlet/verification"
	"github.com/onflow/streamlet/model/flow"
	"github.com/onflow/streamlet/module/builder"
	"github.com/onflow/streamlet/module/irrecoverable"
	"github.com/onflow/streamlet/module/metrics"
	"github.com/onflow/streamlet/network/stub"
	bstorage "github.com/onflow/streamlet/storage/badger"
	"github.com/onflow/streamlet/utils/unittest"
)

// Node is a replica running in the test process.
type Node struct {
	id          *unittest.Participant
	committee   *committees.Static
	participant *consensus.Participant
	ticker      *epochclock.ManualTicker
	finalized   *finalizationRecorder
	db          *badger.DB
	cancel      context.CancelFunc
}

// finalizationRecorder records the finalized blocks in the order they were
// reported.
type finalizationRecorder struct {
	notifications.NoopConsumer
	mu     sync.Mutex
	blocks []*model.Block
}

func (r *finalizationRecorder) OnFinalizedBlock(block *model.Block) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blocks = append(r.blocks, block)
}

func (r *finalizationRecorder) recorded() []*model.Block {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*model.Block(nil), r.blocks...)
}

// memoryPersister keeps the safety data in memory.
type memoryPersister struct {
	mu   sync.Mutex
	data streamlet.SafetyData
}

func (p *memoryPersister) GetSafetyData() (*streamlet.SafetyData, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data := p.data
	return &data, nil
}

func (p *memoryPersister) PutSafetyData(safetyData *streamlet.SafetyData) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = *safetyData
	return nil
}

// duplicatingCommunicator sends every message twice.
type duplicatingCommunicator struct {
	streamlet.Communicator
}

func (c *duplicatingCommunicator) BroadcastProposal(proposal *model.Proposal) error {
	_ = c.Communicator.BroadcastProposal(proposal)
	return c.Communicator.BroadcastProposal(proposal)
}

func (c *duplicatingCommunicator) BroadcastVote(vote *model.Vote) error {
	_ = c.Communicator.BroadcastVote(vote)
	return c.Communicator.BroadcastVote(vote)
}

type nodeConfig struct {
	duplicate bool
	dbs       []*badger.DB
}

type nodeOption func(*nodeConfig)

// withDuplication makes every replica send each message twice.
func withDuplication() nodeOption {
	return func(cfg *nodeConfig) {
		cfg.duplicate = true
	}
}

// withStorage persists the state of the i-th replica to the i-th database.
func withStorage(dbs ...*badger.DB) nodeOption {
	return func(cfg *nodeConfig) {
		cfg.dbs = dbs
	}
}

// createNodes creates a committee of replicas connected by the hub.
func createNodes(t *testing.T, hub *stub.Hub, participants []*unittest.Participant, opts ...nodeOption) []*Node {
	cfg := &nodeConfig{}
	for _, apply := range opts {
		apply(cfg)
	}
	nodes := make([]*Node, 0, len(participants))
	for i, p := range participants {
		var db *badger.DB
		if len(cfg.dbs) > 0 {
			db = cfg.dbs[i]
		}
		nodes = append(nodes, createNode(t, hub, participants, p, cfg.duplicate, db))
	}
	return nodes
}

func createNode(t *testing.T, hub *stub.Hub, participants []*unittest.Participant, p *unittest.Participant, duplicate bool, db *badger.DB) *Node {
	log := unittest.NodeLogger(p.NodeID())
	committee := unittest.CommitteeFixture(t, participants, p.NodeID())
	config := streamlet.NewConfig(uint(len(participants)), p.NodeID())
	clock := epochclock.NewClock(committee, 0)
	ticker := epochclock.NewManualTicker(clock, 100)

	verifier, err := verification.NewEd25519Verifier(verification.DefaultVerifiedCacheSize)
	require.NoError(t, err)
	payloads, err := builder.NewBuilder(log, metrics.NewNoopCollector(), unittest.Hasher(), builder.DefaultPoolSize, builder.DefaultMaxItems)
	require.NoError(t, err)

	var communicator streamlet.Communicator = hub.Communicator(p.NodeID())
	if duplicate {
		communicator = &duplicatingCommunicator{Communicator: communicator}
	}

	recorder := &finalizationRecorder{}
	opts := []consensus.ParticipantOption{consensus.WithConsumer(recorder)}
	var persist streamlet.Persister = &memoryPersister{}
	if db != nil {
		collector := metrics.NewNoopCollector()
		persist = persister.New(db, collector)
		opts = append(opts, consensus.WithStorage(bstorage.InitAll(collector, db), collector))
	}

	participant, err := consensus.NewParticipant(
		log,
		metrics.NewNoopCollector(),
		config,
		committee,
		clock,
		ticker,
		unittest.Hasher(),
		p.Signer(),
		verifier,
		persist,
		payloads,
		communicator,
		opts...,
	)
	require.NoError(t, err)
	participant.Finalization.AddOnBlockFinalizedConsumer(payloads.OnFinalizedBlock)
	hub.Register(p.NodeID(), participant)

	return &Node{
		id:          p,
		committee:   committee,
		participant: participant,
		ticker:      ticker,
		finalized:   recorder,
		db:          db,
	}
}

func startNodes(t *testing.T, nodes ...*Node) {
	for _, node := range nodes {
		var ctx irrecoverable.SignalerContext
		ctx, node.cancel = irrecoverable.NewMockSignalerContextWithCancel(t, context.Background())
		node.participant.Start(ctx)
		unittest.RequireCloseBefore(t, node.participant.Ready(), time.Second, "replica did not start")
	}
}

func stopNodes(t *testing.T, nodes ...*Node) {
	for _, node := range nodes {
		node.cancel()
	}
	for _, node := range nodes {
		unittest.RequireCloseBefore(t, node.participant.Done(), 5*time.Second, "replica did not stop")
	}
}

// tick moves every replica to the next epoch and returns it.
func tick(nodes ...*Node) uint64 {
	var epoch uint64
	for _, node := range nodes {
		epoch = node.ticker.Advance()
	}
	return epoch
}

// hasNotarizedBlockAt returns true if the replica notarized a block of the epoch.
func hasNotarizedBlockAt(node *Node, epoch uint64) bool {
	for _, block := range node.participant.Blocks.BlocksAtEpoch(epoch) {
		if node.participant.Ledger.IsNotarized(block.BlockID) {
			return true
		}
	}
	return false
}

// waitNotarized waits until every given replica notarized a block of the epoch.
func waitNotarized(t *testing.T, epoch uint64, nodes ...*Node) {
	require.Eventually(t, func() bool {
		for _, node := range nodes {
			if !hasNotarizedBlockAt(node, epoch) {
				return false
			}
		}
		return true
	}, 2*time.Second, 5*time.Millisecond, "epoch %d was not notarized", epoch)
}

// leaderOf returns the replica leading the epoch.
func leaderOf(t *testing.T, nodes []*Node, epoch uint64) *Node {
	leaderID := nodes[0].committee.LeaderForEpoch(epoch)
	for _, node := range nodes {
		if node.id.NodeID() == leaderID {
			return node
		}
	}
	require.FailNow(t, "leader is not a test replica")
	return nil
}

// requireConsistentFinalization checks that the finalized chains of all
// replicas are prefixes of the longest one, and that every replica reported
// each of its finalized blocks exactly once, in chain order.
func requireConsistentFinalization(t *testing.T, nodes ...*Node) {
	var longest []*model.Block
	for _, node := range nodes {
		chain := node.participant.Finalizer.FinalizedChain()
		if len(chain) > len(longest) {
			longest = chain
		}
	}
	for _, node := range nodes {
		chain := node.participant.Finalizer.FinalizedChain()
		for height, block := range chain {
			require.Equal(t, longest[height].BlockID, block.BlockID,
				"replica %x finalized a conflicting block at height %d", node.id.NodeID(), height)
		}
		require.Equal(t, blockIDs(chain[1:]), blockIDs(node.finalized.recorded()),
			"replica %x did not report its finalized blocks exactly once", node.id.NodeID())
	}
}

func blockIDs(blocks []*model.Block) flow.IdentifierList {
	ids := make(flow.IdentifierList, 0, len(blocks))
	for _, block := range blocks {
		ids = append(ids, block.BlockID)
	}
	return ids
}
