package stub

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
	"github.com/onflow/streamlet/utils/unittest"
)

// inbox records the messages delivered to one replica.
type inbox struct {
	mu        sync.Mutex
	proposals []*model.Proposal
	votes     []*model.Vote
}

func (i *inbox) SubmitProposal(proposal *model.Proposal) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.proposals = append(i.proposals, proposal)
}

func (i *inbox) SubmitVote(vote *model.Vote) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.votes = append(i.votes, vote)
}

func (i *inbox) counts() (int, int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.proposals), len(i.votes)
}

func connect(hub *Hub, n int) ([]flow.Identifier, []*inbox, []*Communicator) {
	ids := unittest.IdentifierListFixture(n)
	inboxes := make([]*inbox, n)
	communicators := make([]*Communicator, n)
	for i, id := range ids {
		inboxes[i] = &inbox{}
		hub.Register(id, inboxes[i])
		communicators[i] = hub.Communicator(id)
	}
	return ids, inboxes, communicators
}

func TestBroadcastReachesOthers(t *testing.T) {
	hub := NewHub(2)
	_, inboxes, communicators := connect(hub, 3)

	proposal := &model.Proposal{Block: unittest.BlockFixture(unittest.GenesisFixture(), 1), SigData: unittest.SignatureFixture()}
	require.NoError(t, communicators[0].BroadcastProposal(proposal))
	require.NoError(t, communicators[1].BroadcastVote(unittest.VoteForBlockFixture(proposal.Block, unittest.IdentifierFixture())))
	hub.Stop()

	proposals, votes := inboxes[0].counts()
	assert.Equal(t, 0, proposals)
	assert.Equal(t, 1, votes)
	proposals, votes = inboxes[1].counts()
	assert.Equal(t, 1, proposals)
	assert.Equal(t, 0, votes)
	proposals, votes = inboxes[2].counts()
	assert.Equal(t, 1, proposals)
	assert.Equal(t, 1, votes)

	assert.Equal(t, uint64(4), hub.Sent())
	assert.Equal(t, uint64(4), hub.Delivered())
	assert.Equal(t, uint64(0), hub.Dropped())
}

func TestDisconnectedReplica(t *testing.T) {
	hub := NewHub(2)
	ids, inboxes, communicators := connect(hub, 3)

	hub.Disconnect(ids[2])
	require.NoError(t, communicators[0].BroadcastVote(unittest.VoteFixture()))
	require.NoError(t, communicators[2].BroadcastVote(unittest.VoteFixture()))

	hub.Reconnect(ids[2])
	require.NoError(t, communicators[1].BroadcastVote(unittest.VoteFixture()))
	hub.Stop()

	_, votes := inboxes[0].counts()
	assert.Equal(t, 1, votes)
	_, votes = inboxes[1].counts()
	assert.Equal(t, 1, votes)
	_, votes = inboxes[2].counts()
	assert.Equal(t, 1, votes)
	assert.Equal(t, uint64(3), hub.Dropped())
}

func TestBlockOrDelay(t *testing.T) {
	var blockedID flow.Identifier
	hub := NewHub(2, WithBlockOrDelay(func(event interface{}, senderID flow.Identifier, receiverID flow.Identifier) (bool, time.Duration) {
		if receiverID == blockedID {
			return true, 0
		}
		return false, 10 * time.Millisecond
	}))
	ids, inboxes, communicators := connect(hub, 3)
	blockedID = ids[2]

	require.NoError(t, communicators[0].BroadcastVote(unittest.VoteFixture()))
	assert.Eventually(t, func() bool {
		_, votes := inboxes[1].counts()
		return votes == 1
	}, time.Second, 5*time.Millisecond)
	hub.Stop()

	_, votes := inboxes[2].counts()
	assert.Equal(t, 0, votes)
	assert.Equal(t, uint64(1), hub.Dropped())
	assert.Equal(t, uint64(1), hub.Delivered())
}

func TestNoDeliveryAfterStop(t *testing.T) {
	hub := NewHub(1)
	_, inboxes, communicators := connect(hub, 2)
	hub.Stop()

	require.NoError(t, communicators[0].BroadcastVote(unittest.VoteFixture()))
	_, votes := inboxes[1].counts()
	assert.Equal(t, 0, votes)
	assert.Equal(t, uint64(1), hub.Dropped())
}
