package voteledger_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/onflow/streamlet/consensus/streamlet/mocks"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/consensus/streamlet/verification"
	"github.com/onflow/streamlet/consensus/streamlet/voteledger"
	"github.com/onflow/streamlet/utils/unittest"
)

func TestLedger(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

// LedgerSuite runs a ledger for a committee of 4 (threshold 3) with real
// ed25519 signatures.
type LedgerSuite struct {
	suite.Suite

	participants []*unittest.Participant
	genesis      *model.Block
	consumer     *mocks.VoteLedgerConsumer
	ledger       *voteledger.Ledger
}

func (s *LedgerSuite) SetupTest() {
	s.participants = unittest.ParticipantsFixture(4)
	s.genesis = unittest.GenesisFixture()
	committee := unittest.CommitteeFixture(s.T(), s.participants, s.participants[0].NodeID())
	verifier, err := verification.NewEd25519Verifier(64)
	s.Require().NoError(err)

	s.consumer = mocks.NewVoteLedgerConsumer(s.T())
	s.ledger, err = voteledger.New(committee, verifier, s.consumer, s.genesis.BlockID)
	s.Require().NoError(err)
}

func (s *LedgerSuite) TestThreshold() {
	s.Assert().Equal(uint(3), s.ledger.Threshold())
	s.Assert().True(s.ledger.IsNotarized(s.genesis.BlockID))
	s.Assert().Empty(s.ledger.Notarized())
}

// TestNotarization checks that the outcome switches to newly-notarized exactly
// once, when the third distinct vote arrives.
func (s *LedgerSuite) TestNotarization() {
	block := unittest.BlockFixture(s.genesis, 1)
	s.consumer.On("OnVoteProcessed", mock.Anything, model.VoteCounted).Times(3)
	s.consumer.On("OnVoteProcessed", mock.Anything, model.VoteCountedNewlyNotarized).Once()

	expected := []model.VoteOutcome{model.VoteCounted, model.VoteCounted, model.VoteCountedNewlyNotarized, model.VoteCounted}
	for i, p := range s.participants {
		outcome, err := s.ledger.RecordVote(p.Vote(block))
		s.Require().NoError(err)
		s.Assert().Equal(expected[i], outcome, "vote %d", i)
		s.Assert().Equal(uint(i+1), s.ledger.VoteCount(block.BlockID))
		s.Assert().Equal(i >= 2, s.ledger.IsNotarized(block.BlockID))
	}

	s.Assert().Len(s.ledger.Voters(block.BlockID), 4)
	s.Assert().Equal(block.BlockID, s.ledger.Notarized()[0])
	s.Assert().Len(s.ledger.Notarized(), 1)
}

// TestDuplicateVote checks that redelivering the same vote changes nothing.
func (s *LedgerSuite) TestDuplicateVote() {
	block := unittest.BlockFixture(s.genesis, 1)
	vote := s.participants[1].Vote(block)
	s.consumer.On("OnVoteProcessed", vote, model.VoteCounted).Once()

	outcome, err := s.ledger.RecordVote(vote)
	s.Require().NoError(err)
	s.Assert().Equal(model.VoteCounted, outcome)

	for i := 0; i < 3; i++ {
		outcome, err = s.ledger.RecordVote(vote)
		s.Require().NoError(err)
		s.Assert().Equal(model.VoteDuplicate, outcome)
	}
	s.Assert().Equal(uint(1), s.ledger.VoteCount(block.BlockID))
	s.Assert().False(s.ledger.IsNotarized(block.BlockID))
}

// TestEquivocation checks that a second vote for a different block in the
// same epoch is rejected, reported, and not counted; the first vote stands.
func (s *LedgerSuite) TestEquivocation() {
	blockA := unittest.BlockFixture(s.genesis, 1)
	blockB := unittest.BlockFixture(s.genesis, 1)
	voter := s.participants[2]

	first := voter.Vote(blockA)
	second := voter.Vote(blockB)
	s.consumer.On("OnVoteProcessed", first, model.VoteCounted).Once()
	s.consumer.On("OnDoubleVotingDetected", first, second).Once()

	_, err := s.ledger.RecordVote(first)
	s.Require().NoError(err)

	outcome, err := s.ledger.RecordVote(second)
	s.Require().Error(err)
	s.Assert().Equal(model.VoteOutcome(0), outcome)
	dve, ok := model.AsDoubleVoteError(err)
	s.Require().True(ok)
	s.Assert().Equal(first, dve.FirstVote)
	s.Assert().Equal(second, dve.ConflictingVote)

	s.Assert().Equal(uint(1), s.ledger.VoteCount(blockA.BlockID))
	s.Assert().Equal(uint(0), s.ledger.VoteCount(blockB.BlockID))
}

// TestVotesInDifferentEpochs checks that one voter's votes in distinct epochs
// are counted independently.
func (s *LedgerSuite) TestVotesInDifferentEpochs() {
	b1 := unittest.BlockFixture(s.genesis, 1)
	b2 := unittest.BlockFixture(b1, 2)
	voter := s.participants[0]
	s.consumer.On("OnVoteProcessed", mock.Anything, model.VoteCounted).Twice()

	for _, block := range []*model.Block{b1, b2} {
		outcome, err := s.ledger.RecordVote(voter.Vote(block))
		s.Require().NoError(err)
		s.Assert().Equal(model.VoteCounted, outcome)
	}
}

func (s *LedgerSuite) TestUnknownVoter() {
	block := unittest.BlockFixture(s.genesis, 1)
	outsider := unittest.ParticipantFixture()
	vote := outsider.Vote(block)
	s.consumer.On("OnInvalidVoteDetected", mock.Anything).Once()

	_, err := s.ledger.RecordVote(vote)
	s.Require().Error(err)
	s.Assert().True(model.IsInvalidVoteError(err))
	s.Assert().True(model.IsInvalidSignerError(err))
	s.Assert().Equal(uint(0), s.ledger.VoteCount(block.BlockID))
}

func (s *LedgerSuite) TestInvalidSignature() {
	block := unittest.BlockFixture(s.genesis, 1)
	vote := unittest.VoteForBlockFixture(block, s.participants[1].NodeID())
	s.consumer.On("OnInvalidVoteDetected", mock.Anything).Once()

	_, err := s.ledger.RecordVote(vote)
	s.Require().Error(err)
	s.Assert().True(model.IsInvalidVoteError(err))
	s.Assert().ErrorIs(err, model.ErrInvalidSignature)
	s.Assert().Equal(uint(0), s.ledger.VoteCount(block.BlockID))

	// a forged vote must not block the real one
	s.consumer.On("OnVoteProcessed", mock.Anything, model.VoteCounted).Once()
	_, err = s.ledger.RecordVote(s.participants[1].Vote(block))
	s.Require().NoError(err)
}

// TestConcurrentVotes checks that concurrent recording yields exactly one
// newly-notarized outcome per block.
func (s *LedgerSuite) TestConcurrentVotes() {
	s.consumer.On("OnVoteProcessed", mock.Anything, mock.Anything)

	blocks := make([]*model.Block, 0, 20)
	for epoch := uint64(1); epoch <= 20; epoch++ {
		blocks = append(blocks, unittest.BlockFixture(s.genesis, epoch))
	}

	var mu sync.Mutex
	notarizations := make(map[model.VoteOutcome]int)
	var wg sync.WaitGroup
	for _, p := range s.participants {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, block := range blocks {
				outcome, err := s.ledger.RecordVote(p.Vote(block))
				require.NoError(s.T(), err)
				mu.Lock()
				notarizations[outcome]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Assert().Equal(20, notarizations[model.VoteCountedNewlyNotarized])
	s.Assert().Equal(60, notarizations[model.VoteCounted])
	s.Assert().Len(s.ledger.Notarized(), 20)
}

// TestVerifierException checks that unexpected verifier errors are not
// mistaken for invalid votes.
func TestVerifierException(t *testing.T) {
	participants := unittest.ParticipantsFixture(4)
	genesis := unittest.GenesisFixture()
	committee := unittest.CommitteeFixture(t, participants, participants[0].NodeID())

	exception := errors.New("hsm unavailable")
	verifier := mocks.NewVerifier(t)
	verifier.On("VerifyVote", mock.Anything, mock.Anything).Return(exception)
	consumer := mocks.NewVoteLedgerConsumer(t)

	ledger, err := voteledger.New(committee, verifier, consumer, genesis.BlockID)
	require.NoError(t, err)

	_, err = ledger.RecordVote(participants[0].Vote(unittest.BlockFixture(genesis, 1)))
	require.ErrorIs(t, err, exception)
	assert.False(t, model.IsInvalidVoteError(err))
}

func TestEnsureVoteForBlock(t *testing.T) {
	genesis := unittest.GenesisFixture()
	block := unittest.BlockFixture(genesis, 3)
	signer := unittest.IdentifierFixture()

	require.NoError(t, voteledger.EnsureVoteForBlock(unittest.VoteForBlockFixture(block, signer), block))

	wrongEpoch := unittest.VoteFixture(unittest.WithVoteBlockID(block.BlockID), unittest.WithVoteEpoch(4))
	assert.ErrorIs(t, voteledger.EnsureVoteForBlock(wrongEpoch, block), voteledger.VoteForIncompatibleEpochError)

	wrongBlock := unittest.VoteFixture(unittest.WithVoteEpoch(3))
	assert.ErrorIs(t, voteledger.EnsureVoteForBlock(wrongBlock, block), voteledger.VoteForIncompatibleBlockError)
}
