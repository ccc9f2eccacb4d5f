package voteledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

var (
	VoteForIncompatibleEpochError = errors.New("vote for incompatible epoch")
	VoteForIncompatibleBlockError = errors.New("vote for incompatible block")
)

// EnsureVoteForBlock verifies that the vote is for the given block.
// Returns nil on success and sentinel errors:
//   - VoteForIncompatibleEpochError if the vote is from a different epoch than the block
//   - VoteForIncompatibleBlockError if the vote is for a different block ID
func EnsureVoteForBlock(vote *model.Vote, block *model.Block) error {
	if vote.Epoch != block.Epoch {
		return fmt.Errorf("vote's epoch is %d while block's epoch is %d: %w", vote.Epoch, block.Epoch, VoteForIncompatibleEpochError)
	}
	if vote.BlockID != block.BlockID {
		return fmt.Errorf("expected vote for block %v but got %v: %w", block.BlockID, vote.BlockID, VoteForIncompatibleBlockError)
	}
	return nil
}

// epochSigner keys the single vote a replica may cast per epoch.
type epochSigner struct {
	epoch    uint64
	signerID flow.Identifier
}

// tally holds the distinct voters of one block.
type tally struct {
	voters    flow.IdentifierList
	notarized bool
}

// Ledger records votes per block, enforces one vote per replica per epoch
// and detects when a block first reaches the notarization threshold.
//
// Recording a vote and evaluating the threshold happen atomically under one
// lock, so a vote observed as counted is immediately reflected by
// IsNotarized. Signature verification happens outside the lock.
type Ledger struct {
	committee streamlet.Committee
	verifier  streamlet.Verifier
	consumer  streamlet.VoteLedgerConsumer
	threshold uint
	genesisID flow.Identifier

	mu        sync.RWMutex
	firstVote map[epochSigner]*model.Vote
	tallies   map[flow.Identifier]*tally
	notarized flow.IdentifierList
}

var _ streamlet.VoteLedger = (*Ledger)(nil)

// New returns an empty ledger. The threshold is fixed from the committee at
// construction. The genesis block is notarized by definition.
func New(
	committee streamlet.Committee,
	verifier streamlet.Verifier,
	consumer streamlet.VoteLedgerConsumer,
	genesisID flow.Identifier,
) (*Ledger, error) {
	threshold := committee.NotarizationThreshold()
	if threshold == 0 {
		return nil, model.NewConfigurationErrorf("notarization threshold must be positive")
	}
	return &Ledger{
		committee: committee,
		verifier:  verifier,
		consumer:  consumer,
		threshold: threshold,
		genesisID: genesisID,
		firstVote: make(map[epochSigner]*model.Vote),
		tallies:   make(map[flow.Identifier]*tally),
	}, nil
}

// RecordVote verifies the vote and counts it for its block.
// Returns:
//   - (model.VoteCounted, nil) if the vote was new
//   - (model.VoteCountedNewlyNotarized, nil) if the vote was new and brought the
//     block to the threshold; this happens exactly once per block
//   - (model.VoteDuplicate, nil) if the identical vote was recorded before
//
// Expected errors during normal operations:
//   - model.InvalidVoteError wrapping model.InvalidSignerError if the signer is not a committee member
//   - model.InvalidVoteError wrapping model.ErrInvalidSignature if the signature is invalid
//   - model.DoubleVoteError if the signer voted for a different block in the same epoch;
//     the first vote stands
//
// All other errors are exceptions.
func (l *Ledger) RecordVote(vote *model.Vote) (model.VoteOutcome, error) {
	voter, err := l.committee.IdentityByID(vote.SignerID)
	if err != nil {
		if model.IsInvalidSignerError(err) {
			invalid := model.InvalidVoteError{Vote: vote, Err: err}
			l.consumer.OnInvalidVoteDetected(invalid)
			return 0, invalid
		}
		return 0, fmt.Errorf("could not look up voter %x: %w", vote.SignerID, err)
	}

	err = l.verifier.VerifyVote(voter, vote)
	if err != nil {
		if errors.Is(err, model.ErrInvalidSignature) {
			invalid := model.InvalidVoteError{Vote: vote, Err: err}
			l.consumer.OnInvalidVoteDetected(invalid)
			return 0, invalid
		}
		return 0, fmt.Errorf("could not verify vote by %x at epoch %d: %w", vote.SignerID, vote.Epoch, err)
	}

	outcome, first := l.record(vote)
	if first != nil {
		l.consumer.OnDoubleVotingDetected(first, vote)
		return 0, model.NewDoubleVoteErrorf(first, vote,
			"replica %x voted for block %x and block %x in epoch %d", vote.SignerID, first.BlockID, vote.BlockID, vote.Epoch)
	}
	if outcome != model.VoteDuplicate {
		l.consumer.OnVoteProcessed(vote, outcome)
	}
	return outcome, nil
}

// record counts the vote under the lock. Returns the signer's earlier vote
// if this vote equivocates.
func (l *Ledger) record(vote *model.Vote) (model.VoteOutcome, *model.Vote) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := epochSigner{epoch: vote.Epoch, signerID: vote.SignerID}
	if first, ok := l.firstVote[key]; ok {
		if first.BlockID == vote.BlockID {
			return model.VoteDuplicate, nil
		}
		return 0, first
	}
	l.firstVote[key] = vote

	t, ok := l.tallies[vote.BlockID]
	if !ok {
		t = &tally{}
		l.tallies[vote.BlockID] = t
	}
	t.voters = append(t.voters, vote.SignerID)

	if !t.notarized && uint(len(t.voters)) >= l.threshold {
		t.notarized = true
		l.notarized = append(l.notarized, vote.BlockID)
		return model.VoteCountedNewlyNotarized, nil
	}
	return model.VoteCounted, nil
}

// IsNotarized returns true if the block reached the threshold. Genesis is
// always notarized.
func (l *Ledger) IsNotarized(blockID flow.Identifier) bool {
	if blockID == l.genesisID {
		return true
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.tallies[blockID]
	return ok && t.notarized
}

// VoteCount returns the number of distinct voters for the block.
func (l *Ledger) VoteCount(blockID flow.Identifier) uint {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.tallies[blockID]
	if !ok {
		return 0
	}
	return uint(len(t.voters))
}

// Voters returns the replicas that voted for the block, in the order their
// votes were counted.
func (l *Ledger) Voters(blockID flow.Identifier) flow.IdentifierList {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.tallies[blockID]
	if !ok {
		return nil
	}
	return t.voters.Copy()
}

// Notarized returns the notarized block IDs, genesis excluded, in the order
// they became notarized.
func (l *Ledger) Notarized() flow.IdentifierList {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.notarized.Copy()
}

// Threshold returns the number of distinct votes required for notarization.
func (l *Ledger) Threshold() uint {
	return l.threshold
}
