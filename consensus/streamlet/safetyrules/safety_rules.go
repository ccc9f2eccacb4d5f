package safetyrules

import (
	"fmt"
	"sync"

	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/model"
)

// SafetyRules produces the local replica's votes and proposals. It guarantees
// that the replica votes at most once and proposes at most once per epoch,
// also across restarts: the safety data is persisted before a vote or
// proposal is released to the caller.
type SafetyRules struct {
	mu         sync.Mutex
	signer     streamlet.Signer
	forkChoice streamlet.ForkChoice
	persist    streamlet.Persister
	committee  streamlet.Committee
	safetyData streamlet.SafetyData // last persisted safety data
}

var _ streamlet.SafetyRules = (*SafetyRules)(nil)

// New creates a SafetyRules instance, loading the safety data persisted by a
// previous run.
func New(
	signer streamlet.Signer,
	forkChoice streamlet.ForkChoice,
	persist streamlet.Persister,
	committee streamlet.Committee,
) (*SafetyRules, error) {
	safetyData, err := persist.GetSafetyData()
	if err != nil {
		return nil, fmt.Errorf("could not load safety data: %w", err)
	}
	return &SafetyRules{
		signer:     signer,
		forkChoice: forkChoice,
		persist:    persist,
		committee:  committee,
		safetyData: *safetyData,
	}, nil
}

// ProduceVote decides whether to vote for the given block. Votes are only
// produced for blocks of the current epoch that extend one of the longest
// notarized chains.
// Returns:
//   - (vote, nil): On the _first_ block for the current epoch that is safe to vote for.
//     Subsequently, the replica does _not_ vote for any other block with the same (or lower) epoch.
//   - (nil, model.NoVoteError): If the replica does not vote for the block.
//     This is a sentinel error and _expected_ during normal operation.
//
// All other errors are unexpected and potential symptoms of corrupted internal state (fatal).
func (r *SafetyRules) ProduceVote(block *model.Block, curEpoch uint64) (*model.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if block.Epoch != curEpoch {
		return nil, model.NewNoVoteErrorf("block is for epoch %d, current epoch is %d", block.Epoch, curEpoch)
	}
	if curEpoch <= r.safetyData.LastVotedEpoch {
		return nil, model.NewNoVoteErrorf("already voted in epoch %d (block %x)", r.safetyData.LastVotedEpoch, r.safetyData.LastVotedBlockID)
	}

	// only committee members produce votes that count towards notarization
	_, err := r.committee.IdentityByID(r.committee.Self())
	if model.IsInvalidSignerError(err) {
		return nil, model.NewNoVoteErrorf("not a committee member")
	}
	if err != nil {
		return nil, fmt.Errorf("could not get self identity: %w", err)
	}

	if !r.forkChoice.IsSafeToExtend(block) {
		return nil, model.NewNoVoteErrorf("block %x does not extend a longest notarized chain", block.BlockID)
	}

	vote, err := r.signer.CreateVote(block)
	if err != nil {
		return nil, fmt.Errorf("could not vote for block: %w", err)
	}

	updated := r.safetyData
	updated.LastVotedEpoch = curEpoch
	updated.LastVotedBlockID = block.BlockID
	err = r.persist.PutSafetyData(&updated)
	if err != nil {
		return nil, fmt.Errorf("could not persist last voted epoch: %w", err)
	}
	r.safetyData = updated

	return vote, nil
}

// ProduceProposal signs a block built by the local replica as leader of
// curEpoch.
// Returns:
//   - (proposal, nil): On the _first_ block proposed for the current epoch.
//   - (nil, model.NoVoteError): If the replica already proposed in this epoch
//     or is not the leader.
//
// All other errors are unexpected and potential symptoms of corrupted internal state (fatal).
func (r *SafetyRules) ProduceProposal(block *model.Block, curEpoch uint64) (*model.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	self := r.committee.Self()
	if block.Epoch != curEpoch {
		return nil, fmt.Errorf("proposing block for epoch %d during epoch %d", block.Epoch, curEpoch)
	}
	if block.ProposerID != self {
		return nil, fmt.Errorf("proposing block %x on behalf of %x", block.BlockID, block.ProposerID)
	}
	if leader := r.committee.LeaderForEpoch(curEpoch); leader != self {
		return nil, model.NewNoVoteErrorf("not the leader of epoch %d (leader is %x)", curEpoch, leader)
	}
	if curEpoch <= r.safetyData.LastProposedEpoch {
		return nil, model.NewNoVoteErrorf("already proposed in epoch %d", r.safetyData.LastProposedEpoch)
	}

	proposal, err := r.signer.CreateProposal(block)
	if err != nil {
		return nil, fmt.Errorf("could not sign proposal: %w", err)
	}

	updated := r.safetyData
	updated.LastProposedEpoch = curEpoch
	err = r.persist.PutSafetyData(&updated)
	if err != nil {
		return nil, fmt.Errorf("could not persist last proposed epoch: %w", err)
	}
	r.safetyData = updated

	return proposal, nil
}

// LastVotedEpoch returns the epoch of the last vote this replica produced.
func (r *SafetyRules) LastVotedEpoch() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.safetyData.LastVotedEpoch
}
