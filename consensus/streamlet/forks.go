package streamlet

import (
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

// BlockReader provides read-only access to the block tree.
// Implementations are safe for concurrent use.
type BlockReader interface {
	// Get returns the block with the given ID, if known.
	Get(blockID flow.Identifier) (*model.Block, bool)

	// ChildrenOf returns the known children of a block in ingestion order.
	ChildrenOf(blockID flow.Identifier) []*model.Block

	// Height returns the number of blocks between genesis and the given block,
	// genesis having height 0.
	Height(blockID flow.Identifier) (uint64, bool)

	// BlocksAtEpoch returns all known blocks proposed for the given epoch.
	BlocksAtEpoch(epoch uint64) []*model.Block

	// Chain returns the blocks from genesis up to and including the given block.
	Chain(blockID flow.Identifier) ([]*model.Block, error)

	// Genesis returns the genesis block.
	Genesis() *model.Block

	// Size returns the number of stored blocks, genesis included.
	Size() int
}

// BlockStore is the append-only tree of all valid blocks seen.
type BlockStore interface {
	BlockReader

	// Add stores a block whose parent is already known. Returns false if the
	// block was already stored.
	// Expected errors during normal operations:
	//   - model.MissingBlockError if the parent is unknown
	//   - model.InvalidEpochError if the epoch does not exceed the parent's
	//   - model.ErrGenesisReingest if the block has no parent
	Add(block *model.Block) (bool, error)
}

// VoteLedger records votes per block and detects notarization and equivocation.
// Implementations are safe for concurrent use.
type VoteLedger interface {
	// RecordVote verifies and records a vote.
	// Expected errors during normal operations:
	//   - model.InvalidVoteError wrapping model.InvalidSignerError for unknown voters
	//   - model.InvalidVoteError wrapping model.ErrInvalidSignature for bad signatures
	//   - model.DoubleVoteError if the voter already voted for another block in the epoch
	RecordVote(vote *model.Vote) (model.VoteOutcome, error)

	// IsNotarized returns true if the block reached the notarization threshold.
	IsNotarized(blockID flow.Identifier) bool

	// VoteCount returns the number of distinct voters for the block.
	VoteCount(blockID flow.Identifier) uint

	// Voters returns the IDs of the replicas that voted for the block.
	Voters(blockID flow.Identifier) flow.IdentifierList

	// Notarized returns the notarized block IDs in the order they became notarized.
	Notarized() flow.IdentifierList
}

// ForkChoice selects the block a leader should extend and decides which
// blocks are safe to vote for.
type ForkChoice interface {
	// Tip returns the tip of the longest notarized chain. Ties are broken by
	// the lower block ID.
	Tip() *model.Block

	// NotarizedChain returns the chain from genesis to the given block if every
	// block on it is notarized.
	NotarizedChain(blockID flow.Identifier) ([]*model.Block, error)

	// IsSafeToExtend returns true if the block's parent is the tip of one of
	// the longest notarized chains.
	IsSafeToExtend(block *model.Block) bool
}

// Finalizer applies the three-consecutive-epochs rule to notarized chains.
type Finalizer interface {
	// OnNotarized examines the notarized chain ending at a newly notarized
	// block and returns the newly finalized blocks, oldest first.
	// Error returns:
	//   - model.ByzantineThresholdExceededError if the chain conflicts with the finalized prefix
	OnNotarized(chain []*model.Block) ([]*model.Block, error)

	// FinalizedBlock returns the latest finalized block.
	FinalizedBlock() *model.Block

	// IsFinalized returns true if the block is part of the finalized prefix.
	IsFinalized(blockID flow.Identifier) bool
}

// SafetyRules guards the local replica's own votes and proposals.
type SafetyRules interface {
	// ProduceVote decides whether to vote for the block in the current epoch.
	// Returns:
	//  * (vote, nil): On the _first_ block for the current epoch that is safe to vote for.
	//    The safety data is persisted before the vote is returned.
	//  * (nil, model.NoVoteError): If the replica does not vote for the block.
	// All other errors are unexpected and symptoms of corrupted internal state (fatal).
	ProduceVote(block *model.Block, curEpoch uint64) (*model.Vote, error)

	// ProduceProposal signs a block the local replica proposes as leader of curEpoch.
	// Returns model.NoVoteError if the replica already proposed in this epoch.
	ProduceProposal(block *model.Block, curEpoch uint64) (*model.Proposal, error)

	// LastVotedEpoch returns the epoch of the last vote this replica produced.
	LastVotedEpoch() uint64
}
