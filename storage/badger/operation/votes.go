package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

// InsertVote stores a vote, keyed by epoch and signer. Only the first vote of
// a signer in an epoch can be stored.
// Error returns:
//   - storage.ErrAlreadyExists if a vote of the signer for the epoch was stored before
func InsertVote(vote *model.Vote) func(*badger.Txn) error {
	return insert(makePrefix(codeVote, vote.Epoch, vote.SignerID), vote)
}

// RetrieveVote retrieves the vote a signer cast in an epoch.
// Error returns:
//   - storage.ErrNotFound if no vote is stored
func RetrieveVote(epoch uint64, signerID flow.Identifier, vote *model.Vote) func(*badger.Txn) error {
	return retrieve(makePrefix(codeVote, epoch, signerID), vote)
}

// TraverseVotes calls handle for every stored vote, in ascending epoch order.
func TraverseVotes(handle func(vote *model.Vote) error) func(*badger.Txn) error {
	return traverse(makePrefix(codeVote), func() (createFunc, handleFunc) {
		var vote model.Vote
		create := func() interface{} {
			return &vote
		}
		return create, func() error {
			return handle(&vote)
		}
	})
}
