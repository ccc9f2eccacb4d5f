package model

import (
	"encoding/binary"
	"fmt"

	"github.com/onflow/streamlet/model/flow"
)

// Vote is a replica's endorsement of a block in a given epoch.
//
//structwrite:immutable - mutations allowed only within the constructor
type Vote struct {
	Epoch    uint64
	BlockID  flow.Identifier
	SignerID flow.Identifier
	SigData  []byte
}

// UntrustedVote is an untrusted input-only representation of a Vote,
// used for construction.
//
// An instance of UntrustedVote should be validated and converted into
// a trusted Vote using NewVote constructor.
type UntrustedVote Vote

// NewVote creates a new instance of Vote.
//
// All errors indicate a valid Vote cannot be constructed from the input.
func NewVote(untrusted UntrustedVote) (*Vote, error) {
	if untrusted.Epoch == 0 {
		return nil, fmt.Errorf("votes for epoch 0 are not permitted")
	}
	if untrusted.BlockID == flow.ZeroID {
		return nil, fmt.Errorf("BlockID must not be empty")
	}
	if untrusted.SignerID == flow.ZeroID {
		return nil, fmt.Errorf("SignerID must not be empty")
	}
	if len(untrusted.SigData) == 0 {
		return nil, fmt.Errorf("SigData must not be empty")
	}

	return &Vote{
		Epoch:    untrusted.Epoch,
		BlockID:  untrusted.BlockID,
		SignerID: untrusted.SignerID,
		SigData:  untrusted.SigData,
	}, nil
}

// SameAs returns true if both votes carry the same signer, epoch and block.
// Signature bytes are not compared.
func (v *Vote) SameAs(other *Vote) bool {
	return v.SignerID == other.SignerID && v.Epoch == other.Epoch && v.BlockID == other.BlockID
}

// VoteOutcome reports what recording a vote did to the ledger.
type VoteOutcome int

const (
	// VoteCounted means the vote was new and added to the block's tally.
	VoteCounted VoteOutcome = iota + 1
	// VoteCountedNewlyNotarized means the vote was new and brought the block
	// to the notarization threshold. Reported exactly once per block.
	VoteCountedNewlyNotarized
	// VoteDuplicate means the identical vote was recorded before.
	VoteDuplicate
)

func (o VoteOutcome) String() string {
	switch o {
	case VoteCounted:
		return "counted"
	case VoteCountedNewlyNotarized:
		return "notarized"
	case VoteDuplicate:
		return "duplicate"
	default:
		return fmt.Sprintf("unknown(%d)", int(o))
	}
}

const (
	proposalDomainTag = "streamlet-proposal-v1"
	voteDomainTag     = "streamlet-vote-v1"
)

// ProposalMessage returns the bytes a proposer signs for a block.
func ProposalMessage(block *Block) []byte {
	msg := make([]byte, 0, len(proposalDomainTag)+flow.IdentifierLen)
	msg = append(msg, proposalDomainTag...)
	return append(msg, block.BlockID[:]...)
}

// VoteMessage returns the bytes a voter signs: epoch‖block_id.
func VoteMessage(epoch uint64, blockID flow.Identifier) []byte {
	msg := make([]byte, 0, len(voteDomainTag)+8+flow.IdentifierLen)
	msg = append(msg, voteDomainTag...)
	msg = binary.BigEndian.AppendUint64(msg, epoch)
	return append(msg, blockID[:]...)
}
