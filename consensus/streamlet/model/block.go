package model

import (
	"encoding/binary"
	"fmt"

	"github.com/onflow/streamlet/model/flow"
)

// Hasher computes the identifier of an arbitrary byte string. Block IDs are
// derived through it, so all replicas of a committee must use the same one.
type Hasher interface {
	Hash(data []byte) flow.Identifier
}

// Block is the unit of the Streamlet chain. It is immutable once constructed.
//
//structwrite:immutable - mutations allowed only within the constructor
type Block struct {
	BlockID    flow.Identifier
	Epoch      uint64
	ParentID   flow.Identifier
	Payload    []byte
	ProposerID flow.Identifier
}

// UntrustedBlock is an untrusted input-only representation of a Block,
// used for construction. The BlockID is always derived, never taken as input.
type UntrustedBlock struct {
	Epoch      uint64
	ParentID   flow.Identifier
	Payload    []byte
	ProposerID flow.Identifier
}

// NewBlock creates a new block and derives its ID from the epoch, the parent
// ID and the payload.
//
// All errors indicate a valid Block cannot be constructed from the input.
func NewBlock(hasher Hasher, untrusted UntrustedBlock) (*Block, error) {
	if untrusted.Epoch == 0 {
		return nil, fmt.Errorf("only the genesis block may have epoch 0")
	}
	if untrusted.ParentID == flow.ZeroID {
		return nil, fmt.Errorf("ParentID must not be empty")
	}
	if untrusted.ProposerID == flow.ZeroID {
		return nil, fmt.Errorf("ProposerID must not be empty")
	}

	payload := make([]byte, len(untrusted.Payload))
	copy(payload, untrusted.Payload)

	return &Block{
		BlockID:    ComputeBlockID(hasher, untrusted.Epoch, untrusted.ParentID, payload),
		Epoch:      untrusted.Epoch,
		ParentID:   untrusted.ParentID,
		Payload:    payload,
		ProposerID: untrusted.ProposerID,
	}, nil
}

// Genesis returns the unique genesis block: epoch 0, no parent, empty payload.
// Every replica using the same Hasher derives the same genesis ID.
func Genesis(hasher Hasher) *Block {
	return &Block{
		BlockID:    ComputeBlockID(hasher, 0, flow.ZeroID, nil),
		Epoch:      0,
		ParentID:   flow.ZeroID,
		Payload:    []byte{},
		ProposerID: flow.ZeroID,
	}
}

// ComputeBlockID hashes the canonical encoding epoch‖parent‖payload, with the
// epoch in big-endian.
func ComputeBlockID(hasher Hasher, epoch uint64, parentID flow.Identifier, payload []byte) flow.Identifier {
	data := make([]byte, 0, 8+flow.IdentifierLen+len(payload))
	data = binary.BigEndian.AppendUint64(data, epoch)
	data = append(data, parentID[:]...)
	data = append(data, payload...)
	return hasher.Hash(data)
}

// IsGenesis returns true for the block at epoch 0 without a parent.
func (b *Block) IsGenesis() bool {
	return b.Epoch == 0 && b.ParentID == flow.ZeroID
}

// Verify recomputes the block ID from the block's content. Blocks received
// from the network must pass this check before anything else is done with them.
//
// Expected errors during normal operations:
//   - model.InvalidBlockError if the stored ID does not match the content
func (b *Block) Verify(hasher Hasher) error {
	computed := ComputeBlockID(hasher, b.Epoch, b.ParentID, b.Payload)
	if computed != b.BlockID {
		return NewInvalidBlockErrorf(b, "block ID %x does not match content hash %x", b.BlockID, computed)
	}
	return nil
}

// Proposal is a block signed by its proposer.
type Proposal struct {
	Block   *Block
	SigData []byte
}

// ProposerID returns the ID of the replica which signed the proposal.
func (p *Proposal) ProposerID() flow.Identifier {
	return p.Block.ProposerID
}
