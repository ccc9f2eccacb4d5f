package model

import (
	"errors"
	"fmt"

	"github.com/onflow/streamlet/model/flow"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrGenesisReingest is returned when a second parentless block is offered to the block store.
	ErrGenesisReingest = errors.New("only the genesis block may have no parent")
)

// NoVoteError contains the reason of why the voter didn't vote for a block proposal.
type NoVoteError struct {
	Msg string
}

func (e NoVoteError) Error() string { return e.Msg }

func NewNoVoteErrorf(msg string, args ...interface{}) error {
	return NoVoteError{Msg: fmt.Sprintf(msg, args...)}
}

// IsNoVoteError returns whether an error is NoVoteError
func IsNoVoteError(err error) bool {
	var e NoVoteError
	return errors.As(err, &e)
}

// ConfigurationError indicates that a constructor or component was initialized with
// invalid or inconsistent parameters.
type ConfigurationError struct {
	err error
}

func NewConfigurationError(err error) error {
	return ConfigurationError{err}
}

func NewConfigurationErrorf(msg string, args ...interface{}) error {
	return ConfigurationError{fmt.Errorf(msg, args...)}
}

func (e ConfigurationError) Error() string { return e.err.Error() }
func (e ConfigurationError) Unwrap() error { return e.err }

// IsConfigurationError returns whether err is a ConfigurationError
func IsConfigurationError(err error) bool {
	var e ConfigurationError
	return errors.As(err, &e)
}

// MissingBlockError indicates that no block with identifier `BlockID` is known.
// It is a transient gap: the block may still arrive.
type MissingBlockError struct {
	Epoch   uint64
	BlockID flow.Identifier
}

func (e MissingBlockError) Error() string {
	return fmt.Sprintf("missing block %x referenced at epoch %d", e.BlockID, e.Epoch)
}

// IsMissingBlockError returns whether an error is MissingBlockError
func IsMissingBlockError(err error) bool {
	var e MissingBlockError
	return errors.As(err, &e)
}

// InvalidBlockError indicates that the block with identifier `BlockID` is invalid
type InvalidBlockError struct {
	BlockID flow.Identifier
	Epoch   uint64
	Err     error
}

func NewInvalidBlockErrorf(block *Block, msg string, args ...interface{}) error {
	return InvalidBlockError{
		BlockID: block.BlockID,
		Epoch:   block.Epoch,
		Err:     fmt.Errorf(msg, args...),
	}
}

func (e InvalidBlockError) Error() string {
	return fmt.Sprintf("invalid block %x at epoch %d: %s", e.BlockID, e.Epoch, e.Err.Error())
}

// IsInvalidBlockError returns whether an error is InvalidBlockError
func IsInvalidBlockError(err error) bool {
	var e InvalidBlockError
	return errors.As(err, &e)
}

// AsInvalidBlockError determines whether the given error is a InvalidBlockError
// (potentially wrapped). It follows the same semantics as a checked type cast.
func AsInvalidBlockError(err error) (*InvalidBlockError, bool) {
	var e InvalidBlockError
	ok := errors.As(err, &e)
	if ok {
		return &e, true
	}
	return nil, false
}

func (e InvalidBlockError) Unwrap() error {
	return e.Err
}

// InvalidEpochError indicates a block whose epoch does not exceed its parent's.
type InvalidEpochError struct {
	BlockID     flow.Identifier
	Epoch       uint64
	ParentEpoch uint64
}

func (e InvalidEpochError) Error() string {
	return fmt.Sprintf("block %x has epoch %d which does not exceed its parent's epoch %d", e.BlockID, e.Epoch, e.ParentEpoch)
}

// IsInvalidEpochError returns whether an error is InvalidEpochError
func IsInvalidEpochError(err error) bool {
	var e InvalidEpochError
	return errors.As(err, &e)
}

// InvalidProposalError indicates that a proposal is not correctly formed or signed,
// or was not sent by the epoch's leader.
type InvalidProposalError struct {
	Proposal *Proposal
	Err      error
}

func NewInvalidProposalErrorf(proposal *Proposal, msg string, args ...interface{}) error {
	return InvalidProposalError{
		Proposal: proposal,
		Err:      fmt.Errorf(msg, args...),
	}
}

func (e InvalidProposalError) Error() string {
	return fmt.Sprintf("invalid proposal %x at epoch %d by %x: %s",
		e.Proposal.Block.BlockID, e.Proposal.Block.Epoch, e.Proposal.Block.ProposerID, e.Err.Error())
}

func (e InvalidProposalError) Unwrap() error {
	return e.Err
}

// IsInvalidProposalError returns whether an error is InvalidProposalError
func IsInvalidProposalError(err error) bool {
	var e InvalidProposalError
	return errors.As(err, &e)
}

// AsInvalidProposalError determines whether the given error is a InvalidProposalError
// (potentially wrapped). It follows the same semantics as a checked type cast.
func AsInvalidProposalError(err error) (*InvalidProposalError, bool) {
	var e InvalidProposalError
	ok := errors.As(err, &e)
	if ok {
		return &e, true
	}
	return nil, false
}

// InvalidVoteError indicates that the vote is invalid: unknown signer,
// bad signature or malformed content.
type InvalidVoteError struct {
	Vote *Vote
	Err  error
}

func NewInvalidVoteError(vote *Vote, err error) error {
	return InvalidVoteError{
		Vote: vote,
		Err:  err,
	}
}

func NewInvalidVoteErrorf(vote *Vote, msg string, args ...interface{}) error {
	return InvalidVoteError{
		Vote: vote,
		Err:  fmt.Errorf(msg, args...),
	}
}

func (e InvalidVoteError) Error() string {
	return fmt.Sprintf("invalid vote at epoch %d for block %x by %x: %s", e.Vote.Epoch, e.Vote.BlockID, e.Vote.SignerID, e.Err.Error())
}

// IsInvalidVoteError returns whether an error is InvalidVoteError
func IsInvalidVoteError(err error) bool {
	var e InvalidVoteError
	return errors.As(err, &e)
}

// AsInvalidVoteError determines whether the given error is a InvalidVoteError
// (potentially wrapped). It follows the same semantics as a checked type cast.
func AsInvalidVoteError(err error) (*InvalidVoteError, bool) {
	var e InvalidVoteError
	ok := errors.As(err, &e)
	if ok {
		return &e, true
	}
	return nil, false
}

func (e InvalidVoteError) Unwrap() error {
	return e.Err
}

// ByzantineThresholdExceededError is raised if the protocol detects conditions
// which prove that a third or more of the committee is Byzantine, for example
// two conflicting finalized blocks.
type ByzantineThresholdExceededError struct {
	Evidence string
}

func (e ByzantineThresholdExceededError) Error() string {
	return e.Evidence
}

// IsByzantineThresholdExceededError returns whether an error is ByzantineThresholdExceededError
func IsByzantineThresholdExceededError(err error) bool {
	var e ByzantineThresholdExceededError
	return errors.As(err, &e)
}

// DoubleVoteError indicates that a replica has voted for two different
// blocks in the same epoch. The first vote stands.
type DoubleVoteError struct {
	FirstVote       *Vote
	ConflictingVote *Vote
	err             error
}

func (e DoubleVoteError) Error() string {
	return e.err.Error()
}

// IsDoubleVoteError returns whether an error is DoubleVoteError
func IsDoubleVoteError(err error) bool {
	var e DoubleVoteError
	return errors.As(err, &e)
}

// AsDoubleVoteError determines whether the given error is a DoubleVoteError
// (potentially wrapped). It follows the same semantics as a checked type cast.
func AsDoubleVoteError(err error) (*DoubleVoteError, bool) {
	var e DoubleVoteError
	ok := errors.As(err, &e)
	if ok {
		return &e, true
	}
	return nil, false
}

func (e DoubleVoteError) Unwrap() error {
	return e.err
}

func NewDoubleVoteErrorf(firstVote, conflictingVote *Vote, msg string, args ...interface{}) error {
	return DoubleVoteError{
		FirstVote:       firstVote,
		ConflictingVote: conflictingVote,
		err:             fmt.Errorf(msg, args...),
	}
}

// InvalidSignerError indicates that the signer is not authorized or unknown
type InvalidSignerError struct {
	err error
}

func NewInvalidSignerError(err error) error {
	return InvalidSignerError{err}
}

func NewInvalidSignerErrorf(msg string, args ...interface{}) error {
	return InvalidSignerError{fmt.Errorf(msg, args...)}
}

func (e InvalidSignerError) Error() string { return e.err.Error() }
func (e InvalidSignerError) Unwrap() error { return e.err }

// IsInvalidSignerError returns whether err is an InvalidSignerError
func IsInvalidSignerError(err error) bool {
	var e InvalidSignerError
	return errors.As(err, &e)
}

// IsProtocolViolation returns true for errors caused by invalid or Byzantine
// input. Such inputs are dropped; they never stop the node.
func IsProtocolViolation(err error) bool {
	return IsInvalidBlockError(err) ||
		IsInvalidEpochError(err) ||
		IsInvalidProposalError(err) ||
		IsInvalidVoteError(err) ||
		IsDoubleVoteError(err) ||
		IsInvalidSignerError(err) ||
		errors.Is(err, ErrInvalidSignature)
}
