package notifications

import (
	"github.com/rs/zerolog"

	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
	"github.com/onflow/streamlet/utils/logging"
)

// LogConsumer is an implementation of the notifications consumer that logs a
// message for each event. Normal progress is logged at debug level, evidence
// of Byzantine behaviour at warn level.
type LogConsumer struct {
	log zerolog.Logger
}

var _ streamlet.Consumer = (*LogConsumer)(nil)

func NewLogConsumer(log zerolog.Logger) *LogConsumer {
	lc := &LogConsumer{
		log: log,
	}
	return lc
}

func (lc *LogConsumer) OnBlockIncorporated(block *model.Block) {
	lc.logBasicBlockData(lc.log.Debug(), block).
		Msg("block incorporated")
}

func (lc *LogConsumer) OnBlockNotarized(block *model.Block) {
	lc.logBasicBlockData(lc.log.Debug(), block).
		Msg("block notarized")
}

func (lc *LogConsumer) OnFinalizedBlock(block *model.Block) {
	lc.logBasicBlockData(lc.log.Info(), block).
		Msg("block finalized")
}

func (lc *LogConsumer) OnVoteProcessed(vote *model.Vote, outcome model.VoteOutcome) {
	lc.log.Debug().
		Uint64("vote_epoch", vote.Epoch).
		Hex("voted_block_id", logging.ID(vote.BlockID)).
		Hex("signer_id", logging.ID(vote.SignerID)).
		Str("outcome", outcome.String()).
		Msg("processed vote")
}

func (lc *LogConsumer) OnDoubleVotingDetected(vote *model.Vote, alt *model.Vote) {
	lc.log.Warn().
		Str(logging.KeySuspicious, "true").
		Uint64("vote_epoch", vote.Epoch).
		Hex("voted_block_id", logging.ID(vote.BlockID)).
		Hex("alt_id", logging.ID(alt.BlockID)).
		Hex("signer_id", logging.ID(vote.SignerID)).
		Msg("double vote detected")
}

func (lc *LogConsumer) OnInvalidVoteDetected(err model.InvalidVoteError) {
	lc.log.Warn().
		Str(logging.KeySuspicious, "true").
		Uint64("vote_epoch", err.Vote.Epoch).
		Hex("voted_block_id", logging.ID(err.Vote.BlockID)).
		Hex("signer_id", logging.ID(err.Vote.SignerID)).
		Msgf("invalid vote detected: %s", err.Error())
}

func (lc *LogConsumer) OnInvalidBlockDetected(err model.InvalidBlockError) {
	lc.log.Warn().
		Str(logging.KeySuspicious, "true").
		Uint64("block_epoch", err.Epoch).
		Hex("block_id", logging.ID(err.BlockID)).
		Msgf("invalid block detected: %s", err.Error())
}

func (lc *LogConsumer) OnInvalidProposalDetected(err model.InvalidProposalError) {
	lc.logBasicBlockData(lc.log.Warn(), err.Proposal.Block).
		Str(logging.KeySuspicious, "true").
		Msgf("invalid proposal detected: %s", err.Error())
}

func (lc *LogConsumer) OnDoubleProposeDetected(block *model.Block, alt *model.Block) {
	lc.log.Warn().
		Str(logging.KeySuspicious, "true").
		Uint64("block_epoch", block.Epoch).
		Hex("block_id", logging.ID(block.BlockID)).
		Hex("alt_id", logging.ID(alt.BlockID)).
		Hex("proposer_id", logging.ID(block.ProposerID)).
		Msg("double proposal detected")
}

func (lc *LogConsumer) OnEventProcessed() {
	lc.log.Debug().Msg("event processed")
}

func (lc *LogConsumer) OnStart(currentEpoch uint64) {
	lc.log.Debug().Uint64("cur_epoch", currentEpoch).Msg("starting event handler")
}

func (lc *LogConsumer) OnEnteringEpoch(epoch uint64, leader flow.Identifier) {
	lc.log.Debug().
		Uint64("epoch", epoch).
		Hex("leader", logging.ID(leader)).
		Msg("epoch entered")
}

func (lc *LogConsumer) OnSkippedEpoch(epoch uint64) {
	lc.log.Debug().
		Uint64("epoch", epoch).
		Msg("epoch ended without voting")
}

func (lc *LogConsumer) OnReceiveProposal(currentEpoch uint64, proposal *model.Proposal) {
	lc.logBasicBlockData(lc.log.Debug(), proposal.Block).
		Uint64("cur_epoch", currentEpoch).
		Msg("processing proposal")
}

func (lc *LogConsumer) OnReceiveVote(currentEpoch uint64, vote *model.Vote) {
	lc.log.Debug().
		Uint64("cur_epoch", currentEpoch).
		Uint64("vote_epoch", vote.Epoch).
		Hex("voted_block_id", logging.ID(vote.BlockID)).
		Hex("signer_id", logging.ID(vote.SignerID)).
		Msg("processing vote")
}

func (lc *LogConsumer) OnOwnProposal(proposal *model.Proposal) {
	lc.logBasicBlockData(lc.log.Debug(), proposal.Block).
		Msg("publishing own proposal")
}

func (lc *LogConsumer) OnOwnVote(vote *model.Vote) {
	lc.log.Debug().
		Uint64("vote_epoch", vote.Epoch).
		Hex("voted_block_id", logging.ID(vote.BlockID)).
		Msg("publishing own vote")
}

func (lc *LogConsumer) OnProposalBuffered(proposal *model.Proposal) {
	lc.logBasicBlockData(lc.log.Debug(), proposal.Block).
		Msg("proposal buffered until its parent arrives")
}

func (lc *LogConsumer) OnVoteBuffered(vote *model.Vote) {
	lc.log.Debug().
		Uint64("vote_epoch", vote.Epoch).
		Hex("voted_block_id", logging.ID(vote.BlockID)).
		Hex("signer_id", logging.ID(vote.SignerID)).
		Msg("vote buffered until its block arrives")
}

func (lc *LogConsumer) OnMessageOutsideWindow(currentEpoch uint64, messageEpoch uint64) {
	lc.log.Debug().
		Uint64("cur_epoch", currentEpoch).
		Uint64("message_epoch", messageEpoch).
		Msg("dropped message outside the epoch window")
}

func (lc *LogConsumer) logBasicBlockData(loggerEvent *zerolog.Event, block *model.Block) *zerolog.Event {
	loggerEvent.
		Uint64("block_epoch", block.Epoch).
		Hex("block_id", logging.ID(block.BlockID)).
		Hex("parent_id", logging.ID(block.ParentID)).
		Hex("proposer_id", logging.ID(block.ProposerID))
	return loggerEvent
}
