package metrics

const (
	LabelNodeID   = "nodeid"
	LabelResource = "resource"
	LabelOutcome  = "outcome"
	LabelKind     = "kind"
	LabelReason   = "reason"
	LabelQueue    = "queue"
	LabelEvent    = "event"
)

// resources of the stores and mempools
const (
	ResourceBlock       = "block"
	ResourceVote        = "vote"
	ResourcePayloadItem = "payload_item"
)

// inbound queues of the event loop
const (
	QueueProposals = "proposals"
	QueueVotes     = "votes"
)

// reasons for dropping inbound messages
const (
	ReasonQueueFull     = "queue_full"
	ReasonOutsideWindow = "outside_window"
	ReasonPendingFull   = "pending_full"
	ReasonPendingPruned = "pending_pruned"
)

// kinds of protocol violations
const (
	KindInvalidBlock    = "invalid_block"
	KindInvalidProposal = "invalid_proposal"
	KindInvalidVote     = "invalid_vote"
	KindDoubleVote      = "double_vote"
	KindDoubleProposal  = "double_proposal"
)

// events handled by the event loop
const (
	EventTick     = "tick"
	EventProposal = "proposal"
	EventVote     = "vote"
)
