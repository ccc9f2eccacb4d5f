package streamlet

import (
	"github.com/onflow/streamlet/model/flow"
)

// Committee is the static set of replicas participating in consensus.
// Membership never changes during the lifetime of a node.
type Committee interface {

	// Members returns the committee in its canonical order. The order is
	// significant: the leader schedule indexes into this list.
	Members() flow.IdentityList

	// IdentityByID returns the full Identity for the specified committee member.
	// ERROR conditions:
	//    * model.InvalidSignerError if nodeID does not correspond to a committee member.
	IdentityByID(nodeID flow.Identifier) (*flow.Identity, error)

	// LeaderForEpoch returns the identity of the leader for the given epoch.
	// It is a pure function of the epoch and the member list.
	LeaderForEpoch(epoch uint64) flow.Identifier

	// NotarizationThreshold returns the minimal number of distinct votes a
	// block needs to become notarized.
	NotarizationThreshold() uint

	// Self returns our own node identifier.
	Self() flow.Identifier
}
