package committees

import (
	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/committees/leader"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

// Static is a committee whose membership never changes. The leader schedule
// and the notarization threshold are derived from the member list once.
type Static struct {
	members   flow.IdentityList
	memberIDs flow.IdentifierList
	lookup    map[flow.Identifier]*flow.Identity
	threshold uint
	self      flow.Identifier
}

var _ streamlet.Committee = (*Static)(nil)

// NewStaticCommittee returns a committee over the given ordered members.
// Returns a model.ConfigurationError if the list is empty, contains
// duplicates or does not contain self.
func NewStaticCommittee(members flow.IdentityList, self flow.Identifier) (*Static, error) {
	if len(members) == 0 {
		return nil, model.NewConfigurationErrorf("committee must not be empty")
	}
	if members.HasDuplicates() {
		return nil, model.NewConfigurationErrorf("committee contains duplicate node IDs")
	}
	if _, ok := members.ByNodeID(self); !ok {
		return nil, model.NewConfigurationErrorf("local node %x is not a committee member", self)
	}

	dup := make(flow.IdentityList, len(members))
	copy(dup, members)

	return &Static{
		members:   dup,
		memberIDs: dup.NodeIDs(),
		lookup:    dup.Lookup(),
		threshold: NotarizationThreshold(dup.Count()),
		self:      self,
	}, nil
}

func (c *Static) Members() flow.IdentityList {
	return c.members
}

func (c *Static) IdentityByID(nodeID flow.Identifier) (*flow.Identity, error) {
	identity, ok := c.lookup[nodeID]
	if !ok {
		return nil, model.NewInvalidSignerErrorf("node %x is not a committee member", nodeID)
	}
	return identity, nil
}

func (c *Static) LeaderForEpoch(epoch uint64) flow.Identifier {
	return leader.LeaderForEpoch(epoch, c.memberIDs)
}

func (c *Static) NotarizationThreshold() uint {
	return c.threshold
}

func (c *Static) Self() flow.Identifier {
	return c.self
}
