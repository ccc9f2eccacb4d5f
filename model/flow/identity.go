package flow

import (
	"crypto/ed25519"
	"fmt"
	"sort"
)

// Identity represents the public identity of one committee member.
type Identity struct {
	NodeID    Identifier
	Address   string
	PublicKey ed25519.PublicKey
}

// String returns a string representation of the identity.
func (iy Identity) String() string {
	return fmt.Sprintf("%s@%s", iy.NodeID.String(), iy.Address)
}

// ID returns a unique identifier for the identity.
func (iy Identity) ID() Identifier {
	return iy.NodeID
}

// IdentityFilter is a filter on identities.
type IdentityFilter func(*Identity) bool

// IdentityOrder is a sort for identities.
type IdentityOrder func(*Identity, *Identity) bool

// IdentityList is a list of committee identities. The order of the list is
// significant: the leader schedule indexes into it.
type IdentityList []*Identity

// Filter will apply a filter to the identity list.
func (il IdentityList) Filter(filter IdentityFilter) IdentityList {
	var dup IdentityList
	for _, identity := range il {
		if filter(identity) {
			dup = append(dup, identity)
		}
	}
	return dup
}

// Order will sort the list using the given sort function.
func (il IdentityList) Order(less IdentityOrder) IdentityList {
	dup := make(IdentityList, 0, len(il))
	dup = append(dup, il...)
	sort.Slice(dup, func(i int, j int) bool {
		return less(dup[i], dup[j])
	})
	return dup
}

// NodeIDs returns the NodeIDs of the nodes in the list.
func (il IdentityList) NodeIDs() IdentifierList {
	nodeIDs := make(IdentifierList, 0, len(il))
	for _, id := range il {
		nodeIDs = append(nodeIDs, id.NodeID)
	}
	return nodeIDs
}

// Count returns the count of identities.
func (il IdentityList) Count() uint {
	return uint(len(il))
}

// ByIndex returns the node at the given index.
func (il IdentityList) ByIndex(index uint) (*Identity, bool) {
	if index >= uint(len(il)) {
		return nil, false
	}
	return il[int(index)], true
}

// ByNodeID gets a node from the list by node ID.
func (il IdentityList) ByNodeID(nodeID Identifier) (*Identity, bool) {
	for _, identity := range il {
		if identity.NodeID == nodeID {
			return identity, true
		}
	}
	return nil, false
}

// Lookup returns the identities keyed by node ID.
func (il IdentityList) Lookup() map[Identifier]*Identity {
	lookup := make(map[Identifier]*Identity, len(il))
	for _, identity := range il {
		lookup[identity.NodeID] = identity
	}
	return lookup
}

// HasDuplicates returns true if two identities of the list share a node ID.
func (il IdentityList) HasDuplicates() bool {
	seen := make(map[Identifier]struct{}, len(il))
	for _, identity := range il {
		if _, ok := seen[identity.NodeID]; ok {
			return true
		}
		seen[identity.NodeID] = struct{}{}
	}
	return false
}

// Canonical orders identities by ascending node ID.
func Canonical(identity1 *Identity, identity2 *Identity) bool {
	return identity1.NodeID.Less(identity2.NodeID)
}
