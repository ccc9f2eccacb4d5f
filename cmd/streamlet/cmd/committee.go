package cmd

import (
	"crypto/ed25519"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

// replica is the identity and signing key of one simulated replica.
type replica struct {
	identity *flow.Identity
	key      ed25519.PrivateKey
}

// generateReplicas derives n replicas from the seed. The same seed always
// yields the same keys and node IDs, so a simulation restarted on the same
// data directory recovers the same replicas. Replicas are returned in
// canonical order.
func generateReplicas(hasher model.Hasher, seed string, n int) []*replica {
	byID := make(map[flow.Identifier]*replica, n)
	identities := make(flow.IdentityList, 0, n)
	for i := 0; i < n; i++ {
		keySeed := sha3.Sum256([]byte(fmt.Sprintf("%s/%d", seed, i)))
		key := ed25519.NewKeyFromSeed(keySeed[:])
		public := key.Public().(ed25519.PublicKey)
		identity := &flow.Identity{
			NodeID:    hasher.Hash(public),
			Address:   fmt.Sprintf("replica-%d", i),
			PublicKey: public,
		}
		byID[identity.NodeID] = &replica{identity: identity, key: key}
		identities = append(identities, identity)
	}

	ordered := identities.Order(flow.Canonical)
	replicas := make([]*replica, 0, n)
	for _, identity := range ordered {
		replicas = append(replicas, byID[identity.NodeID])
	}
	return replicas
}

// identitiesOf returns the identities of the replicas, in order.
func identitiesOf(replicas []*replica) flow.IdentityList {
	identities := make(flow.IdentityList, 0, len(replicas))
	for _, r := range replicas {
		identities = append(identities, r.identity)
	}
	return identities
}
