package leader

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/onflow/streamlet/model/flow"
)

// seedTag separates the leader schedule hash from any other use of SHA3.
var seedTag = []byte("streamlet-leader-schedule")

// IndexForEpoch returns the index of the epoch's leader in a committee of the
// given size: the first 8 bytes of SHA3-256(tag‖epoch), read big-endian,
// modulo the committee size. It is a pure function of its inputs.
func IndexForEpoch(epoch uint64, committeeSize uint) uint {
	if committeeSize == 0 {
		return 0
	}
	var epochBytes [8]byte
	binary.BigEndian.PutUint64(epochBytes[:], epoch)

	hasher := sha3.New256()
	_, _ = hasher.Write(seedTag)
	_, _ = hasher.Write(epochBytes[:])
	digest := hasher.Sum(nil)

	return uint(binary.BigEndian.Uint64(digest[:8]) % uint64(committeeSize))
}

// LeaderForEpoch returns the node ID of the given epoch's leader out of the
// ordered member list. Returns flow.ZeroID for an empty committee.
func LeaderForEpoch(epoch uint64, memberIDs flow.IdentifierList) flow.Identifier {
	if len(memberIDs) == 0 {
		return flow.ZeroID
	}
	return memberIDs[IndexForEpoch(epoch, uint(len(memberIDs)))]
}

// Schedule returns the leaders for epochs first..last inclusive.
func Schedule(first uint64, last uint64, memberIDs flow.IdentifierList) flow.IdentifierList {
	if last < first {
		return nil
	}
	leaders := make(flow.IdentifierList, 0, last-first+1)
	for epoch := first; epoch <= last; epoch++ {
		leaders = append(leaders, LeaderForEpoch(epoch, memberIDs))
	}
	return leaders
}
