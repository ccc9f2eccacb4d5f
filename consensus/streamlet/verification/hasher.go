package verification

import (
	"golang.org/x/crypto/sha3"

	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

// SHA3Hasher derives identifiers with SHA3-256.
type SHA3Hasher struct{}

var _ model.Hasher = SHA3Hasher{}

// NewSHA3Hasher returns the default hasher for block identifiers.
func NewSHA3Hasher() SHA3Hasher {
	return SHA3Hasher{}
}

func (SHA3Hasher) Hash(data []byte) flow.Identifier {
	return flow.Identifier(sha3.Sum256(data))
}
