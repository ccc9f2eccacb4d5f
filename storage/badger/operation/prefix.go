package operation

import (
	"encoding/binary"
	"fmt"

	"github.com/onflow/streamlet/model/flow"
)

const (

	// codes for fields associated with the local replica
	codeSafetyData      = 10
	codeFinalizedHeight = 11

	// codes for consensus entities
	codeBlock = 20
	codeVote  = 21

	// codes for indexes
	codeBlockByEpoch   = 30
	codeFinalizedBlock = 31
)

func makePrefix(code byte, keys ...interface{}) []byte {
	prefix := make([]byte, 1)
	prefix[0] = code
	for _, key := range keys {
		prefix = append(prefix, b(key)...)
	}
	return prefix
}

func b(v interface{}) []byte {
	switch i := v.(type) {
	case uint8:
		return []byte{i}
	case uint32:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, i)
		return b
	case uint64:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, i)
		return b
	case string:
		return []byte(i)
	case flow.Identifier:
		return i[:]
	default:
		panic(fmt.Sprintf("unsupported type to convert (%T)", v))
	}
}
