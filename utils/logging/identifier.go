package logging

import (
	"github.com/onflow/streamlet/model/flow"
)

// ID returns the identifier's bytes, for use with zerolog's Hex fields.
func ID(id flow.Identifier) []byte {
	return id[:]
}

// IDs returns the hex strings of the identifiers, for use with zerolog's Strs fields.
func IDs(ids []flow.Identifier) []string {
	return flow.IdentifierList(ids).Strings()
}
