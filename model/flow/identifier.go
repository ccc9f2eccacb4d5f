package flow

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"
)

// IdentifierLen is the length of an Identifier in bytes.
const IdentifierLen = 32

// Identifier represents a 32-byte unique identifier for an entity, such as a
// block or a committee member.
type Identifier [IdentifierLen]byte

// ZeroID is the lowest value in the 32-byte ID space.
var ZeroID = Identifier{}

// HexStringToIdentifier converts a hex string to an identifier. The input
// must be 64 characters long and contain only valid hex characters.
func HexStringToIdentifier(hexString string) (Identifier, error) {
	var identifier Identifier
	i, err := hex.Decode(identifier[:], []byte(hexString))
	if err != nil {
		return identifier, err
	}
	if i != IdentifierLen {
		return identifier, fmt.Errorf("malformed input, expected %d bytes (%d hex chars), decoded %d", IdentifierLen, 2*IdentifierLen, i)
	}
	return identifier, nil
}

// MustHexStringToIdentifier converts a hex string to an identifier and panics
// on malformed input. Use only for constants and tests.
func MustHexStringToIdentifier(hexString string) Identifier {
	id, err := HexStringToIdentifier(hexString)
	if err != nil {
		panic(err)
	}
	return id
}

// HashToID converts a byte slice of hash output to an Identifier.
// Inputs longer than IdentifierLen are truncated.
func HashToID(hash []byte) Identifier {
	var id Identifier
	copy(id[:], hash)
	return id
}

// String returns the hex string representation of the identifier.
func (id Identifier) String() string {
	return hex.EncodeToString(id[:])
}

// TerminalString returns a short prefix of the identifier for log output.
func (id Identifier) TerminalString() string {
	return hex.EncodeToString(id[:4])
}

// Format implements fmt.Formatter so that identifiers print as hex with %v and %x.
func (id Identifier) Format(state fmt.State, verb rune) {
	//nolint:errcheck
	switch verb {
	case 'x':
		state.Write([]byte(hex.EncodeToString(id[:])))
	case 'v':
		if state.Flag('#') {
			fmt.Fprintf(state, "%#v", [IdentifierLen]byte(id))
		} else {
			state.Write([]byte(hex.EncodeToString(id[:])))
		}
	default:
		state.Write([]byte(hex.EncodeToString(id[:])))
	}
}

// Less returns true if id is a lexicographically lower value than other.
// This is the deterministic tie-break order used wherever identifiers compete.
func (id Identifier) Less(other Identifier) bool {
	return bytes.Compare(id[:], other[:]) < 0
}

// IdentifierList defines a sortable list of identifiers.
type IdentifierList []Identifier

// Len returns length of the IdentifierList in the number of stored identifiers.
func (il IdentifierList) Len() int {
	return len(il)
}

// Less returns true if element i in the IdentifierList is less than j based on its identifier.
func (il IdentifierList) Less(i, j int) bool {
	return il[i].Less(il[j])
}

// Swap swaps the element i and j in the IdentifierList.
func (il IdentifierList) Swap(i, j int) {
	il[j], il[i] = il[i], il[j]
}

// Contains returns whether this identifier list contains the target identifier.
func (il IdentifierList) Contains(target Identifier) bool {
	for _, id := range il {
		if target == id {
			return true
		}
	}
	return false
}

// Copy returns a copy of the IdentifierList.
func (il IdentifierList) Copy() IdentifierList {
	cpy := make(IdentifierList, 0, il.Len())
	return append(cpy, il...)
}

// Sort returns a sorted copy of the IdentifierList.
func (il IdentifierList) Sort() IdentifierList {
	dup := il.Copy()
	sort.Sort(dup)
	return dup
}

// Strings returns the hex representation of all identifiers.
func (il IdentifierList) Strings() []string {
	list := make([]string, len(il))
	for i, id := range il {
		list[i] = id.String()
	}
	return list
}
