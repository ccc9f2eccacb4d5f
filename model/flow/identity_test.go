package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/streamlet/model/flow"
)

func TestHexStringToIdentifier(t *testing.T) {
	type testcase struct {
		hex         string
		expectError bool
	}

	cases := []testcase{{
		// non-hex characters
		hex:         "123456789012345678901234567890123456789012345678901234567890123z",
		expectError: true,
	}, {
		// too short
		hex:         "1234",
		expectError: true,
	}, {
		// just right
		hex:         "1234567890123456789012345678901234567890123456789012345678901234",
		expectError: false,
	}}

	for _, tcase := range cases {
		id, err := flow.HexStringToIdentifier(tcase.hex)
		if tcase.expectError {
			assert.Error(t, err)
			continue
		} else {
			assert.NoError(t, err)
		}

		assert.Equal(t, tcase.hex, id.String())
	}
}

func TestIdentifierOrdering(t *testing.T) {
	low := flow.Identifier{0x01}
	high := flow.Identifier{0x02}

	assert.True(t, low.Less(high))
	assert.False(t, high.Less(low))
	assert.False(t, low.Less(low))

	sorted := flow.IdentifierList{high, flow.ZeroID, low}.Sort()
	assert.Equal(t, flow.IdentifierList{flow.ZeroID, low, high}, sorted)
}

func TestIdentityList(t *testing.T) {
	a := &flow.Identity{NodeID: flow.Identifier{0x03}}
	b := &flow.Identity{NodeID: flow.Identifier{0x01}}
	c := &flow.Identity{NodeID: flow.Identifier{0x02}}
	list := flow.IdentityList{a, b, c}

	t.Run("lookup by node ID", func(t *testing.T) {
		found, ok := list.ByNodeID(c.NodeID)
		require.True(t, ok)
		assert.Equal(t, c, found)

		_, ok = list.ByNodeID(flow.Identifier{0xff})
		assert.False(t, ok)
	})

	t.Run("lookup by index", func(t *testing.T) {
		found, ok := list.ByIndex(1)
		require.True(t, ok)
		assert.Equal(t, b, found)

		_, ok = list.ByIndex(3)
		assert.False(t, ok)
	})

	t.Run("canonical order does not mutate the list", func(t *testing.T) {
		ordered := list.Order(flow.Canonical)
		assert.Equal(t, flow.IdentifierList{b.NodeID, c.NodeID, a.NodeID}, ordered.NodeIDs())
		assert.Equal(t, a, list[0])
	})

	t.Run("duplicates", func(t *testing.T) {
		assert.False(t, list.HasDuplicates())
		assert.True(t, append(list, &flow.Identity{NodeID: a.NodeID}).HasDuplicates())
	})
}
