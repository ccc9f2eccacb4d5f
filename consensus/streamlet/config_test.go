package streamlet_test

import (
	"errors"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/streamlet/consensus/streamlet"
	"github.com/onflow/streamlet/consensus/streamlet/model"
	"github.com/onflow/streamlet/model/flow"
)

func members(ids ...flow.Identifier) flow.IdentityList {
	list := make(flow.IdentityList, 0, len(ids))
	for _, id := range ids {
		list = append(list, &flow.Identity{NodeID: id})
	}
	return list
}

func TestConfigOptions(t *testing.T) {
	local := flow.Identifier{0x01}
	cfg := streamlet.NewConfig(4, local,
		streamlet.WithEpochDuration(50*time.Millisecond),
		streamlet.WithToleranceEpochs(2),
		streamlet.WithPendingWindow(3),
		streamlet.WithInboundQueueCapacity(10),
	)

	assert.Equal(t, uint(4), cfg.CommitteeSize)
	assert.Equal(t, local, cfg.LocalID)
	assert.Equal(t, 50*time.Millisecond, cfg.EpochDuration)
	assert.Equal(t, uint64(2), cfg.ToleranceEpochs)
	assert.Equal(t, uint64(3), cfg.PendingWindow)
	assert.Equal(t, uint32(10), cfg.InboundQueueCapacity)
}

func TestConfigValidate(t *testing.T) {
	ids := []flow.Identifier{{0x01}, {0x02}, {0x03}, {0x04}}
	committee := members(ids...)

	t.Run("valid", func(t *testing.T) {
		cfg := streamlet.NewConfig(4, ids[0])
		require.NoError(t, cfg.Validate(committee))
	})

	t.Run("size mismatch", func(t *testing.T) {
		cfg := streamlet.NewConfig(5, ids[0])
		err := cfg.Validate(committee)
		require.Error(t, err)
		assert.True(t, model.IsConfigurationError(err))
	})

	t.Run("all problems are reported", func(t *testing.T) {
		cfg := streamlet.NewConfig(4, flow.Identifier{0xff},
			streamlet.WithEpochDuration(0),
			streamlet.WithPendingWindow(0),
		)
		err := cfg.Validate(committee)
		require.Error(t, err)
		assert.True(t, model.IsConfigurationError(err))

		var merr *multierror.Error
		require.True(t, errors.As(err, &merr))
		assert.Len(t, merr.Errors, 3)
	})

	t.Run("duplicate members", func(t *testing.T) {
		cfg := streamlet.NewConfig(4, ids[0])
		err := cfg.Validate(members(ids[0], ids[1], ids[2], ids[2]))
		assert.True(t, model.IsConfigurationError(err))
	})
}
