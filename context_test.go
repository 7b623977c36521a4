package timelock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContext(t *testing.T) {
	bg := context.Background()

	// try logger with default
	newLogger := log.NewTMLogger(os.Stdout)
	ctx := WithLogger(bg, newLogger)
	assert.Equal(t, DefaultLogger, GetLogger(bg))
	assert.Equal(t, newLogger, GetLogger(ctx))

	// test height - uninitialized
	val, ok := GetHeight(ctx)
	assert.Equal(t, int64(0), val)
	assert.False(t, ok)
	// set
	ctx = WithHeight(ctx, 7)
	val, ok = GetHeight(ctx)
	assert.Equal(t, int64(7), val)
	assert.True(t, ok)
	// no reset
	assert.Panics(t, func() { WithHeight(ctx, 9) })

	// chain id MUST be valid
	assert.Panics(t, func() { WithChainID(ctx, "foo/bar") })
	assert.Equal(t, "", GetChainID(ctx))

	ctx = WithChainID(ctx, "test-chain")
	assert.Equal(t, "test-chain", GetChainID(ctx))
	assert.Panics(t, func() { WithChainID(ctx, "other-chain") })
}

func TestBlockTime(t *testing.T) {
	ctx := context.Background()
	_, err := BlockTime(ctx)
	assert.Error(t, err)
	assert.Panics(t, func() { IsExpired(ctx, 10) })

	now := time.Date(2019, 4, 1, 12, 0, 0, 0, time.UTC)
	ctx = WithBlockTime(ctx, now)
	got, err := BlockTime(ctx)
	require.NoError(t, err)
	assert.True(t, now.Equal(got))

	assert.True(t, IsExpired(ctx, AsUnixTime(now)), "expiration is inclusive")
	assert.True(t, IsExpired(ctx, AsUnixTime(now)-1))
	assert.False(t, IsExpired(ctx, AsUnixTime(now)+1))
}
