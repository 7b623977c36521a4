package cash

import (
	"context"
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/gconf"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/timelocktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndBalance(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	addr := timelocktest.RandomAddr(t)

	got, err := ctrl.Balance(db, addr, "TKN")
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(0, "TKN"), got)

	require.NoError(t, ctrl.IssueCoins(db, addr, coin.NewCoin(100, "TKN")))
	require.NoError(t, ctrl.IssueCoins(db, addr, coin.NewCoin(50, "TKN")))
	require.NoError(t, ctrl.IssueCoins(db, addr, coin.NewCoin(7, "ETH")))

	got, err = ctrl.Balance(db, addr, "TKN")
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(150, "TKN"), got)

	got, err = ctrl.Balance(db, addr, "ETH")
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(7, "ETH"), got)

	err = ctrl.IssueCoins(db, addr, coin.NewCoin(1, "bad"))
	assert.True(t, errors.ErrCurrency.Is(err))
}

func TestMoveCoins(t *testing.T) {
	src := timelocktest.RandomAddr(t)
	dest := timelocktest.RandomAddr(t)
	collector := timelocktest.RandomAddr(t)

	cases := map[string]struct {
		fee       *timelock.Fraction
		noConf    bool
		amount    coin.Coin
		wantErr   *errors.Error
		wantSrc   uint64
		wantDest  uint64
		wantFeeTo uint64
	}{
		"no fee": {
			amount:   coin.NewCoin(300, "TKN"),
			wantSrc:  700,
			wantDest: 300,
		},
		"everything": {
			amount:   coin.NewCoin(1000, "TKN"),
			wantSrc:  0,
			wantDest: 1000,
		},
		"two percent fee": {
			fee:       &timelock.Fraction{Numerator: 2, Denominator: 100},
			amount:    coin.NewCoin(500, "TKN"),
			wantSrc:   500,
			wantDest:  490,
			wantFeeTo: 10,
		},
		"fee rounded down to nothing": {
			fee:      &timelock.Fraction{Numerator: 1, Denominator: 100},
			amount:   coin.NewCoin(99, "TKN"),
			wantSrc:  901,
			wantDest: 99,
		},
		"insufficient funds": {
			amount:   coin.NewCoin(1001, "TKN"),
			wantErr:  errors.ErrAmount,
			wantSrc:  1000,
			wantDest: 0,
		},
		"zero amount": {
			amount:   coin.NewCoin(0, "TKN"),
			wantErr:  errors.ErrAmount,
			wantSrc:  1000,
			wantDest: 0,
		},
		"unknown currency": {
			amount:   coin.NewCoin(10, "ETH"),
			wantErr:  errors.ErrAmount,
			wantSrc:  1000,
			wantDest: 0,
		},
		"fee without a collector": {
			fee:      &timelock.Fraction{Numerator: 1, Denominator: 10},
			noConf:   true,
			amount:   coin.NewCoin(100, "TKN"),
			wantErr:  errors.ErrNotFound,
			wantSrc:  1000,
			wantDest: 0,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController()

			if !tc.noConf {
				conf := Configuration{CollectorAddress: collector}
				require.NoError(t, gconf.Save(db, ConfigurationPkg, &conf))
			}
			if tc.fee != nil {
				info := AssetInfo{Ticker: "TKN", FeeNumerator: tc.fee.Numerator, FeeDenominator: tc.fee.Denominator}
				_, err := NewAssetBucket().Put(db, []byte("TKN"), &info)
				require.NoError(t, err)
			}
			require.NoError(t, ctrl.IssueCoins(db, src, coin.NewCoin(1000, "TKN")))

			err := ctrl.MoveCoins(context.Background(), db, src, dest, tc.amount)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}

			assertBalance(t, ctrl, db, src, coin.NewCoin(tc.wantSrc, "TKN"))
			assertBalance(t, ctrl, db, dest, coin.NewCoin(tc.wantDest, "TKN"))
			assertBalance(t, ctrl, db, collector, coin.NewCoin(tc.wantFeeTo, "TKN"))
		})
	}
}

func TestMoveCoinsHooks(t *testing.T) {
	src := timelocktest.RandomAddr(t)
	dest := timelocktest.RandomAddr(t)

	db := store.MemStore()
	ctrl := NewController()
	require.NoError(t, ctrl.IssueCoins(db, src, coin.NewCoin(100, "TKN")))

	var calls []Transfer
	ctrl.RegisterHook("TKN", func(ctx timelock.Context, db timelock.KVStore, tr Transfer) error {
		// Balances are already updated when a hook is called.
		assertBalance(t, ctrl, db, dest, tr.Received)
		calls = append(calls, tr)
		return nil
	})
	require.NoError(t, ctrl.MoveCoins(context.Background(), db, src, dest, coin.NewCoin(40, "TKN")))
	require.Len(t, calls, 1)
	assert.Equal(t, Transfer{
		Source:      src,
		Destination: dest,
		Sent:        coin.NewCoin(40, "TKN"),
		Received:    coin.NewCoin(40, "TKN"),
		Fee:         coin.NewCoin(0, "TKN"),
	}, calls[0])

	// Hooks of other assets are not called.
	require.NoError(t, ctrl.IssueCoins(db, src, coin.NewCoin(5, "ETH")))
	require.NoError(t, ctrl.MoveCoins(context.Background(), db, src, dest, coin.NewCoin(5, "ETH")))
	assert.Len(t, calls, 1)
}

func TestMoveCoinsFailingHook(t *testing.T) {
	src := timelocktest.RandomAddr(t)
	dest := timelocktest.RandomAddr(t)

	db := store.MemStore()
	ctrl := NewController()
	require.NoError(t, ctrl.IssueCoins(db, src, coin.NewCoin(100, "TKN")))

	ctrl.RegisterHook("TKN", func(timelock.Context, timelock.KVStore, Transfer) error {
		return errors.ErrUnauthorized
	})
	err := ctrl.MoveCoins(context.Background(), db, src, dest, coin.NewCoin(10, "TKN"))
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assertBalance(t, ctrl, db, src, coin.NewCoin(100, "TKN"))
	assertBalance(t, ctrl, db, dest, coin.NewCoin(0, "TKN"))
}

func assertBalance(t testing.TB, ctrl Controller, db timelock.ReadOnlyKVStore, addr timelock.Address, want coin.Coin) {
	t.Helper()
	got, err := ctrl.Balance(db, addr, want.Ticker)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
