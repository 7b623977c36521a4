package ledger

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/gconf"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/timelocktest"
	"github.com/iov-one/timelock/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

var now = time.Date(2019, time.March, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db     timelock.CacheableKVStore
	bank   *cash.BaseController
	ledger *Ledger
	events []Event
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	bank := cash.NewController()
	f := &fixture{
		db:     store.MemStore(),
		bank:   bank,
		ledger: NewLedger(bank),
	}
	f.ledger.Subscribe(func(_ timelock.Context, e Event) {
		f.events = append(f.events, e)
	})
	return f
}

func (f *fixture) issue(t testing.TB, addr timelock.Address, c coin.Coin) {
	t.Helper()
	require.NoError(t, f.bank.IssueCoins(f.db, addr, c))
}

func (f *fixture) balance(t testing.TB, addr timelock.Address, ticker string) uint64 {
	t.Helper()
	c, err := f.bank.Balance(f.db, addr, ticker)
	require.NoError(t, err)
	return c.Amount
}

// withFee declares a transfer fee for the asset and configures a fee
// collector.
func (f *fixture) withFee(t testing.TB, ticker string, fee timelock.Fraction) timelock.Address {
	t.Helper()
	collector := timelocktest.RandomAddr(t)
	require.NoError(t, gconf.Save(f.db, cash.ConfigurationPkg, &cash.Configuration{CollectorAddress: collector}))
	info := cash.AssetInfo{Ticker: ticker, FeeNumerator: fee.Numerator, FeeDenominator: fee.Denominator}
	_, err := cash.NewAssetBucket().Put(f.db, []byte(ticker), &info)
	require.NoError(t, err)
	return collector
}

func ctxAt(t time.Time) timelock.Context {
	return timelock.WithBlockTime(context.Background(), t)
}

func TestDepositLifecycle(t *testing.T) {
	f := newFixture(t)
	owner := timelocktest.RandomAddr(t)
	f.issue(t, owner, coin.NewCoin(1000, "TKN"))
	release := timelock.AsUnixTime(now) + 259200

	// Scenario A: the whole amount is received.
	dep, err := f.ledger.Deposit(ctxAt(now), f.db, owner, coin.NewCoin(1000, "TKN"))
	require.NoError(t, err)
	want := &Deposit{Asset: "TKN", Amount: 1000, ReleaseTime: release}
	assert.Equal(t, want, dep)

	stored, err := f.ledger.GetDeposit(f.db, owner)
	require.NoError(t, err)
	assert.Equal(t, want, stored)
	assert.Equal(t, []Event{
		{Kind: EventDeposited, Owner: owner, Asset: "TKN", Amount: 1000, ReleaseTime: release},
	}, f.events)
	assert.EqualValues(t, 0, f.balance(t, owner, "TKN"))
	assert.EqualValues(t, 1000, f.balance(t, Custody(), "TKN"))

	// Scenario B: the deposit is locked.
	_, err = f.ledger.Withdraw(ctxAt(now), f.db, owner)
	assert.True(t, ErrLocked.Is(err), "%+v", err)
	_, err = f.ledger.Withdraw(ctxAt(release.Time().Add(-time.Second)), f.db, owner)
	assert.True(t, ErrLocked.Is(err), "%+v", err)

	// Scenario C: withdraw exactly at the release time.
	dep, err = f.ledger.Withdraw(ctxAt(release.Time()), f.db, owner)
	require.NoError(t, err)
	assert.Equal(t, &Deposit{Asset: "TKN", Amount: 1000, ReleaseTime: release, Withdrawn: true}, dep)
	assert.EqualValues(t, 1000, f.balance(t, owner, "TKN"))
	assert.EqualValues(t, 0, f.balance(t, Custody(), "TKN"))
	require.Len(t, f.events, 2)
	assert.Equal(t, Event{Kind: EventWithdrawn, Owner: owner, Asset: "TKN", Amount: 1000}, f.events[1])

	// Scenario D: the deposit can be withdrawn only once.
	_, err = f.ledger.Withdraw(ctxAt(release.Time().Add(time.Hour)), f.db, owner)
	assert.True(t, ErrWithdrawn.Is(err), "%+v", err)

	// The slot stays occupied after withdrawal.
	_, err = f.ledger.Deposit(ctxAt(release.Time()), f.db, owner, coin.NewCoin(10, "TKN"))
	assert.True(t, ErrDepositExists.Is(err), "%+v", err)

	stored, err = f.ledger.GetDeposit(f.db, owner)
	require.NoError(t, err)
	assert.Equal(t, &Deposit{Asset: "TKN", Amount: 1000, ReleaseTime: release, Withdrawn: true}, stored)
	assert.EqualValues(t, 1000, f.balance(t, owner, "TKN"))

	history, err := f.ledger.Events(f.db, owner)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, EventDeposited, history[0].Kind)
	assert.Equal(t, EventWithdrawn, history[1].Kind)
}

func TestDepositWithTransferFee(t *testing.T) {
	f := newFixture(t)
	owner := timelocktest.RandomAddr(t)
	collector := f.withFee(t, "TKN", timelock.Fraction{Numerator: 2, Denominator: 100})
	f.issue(t, owner, coin.NewCoin(500, "TKN"))

	// Scenario E: only 490 of 500 reach the custody.
	dep, err := f.ledger.Deposit(ctxAt(now), f.db, owner, coin.NewCoin(500, "TKN"))
	require.NoError(t, err)
	assert.Equal(t, &Deposit{Asset: "TKN", Amount: 490, ReleaseTime: timelock.AsUnixTime(now) + 259200}, dep)
	assert.EqualValues(t, 490, f.balance(t, Custody(), "TKN"))
	assert.EqualValues(t, 10, f.balance(t, collector, "TKN"))
	require.Len(t, f.events, 1)
	assert.EqualValues(t, 490, f.events[0].Amount)

	// The fee is charged again when the deposit is returned.
	_, err = f.ledger.Withdraw(ctxAt(now.Add(LockDuration)), f.db, owner)
	require.NoError(t, err)
	assert.EqualValues(t, 481, f.balance(t, owner, "TKN"))
	assert.EqualValues(t, 19, f.balance(t, collector, "TKN"))
	assert.EqualValues(t, 0, f.balance(t, Custody(), "TKN"))
}

func TestDepositFailures(t *testing.T) {
	owner := timelocktest.RandomAddr(t)

	cases := map[string]struct {
		setup   func(t testing.TB, f *fixture)
		ctx     timelock.Context
		owner   timelock.Address
		amount  coin.Coin
		wantErr *errors.Error
	}{
		"zero amount": {
			amount:  coin.NewCoin(0, "TKN"),
			wantErr: errors.ErrAmount,
		},
		"invalid asset": {
			amount:  coin.NewCoin(10, "tkn"),
			wantErr: errors.ErrCurrency,
		},
		"invalid owner": {
			owner:   timelock.Address("short"),
			amount:  coin.NewCoin(10, "TKN"),
			wantErr: errors.ErrInput,
		},
		"insufficient funds": {
			amount:  coin.NewCoin(1001, "TKN"),
			wantErr: ErrTransfer,
		},
		"unknown asset": {
			amount:  coin.NewCoin(1, "ETH"),
			wantErr: ErrTransfer,
		},
		"deposit exists": {
			setup: func(t testing.TB, f *fixture) {
				_, err := f.ledger.Deposit(ctxAt(now), f.db, owner, coin.NewCoin(1, "TKN"))
				require.NoError(t, err)
				f.events = nil
			},
			amount:  coin.NewCoin(10, "TKN"),
			wantErr: ErrDepositExists,
		},
		"nothing received": {
			setup: func(t testing.TB, f *fixture) {
				f.withFee(t, "TKN", timelock.Fraction{Numerator: 1, Denominator: 1})
			},
			amount:  coin.NewCoin(10, "TKN"),
			wantErr: errors.ErrAmount,
		},
		"fee collector not configured": {
			setup: func(t testing.TB, f *fixture) {
				info := cash.AssetInfo{Ticker: "TKN", FeeNumerator: 1, FeeDenominator: 10}
				_, err := cash.NewAssetBucket().Put(f.db, []byte("TKN"), &info)
				require.NoError(t, err)
			},
			amount:  coin.NewCoin(10, "TKN"),
			wantErr: ErrTransfer,
		},
		"missing block time": {
			ctx:     context.Background(),
			amount:  coin.NewCoin(10, "TKN"),
			wantErr: errors.ErrHuman,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			f.issue(t, owner, coin.NewCoin(1000, "TKN"))
			if tc.setup != nil {
				tc.setup(t, f)
			}
			before := f.balance(t, owner, "TKN")
			prev, err := f.ledger.GetDeposit(f.db, owner)
			require.NoError(t, err)

			ctx := tc.ctx
			if ctx == nil {
				ctx = ctxAt(now)
			}
			who := tc.owner
			if who == nil {
				who = owner
			}
			_, err = f.ledger.Deposit(ctx, f.db, who, tc.amount)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}

			// Failure never changes the state.
			assert.Equal(t, before, f.balance(t, owner, "TKN"))
			got, err := f.ledger.GetDeposit(f.db, owner)
			require.NoError(t, err)
			assert.Equal(t, prev, got)
			assert.Empty(t, f.events)
			assert.False(t, f.ledger.guard.Busy())
		})
	}
}

func TestWithdrawFailures(t *testing.T) {
	f := newFixture(t)
	owner := timelocktest.RandomAddr(t)

	_, err := f.ledger.Withdraw(ctxAt(now), f.db, owner)
	assert.True(t, ErrNoDeposit.Is(err), "%+v", err)

	f.issue(t, owner, coin.NewCoin(10, "TKN"))
	_, err = f.ledger.Deposit(ctxAt(now), f.db, owner, coin.NewCoin(10, "TKN"))
	require.NoError(t, err)

	_, err = f.ledger.Withdraw(context.Background(), f.db, owner)
	assert.True(t, errors.ErrHuman.Is(err), "%+v", err)

	// Somebody else cannot withdraw the deposit.
	other := timelocktest.RandomAddr(t)
	_, err = f.ledger.Withdraw(ctxAt(now.Add(LockDuration)), f.db, other)
	assert.True(t, ErrNoDeposit.Is(err), "%+v", err)
	assert.EqualValues(t, 10, f.balance(t, Custody(), "TKN"))
	assert.False(t, f.ledger.guard.Busy())
}

func TestGetDepositOfUnknownOwner(t *testing.T) {
	f := newFixture(t)
	dep, err := f.ledger.GetDeposit(f.db, timelocktest.RandomAddr(t))
	require.NoError(t, err)
	assert.Equal(t, &Deposit{}, dep)
	assert.True(t, dep.IsZero())
	assert.False(t, dep.Withdrawn)

	// Anybody can read any deposit, even a malformed owner key.
	dep, err = f.ledger.GetDeposit(f.db, nil)
	require.NoError(t, err)
	assert.Equal(t, &Deposit{}, dep)
}

func TestReentrantCallsAreRejected(t *testing.T) {
	f := newFixture(t)
	owner := timelocktest.RandomAddr(t)
	f.issue(t, owner, coin.NewCoin(1000, "TKN"))

	var (
		reenter    bool
		depositErr error
		withdrawEr error
	)
	f.bank.RegisterHook("TKN", func(ctx timelock.Context, db timelock.KVStore, tr cash.Transfer) error {
		if !reenter {
			return nil
		}
		_, depositErr = f.ledger.Deposit(ctx, db, owner, coin.NewCoin(1, "TKN"))
		_, withdrawEr = f.ledger.Withdraw(ctx, db, owner)
		if depositErr != nil {
			return depositErr
		}
		return withdrawEr
	})

	reenter = true
	_, err := f.ledger.Deposit(ctxAt(now), f.db, owner, coin.NewCoin(100, "TKN"))
	assert.True(t, ErrTransfer.Is(err), "%+v", err)
	assert.True(t, ErrReentrancy.Is(depositErr), "%+v", depositErr)
	assert.True(t, ErrReentrancy.Is(withdrawEr), "%+v", withdrawEr)

	dep, err := f.ledger.GetDeposit(f.db, owner)
	require.NoError(t, err)
	assert.True(t, dep.IsZero())
	assert.EqualValues(t, 1000, f.balance(t, owner, "TKN"))
	assert.Empty(t, f.events)

	// The guard is released, so a regular deposit succeeds.
	reenter = false
	_, err = f.ledger.Deposit(ctxAt(now), f.db, owner, coin.NewCoin(100, "TKN"))
	require.NoError(t, err)

	// A reentrant call during withdrawal fails the push and the deposit
	// is forfeited.
	reenter = true
	depositErr, withdrawEr = nil, nil
	_, err = f.ledger.Withdraw(ctxAt(now.Add(LockDuration)), f.db, owner)
	assert.True(t, ErrTransfer.Is(err), "%+v", err)
	assert.True(t, ErrReentrancy.Is(depositErr), "%+v", depositErr)
	assert.True(t, ErrReentrancy.Is(withdrawEr), "%+v", withdrawEr)
	assert.False(t, f.ledger.guard.Busy())
}

func TestFailedPushForfeitsDeposit(t *testing.T) {
	f := newFixture(t)
	owner := timelocktest.RandomAddr(t)
	f.issue(t, owner, coin.NewCoin(100, "TKN"))

	var blocked bool
	f.bank.RegisterHook("TKN", func(ctx timelock.Context, db timelock.KVStore, tr cash.Transfer) error {
		if blocked && tr.Source.Equals(Custody()) {
			return errors.Wrap(errors.ErrUnauthorized, "recipient frozen")
		}
		return nil
	})
	_, err := f.ledger.Deposit(ctxAt(now), f.db, owner, coin.NewCoin(100, "TKN"))
	require.NoError(t, err)
	f.events = nil

	var logs bytes.Buffer
	ctx := timelock.WithLogger(ctxAt(now.Add(LockDuration)), log.NewTMLogger(&logs))

	blocked = true
	_, err = f.ledger.Withdraw(ctx, f.db, owner)
	assert.True(t, ErrTransfer.Is(err), "%+v", err)
	assert.Contains(t, logs.String(), "deposit forfeited")

	dep, err := f.ledger.GetDeposit(f.db, owner)
	require.NoError(t, err)
	assert.True(t, dep.Withdrawn)
	assert.EqualValues(t, 100, dep.Amount)
	assert.EqualValues(t, 100, f.balance(t, Custody(), "TKN"))
	assert.EqualValues(t, 0, f.balance(t, owner, "TKN"))
	assert.Empty(t, f.events)

	// There is no retry.
	blocked = false
	_, err = f.ledger.Withdraw(ctx, f.db, owner)
	assert.True(t, ErrWithdrawn.Is(err), "%+v", err)
}

// noEventStore refuses to write events, every other write passes.
type noEventStore struct {
	timelock.KVStore
}

func (s noEventStore) Set(key, value []byte) error {
	if bytes.HasPrefix(key, []byte("event:")) {
		return errors.Wrap(errors.ErrDatabase, "disk full")
	}
	return s.KVStore.Set(key, value)
}

func TestWithdrawSucceedsWhenEventIsLost(t *testing.T) {
	f := newFixture(t)
	owner := timelocktest.RandomAddr(t)
	f.issue(t, owner, coin.NewCoin(100, "TKN"))
	_, err := f.ledger.Deposit(ctxAt(now), f.db, owner, coin.NewCoin(100, "TKN"))
	require.NoError(t, err)
	f.events = nil

	var logs bytes.Buffer
	ctx := timelock.WithLogger(ctxAt(now.Add(LockDuration)), log.NewTMLogger(&logs))
	dep, err := f.ledger.Withdraw(ctx, noEventStore{f.db}, owner)
	require.NoError(t, err)
	assert.True(t, dep.Withdrawn)
	assert.Contains(t, logs.String(), "withdraw event not saved")

	// funds and the flag are final, only the history misses the entry
	assert.EqualValues(t, 100, f.balance(t, owner, "TKN"))
	assert.EqualValues(t, 0, f.balance(t, Custody(), "TKN"))
	stored, err := f.ledger.GetDeposit(f.db, owner)
	require.NoError(t, err)
	assert.True(t, stored.Withdrawn)
	history, err := f.ledger.Events(f.db, owner)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, EventDeposited, history[0].Kind)
	require.Len(t, f.events, 1)
	assert.Equal(t, EventWithdrawn, f.events[0].Kind)
}

func TestCustodyAddress(t *testing.T) {
	assert.NoError(t, Custody().Validate())
	assert.Equal(t, Custody(), Custody())
	assert.Equal(t, 259200*time.Second, LockDuration)
}
