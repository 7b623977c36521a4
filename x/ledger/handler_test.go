package ledger

import (
	"testing"
	"time"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/timelocktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRouter map[string]timelock.Handler

func (r testRouter) Handle(path string, h timelock.Handler) {
	r[path] = h
}

func TestHandlers(t *testing.T) {
	alice := timelocktest.NewCondition()
	bob := timelocktest.NewCondition()

	f := newFixture(t)
	f.issue(t, alice.Address(), coin.NewCoin(1000, "TKN"))

	rt := make(testRouter)
	RegisterRoutes(rt, &timelocktest.CtxAuth{Key: "auth"}, f.ledger)
	auth := &timelocktest.CtxAuth{Key: "auth"}

	deposit := rt[pathDepositMsg]
	withdraw := rt[pathWithdrawMsg]
	require.NotNil(t, deposit)
	require.NotNil(t, withdraw)

	signedAt := func(signer timelock.Condition, at time.Time) timelock.Context {
		ctx := ctxAt(at)
		if signer != nil {
			ctx = auth.SetConditions(ctx, signer)
		}
		return ctx
	}
	depositTx := &timelocktest.Tx{Msg: &DepositMsg{Asset: "TKN", Amount: 600}}
	withdrawTx := &timelocktest.Tx{Msg: &WithdrawMsg{}}

	// Unsigned transactions are rejected.
	_, err := deposit.Check(signedAt(nil, now), f.db, depositTx)
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)
	_, err = withdraw.Deliver(signedAt(nil, now), f.db, withdrawTx)
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)

	// Invalid message.
	_, err = deposit.Check(signedAt(alice, now), f.db, &timelocktest.Tx{Msg: &DepositMsg{Asset: "TKN"}})
	assert.True(t, errors.ErrAmount.Is(err), "%+v", err)

	// Nothing to withdraw yet.
	_, err = withdraw.Check(signedAt(alice, now), f.db, withdrawTx)
	assert.True(t, ErrNoDeposit.Is(err), "%+v", err)

	_, err = deposit.Check(signedAt(alice, now), f.db, depositTx)
	require.NoError(t, err)
	res, err := deposit.Deliver(signedAt(alice, now), f.db, depositTx)
	require.NoError(t, err)

	var dep Deposit
	require.NoError(t, dep.Unmarshal(res.Data))
	assert.EqualValues(t, 600, dep.Amount)
	require.Len(t, res.Tags, 2)
	assert.Equal(t, []byte(alice.Address().String()), res.Tags[0].Value)
	assert.Equal(t, []byte("TKN"), res.Tags[1].Value)

	// The deposit is charged to the signer.
	assert.EqualValues(t, 400, f.balance(t, alice.Address(), "TKN"))

	_, err = deposit.Check(signedAt(alice, now), f.db, depositTx)
	assert.True(t, ErrDepositExists.Is(err), "%+v", err)
	_, err = withdraw.Check(signedAt(alice, now), f.db, withdrawTx)
	assert.True(t, ErrLocked.Is(err), "%+v", err)

	// Bob cannot withdraw the deposit of Alice.
	matured := now.Add(LockDuration)
	_, err = withdraw.Deliver(signedAt(bob, matured), f.db, withdrawTx)
	assert.True(t, ErrNoDeposit.Is(err), "%+v", err)

	_, err = withdraw.Check(signedAt(alice, matured), f.db, withdrawTx)
	require.NoError(t, err)
	res, err = withdraw.Deliver(signedAt(alice, matured), f.db, withdrawTx)
	require.NoError(t, err)
	require.NoError(t, dep.Unmarshal(res.Data))
	assert.True(t, dep.Withdrawn)
	assert.EqualValues(t, 1000, f.balance(t, alice.Address(), "TKN"))

	_, err = withdraw.Check(signedAt(alice, matured), f.db, withdrawTx)
	assert.True(t, ErrWithdrawn.Is(err), "%+v", err)
}

func TestQueries(t *testing.T) {
	f := newFixture(t)
	alice := timelocktest.RandomAddr(t)
	bob := timelocktest.RandomAddr(t)
	f.issue(t, alice, coin.NewCoin(100, "TKN"))
	f.issue(t, bob, coin.NewCoin(100, "ETH"))

	_, err := f.ledger.Deposit(ctxAt(now), f.db, alice, coin.NewCoin(100, "TKN"))
	require.NoError(t, err)
	_, err = f.ledger.Deposit(ctxAt(now), f.db, bob, coin.NewCoin(50, "ETH"))
	require.NoError(t, err)
	_, err = f.ledger.Withdraw(ctxAt(now.Add(LockDuration)), f.db, alice)
	require.NoError(t, err)

	qr := timelock.NewQueryRouter()
	RegisterQuery(qr)

	res, err := qr.Handler("/deposits").Query(f.db, timelock.KeyQueryMod, bob)
	require.NoError(t, err)
	require.Len(t, res, 1)
	var dep Deposit
	require.NoError(t, dep.Unmarshal(res[0].Value))
	assert.Equal(t, coin.NewCoin(50, "ETH"), dep.Coin())

	res, err = qr.Handler("/events").Query(f.db, timelock.PrefixQueryMod, nil)
	require.NoError(t, err)
	assert.Len(t, res, 3)

	res, err = qr.Handler("/events/owner").Query(f.db, timelock.KeyQueryMod, alice)
	require.NoError(t, err)
	require.Len(t, res, 2)
	var e Event
	require.NoError(t, e.Unmarshal(res[1].Value))
	assert.Equal(t, Event{Kind: EventWithdrawn, Owner: alice, Asset: "TKN", Amount: 100}, e)

	res, err = qr.Handler("/events/asset").Query(f.db, timelock.KeyQueryMod, []byte("ETH"))
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.NoError(t, e.Unmarshal(res[0].Value))
	assert.Equal(t, bob, e.Owner)
}
