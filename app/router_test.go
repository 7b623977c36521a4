package app

import (
	"context"
	"testing"

	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/timelocktest"
	"github.com/iov-one/timelock/timelocktest/assert"
)

func TestRouter(t *testing.T) {
	var (
		deposit  timelocktest.Handler
		withdraw = timelocktest.Handler{DeliverErr: errors.ErrState}
	)
	r := NewRouter()
	r.Handle("ledger/deposit", &deposit)
	r.Handle("ledger/withdraw", &withdraw)

	ctx := context.Background()
	txOf := func(path string) *timelocktest.Tx {
		return &timelocktest.Tx{Msg: &timelocktest.Msg{RoutePath: path}}
	}

	_, err := r.Check(ctx, nil, txOf("ledger/deposit"))
	assert.Nil(t, err)
	_, err = r.Deliver(ctx, nil, txOf("ledger/deposit"))
	assert.Nil(t, err)
	assert.Equal(t, 2, deposit.CallCount())

	_, err = r.Deliver(ctx, nil, txOf("ledger/withdraw"))
	assert.IsErr(t, errors.ErrState, err)
	assert.Equal(t, 1, withdraw.DeliverCallCount())

	_, err = r.Check(ctx, nil, txOf("cash/send"))
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = r.Deliver(ctx, nil, txOf("cash/send"))
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = r.Deliver(ctx, nil, &timelocktest.Tx{Err: errors.ErrMsg})
	assert.IsErr(t, errors.ErrMsg, err)
}

func TestRouterRegistration(t *testing.T) {
	r := NewRouter()
	r.Handle("ledger/deposit", &timelocktest.Handler{})

	assert.Panics(t, func() {
		r.Handle("ledger/deposit", &timelocktest.Handler{})
	})
	assert.Panics(t, func() {
		r.Handle("ledger deposit", &timelocktest.Handler{})
	})
	assert.Panics(t, func() {
		r.Handle("", &timelocktest.Handler{})
	})
}
