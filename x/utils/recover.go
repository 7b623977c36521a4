package utils

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ timelock.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx, next timelock.Checker) (_ *timelock.CheckResult, err error) {
	defer recoverAndLog(ctx, &err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (_ *timelock.DeliverResult, err error) {
	defer recoverAndLog(ctx, &err)
	return next.Deliver(ctx, store, tx)
}

func recoverAndLog(ctx timelock.Context, err *error) {
	if r := recover(); r != nil {
		*err = errors.Wrapf(errors.ErrPanic, "%v", r)
		timelock.GetLogger(ctx).Error("recovered from panic", "err", *err)
	}
}
