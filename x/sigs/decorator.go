/*
Package sigs authenticates ledger transactions. Every signature carries the
sequence of its signer, so a signed deposit or withdrawal cannot be replayed.
*/
package sigs

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Decorator verifies the signatures of a SignedTx and exposes the signers
// to the handlers through the context. A signed transaction must carry at
// least one signature. Transactions that cannot be signed pass unchanged.
type Decorator struct{}

var _ timelock.Decorator = Decorator{}

func NewDecorator() Decorator {
	return Decorator{}
}

func (d Decorator) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Checker) (*timelock.CheckResult, error) {
	ctx, err := authenticated(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, db, tx)
}

func (d Decorator) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (*timelock.DeliverResult, error) {
	ctx, err := authenticated(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

// authenticated verifies the signatures against the chain ID of the
// context and increments the sequence of every signer in db.
func authenticated(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (timelock.Context, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return ctx, nil
	}
	signers, err := VerifyTxSignatures(db, stx, timelock.GetChainID(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), nil
}
