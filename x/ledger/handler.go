package ledger

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x"
	tmcommon "github.com/tendermint/tendermint/libs/common"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r timelock.Registry, auth x.Authenticator, l *Ledger) {
	r.Handle(pathDepositMsg, DepositHandler{auth: auth, ledger: l})
	r.Handle(pathWithdrawMsg, WithdrawHandler{auth: auth, ledger: l})
}

// RegisterQuery will register deposits as "/deposits" and the event
// history as "/events", "/events/owner" and "/events/asset".
func RegisterQuery(qr timelock.QueryRouter) {
	NewDepositBucket().Register("deposits", qr)
	NewEventBucket().Register("events", qr)
}

// DepositHandler creates a deposit of the main signer.
type DepositHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ timelock.Handler = DepositHandler{}

// Check verifies the message and that the signer has no deposit yet. Funds
// are verified on deliver.
func (h DepositHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	owner, _, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	dep, err := h.ledger.GetDeposit(db, owner)
	if err != nil {
		return nil, err
	}
	if !dep.IsZero() {
		return nil, errors.Wrapf(ErrDepositExists, "owner %s", owner)
	}
	return &timelock.CheckResult{}, nil
}

func (h DepositHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	owner, msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	dep, err := h.ledger.Deposit(ctx, db, owner, msg.Coin())
	if err != nil {
		return nil, err
	}
	return depositResult(owner, dep)
}

func (h DepositHandler) validate(ctx timelock.Context, tx timelock.Tx) (timelock.Address, *DepositMsg, error) {
	var msg DepositMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return signer.Address(), &msg, nil
}

// WithdrawHandler returns the matured deposit of the main signer.
type WithdrawHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ timelock.Handler = WithdrawHandler{}

// Check verifies that the deposit of the signer can be withdrawn.
func (h WithdrawHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	owner, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	dep, err := h.ledger.GetDeposit(db, owner)
	if err != nil {
		return nil, err
	}
	switch {
	case dep.IsZero():
		return nil, errors.Wrapf(ErrNoDeposit, "owner %s", owner)
	case !timelock.IsExpired(ctx, dep.ReleaseTime):
		return nil, errors.Wrapf(ErrLocked, "until %s", dep.ReleaseTime)
	case dep.Withdrawn:
		return nil, errors.Wrapf(ErrWithdrawn, "owner %s", owner)
	}
	return &timelock.CheckResult{}, nil
}

func (h WithdrawHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	owner, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	dep, err := h.ledger.Withdraw(ctx, db, owner)
	if err != nil {
		return nil, err
	}
	return depositResult(owner, dep)
}

func (h WithdrawHandler) validate(ctx timelock.Context, tx timelock.Tx) (timelock.Address, error) {
	var msg WithdrawMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return signer.Address(), nil
}

// depositResult returns the serialized deposit and tags that allow to
// search transactions by the owner and the asset.
func depositResult(owner timelock.Address, dep *Deposit) (*timelock.DeliverResult, error) {
	raw, err := dep.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal deposit")
	}
	return &timelock.DeliverResult{
		Data: raw,
		Tags: []tmcommon.KVPair{
			{Key: []byte("ledger.owner"), Value: []byte(owner.String())},
			{Key: []byte("ledger.asset"), Value: []byte(dep.Asset)},
		},
	}, nil
}
