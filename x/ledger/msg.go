package ledger

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
)

const (
	pathDepositMsg  = "ledger/deposit"
	pathWithdrawMsg = "ledger/withdraw"
)

// DepositMsg moves funds of the signer into the custody.
type DepositMsg struct {
	Asset  string `protobuf:"bytes,1,opt,name=asset,proto3" json:"asset"`
	Amount uint64 `protobuf:"varint,2,opt,name=amount,proto3" json:"amount"`
}

var _ timelock.Msg = (*DepositMsg)(nil)

func (DepositMsg) Path() string {
	return pathDepositMsg
}

// Coin returns the requested deposit value.
func (m *DepositMsg) Coin() coin.Coin {
	return coin.NewCoin(m.Amount, m.Asset)
}

func (m *DepositMsg) Validate() error {
	var errs error
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "must be greater than zero"))
	}
	if !coin.IsCC(m.Asset) {
		errs = errors.AppendField(errs, "Asset", errors.ErrCurrency)
	}
	return errs
}

// WithdrawMsg returns the matured deposit of the signer.
type WithdrawMsg struct{}

var _ timelock.Msg = (*WithdrawMsg)(nil)

func (WithdrawMsg) Path() string {
	return pathWithdrawMsg
}

func (*WithdrawMsg) Validate() error {
	return nil
}
