package ledger

import (
	"time"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// LockDuration is the time a deposit cannot be withdrawn for.
const LockDuration = 72 * time.Hour

// Custody returns the address that holds all deposited funds.
func Custody() timelock.Address {
	return timelock.NewCondition("ledger", "custody", nil).Address()
}

// Deposit is the funds held for a single owner.
type Deposit struct {
	Asset       string            `protobuf:"bytes,1,opt,name=asset,proto3" json:"asset"`
	Amount      uint64            `protobuf:"varint,2,opt,name=amount,proto3" json:"amount"`
	ReleaseTime timelock.UnixTime `protobuf:"varint,3,opt,name=release_time,json=releaseTime,proto3,casttype=github.com/iov-one/timelock.UnixTime" json:"release_time"`
	Withdrawn   bool              `protobuf:"varint,4,opt,name=withdrawn,proto3" json:"withdrawn"`
}

var _ orm.Model = (*Deposit)(nil)

// Validate returns an error if a stored deposit is not valid. Only non
// zero deposits are stored.
func (d *Deposit) Validate() error {
	var errs error
	if !coin.IsCC(d.Asset) {
		errs = errors.AppendField(errs, "Asset", errors.ErrCurrency)
	}
	if d.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	if d.ReleaseTime.IsZero() {
		errs = errors.AppendField(errs, "ReleaseTime", errors.ErrEmpty)
	} else {
		errs = errors.AppendField(errs, "ReleaseTime", d.ReleaseTime.Validate())
	}
	return errs
}

// Coin returns the deposited value.
func (d *Deposit) Coin() coin.Coin {
	return coin.NewCoin(d.Amount, d.Asset)
}

// IsZero returns true if this is the record of an owner that never
// deposited.
func (d *Deposit) IsZero() bool {
	return d.Amount == 0
}

// NewDepositBucket returns a bucket for deposits, keyed by the owner
// address.
func NewDepositBucket() orm.ModelBucket {
	return orm.NewModelBucket("deposit", &Deposit{})
}
