package cash

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// Balance is the amount of a single asset owned by an address.
type Balance struct {
	Address timelock.Address `protobuf:"bytes,1,opt,name=address,proto3" json:"address"`
	Ticker  string           `protobuf:"bytes,2,opt,name=ticker,proto3" json:"ticker"`
	Amount  uint64           `protobuf:"varint,3,opt,name=amount,proto3" json:"amount"`
}

var _ orm.Model = (*Balance)(nil)

// Validate returns an error if the balance is not in a valid state.
func (b *Balance) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Address", b.Address.Validate())
	if !coin.IsCC(b.Ticker) {
		errs = errors.AppendField(errs, "Ticker", errors.ErrCurrency)
	}
	return errs
}

// Coin returns the balance as a coin value.
func (b *Balance) Coin() coin.Coin {
	return coin.NewCoin(b.Amount, b.Ticker)
}

// BalanceKey returns the key a balance of given address and asset is stored
// under. All balances of an address share the address prefix.
func BalanceKey(addr timelock.Address, ticker string) []byte {
	key := make([]byte, 0, len(addr)+len(ticker))
	key = append(key, addr...)
	return append(key, ticker...)
}

// NewBalanceBucket returns a bucket for storing balances.
func NewBalanceBucket() orm.ModelBucket {
	return orm.NewModelBucket("cash", &Balance{})
}

// AssetInfo declares the properties of an asset.
type AssetInfo struct {
	Ticker string `protobuf:"bytes,1,opt,name=ticker,proto3" json:"ticker"`
	// TransferFee is the share of each transferred amount that is taken
	// as a fee and sent to the collector.
	FeeNumerator   uint32 `protobuf:"varint,2,opt,name=fee_numerator,json=feeNumerator,proto3" json:"fee_numerator"`
	FeeDenominator uint32 `protobuf:"varint,3,opt,name=fee_denominator,json=feeDenominator,proto3" json:"fee_denominator"`
}

var _ orm.Model = (*AssetInfo)(nil)

// TransferFee returns the fee fraction of this asset.
func (a *AssetInfo) TransferFee() timelock.Fraction {
	return timelock.Fraction{Numerator: a.FeeNumerator, Denominator: a.FeeDenominator}
}

// Validate returns an error if the asset definition is not valid.
func (a *AssetInfo) Validate() error {
	var errs error
	if !coin.IsCC(a.Ticker) {
		errs = errors.AppendField(errs, "Ticker", errors.ErrCurrency)
	}
	fee := a.TransferFee()
	if err := fee.Validate(); err != nil {
		errs = errors.AppendField(errs, "TransferFee", err)
	} else if fee.Numerator > fee.Denominator {
		errs = errors.AppendField(errs, "TransferFee", errors.Wrap(errors.ErrInput, "fee cannot exceed the transfer"))
	}
	return errs
}

// NewAssetBucket returns a bucket for storing asset definitions, keyed by
// the ticker.
func NewAssetBucket() orm.ModelBucket {
	return orm.NewModelBucket("asset", &AssetInfo{})
}
