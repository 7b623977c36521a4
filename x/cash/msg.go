package cash

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
)

const maxMemoSize int = 128

// SendMsg moves coins from the source to the destination address.
type SendMsg struct {
	Source      timelock.Address `protobuf:"bytes,1,opt,name=source,proto3" json:"source"`
	Destination timelock.Address `protobuf:"bytes,2,opt,name=destination,proto3" json:"destination"`
	Ticker      string           `protobuf:"bytes,3,opt,name=ticker,proto3" json:"ticker"`
	Amount      uint64           `protobuf:"varint,4,opt,name=amount,proto3" json:"amount"`
	Memo        string           `protobuf:"bytes,5,opt,name=memo,proto3" json:"memo,omitempty"`
}

// Ensure we implement the Msg interface
var _ timelock.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Coin returns the transferred value.
func (m *SendMsg) Coin() coin.Coin {
	return coin.NewCoin(m.Amount, m.Ticker)
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var errs error
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	errs = errors.AppendField(errs, "Ticker", m.Coin().Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if len(m.Memo) > maxMemoSize {
		errs = errors.AppendField(errs, "Memo", errors.Wrap(errors.ErrState, "memo too long"))
	}
	return errs
}

// UpdateConfigurationMsg patches the cash configuration. Zero value fields
// of the patch are ignored.
type UpdateConfigurationMsg struct {
	Patch *Configuration `json:"patch"`
}

var _ timelock.Msg = (*UpdateConfigurationMsg)(nil)

// Validate will skip any zero fields and validate the set ones
func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	var errs error
	if len(m.Patch.Owner) != 0 {
		errs = errors.AppendField(errs, "Owner", m.Patch.Owner.Validate())
	}
	if len(m.Patch.CollectorAddress) != 0 {
		errs = errors.AppendField(errs, "CollectorAddress", m.Patch.CollectorAddress.Validate())
	}
	return errs
}

func (*UpdateConfigurationMsg) Path() string {
	return "cash/update_configuration"
}
