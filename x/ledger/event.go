package ledger

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// EventKind tells what happened to a deposit.
type EventKind int32

const (
	EventDeposited EventKind = 1
	EventWithdrawn EventKind = 2
)

func (k EventKind) String() string {
	switch k {
	case EventDeposited:
		return "deposited"
	case EventWithdrawn:
		return "withdrawn"
	default:
		return "unknown"
	}
}

// Event is the notification of a successful deposit or withdrawal. Events
// are stored and can be searched by owner and by asset.
type Event struct {
	Kind   EventKind        `protobuf:"varint,1,opt,name=kind,proto3" json:"kind"`
	Owner  timelock.Address `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner"`
	Asset  string           `protobuf:"bytes,3,opt,name=asset,proto3" json:"asset"`
	Amount uint64           `protobuf:"varint,4,opt,name=amount,proto3" json:"amount"`
	// ReleaseTime is set only for deposited events.
	ReleaseTime timelock.UnixTime `protobuf:"varint,5,opt,name=release_time,json=releaseTime,proto3,casttype=github.com/iov-one/timelock.UnixTime" json:"release_time,omitempty"`
}

var _ orm.Model = (*Event)(nil)

func (e *Event) Validate() error {
	var errs error
	switch e.Kind {
	case EventDeposited:
		if e.ReleaseTime.IsZero() {
			errs = errors.AppendField(errs, "ReleaseTime", errors.ErrEmpty)
		}
	case EventWithdrawn:
		if !e.ReleaseTime.IsZero() {
			errs = errors.AppendField(errs, "ReleaseTime", errors.ErrState)
		}
	default:
		errs = errors.AppendField(errs, "Kind", errors.Wrapf(errors.ErrInput, "kind %d", e.Kind))
	}
	errs = errors.AppendField(errs, "Owner", e.Owner.Validate())
	if !coin.IsCC(e.Asset) {
		errs = errors.AppendField(errs, "Asset", errors.ErrCurrency)
	}
	if e.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	return errs
}

// Listener is notified about every event after the operation that emitted
// it succeeded.
type Listener func(ctx timelock.Context, e Event)

var eventSeq = orm.NewSequence("event", "id")

// NewEventBucket returns a bucket of events, keyed by a sequence. Events
// are indexed by owner and asset.
func NewEventBucket() orm.ModelBucket {
	return orm.NewModelBucket("event", &Event{},
		orm.WithIDSequence(eventSeq),
		orm.WithIndex("owner", ownerIndex, false),
		orm.WithIndex("asset", assetIndex, false),
	)
}

func ownerIndex(m orm.Model) ([]byte, error) {
	e, ok := m.(*Event)
	if !ok {
		return nil, errors.WithType(errors.ErrType, m)
	}
	return e.Owner, nil
}

func assetIndex(m orm.Model) ([]byte, error) {
	e, ok := m.(*Event)
	if !ok {
		return nil, errors.WithType(errors.ErrType, m)
	}
	return []byte(e.Asset), nil
}
