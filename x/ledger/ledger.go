package ledger

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
	"github.com/iov-one/timelock/x/cash"
	"github.com/iov-one/timelock/x/utils"
)

// Ledger holds deposits of owners in the custody account. A single
// instance must be used for a store, because the instance guard is what
// rejects reentrant calls.
type Ledger struct {
	bank      cash.Controller
	deposits  orm.ModelBucket
	events    orm.ModelBucket
	guard     Guard
	listeners []Listener
}

// NewLedger returns a ledger moving funds with the given controller.
func NewLedger(bank cash.Controller) *Ledger {
	return &Ledger{
		bank:     bank,
		deposits: NewDepositBucket(),
		events:   NewEventBucket(),
	}
}

// Subscribe registers a listener of all events. Listeners must be
// registered during the application setup.
func (l *Ledger) Subscribe(fn Listener) {
	l.listeners = append(l.listeners, fn)
}

// Deposit moves the amount from the owner into the custody and records the
// amount that the custody received. An owner can hold only one deposit.
func (l *Ledger) Deposit(ctx timelock.Context, db timelock.KVStore, owner timelock.Address, amount coin.Coin) (*Deposit, error) {
	if amount.IsZero() {
		return nil, errors.Wrap(errors.ErrAmount, "deposit must be greater than zero")
	}
	if err := amount.Validate(); err != nil {
		return nil, errors.Wrap(err, "amount")
	}
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}

	release, err := l.guard.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	current, err := l.GetDeposit(db, owner)
	if err != nil {
		return nil, err
	}
	if !current.IsZero() {
		return nil, errors.Wrapf(ErrDepositExists, "owner %s", owner)
	}
	now, err := blockTime(ctx)
	if err != nil {
		return nil, err
	}

	var (
		dep   Deposit
		event Event
	)
	err = utils.Atomic(db, func(db timelock.KVStore) error {
		received, err := l.pull(ctx, db, owner, amount)
		if err != nil {
			return err
		}
		dep = Deposit{
			Asset:       amount.Ticker,
			Amount:      received,
			ReleaseTime: now.Add(LockDuration),
		}
		if _, err := l.deposits.Put(db, owner, &dep); err != nil {
			return errors.Wrap(err, "save deposit")
		}
		event = Event{
			Kind:        EventDeposited,
			Owner:       owner,
			Asset:       dep.Asset,
			Amount:      dep.Amount,
			ReleaseTime: dep.ReleaseTime,
		}
		if _, err := l.events.Put(db, nil, &event); err != nil {
			return errors.Wrap(err, "save event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	timelock.GetLogger(ctx).Info("deposit created",
		"owner", owner,
		"asset", dep.Asset,
		"requested", amount.Amount,
		"received", dep.Amount,
		"release", dep.ReleaseTime)
	l.notify(ctx, event)
	return &dep, nil
}

// pull moves the amount from the owner to the custody and returns how much
// the custody balance grew.
func (l *Ledger) pull(ctx timelock.Context, db timelock.KVStore, owner timelock.Address, amount coin.Coin) (uint64, error) {
	custody := Custody()
	pre, err := l.bank.Balance(db, custody, amount.Ticker)
	if err != nil {
		return 0, errors.Wrap(err, "custody balance")
	}
	if err := l.bank.MoveCoins(ctx, db, owner, custody, amount); err != nil {
		return 0, errors.Wrapf(ErrTransfer, "pull from %s: %s", owner, err)
	}
	post, err := l.bank.Balance(db, custody, amount.Ticker)
	if err != nil {
		return 0, errors.Wrap(err, "custody balance")
	}
	received, err := post.Subtract(pre)
	if err != nil {
		return 0, errors.Wrap(ErrTransfer, "custody balance decreased")
	}
	if received.IsZero() {
		return 0, errors.Wrap(errors.ErrAmount, "nothing received")
	}
	return received.Amount, nil
}

// Withdraw sends the matured deposit back to its owner.
//
// The deposit is marked as withdrawn before the funds are sent. If sending
// fails the deposit stays withdrawn and the funds are forfeited.
func (l *Ledger) Withdraw(ctx timelock.Context, db timelock.KVStore, owner timelock.Address) (*Deposit, error) {
	release, err := l.guard.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	dep, err := l.GetDeposit(db, owner)
	if err != nil {
		return nil, err
	}
	if dep.IsZero() {
		return nil, errors.Wrapf(ErrNoDeposit, "owner %s", owner)
	}
	now, err := blockTime(ctx)
	if err != nil {
		return nil, err
	}
	if now < dep.ReleaseTime {
		return nil, errors.Wrapf(ErrLocked, "until %s", dep.ReleaseTime)
	}
	if dep.Withdrawn {
		return nil, errors.Wrapf(ErrWithdrawn, "owner %s", owner)
	}

	event := Event{
		Kind:   EventWithdrawn,
		Owner:  owner,
		Asset:  dep.Asset,
		Amount: dep.Amount,
	}
	if err := event.Validate(); err != nil {
		return nil, errors.Wrap(err, "withdraw event")
	}

	dep.Withdrawn = true
	if _, err := l.deposits.Put(db, owner, dep); err != nil {
		return nil, errors.Wrap(err, "save deposit")
	}

	if err := l.bank.MoveCoins(ctx, db, Custody(), owner, dep.Coin()); err != nil {
		timelock.GetLogger(ctx).Error("deposit forfeited",
			"owner", owner,
			"asset", dep.Asset,
			"amount", dep.Amount,
			"err", err)
		return nil, errors.Wrapf(ErrTransfer, "push to %s: %s", owner, err)
	}

	// The payout is final. A history entry that cannot be saved is only
	// reported.
	if _, err := l.events.Put(db, nil, &event); err != nil {
		timelock.GetLogger(ctx).Error("withdraw event not saved",
			"owner", owner,
			"err", err)
	}

	timelock.GetLogger(ctx).Info("deposit withdrawn",
		"owner", owner,
		"asset", dep.Asset,
		"amount", dep.Amount)
	l.notify(ctx, event)
	return dep, nil
}

// GetDeposit returns the deposit of the owner. An owner that never
// deposited has a zero deposit.
func (l *Ledger) GetDeposit(db timelock.ReadOnlyKVStore, owner timelock.Address) (*Deposit, error) {
	var dep Deposit
	switch err := l.deposits.One(db, owner, &dep); {
	case err == nil:
		return &dep, nil
	case errors.ErrNotFound.Is(err):
		return &Deposit{}, nil
	default:
		return nil, errors.Wrap(err, "load deposit")
	}
}

// Events returns all events of the owner in the order they were emitted.
func (l *Ledger) Events(db timelock.ReadOnlyKVStore, owner timelock.Address) ([]*Event, error) {
	var events []*Event
	if _, err := l.events.ByIndex(db, "owner", owner, &events); err != nil {
		return nil, errors.Wrap(err, "load events")
	}
	return events, nil
}

func (l *Ledger) notify(ctx timelock.Context, e Event) {
	for _, fn := range l.listeners {
		fn(ctx, e)
	}
}

func blockTime(ctx timelock.Context) (timelock.UnixTime, error) {
	now, err := timelock.BlockTime(ctx)
	if err != nil {
		return 0, errors.Wrap(errors.ErrHuman, err.Error())
	}
	return timelock.AsUnixTime(now), nil
}
