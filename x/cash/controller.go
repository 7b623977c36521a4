package cash

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
	"github.com/iov-one/timelock/x/utils"
)

// Transfer describes a single completed movement of coins.
type Transfer struct {
	Source      timelock.Address
	Destination timelock.Address
	// Sent is the amount taken from the source.
	Sent coin.Coin
	// Received is the amount credited to the destination.
	Received coin.Coin
	// Fee is the amount credited to the fee collector.
	Fee coin.Coin
}

// TransferHook is called after balances of a transfer were updated. Hooks
// are registered per asset. Returning an error fails the transfer.
type TransferHook func(ctx timelock.Context, db timelock.KVStore, t Transfer) error

// Controller is the functionality needed by extensions that move coins.
type Controller interface {
	// Balance returns the amount of given asset owned by the address.
	// An unknown address owns nothing.
	Balance(db timelock.ReadOnlyKVStore, addr timelock.Address, ticker string) (coin.Coin, error)
	// MoveCoins moves the given amount from src to dest. It fails
	// without changing any balance if src does not have sufficient
	// funds.
	MoveCoins(ctx timelock.Context, db timelock.KVStore, src, dest timelock.Address, amount coin.Coin) error
	// IssueCoins creates new coins and adds them to the destination.
	IssueCoins(db timelock.KVStore, dest timelock.Address, amount coin.Coin) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	balances orm.ModelBucket
	assets   orm.ModelBucket
	hooks    map[string][]TransferHook
}

var _ Controller = (*BaseController)(nil)

// NewController returns a controller with no hooks registered.
func NewController() *BaseController {
	return &BaseController{
		balances: NewBalanceBucket(),
		assets:   NewAssetBucket(),
		hooks:    make(map[string][]TransferHook),
	}
}

// RegisterHook attaches a hook to every transfer of given asset. Hooks
// must be registered during the application setup.
func (c *BaseController) RegisterHook(ticker string, hook TransferHook) {
	c.hooks[ticker] = append(c.hooks[ticker], hook)
}

func (c *BaseController) Balance(db timelock.ReadOnlyKVStore, addr timelock.Address, ticker string) (coin.Coin, error) {
	var b Balance
	switch err := c.balances.One(db, BalanceKey(addr, ticker), &b); {
	case err == nil:
		return b.Coin(), nil
	case errors.ErrNotFound.Is(err):
		return coin.NewCoin(0, ticker), nil
	default:
		return coin.Coin{}, errors.Wrap(err, "load balance")
	}
}

func (c *BaseController) MoveCoins(ctx timelock.Context, db timelock.KVStore, src, dest timelock.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive transfer: %s", amount)
	}
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}

	return utils.Atomic(db, func(db timelock.KVStore) error {
		fee, err := c.TransferFee(db, amount)
		if err != nil {
			return err
		}
		received, err := amount.Subtract(fee)
		if err != nil {
			return errors.Wrap(err, "fee")
		}

		if err := c.subtract(db, src, amount); err != nil {
			return err
		}
		if err := c.add(db, dest, received); err != nil {
			return err
		}
		if !fee.IsZero() {
			conf, err := loadConf(db)
			if err != nil {
				return errors.Wrap(err, "fee collector")
			}
			if err := c.add(db, conf.CollectorAddress, fee); err != nil {
				return err
			}
		}

		t := Transfer{
			Source:      src,
			Destination: dest,
			Sent:        amount,
			Received:    received,
			Fee:         fee,
		}
		for _, hook := range c.hooks[amount.Ticker] {
			if err := hook(ctx, db, t); err != nil {
				return errors.Wrap(err, "transfer hook")
			}
		}
		return nil
	})
}

// TransferFee returns the fee taken when transferring given amount. Assets
// without a definition are transferred for free.
func (c *BaseController) TransferFee(db timelock.ReadOnlyKVStore, amount coin.Coin) (coin.Coin, error) {
	var info AssetInfo
	switch err := c.assets.One(db, []byte(amount.Ticker), &info); {
	case err == nil:
		fee, err := amount.MulFraction(info.TransferFee())
		return fee, errors.Wrap(err, "transfer fee")
	case errors.ErrNotFound.Is(err):
		return coin.NewCoin(0, amount.Ticker), nil
	default:
		return coin.Coin{}, errors.Wrap(err, "load asset")
	}
}

func (c *BaseController) IssueCoins(db timelock.KVStore, dest timelock.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	return c.add(db, dest, amount)
}

func (c *BaseController) add(db timelock.KVStore, addr timelock.Address, amount coin.Coin) error {
	if amount.IsZero() {
		return nil
	}
	current, err := c.Balance(db, addr, amount.Ticker)
	if err != nil {
		return err
	}
	total, err := current.Add(amount)
	if err != nil {
		return errors.Wrapf(err, "balance of %s", addr)
	}
	return c.save(db, addr, total)
}

func (c *BaseController) subtract(db timelock.KVStore, addr timelock.Address, amount coin.Coin) error {
	current, err := c.Balance(db, addr, amount.Ticker)
	if err != nil {
		return err
	}
	if !current.IsGTE(amount) {
		return errors.Wrapf(errors.ErrAmount, "insufficient funds: %s has %s, needs %s", addr, current, amount)
	}
	rest, err := current.Subtract(amount)
	if err != nil {
		return err
	}
	return c.save(db, addr, rest)
}

func (c *BaseController) save(db timelock.KVStore, addr timelock.Address, value coin.Coin) error {
	key := BalanceKey(addr, value.Ticker)
	if value.IsZero() {
		if err := c.balances.Delete(db, key); err != nil && !errors.ErrNotFound.Is(err) {
			return errors.Wrap(err, "delete balance")
		}
		return nil
	}
	b := Balance{Address: addr, Ticker: value.Ticker, Amount: value.Amount}
	if _, err := c.balances.Put(db, key, &b); err != nil {
		return errors.Wrap(err, "save balance")
	}
	return nil
}
