package coin

import (
	"encoding/json"
	"math/bits"
	"regexp"
	"strconv"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// IsCC returns true for a valid ticker: three or four upper case letters.
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

// Coin is an amount of a single fungible asset. The amount is expressed in
// the smallest indivisible units of the asset.
type Coin struct {
	Ticker string `json:"ticker"`
	Amount uint64 `json:"amount"`
}

func NewCoin(amount uint64, ticker string) Coin {
	return Coin{Ticker: ticker, Amount: amount}
}

// Add returns the sum of both coins. It fails on a currency mismatch and on
// an overflow.
func (c Coin) Add(o Coin) (Coin, error) {
	// A coin without a ticker that carries no value has no influence on
	// the result.
	if c.Ticker == "" && c.IsZero() {
		return o, nil
	}
	if o.Ticker == "" && o.IsZero() {
		return c, nil
	}
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", o.Ticker, c.Ticker)
	}
	sum, carry := bits.Add64(c.Amount, o.Amount, 0)
	if carry != 0 {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "%d + %d", c.Amount, o.Amount)
	}
	c.Amount = sum
	return c, nil
}

// Subtract given amount. Subtracting more than the coin holds is an error,
// the result is never negative.
func (c Coin) Subtract(o Coin) (Coin, error) {
	if o.IsZero() {
		return c, nil
	}
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "subtracting %s from %s", o.Ticker, c.Ticker)
	}
	diff, borrow := bits.Sub64(c.Amount, o.Amount, 0)
	if borrow != 0 {
		return Coin{}, errors.Wrapf(errors.ErrAmount, "cannot subtract %d from %d", o.Amount, c.Amount)
	}
	c.Amount = diff
	return c, nil
}

// MulFraction returns the coin value multiplied by given fraction. The
// result is rounded down.
func (c Coin) MulFraction(f timelock.Fraction) (Coin, error) {
	if err := f.Validate(); err != nil {
		return Coin{}, errors.Wrap(err, "fraction")
	}
	if f.IsZero() {
		return Coin{Ticker: c.Ticker}, nil
	}
	hi, lo := bits.Mul64(c.Amount, uint64(f.Numerator))
	if hi >= uint64(f.Denominator) {
		return Coin{}, errors.Wrap(errors.ErrOverflow, "fraction of the amount")
	}
	quo, _ := bits.Div64(hi, lo, uint64(f.Denominator))
	return Coin{Ticker: c.Ticker, Amount: quo}, nil
}

// Equals returns true if all fields are identical
func (c Coin) Equals(o Coin) bool {
	return c.Ticker == o.Ticker && c.Amount == o.Amount
}

// IsZero returns true amounts are 0
func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// IsPositive returns true if the value is greater than 0
func (c Coin) IsPositive() bool {
	return c.Amount > 0
}

// IsGTE returns true if c is of the same currency and at least as large as
// o.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Amount >= o.Amount
}

// SameType returns true if they have the same currency
func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Validate ensures that the coin has a valid currency code. A zero amount
// is valid, use IsPositive in the business logic that requires a value.
func (c Coin) Validate() error {
	if !IsCC(c.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid currency: %s", c.Ticker)
	}
	return nil
}

// UnmarshalJSON accepts both the "<amount> <ticker>" string and the
// object form.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		parsed, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	type plain Coin
	var p plain
	if err := json.Unmarshal(raw, &p); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*c = Coin(p)
	return nil
}

// String provides a human readable representation of the coin. For a valid
// coin the result can be parsed back using ParseHumanFormat.
func (c Coin) String() string {
	s := strconv.FormatUint(c.Amount, 10)
	if c.Ticker != "" {
		s += " " + c.Ticker
	}
	return s
}

var humanCoinFormatRx = regexp.MustCompile(`^\s*(\d+)\s*([A-Z]{3,4})\s*$`)

// ParseHumanFormat parse a human readable coin representation. Accepted format
// is a string:
//   "<amount> <ticker>"
func ParseHumanFormat(h string) (Coin, error) {
	m := humanCoinFormatRx.FindStringSubmatch(h)
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid coin format %q", h)
	}
	amount, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "amount %q", m[1])
	}
	return Coin{Ticker: m[2], Amount: amount}, nil
}

// Set updates this coin value to what is provided. This method implements
// flag.Value interface.
func (c *Coin) Set(raw string) error {
	val, err := ParseHumanFormat(raw)
	if err != nil {
		return err
	}
	*c = val
	return nil
}

// Coins is a list of coins, as used by genesis wallets.
type Coins []*Coin

// Validate returns an error if any coin is invalid or a currency is listed
// more than once.
func (cs Coins) Validate() error {
	seen := make(map[string]struct{}, len(cs))
	for i, c := range cs {
		if c == nil {
			return errors.Wrapf(errors.ErrEmpty, "coin %d", i)
		}
		if err := c.Validate(); err != nil {
			return errors.Wrapf(err, "coin %d", i)
		}
		if _, ok := seen[c.Ticker]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "currency %s", c.Ticker)
		}
		seen[c.Ticker] = struct{}{}
	}
	return nil
}
