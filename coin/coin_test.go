package coin

import (
	"encoding/json"
	"flag"
	"math"
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/timelocktest/assert"
)

func TestCoinAdd(t *testing.T) {
	cases := map[string]struct {
		a       Coin
		b       Coin
		want    Coin
		wantErr *errors.Error
	}{
		"same currency": {
			a:    NewCoin(5, "TKN"),
			b:    NewCoin(7, "TKN"),
			want: NewCoin(12, "TKN"),
		},
		"zero value without ticker": {
			a:    Coin{},
			b:    NewCoin(7, "TKN"),
			want: NewCoin(7, "TKN"),
		},
		"currency mismatch": {
			a:       NewCoin(5, "TKN"),
			b:       NewCoin(7, "ETH"),
			wantErr: errors.ErrCurrency,
		},
		"overflow": {
			a:       NewCoin(math.MaxUint64, "TKN"),
			b:       NewCoin(1, "TKN"),
			wantErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.a.Add(tc.b)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestCoinSubtract(t *testing.T) {
	cases := map[string]struct {
		a       Coin
		b       Coin
		want    Coin
		wantErr *errors.Error
	}{
		"enough funds": {
			a:    NewCoin(10, "TKN"),
			b:    NewCoin(4, "TKN"),
			want: NewCoin(6, "TKN"),
		},
		"everything": {
			a:    NewCoin(10, "TKN"),
			b:    NewCoin(10, "TKN"),
			want: NewCoin(0, "TKN"),
		},
		"nothing": {
			a:    NewCoin(10, "TKN"),
			b:    Coin{},
			want: NewCoin(10, "TKN"),
		},
		"underflow": {
			a:       NewCoin(3, "TKN"),
			b:       NewCoin(4, "TKN"),
			wantErr: errors.ErrAmount,
		},
		"currency mismatch": {
			a:       NewCoin(10, "TKN"),
			b:       NewCoin(4, "ETH"),
			wantErr: errors.ErrCurrency,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.a.Subtract(tc.b)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestCoinMulFraction(t *testing.T) {
	cases := map[string]struct {
		c       Coin
		f       timelock.Fraction
		want    uint64
		wantErr *errors.Error
	}{
		"two percent": {
			c:    NewCoin(500, "TKN"),
			f:    timelock.Fraction{Numerator: 2, Denominator: 100},
			want: 10,
		},
		"rounded down": {
			c:    NewCoin(99, "TKN"),
			f:    timelock.Fraction{Numerator: 1, Denominator: 10},
			want: 9,
		},
		"zero fraction": {
			c:    NewCoin(99, "TKN"),
			f:    timelock.Fraction{},
			want: 0,
		},
		"large amount does not overflow the intermediate value": {
			c:    NewCoin(math.MaxUint64, "TKN"),
			f:    timelock.Fraction{Numerator: 1, Denominator: 2},
			want: math.MaxUint64 / 2,
		},
		"result overflow": {
			c:       NewCoin(math.MaxUint64, "TKN"),
			f:       timelock.Fraction{Numerator: 3, Denominator: 2},
			wantErr: errors.ErrOverflow,
		},
		"invalid fraction": {
			c:       NewCoin(1, "TKN"),
			f:       timelock.Fraction{Numerator: 3},
			wantErr: errors.ErrState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.c.MulFraction(tc.f)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, NewCoin(tc.want, tc.c.Ticker), got)
			}
		})
	}
}

func TestCoinPredicates(t *testing.T) {
	a := NewCoin(10, "TKN")
	b := NewCoin(10, "ETH")

	assert.Equal(t, true, a.IsGTE(NewCoin(10, "TKN")))
	assert.Equal(t, false, a.IsGTE(NewCoin(11, "TKN")))
	assert.Equal(t, false, a.IsGTE(b))
	assert.Equal(t, true, a.IsPositive())
	assert.Equal(t, false, NewCoin(0, "TKN").IsPositive())
	assert.Equal(t, true, NewCoin(0, "TKN").IsZero())
	assert.Equal(t, false, a.Equals(b))
}

func TestCoinValidate(t *testing.T) {
	assert.Nil(t, NewCoin(0, "TKN").Validate())
	assert.Nil(t, NewCoin(1, "ABCD").Validate())
	assert.IsErr(t, errors.ErrCurrency, NewCoin(1, "tkn").Validate())
	assert.IsErr(t, errors.ErrCurrency, NewCoin(1, "").Validate())
	assert.IsErr(t, errors.ErrCurrency, NewCoin(1, "ABCDE").Validate())
}

func TestParseHumanFormat(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    Coin
		wantErr *errors.Error
	}{
		"simple":            {raw: "1000 TKN", want: NewCoin(1000, "TKN")},
		"no space":          {raw: "7ETH", want: NewCoin(7, "ETH")},
		"surrounding space": {raw: "  7 ETH ", want: NewCoin(7, "ETH")},
		"zero":              {raw: "0 ETH", want: NewCoin(0, "ETH")},
		"negative":          {raw: "-1 ETH", wantErr: errors.ErrInput},
		"fractional":        {raw: "1.5 ETH", wantErr: errors.ErrInput},
		"no ticker":         {raw: "15", wantErr: errors.ErrInput},
		"too big":           {raw: "18446744073709551616 ETH", wantErr: errors.ErrOverflow},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseHumanFormat(tc.raw)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
				// String representation can be parsed back.
				back, err := ParseHumanFormat(got.String())
				assert.Nil(t, err)
				assert.Equal(t, got, back)
			}
		})
	}
}

func TestCoinUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    Coin
		wantErr bool
	}{
		"human format":  {raw: `"12 TKN"`, want: NewCoin(12, "TKN")},
		"object format": {raw: `{"ticker": "TKN", "amount": 12}`, want: NewCoin(12, "TKN")},
		"invalid human": {raw: `"12"`, wantErr: true},
		"invalid json":  {raw: `[1]`, wantErr: true},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var c Coin
			err := json.Unmarshal([]byte(tc.raw), &c)
			if (err != nil) != tc.wantErr {
				t.Fatalf("unexpected error: %+v", err)
			}
			if !tc.wantErr {
				assert.Equal(t, tc.want, c)
			}
		})
	}
}

func TestCoinFlagValue(t *testing.T) {
	var c Coin
	fl := flag.NewFlagSet("test", flag.ContinueOnError)
	fl.Var(&c, "amount", "")
	assert.Nil(t, fl.Parse([]string{"-amount", "33 TKN"}))
	assert.Equal(t, NewCoin(33, "TKN"), c)
}

func TestCoinsValidate(t *testing.T) {
	assert.Nil(t, Coins{{Ticker: "TKN", Amount: 1}, {Ticker: "ETH", Amount: 2}}.Validate())
	assert.IsErr(t, errors.ErrDuplicate, Coins{{Ticker: "TKN", Amount: 1}, {Ticker: "TKN", Amount: 2}}.Validate())
	assert.IsErr(t, errors.ErrCurrency, Coins{{Ticker: "x", Amount: 1}}.Validate())
	assert.IsErr(t, errors.ErrEmpty, Coins{nil}.Validate())
}
