package timelock

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/iov-one/timelock/errors"
)

// Fraction is a non negative rational number. Assets use it to declare the
// share of every transfer that is taken as a fee.
//
// In JSON it is either an object with numerator and denominator fields or a
// string such as "2/100" or "3".
type Fraction struct {
	Numerator   uint32 `json:"numerator"`
	Denominator uint32 `json:"denominator"`
}

func (f *Fraction) String() string {
	switch {
	case f == nil:
		return "nil"
	case f.Numerator == 0:
		return "0"
	case f.Denominator == 1:
		return strconv.FormatUint(uint64(f.Numerator), 10)
	default:
		return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
	}
}

func (f *Fraction) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		frac, err := ParseFractionString(human)
		if err != nil {
			return errors.Wrap(err, "fraction string")
		}
		*f = *frac
		return nil
	}

	// Alias drops the methods so that decoding does not recurse.
	type plain Fraction
	var p plain
	if err := json.Unmarshal(raw, &p); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*f = Fraction(p)
	return nil
}

func (f Fraction) Validate() error {
	if f.Denominator == 0 && f.Numerator != 0 {
		return errors.Wrap(errors.ErrState, "zero division")
	}
	return nil
}

func (f Fraction) IsZero() bool {
	return f.Numerator == 0
}

// Normalize reduces the fraction to its lowest terms. Any zero fee becomes
// 0/1. An invalid fraction with a zero denominator is returned unchanged.
func (f Fraction) Normalize() Fraction {
	switch {
	case f.Numerator == 0:
		return Fraction{Denominator: 1}
	case f.Denominator == 0:
		return f
	}
	a, b := f.Numerator, f.Denominator
	for b != 0 {
		a, b = b, a%b
	}
	return Fraction{Numerator: f.Numerator / a, Denominator: f.Denominator / a}
}

// ParseFractionString reads "<numerator>/<denominator>" or a lone
// numerator, which implies a denominator of one. The format is checked, the
// value is not: "2/0" parses and fails only on Validate.
func ParseFractionString(raw string) (*Fraction, error) {
	num, den := raw, "1"
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		num, den = raw[:i], raw[i+1:]
	}
	n, err := strconv.ParseUint(num, 10, 32)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "numerator")
	}
	d, err := strconv.ParseUint(den, 10, 32)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "denominator")
	}
	return &Fraction{Numerator: uint32(n), Denominator: uint32(d)}, nil
}
