package assert

import (
	"fmt"
	"testing"

	"github.com/iov-one/timelock/errors"
)

type recorder struct {
	failed bool
}

func (r *recorder) Helper()                      {}
func (r *recorder) Fatal(...interface{})          { r.failed = true }
func (r *recorder) Fatalf(string, ...interface{}) { r.failed = true }

func TestNil(t *testing.T) {
	var r recorder
	Nil(&r, nil)
	Nil(&r, (*errors.Error)(nil))
	if r.failed {
		t.Fatal("nil values must pass")
	}
	Nil(&r, fmt.Errorf("boom"))
	if !r.failed {
		t.Fatal("non nil value must fail")
	}
}

func TestEqual(t *testing.T) {
	var r recorder
	Equal(&r, []byte("a"), []byte("a"))
	if r.failed {
		t.Fatal("equal values must pass")
	}
	Equal(&r, 1, int64(1))
	if !r.failed {
		t.Fatal("values of a different type must fail")
	}
}

func TestPanics(t *testing.T) {
	var r recorder
	Panics(&r, func() { panic("boom") })
	if r.failed {
		t.Fatal("panic must pass")
	}
	Panics(&r, func() {})
	if !r.failed {
		t.Fatal("no panic must fail")
	}
}

func TestIsErr(t *testing.T) {
	IsErr(t, errors.ErrAmount, errors.Wrap(errors.ErrAmount, "zero"))
	IsErr(t, nil, nil)
}

func TestFieldError(t *testing.T) {
	err := errors.Append(
		errors.Field("Amount", errors.ErrAmount, "zero"),
		errors.Field("Asset", errors.ErrCurrency, "empty"),
	)
	FieldError(t, err, "Amount", errors.ErrAmount)
	FieldError(t, err, "Asset", errors.ErrCurrency)
	FieldError(t, err, "Owner", nil)
}
