package app

import (
	"reflect"

	"github.com/iov-one/timelock"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler
type Decorators struct {
	chain []timelock.Decorator
}

/*
ChainDecorators takes a chain of decorators,
and upon adding a final Handler (often a Router),
returns a Handler that will execute this whole stack.

  app.ChainDecorators(
    utils.NewRecovery(),
    utils.NewLogging(),
    utils.NewSavepoint().OnCheck(),
    sigs.NewDecorator(),
  ).WithHandler(
    app.NewRouter(),
  )
*/
func ChainDecorators(chain ...timelock.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new chain extended with given decorators. Nil values are
// skipped.
func (d Decorators) Chain(chain ...timelock.Decorator) Decorators {
	next := make([]timelock.Decorator, 0, len(d.chain)+len(chain))
	next = append(next, d.chain...)
	for _, dec := range chain {
		if isNil(dec) {
			continue
		}
		next = append(next, dec)
	}
	return Decorators{chain: next}
}

func isNil(d timelock.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler resolves the stack and returns a concrete Handler
// that will pass through the chain of decorators before calling
// the final Handler.
func (d Decorators) WithHandler(h timelock.Handler) timelock.Handler {
	// the top of the chain is executed first
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one step executing a decorator around a
// specific Handler. Simplified version of a closure.
type step struct {
	d    timelock.Decorator
	next timelock.Handler
}

var _ timelock.Handler = step{}

// Check passes the handler into the decorator, implements Handler
func (s step) Check(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

// Deliver passes the handler into the decorator, implements Handler
func (s step) Deliver(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
