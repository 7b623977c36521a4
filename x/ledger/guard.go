package ledger

import (
	"go.uber.org/atomic"

	"github.com/iov-one/timelock/errors"
)

// Guard rejects an operation started while another one is in progress.
// The zero value is ready to use.
type Guard struct {
	busy atomic.Bool
}

// Acquire marks the guard as taken. The returned function releases it and
// must be called on every exit path.
func (g *Guard) Acquire() (release func(), err error) {
	if !g.busy.CompareAndSwap(false, true) {
		return nil, errors.Wrap(ErrReentrancy, "operation in progress")
	}
	return func() { g.busy.Store(false) }, nil
}

// Busy returns true while the guard is acquired.
func (g *Guard) Busy() bool {
	return g.busy.Load()
}
