package ledger

import (
	"testing"

	"github.com/iov-one/timelock/timelocktest/assert"
)

func TestGuard(t *testing.T) {
	var g Guard
	assert.Equal(t, false, g.Busy())

	release, err := g.Acquire()
	assert.Nil(t, err)
	assert.Equal(t, true, g.Busy())

	_, err = g.Acquire()
	assert.IsErr(t, ErrReentrancy, err)

	release()
	assert.Equal(t, false, g.Busy())

	release, err = g.Acquire()
	assert.Nil(t, err)
	release()
}
