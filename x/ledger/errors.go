package ledger

import (
	"github.com/iov-one/timelock/errors"
)

// x/ledger reserves 100~109 error codes

var (
	// ErrDepositExists is returned when the owner already holds a deposit.
	ErrDepositExists = errors.Register(100, "deposit exists")

	// ErrNoDeposit is returned when the owner holds no deposit.
	ErrNoDeposit = errors.Register(101, "no deposit")

	// ErrLocked is returned when the deposit release time is not reached.
	ErrLocked = errors.Register(102, "deposit locked")

	// ErrWithdrawn is returned when the deposit was already withdrawn.
	ErrWithdrawn = errors.Register(103, "deposit withdrawn")

	// ErrTransfer is returned when the funds could not be moved.
	ErrTransfer = errors.Register(104, "transfer failed")

	// ErrReentrancy is returned when a state changing operation is called
	// while another one is in progress.
	ErrReentrancy = errors.Register(105, "reentrant call")
)
