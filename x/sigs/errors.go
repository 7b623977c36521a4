package sigs

import (
	"github.com/iov-one/timelock/errors"
)

// x/sigs reserves 120~129 error codes

// ErrInvalidSequence is returned when a signature nonce does not match
// the current sequence of the signer.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
