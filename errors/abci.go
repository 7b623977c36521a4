package errors

import (
	"errors"
)

const (
	// SuccessABCICode is the code of a successful response.
	SuccessABCICode = 0

	// Errors that do not wrap a registered error are internal. They all
	// share one code and, outside of debug mode, one generic message.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and the log of the response for err. The
// message of an internal error is exposed only in debug mode.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	if code == internalABCICode && !debug {
		return internalABCICode, internalABCILog
	}
	return code, err.Error()
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the first error in the chain that declares
// one, or the internal code.
func abciCode(err error) uint32 {
	if isNilErr(err) {
		return SuccessABCICode
	}
	code := internalABCICode
	walk(err, func(cur error) bool {
		c, ok := cur.(coder)
		if ok {
			code = c.ABCICode()
		}
		return ok
	})
	return code
}

// Redact replaces internal errors and recovered panics with a generic
// error, so that no implementation details leak to the client. In debug mode
// err is returned unchanged.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}
