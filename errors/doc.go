/*
Package errors implements the error values used across the ledger and its
extensions.

Every error returned to a client should wrap one of the root errors declared
with Register. A root error carries a numeric code that is stable and can be
used by clients to distinguish failures without parsing messages.

Extensions that need a more specific failure register their own codes in
their errors.go file, for example x/ledger declares ErrLocked and
ErrWithdrawn.

Create errors using ErrXyz.New("...") or errors.Wrap(err, "...") at the point
of failure so that a stack trace is attached. Only the innermost wrap records
the stack trace. Do not declare wrapped errors as package variables, their
stack trace would point to the package initialization.

Formatting an error:
	%s is just the error message
	%v appends a compressed [filename:line] where the error was created
	%+v is the full stack trace
*/
package errors
