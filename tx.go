package timelock

import (
	"reflect"

	"github.com/iov-one/timelock/errors"
)

// Msg is a request to change the state, for example to deposit funds. It
// carries no authentication, the signatures are part of the Tx that wraps
// it.
type Msg interface {
	Persistent

	// Path routes the message to its handler. It must match
	// [0-9A-Za-z_\-/]+, for example "ledger/deposit".
	Path() string

	// Validate checks the message alone, without access to the state.
	Validate() error
}

// Marshaller is anything that can be represented in binary.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent is a Marshaller that can also be loaded back. Unmarshal
// usually requires a pointer receiver.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx is what a client submits: a message together with everything needed to
// authenticate it.
type Tx interface {
	Persistent
	GetMsg() (Msg, error)
}

// GetPath returns the path of the transaction message, or "(missing)".
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// TxDecoder reads a transaction from its binary form.
type TxDecoder func(txBytes []byte) (Tx, error)

// LoadMsg extracts the message represented by given transaction into given
// destination. The destination must be a pointer to a message of the same
// type as the transaction message. Before returning, the message is
// validated.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrMsg, "transaction without a message")
	}

	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr || dest.IsNil() {
		return errors.Wrap(errors.ErrType, "destination must be a non nil pointer")
	}
	src := reflect.ValueOf(msg)
	if src.Type() != dest.Type() {
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", destination, msg)
	}
	dest.Elem().Set(src.Elem())

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}
