package app

import (
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x/sigs"
)

// Tx is the transaction envelope of the application. It carries exactly one
// message together with the signatures authorizing it.
type Tx struct {
	Signatures []*sigs.StdSignature
	Msg        timelock.Msg

	// path and raw are set by Unmarshal. The message is only available
	// after being resolved by a Decoder.
	path string
	raw  []byte
}

var _ timelock.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx returns an unsigned transaction carrying given message.
func NewTx(msg timelock.Msg) *Tx {
	return &Tx{Msg: msg}
}

// GetMsg returns the carried message.
func (tx *Tx) GetMsg() (timelock.Msg, error) {
	if tx.Msg == nil {
		if tx.path != "" {
			return nil, errors.Wrapf(errors.ErrMsg, "message %q not decoded", tx.path)
		}
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	return tx.Msg, nil
}

// GetSignatures returns all signatures attached to this transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the serialized transaction without signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	w, err := tx.wire(false)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(w)
}

// Sign appends a signature of given key for given chain and sequence.
func (tx *Tx) Sign(signer crypto.Signer, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	w, err := tx.wire(true)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(w)
}

// Unmarshal loads signatures and the serialized message. Use a Decoder to
// get a transaction with the message resolved.
func (tx *Tx) Unmarshal(raw []byte) error {
	var w txCodec
	if err := proto.Unmarshal(raw, &w); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*tx = Tx{path: w.MsgPath, raw: w.Msg}
	for i, bz := range w.Signatures {
		var sig sigs.StdSignature
		if err := sig.Unmarshal(bz); err != nil {
			return errors.Wrapf(errors.ErrInput, "signature %d: %s", i, err)
		}
		tx.Signatures = append(tx.Signatures, &sig)
	}
	return nil
}

func (tx *Tx) wire(withSignatures bool) (*txCodec, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	w := txCodec{MsgPath: msg.Path()}
	if w.Msg, err = msg.Marshal(); err != nil {
		return nil, errors.Wrap(err, "message")
	}
	if !withSignatures {
		return &w, nil
	}
	for i, sig := range tx.Signatures {
		bz, err := sig.Marshal()
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		w.Signatures = append(w.Signatures, bz)
	}
	return &w, nil
}

var isMsgPath = regexp.MustCompile(`^[a-zA-Z0-9_\-/]+$`).MatchString

// Decoder builds transactions from their binary form. Each message path must
// be registered with a constructor of an empty message.
type Decoder struct {
	msgs map[string]func() timelock.Msg
}

// NewDecoder returns a decoder with no messages registered.
func NewDecoder() *Decoder {
	return &Decoder{msgs: make(map[string]func() timelock.Msg)}
}

// Register adds a message constructor under given path. It panics if the
// path is invalid or already registered.
func (d *Decoder) Register(path string, fn func() timelock.Msg) *Decoder {
	if !isMsgPath(path) {
		panic("invalid message path: " + path)
	}
	if _, ok := d.msgs[path]; ok {
		panic("re-registering message path: " + path)
	}
	d.msgs[path] = fn
	return d
}

// Decode implements timelock.TxDecoder.
func (d *Decoder) Decode(raw []byte) (timelock.Tx, error) {
	var tx Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, err
	}
	fn, ok := d.msgs[tx.path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "unknown message path %q", tx.path)
	}
	msg := fn()
	if err := msg.Unmarshal(tx.raw); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "message %q: %s", tx.path, err)
	}
	if msg.Path() != tx.path {
		return nil, errors.Wrapf(errors.ErrType, "message registered under %q reports path %q", tx.path, msg.Path())
	}
	tx.Msg = msg
	return &tx, nil
}
