package app

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp runs transactions on top of the state kept by StoreApp. Every
// transaction is decoded, bound to the context of the current block and
// passed to the handler chain.
type BaseApp struct {
	*StoreApp
	decoder timelock.TxDecoder
	handler timelock.Handler
	// debug adds the stack trace to the log of failed responses.
	debug bool
}

var _ abci.Application = BaseApp{}

func NewBaseApp(store *StoreApp, decoder timelock.TxDecoder, handler timelock.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx executes the transaction on the state of the current block.
//
// The deliver store is passed to the handler as is. A handler that fails
// after writing keeps its writes: a withdrawal that cannot pay out stays
// withdrawn. Anything that must be all or nothing is wrapped by the handler
// itself.
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	ctx, tx, err := b.prepare("deliver_tx", txBytes)
	if err != nil {
		return timelock.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return timelock.DeliverOrError(res, err, b.debug)
}

// CheckTx validates the transaction against the mempool state. Changes are
// dropped on the next commit.
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	ctx, tx, err := b.prepare("check_tx", txBytes)
	if err != nil {
		return timelock.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return timelock.CheckOrError(res, err, b.debug)
}

func (b BaseApp) prepare(call string, txBytes []byte) (timelock.Context, timelock.Tx, error) {
	tx, err := b.decode(txBytes)
	if err != nil {
		return nil, nil, errors.Wrap(err, "decode")
	}
	ctx := timelock.WithLogInfo(b.BlockContext(), "call", call, "path", timelock.GetPath(tx))
	return ctx, tx, nil
}

// decode turns a panic of the decoder into an error, input bytes are not
// trusted.
func (b BaseApp) decode(txBytes []byte) (tx timelock.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(txBytes)
}
