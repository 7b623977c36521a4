/*
Package app contains the abci glue of the timelock ledger: the transaction
envelope and its decoder, the message router, the decorator chain and the
storage backed application that links all extensions together.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store/iavl"
	"github.com/iov-one/timelock/x"
	"github.com/iov-one/timelock/x/cash"
	"github.com/iov-one/timelock/x/ledger"
	"github.com/iov-one/timelock/x/sigs"
	"github.com/iov-one/timelock/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is returned by the abci Info call.
const Name = "timelock"

// Authenticator returns the authentication used by all handlers, public key
// signatures only.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication, logging,
// and recovery.
//
// There is no savepoint on DeliverTx. A failed transaction keeps the
// incremented signer sequence, and a withdrawal that fails to pay out keeps
// the deposit marked as withdrawn.
func Chain() Decorators {
	return ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
	)
}

// Routes returns a router dispatching to all messages of the application.
func Routes(authFn x.Authenticator, bank cash.Controller, l *ledger.Ledger) *Router {
	r := NewRouter()
	cash.RegisterRoutes(r, authFn, bank)
	sigs.RegisterRoutes(r, authFn)
	ledger.RegisterRoutes(r, authFn, l)
	return r
}

// QueryRouter returns a query router, allowing access to "/wallets",
// "/assets", "/auth", "/deposits" and "/events".
func QueryRouter() timelock.QueryRouter {
	r := timelock.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		ledger.RegisterQuery,
	)
	return r
}

// TxDecoder returns a decoder that knows all messages of the application.
func TxDecoder() *Decoder {
	return NewDecoder().
		Register((&cash.SendMsg{}).Path(), func() timelock.Msg { return &cash.SendMsg{} }).
		Register((&cash.UpdateConfigurationMsg{}).Path(), func() timelock.Msg { return &cash.UpdateConfigurationMsg{} }).
		Register((&sigs.BumpSequenceMsg{}).Path(), func() timelock.Msg { return &sigs.BumpSequenceMsg{} }).
		Register((&ledger.DepositMsg{}).Path(), func() timelock.Msg { return &ledger.DepositMsg{} }).
		Register((&ledger.WithdrawMsg{}).Path(), func() timelock.Msg { return &ledger.WithdrawMsg{} })
}

// Initializers returns the genesis loaders of all extensions.
func Initializers() timelock.Initializer {
	return timelock.ChainInitializers{
		cash.Initializer{},
	}
}

// Application bundles the abci application with the services it runs on.
type Application struct {
	BaseApp
	Bank   *cash.BaseController
	Ledger *ledger.Ledger
}

// NewApplication wires all extensions on top of given store.
func NewApplication(kv timelock.CommitKVStore, logger log.Logger, debug bool) *Application {
	bank := cash.NewController()
	l := ledger.NewLedger(bank)
	authFn := Authenticator()
	h := Chain().WithHandler(Routes(authFn, bank, l))

	store := NewStoreApp(Name, kv, QueryRouter(), context.Background()).
		WithInit(Initializers()).
		WithLogger(logger)
	return &Application{
		BaseApp: NewBaseApp(store, TxDecoder().Decode, h, debug),
		Bank:    bank,
		Ledger:  l,
	}
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path. An empty path returns an in-memory store.
func CommitKVStore(dbPath string) (timelock.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}
	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
