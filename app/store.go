package app

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the state related part of abci.Application: genesis,
// queries, block boundaries and commits. Transactions are processed by
// BaseApp, which embeds it.
//
// InitChain and Commit do not process user input. A failure there means the
// node cannot continue, so they panic instead of returning an error.
type StoreApp struct {
	logger log.Logger
	// name is reported by Info.
	name        string
	store       *CommitStore
	initializer timelock.Initializer
	queryRouter timelock.QueryRouter

	// chainID is empty until InitChain is called for the first time.
	chainID string

	// baseContext carries values valid for the lifetime of the
	// application. Height and time of the current block are added by
	// BlockContext.
	baseContext timelock.Context
	height      int64
	blockTime   time.Time
}

// NewStoreApp loads the state of the store. It panics if the state cannot
// be loaded.
func NewStoreApp(name string, store timelock.CommitKVStore, queryRouter timelock.QueryRouter, ctx timelock.Context) *StoreApp {
	s := &StoreApp{
		name:        name,
		store:       NewCommitStore(store),
		queryRouter: queryRouter,
		baseContext: ctx,
	}
	s.WithLogger(log.NewNopLogger())

	chainID, err := loadChainID(s.DeliverStore())
	if err != nil {
		panic(err)
	}
	if s.chainID = chainID; s.chainID != "" {
		s.baseContext = timelock.WithChainID(s.baseContext, s.chainID)
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.height = info.Version
	return s
}

func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit sets the initializer fed with the genesis app state.
func (s *StoreApp) WithInit(init timelock.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger sets the logger of the application and of all request
// contexts.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.baseContext = timelock.WithLogger(s.baseContext, logger)
	return s
}

// BlockContext returns the context of the current block. Before the first
// BeginBlock it carries the last committed height and no block time.
func (s *StoreApp) BlockContext() timelock.Context {
	ctx := timelock.WithHeight(s.baseContext, s.height)
	if !s.blockTime.IsZero() {
		ctx = timelock.WithBlockTime(ctx, s.blockTime)
	}
	return ctx
}

func (s *StoreApp) DeliverStore() timelock.CacheableKVStore {
	return s.store.DeliverStore()
}

func (s *StoreApp) CheckStore() timelock.CacheableKVStore {
	return s.store.CheckStore()
}

// initState saves the chain ID and loads the genesis app state. It can be
// done only once in the lifetime of a chain.
func (s *StoreApp) initState(chainID string, appState []byte) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrImmutable, "app state previously loaded for chain: %s", s.chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state not set in genesis")
	}
	var opts timelock.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	db := s.DeliverStore()
	if err := saveChainID(db, chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.baseContext = timelock.WithChainID(s.baseContext, chainID)

	if s.initializer == nil {
		return nil
	}
	return s.initializer.FromGenesis(opts, db)
}

// Info returns the height and the app hash of the last commit.
func (s *StoreApp) Info(abci.RequestInfo) abci.ResponseInfo {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("Info synced", "height", info.Version, "hash", fmt.Sprintf("%X", info.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// Query reads the last committed state. The path selects the handler, for
// example "/deposits" or "/events/owner", and may end with "?prefix" to
// request a prefix search. Data is the key or the prefix.
//
// Key and Value of the response are ResultSet encoded lists of the same
// length.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := req.Path, ""
	if i := strings.IndexByte(req.Path, '?'); i >= 0 {
		path, mod = req.Path[:i], req.Path[i+1:]
	}
	h := s.queryRouter.Handler(path)
	if h == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "unexpected query path: %v", req.Path))
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err)
	}
	db := s.store.committed.CacheWrap()
	defer db.Discard()

	models, err := h.Query(db, mod, req.Data)
	if err != nil {
		return queryError(err)
	}
	keys, err := ResultsFromKeys(models).Marshal()
	if err != nil {
		return queryError(err)
	}
	values, err := ResultsFromValues(models).Marshal()
	if err != nil {
		return queryError(err)
	}
	return abci.ResponseQuery{Height: info.Version, Key: keys, Value: values}
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: log}
}

func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("Commit synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// InitChain loads the genesis app state into the deliver store. It becomes
// part of the first commit.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.initState(req.ChainId, req.AppStateBytes); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock sets the height and the time of the block on the context used
// by all transactions of that block. The block time is the only clock
// handlers may use.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	s.height = req.Header.GetHeight()
	s.blockTime = req.Header.Time
	return abci.ResponseBeginBlock{}
}

func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}
