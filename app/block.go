package app

import (
	"encoding/json"
	"io/ioutil"
	"time"

	"github.com/iov-one/timelock/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Genesis file format, designed to be overlayed with tendermint genesis
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState json.RawMessage `json:"app_state"`
}

// LoadGenesis reads a genesis file from given path.
func LoadGenesis(path string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot parse genesis: %s", err)
	}
	if gen.ChainID == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "chain_id")
	}
	return &gen, nil
}

// Runner drives an abci application without a consensus engine. Each call
// to RunBlock creates a new block at the next height and commits it.
type Runner struct {
	app     abci.Application
	chainID string
}

// NewRunner returns a runner for given application and chain.
func NewRunner(a abci.Application, chainID string) *Runner {
	return &Runner{app: a, chainID: chainID}
}

// InitChain loads the genesis app state and commits it as the first
// version of the state.
func (r *Runner) InitChain(appState []byte, genesisTime time.Time) (err error) {
	defer errors.Recover(&err)
	r.app.InitChain(abci.RequestInitChain{
		Time:          genesisTime,
		ChainId:       r.chainID,
		AppStateBytes: appState,
	})
	r.app.Commit()
	return nil
}

// RunBlock executes all transactions in a single block with given block
// time. The block is committed even if some transactions fail. Returned
// responses are in the order of given transactions.
func (r *Runner) RunBlock(blockTime time.Time, txs ...[]byte) (res []abci.ResponseDeliverTx, err error) {
	defer errors.Recover(&err)

	height := r.app.Info(abci.RequestInfo{}).LastBlockHeight + 1
	r.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{
			ChainID: r.chainID,
			Height:  height,
			Time:    blockTime,
		},
	})
	for _, tx := range txs {
		res = append(res, r.app.DeliverTx(tx))
	}
	r.app.EndBlock(abci.RequestEndBlock{Height: height})
	r.app.Commit()
	return res, nil
}

// DeliverError returns the error described by a failed deliver response
// or nil on success.
func DeliverError(res abci.ResponseDeliverTx) error {
	if res.Code == errors.SuccessABCICode {
		return nil
	}
	return errors.Wrapf(errors.ErrState, "code %d: %s", res.Code, res.Log)
}
