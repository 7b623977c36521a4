package app

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []timelock.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []timelock.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]timelock.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrState, "%d keys and %d values", len(kref), len(vref))
	}
	mods := make([]timelock.Model, len(kref))
	for i := range mods {
		mods[i] = timelock.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o.
// It returns errors.ErrNotFound if the result set is empty.
func UnmarshalOneResult(bz []byte, o timelock.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if len(res.Results) == 0 {
		return errors.ErrNotFound
	}
	return o.Unmarshal(res.Results[0])
}

// QueryModels runs a query against given application and returns the
// result as a list of models. A failed query is returned as an error
// carrying the response log.
func QueryModels(a abci.Application, path string, data []byte) ([]timelock.Model, error) {
	resp := a.Query(abci.RequestQuery{Path: path, Data: data})
	if resp.Code != errors.SuccessABCICode {
		return nil, errors.Wrapf(errors.ErrInput, "query %s: code %d: %s", path, resp.Code, resp.Log)
	}
	var k, v ResultSet
	if err := k.Unmarshal(resp.Key); err != nil {
		return nil, errors.Wrap(errors.ErrInput, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(resp.Value); err != nil {
		return nil, errors.Wrap(errors.ErrInput, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}
