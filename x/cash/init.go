package cash

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/gconf"
)

const (
	optKey   = "cash"
	assetKey = "assets"
)

// GenesisAccount is used to parse the json from genesis file
// use timelock.Address, so address in hex, not base64
type GenesisAccount struct {
	Address timelock.Address `json:"address"`
	Coins   coin.Coins       `json:"coins"`
}

// GenesisAsset declares an asset and its transfer fee in the genesis file.
type GenesisAsset struct {
	Ticker      string            `json:"ticker"`
	TransferFee timelock.Fraction `json:"transfer_fee"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ timelock.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts timelock.Options, kv timelock.KVStore) error {
	switch err := gconf.InitConfig(kv, opts, ConfigurationPkg, &Configuration{}); {
	case err == nil, errors.ErrNotFound.Is(err):
		// Configuration is required only by assets with a transfer fee.
	default:
		return errors.Wrap(err, "init config")
	}

	var assets []GenesisAsset
	if err := opts.ReadOptions(assetKey, &assets); err != nil {
		return err
	}
	assetBucket := NewAssetBucket()
	for i, a := range assets {
		fee := a.TransferFee.Normalize()
		info := AssetInfo{
			Ticker:         a.Ticker,
			FeeNumerator:   fee.Numerator,
			FeeDenominator: fee.Denominator,
		}
		if _, err := assetBucket.Put(kv, []byte(a.Ticker), &info); err != nil {
			return errors.Wrapf(err, "asset %d", i)
		}
	}

	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	ctrl := NewController()
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if err := acct.Coins.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		for _, c := range acct.Coins {
			if err := ctrl.IssueCoins(kv, acct.Address, *c); err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
		}
	}
	return nil
}
