package cash

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/gconf"
)

// ConfigurationPkg is the name the configuration of this package is stored
// under.
const ConfigurationPkg = "cash"

// Configuration of the cash package.
type Configuration struct {
	// Owner is allowed to update the configuration.
	Owner timelock.Address `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner"`
	// CollectorAddress receives all transfer fees.
	CollectorAddress timelock.Address `protobuf:"bytes,2,opt,name=collector_address,json=collectorAddress,proto3" json:"collector_address"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

// GetOwner returns the address allowed to update the configuration.
func (c *Configuration) GetOwner() timelock.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	// owner field is optional, without it the configuration is immutable
	if len(c.Owner) != 0 {
		if err := c.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner address")
		}
	}
	if len(c.CollectorAddress) == 0 {
		return errors.Wrap(errors.ErrState, "collector address missing")
	}
	if err := c.CollectorAddress.Validate(); err != nil {
		return errors.Wrap(err, "collector address")
	}
	return nil
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, ConfigurationPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
