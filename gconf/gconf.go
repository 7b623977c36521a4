package gconf

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// ReadStore is the part of timelock.ReadOnlyKVStore needed to load a
// configuration.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of timelock.KVStore needed to save a configuration.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// ValidMarshaler is a configuration that can be validated and serialized.
type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

// Unmarshaler is a configuration that can be deserialized.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration is implemented by all configuration entities.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

// key returns the database key of the configuration singleton of a package.
func key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates src and stores it as the configuration of the package.
func Save(db Store, pkg string, src ValidMarshaler) error {
	k := key(pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", k)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal: key %q", k)
	}
	return db.Set(k, raw)
}

// Load reads the configuration of the package into dst. ErrNotFound is
// returned if it was never saved.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	k := key(pkg)
	raw, err := db.Get(k)
	switch {
	case err != nil:
		return err
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "key %q", k)
	}
	return errors.Wrapf(dst.Unmarshal(raw), "unmarshal: key %q", k)
}

// InitConfig reads the genesis section conf.<pkg> into conf and saves it.
// ErrNotFound is returned when the section is missing.
func InitConfig(db Store, opts timelock.Options, pkg string, conf Configuration) error {
	var all timelock.Options
	if err := opts.ReadOptions("conf", &all); err != nil {
		return errors.Wrap(err, "read conf")
	}
	if _, ok := all[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "no configuration in genesis for %q package", pkg)
	}
	if err := all.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "read configuration for %s", pkg)
	}
	return errors.Wrapf(Save(db, pkg, conf), "save configuration for %s", pkg)
}
