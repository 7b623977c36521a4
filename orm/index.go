package orm

import (
	"bytes"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Indexer calculates the secondary index key for a given model. A nil key
// means the model is not indexed.
type Indexer func(Model) ([]byte, error)

const indexPrefix = "_i."

// index represents a secondary index on some data.
// It is indexed by an arbitrary key returned by Indexer.
// The value is one primary key (unique),
// Or a MultiRef of primary keys (!unique).
type index struct {
	name    string
	id      []byte
	unique  bool
	indexer Indexer
	refKey  func([]byte) []byte
}

var _ timelock.QueryHandler = (*index)(nil)

func newIndex(bucket, name string, indexer Indexer, unique bool, refKey func([]byte) []byte) *index {
	return &index{
		name:    name,
		id:      []byte(indexPrefix + bucket + "_" + name + ":"),
		unique:  unique,
		indexer: indexer,
		refKey:  refKey,
	}
}

// indexKey is the full key we store in the db, including prefix
func (i *index) indexKey(value []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(value))
	copy(out, i.id)
	copy(out[l:], value)
	return out
}

// Update handles updating the reference to the object in
// the secondary index.
//
// prev == nil means insert
// next == nil means delete
func (i *index) Update(db timelock.KVStore, key []byte, prev, next Model) error {
	if prev == nil && next == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil model")
	}

	var prevVal, nextVal []byte
	var err error
	if prev != nil {
		if prevVal, err = i.indexer(prev); err != nil {
			return err
		}
	}
	if next != nil {
		if nextVal, err = i.indexer(next); err != nil {
			return err
		}
	}

	// no change, no work
	if prev != nil && next != nil && bytes.Equal(prevVal, nextVal) {
		return nil
	}
	if prevVal != nil {
		if err := i.remove(db, prevVal, key); err != nil {
			return err
		}
	}
	if nextVal != nil {
		if err := i.insert(db, nextVal, key); err != nil {
			return err
		}
	}
	return nil
}

func (i *index) insert(db timelock.KVStore, value, pk []byte) error {
	dbkey := i.indexKey(value)
	raw, err := db.Get(dbkey)
	if err != nil {
		return err
	}

	if i.unique {
		if raw != nil {
			return errors.Wrapf(errors.ErrDuplicate, "index %q unique constraint", i.name)
		}
		return db.Set(dbkey, pk)
	}

	var refs MultiRef
	if raw != nil {
		if err := refs.Unmarshal(raw); err != nil {
			return errors.Wrap(errors.ErrModel, err.Error())
		}
	}
	if err := refs.Add(pk); err != nil {
		return err
	}
	raw, err = refs.Marshal()
	if err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return db.Set(dbkey, raw)
}

func (i *index) remove(db timelock.KVStore, value, pk []byte) error {
	dbkey := i.indexKey(value)
	raw, err := db.Get(dbkey)
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "index %q has no %X", i.name, value)
	}

	if i.unique {
		if !bytes.Equal(raw, pk) {
			return errors.Wrapf(errors.ErrState, "index %q points to a different key", i.name)
		}
		return db.Delete(dbkey)
	}

	var refs MultiRef
	if err := refs.Unmarshal(raw); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	if err := refs.Remove(pk); err != nil {
		return err
	}
	if len(refs.Refs) == 0 {
		return db.Delete(dbkey)
	}
	raw, err = refs.Marshal()
	if err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return db.Set(dbkey, raw)
}

// Keys returns a list of all primary keys that were indexed under given
// value.
func (i *index) Keys(db timelock.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	raw, err := db.Get(i.indexKey(value))
	if err != nil {
		return nil, err
	}
	return i.refs(raw)
}

func (i *index) refs(raw []byte) ([][]byte, error) {
	if raw == nil {
		return nil, nil
	}
	if i.unique {
		return [][]byte{raw}, nil
	}
	var refs MultiRef
	if err := refs.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return refs.Refs, nil
}

// Query handles queries from the QueryRouter
func (i *index) Query(db timelock.ReadOnlyKVStore, mod string, data []byte) ([]timelock.Model, error) {
	switch mod {
	case timelock.KeyQueryMod:
		refs, err := i.Keys(db, data)
		if err != nil {
			return nil, err
		}
		return i.loadRefs(db, refs)
	case timelock.PrefixQueryMod:
		found, err := queryPrefix(db, i.indexKey(data))
		if err != nil {
			return nil, err
		}
		var all [][]byte
		for _, m := range found {
			refs, err := i.refs(m.Value)
			if err != nil {
				return nil, err
			}
			all = append(all, refs...)
		}
		return i.loadRefs(db, all)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "not implemented: %q", mod)
	}
}

func (i *index) loadRefs(db timelock.ReadOnlyKVStore, refs [][]byte) ([]timelock.Model, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	res := make([]timelock.Model, len(refs))
	for j, ref := range refs {
		key := i.refKey(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		res[j] = timelock.Pair(key, value)
	}
	return res, nil
}
