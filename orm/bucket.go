package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
	isIndexName  = regexp.MustCompile(`^[a-z_]{2,20}$`).MatchString
)

// ModelBucket stores models of a single type under a prefixed subspace of
// the database. It maintains all declared secondary indexes.
type ModelBucket interface {
	timelock.QueryHandler

	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	One(db timelock.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key exists in the
	// database. ErrNotFound is returned otherwise.
	Has(db timelock.ReadOnlyKVStore, key []byte) error

	// ByIndex returns all entities indexed under given value by the index
	// with the given name. Loaded models are appended to the destination
	// that must be a pointer to a slice of model pointers. Primary keys of
	// all loaded entities are returned.
	ByIndex(db timelock.ReadOnlyKVStore, indexName string, value []byte, dest ModelSlicePtr) ([][]byte, error)

	// Put saves given model in the database. If the key is nil and the
	// bucket was created with a sequence, the next sequence value is used
	// as the key. The key used is returned.
	Put(db timelock.KVStore, key []byte, m Model) ([]byte, error)

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db timelock.KVStore, key []byte) error

	// Register registers this bucket and all its indexes in the query
	// router. Given name is used as the root path.
	Register(name string, r timelock.QueryRouter)
}

// ModelBucketOption is implemented by any function that can configure
// ModelBucket during creation.
type ModelBucketOption func(mb *modelBucket)

// WithIndex configures the bucket to build an index with given name. All
// entities stored in the bucket are indexed using value returned by the
// indexer function. If an index is unique, there can be only one entity
// referenced per index value.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	if !isIndexName(name) {
		panic(fmt.Sprintf("Illegal index: %s", name))
	}
	return func(mb *modelBucket) {
		if _, ok := mb.indexes[name]; ok {
			panic(fmt.Sprintf("Index %q registered twice", name))
		}
		mb.indexes[name] = newIndex(mb.name, name, indexer, unique, mb.dbKey)
	}
}

// WithIDSequence configures the bucket to use the given sequence instance
// for generating keys of models stored without one.
func WithIDSequence(s Sequence) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.seq = &s
	}
}

// NewModelBucket returns a ModelBucket instance storing models of the same
// type as given prototype.
func NewModelBucket(name string, proto Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	tp := reflect.TypeOf(proto)
	if tp.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("Model must be a pointer, got %T", proto))
	}
	mb := &modelBucket{
		name:    name,
		prefix:  append([]byte(name), ':'),
		model:   tp,
		indexes: make(map[string]*index),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	indexes map[string]*index
	seq     *Sequence
}

var _ ModelBucket = (*modelBucket)(nil)

// dbKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (mb *modelBucket) dbKey(key []byte) []byte {
	l := len(mb.prefix)
	out := make([]byte, l+len(key))
	copy(out, mb.prefix)
	copy(out[l:], key)
	return out
}

func (mb *modelBucket) newModel() Model {
	return reflect.New(mb.model.Elem()).Interface().(Model)
}

func (mb *modelBucket) One(db timelock.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest) != mb.model {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %s", dest, mb.model)
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot get from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal: %s", err)
	}
	return nil
}

func (mb *modelBucket) Has(db timelock.ReadOnlyKVStore, key []byte) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot query the database")
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s not in the store", mb.model.Elem().Name())
	}
	return nil
}

func (mb *modelBucket) ByIndex(db timelock.ReadOnlyKVStore, indexName string, value []byte, destination ModelSlicePtr) ([][]byte, error) {
	idx, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidIndex, "name %q", indexName)
	}

	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr || dest.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrap(errors.ErrType, "destination must be a pointer to slice of models")
	}
	if dest.IsNil() {
		return nil, errors.Wrap(errors.ErrImmutable, "got nil pointer")
	}
	dest = dest.Elem()
	if dest.Type().Elem() != mb.model {
		return nil, errors.Wrapf(errors.ErrType, "this bucket operates on %s model and cannot return %s", mb.model, dest.Type().Elem())
	}

	keys, err := idx.Keys(db, value)
	if err != nil {
		return nil, errors.Wrap(err, "cannot query index")
	}
	for _, key := range keys {
		m := mb.newModel()
		if err := mb.One(db, key, m); err != nil {
			return nil, errors.Wrapf(err, "referenced entity %X", key)
		}
		dest.Set(reflect.Append(dest, reflect.ValueOf(m)))
	}
	return keys, nil
}

func (mb *modelBucket) Put(db timelock.KVStore, key []byte, m Model) ([]byte, error) {
	if reflect.TypeOf(m) != mb.model {
		return nil, errors.Wrapf(errors.ErrType, "cannot store %T type in this bucket", m)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}

	if len(key) == 0 {
		if mb.seq == nil {
			return nil, errors.Wrap(errors.ErrEmpty, "key required")
		}
		next, err := mb.seq.NextVal(db)
		if err != nil {
			return nil, errors.Wrap(err, "next sequence value")
		}
		key = next
	}

	raw, err := m.Marshal()
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	if err := mb.updateIndexes(db, key, m); err != nil {
		return nil, errors.Wrap(err, "cannot update indexes")
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return nil, errors.Wrap(err, "cannot store in the database")
	}
	return key, nil
}

func (mb *modelBucket) Delete(db timelock.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	if err := mb.updateIndexes(db, key, nil); err != nil {
		return errors.Wrap(err, "cannot update indexes")
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(err, "cannot delete from the database")
	}
	return nil
}

// updateIndexes moves all index references of the entity stored under
// given key. Nil model means the entity is removed.
func (mb *modelBucket) updateIndexes(db timelock.KVStore, key []byte, next Model) error {
	if len(mb.indexes) == 0 {
		return nil
	}

	var prev Model
	switch raw, err := db.Get(mb.dbKey(key)); {
	case err != nil:
		return err
	case raw != nil:
		prev = mb.newModel()
		if err := prev.Unmarshal(raw); err != nil {
			return errors.Wrapf(errors.ErrModel, "cannot unmarshal: %s", err)
		}
	}

	for _, idx := range mb.indexes {
		if err := idx.Update(db, key, prev, next); err != nil {
			return errors.Wrapf(err, "index %q", idx.name)
		}
	}
	return nil
}

// Query handles queries from the QueryRouter
func (mb *modelBucket) Query(db timelock.ReadOnlyKVStore, mod string, data []byte) ([]timelock.Model, error) {
	switch mod {
	case timelock.KeyQueryMod:
		key := mb.dbKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		return []timelock.Model{timelock.Pair(key, value)}, nil
	case timelock.PrefixQueryMod:
		return queryPrefix(db, mb.dbKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "not implemented: %q", mod)
	}
}

func (mb *modelBucket) Register(name string, r timelock.QueryRouter) {
	if name == "" {
		name = mb.name
	}
	root := "/" + name
	r.Register(root, mb)
	for iname, idx := range mb.indexes {
		r.Register(root+"/"+iname, idx)
	}
}
