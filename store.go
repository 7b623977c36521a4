package timelock

// ReadOnlyKVStore gives read access to an ordered key value store.
type ReadOnlyKVStore interface {
	// Get returns nil if the key does not exist.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)

	// Iterator returns keys of [start, end) in ascending order. A nil
	// boundary leaves the range open on that side. The store must not be
	// modified within the range while the iterator is in use.
	Iterator(start, end []byte) (Iterator, error)
	// ReverseIterator is like Iterator, but in descending order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write half shared by stores and batches. Given slices
// must not be modified after the call.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is implemented by every backing store.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	NewBatch() Batch
}

// Batch collects writes and applies them to its store on Write.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator walks over a range of keys:
//
//   it, err := db.Iterator(start, end)
//   ...
//   defer it.Close()
//   for ; it.Valid(); err = it.Next() {
//       ...
//   }
//
// Next, Key and Value panic once Valid returns false.
type Iterator interface {
	Valid() bool
	Next() error
	Key() []byte
	Value() []byte
	Close()
}

// CacheableKVStore can open a cache wrap: a scratch pad of pending writes
// that are applied together or dropped together.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a store whose writes are visible only through itself until
// Write is called. Discard drops them. Wraps can be nested.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is the versioned root store. Each Commit persists a new
// version made of all the writes done through its cache wraps.
type CommitKVStore interface {
	// Get reads the last committed state.
	Get(key []byte) ([]byte, error)

	// CacheWrap returns a scratch pad. Once written, its changes become
	// part of the next commit.
	CacheWrap() KVCacheWrap

	Commit() (CommitID, error)

	// LoadLatestVersion loads the last persisted version. After a crash
	// during commit the previous stable version is loaded.
	LoadLatestVersion() error

	LatestVersion() (CommitID, error)
}

// CommitID identifies a version by its number and merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
