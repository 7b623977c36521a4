package store

import "github.com/iov-one/timelock"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = timelock.ReadOnlyKVStore
	SetDeleter       = timelock.SetDeleter
	KVStore          = timelock.KVStore
	Batch            = timelock.Batch
	Iterator         = timelock.Iterator
	CacheableKVStore = timelock.CacheableKVStore
	KVCacheWrap      = timelock.KVCacheWrap
	CommitKVStore    = timelock.CommitKVStore
	CommitID         = timelock.CommitID
	Model            = timelock.Model
)

// Pair constructs a model from a key-value pair
var Pair = timelock.Pair
