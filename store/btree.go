package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/timelock/errors"
)

// btreeDegree is the branching factor of the cache trees. Caches are short
// lived and small, so a low degree is enough.
const btreeDegree = 2

// MemStore returns a fresh in-memory store. Nothing is persisted, which
// makes it the store of choice for tests.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheable adds btree backed cache wraps to any KVStore.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a cache that is written to the wrapped store only when
// Write is called.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// BTreeCacheWrap keeps all pending changes in an ordered btree. Reads fall
// back to the parent store for keys the cache knows nothing about. All writes
// are also recorded in the batch so that Write can replay them on the parent.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a cache over kv. All writes must go through the
// batch, which is why the parent is given as read only.
//
// free may be nil. Pass the free list of a parent cache to share the nodes.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(btreeDegree, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap layers another cache on top of this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch writing into this cache.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all pending changes to the parent store and empties the
// cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all pending changes.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(cacheEntry{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(cacheEntry{key: key, deleted: true})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	e, ok, err := b.cached(key)
	switch {
	case err != nil:
		return nil, err
	case !ok:
		return b.back.Get(key)
	case e.deleted:
		return nil, nil
	default:
		return e.value, nil
	}
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	e, ok, err := b.cached(key)
	switch {
	case err != nil:
		return false, err
	case !ok:
		return b.back.Has(key)
	default:
		return !e.deleted, nil
	}
}

// cached returns the pending change for the key, if any.
func (b BTreeCacheWrap) cached(key []byte) (cacheEntry, bool, error) {
	item := b.bt.Get(cacheEntry{key: key})
	if item == nil {
		return cacheEntry{}, false, nil
	}
	e, ok := item.(cacheEntry)
	if !ok {
		return cacheEntry{}, false, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", item)
	}
	return e, true, nil
}

// Iterator returns keys of the [start, end) range in ascending order.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(b.entries(start, end, false), parent, false)
}

// ReverseIterator returns keys of the [start, end) range in descending
// order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(b.entries(start, end, true), parent, true)
}

// entries returns a snapshot of the cached entries within [start, end). A
// nil boundary means the range is open on that side.
func (b BTreeCacheWrap) entries(start, end []byte, descending bool) []cacheEntry {
	var res []cacheEntry
	collect := func(item btree.Item) bool {
		res = append(res, item.(cacheEntry))
		return true
	}
	switch {
	case start == nil && end == nil:
		b.bt.Ascend(collect)
	case start == nil:
		b.bt.AscendLessThan(cacheEntry{key: end}, collect)
	case end == nil:
		b.bt.AscendGreaterOrEqual(cacheEntry{key: start}, collect)
	default:
		b.bt.AscendRange(cacheEntry{key: start}, cacheEntry{key: end}, collect)
	}
	if descending {
		for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
			res[i], res[j] = res[j], res[i]
		}
	}
	return res
}

// cacheEntry is a pending change. A deleted entry hides the value of the
// parent store.
type cacheEntry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = cacheEntry{}

func (e cacheEntry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(cacheEntry).key) < 0
}
