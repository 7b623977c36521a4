package store

import (
	"bytes"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/iov-one/timelock/timelocktest/assert"
)

// TestSuite runs the same set of behaviour checks against any CacheableKVStore
// implementation. Both the in-memory btree and the iavl adapter are verified
// with it.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a function releasing all its
// resources.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// NewTestSuite returns a suite testing stores returned by given constructor.
func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// GetSet walks a single record through the cache layers: written to the base,
// shadowed in a cache, discarded in one cache and removed by another.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	owner, deposit := []byte("deposit:alice"), []byte("400 TKN")
	s.AssertGetHas(t, base, owner, nil, false)
	assert.Nil(t, base.Set(owner, deposit))
	s.AssertGetHas(t, base, owner, deposit, true)

	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, owner, deposit, true)

	other, otherDeposit := []byte("deposit:bob"), []byte("7 ETH")
	assert.Nil(t, cache.Set(other, otherDeposit))
	s.AssertGetHas(t, cache, other, otherDeposit, true)
	s.AssertGetHas(t, base, other, nil, false)
	assert.Nil(t, cache.Write())
	s.AssertGetHas(t, base, other, otherDeposit, true)

	discarded := base.CacheWrap()
	assert.Nil(t, discarded.Set([]byte("deposit:carol"), []byte("1 TKN")))
	assert.Nil(t, discarded.Delete(owner))
	discarded.Discard()
	s.AssertGetHas(t, base, owner, deposit, true)
	s.AssertGetHas(t, base, []byte("deposit:carol"), nil, false)

	removing := base.CacheWrap()
	assert.Nil(t, removing.Delete(owner))
	s.AssertGetHas(t, removing, owner, nil, false)
	s.AssertGetHas(t, base, owner, deposit, true)
	assert.Nil(t, removing.Write())
	s.AssertGetHas(t, base, owner, nil, false)
	s.AssertGetHas(t, base, other, otherDeposit, true)
}

// CacheConflicts checks that a cache can overwrite and delete values of its
// parent without the parent noticing until the cache is written.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	cases := map[string]struct {
		parent []Op
		child  []Op
		// before and after map a key to the value expected in the parent
		// before and after the child is written. Empty string means missing.
		before map[string]string
		after  map[string]string
	}{
		"overwrite, delete and insert": {
			parent: []Op{SetOp([]byte("a"), []byte("1")), SetOp([]byte("b"), []byte("2"))},
			child:  []Op{SetOp([]byte("a"), []byte("10")), DelOp([]byte("b")), SetOp([]byte("c"), []byte("3"))},
			before: map[string]string{"a": "1", "b": "2", "c": ""},
			after:  map[string]string{"a": "10", "b": "", "c": "3"},
		},
		"delete then set again": {
			parent: []Op{SetOp([]byte("a"), []byte("1"))},
			child:  []Op{DelOp([]byte("a")), SetOp([]byte("a"), []byte("4"))},
			before: map[string]string{"a": "1"},
			after:  map[string]string{"a": "4"},
		},
		"set then delete": {
			child:  []Op{SetOp([]byte("z"), []byte("9")), DelOp([]byte("z"))},
			before: map[string]string{"z": ""},
			after:  map[string]string{"z": ""},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()
			applyOps(t, parent, tc.parent)

			child := parent.CacheWrap()
			applyOps(t, child, tc.child)

			s.assertValues(t, parent, tc.before)
			s.assertValues(t, child, tc.after)
			assert.Nil(t, child.Write())
			s.assertValues(t, parent, tc.after)
		})
	}
}

// FuzzIterator compares ranged iteration over a cache layered on a populated
// parent with the iteration of a sorted reference slice.
func (s *TestSuite) FuzzIterator(t *testing.T) {
	rnd := rand.New(rand.NewSource(72))

	for _, withParent := range []bool{false, true} {
		t.Run(fmt.Sprintf("parent_%v", withParent), func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()

			want := make(map[string]string)
			if withParent {
				for _, m := range randModels(rnd, 40) {
					assert.Nil(t, base.Set(m.Key, m.Value))
					want[string(m.Key)] = string(m.Value)
				}
			}

			child := base.CacheWrap()
			for _, m := range randModels(rnd, 40) {
				assert.Nil(t, child.Set(m.Key, m.Value))
				want[string(m.Key)] = string(m.Value)
			}
			// Delete some of the existing keys, and a few unknown ones.
			n := 0
			for k := range want {
				if n%3 == 0 {
					assert.Nil(t, child.Delete([]byte(k)))
					delete(want, k)
				}
				n++
			}
			for _, m := range randModels(rnd, 5) {
				assert.Nil(t, child.Delete(m.Key))
			}

			expected := sortedModels(want)
			count := len(expected)
			ranges := [][2]int{{0, count}, {10, count}, {0, count - 8}, {7, 19}, {count / 2, count/2 + 1}}
			for _, r := range ranges {
				s.assertRange(t, child, expected, r[0], r[1])
			}
		})
	}
}

// IteratorWithConflicts covers iteration when the cache overwrites or
// deletes values of the parent.
func (s *TestSuite) IteratorWithConflicts(t *testing.T) {
	cases := map[string]struct {
		parent []Op
		child  []Op
		want   []string
	}{
		"child only": {
			child: []Op{SetOp([]byte("b"), []byte("2")), SetOp([]byte("a"), []byte("1"))},
			want:  []string{"a=1", "b=2"},
		},
		"parent only": {
			parent: []Op{SetOp([]byte("b"), []byte("2")), SetOp([]byte("a"), []byte("1"))},
			want:   []string{"a=1", "b=2"},
		},
		"child overwrites parent": {
			parent: []Op{SetOp([]byte("a"), []byte("1")), SetOp([]byte("c"), []byte("3"))},
			child:  []Op{SetOp([]byte("a"), []byte("11")), SetOp([]byte("b"), []byte("2"))},
			want:   []string{"a=11", "b=2", "c=3"},
		},
		"child deletes hide parent": {
			parent: []Op{SetOp([]byte("a"), []byte("1")), SetOp([]byte("c"), []byte("3")), SetOp([]byte("d"), []byte("4"))},
			child:  []Op{DelOp([]byte("a")), DelOp([]byte("b")), DelOp([]byte("d"))},
			want:   []string{"c=3"},
		},
		"everything deleted": {
			parent: []Op{SetOp([]byte("a"), []byte("1"))},
			child:  []Op{DelOp([]byte("a"))},
			want:   nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			applyOps(t, base, tc.parent)
			child := base.CacheWrap()
			applyOps(t, child, tc.child)

			iter, err := child.Iterator(nil, nil)
			assert.Nil(t, err)
			assert.Equal(t, tc.want, collect(t, iter))

			iter, err = child.ReverseIterator(nil, nil)
			assert.Nil(t, err)
			got := collect(t, iter)
			for i, j := 0, len(got)-1; i < j; i, j = i+1, j-1 {
				got[i], got[j] = got[j], got[i]
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

// AssertGetHas ensures that both Get and Has report the expected state of
// given key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

func (s *TestSuite) assertValues(t testing.TB, kv ReadOnlyKVStore, want map[string]string) {
	t.Helper()
	for k, v := range want {
		if v == "" {
			s.AssertGetHas(t, kv, []byte(k), nil, false)
		} else {
			s.AssertGetHas(t, kv, []byte(k), []byte(v), true)
		}
	}
}

// assertRange iterates over [expected[from], expected[to]) in both
// directions. An end index equal to the length means an open range.
func (s *TestSuite) assertRange(t testing.TB, kv ReadOnlyKVStore, expected []Model, from, to int) {
	t.Helper()
	start := expected[from].Key
	var end []byte
	if to < len(expected) {
		end = expected[to].Key
	}
	var want []string
	for _, m := range expected[from:to] {
		want = append(want, fmt.Sprintf("%s=%s", m.Key, m.Value))
	}

	iter, err := kv.Iterator(start, end)
	assert.Nil(t, err)
	assert.Equal(t, want, collect(t, iter))

	iter, err = kv.ReverseIterator(start, end)
	assert.Nil(t, err)
	got := collect(t, iter)
	if len(got) != len(want) {
		t.Fatalf("reverse [%d, %d): want %d models, got %d", from, to, len(want), len(got))
	}
	for i := range want {
		assert.Equal(t, want[len(want)-1-i], got[i])
	}
}

func applyOps(t testing.TB, kv SetDeleter, ops []Op) {
	t.Helper()
	for _, op := range ops {
		assert.Nil(t, op.Apply(kv))
	}
}

// collect drains the iterator into "key=value" entries.
func collect(t testing.TB, iter Iterator) []string {
	t.Helper()
	defer iter.Close()
	var res []string
	for iter.Valid() {
		res = append(res, fmt.Sprintf("%s=%s", iter.Key(), iter.Value()))
		assert.Nil(t, iter.Next())
	}
	return res
}

// randModels returns printable models so that failures are readable.
func randModels(rnd *rand.Rand, count int) []Model {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	word := func(size int) []byte {
		b := make([]byte, size)
		for i := range b {
			b[i] = alphabet[rnd.Intn(len(alphabet))]
		}
		return b
	}
	models := make([]Model, count)
	for i := range models {
		models[i] = Pair(word(12), word(24))
	}
	return models
}

func sortedModels(kv map[string]string) []Model {
	res := make([]Model, 0, len(kv))
	for k, v := range kv {
		res = append(res, Pair([]byte(k), []byte(v)))
	}
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}
