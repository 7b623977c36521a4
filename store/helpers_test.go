package store

import (
	"testing"

	"github.com/iov-one/timelock/timelocktest/assert"
)

func TestSliceIterator(t *testing.T) {
	models := []Model{
		Pair([]byte("a"), []byte("1")),
		Pair([]byte("b"), []byte("2")),
	}
	iter := NewSliceIterator(models)

	var keys []string
	for ; iter.Valid(); assert.Nil(t, iter.Next()) {
		keys = append(keys, string(iter.Key()))
	}
	assert.Equal(t, []string{"a", "b"}, keys)
	assert.Panics(t, func() { iter.Key() })

	iter.Close()
	assert.Equal(t, false, iter.Valid())
}

func TestNonAtomicBatch(t *testing.T) {
	base := MemStore()
	batch := base.NewBatch()
	assert.Nil(t, batch.Set([]byte("a"), []byte("1")))
	assert.Nil(t, batch.Set([]byte("b"), []byte("2")))
	assert.Nil(t, batch.Delete([]byte("a")))

	// nothing is visible before the write
	s := NewTestSuite(makeBase)
	s.AssertGetHas(t, base, []byte("b"), nil, false)

	assert.Nil(t, batch.Write())
	s.AssertGetHas(t, base, []byte("a"), nil, false)
	s.AssertGetHas(t, base, []byte("b"), []byte("2"), true)

	nab, ok := batch.(*NonAtomicBatch)
	if !ok {
		t.Fatalf("unexpected batch type %T", batch)
	}
	assert.Equal(t, 0, len(nab.ShowOps()))
}
