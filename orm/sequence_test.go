package orm

import (
	"bytes"
	"testing"

	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/timelocktest/assert"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()

	a := NewSequence("many", "a")
	b := NewSequence("many", "b")

	latest, err := a.Latest(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), latest)

	first, err := a.NextVal(db)
	assert.Nil(t, err)
	second, err := a.NextVal(db)
	assert.Nil(t, err)
	if bytes.Compare(first, second) >= 0 {
		t.Fatalf("sequence values not ordered: %X >= %X", first, second)
	}

	n, err := a.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(3), n)

	// independent counters do not interfere
	n, err = b.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), n)

	latest, err = a.Latest(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(3), latest)
}

func TestSequenceEncoding(t *testing.T) {
	for _, v := range []int64{0, 1, 255, 256, 1 << 40} {
		assert.Equal(t, v, DecodeSequence(EncodeSequence(v)))
	}
	if bytes.Compare(EncodeSequence(255), EncodeSequence(256)) >= 0 {
		t.Fatal("encoding does not keep the order")
	}
}
