package sigs

import (
	"testing"

	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/timelocktest/assert"
)

func TestUserDataValidate(t *testing.T) {
	pub := crypto.GenPrivKey().PublicKey()

	cases := map[string]struct {
		user    UserData
		wantErr *errors.Error
	}{
		"fresh user":                  {user: UserData{}},
		"user with key":               {user: UserData{Pubkey: pub, Sequence: 5}},
		"negative sequence":           {user: UserData{Pubkey: pub, Sequence: -1}, wantErr: ErrInvalidSequence},
		"sequence without public key": {user: UserData{Sequence: 1}, wantErr: ErrInvalidSequence},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.user.Validate())
		})
	}
}

func TestCheckAndIncrementSequence(t *testing.T) {
	u := UserData{Pubkey: crypto.GenPrivKey().PublicKey()}
	assert.Nil(t, u.CheckAndIncrementSequence(0))
	assert.Equal(t, int64(1), u.Sequence)
	assert.IsErr(t, ErrInvalidSequence, u.CheckAndIncrementSequence(0))
	assert.Equal(t, int64(1), u.Sequence)

	u.Sequence = maxSequenceValue
	assert.IsErr(t, errors.ErrOverflow, u.CheckAndIncrementSequence(maxSequenceValue))
	assert.Equal(t, int64(maxSequenceValue), u.Sequence)
}

func TestBucketGetOrCreate(t *testing.T) {
	db := store.MemStore()
	b := NewBucket()
	pub := crypto.GenPrivKey().PublicKey()

	u, err := b.GetOrCreate(db, pub)
	assert.Nil(t, err)
	assert.Equal(t, &UserData{Pubkey: pub}, u)

	u.Sequence = 7
	assert.Nil(t, b.Save(db, u))

	loaded, err := b.GetOrCreate(db, pub)
	assert.Nil(t, err)
	assert.Equal(t, u, loaded)

	assert.IsErr(t, errors.ErrEmpty, b.Save(db, &UserData{}))
}

func TestStdSignatureSerialization(t *testing.T) {
	priv := crypto.GenPrivKey()
	sig, err := priv.Sign([]byte("hello"))
	assert.Nil(t, err)

	std := StdSignature{Sequence: 3, Pubkey: priv.PublicKey(), Signature: sig}
	raw, err := std.Marshal()
	assert.Nil(t, err)

	var got StdSignature
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, std, got)
}
