package timelocktest

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/crypto"
)

func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKey()
}

func NewCondition() timelock.Condition {
	return NewKey().PublicKey().Condition()
}

// RandomAddr returns a valid random address generated on the fly.
func RandomAddr(t testing.TB) timelock.Address {
	t.Helper()
	raw := make([]byte, timelock.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	return timelock.Address(raw)
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation.
func ParseAddress(t testing.TB, encodedAddress string) timelock.Address {
	t.Helper()

	addr, err := timelock.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
