package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/timelocktest/assert"
)

func TestKeygenAndKeyaddr(t *testing.T) {
	dir, err := ioutil.TempDir("", "lockcli")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)
	keyPath := filepath.Join(dir, "priv.key")

	var out bytes.Buffer
	assert.Nil(t, cmdKeygen(nil, &out, []string{"-key", keyPath}))
	assert.Equal(t, 0, out.Len())

	// an existing key is never overwritten
	before, err := ioutil.ReadFile(keyPath)
	assert.Nil(t, err)
	if err := cmdKeygen(nil, &out, []string{"-key", keyPath}); err == nil {
		t.Fatal("want an error when the key exists")
	}
	after, err := ioutil.ReadFile(keyPath)
	assert.Nil(t, err)
	assert.Equal(t, before, after)

	assert.Nil(t, cmdKeyaddr(nil, &out, []string{"-key", keyPath}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, 2, len(lines))

	key, err := readKey(keyPath)
	assert.Nil(t, err)
	want := key.PublicKey().Address()
	assert.Equal(t, want.String(), lines[0])

	// both representations decode to the same address
	for _, line := range lines {
		got, err := timelock.ParseAddress(line)
		assert.Nil(t, err)
		assert.Equal(t, want, got)
	}
}

func TestReadInvalidKey(t *testing.T) {
	dir, err := ioutil.TempDir("", "lockcli")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	keyPath := filepath.Join(dir, "priv.key")
	assert.Nil(t, ioutil.WriteFile(keyPath, []byte("too short"), 0600))
	if _, err := readKey(keyPath); err == nil {
		t.Fatal("want an error")
	}
	if _, err := readKey(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("want an error")
	}
}
