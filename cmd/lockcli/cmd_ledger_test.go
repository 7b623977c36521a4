package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iov-one/timelock/timelocktest/assert"
	"github.com/iov-one/timelock/x/ledger"
)

func TestLedgerCommands(t *testing.T) {
	dir, err := ioutil.TempDir("", "lockcli")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	home := filepath.Join(dir, "home")
	keyPath := filepath.Join(dir, "priv.key")
	assert.Nil(t, cmdKeygen(nil, ioutil.Discard, []string{"-key", keyPath}))
	key, err := readKey(keyPath)
	assert.Nil(t, err)
	owner := key.PublicKey().Address()

	genesisPath := filepath.Join(dir, "genesis.json")
	genesis := fmt.Sprintf(`{
		"chain_id": "lockcli-test",
		"app_state": {
			"assets": [{"ticker": "TKN"}],
			"cash": [{"address": %q, "coins": ["1000 TKN"]}]
		}
	}`, owner)
	assert.Nil(t, ioutil.WriteFile(genesisPath, []byte(genesis), 0600))

	var out bytes.Buffer
	common := []string{"-home", home, "-log-level", "none"}

	// nothing works before init
	if err := cmdDepositInfo(nil, &out, append([]string{"-key", keyPath}, common...)); err == nil {
		t.Fatal("want an error for uninitialized state")
	}

	assert.Nil(t, cmdInit(nil, &out, append([]string{"-genesis", genesisPath, "-time", "2019-03-01T12:00:00Z"}, common...)))
	assert.Equal(t, "initialized chain lockcli-test\n", out.String())
	if err := cmdInit(nil, &out, append([]string{"-genesis", genesisPath}, common...)); err == nil {
		t.Fatal("want an error when initializing twice")
	}

	// an unknown owner has a zero record
	out.Reset()
	assert.Nil(t, cmdDepositInfo(nil, &out, append([]string{"-owner", "0000000000000000000000000000000000000001"}, common...)))
	var dep ledger.Deposit
	assert.Nil(t, json.Unmarshal(out.Bytes(), &dep))
	assert.Equal(t, true, dep.IsZero())

	depositAt := time.Date(2019, time.March, 1, 13, 0, 0, 0, time.UTC)
	out.Reset()
	assert.Nil(t, cmdDeposit(nil, &out, append([]string{"-key", keyPath, "-amount", "400 TKN", "-time", depositAt.Format(time.RFC3339)}, common...)))
	dep = ledger.Deposit{}
	assert.Nil(t, json.Unmarshal(out.Bytes(), &dep))
	assert.Equal(t, uint64(400), dep.Amount)
	assert.Equal(t, depositAt.Add(ledger.LockDuration).Unix(), int64(dep.ReleaseTime))

	out.Reset()
	assert.Nil(t, cmdBalance(nil, &out, append([]string{"-key", keyPath, "-ticker", "TKN"}, common...)))
	assert.Equal(t, "600 TKN\n", out.String())
	out.Reset()
	assert.Nil(t, cmdBalance(nil, &out, append([]string{"-custody", "-ticker", "TKN"}, common...)))
	assert.Equal(t, "400 TKN\n", out.String())

	// still locked
	early := depositAt.Add(time.Hour).Format(time.RFC3339)
	err = cmdWithdraw(nil, &out, append([]string{"-key", keyPath, "-time", early}, common...))
	if err == nil || !strings.Contains(err.Error(), "locked") {
		t.Fatalf("want a locked error, got %v", err)
	}

	out.Reset()
	mature := depositAt.Add(ledger.LockDuration).Format(time.RFC3339)
	assert.Nil(t, cmdWithdraw(nil, &out, append([]string{"-key", keyPath, "-time", mature}, common...)))
	dep = ledger.Deposit{}
	assert.Nil(t, json.Unmarshal(out.Bytes(), &dep))
	assert.Equal(t, true, dep.Withdrawn)

	out.Reset()
	assert.Nil(t, cmdDepositInfo(nil, &out, append([]string{"-key", keyPath}, common...)))
	dep = ledger.Deposit{}
	assert.Nil(t, json.Unmarshal(out.Bytes(), &dep))
	assert.Equal(t, true, dep.Withdrawn)
	assert.Equal(t, uint64(400), dep.Amount)

	out.Reset()
	assert.Nil(t, cmdBalance(nil, &out, append([]string{"-key", keyPath, "-ticker", "TKN"}, common...)))
	assert.Equal(t, "1000 TKN\n", out.String())

	out.Reset()
	assert.Nil(t, cmdEvents(nil, &out, append([]string{"-key", keyPath}, common...)))
	var events []struct {
		Kind   string `json:"kind"`
		Amount uint64 `json:"amount"`
	}
	assert.Nil(t, json.Unmarshal(out.Bytes(), &events))
	assert.Equal(t, 2, len(events))
	assert.Equal(t, ledger.EventDeposited.String(), events[0].Kind)
	assert.Equal(t, ledger.EventWithdrawn.String(), events[1].Kind)
}
