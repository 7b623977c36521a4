package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/app"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/x/ledger"
	"github.com/iov-one/timelock/x/sigs"
	abci "github.com/tendermint/tendermint/abci/types"
)

func cmdDeposit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Move funds of the key owner into custody. The funds are locked for 72 hours.

Each owner can deposit only once. The deposit record with the amount that was
actually received is printed on success.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use LOCKCLI_PRIV_KEY environment variable to set it.")
		amountFl = flCoin(fl, "amount", "", "Amount to deposit, for example \"500 TKN\".")
		timeFl   = flTime(fl, "time", "Block time in RFC3339 format. Current time if not set.")
		nodeFl   = addNodeFlags(fl)
	)
	fl.Parse(args)

	msg := &ledger.DepositMsg{Asset: amountFl.Ticker, Amount: amountFl.Amount}
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid deposit: %s", err)
	}
	return submit(output, nodeFl, *keyPathFl, msg, blockTime(timeFl))
}

func cmdWithdraw(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Return the deposit of the key owner once its release time has passed.

If the payout fails, the deposit is forfeited.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use LOCKCLI_PRIV_KEY environment variable to set it.")
		timeFl = flTime(fl, "time", "Block time in RFC3339 format. Current time if not set.")
		nodeFl = addNodeFlags(fl)
	)
	fl.Parse(args)

	return submit(output, nodeFl, *keyPathFl, &ledger.WithdrawMsg{}, blockTime(timeFl))
}

// submit signs given message with the key and executes it in a new block.
// The deposit returned by the ledger is printed.
func submit(output io.Writer, nodeFl nodeFlags, keyPath string, msg timelock.Msg, now time.Time) error {
	key, err := readKey(keyPath)
	if err != nil {
		return err
	}
	n, err := nodeFl.openInitialized()
	if err != nil {
		return err
	}
	defer n.Close()

	raw, err := signTx(n.app, n.app.GetChainID(), key, msg)
	if err != nil {
		return err
	}
	res, err := n.runner.RunBlock(now, raw)
	if err != nil {
		return fmt.Errorf("cannot execute block: %s", err)
	}
	if err := app.DeliverError(res[0]); err != nil {
		return fmt.Errorf("%s failed: %s", msg.Path(), err)
	}
	var dep ledger.Deposit
	if err := dep.Unmarshal(res[0].Data); err != nil {
		return fmt.Errorf("cannot decode deposit: %s", err)
	}
	return printJSON(output, &dep)
}

func signTx(a abci.Application, chainID string, key *crypto.PrivateKey, msg timelock.Msg) ([]byte, error) {
	seq, err := nextSequence(a, key.PublicKey().Address())
	if err != nil {
		return nil, err
	}
	tx := app.NewTx(msg)
	if err := tx.Sign(key, chainID, seq); err != nil {
		return nil, fmt.Errorf("cannot sign transaction: %s", err)
	}
	return tx.Marshal()
}

func nextSequence(a abci.Application, signer timelock.Address) (int64, error) {
	models, err := app.QueryModels(a, "/auth", signer)
	if err != nil {
		return 0, fmt.Errorf("cannot query sequence: %s", err)
	}
	if len(models) == 0 {
		return 0, nil
	}
	var user sigs.UserData
	if err := user.Unmarshal(models[0].Value); err != nil {
		return 0, fmt.Errorf("cannot decode user data: %s", err)
	}
	return user.Sequence, nil
}

func cmdDepositInfo(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the deposit record of an owner. An owner without a deposit has a zero
record.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file, used when no owner is given.")
		ownerFl = flAddress(fl, "owner", "", "Address of the deposit owner.")
		nodeFl  = addNodeFlags(fl)
	)
	fl.Parse(args)

	owner, err := ownerOrKey(*ownerFl, *keyPathFl)
	if err != nil {
		return err
	}
	n, err := nodeFl.openInitialized()
	if err != nil {
		return err
	}
	defer n.Close()

	models, err := app.QueryModels(n.app, "/deposits", owner)
	if err != nil {
		return err
	}
	var dep ledger.Deposit
	if len(models) != 0 {
		if err := dep.Unmarshal(models[0].Value); err != nil {
			return fmt.Errorf("cannot decode deposit: %s", err)
		}
	}
	return printJSON(output, &dep)
}

func cmdEvents(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print all deposit and withdrawal events of an owner, oldest first.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file, used when no owner is given.")
		ownerFl = flAddress(fl, "owner", "", "Address of the deposit owner.")
		nodeFl  = addNodeFlags(fl)
	)
	fl.Parse(args)

	owner, err := ownerOrKey(*ownerFl, *keyPathFl)
	if err != nil {
		return err
	}
	n, err := nodeFl.openInitialized()
	if err != nil {
		return err
	}
	defer n.Close()

	models, err := app.QueryModels(n.app, "/events/owner", owner)
	if err != nil {
		return err
	}
	type eventView struct {
		Kind        string            `json:"kind"`
		Owner       timelock.Address  `json:"owner"`
		Asset       string            `json:"asset"`
		Amount      uint64            `json:"amount"`
		ReleaseTime timelock.UnixTime `json:"release_time,omitempty"`
	}
	events := make([]eventView, 0, len(models))
	for _, m := range models {
		var e ledger.Event
		if err := e.Unmarshal(m.Value); err != nil {
			return fmt.Errorf("cannot decode event: %s", err)
		}
		events = append(events, eventView{
			Kind:        e.Kind.String(),
			Owner:       e.Owner,
			Asset:       e.Asset,
			Amount:      e.Amount,
			ReleaseTime: e.ReleaseTime,
		})
	}
	return printJSON(output, events)
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the balance of an address in given asset. Use -custody to print the
balance held by the ledger.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file, used when no address is given.")
		addrFl    = flAddress(fl, "addr", "", "Address to print the balance of.")
		custodyFl = fl.Bool("custody", false, "Print the balance of the ledger custody account.")
		tickerFl  = fl.String("ticker", "", "Asset ticker.")
		nodeFl    = addNodeFlags(fl)
	)
	fl.Parse(args)

	if *tickerFl == "" {
		return fmt.Errorf("-ticker is required")
	}
	addr := *addrFl
	if *custodyFl {
		addr = ledger.Custody()
	}
	addr, err := ownerOrKey(addr, *keyPathFl)
	if err != nil {
		return err
	}
	n, err := nodeFl.openInitialized()
	if err != nil {
		return err
	}
	defer n.Close()

	amount, err := n.app.Bank.Balance(n.db.CacheWrap(), addr, *tickerFl)
	if err != nil {
		return fmt.Errorf("cannot load balance: %s", err)
	}
	_, err = fmt.Fprintln(output, amount)
	return err
}

// ownerOrKey returns given address or the address of the key if none was
// given.
func ownerOrKey(addr timelock.Address, keyPath string) (timelock.Address, error) {
	if len(addr) != 0 {
		return addr, nil
	}
	key, err := readKey(keyPath)
	if err != nil {
		return nil, err
	}
	return key.PublicKey().Address(), nil
}

func printJSON(output io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(raw))
	return err
}
