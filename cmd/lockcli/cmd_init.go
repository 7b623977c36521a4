package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/timelock/app"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Initialize the state from a genesis file.

The genesis file is a JSON document with "chain_id" and "app_state"
attributes. The state can be initialized only once.
`)
		fl.PrintDefaults()
	}
	var (
		genesisFl = fl.String("genesis", "genesis.json", "Path to the genesis file.")
		timeFl    = flTime(fl, "time", "Genesis time in RFC3339 format. Current time if not set.")
		nodeFl    = addNodeFlags(fl)
	)
	fl.Parse(args)

	gen, err := app.LoadGenesis(*genesisFl)
	if err != nil {
		return fmt.Errorf("cannot load genesis: %s", err)
	}

	n, err := nodeFl.open()
	if err != nil {
		return err
	}
	defer n.Close()

	if id := n.app.GetChainID(); id != "" {
		return fmt.Errorf("state is already initialized for chain %q", id)
	}
	runner := app.NewRunner(n.app, gen.ChainID)
	if err := runner.InitChain(gen.AppState, blockTime(timeFl)); err != nil {
		return fmt.Errorf("cannot initialize: %s", err)
	}
	_, err = fmt.Fprintf(output, "initialized chain %s\n", gen.ChainID)
	return err
}
