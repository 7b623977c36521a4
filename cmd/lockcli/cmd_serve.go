package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tendermint/tendermint/abci/server"
	cmn "github.com/tendermint/tendermint/libs/common"
)

// awaitShutdown blocks the serve command. The process is terminated by the
// signal handler.
var awaitShutdown = func() { select {} }

func cmdServe(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Expose the initialized ledger as an ABCI application so that a tendermint
node can drive it. The command blocks until interrupted.
		`)
		fl.PrintDefaults()
	}
	var (
		bindFl  = fl.String("bind", "tcp://localhost:26658", "Address the ABCI server listens on.")
		debugFl = fl.Bool("debug", false, "Include the call stack in error responses.")
		nodeFl  = addNodeFlags(fl)
	)
	fl.Parse(args)

	nodeFl.debug = *debugFl
	n, err := nodeFl.openInitialized()
	if err != nil {
		return err
	}

	logger, err := newLogger(os.Stderr, *nodeFl.logLevel)
	if err != nil {
		n.Close()
		return err
	}
	logger.Info("Starting ABCI app", "bind", *bindFl, "chain", n.app.GetChainID())

	svr, err := server.NewServer(*bindFl, "socket", n.app)
	if err != nil {
		n.Close()
		return fmt.Errorf("cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		n.Close()
		return fmt.Errorf("cannot start server: %s", err)
	}

	cmn.TrapSignal(logger, func() {
		svr.Stop()
		n.Close()
	})
	awaitShutdown()

	svr.Stop()
	n.Close()
	return nil
}
