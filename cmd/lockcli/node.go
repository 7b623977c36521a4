package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iov-one/timelock/app"
	"github.com/iov-one/timelock/store/iavl"
	"github.com/tendermint/tendermint/libs/log"
)

// nodeFlags are shared by all commands that access the state.
type nodeFlags struct {
	home     *string
	logLevel *string
	// debug includes the stack trace in the error responses.
	debug bool
}

func addNodeFlags(fl *flag.FlagSet) nodeFlags {
	return nodeFlags{
		home: fl.String("home", defaultHome(),
			"Directory of the durable state. You can use LOCKCLI_HOME environment variable to set it."),
		logLevel: fl.String("log-level", "error",
			"Log level, one of debug, info, error or none."),
	}
}

// node is a local application instance over the durable store.
type node struct {
	app    *app.Application
	runner *app.Runner
	db     iavl.CommitStore
}

// open loads the application state from the home directory. The node must
// be closed to release the database. Logs are written to stderr.
func (nf nodeFlags) open() (*node, error) {
	logger, err := newLogger(os.Stderr, *nf.logLevel)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(*nf.home, "data")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("cannot create data directory: %s", err)
	}
	db := iavl.NewCommitStore(dir, "timelock")
	a := app.NewApplication(db, logger, nf.debug)
	return &node{
		app:    a,
		runner: app.NewRunner(a, a.GetChainID()),
		db:     db,
	}, nil
}

// openInitialized is like open but fails if the chain was not initialized.
func (nf nodeFlags) openInitialized() (*node, error) {
	n, err := nf.open()
	if err != nil {
		return nil, err
	}
	if n.app.GetChainID() == "" {
		n.Close()
		return nil, fmt.Errorf("state in %q is not initialized, run init first", *nf.home)
	}
	return n, nil
}

func (n *node) Close() {
	n.db.Close()
}

func newLogger(w io.Writer, level string) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(w))
	if level == "none" {
		return log.NewFilter(logger, log.AllowNone()), nil
	}
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %s", err)
	}
	return log.NewFilter(logger, opt), nil
}
