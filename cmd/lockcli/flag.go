package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *timelock.Address {
	var a flagaddr
	if defaultVal != "" {
		if err := a.Set(defaultVal); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&a, name, usage)
	return (*timelock.Address)(&a)
}

type flagaddr timelock.Address

func (a flagaddr) String() string {
	if len(a) == 0 {
		return ""
	}
	return timelock.Address(a).String()
}

// Set accepts all formats supported by timelock.ParseAddress.
func (a *flagaddr) Set(raw string) error {
	addr, err := timelock.ParseAddress(raw)
	if err != nil {
		return err
	}
	*a = flagaddr(addr)
	return nil
}

// flCoin returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flCoin(fl *flag.FlagSet, name, defaultVal, usage string) *coin.Coin {
	var c coin.Coin
	if defaultVal != "" {
		var err error
		c, err = coin.ParseHumanFormat(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q coin flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&c, name, usage)
	return &c
}

// flTime returns a block time flag. An empty value means the current time.
func flTime(fl *flag.FlagSet, name, usage string) *time.Time {
	var t flagtime
	fl.Var(&t, name, usage)
	return (*time.Time)(&t)
}

type flagtime time.Time

func (t flagtime) String() string {
	if time.Time(t).IsZero() {
		return ""
	}
	return time.Time(t).UTC().Format(time.RFC3339)
}

func (t *flagtime) Set(raw string) error {
	v, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return err
	}
	*t = flagtime(v.UTC())
	return nil
}

// blockTime returns given time or the current time if none was given.
func blockTime(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return time.Now().UTC()
	}
	return *t
}
