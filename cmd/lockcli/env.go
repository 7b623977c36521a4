package main

import (
	"os"
	"path/filepath"
)

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

func defaultHome() string {
	return env("LOCKCLI_HOME", filepath.Join(os.Getenv("HOME"), ".timelock"))
}

func defaultKeyPath() string {
	return env("LOCKCLI_PRIV_KEY", filepath.Join(os.Getenv("HOME"), ".timelock.priv.key"))
}
