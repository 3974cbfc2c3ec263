package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// globalFlags are accepted by every command.
type globalFlags struct {
	config  string
	dir     string
	env     string
	verbose bool
	timeout time.Duration
}

func newFlagSet(name, summary string) (*flag.FlagSet, *globalFlags) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: modelgate %s [flags]\n\n%s\n\nFlags:\n", name, summary)
		fs.PrintDefaults()
	}

	g := &globalFlags{}
	fs.StringVar(&g.config, "config", "", "path to configuration file (default: .modelgate/config.yaml or config.toml)")
	fs.StringVar(&g.dir, "dir", ".modelgate", "path to .modelgate directory")
	fs.StringVar(&g.env, "env", ".env", "path to .env file (ignored if missing)")
	fs.BoolVar(&g.verbose, "verbose", false, "log debug diagnostics to stderr")
	fs.DurationVar(&g.timeout, "timeout", 0, "discovery timeout (overrides discovery.timeout in config; 0 = none)")

	return fs, g
}
