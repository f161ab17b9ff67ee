package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/capgains"
	"github.com/google/subcommands"
)

// calcCmd holds the flags for the 'calc' subcommand.
type calcCmd struct {
	path    string
	workers int

	in  io.Reader // standard input when nil
	out io.Writer // standard output when nil
}

func (*calcCmd) Name() string     { return "calc" }
func (*calcCmd) Synopsis() string { return "compute the tax owed by each trade" }
func (*calcCmd) Usage() string {
	return `cgt calc [-select <jsonpath>] [-workers <n>] [<file>...]

  Reads batches of trades, one JSON array per line, from the files or from the
  standard input, and prints one line per batch: the tax owed by each trade,
  or "There was an error in the input".

Usage Examples:
$ echo '[{"operation":"buy","unit-cost":10,"quantity":100}]' | cgt calc
[{"tax":0}]
`
}

func (c *calcCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "select", "", "JSONPath selecting the trades in each batch, e.g. $.trades")
	f.IntVar(&c.workers, "workers", 0, "Batches processed concurrently. Defaults to the configuration.")
}

func (c *calcCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	rules, err := cfg.Rules()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	opts := capgains.StreamOptions{
		Rules:   rules,
		Path:    c.path,
		Workers: cfg.Workers,
		Logger:  newLogger(cfg),
	}
	if c.workers > 0 {
		opts.Workers = c.workers
	}

	out := c.out
	if out == nil {
		out = os.Stdout
	}

	if f.NArg() == 0 {
		in := c.in
		if in == nil {
			in = os.Stdin
		}
		if err := capgains.ProcessStream(ctx, in, out, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	for _, name := range f.Args() {
		if err := processFile(ctx, name, out, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

func processFile(ctx context.Context, name string, out io.Writer, opts capgains.StreamOptions) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()
	return capgains.ProcessStream(ctx, file, out, opts)
}
