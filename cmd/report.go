package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/capgains"
	"github.com/etnz/capgains/renderer"
	"github.com/google/subcommands"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	path   string
	raw    bool
	asJSON bool

	in  io.Reader
	out io.Writer
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "replay a batch of trades step by step" }
func (*reportCmd) Usage() string {
	return `cgt report [-select <jsonpath>] [-raw | -json] [<file>]

  Replays a single batch of trades, read from the file or the standard input,
  and prints the position, the deficit and the tax after each trade.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "select", "", "JSONPath selecting the trades in the document, e.g. $.trades")
	f.BoolVar(&c.raw, "raw", false, "Print the markdown source of the report")
	f.BoolVar(&c.asJSON, "json", false, "Print each step as a JSON line")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "report takes at most one file")
		return subcommands.ExitUsageError
	}

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

	var data []byte
	if f.NArg() == 1 {
		data, err = os.ReadFile(f.Arg(0))
	} else {
		in := c.in
		if in == nil {
			in = os.Stdin
		}
		data, err = io.ReadAll(in)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading trades: %v\n", err)
		return subcommands.ExitFailure
	}

	trades, err := capgains.DecodeTradesAt(data, c.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	steps, err := capgains.Trace(rules, trades)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	out := c.out
	if out == nil {
		out = os.Stdout
	}

	switch {
	case c.asJSON:
		enc := json.NewEncoder(out)
		for _, s := range steps {
			if err := enc.Encode(s); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return subcommands.ExitFailure
			}
		}
	case c.raw:
		fmt.Fprint(out, renderer.ReplayMarkdown(rules, steps))
	default:
		printMarkdown(out, renderer.ReplayMarkdown(rules, steps))
	}
	return subcommands.ExitSuccess
}
