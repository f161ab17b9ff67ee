package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/capgains/server"
	"github.com/google/subcommands"
)

// serveCmd holds the flags for the 'serve' subcommand.
type serveCmd struct {
	host string
	port int
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the tax calculator over HTTP" }
func (*serveCmd) Usage() string {
	return `cgt serve [-host <host>] [-port <port>]

  Serves POST /api/v1/taxes, /health and /metrics until interrupted.
  See 'cgt topic serve'.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.host, "host", "", "Host to listen on. Defaults to the configuration.")
	f.IntVar(&c.port, "port", 0, "Port to listen on. Defaults to the configuration.")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.host != "" {
		cfg.Server.Host = c.host
	}
	if c.port != 0 {
		cfg.Server.Port = c.port
	}
	rules, err := cfg.Rules()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Serving on http://%s\n", cfg.Addr())
	if err := server.New(rules, newLogger(cfg)).ListenAndServe(ctx, cfg.Addr()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
