package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	toml "github.com/pelletier/go-toml/v2"
)

type configCmd struct{}

func (*configCmd) Name() string     { return "config" }
func (*configCmd) Synopsis() string { return "print the effective configuration" }
func (*configCmd) Usage() string {
	return `cgt config

  Prints the configuration in effect, once the configuration file and the
  CAPGAINS_* environment variables are applied, in TOML format.
`
}

func (*configCmd) SetFlags(*flag.FlagSet) {}

func (*configCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if _, err := cfg.Rules(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Print(string(data))
	return subcommands.ExitSuccess
}
