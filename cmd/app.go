package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "capgains.toml", "Path to the configuration file (TOML format)")
var verbose = flag.Bool("v", false, "Log every trade applied (debug level)")

// loadConfig loads the configuration selected by the global flags.
func loadConfig() (*Config, error) {
	return LoadConfig(*configFile)
}

// newLogger creates the logger of a command, writing to stderr.
func newLogger(cfg *Config) zerolog.Logger {
	return newLoggerWithOutput(cfg, zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
}

func newLoggerWithOutput(cfg *Config, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil || cfg.Logging.Level == "" {
		lvl = zerolog.WarnLevel
	}
	if *verbose {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// printMarkdown renders md for the terminal, or prints it as is if it cannot.
func printMarkdown(w io.Writer, md string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		fmt.Fprint(w, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(w, md)
		return
	}
	fmt.Fprint(w, out)
}
