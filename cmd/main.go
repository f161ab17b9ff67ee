// Package cmd implements the cgt command line.
package cmd

import (
	"github.com/etnz/capgains/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&calcCmd{}, "taxes")
	c.Register(&reportCmd{}, "taxes")

	c.Register(&serveCmd{}, "service")

	c.Register(&configCmd{}, "help")
	c.Register(&topicCmd{}, "help")
}

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	topics, _ := docs.GetAllTopics()
	topics = append(topics, "readme")

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.toml"),
			"v":      predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"calc": {
				Flags: map[string]complete.Predictor{
					"select":  predict.Something,
					"workers": predict.Something,
				},
				Args: predict.Files("*"),
			},
			"report": {
				Flags: map[string]complete.Predictor{
					"select": predict.Something,
					"raw":    predict.Nothing,
					"json":   predict.Nothing,
				},
				Args: predict.Files("*.json"),
			},
			"serve": {
				Flags: map[string]complete.Predictor{
					"host": predict.Something,
					"port": predict.Something,
				},
			},
			"config": {},
			"topic": {
				Flags: map[string]complete.Predictor{"raw": predict.Nothing},
				Args:  predict.Set(topics),
			},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
}
