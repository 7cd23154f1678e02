package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/stocksboard/docs"
	"github.com/etnz/stocksboard/renderer"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `sb topic [<topic>...]

  Shows the documentation for the given topics, '*' for all of them.
  Without a topic, lists the available topics.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}

	doc, err := docs.GetTopics(topics...)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading doc: %v\n", err)
		return subcommands.ExitFailure
	}
	out, err := renderer.ParseFormat(*format)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := renderer.Print(stdout, doc, out); err != nil {
		fmt.Fprintf(stderr, "Error rendering doc: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
