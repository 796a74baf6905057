package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"google.golang.org/genai"

	"github.com/finbook/finbook/agent"
)

type assistCmd struct{}

func (*assistCmd) Name() string             { return "assist" }
func (*assistCmd) Synopsis() string         { return "chat with an assistant that can read the book" }
func (*assistCmd) SetFlags(f *flag.FlagSet) {}
func (*assistCmd) Usage() string {
	return `fbk assist [question ...]

  Starts an interactive chat session with an assistant grounded in the
  book: it reads accounts, holdings and transactions through tools, so
  answers reflect the actual ledger. Requires GEMINI_API_KEY.

  Each argument is submitted as a question before the interactive
  prompt, so one-shot questions can be scripted.

Usage Examples:
$ fbk assist
$ fbk assist "how long until my card is paid off at 250 a month?" bye
`
}

func (p *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, app *App) error {
		client, err := genai.NewClient(ctx, nil)
		if err != nil {
			return fmt.Errorf("cannot create the assistant client: %w", err)
		}
		a := agent.New(os.Stdout, os.Stdin, agent.NewAdvisor(app.Sys))
		return a.Run(ctx, client, f.Args()...)
	})
}
