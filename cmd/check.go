package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/finbook/finbook/renderer"
)

type checkCmd struct{}

func (*checkCmd) Name() string             { return "check" }
func (*checkCmd) Synopsis() string         { return "verify balances and holdings against a full ledger replay" }
func (*checkCmd) SetFlags(f *flag.FlagSet) {}
func (*checkCmd) Usage() string {
	return `fbk check

  Replays the entire ledger from scratch and compares the result against
  the cached balances and holdings. Reports every divergence beyond the
  0.01 tolerance. A clean report means the incremental bookkeeping has
  not drifted.
`
}

func (p *checkCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, app *App) error {
		drifts := app.Sys.State.Replay(app.Sys.Market)
		printMarkdown(renderer.Drifts(drifts))
		if len(drifts) > 0 {
			return fmt.Errorf("%d drift(s) found", len(drifts))
		}
		return nil
	})
}
