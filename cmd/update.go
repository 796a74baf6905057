package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/finbook/finbook/renderer"
)

type updateCmd struct{}

func (*updateCmd) Name() string             { return "update" }
func (*updateCmd) Synopsis() string         { return "fetch fresh quotes and revalue holdings" }
func (*updateCmd) SetFlags(f *flag.FlagSet) {}
func (*updateCmd) Usage() string {
	return `fbk update

  Fetches the latest market price for every held ticker and re-derives
  the investing account balances from the valued holdings. Requires
  FINBOOK_QUOTES_KEY to be set.
`
}

func (p *updateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, app *App) error {
		if err := app.Sys.RefreshQuotes(ctx, true); err != nil {
			return err
		}
		rows := renderer.HoldingRows(app.Sys.State, app.Sys.Market)
		printMarkdown(renderer.Holdings(rows))
		return nil
	})
}
