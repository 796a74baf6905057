package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/finbook/finbook/renderer"
)

type holdingsCmd struct {
	update bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "list open positions with their current valuation" }
func (*holdingsCmd) Usage() string {
	return `fbk holdings [-u]

  Lists every open position with shares, average cost, market value and
  unrealized P/L. Positions without a market quote are valued at average
  cost. With -u, quotes are refreshed first.
`
}

func (p *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.update, "u", false, "Refresh quotes before rendering.")
}

func (p *holdingsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, app *App) error {
		if p.update {
			if err := app.Sys.RefreshQuotes(ctx, false); err != nil {
				return err
			}
		}
		rows := renderer.HoldingRows(app.Sys.State, app.Sys.Market)
		printMarkdown(renderer.Holdings(rows))
		return nil
	})
}

type summaryCmd struct{}

func (*summaryCmd) Name() string             { return "summary" }
func (*summaryCmd) Synopsis() string         { return "show net worth and per-kind totals" }
func (*summaryCmd) SetFlags(f *flag.FlagSet) {}
func (*summaryCmd) Usage() string {
	return `fbk summary

  Shows assets, debts, net worth and the unrealized P/L across open
  positions. Closed accounts are excluded.
`
}

func (p *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, app *App) error {
		rows := renderer.HoldingRows(app.Sys.State, app.Sys.Market)
		printMarkdown(renderer.Summary(app.Sys.State.Accounts(), rows))
		return nil
	})
}
