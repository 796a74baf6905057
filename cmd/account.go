package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/finbook/finbook"
	"github.com/finbook/finbook/renderer"
)

type accountCmd struct {
	id       string
	kind     string
	subtype  string
	currency string
}

func (*accountCmd) Name() string     { return "account" }
func (*accountCmd) Synopsis() string { return "create an asset or debt account" }
func (*accountCmd) Usage() string {
	return `fbk account [-id <id>] [-kind asset|debt] [-subtype <subtype>] [-c <currency>] <name>

  Creates a new account. An investing account (-subtype investing) derives
  its balance from the valuation of its holdings.

Usage Examples:
$ fbk account -c EUR Checking
$ fbk account -kind debt -c USD "Visa Card"
$ fbk account -subtype investing -c USD Brokerage
`
}

func (p *accountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.id, "id", "", "Account id. Defaults to the name.")
	f.StringVar(&p.kind, "kind", "asset", "Account kind (asset, debt).")
	f.StringVar(&p.subtype, "subtype", "", "Account subtype (e.g. investing).")
	f.StringVar(&p.currency, "c", "USD", "Account currency code.")
}

func (p *accountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Println(p.Usage())
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)
	return run(ctx, func(ctx context.Context, app *App) error {
		kind, err := finbook.ParseAccountKind(p.kind)
		if err != nil {
			return err
		}
		id := p.id
		if id == "" {
			id = name
		}
		if app.Sys.State.Account(id) != nil {
			return fmt.Errorf("account %q already exists", id)
		}
		a := finbook.NewAccount(id, name, kind, p.subtype, p.currency)
		if err := app.Sys.AddAccount(a); err != nil {
			return err
		}
		fmt.Printf("Created %s account %q\n", kind, id)
		return nil
	})
}

type accountsCmd struct{}

func (*accountsCmd) Name() string             { return "accounts" }
func (*accountsCmd) Synopsis() string         { return "list all accounts with their balances" }
func (*accountsCmd) SetFlags(f *flag.FlagSet) {}
func (*accountsCmd) Usage() string {
	return `fbk accounts

  Lists every asset and debt account with its current balance and status.
`
}

func (p *accountsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, app *App) error {
		printMarkdown(renderer.Accounts(app.Sys.State.Accounts()))
		return nil
	})
}
