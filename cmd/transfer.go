package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/finbook/finbook"
)

type transferCmd struct {
	id       string
	date     string
	category string
	currency string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move money between two accounts" }
func (*transferCmd) Usage() string {
	return `fbk transfer [-d <date>] [-c <category>] <from> <to> <amount>

  Moves money from one account to another. Both sides move by the raw
  amount, whatever their kind. Use "-" for a missing side: a transfer
  with only a recipient behaves as income, with only a source as an
  expense.

Usage Examples:
$ fbk transfer Checking Savings 500
$ fbk transfer - Checking 100
`
}

func (p *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.id, "id", "", "Transaction id. Generated when empty.")
	f.StringVar(&p.date, "d", "", "Transaction date (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&p.category, "c", "", "Category.")
	f.StringVar(&p.currency, "cur", "USD", "Currency when neither account has one.")
}

func (p *transferCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Println(p.Usage())
		return subcommands.ExitUsageError
	}
	return run(ctx, func(ctx context.Context, app *App) error {
		day, err := parseDay(p.date)
		if err != nil {
			return err
		}
		from, to := f.Arg(0), f.Arg(1)
		if from == "-" {
			from = ""
		}
		if to == "-" {
			to = ""
		}
		ref := from
		if ref == "" {
			ref = to
		}
		amount, err := amountArg(app, ref, f.Arg(2), p.currency)
		if err != nil {
			return err
		}
		id := p.id
		if id == "" {
			id = newTxID(finbook.KindTransfer)
		}
		tx := finbook.NewTransfer(id, day, "", p.category, from, to, amount)
		if _, err := app.Sys.AddTransaction(tx); err != nil {
			return err
		}
		fmt.Printf("Recorded transfer %s: %s\n", id, amount)
		return nil
	})
}
