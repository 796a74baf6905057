package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/finbook/finbook"
)

type debtpayCmd struct {
	id       string
	date     string
	category string
	currency string
}

func (*debtpayCmd) Name() string     { return "debtpay" }
func (*debtpayCmd) Synopsis() string { return "pay down a debt from a cash account" }
func (*debtpayCmd) Usage() string {
	return `fbk debtpay [-d <date>] [-c <category>] <from> <debt> <amount>

  Pays a debt: the source account balance falls and the debt balance
  falls by the same amount. Use "-" for the source to record a payment
  from outside the book.

Usage Examples:
$ fbk debtpay Checking "Visa Card" 250
`
}

func (p *debtpayCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.id, "id", "", "Transaction id. Generated when empty.")
	f.StringVar(&p.date, "d", "", "Transaction date (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&p.category, "c", "", "Category.")
	f.StringVar(&p.currency, "cur", "USD", "Currency when the debt account has none.")
}

func (p *debtpayCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Println(p.Usage())
		return subcommands.ExitUsageError
	}
	return run(ctx, func(ctx context.Context, app *App) error {
		day, err := parseDay(p.date)
		if err != nil {
			return err
		}
		from := f.Arg(0)
		if from == "-" {
			from = ""
		}
		amount, err := amountArg(app, f.Arg(1), f.Arg(2), p.currency)
		if err != nil {
			return err
		}
		id := p.id
		if id == "" {
			id = newTxID(finbook.KindDebtPayment)
		}
		tx := finbook.NewDebtPayment(id, day, "", p.category, from, f.Arg(1), amount)
		if _, err := app.Sys.AddTransaction(tx); err != nil {
			return err
		}
		fmt.Printf("Recorded debt payment %s: %s toward %s\n", id, amount, f.Arg(1))
		return nil
	})
}
