package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/google/subcommands"

	"github.com/finbook/finbook"
)

// amountArg parses a positional amount in the currency of the target
// account, falling back to the explicit currency flag.
func amountArg(app *App, accountID, raw, currency string) (finbook.Money, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return finbook.Money{}, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if a := app.Sys.State.Account(accountID); a != nil && a.Balance.Currency() != "" {
		currency = a.Balance.Currency()
	}
	return finbook.M(v, currency), nil
}

type incomeCmd struct {
	id       string
	date     string
	merchant string
	category string
	currency string
}

func (*incomeCmd) Name() string     { return "income" }
func (*incomeCmd) Synopsis() string { return "record an income transaction" }
func (*incomeCmd) Usage() string {
	return `fbk income [-d <date>] [-m <merchant>] [-c <category>] <account> <amount>

  Records money coming in. On an asset account the balance rises; on a
  debt account it falls.

Usage Examples:
$ fbk income -m "ACME Corp" -c Salary Checking 4200
`
}

func (p *incomeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.id, "id", "", "Transaction id. Generated when empty.")
	f.StringVar(&p.date, "d", "", "Transaction date (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&p.merchant, "m", "", "Merchant or payer.")
	f.StringVar(&p.category, "c", "", "Category.")
	f.StringVar(&p.currency, "cur", "USD", "Currency when the account has none.")
}

func (p *incomeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Println(p.Usage())
		return subcommands.ExitUsageError
	}
	return run(ctx, func(ctx context.Context, app *App) error {
		day, err := parseDay(p.date)
		if err != nil {
			return err
		}
		amount, err := amountArg(app, f.Arg(0), f.Arg(1), p.currency)
		if err != nil {
			return err
		}
		id := p.id
		if id == "" {
			id = newTxID(finbook.KindIncome)
		}
		tx := finbook.NewIncome(id, day, p.merchant, p.category, f.Arg(0), amount)
		if _, err := app.Sys.AddTransaction(tx); err != nil {
			return err
		}
		fmt.Printf("Recorded income %s: %s into %s\n", id, amount, f.Arg(0))
		return nil
	})
}

type expenseCmd struct {
	id       string
	date     string
	merchant string
	category string
	currency string
}

func (*expenseCmd) Name() string     { return "expense" }
func (*expenseCmd) Synopsis() string { return "record an expense transaction" }
func (*expenseCmd) Usage() string {
	return `fbk expense [-d <date>] [-m <merchant>] [-c <category>] <account> <amount>

  Records money going out. On an asset account the balance falls; on a
  debt account (a card purchase) it rises.

Usage Examples:
$ fbk expense -m "Corner Store" -c Groceries Checking 54.20
$ fbk expense -m "Gas Station" -c Fuel "Visa Card" 60
`
}

func (p *expenseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.id, "id", "", "Transaction id. Generated when empty.")
	f.StringVar(&p.date, "d", "", "Transaction date (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&p.merchant, "m", "", "Merchant.")
	f.StringVar(&p.category, "c", "", "Category.")
	f.StringVar(&p.currency, "cur", "USD", "Currency when the account has none.")
}

func (p *expenseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Println(p.Usage())
		return subcommands.ExitUsageError
	}
	return run(ctx, func(ctx context.Context, app *App) error {
		day, err := parseDay(p.date)
		if err != nil {
			return err
		}
		amount, err := amountArg(app, f.Arg(0), f.Arg(1), p.currency)
		if err != nil {
			return err
		}
		id := p.id
		if id == "" {
			id = newTxID(finbook.KindExpense)
		}
		tx := finbook.NewExpense(id, day, p.merchant, p.category, f.Arg(0), amount)
		if _, err := app.Sys.AddTransaction(tx); err != nil {
			return err
		}
		fmt.Printf("Recorded expense %s: %s from %s\n", id, amount, f.Arg(0))
		return nil
	})
}
