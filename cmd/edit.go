package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/google/subcommands"

	"github.com/finbook/finbook"
)

type editCmd struct {
	date     string
	merchant string
	category string
	amount   string
	account  string
	source   string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "edit an existing transaction" }
func (*editCmd) Usage() string {
	return `fbk edit [-d <date>] [-m <merchant>] [-c <category>] [-amount <n>] [-account <id>] [-from <id>] <tx-id>

  Edits the transaction with the given id. Only the provided flags change.
  Date, merchant and category edits never move balances. Changing the
  amount or an account reverses the old effect and applies the new one.

  Editing the amount of a buy or sell does not recompute the holding; use
  delete and a fresh invest for that.

Usage Examples:
$ fbk edit -c Groceries expense-k2h1x
$ fbk edit -amount 60.20 expense-k2h1x
`
}

func (p *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "d", "", "New transaction date (YYYY-MM-DD).")
	f.StringVar(&p.merchant, "m", "", "New merchant.")
	f.StringVar(&p.category, "c", "", "New category.")
	f.StringVar(&p.amount, "amount", "", "New amount.")
	f.StringVar(&p.account, "account", "", "New primary account (recipient, debt or investing account).")
	f.StringVar(&p.source, "from", "", "New source account.")
}

func (p *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Println(p.Usage())
		return subcommands.ExitUsageError
	}
	return run(ctx, func(ctx context.Context, app *App) error {
		id := f.Arg(0)
		stored := app.Sys.State.Ledger().Get(id)
		if stored == nil {
			return fmt.Errorf("transaction %q not found", id)
		}
		edited, err := p.apply(stored)
		if err != nil {
			return err
		}
		if _, err := app.Sys.EditTransaction(stored, edited); err != nil {
			return err
		}
		fmt.Printf("Edited transaction %s\n", id)
		return nil
	})
}

// apply rebuilds the stored transaction with the flagged fields replaced.
func (p *editCmd) apply(stored finbook.Transaction) (finbook.Transaction, error) {
	day := stored.When()
	if p.date != "" {
		var err error
		if day, err = finbook.ParseDate(p.date); err != nil {
			return nil, err
		}
	}
	newAmount := func(old finbook.Money) (finbook.Money, error) {
		if p.amount == "" {
			return old, nil
		}
		v, err := strconv.ParseFloat(p.amount, 64)
		if err != nil {
			return old, fmt.Errorf("invalid amount %q: %w", p.amount, err)
		}
		return finbook.M(v, old.Currency()), nil
	}
	pick := func(flagged, old string) string {
		if flagged != "" {
			return flagged
		}
		return old
	}

	switch v := stored.(type) {
	case finbook.Income:
		amount, err := newAmount(v.Amount)
		if err != nil {
			return nil, err
		}
		return finbook.NewIncome(v.ID(), day, pick(p.merchant, v.Merchant), pick(p.category, v.Category),
			pick(p.account, v.AccountID), amount), nil
	case finbook.Expense:
		amount, err := newAmount(v.Amount)
		if err != nil {
			return nil, err
		}
		return finbook.NewExpense(v.ID(), day, pick(p.merchant, v.Merchant), pick(p.category, v.Category),
			pick(p.account, v.AccountID), amount), nil
	case finbook.Transfer:
		amount, err := newAmount(v.Amount)
		if err != nil {
			return nil, err
		}
		return finbook.NewTransfer(v.ID(), day, pick(p.merchant, v.Merchant), pick(p.category, v.Category),
			pick(p.source, v.SourceAccountID), pick(p.account, v.RecipientAccountID), amount), nil
	case finbook.DebtPayment:
		amount, err := newAmount(v.Amount)
		if err != nil {
			return nil, err
		}
		return finbook.NewDebtPayment(v.ID(), day, pick(p.merchant, v.Merchant), pick(p.category, v.Category),
			pick(p.source, v.SourceAccountID), pick(p.account, v.DebtAccountID), amount), nil
	case finbook.Investing:
		amount, err := newAmount(v.Amount)
		if err != nil {
			return nil, err
		}
		edited := v
		edited.Date = day
		edited.Merchant = pick(p.merchant, v.Merchant)
		edited.Category = pick(p.category, v.Category)
		edited.AccountID = pick(p.account, v.AccountID)
		edited.SourceAccountID = pick(p.source, v.SourceAccountID)
		edited.Amount = amount
		return edited, nil
	default:
		return nil, fmt.Errorf("cannot edit a %s transaction", stored.Kind())
	}
}
