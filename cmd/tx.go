package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/finbook/finbook"
	"github.com/finbook/finbook/renderer"
)

type txCmd struct {
	start   string
	date    string
	account string
	head    int
	tail    int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions in the ledger" }
func (*txCmd) Usage() string {
	return `fbk tx [-s <start_date>] [-d <end_date>] [-account <id>] [-head <n>] [-tail <n>]

  Lists transactions in chronological order, with options for filtering
  and limiting the output.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.start, "s", "", "Only transactions on or after this date.")
	f.StringVar(&p.date, "d", "", "Only transactions on or before this date.")
	f.StringVar(&p.account, "account", "", "Only transactions touching this account.")
	f.IntVar(&p.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N transactions.")
}

// touches reports whether tx involves the given account on any side.
func touches(tx finbook.Transaction, accountID string) bool {
	switch v := tx.(type) {
	case finbook.Income:
		return v.AccountID == accountID
	case finbook.Expense:
		return v.AccountID == accountID
	case finbook.Transfer:
		return v.SourceAccountID == accountID || v.RecipientAccountID == accountID
	case finbook.DebtPayment:
		return v.SourceAccountID == accountID || v.DebtAccountID == accountID
	case finbook.Investing:
		return v.AccountID == accountID || v.SourceAccountID == accountID
	default:
		return false
	}
}

func (p *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.head > 0 && p.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(ctx context.Context, app *App) error {
		var start, end finbook.Date
		var err error
		if p.start != "" {
			if start, err = finbook.ParseDate(p.start); err != nil {
				return err
			}
		}
		if p.date != "" {
			if end, err = finbook.ParseDate(p.date); err != nil {
				return err
			}
		}

		var transactions []finbook.Transaction
		for _, tx := range app.Sys.State.Ledger().Transactions() {
			if !start.IsZero() && tx.When().Before(start) {
				continue
			}
			if !end.IsZero() && tx.When().After(end) {
				continue
			}
			if p.account != "" && !touches(tx, p.account) {
				continue
			}
			transactions = append(transactions, tx)
		}

		if p.head > 0 && len(transactions) > p.head {
			transactions = transactions[:p.head]
		}
		if p.tail > 0 && len(transactions) > p.tail {
			transactions = transactions[len(transactions)-p.tail:]
		}

		printMarkdown(renderer.Transactions(transactions))
		return nil
	})
}
