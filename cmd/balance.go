package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/google/subcommands"

	"github.com/finbook/finbook"
)

type balanceCmd struct {
	id string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "set an account balance to a target value" }
func (*balanceCmd) Usage() string {
	return `fbk balance <account> <target>

  Reconciles an account against a statement: a "Balance Adjustment"
  income or expense is recorded for the difference, so the ledger stays
  consistent with the stored balance. On a debt account the adjustment
  signs are inverted.

Usage Examples:
$ fbk balance Checking 1234.56
`
}

func (p *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.id, "id", "", "Transaction id for the adjustment. Generated when empty.")
}

func (p *balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Println(p.Usage())
		return subcommands.ExitUsageError
	}
	return run(ctx, func(ctx context.Context, app *App) error {
		accountID := f.Arg(0)
		a := app.Sys.State.Account(accountID)
		if a == nil {
			return fmt.Errorf("account %q not found", accountID)
		}
		v, err := strconv.ParseFloat(f.Arg(1), 64)
		if err != nil {
			return fmt.Errorf("invalid target balance %q: %w", f.Arg(1), err)
		}
		target := finbook.M(v, a.Balance.Currency())
		id := p.id
		if id == "" {
			id = newTxID("adjust")
		}
		tx, err := app.Sys.SetBalance(id, accountID, target)
		if err != nil {
			return err
		}
		if tx == nil {
			fmt.Printf("Balance of %s already at %s, nothing to do\n", accountID, target)
			return nil
		}
		fmt.Printf("Adjusted %s to %s (recorded %s)\n", accountID, target, tx.ID())
		return nil
	})
}
