package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type deleteCmd struct{}

func (*deleteCmd) Name() string             { return "delete" }
func (*deleteCmd) Synopsis() string         { return "delete a transaction and reverse its effect" }
func (*deleteCmd) SetFlags(f *flag.FlagSet) {}
func (*deleteCmd) Usage() string {
	return `fbk delete <tx-id>

  Deletes the transaction with the given id. Cash balances are restored
  to their prior values; for a buy or sell, the holding is rebuilt from
  the remaining history.

Usage Examples:
$ fbk delete expense-k2h1x
`
}

func (p *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
		if _, err := app.Sys.DeleteTransaction(stored); err != nil {
			return err
		}
		fmt.Printf("Deleted transaction %s\n", id)
		return nil
	})
}
