package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/google/subcommands"

	"github.com/finbook/finbook"
	"github.com/finbook/finbook/renderer"
)

type payoffCmd struct {
	rate float64
}

func (*payoffCmd) Name() string     { return "payoff" }
func (*payoffCmd) Synopsis() string { return "estimate how long a monthly payment takes to clear a debt" }
func (*payoffCmd) Usage() string {
	return `fbk payoff [-rate <apr>] <debt-account> <monthly-payment>

  Estimates the number of monthly payments needed to clear the debt at
  the given annual interest rate. When the interest outruns the payment
  the answer is Never.

Usage Examples:
$ fbk payoff -rate 0.24 "Visa Card" 250
`
}

func (p *payoffCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&p.rate, "rate", 0, "Annual interest rate as a fraction (0.24 for 24% APR).")
}

func (p *payoffCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Println(p.Usage())
		return subcommands.ExitUsageError
	}
	return run(ctx, func(ctx context.Context, app *App) error {
		a := app.Sys.State.Account(f.Arg(0))
		if a == nil {
			return fmt.Errorf("account %q not found", f.Arg(0))
		}
		if a.Kind != finbook.Debt {
			return fmt.Errorf("account %q is not a debt account", f.Arg(0))
		}
		v, err := strconv.ParseFloat(f.Arg(1), 64)
		if err != nil {
			return fmt.Errorf("invalid monthly payment %q: %w", f.Arg(1), err)
		}
		payment := finbook.M(v, a.Balance.Currency())
		months, ok := finbook.PayoffEstimate(a.Balance, payment, p.rate)
		printMarkdown(renderer.Payoff(*a, payment, months, ok))
		return nil
	})
}
