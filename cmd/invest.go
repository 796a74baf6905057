package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/google/subcommands"

	"github.com/finbook/finbook"
)

type investCmd struct {
	id           string
	date         string
	action       string
	source       string
	ticker       string
	shares       float64
	price        float64
	quoteCur     string
	exchangeRate float64
	london       string
}

func (*investCmd) Name() string     { return "invest" }
func (*investCmd) Synopsis() string { return "record a buy, sell or dividend on an investing account" }
func (*investCmd) Usage() string {
	return `fbk invest [-a buy|sell|dividend] [-t <ticker>] [-n <shares>] [-p <price>] [-from <account>] <account> <amount>

  Records an investing transaction. The total amount is debited from the
  source cash account; for buys and sells the position is merged into the
  account's holding for the ticker at weighted average cost.

  A price quoted in pence (-qc GBX) is converted to pounds; -rate converts
  a foreign quote currency to the account's home currency.

Usage Examples:
$ fbk invest -a buy -t AAPL -n 10 -p 231.50 -from Checking Brokerage 2315
$ fbk invest -a sell -t AAPL -n 4 -p 240 Brokerage 960
$ fbk invest -a buy -t VOD -n 100 -p 72.5 -qc GBX -rate 1.17 Brokerage 85
$ fbk invest -a dividend -t AAPL Brokerage 12.40
`
}

func (p *investCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.id, "id", "", "Transaction id. Generated when empty.")
	f.StringVar(&p.date, "d", "", "Transaction date (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&p.action, "a", "buy", "Action (buy, sell, dividend).")
	f.StringVar(&p.source, "from", "", "Source cash account funding the total amount.")
	f.StringVar(&p.ticker, "t", "", "Ticker symbol.")
	f.Float64Var(&p.shares, "n", 0, "Number of shares.")
	f.Float64Var(&p.price, "p", 0, "Price per share in the quote currency.")
	f.StringVar(&p.quoteCur, "qc", "", "Quote currency when it differs from the account's (e.g. GBX).")
	f.Float64Var(&p.exchangeRate, "rate", 0, "Exchange rate from the quote currency to the account currency.")
	f.StringVar(&p.london, "london", "", "Force the London listing flag (true, false). Inferred from GBX by default.")
}

func (p *investCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Println(p.Usage())
		return subcommands.ExitUsageError
	}
	return run(ctx, func(ctx context.Context, app *App) error {
		day, err := parseDay(p.date)
		if err != nil {
			return err
		}
		var action finbook.Action
		switch p.action {
		case "buy":
			action = finbook.Buy
		case "sell":
			action = finbook.Sell
		case "dividend":
			action = finbook.Dividend
		default:
			return fmt.Errorf("unknown action %q", p.action)
		}
		amount, err := amountArg(app, f.Arg(0), f.Arg(1), "USD")
		if err != nil {
			return err
		}
		id := p.id
		if id == "" {
			id = newTxID(finbook.KindInvesting)
		}
		tx := finbook.NewInvesting(id, day, "", "", f.Arg(0), p.source, amount,
			action, p.ticker, finbook.Q(p.shares), finbook.Q(p.price))
		if p.quoteCur != "" {
			tx = tx.WithQuoteCurrency(p.quoteCur, finbook.Q(p.exchangeRate))
		}
		if p.london != "" {
			listed, err := strconv.ParseBool(p.london)
			if err != nil {
				return fmt.Errorf("invalid -london value %q: %w", p.london, err)
			}
			tx = tx.WithLondonListed(listed)
		}
		if _, err := app.Sys.AddTransaction(tx); err != nil {
			return err
		}
		if p.ticker != "" {
			fmt.Printf("Recorded %s %s: %v %s for %s on %s\n", action, id, p.shares, p.ticker, amount, f.Arg(0))
		} else {
			fmt.Printf("Recorded %s %s: %s on %s\n", action, id, amount, f.Arg(0))
		}
		return nil
	})
}
