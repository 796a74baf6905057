// Package cmd implements the CLI application to manage a personal finance
// book.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"

	"github.com/finbook/finbook"
	"github.com/finbook/finbook/cache"
	"github.com/finbook/finbook/pgstore"
	"github.com/finbook/finbook/quotes"
)

// Commands lists every subcommand; a main package registers them and runs
// the user-selected one.
var Commands = []subcommands.Command{
	&accountCmd{},
	&accountsCmd{},
	&incomeCmd{},
	&expenseCmd{},
	&transferCmd{},
	&debtpayCmd{},
	&investCmd{},
	&editCmd{},
	&deleteCmd{},
	&balanceCmd{},
	&holdingsCmd{},
	&summaryCmd{},
	&txCmd{},
	&updateCmd{},
	&checkCmd{},
	&payoffCmd{},
	&assistCmd{},
}

// As a CLI application it has a very short lived lifecycle, so it is ok to
// use global variables for app-wide configuration.

var cacheFile = flag.String("cache-file", "finbook.json", "Path to the local book file (JSON)")
var costPolicy = flag.String("cost-policy", "blend", "Average cost policy on sales (blend, preserve)")

func init() {
	// Secrets and the optional remote mirror come from the environment; a
	// local .env file is honored when present.
	godotenv.Load()
}

// App is the loaded application: the live system plus the handles needed
// to release it.
type App struct {
	Sys   *finbook.System
	Cache *cache.Store
	pg    *pgstore.Store
}

// Load opens the local book, the optional PostgreSQL mirror
// (FINBOOK_PG_DSN) and the quote provider (FINBOOK_QUOTES_KEY), and
// restores the in-memory state from the local mirror.
func Load(ctx context.Context) (*App, error) {
	policy, err := finbook.ParseCostPolicy(*costPolicy)
	if err != nil {
		return nil, err
	}
	local, err := cache.Open(*cacheFile)
	if err != nil {
		return nil, err
	}
	state := local.Restore(policy)

	mirrors := []finbook.Store{local}
	app := &App{Cache: local}
	if dsn := os.Getenv("FINBOOK_PG_DSN"); dsn != "" {
		pg, err := pgstore.Open(ctx, dsn)
		if err != nil {
			// The local book still works without its remote mirror.
			log.Printf("warning: remote mirror unavailable: %v", err)
		} else {
			app.pg = pg
			mirrors = append(mirrors, pg)
		}
	}

	var provider finbook.QuoteProvider
	if key := os.Getenv("FINBOOK_QUOTES_KEY"); key != "" {
		client := quotes.New(key)
		if base := os.Getenv("FINBOOK_QUOTES_URL"); base != "" {
			client.BaseURL = base
		}
		provider = client
	}

	app.Sys = finbook.NewSystem(state, finbook.NewMarketData(provider), finbook.MultiStore(mirrors...))
	return app, nil
}

// Close waits for in-flight mirror writes and releases the remote
// connection.
func (a *App) Close() {
	a.Sys.Flush()
	if a.pg != nil {
		a.pg.Close()
	}
}

// run wraps the common lifecycle of a subcommand body: load the app, run
// the body, close the app, report errors on stderr.
func run(ctx context.Context, body func(ctx context.Context, app *App) error) subcommands.ExitStatus {
	app, err := Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer app.Close()
	if err := body(ctx, app); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// newTxID generates a reasonably unique transaction id when the user does
// not provide one.
func newTxID(kind finbook.Kind) string {
	return string(kind) + "-" + strconv.FormatInt(time.Now().UnixNano(), 36)
}

// parseDay parses a -d flag value, defaulting to today.
func parseDay(s string) (finbook.Date, error) {
	if s == "" {
		return finbook.Today(), nil
	}
	return finbook.ParseDate(s)
}
