// Package renderer turns book state into markdown for terminal display.
package renderer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/finbook/finbook"
)

// HoldingRow is the display view of one valued lot.
type HoldingRow struct {
	AccountName string
	Ticker      string
	Shares      finbook.Quantity
	AvgCost     finbook.Money
	Valuation   finbook.Valuation
	Live        bool // true when a market price was used, false on avg-cost fallback
}

// HoldingRows values every open lot of the book against the given quote
// source. Lots without a live quote are valued at average cost and marked
// accordingly.
func HoldingRows(state *finbook.State, quotes finbook.QuoteSource) []HoldingRow {
	var rows []HoldingRow
	for key, lot := range state.Holdings() {
		name := key.AccountID
		if a := state.Account(key.AccountID); a != nil {
			name = a.Name
		}
		price, live := quotes.Price(lot.MarketKey())
		rows = append(rows, HoldingRow{
			AccountName: name,
			Ticker:      lot.Ticker,
			Shares:      lot.Shares,
			AvgCost:     lot.AvgCost,
			Valuation:   lot.Value(price),
			Live:        live,
		})
	}
	return rows
}

// ConditionalBlock lets a caller fully write a block and decide at the end
// whether to keep it. If the block function returns true the content is
// written to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// Accounts renders the account list as a markdown table, assets first.
func Accounts(accounts []finbook.Account) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Accounts\n\n")
	section := func(title string, kind finbook.AccountKind) {
		ConditionalBlock(&b, func(w io.Writer) bool {
			fmt.Fprintf(w, "## %s\n\n", title)
			fmt.Fprintln(w, "| Account | Subtype | Balance | Status |")
			fmt.Fprintln(w, "|:---|:---|---:|:---|")
			any := false
			for _, a := range accounts {
				if a.Kind != kind {
					continue
				}
				any = true
				fmt.Fprintf(w, "| %s | %s | %s | %s |\n", a.Name, a.Subtype, a.Balance, a.Status)
			}
			fmt.Fprintln(w)
			return any
		})
	}
	section("Assets", finbook.Asset)
	section("Debts", finbook.Debt)
	return b.String()
}

// Holdings renders valued lots as a markdown table.
func Holdings(rows []HoldingRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Holdings\n\n")
	if len(rows) == 0 {
		fmt.Fprintln(&b, "No open positions.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Account | Ticker | Shares | Avg Cost | Price | Value | P/L | P/L % |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|---:|")
	for _, r := range rows {
		price := r.Valuation.Price.String()
		if !r.Live {
			price += " *"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %.2f%% |\n",
			r.AccountName, r.Ticker, r.Shares, r.AvgCost, price,
			r.Valuation.CurrentValue, r.Valuation.UnrealizedPL.SignedString(), r.Valuation.PLPercent)
	}
	ConditionalBlock(&b, func(w io.Writer) bool {
		for _, r := range rows {
			if !r.Live {
				fmt.Fprintln(w, "\n`*` no live quote, valued at average cost")
				return true
			}
		}
		return false
	})
	return b.String()
}

// Transactions renders ledger entries as a markdown table.
func Transactions(txs []finbook.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Transactions\n\n")
	if len(txs) == 0 {
		fmt.Fprintln(&b, "The ledger is empty.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Date | Type | Id | Detail |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|")
	for _, tx := range txs {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", tx.When(), tx.Kind(), tx.ID(), detail(tx))
	}
	return b.String()
}

func detail(tx finbook.Transaction) string {
	switch v := tx.(type) {
	case finbook.Income:
		return fmt.Sprintf("%s into %s", v.Amount, v.AccountID)
	case finbook.Expense:
		return fmt.Sprintf("%s from %s", v.Amount, v.AccountID)
	case finbook.Transfer:
		return fmt.Sprintf("%s from %s to %s", v.Amount, orDash(v.SourceAccountID), orDash(v.RecipientAccountID))
	case finbook.DebtPayment:
		return fmt.Sprintf("%s from %s toward %s", v.Amount, orDash(v.SourceAccountID), v.DebtAccountID)
	case finbook.Investing:
		if v.Ticker == "" {
			return fmt.Sprintf("%s %s on %s", v.Action, v.Amount, v.AccountID)
		}
		return fmt.Sprintf("%s %s %s for %s on %s", v.Action, v.Shares.Abs(), v.Ticker, v.Amount, v.AccountID)
	default:
		return string(tx.Kind())
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Drifts renders the result of a ledger replay check.
func Drifts(drifts []finbook.Drift) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Ledger check\n\n")
	if len(drifts) == 0 {
		fmt.Fprintln(&b, "All balances and holdings match the ledger replay.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Account | Ticker | Cached | Replayed |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|")
	for _, d := range drifts {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", d.AccountID, orDash(d.Ticker), d.Cached, d.Replayed)
	}
	return b.String()
}

// Payoff renders a payoff estimate; a plan that never pays off the debt
// reads "Never".
func Payoff(account finbook.Account, payment finbook.Money, months int, ok bool) string {
	if !ok {
		return fmt.Sprintf("Paying %s monthly, **%s** is paid off: **Never**\n", payment, account.Name)
	}
	years, rem := months/12, months%12
	if years > 0 {
		return fmt.Sprintf("Paying %s monthly, **%s** is paid off in **%dy %dm**\n", payment, account.Name, years, rem)
	}
	return fmt.Sprintf("Paying %s monthly, **%s** is paid off in **%d months**\n", payment, account.Name, months)
}

// Summary renders a one-page overview: net worth and per-kind totals.
func Summary(accounts []finbook.Account, rows []HoldingRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Summary\n\n")
	var assets, debts finbook.Money
	for _, a := range accounts {
		if a.Status == finbook.Closed {
			continue
		}
		if a.Kind == finbook.Debt {
			debts = debts.Add(a.Balance)
		} else {
			assets = assets.Add(a.Balance)
		}
	}
	fmt.Fprintf(&b, "- Assets: %s\n", assets)
	fmt.Fprintf(&b, "- Debts: %s\n", debts)
	fmt.Fprintf(&b, "- Net worth: %s\n", assets.Sub(debts))
	if len(rows) > 0 {
		var pl finbook.Money
		for _, r := range rows {
			pl = pl.Add(r.Valuation.UnrealizedPL)
		}
		fmt.Fprintf(&b, "- Unrealized P/L: %s\n", pl.SignedString())
	}
	return b.String()
}
