package renderer

import (
	"strings"
	"testing"

	"github.com/finbook/finbook"
)

func usd(v float64) finbook.Money { return finbook.M(v, "USD") }

func TestAccounts_GroupsByKind(t *testing.T) {
	md := Accounts([]finbook.Account{
		finbook.NewAccount("checking", "Checking", finbook.Asset, "", "USD"),
		finbook.NewAccount("visa", "Visa Card", finbook.Debt, "", "USD"),
	})
	if !strings.Contains(md, "## Assets") || !strings.Contains(md, "## Debts") {
		t.Errorf("missing sections:\n%s", md)
	}
	if !strings.Contains(md, "| Checking |") || !strings.Contains(md, "| Visa Card |") {
		t.Errorf("missing account rows:\n%s", md)
	}
}

func TestAccounts_EmptySectionOmitted(t *testing.T) {
	md := Accounts([]finbook.Account{
		finbook.NewAccount("checking", "Checking", finbook.Asset, "", "USD"),
	})
	if strings.Contains(md, "## Debts") {
		t.Errorf("empty debts section rendered:\n%s", md)
	}
}

func TestHoldings_MarksCostFallback(t *testing.T) {
	h := finbook.Holding{Ticker: "AAPL", Shares: finbook.Q(10), AvgCost: usd(150)}
	md := Holdings([]HoldingRow{{
		AccountName: "Brokerage",
		Ticker:      "AAPL",
		Shares:      h.Shares,
		AvgCost:     h.AvgCost,
		Valuation:   h.Value(finbook.Money{}),
		Live:        false,
	}})
	if !strings.Contains(md, "*") || !strings.Contains(md, "average cost") {
		t.Errorf("fallback valuation not marked:\n%s", md)
	}
}

func TestHoldingRows_UsesQuotes(t *testing.T) {
	state := finbook.NewState(finbook.BlendSalePrice)
	state.AddAccount(finbook.NewAccount("brokerage", "Brokerage", finbook.Asset, finbook.SubtypeInvesting, "USD"))
	state.SetHolding(finbook.HoldingKey{AccountID: "brokerage", Ticker: "AAPL"},
		finbook.Holding{Ticker: "AAPL", Shares: finbook.Q(10), AvgCost: usd(150)})

	market := finbook.NewMarketData(nil)
	market.Set("AAPL", finbook.Quote{Price: usd(180)})

	rows := HoldingRows(state, market)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if !rows[0].Live {
		t.Error("row should be live with a quote available")
	}
	if !rows[0].Valuation.CurrentValue.Equal(usd(1800)) {
		t.Errorf("value = %s, want $1,800.00", rows[0].Valuation.CurrentValue)
	}
	if rows[0].AccountName != "Brokerage" {
		t.Errorf("account name = %q", rows[0].AccountName)
	}
}

func TestSummary_NetWorth(t *testing.T) {
	checking := finbook.NewAccount("checking", "Checking", finbook.Asset, "", "USD")
	checking.Balance = usd(1000)
	visa := finbook.NewAccount("visa", "Visa Card", finbook.Debt, "", "USD")
	visa.Balance = usd(400)
	closed := finbook.NewAccount("old", "Old", finbook.Asset, "", "USD")
	closed.Balance = usd(999)
	closed.Status = finbook.Closed

	md := Summary([]finbook.Account{checking, visa, closed}, nil)
	if !strings.Contains(md, "Net worth: $600.00") {
		t.Errorf("net worth wrong (closed accounts must not count):\n%s", md)
	}
}

func TestPayoff_Never(t *testing.T) {
	visa := finbook.NewAccount("visa", "Visa Card", finbook.Debt, "", "USD")
	md := Payoff(visa, usd(50), 0, false)
	if !strings.Contains(md, "Never") {
		t.Errorf("unpayable debt must read Never:\n%s", md)
	}
}

func TestDrifts_CleanReport(t *testing.T) {
	md := Drifts(nil)
	if !strings.Contains(md, "match") {
		t.Errorf("clean check should say so:\n%s", md)
	}
}
