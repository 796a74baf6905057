package finbook

import (
	"encoding/json"
	"testing"
)

func TestUnmarshalTransaction_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		tx   Transaction
	}{
		{"income", NewIncome("t1", day("2025-01-10"), "ACME", "Salary", "checking", usd(4200))},
		{"expense", NewExpense("t2", day("2025-01-11"), "Store", "Groceries", "checking", usd(54.20))},
		{"transfer", NewTransfer("t3", day("2025-01-12"), "", "", "checking", "savings", usd(500))},
		{"debtpayment", NewDebtPayment("t4", day("2025-01-13"), "", "", "checking", "visa", usd(250))},
		{"investing", NewInvesting("t5", day("2025-01-14"), "", "", "brokerage", "checking", usd(1500), Buy, "AAPL", Q(10), Q(150))},
		{"investing gbx", NewInvesting("t6", day("2025-01-15"), "", "", "brokerage", "", gbp(725), Buy, "VOD", Q(10), Q(7250)).
			WithQuoteCurrency(GBX, Q(1.17))},
		{"dividend", NewInvesting("t7", day("2025-01-16"), "", "", "brokerage", "", usd(12.40), Dividend, "AAPL", Q(0), Q(0))},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.tx)
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			back, err := UnmarshalTransaction(data)
			if err != nil {
				t.Fatalf("unmarshal of %s failed: %v", data, err)
			}
			if !tc.tx.Equal(back) {
				t.Errorf("round trip changed the transaction:\n  was  %#v\n  got  %#v\n  wire %s", tc.tx, back, data)
			}
		})
	}
}

func TestUnmarshalTransaction_UnknownType(t *testing.T) {
	if _, err := UnmarshalTransaction([]byte(`{"type":"wager","id":"t1"}`)); err == nil {
		t.Fatal("expected an error for an unknown type tag")
	}
}

func TestInvesting_NormalizedShareSign(t *testing.T) {
	s := NewInvesting("t1", day("2025-01-10"), "", "", "brokerage", "", usd(100), Sell, "AAPL", Q(5), Q(20))
	if !s.Shares.Equal(Q(-5)) {
		t.Errorf("sell shares = %s, want -5", s.Shares)
	}
	b := NewInvesting("t2", day("2025-01-10"), "", "", "brokerage", "", usd(100), Buy, "AAPL", Q(-5), Q(20))
	if !b.Shares.Equal(Q(5)) {
		t.Errorf("buy shares = %s, want 5", b.Shares)
	}
}

func TestInvesting_ExplicitLondonFlagSurvivesJSON(t *testing.T) {
	// A GBX stock explicitly marked as not London-listed must not have the
	// default inference reapplied when read back.
	tx := NewInvesting("t1", day("2025-01-10"), "", "", "brokerage", "", gbp(725), Buy, "VOD", Q(10), Q(7250)).
		WithQuoteCurrency(GBX, Q(1)).
		WithLondonListed(false)
	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatal(err)
	}
	back, err := UnmarshalTransaction(data)
	if err != nil {
		t.Fatal(err)
	}
	v := back.(Investing)
	if !v.IsPennyStock {
		t.Error("penny flag lost")
	}
	if v.IsLondonListed {
		t.Error("explicit london=false overridden by the GBX default")
	}
}

func TestFinanciallyEqual(t *testing.T) {
	base := NewExpense("t1", day("2025-01-10"), "Store", "Groceries", "checking", usd(60))
	testCases := []struct {
		name  string
		other Transaction
		want  bool
	}{
		{"same", NewExpense("t1", day("2025-01-10"), "Store", "Groceries", "checking", usd(60)), true},
		{"merchant only", NewExpense("t1", day("2025-01-10"), "Shop", "Groceries", "checking", usd(60)), true},
		{"date only", NewExpense("t1", day("2025-02-10"), "Store", "Groceries", "checking", usd(60)), true},
		{"amount", NewExpense("t1", day("2025-01-10"), "Store", "Groceries", "checking", usd(61)), false},
		{"account", NewExpense("t1", day("2025-01-10"), "Store", "Groceries", "savings", usd(60)), false},
		{"kind", NewIncome("t1", day("2025-01-10"), "Store", "Groceries", "checking", usd(60)), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FinanciallyEqual(base, tc.other); got != tc.want {
				t.Errorf("FinanciallyEqual = %v, want %v", got, tc.want)
			}
		})
	}
}
