package finbook

import "testing"

// Shared helpers for tests in this package.

func usd(v float64) Money { return M(v, "USD") }
func gbp(v float64) Money { return M(v, "GBP") }

func day(s string) Date { return MustParseDate(s) }

// buy creates a normalized buy of n shares at the given per-share price,
// with the total amount derived from them.
func buy(id, d, account, ticker string, n, price float64) Investing {
	return NewInvesting(id, day(d), "", "", account, "", usd(n*price), Buy, ticker, Q(n), Q(price))
}

// sell creates a normalized sell of n shares at the given per-share price.
func sell(id, d, account, ticker string, n, price float64) Investing {
	return NewInvesting(id, day(d), "", "", account, "", usd(n*price), Sell, ticker, Q(n), Q(price))
}

func dividend(id, d, account, ticker string, amount float64) Investing {
	return NewInvesting(id, day(d), "", "", account, "", usd(amount), Dividend, ticker, Q(0), Q(0))
}

// newTestState creates a book with the standard fixture accounts.
func newTestState(t *testing.T) *State {
	t.Helper()
	s := NewState(BlendSalePrice)
	s.AddAccount(NewAccount("checking", "Checking", Asset, "", "USD"))
	s.AddAccount(NewAccount("savings", "Savings", Asset, "", "USD"))
	s.AddAccount(NewAccount("visa", "Visa Card", Debt, "", "USD"))
	s.AddAccount(NewAccount("brokerage", "Brokerage", Asset, SubtypeInvesting, "USD"))
	return s
}

// balanceOf fails the test when the account balance differs from want.
func balanceOf(t *testing.T, s *State, id string, want Money) {
	t.Helper()
	a := s.Account(id)
	if a == nil {
		t.Fatalf("account %q not found", id)
	}
	if !a.Balance.Equal(want) {
		t.Errorf("account %q balance = %s, want %s", id, a.Balance, want)
	}
}

func mustApply(t *testing.T, s *State, tx Transaction) Changes {
	t.Helper()
	changes, err := s.ApplyNew(tx)
	if err != nil {
		t.Fatalf("ApplyNew(%s) failed: %v", tx.ID(), err)
	}
	return changes
}
