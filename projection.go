package finbook

// This file derives account balances from holdings and from the ledger.
// Cash balances are maintained incrementally by the mutation engine;
// investing balances are recomputed here whenever market data or holdings
// change; Replay rebuilds everything from the ledger as a drift check.

// QuoteSource resolves a market price for a market key. A false return
// means no price is known and valuation falls back to average cost.
type QuoteSource interface {
	Price(key string) (Money, bool)
}

// RefreshValuations recomputes every investing account's balance as the
// sum of its valued holdings. Lots at or below the closing epsilon
// contribute nothing. Balance updates below the 0.01 tolerance are
// dropped, so redundant writes never reach the store.
func (s *State) RefreshValuations(quotes QuoteSource) Changes {
	totals := make(map[string]Money)
	for key, lot := range s.Holdings() {
		if !lot.Shares.AboveEpsilon() {
			continue
		}
		var price Money
		if quotes != nil {
			if p, ok := quotes.Price(lot.MarketKey()); ok {
				price = p
			}
		}
		v := lot.Value(price)
		totals[key.AccountID] = totals[key.AccountID].Add(v.CurrentValue)
	}

	var changes Changes
	for _, a := range s.accounts {
		if !a.IsInvesting() {
			continue
		}
		total := M(totals[a.ID].value, a.Balance.Currency())
		if a.Balance.NearlyEqual(total) {
			continue
		}
		a.Balance = total
		changes.touchAccount(a.ID)
	}
	return changes
}

// Drift describes one divergence between a cached balance or lot and its
// replay from the ledger.
type Drift struct {
	AccountID string
	Ticker    string // empty for balance drift
	Cached    Money
	Replayed  Money
}

// Replay rebuilds all cash balances and lots from scratch by replaying the
// full ledger, and returns every divergence beyond tolerance. Balances are
// compared within the 0.01 tolerance; lots are compared exactly.
func (s *State) Replay(quotes QuoteSource) []Drift {
	replay := NewState(s.policy)
	for _, a := range s.Accounts() {
		a.Balance = M(0, a.Balance.Currency())
		replay.AddAccount(a)
	}
	for _, tx := range s.ledger.Transactions() {
		var c Changes
		replay.applyCash(tx, +1, &c)
	}

	// Lots come from the accumulator, per (account, ticker) key.
	seen := make(map[HoldingKey]bool)
	for _, tx := range s.ledger.Transactions() {
		v, ok := tx.(Investing)
		if !ok || v.Ticker == "" {
			continue
		}
		key := HoldingKey{AccountID: v.AccountID, Ticker: v.Ticker}
		if seen[key] {
			continue
		}
		seen[key] = true
		if lot, held := Accumulate(s.ledger.InvestingHistory(key.AccountID, key.Ticker), s.policy); held {
			replay.holdings[key] = lot
		}
	}
	replay.RefreshValuations(quotes)

	var drifts []Drift
	for _, a := range s.Accounts() {
		r := replay.Account(a.ID)
		if !a.Balance.NearlyEqual(r.Balance) {
			drifts = append(drifts, Drift{AccountID: a.ID, Cached: a.Balance, Replayed: r.Balance})
		}
	}
	for key, lot := range s.Holdings() {
		r, held := replay.holdings[key]
		if !held || !lot.Shares.Equal(r.Shares) || !lot.AvgCost.Equal(r.AvgCost) {
			drifts = append(drifts, Drift{AccountID: key.AccountID, Ticker: key.Ticker, Cached: lot.CostBasis(), Replayed: r.CostBasis()})
		}
	}
	for key := range replay.holdings {
		if _, held := s.holdings[key]; !held {
			drifts = append(drifts, Drift{AccountID: key.AccountID, Ticker: key.Ticker, Replayed: replay.holdings[key].CostBasis()})
		}
	}
	return drifts
}
