package finbook

import "testing"

func TestAccumulate_SingleBuy(t *testing.T) {
	lot, ok := Accumulate([]Investing{
		buy("b1", "2025-01-10", "brokerage", "AAPL", 10, 150),
	}, BlendSalePrice)
	if !ok {
		t.Fatal("expected a lot after a buy")
	}
	if !lot.Shares.Equal(Q(10)) {
		t.Errorf("shares = %s, want 10", lot.Shares)
	}
	if !lot.AvgCost.Equal(usd(150)) {
		t.Errorf("avgCost = %s, want $150.00", lot.AvgCost)
	}
}

func TestAccumulate_WeightedAverage(t *testing.T) {
	lot, ok := Accumulate([]Investing{
		buy("b1", "2025-01-10", "brokerage", "AAPL", 10, 100),
		buy("b2", "2025-02-10", "brokerage", "AAPL", 10, 200),
	}, BlendSalePrice)
	if !ok {
		t.Fatal("expected a lot")
	}
	if !lot.Shares.Equal(Q(20)) {
		t.Errorf("shares = %s, want 20", lot.Shares)
	}
	// (10*100 + 10*200) / 20 = 150
	if !lot.AvgCost.Equal(usd(150)) {
		t.Errorf("avgCost = %s, want $150.00", lot.AvgCost)
	}
}

func TestAccumulate_SellToZeroClosesLot(t *testing.T) {
	_, ok := Accumulate([]Investing{
		buy("b1", "2025-01-10", "brokerage", "AAPL", 10, 100),
		sell("s1", "2025-03-10", "brokerage", "AAPL", 10, 120),
	}, BlendSalePrice)
	if ok {
		t.Fatal("lot should be closed after selling all shares")
	}
}

func TestAccumulate_SellNearZeroClosesLot(t *testing.T) {
	// Within 1e-4 shares of zero the lot is closed, not retained at ~0.
	_, ok := Accumulate([]Investing{
		buy("b1", "2025-01-10", "brokerage", "AAPL", 10, 100),
		sell("s1", "2025-03-10", "brokerage", "AAPL", 9.99995, 120),
	}, BlendSalePrice)
	if ok {
		t.Fatal("lot should be closed when shares are within epsilon of zero")
	}
}

func TestAccumulate_SellWithoutLotIgnored(t *testing.T) {
	// Reconstruction never creates a short lot from a sell against no
	// position; the sell is dropped and the next buy opens normally.
	lot, ok := Accumulate([]Investing{
		sell("s1", "2025-01-10", "brokerage", "AAPL", 5, 100),
		buy("b1", "2025-02-10", "brokerage", "AAPL", 10, 150),
	}, BlendSalePrice)
	if !ok {
		t.Fatal("expected a lot from the buy")
	}
	if !lot.Shares.Equal(Q(10)) || !lot.AvgCost.Equal(usd(150)) {
		t.Errorf("lot = %s @ %s, want 10 @ $150.00", lot.Shares, lot.AvgCost)
	}
}

func TestAccumulate_DividendsDoNotTouchShares(t *testing.T) {
	lot, ok := Accumulate([]Investing{
		buy("b1", "2025-01-10", "brokerage", "AAPL", 10, 100),
		dividend("d1", "2025-02-10", "brokerage", "AAPL", 12.5),
	}, BlendSalePrice)
	if !ok {
		t.Fatal("expected a lot")
	}
	if !lot.Shares.Equal(Q(10)) || !lot.AvgCost.Equal(usd(100)) {
		t.Errorf("dividend changed the lot: %s @ %s", lot.Shares, lot.AvgCost)
	}
}

func TestAccumulate_PartialSellPolicies(t *testing.T) {
	history := []Investing{
		buy("b1", "2025-01-10", "brokerage", "AAPL", 10, 100),
		sell("s1", "2025-02-10", "brokerage", "AAPL", 5, 200),
	}

	t.Run("blend", func(t *testing.T) {
		lot, ok := Accumulate(history, BlendSalePrice)
		if !ok {
			t.Fatal("expected a lot")
		}
		// (10*100 - 5*200) / 5 = 0: the sale price is blended in.
		if !lot.AvgCost.Equal(usd(0)) {
			t.Errorf("avgCost = %s, want $0.00", lot.AvgCost)
		}
		if !lot.Shares.Equal(Q(5)) {
			t.Errorf("shares = %s, want 5", lot.Shares)
		}
	})

	t.Run("preserve", func(t *testing.T) {
		lot, ok := Accumulate(history, PreserveAverage)
		if !ok {
			t.Fatal("expected a lot")
		}
		// Textbook rule: selling never moves the average.
		if !lot.AvgCost.Equal(usd(100)) {
			t.Errorf("avgCost = %s, want $100.00", lot.AvgCost)
		}
	})
}

func TestAccumulate_NetShortKeepsPriorAverage(t *testing.T) {
	// Oversell past zero via two sells: the first leaves 2 shares, the
	// second crosses into negative territory and keeps the prior average.
	lot, ok := Accumulate([]Investing{
		buy("b1", "2025-01-10", "brokerage", "AAPL", 10, 100),
		sell("s1", "2025-02-10", "brokerage", "AAPL", 8, 100),
		sell("s2", "2025-03-10", "brokerage", "AAPL", 5, 150),
	}, BlendSalePrice)
	// The final lot is negative, and the final filter drops it.
	if ok {
		t.Fatalf("expected no lot from the final filter, got %s shares", lot.Shares)
	}
}

func TestApplyLot_NetShortCarriesShares(t *testing.T) {
	opening := buy("b1", "2025-01-10", "brokerage", "AAPL", 10, 100)
	lot, exists := applyLot(Holding{}, false, opening, BlendSalePrice)
	if !exists {
		t.Fatal("expected an opened lot")
	}
	lot, exists = applyLot(lot, true, sell("s1", "2025-02-10", "brokerage", "AAPL", 15, 150), BlendSalePrice)
	if !exists {
		t.Fatal("net-short lot should be carried")
	}
	if !lot.Shares.Equal(Q(-5)) {
		t.Errorf("shares = %s, want -5", lot.Shares)
	}
	if !lot.AvgCost.Equal(usd(100)) {
		t.Errorf("avgCost = %s, want the prior $100.00", lot.AvgCost)
	}
}

func TestAccumulate_TotalOverSharesFallback(t *testing.T) {
	// No explicit per-share price: unit cost falls back to total/|shares|.
	tx := NewInvesting("b1", day("2025-01-10"), "", "", "brokerage", "", usd(1500), Buy, "AAPL", Q(10), Q(0))
	lot, ok := Accumulate([]Investing{tx}, BlendSalePrice)
	if !ok {
		t.Fatal("expected a lot")
	}
	if !lot.AvgCost.Equal(usd(150)) {
		t.Errorf("avgCost = %s, want $150.00", lot.AvgCost)
	}
}

func TestAccumulate_GBXPriceNormalized(t *testing.T) {
	// 7250 pence a share is 72.50 pounds before the exchange rate.
	tx := NewInvesting("b1", day("2025-01-10"), "", "", "brokerage", "", gbp(725), Buy, "VOD", Q(10), Q(7250)).
		WithQuoteCurrency(GBX, Q(1))
	lot, ok := Accumulate([]Investing{tx}, BlendSalePrice)
	if !ok {
		t.Fatal("expected a lot")
	}
	if !lot.AvgCost.Equal(gbp(72.50)) {
		t.Errorf("avgCost = %s, want £72.50", lot.AvgCost)
	}
	if !lot.IsPennyStock {
		t.Error("a GBX-quoted lot is a penny stock")
	}
	if !lot.IsLondonListed {
		t.Error("a penny stock defaults to London-listed")
	}
	if lot.MarketKey() != "VOD.L" {
		t.Errorf("market key = %q, want VOD.L", lot.MarketKey())
	}
}

func TestAccumulate_ExchangeRateApplied(t *testing.T) {
	// A USD-quoted price on a GBP account: rate converts per-share cost.
	tx := NewInvesting("b1", day("2025-01-10"), "", "", "brokerage", "", gbp(800), Buy, "AAPL", Q(10), Q(100)).
		WithQuoteCurrency("USD", Q(0.8))
	lot, ok := Accumulate([]Investing{tx}, BlendSalePrice)
	if !ok {
		t.Fatal("expected a lot")
	}
	if !lot.AvgCost.Equal(gbp(80)) {
		t.Errorf("avgCost = %s, want £80.00", lot.AvgCost)
	}
	if lot.IsPennyStock {
		t.Error("a USD-quoted lot is not a penny stock")
	}
}

func TestAccumulate_Deterministic(t *testing.T) {
	history := []Investing{
		buy("b1", "2025-01-10", "brokerage", "AAPL", 10, 100),
		sell("s1", "2025-02-10", "brokerage", "AAPL", 3, 150),
		buy("b2", "2025-03-10", "brokerage", "AAPL", 5, 130),
	}
	first, ok1 := Accumulate(history, BlendSalePrice)
	second, ok2 := Accumulate(history, BlendSalePrice)
	if ok1 != ok2 || !first.Shares.Equal(second.Shares) || !first.AvgCost.Equal(second.AvgCost) {
		t.Errorf("same history produced different lots: %v vs %v", first, second)
	}
}
