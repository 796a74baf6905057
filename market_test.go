package finbook

import (
	"context"
	"testing"
	"time"
)

// countingProvider serves a fixed table and counts fetches.
type countingProvider struct {
	table   map[string]Quote
	fetches int
}

func (p *countingProvider) Fetch(_ context.Context, keys []string) (map[string]Quote, error) {
	p.fetches++
	out := make(map[string]Quote)
	for _, k := range keys {
		if q, ok := p.table[k]; ok {
			out[k] = q
		}
	}
	return out, nil
}

func TestMarketData_RefreshThrottled(t *testing.T) {
	p := &countingProvider{table: map[string]Quote{"AAPL": {Price: usd(200)}}}
	m := NewMarketData(p)
	ctx := context.Background()

	if err := m.Refresh(ctx, []string{"AAPL"}, false); err != nil {
		t.Fatal(err)
	}
	// A second refresh inside the throttle window is a no-op.
	if err := m.Refresh(ctx, []string{"AAPL"}, false); err != nil {
		t.Fatal(err)
	}
	if p.fetches != 1 {
		t.Errorf("fetches = %d, want the second refresh throttled", p.fetches)
	}

	if err := m.Refresh(ctx, []string{"AAPL"}, true); err != nil {
		t.Fatal(err)
	}
	if p.fetches != 2 {
		t.Errorf("fetches = %d, want force to bypass the throttle", p.fetches)
	}

	price, ok := m.Price("AAPL")
	if !ok || !price.Equal(usd(200)) {
		t.Errorf("Price(AAPL) = %s, %v", price, ok)
	}
}

func TestMarketData_AutoRefresh(t *testing.T) {
	p := &countingProvider{table: map[string]Quote{"AAPL": {Price: usd(200)}}}
	m := NewMarketData(p)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.AutoRefresh(ctx, time.Millisecond, func() []string { return []string{"AAPL"} })

	deadline := time.After(time.Second)
	for {
		if _, ok := m.Price("AAPL"); ok {
			return
		}
		select {
		case <-deadline:
			t.Fatal("no quote fetched within a second")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestMarketData_NilProvider(t *testing.T) {
	m := NewMarketData(nil)
	if err := m.Refresh(context.Background(), []string{"AAPL"}, true); err != nil {
		t.Fatalf("refresh without a provider must be a no-op, got %v", err)
	}
	m.Set("AAPL", Quote{Price: usd(123)})
	price, ok := m.Price("AAPL")
	if !ok || !price.Equal(usd(123)) {
		t.Errorf("manually set quote not served: %s, %v", price, ok)
	}
	if _, ok := m.Price("MSFT"); ok {
		t.Error("unknown key served a price")
	}
}
