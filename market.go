package finbook

import (
	"context"
	"log"
	"sync"
	"time"
)

// Quote is one market data point: the latest price and display name for a
// market key.
type Quote struct {
	Price Money  `json:"price"`
	Name  string `json:"name,omitempty"`
}

// QuoteProvider fetches quotes for a set of market keys.
type QuoteProvider interface {
	Fetch(ctx context.Context, keys []string) (map[string]Quote, error)
}

// refreshInterval is the minimum time between two provider fetches within
// one session.
const refreshInterval = time.Hour

// MarketData caches the latest known quotes. Refreshes are throttled to
// once per refreshInterval via a timestamp guard; AutoRefresh re-fetches
// on a fixed interval in the background. Quotes feed valuation only,
// never the mutation engine.
type MarketData struct {
	mu          sync.RWMutex
	quotes      map[string]Quote
	lastRefresh time.Time
	provider    QuoteProvider
}

// NewMarketData creates an empty quote cache. provider may be nil, in
// which case only manually-set quotes are served.
func NewMarketData(provider QuoteProvider) *MarketData {
	return &MarketData{
		quotes:   make(map[string]Quote),
		provider: provider,
	}
}

// Price returns the latest known price for a market key. It implements
// QuoteSource.
func (m *MarketData) Price(key string) (Money, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quotes[key]
	return q.Price, ok
}

// Get returns the full quote for a market key.
func (m *MarketData) Get(key string) (Quote, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quotes[key]
	return q, ok
}

// Set stores a quote directly, bypassing the provider. Used by tests and
// by import paths that already carry prices.
func (m *MarketData) Set(key string, q Quote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[key] = q
}

// Refresh fetches quotes for the given keys unless a fetch already ran
// within the throttle window. Pass force to bypass the guard.
func (m *MarketData) Refresh(ctx context.Context, keys []string, force bool) error {
	if m.provider == nil || len(keys) == 0 {
		return nil
	}
	m.mu.Lock()
	if !force && time.Since(m.lastRefresh) < refreshInterval {
		m.mu.Unlock()
		return nil
	}
	m.lastRefresh = time.Now()
	m.mu.Unlock()

	fetched, err := m.provider.Fetch(ctx, keys)
	if err != nil {
		return err
	}
	m.mu.Lock()
	for key, q := range fetched {
		m.quotes[key] = q
	}
	m.mu.Unlock()
	return nil
}

// AutoRefresh re-fetches quotes on a fixed interval until ctx is done.
// keys is re-evaluated on each tick so newly held tickers are picked up.
// Fetch failures are logged and the loop carries on.
func (m *MarketData) AutoRefresh(ctx context.Context, interval time.Duration, keys func() []string) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := m.Refresh(ctx, keys(), true); err != nil {
					log.Printf("quote refresh failed: %v", err)
				}
			}
		}
	}()
}
