package finbook

import "strings"

// Holding is a single lot: the blended position of one ticker within one
// investing account. Multiple buys merge into a single weighted-average-
// cost lot; shares are signed, so an over-sold position is carried as a
// negative share count.
type Holding struct {
	Ticker         string   `json:"ticker"`
	Shares         Quantity `json:"shares"`
	AvgCost        Money    `json:"avgCost"`
	CurrencyPrice  string   `json:"currencyPrice,omitempty"`
	IsPennyStock   bool     `json:"isPennyStock,omitempty"`
	IsLondonListed bool     `json:"isLondonListed,omitempty"`
}

// MarketKey returns the market-data key for the holding. London-listed
// tickers are suffixed ".L".
func (h Holding) MarketKey() string {
	if h.IsLondonListed && !strings.HasSuffix(h.Ticker, ".L") {
		return h.Ticker + ".L"
	}
	return h.Ticker
}

// CostBasis returns the total cost of the lot (shares times average cost).
func (h Holding) CostBasis() Money { return h.AvgCost.Mul(h.Shares) }

// Valuation is the market view of a lot at a resolved price.
type Valuation struct {
	Price        Money // price actually used (market, or average cost fallback)
	CurrentValue Money
	UnrealizedPL Money
	PLPercent    float64
}

// Value combines the lot with a current market price. A zero price means
// no market data is available; the average cost is used instead, which
// yields zero unrealized P/L rather than an error.
func (h Holding) Value(currentPrice Money) Valuation {
	price := currentPrice
	if price.IsZero() {
		price = h.AvgCost
	}
	value := price.Mul(h.Shares)
	basis := h.CostBasis()
	pl := value.Sub(basis)
	var percent float64
	if !basis.IsZero() {
		percent = pl.AsFloat() / basis.AsFloat() * 100
	}
	return Valuation{Price: price, CurrentValue: value, UnrealizedPL: pl, PLPercent: percent}
}
