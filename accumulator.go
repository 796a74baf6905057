package finbook

// This file implements the average-cost lot accumulator: the fold that
// turns the ordered investing history of one (account, ticker) pair into
// the single resulting lot. It is re-run from scratch whenever a
// transaction affecting that ticker is deleted, so the lot can never
// drift from the ledger.

// applyLot merges a single buy/sell transaction into an existing lot.
// exists reports whether a lot is currently held; the returned bool
// reports whether a lot remains after the merge. Dividends never reach
// this function: they affect cash, not share count.
func applyLot(lot Holding, exists bool, tx Investing, policy CostPolicy) (Holding, bool) {
	unit := tx.unitCost()

	if !exists {
		// Only a buy with positive shares opens a lot. A sell against no
		// position is ignored: reconstruction never creates short lots.
		if tx.Action != Buy || !tx.Shares.IsPositive() {
			return Holding{}, false
		}
		return Holding{
			Ticker:         tx.Ticker,
			Shares:         tx.Shares,
			AvgCost:        unit,
			CurrencyPrice:  tx.CurrencyPrice,
			IsPennyStock:   tx.IsPennyStock,
			IsLondonListed: tx.IsLondonListed,
		}, true
	}

	newShares := lot.Shares.Add(tx.Shares)
	switch {
	case newShares.NearZero():
		// Crossing zero closes the lot and wipes its accumulated cost.
		return Holding{}, false
	case newShares.IsPositive():
		blend := tx.Shares.IsPositive() || policy == BlendSalePrice
		if blend {
			cost := lot.AvgCost.Mul(lot.Shares).Add(unit.Mul(tx.Shares))
			lot.AvgCost = cost.Div(newShares).exact()
		}
		lot.Shares = newShares
	default:
		// Net short: carry the negative share count, keep the prior average.
		lot.Shares = newShares
	}
	return lot, true
}

// Accumulate folds the complete ordered investing history of one
// (account, ticker) pair into the resulting lot. It is pure: the same
// history always yields the same lot. The final filter drops any lot
// whose share count is not above the closing epsilon.
func Accumulate(history []Investing, policy CostPolicy) (Holding, bool) {
	var lot Holding
	var exists bool
	for _, tx := range history {
		if tx.Action == Dividend {
			continue
		}
		lot, exists = applyLot(lot, exists, tx.Normalized(), policy)
	}
	if !exists || !lot.Shares.AboveEpsilon() {
		return Holding{}, false
	}
	return lot, true
}
