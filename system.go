package finbook

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// System ties the book together: the in-memory state, the quote cache,
// and the persistence mirror. Every mutation runs to completion
// synchronously against the state; the mirror write is fire-and-forget
// and its failure is logged, never propagated. The optimistic in-memory
// update stands regardless of whether the mirror write succeeded.
type System struct {
	State  *State
	Market *MarketData
	store  Store
	wg     sync.WaitGroup
}

// NewSystem creates a system. store may be nil for a purely in-memory
// session.
func NewSystem(state *State, market *MarketData, store Store) *System {
	if market == nil {
		market = NewMarketData(nil)
	}
	return &System{State: state, Market: market, store: store}
}

// AddAccount registers an account and mirrors it synchronously. Unlike
// transaction writes, account creation is rare and the caller wants to
// know it stuck.
func (sys *System) AddAccount(a Account) error {
	sys.State.AddAccount(a)
	if sys.store == nil {
		return nil
	}
	return sys.store.UpsertAccounts(context.Background(), []Account{a})
}

// AddTransaction applies a new transaction and mirrors the result.
func (sys *System) AddTransaction(tx Transaction) (Changes, error) {
	changes, err := sys.State.ApplyNew(tx)
	if err != nil {
		return changes, err
	}
	changes.merge(sys.State.RefreshValuations(sys.Market))
	sys.persist(changes, sys.State.Ledger().Get(tx.ID()), "")
	return changes, nil
}

// EditTransaction applies an edit and mirrors the result.
func (sys *System) EditTransaction(oldTx, newTx Transaction) (Changes, error) {
	changes, err := sys.State.ApplyEdit(oldTx, newTx)
	if err != nil {
		return changes, err
	}
	changes.merge(sys.State.RefreshValuations(sys.Market))
	sys.persist(changes, sys.State.Ledger().Get(newTx.ID()), "")
	return changes, nil
}

// DeleteTransaction reverses and removes a transaction, mirroring the
// result.
func (sys *System) DeleteTransaction(tx Transaction) (Changes, error) {
	changes, err := sys.State.ApplyDelete(tx)
	if err != nil {
		return changes, err
	}
	changes.merge(sys.State.RefreshValuations(sys.Market))
	sys.persist(changes, nil, tx.ID())
	return changes, nil
}

// SetBalance edits an account balance directly by synthesizing a
// "Balance Adjustment" income or expense for the difference, so the
// ledger stays consistent with the stored balance.
func (sys *System) SetBalance(id string, accountID string, target Money) (Transaction, error) {
	a := sys.State.Account(accountID)
	if a == nil {
		return nil, fmt.Errorf("account %q not found", accountID)
	}
	delta := target.Sub(a.Balance)
	if delta.IsZero() {
		return nil, nil
	}
	if a.Kind == Debt {
		// On a debt, income reduces the balance: a higher target is an
		// expense, a lower one an income.
		delta = delta.Neg()
	}
	var tx Transaction
	if delta.IsPositive() {
		tx = NewIncome(id, Today(), "", CategoryBalanceAdjustment, accountID, delta)
	} else {
		tx = NewExpense(id, Today(), "", CategoryBalanceAdjustment, accountID, delta.Neg())
	}
	if _, err := sys.AddTransaction(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// RefreshQuotes pulls fresh prices for every held market key (throttled)
// and re-derives investing balances, mirroring any balance that moved
// beyond tolerance.
func (sys *System) RefreshQuotes(ctx context.Context, force bool) error {
	var keys []string
	for _, lot := range sys.State.Holdings() {
		keys = append(keys, lot.MarketKey())
	}
	err := sys.Market.Refresh(ctx, keys, force)
	changes := sys.State.RefreshValuations(sys.Market)
	sys.persist(changes, nil, "")
	return err
}

// persist mirrors changes to the store asynchronously. The caller never
// waits and never sees the error; a failed mirror write is logged and the
// in-memory state stands.
func (sys *System) persist(changes Changes, upsertTx Transaction, deleteTxID string) {
	if sys.store == nil {
		return
	}
	var accounts []Account
	for _, id := range changes.Accounts {
		if a := sys.State.Account(id); a != nil {
			accounts = append(accounts, *a)
		}
	}
	holdings := make(map[HoldingKey]Holding, len(changes.Holdings))
	for _, key := range changes.Holdings {
		if h, ok := sys.State.Holding(key); ok {
			holdings[key] = h
		}
	}
	removed := changes.RemovedHoldings

	sys.wg.Add(1)
	go func() {
		defer sys.wg.Done()
		ctx := context.Background()
		if len(accounts) > 0 {
			if err := sys.store.UpsertAccounts(ctx, accounts); err != nil {
				log.Printf("store: upsert accounts failed: %v", err)
			}
		}
		for key, h := range holdings {
			if err := sys.store.UpsertHolding(ctx, key.AccountID, h); err != nil {
				log.Printf("store: upsert holding %s/%s failed: %v", key.AccountID, key.Ticker, err)
			}
		}
		for _, key := range removed {
			if err := sys.store.DeleteHolding(ctx, key.AccountID, key.Ticker); err != nil {
				log.Printf("store: delete holding %s/%s failed: %v", key.AccountID, key.Ticker, err)
			}
		}
		if upsertTx != nil {
			if err := sys.store.UpsertTransaction(ctx, upsertTx); err != nil {
				log.Printf("store: upsert transaction %s failed: %v", upsertTx.ID(), err)
			}
		}
		if deleteTxID != "" {
			if err := sys.store.DeleteTransaction(ctx, deleteTxID); err != nil {
				log.Printf("store: delete transaction %s failed: %v", deleteTxID, err)
			}
		}
	}()
}

// Flush waits for in-flight mirror writes. Intended for shutdown paths
// and tests.
func (sys *System) Flush() { sys.wg.Wait() }
