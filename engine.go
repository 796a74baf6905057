package finbook

import (
	"fmt"
	"iter"
	"log"
	"slices"
	"sort"
)

// HoldingKey identifies a lot: one ticker within one investing account.
type HoldingKey struct {
	AccountID string
	Ticker    string
}

// Changes lists what a mutation touched, so the caller knows which rows to
// mirror to the store.
type Changes struct {
	Accounts        []string     // ids of accounts whose balance changed
	Holdings        []HoldingKey // lots created or updated
	RemovedHoldings []HoldingKey // lots closed
}

func (c *Changes) touchAccount(id string) {
	if !slices.Contains(c.Accounts, id) {
		c.Accounts = append(c.Accounts, id)
	}
}

// merge folds other into c.
func (c *Changes) merge(other Changes) {
	for _, id := range other.Accounts {
		c.touchAccount(id)
	}
	c.Holdings = append(c.Holdings, other.Holdings...)
	c.RemovedHoldings = append(c.RemovedHoldings, other.RemovedHoldings...)
}

// State is the in-memory book: every account, every lot, and the full
// transaction ledger they are derived from. Within a session it is the
// source of truth; stores are eventually-consistent mirrors.
//
// All mutations go through ApplyNew, ApplyEdit and ApplyDelete, which keep
// balances and holdings consistent with the ledger. State is not safe for
// concurrent mutation; the engine is single-threaded by design.
type State struct {
	accounts map[string]*Account
	holdings map[HoldingKey]Holding
	ledger   *Ledger
	policy   CostPolicy
}

// NewState creates an empty book using the given cost policy.
func NewState(policy CostPolicy) *State {
	return &State{
		accounts: make(map[string]*Account),
		holdings: make(map[HoldingKey]Holding),
		ledger:   NewLedger(),
		policy:   policy,
	}
}

// AddAccount registers an account. An existing account with the same id is
// replaced.
func (s *State) AddAccount(a Account) {
	s.accounts[a.ID] = &a
}

// Account returns the account with the given id, or nil.
func (s *State) Account(id string) *Account { return s.accounts[id] }

// Accounts returns all accounts sorted by name.
func (s *State) Accounts() []Account {
	list := make([]Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		list = append(list, *a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// SetHolding stores a lot directly, bypassing the accumulator. Used when
// restoring state from a persisted mirror.
func (s *State) SetHolding(key HoldingKey, h Holding) {
	s.holdings[key] = h
}

// Holding returns the lot for the given key.
func (s *State) Holding(key HoldingKey) (Holding, bool) {
	h, ok := s.holdings[key]
	return h, ok
}

// Holdings returns an iterator over all lots.
func (s *State) Holdings() iter.Seq2[HoldingKey, Holding] {
	keys := make([]HoldingKey, 0, len(s.holdings))
	for k := range s.holdings {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].AccountID != keys[j].AccountID {
			return keys[i].AccountID < keys[j].AccountID
		}
		return keys[i].Ticker < keys[j].Ticker
	})
	return func(yield func(HoldingKey, Holding) bool) {
		for _, k := range keys {
			if !yield(k, s.holdings[k]) {
				return
			}
		}
	}
}

// Ledger returns the transaction ledger.
func (s *State) Ledger() *Ledger { return s.ledger }

// Policy returns the cost policy in effect.
func (s *State) Policy() CostPolicy { return s.policy }

// signed returns amount when sign is +1 and its negation when sign is -1.
func signed(amount Money, sign int) Money {
	if sign < 0 {
		return amount.Neg()
	}
	return amount
}

// creditAccount applies a kind-aware credit to an account. A missing
// account is skipped, never an error: callers may hold stale references
// and the engine does not enforce referential integrity.
func (s *State) creditAccount(id string, amount Money, changes *Changes) {
	a, ok := s.accounts[id]
	if !ok {
		log.Printf("skipping balance change: account %q not found", id)
		return
	}
	a.credit(amount)
	changes.touchAccount(id)
}

// adjustAccount applies a plain signed delta regardless of account kind.
func (s *State) adjustAccount(id string, delta Money, changes *Changes) {
	a, ok := s.accounts[id]
	if !ok {
		log.Printf("skipping balance change: account %q not found", id)
		return
	}
	a.add(delta)
	changes.touchAccount(id)
}

// applyCash applies the cash-balance effect of a transaction. sign is +1
// to apply and -1 to reverse; reversal uses exactly the inverse deltas, so
// delete restores prior balances.
func (s *State) applyCash(tx Transaction, sign int, changes *Changes) {
	switch v := tx.(type) {
	case Income:
		s.creditAccount(v.AccountID, signed(v.Amount, sign), changes)
	case Expense:
		s.creditAccount(v.AccountID, signed(v.Amount.Neg(), sign), changes)
	case Transfer:
		if v.SourceAccountID != "" {
			s.adjustAccount(v.SourceAccountID, signed(v.Amount.Neg(), sign), changes)
		}
		if v.RecipientAccountID != "" {
			s.adjustAccount(v.RecipientAccountID, signed(v.Amount, sign), changes)
		}
	case DebtPayment:
		if v.SourceAccountID != "" {
			s.adjustAccount(v.SourceAccountID, signed(v.Amount.Neg(), sign), changes)
		}
		// The debt side is always a reduction, regardless of kind.
		s.adjustAccount(v.DebtAccountID, signed(v.Amount.Neg(), sign), changes)
	case Investing:
		if v.SourceAccountID != "" {
			s.adjustAccount(v.SourceAccountID, signed(v.Amount.Neg(), sign), changes)
		}
	}
}

// ApplyNew applies a freshly created transaction: cash deltas first, then,
// for investing buys and sells, an incremental merge of this single
// transaction into the affected lot. The investing account's own balance
// is not set here; it is refreshed by the next valuation pass.
func (s *State) ApplyNew(tx Transaction) (Changes, error) {
	tx, err := prepare(tx)
	if err != nil {
		return Changes{}, err
	}

	var changes Changes
	s.applyCash(tx, +1, &changes)

	if v, ok := tx.(Investing); ok && v.Ticker != "" && v.Action != Dividend {
		key := HoldingKey{AccountID: v.AccountID, Ticker: v.Ticker}
		lot, exists := s.holdings[key]
		lot, exists = applyLot(lot, exists, v, s.policy)
		if exists && !lot.Shares.NearZero() {
			s.holdings[key] = lot
			changes.Holdings = append(changes.Holdings, key)
		} else {
			if _, held := s.holdings[key]; held {
				delete(s.holdings, key)
				changes.RemovedHoldings = append(changes.RemovedHoldings, key)
			}
		}
	}

	s.ledger.Append(tx)
	return changes, nil
}

// ApplyEdit replaces an existing transaction. When none of the financial
// fields changed, only the descriptive fields are updated in place and no
// balance moves. Otherwise the old effect is reversed against the old
// accounts and the new effect applied against the new accounts, always as
// two distinct steps so the debt/asset sign rules stay uniform.
//
// Lots are not recomputed on investing edits; only the generic cash
// reversal applies. Delete-and-recreate is the consistent path for
// reshaping an investing transaction.
func (s *State) ApplyEdit(oldTx, newTx Transaction) (Changes, error) {
	if oldTx.ID() != newTx.ID() {
		return Changes{}, fmt.Errorf("edit must keep the transaction id: %q != %q", oldTx.ID(), newTx.ID())
	}
	stored := s.ledger.Get(oldTx.ID())
	if stored == nil {
		return Changes{}, fmt.Errorf("transaction %q not found", oldTx.ID())
	}
	newTx, err := prepare(newTx)
	if err != nil {
		return Changes{}, err
	}

	var changes Changes
	if !FinanciallyEqual(stored, newTx) {
		s.applyCash(stored, -1, &changes)
		s.applyCash(newTx, +1, &changes)
	}
	s.ledger.Replace(newTx)
	return changes, nil
}

// ApplyDelete reverses a transaction's effect and removes it from the
// ledger. For investing transactions with a ticker, the affected lot is
// rebuilt by replaying the complete remaining history through the
// accumulator; the full replay is the safety net against incremental
// drift.
func (s *State) ApplyDelete(tx Transaction) (Changes, error) {
	stored := s.ledger.Get(tx.ID())
	if stored == nil {
		return Changes{}, fmt.Errorf("transaction %q not found", tx.ID())
	}

	var changes Changes
	s.applyCash(stored, -1, &changes)
	s.ledger.Remove(stored.ID())

	if v, ok := stored.(Investing); ok && v.Ticker != "" {
		key := HoldingKey{AccountID: v.AccountID, Ticker: v.Ticker}
		changes.merge(s.rebuildLot(key))
	}
	return changes, nil
}

// rebuildLot replays the remaining history for one key and swaps the
// resulting lot in (or out) of the holdings set.
func (s *State) rebuildLot(key HoldingKey) Changes {
	var changes Changes
	lot, ok := Accumulate(s.ledger.InvestingHistory(key.AccountID, key.Ticker), s.policy)
	_, held := s.holdings[key]
	switch {
	case ok:
		s.holdings[key] = lot
		changes.Holdings = append(changes.Holdings, key)
	case held:
		delete(s.holdings, key)
		changes.RemovedHoldings = append(changes.RemovedHoldings, key)
	}
	return changes
}

// prepare validates a transaction and normalizes investing variants.
func prepare(tx Transaction) (Transaction, error) {
	if tx == nil {
		return nil, fmt.Errorf("nil transaction")
	}
	if tx.ID() == "" {
		return nil, fmt.Errorf("transaction has no id")
	}
	if v, ok := tx.(Investing); ok {
		return v.Normalized(), nil
	}
	return tx, nil
}
