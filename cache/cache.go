// Package cache persists the book to a single local JSON document: one
// flat object with a collection per entity type, serialized exactly as
// the data model. The file is the local mirror of the session state and
// is rewritten in full on every change.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/finbook/finbook"
)

// holdingRow is a holding keyed by its owning account for the flat
// document.
type holdingRow struct {
	AccountID string `json:"accountId"`
	finbook.Holding
}

// document is the on-disk shape of the cache.
type document struct {
	Assets       []finbook.Account `json:"assets"`
	Debts        []finbook.Account `json:"debts"`
	Holdings     []holdingRow      `json:"holdings"`
	Transactions []json.RawMessage `json:"transactions"`
}

// Store implements the finbook.Store port against a local JSON file.
type Store struct {
	mu   sync.Mutex
	path string

	accounts     map[string]finbook.Account
	holdings     map[finbook.HoldingKey]finbook.Holding
	transactions map[string]finbook.Transaction
}

// Open reads the cache file at path, creating an empty store when the
// file does not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{
		path:         path,
		accounts:     make(map[string]finbook.Account),
		holdings:     make(map[finbook.HoldingKey]finbook.Holding),
		transactions: make(map[string]finbook.Transaction),
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open cache %q: %w", path, err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("cache %q is not valid JSON: %w", path, err)
	}
	for _, a := range doc.Assets {
		s.accounts[a.ID] = a
	}
	for _, a := range doc.Debts {
		s.accounts[a.ID] = a
	}
	for _, row := range doc.Holdings {
		s.holdings[finbook.HoldingKey{AccountID: row.AccountID, Ticker: row.Ticker}] = row.Holding
	}
	for _, raw := range doc.Transactions {
		tx, err := finbook.UnmarshalTransaction(raw)
		if err != nil {
			return nil, fmt.Errorf("cache %q holds a bad transaction: %w", path, err)
		}
		s.transactions[tx.ID()] = tx
	}
	return s, nil
}

// Restore seeds a fresh State from the cached mirror.
func (s *Store) Restore(policy finbook.CostPolicy) *finbook.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := finbook.NewState(policy)
	for _, a := range s.accounts {
		state.AddAccount(a)
	}
	txs := make([]finbook.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		txs = append(txs, tx)
	}
	state.Ledger().Append(txs...)
	for key, h := range s.holdings {
		state.SetHolding(key, h)
	}
	return state
}

// UpsertAccounts implements the Store port.
func (s *Store) UpsertAccounts(_ context.Context, accounts []finbook.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range accounts {
		s.accounts[a.ID] = a
	}
	return s.flush()
}

// UpsertHolding implements the Store port.
func (s *Store) UpsertHolding(_ context.Context, accountID string, h finbook.Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holdings[finbook.HoldingKey{AccountID: accountID, Ticker: h.Ticker}] = h
	return s.flush()
}

// DeleteHolding implements the Store port.
func (s *Store) DeleteHolding(_ context.Context, accountID, ticker string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.holdings, finbook.HoldingKey{AccountID: accountID, Ticker: ticker})
	return s.flush()
}

// UpsertTransaction implements the Store port.
func (s *Store) UpsertTransaction(_ context.Context, tx finbook.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[tx.ID()] = tx
	return s.flush()
}

// DeleteTransaction implements the Store port.
func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.transactions, id)
	return s.flush()
}

// flush rewrites the cache file from the in-memory mirror. Collections
// are sorted so the file is stable and diff-friendly.
func (s *Store) flush() error {
	doc := document{
		Assets:       []finbook.Account{},
		Debts:        []finbook.Account{},
		Holdings:     []holdingRow{},
		Transactions: []json.RawMessage{},
	}
	ids := make([]string, 0, len(s.accounts))
	for id := range s.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		a := s.accounts[id]
		if a.Kind == finbook.Debt {
			doc.Debts = append(doc.Debts, a)
		} else {
			doc.Assets = append(doc.Assets, a)
		}
	}

	keys := make([]finbook.HoldingKey, 0, len(s.holdings))
	for key := range s.holdings {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].AccountID != keys[j].AccountID {
			return keys[i].AccountID < keys[j].AccountID
		}
		return keys[i].Ticker < keys[j].Ticker
	})
	for _, key := range keys {
		doc.Holdings = append(doc.Holdings, holdingRow{AccountID: key.AccountID, Holding: s.holdings[key]})
	}

	txIDs := make([]string, 0, len(s.transactions))
	for id := range s.transactions {
		txIDs = append(txIDs, id)
	}
	sort.Strings(txIDs)
	for _, id := range txIDs {
		raw, err := json.Marshal(s.transactions[id])
		if err != nil {
			return fmt.Errorf("cannot serialize transaction %q: %w", id, err)
		}
		doc.Transactions = append(doc.Transactions, raw)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
