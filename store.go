package finbook

import (
	"context"
	"errors"
)

// Store is the persistence port. After each mutation the system mirrors
// the changed account rows and the changed holding rows, keyed by
// (accountID, ticker), plus the transaction itself. Implementations are
// eventually-consistent mirrors; the in-memory State remains the source
// of truth for the session.
type Store interface {
	UpsertAccounts(ctx context.Context, accounts []Account) error
	UpsertHolding(ctx context.Context, accountID string, h Holding) error
	DeleteHolding(ctx context.Context, accountID, ticker string) error
	UpsertTransaction(ctx context.Context, tx Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
}

// multiStore fans every write out to several mirrors, joining errors.
type multiStore struct {
	stores []Store
}

// MultiStore combines stores into one, e.g. a local cache plus a remote
// mirror. Every write goes to all of them; errors are joined.
func MultiStore(stores ...Store) Store {
	return &multiStore{stores: stores}
}

func (m *multiStore) UpsertAccounts(ctx context.Context, accounts []Account) error {
	var errs error
	for _, s := range m.stores {
		errs = errors.Join(errs, s.UpsertAccounts(ctx, accounts))
	}
	return errs
}

func (m *multiStore) UpsertHolding(ctx context.Context, accountID string, h Holding) error {
	var errs error
	for _, s := range m.stores {
		errs = errors.Join(errs, s.UpsertHolding(ctx, accountID, h))
	}
	return errs
}

func (m *multiStore) DeleteHolding(ctx context.Context, accountID, ticker string) error {
	var errs error
	for _, s := range m.stores {
		errs = errors.Join(errs, s.DeleteHolding(ctx, accountID, ticker))
	}
	return errs
}

func (m *multiStore) UpsertTransaction(ctx context.Context, tx Transaction) error {
	var errs error
	for _, s := range m.stores {
		errs = errors.Join(errs, s.UpsertTransaction(ctx, tx))
	}
	return errs
}

func (m *multiStore) DeleteTransaction(ctx context.Context, id string) error {
	var errs error
	for _, s := range m.stores {
		errs = errors.Join(errs, s.DeleteTransaction(ctx, id))
	}
	return errs
}
