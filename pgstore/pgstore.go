// Package pgstore mirrors the book to PostgreSQL. It is the remote side
// of the persistence port: upserts and keyed deletes, never reads on the
// mutation path.
package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/finbook/finbook"
)

// Store implements the finbook.Store port for PostgreSQL.
type Store struct {
	db *sql.DB
}

// Open connects to the database and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot reach postgres: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS accounts (
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			kind     TEXT NOT NULL,
			subtype  TEXT NOT NULL DEFAULT '',
			currency TEXT NOT NULL DEFAULT '',
			balance  NUMERIC NOT NULL DEFAULT 0,
			status   TEXT NOT NULL DEFAULT 'active'
		);
		CREATE TABLE IF NOT EXISTS holdings (
			account_id TEXT NOT NULL,
			ticker     TEXT NOT NULL,
			shares     NUMERIC NOT NULL,
			avg_cost   NUMERIC NOT NULL,
			currency   TEXT NOT NULL DEFAULT '',
			penny      BOOLEAN NOT NULL DEFAULT FALSE,
			london     BOOLEAN NOT NULL DEFAULT FALSE,
			PRIMARY KEY (account_id, ticker)
		);
		CREATE TABLE IF NOT EXISTS transactions (
			id      TEXT PRIMARY KEY,
			date    DATE NOT NULL,
			type    TEXT NOT NULL,
			payload JSONB NOT NULL
		);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// UpsertAccounts implements the Store port.
func (s *Store) UpsertAccounts(ctx context.Context, accounts []finbook.Account) error {
	const query = `
		INSERT INTO accounts (id, name, kind, subtype, currency, balance, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			kind = EXCLUDED.kind,
			subtype = EXCLUDED.subtype,
			currency = EXCLUDED.currency,
			balance = EXCLUDED.balance,
			status = EXCLUDED.status`
	for _, a := range accounts {
		_, err := s.db.ExecContext(ctx, query,
			a.ID, a.Name, a.Kind.String(), a.Subtype,
			a.Balance.Currency(), a.Balance.Number(), a.Status.String())
		if err != nil {
			return fmt.Errorf("failed to upsert account %q: %w", a.ID, err)
		}
	}
	return nil
}

// UpsertHolding implements the Store port.
func (s *Store) UpsertHolding(ctx context.Context, accountID string, h finbook.Holding) error {
	const query = `
		INSERT INTO holdings (account_id, ticker, shares, avg_cost, currency, penny, london)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (account_id, ticker) DO UPDATE SET
			shares = EXCLUDED.shares,
			avg_cost = EXCLUDED.avg_cost,
			currency = EXCLUDED.currency,
			penny = EXCLUDED.penny,
			london = EXCLUDED.london`
	_, err := s.db.ExecContext(ctx, query,
		accountID, h.Ticker, h.Shares.String(), h.AvgCost.Number(),
		h.CurrencyPrice, h.IsPennyStock, h.IsLondonListed)
	if err != nil {
		return fmt.Errorf("failed to upsert holding %s/%s: %w", accountID, h.Ticker, err)
	}
	return nil
}

// DeleteHolding implements the Store port.
func (s *Store) DeleteHolding(ctx context.Context, accountID, ticker string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM holdings WHERE account_id = $1 AND ticker = $2`, accountID, ticker)
	if err != nil {
		return fmt.Errorf("failed to delete holding %s/%s: %w", accountID, ticker, err)
	}
	return nil
}

// UpsertTransaction implements the Store port. The transaction is stored
// as its serialized form, alongside the columns used for querying.
func (s *Store) UpsertTransaction(ctx context.Context, tx finbook.Transaction) error {
	payload, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("cannot serialize transaction %q: %w", tx.ID(), err)
	}
	const query = `
		INSERT INTO transactions (id, date, type, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			date = EXCLUDED.date,
			type = EXCLUDED.type,
			payload = EXCLUDED.payload`
	_, err = s.db.ExecContext(ctx, query, tx.ID(), tx.When().String(), string(tx.Kind()), payload)
	if err != nil {
		return fmt.Errorf("failed to upsert transaction %q: %w", tx.ID(), err)
	}
	return nil
}

// DeleteTransaction implements the Store port.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete transaction %q: %w", id, err)
	}
	return nil
}
