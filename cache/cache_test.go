package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbook/finbook"
)

func day(s string) finbook.Date { return finbook.MustParseDate(s) }

func TestStore_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book", "finbook.json")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)

	checking := finbook.NewAccount("checking", "Checking", finbook.Asset, "", "USD")
	visa := finbook.NewAccount("visa", "Visa Card", finbook.Debt, "", "USD")
	require.NoError(t, s.UpsertAccounts(ctx, []finbook.Account{checking, visa}))

	lot := finbook.Holding{Ticker: "AAPL", Shares: finbook.Q(10), AvgCost: finbook.M(150, "USD")}
	require.NoError(t, s.UpsertHolding(ctx, "brokerage", lot))

	tx := finbook.NewIncome("t1", day("2025-01-10"), "ACME", "Salary", "checking", finbook.M(4200, "USD"))
	require.NoError(t, s.UpsertTransaction(ctx, tx))

	// A fresh store reads everything back from disk.
	reloaded, err := Open(path)
	require.NoError(t, err)
	state := reloaded.Restore(finbook.BlendSalePrice)

	require.NotNil(t, state.Account("checking"))
	assert.Equal(t, finbook.Debt, state.Account("visa").Kind)
	got, ok := state.Holding(finbook.HoldingKey{AccountID: "brokerage", Ticker: "AAPL"})
	require.True(t, ok)
	assert.True(t, got.Shares.Equal(finbook.Q(10)))
	require.NotNil(t, state.Ledger().Get("t1"))
	assert.True(t, tx.Equal(state.Ledger().Get("t1")))
}

func TestStore_DeletesShrinkTheDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finbook.json")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.UpsertHolding(ctx, "brokerage", finbook.Holding{Ticker: "AAPL", Shares: finbook.Q(1), AvgCost: finbook.M(1, "USD")}))
	require.NoError(t, s.UpsertTransaction(ctx, finbook.NewExpense("t1", day("2025-01-10"), "", "", "checking", finbook.M(5, "USD"))))

	require.NoError(t, s.DeleteHolding(ctx, "brokerage", "AAPL"))
	require.NoError(t, s.DeleteTransaction(ctx, "t1"))

	reloaded, err := Open(path)
	require.NoError(t, err)
	state := reloaded.Restore(finbook.BlendSalePrice)
	_, ok := state.Holding(finbook.HoldingKey{AccountID: "brokerage", Ticker: "AAPL"})
	assert.False(t, ok)
	assert.Equal(t, 0, state.Ledger().Len())
}

func TestStore_MissingFileIsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	state := s.Restore(finbook.BlendSalePrice)
	assert.Empty(t, state.Accounts())
}

func TestStore_CorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finbook.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := Open(path)
	assert.Error(t, err)
}

func TestStore_DocumentShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finbook.json")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.UpsertAccounts(ctx, []finbook.Account{
		finbook.NewAccount("visa", "Visa Card", finbook.Debt, "", "USD"),
		finbook.NewAccount("checking", "Checking", finbook.Asset, "", "USD"),
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	// Accounts are split per kind into their own collections.
	assert.Contains(t, doc, "assets")
	assert.Contains(t, doc, "debts")
	assert.Contains(t, doc, "holdings")
	assert.Contains(t, doc, "transactions")
}
