package finbook

import (
	"iter"
	"sort"
)

// Ledger holds the full transaction history.
//
// In a Ledger transactions are always in chronological order; transactions
// on the same day keep their insertion order.
type Ledger struct {
	transactions []Transaction
}

// NewLedger creates an empty ledger.
func NewLedger(txs ...Transaction) *Ledger {
	l := &Ledger{transactions: make([]Transaction, 0, len(txs))}
	l.Append(txs...)
	return l
}

// Len returns the number of transactions in the ledger.
func (l *Ledger) Len() int { return len(l.transactions) }

// Append adds transactions to the ledger and maintains chronological order.
func (l *Ledger) Append(txs ...Transaction) {
	l.transactions = append(l.transactions, txs...)
	l.stableSort()
}

// Get returns the transaction with the given id, or nil.
func (l *Ledger) Get(id string) Transaction {
	for _, tx := range l.transactions {
		if tx.ID() == id {
			return tx
		}
	}
	return nil
}

// Remove deletes the transaction with the given id. It reports whether a
// transaction was removed.
func (l *Ledger) Remove(id string) bool {
	for i, tx := range l.transactions {
		if tx.ID() == id {
			l.transactions = append(l.transactions[:i], l.transactions[i+1:]...)
			return true
		}
	}
	return false
}

// Replace swaps the stored transaction carrying tx's id for tx, re-sorting
// if the date moved. It reports whether a transaction was replaced.
func (l *Ledger) Replace(tx Transaction) bool {
	for i, old := range l.transactions {
		if old.ID() == tx.ID() {
			l.transactions[i] = tx
			if old.When() != tx.When() {
				l.stableSort()
			}
			return true
		}
	}
	return false
}

// Transactions returns an iterator over transactions in chronological order.
func (l *Ledger) Transactions() iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.transactions {
			if !yield(i, tx) {
				return
			}
		}
	}
}

// InvestingHistory returns the chronological investing transactions for
// one (account, ticker) pair. This is the accumulator's input.
func (l *Ledger) InvestingHistory(accountID, ticker string) []Investing {
	var history []Investing
	for _, tx := range l.transactions {
		if v, ok := tx.(Investing); ok && v.AccountID == accountID && v.Ticker == ticker {
			history = append(history, v)
		}
	}
	return history
}

// stableSort sorts the ledger by transaction date. The sort is stable, so
// transactions on the same day keep their relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].When().Before(l.transactions[j].When())
	})
}
