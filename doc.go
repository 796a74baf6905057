// Package finbook implements the bookkeeping core of a personal-finance
// tracker: accounts and debts, a transaction ledger, investment holdings
// with average-cost accounting, and the recomputation rules that keep
// balances and holdings consistent with the ledger across creates, edits
// and deletes.
//
// The package is a library. It defines no wire protocol; the cmd
// subpackage provides a CLI front end, and the cache and pgstore
// subpackages provide persistence mirrors behind the Store port.
package finbook
