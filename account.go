package finbook

import (
	"encoding/json"
	"fmt"
)

// AccountKind distinguishes asset accounts from debt accounts. The two
// kinds apply opposite sign rules to income and expense transactions.
type AccountKind int

const (
	// Asset is a cash, investing or other asset account: income raises
	// its balance, expenses lower it.
	Asset AccountKind = iota
	// Debt is a liability account: income lowers its balance, expenses
	// raise it.
	Debt
)

func (k AccountKind) String() string {
	switch k {
	case Asset:
		return "asset"
	case Debt:
		return "debt"
	default:
		return "unknown"
	}
}

// ParseAccountKind parses a string into an AccountKind.
func ParseAccountKind(s string) (AccountKind, error) {
	switch s {
	case "asset":
		return Asset, nil
	case "debt":
		return Debt, nil
	default:
		return 0, fmt.Errorf("unknown account kind: %q", s)
	}
}

// MarshalJSON implements the json.Marshaler interface.
func (k AccountKind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

// UnmarshalJSON implements the json.Unmarshaler interface.
func (k *AccountKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAccountKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// AccountStatus marks whether an account still participates in the book.
type AccountStatus int

const (
	Active AccountStatus = iota
	Closed
)

func (s AccountStatus) String() string {
	switch s {
	case Active:
		return "active"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// ParseAccountStatus parses a string into an AccountStatus.
func ParseAccountStatus(v string) (AccountStatus, error) {
	switch v {
	case "active":
		return Active, nil
	case "closed":
		return Closed, nil
	default:
		return 0, fmt.Errorf("unknown account status: %q", v)
	}
}

// MarshalJSON implements the json.Marshaler interface.
func (s AccountStatus) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *AccountStatus) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := ParseAccountStatus(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// SubtypeInvesting marks an account whose balance is derived from the
// valuation of its holdings rather than from the running transaction sum.
const SubtypeInvesting = "investing"

// Account is an asset or debt account. Balance is a derived cache: for
// non-investing accounts it is the running sum of signed transaction
// amounts; for investing accounts it is the summed valuation of held lots.
type Account struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Kind    AccountKind   `json:"kind"`
	Subtype string        `json:"subtype,omitempty"`
	Balance Money         `json:"balance"`
	Status  AccountStatus `json:"status"`
}

// NewAccount creates an active account with a zero balance.
func NewAccount(id, name string, kind AccountKind, subtype, currency string) Account {
	return Account{
		ID:      id,
		Name:    name,
		Kind:    kind,
		Subtype: subtype,
		Balance: M(0, currency),
		Status:  Active,
	}
}

// IsInvesting reports whether the account's balance is holdings-derived.
func (a *Account) IsInvesting() bool { return a.Subtype == SubtypeInvesting }

// add applies a plain signed delta to the balance, ignoring the account kind.
func (a *Account) add(delta Money) { a.Balance = a.Balance.Add(delta) }

// credit applies a kind-aware delta: a credit raises an asset balance and
// lowers a debt balance. Pass a negative amount for a debit.
func (a *Account) credit(amount Money) {
	if a.Kind == Debt {
		a.Balance = a.Balance.Sub(amount)
		return
	}
	a.Balance = a.Balance.Add(amount)
}
