package finbook

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind is a typed string identifying a transaction variant.
type Kind string

const (
	KindIncome      Kind = "income"
	KindExpense     Kind = "expense"
	KindTransfer    Kind = "transfer"
	KindInvesting   Kind = "investing"
	KindDebtPayment Kind = "debtpayment"
)

// Action identifies the investing sub-operation.
type Action string

const (
	Buy      Action = "buy"
	Sell     Action = "sell"
	Dividend Action = "dividend"
)

// GBX is the quote currency for UK penny sterling. A price quoted in GBX
// is one hundredth of a pound and is normalized before any cost-basis math.
const GBX = "GBX"

// CategoryBalanceAdjustment is the category of transactions synthesized by
// direct balance edits, so the ledger stays self-consistent.
const CategoryBalanceAdjustment = "Balance Adjustment"

var hundred = decimal.NewFromInt(100)

// Transaction is the common interface of all ledger transaction variants.
// Each variant carries only the fields relevant to its own semantics.
type Transaction interface {
	Kind() Kind // Kind returns the variant tag (e.g. "income", "transfer").
	When() Date // When returns the date on which the transaction occurred.
	ID() string // ID returns the transaction's unique identifier.
	Equal(Transaction) bool
}

type baseTx struct {
	Type     Kind   `json:"type"` // Type tags the transaction variant.
	TxID     string `json:"id"`
	Date     Date   `json:"date"`
	Merchant string `json:"merchant,omitempty"`
	Category string `json:"category,omitempty"`
}

func (t baseTx) Kind() Kind { return t.Type }
func (t baseTx) When() Date { return t.Date }
func (t baseTx) ID() string { return t.TxID }

// MarshalJSON implements the json.Marshaler interface for baseTx.
func (t baseTx) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("type", t.Type)
	w.Append("id", t.TxID)
	w.Append("date", t.Date)
	w.Optional("merchant", t.Merchant)
	w.Optional("category", t.Category)
	return w.MarshalJSON()
}

func (t baseTx) equal(o baseTx) bool {
	return t.Type == o.Type && t.TxID == o.TxID && t.Date == o.Date &&
		t.Merchant == o.Merchant && t.Category == o.Category
}

// Income credits an account: an asset balance rises, a debt balance falls.
type Income struct {
	baseTx
	AccountID string `json:"account"`
	Amount    Money  `json:"amount"`
}

// NewIncome creates a new Income transaction.
func NewIncome(id string, day Date, merchant, category, accountID string, amount Money) Income {
	return Income{
		baseTx:    baseTx{Type: KindIncome, TxID: id, Date: day, Merchant: merchant, Category: category},
		AccountID: accountID,
		Amount:    amount.Abs(),
	}
}

// MarshalJSON implements the json.Marshaler interface for Income.
func (t Income) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.Append("account", t.AccountID)
	w.Append("amount", t.Amount)
	return w.MarshalJSON()
}

func (t Income) Equal(other Transaction) bool {
	o, ok := other.(Income)
	return ok && t.baseTx.equal(o.baseTx) && t.AccountID == o.AccountID && t.Amount.Equal(o.Amount)
}

// Expense debits an account: an asset balance falls, a debt balance rises.
type Expense struct {
	baseTx
	AccountID string `json:"account"`
	Amount    Money  `json:"amount"`
}

// NewExpense creates a new Expense transaction.
func NewExpense(id string, day Date, merchant, category, accountID string, amount Money) Expense {
	return Expense{
		baseTx:    baseTx{Type: KindExpense, TxID: id, Date: day, Merchant: merchant, Category: category},
		AccountID: accountID,
		Amount:    amount.Abs(),
	}
}

// MarshalJSON implements the json.Marshaler interface for Expense.
func (t Expense) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.Append("account", t.AccountID)
	w.Append("amount", t.Amount)
	return w.MarshalJSON()
}

func (t Expense) Equal(other Transaction) bool {
	o, ok := other.(Expense)
	return ok && t.baseTx.equal(o.baseTx) && t.AccountID == o.AccountID && t.Amount.Equal(o.Amount)
}

// Transfer moves money from a source account to a recipient account.
// With only a recipient it behaves as income, with only a source as an
// expense.
type Transfer struct {
	baseTx
	SourceAccountID    string `json:"source,omitempty"`
	RecipientAccountID string `json:"recipient,omitempty"`
	Amount             Money  `json:"amount"`
}

// NewTransfer creates a new Transfer transaction.
func NewTransfer(id string, day Date, merchant, category, sourceID, recipientID string, amount Money) Transfer {
	return Transfer{
		baseTx:             baseTx{Type: KindTransfer, TxID: id, Date: day, Merchant: merchant, Category: category},
		SourceAccountID:    sourceID,
		RecipientAccountID: recipientID,
		Amount:             amount.Abs(),
	}
}

// MarshalJSON implements the json.Marshaler interface for Transfer.
func (t Transfer) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.Optional("source", t.SourceAccountID)
	w.Optional("recipient", t.RecipientAccountID)
	w.Append("amount", t.Amount)
	return w.MarshalJSON()
}

func (t Transfer) Equal(other Transaction) bool {
	o, ok := other.(Transfer)
	return ok && t.baseTx.equal(o.baseTx) && t.SourceAccountID == o.SourceAccountID &&
		t.RecipientAccountID == o.RecipientAccountID && t.Amount.Equal(o.Amount)
}

// DebtPayment moves money from a source cash account to reduce a specific
// debt. The debt side is always a reduction.
type DebtPayment struct {
	baseTx
	SourceAccountID string `json:"source,omitempty"`
	DebtAccountID   string `json:"debt"`
	Amount          Money  `json:"amount"`
}

// NewDebtPayment creates a new DebtPayment transaction.
func NewDebtPayment(id string, day Date, merchant, category, sourceID, debtID string, amount Money) DebtPayment {
	return DebtPayment{
		baseTx:          baseTx{Type: KindDebtPayment, TxID: id, Date: day, Merchant: merchant, Category: category},
		SourceAccountID: sourceID,
		DebtAccountID:   debtID,
		Amount:          amount.Abs(),
	}
}

// MarshalJSON implements the json.Marshaler interface for DebtPayment.
func (t DebtPayment) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.Optional("source", t.SourceAccountID)
	w.Append("debt", t.DebtAccountID)
	w.Append("amount", t.Amount)
	return w.MarshalJSON()
}

func (t DebtPayment) Equal(other Transaction) bool {
	o, ok := other.(DebtPayment)
	return ok && t.baseTx.equal(o.baseTx) && t.SourceAccountID == o.SourceAccountID &&
		t.DebtAccountID == o.DebtAccountID && t.Amount.Equal(o.Amount)
}

// Investing records a buy, sell or dividend on an investing account,
// optionally funded from a source cash account.
type Investing struct {
	baseTx
	AccountID       string   `json:"account"`
	SourceAccountID string   `json:"source,omitempty"`
	Amount          Money    `json:"amount"`
	Action          Action   `json:"action"`
	Ticker          string   `json:"ticker,omitempty"`
	Shares          Quantity `json:"shares,omitempty"`
	PricePerShare   Quantity `json:"pricePerShare,omitempty"`
	CurrencyPrice   string   `json:"currencyPrice,omitempty"`
	ExchangeRate    Quantity `json:"exchangeRate,omitempty"`
	IsPennyStock    bool     `json:"isPennyStock,omitempty"`
	IsLondonListed  bool     `json:"isLondonListed,omitempty"`

	londonSet bool // true when IsLondonListed was set explicitly
}

// NewInvesting creates a new Investing transaction and normalizes it.
func NewInvesting(id string, day Date, merchant, category, accountID, sourceID string, amount Money, action Action, ticker string, shares, pricePerShare Quantity) Investing {
	t := Investing{
		baseTx:          baseTx{Type: KindInvesting, TxID: id, Date: day, Merchant: merchant, Category: category},
		AccountID:       accountID,
		SourceAccountID: sourceID,
		Amount:          amount.Abs(),
		Action:          action,
		Ticker:          ticker,
		Shares:          shares,
		PricePerShare:   pricePerShare,
	}
	return t.Normalized()
}

// WithQuoteCurrency sets the currency the price is quoted in (e.g. "GBX")
// and the rate converting it to the account's home currency.
func (t Investing) WithQuoteCurrency(currency string, exchangeRate Quantity) Investing {
	t.CurrencyPrice = currency
	t.ExchangeRate = exchangeRate
	return t.Normalized()
}

// WithLondonListed explicitly overrides the London-listing flag, which
// otherwise defaults from the penny-stock flag.
func (t Investing) WithLondonListed(listed bool) Investing {
	t.IsLondonListed = listed
	t.londonSet = true
	return t
}

// Normalized applies the currency-flag inference once, at ingestion time:
// a GBX-quoted transaction is a penny stock, London listing defaults from
// that flag, the exchange rate defaults to 1, and the share sign follows
// the action (positive for buys, negative for sells).
func (t Investing) Normalized() Investing {
	t.IsPennyStock = t.CurrencyPrice == GBX
	if !t.londonSet {
		t.IsLondonListed = t.IsPennyStock
	}
	if t.ExchangeRate.IsZero() {
		t.ExchangeRate = Q(1)
	}
	switch t.Action {
	case Buy:
		t.Shares = t.Shares.Abs()
	case Sell:
		t.Shares = t.Shares.Abs().Neg()
	}
	return t
}

// unitCost resolves the per-share cost of the transaction in the account's
// home currency: the explicit price per share if present, otherwise
// total/|shares|; GBX prices are divided by 100 before the exchange-rate
// conversion. A zero share count resolves to zero, never an error.
func (t Investing) unitCost() Money {
	var raw decimal.Decimal
	if !t.PricePerShare.IsZero() {
		raw = t.PricePerShare.value
	} else if !t.Shares.NearZero() {
		raw = t.Amount.value.Div(t.Shares.value.Abs())
	}
	if t.IsPennyStock {
		raw = raw.Div(hundred)
	}
	rate := t.ExchangeRate.value
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}
	return M(raw.Mul(rate), t.Amount.Currency()).exact()
}

// MarshalJSON implements the json.Marshaler interface for Investing.
func (t Investing) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.Append("account", t.AccountID)
	w.Optional("source", t.SourceAccountID)
	w.Append("amount", t.Amount)
	w.Append("action", t.Action)
	w.Optional("ticker", t.Ticker)
	if !t.Shares.IsZero() {
		w.Append("shares", t.Shares)
	}
	if !t.PricePerShare.IsZero() {
		w.Append("pricePerShare", t.PricePerShare)
	}
	w.Optional("currencyPrice", t.CurrencyPrice)
	if !t.ExchangeRate.IsZero() && !t.ExchangeRate.Equal(Q(1)) {
		w.Append("exchangeRate", t.ExchangeRate)
	}
	w.Optional("isPennyStock", t.IsPennyStock)
	// The listing flag is omitted when it matches the GBX inference, so it
	// must be written whenever it differs, including an explicit false.
	if t.IsLondonListed != t.IsPennyStock {
		w.Append("isLondonListed", t.IsLondonListed)
	}
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Investing.
// It records whether the London-listing flag was present so the default
// inference does not override an explicit value.
func (t *Investing) UnmarshalJSON(data []byte) error {
	type alias Investing
	var temp struct {
		alias
		London *bool `json:"isLondonListed"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = Investing(temp.alias)
	if temp.London != nil {
		t.IsLondonListed = *temp.London
		t.londonSet = true
	}
	*t = t.Normalized()
	return nil
}

func (t Investing) Equal(other Transaction) bool {
	o, ok := other.(Investing)
	return ok && t.baseTx.equal(o.baseTx) && t.AccountID == o.AccountID &&
		t.SourceAccountID == o.SourceAccountID && t.Amount.Equal(o.Amount) &&
		t.Action == o.Action && t.Ticker == o.Ticker && t.Shares.Equal(o.Shares) &&
		t.PricePerShare.Equal(o.PricePerShare) && t.CurrencyPrice == o.CurrencyPrice
}

// UnmarshalTransaction decodes a single serialized transaction into the
// variant selected by its "type" tag.
func UnmarshalTransaction(data []byte) (Transaction, error) {
	var probe struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("unreadable transaction: %w", err)
	}
	switch probe.Type {
	case KindIncome:
		var t Income
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, err
		}
		return t, nil
	case KindExpense:
		var t Expense
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, err
		}
		return t, nil
	case KindTransfer:
		var t Transfer
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, err
		}
		return t, nil
	case KindDebtPayment:
		var t DebtPayment
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, err
		}
		return t, nil
	case KindInvesting:
		var t Investing
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unknown transaction type %q", probe.Type)
	}
}

// financial is the view of a transaction that decides whether an edit
// requires balance recomputation: amount, kind, primary account and
// source account. Edits touching none of these are non-financial.
type financial struct {
	amount  Money
	kind    Kind
	account string
	source  string
}

func financialView(tx Transaction) financial {
	switch v := tx.(type) {
	case Income:
		return financial{v.Amount, KindIncome, v.AccountID, ""}
	case Expense:
		return financial{v.Amount, KindExpense, v.AccountID, ""}
	case Transfer:
		return financial{v.Amount, KindTransfer, v.RecipientAccountID, v.SourceAccountID}
	case DebtPayment:
		return financial{v.Amount, KindDebtPayment, v.DebtAccountID, v.SourceAccountID}
	case Investing:
		return financial{v.Amount, KindInvesting, v.AccountID, v.SourceAccountID}
	default:
		return financial{}
	}
}

// FinanciallyEqual reports whether editing from old to new would leave
// every balance untouched.
func FinanciallyEqual(oldTx, newTx Transaction) bool {
	a, b := financialView(oldTx), financialView(newTx)
	return a.kind == b.kind && a.account == b.account && a.source == b.source &&
		a.amount.Equal(b.amount)
}
