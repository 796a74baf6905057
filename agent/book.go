package agent

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/finbook/finbook"
	"github.com/finbook/finbook/renderer"
)

const model = "gemini-2.5-pro"

// NewAdvisor creates the chat expert for one book. Its tools read the live
// system state, so every figure it quotes comes from the actual ledger.
func NewAdvisor(sys *finbook.System) *Expert {
	lib := bookFunctions(sys)
	return &Expert{
		Name:      "Advisor",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclarations(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a personal finance advisor with read access to the user's book
			of accounts, debts, investment holdings and transactions.

			Always fetch figures through the available tools before answering;
			never invent balances, tickers or amounts. Amounts are reported in the
			account's own currency.

			Keep answers short and concrete. When the user asks about paying off a
			debt, use the payoff tool rather than doing the math yourself.
		`}}},
		},
		Library: NewLibrary(lib),
	}
}

func bookFunctions(sys *finbook.System) []Function {
	return []Function{
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "accounts",
				Description: "List every asset and debt account with its current balance and status.",
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown table of accounts grouped into assets and debts.",
				},
			},
			Body: func(_ context.Context, id string, _ map[string]any) *genai.FunctionResponse {
				return output(id, "accounts", renderer.Accounts(sys.State.Accounts()))
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "holdings",
				Description: "List every open investment position with shares, average cost, current value and unrealized profit or loss.",
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown table of holdings, one row per account and ticker.",
				},
			},
			Body: func(_ context.Context, id string, _ map[string]any) *genai.FunctionResponse {
				rows := renderer.HoldingRows(sys.State, sys.Market)
				return output(id, "holdings", renderer.Holdings(rows))
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "transactions",
				Description: "List the transaction ledger in chronological order.",
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown table of transactions with date, type, id and a short detail line.",
				},
			},
			Body: func(_ context.Context, id string, _ map[string]any) *genai.FunctionResponse {
				var txs []finbook.Transaction
				for _, tx := range sys.State.Ledger().Transactions() {
					txs = append(txs, tx)
				}
				return output(id, "transactions", renderer.Transactions(txs))
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "payoff",
				Description: "Estimate how long paying a fixed monthly amount takes to clear a debt account.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"account": {
							Type:        genai.TypeString,
							Description: "The debt account id or name.",
						},
						"payment": {
							Type:        genai.TypeNumber,
							Description: "The monthly payment in the account's currency.",
						},
						"rate": {
							Type:        genai.TypeNumber,
							Description: "The annual interest rate as a fraction, e.g. 0.24 for 24% APR. Defaults to 0.",
						},
					},
					Required: []string{"account", "payment"},
				},
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A sentence stating the payoff horizon, or Never when the payment cannot clear the debt.",
				},
			},
			Body: func(_ context.Context, id string, args map[string]any) *genai.FunctionResponse {
				name, _ := args["account"].(string)
				a := findDebt(sys.State, name)
				if a == nil {
					return failure(id, "payoff", fmt.Sprintf("no debt account matches %q", name))
				}
				payment, ok := args["payment"].(float64)
				if !ok {
					return failure(id, "payoff", fmt.Sprintf("argument 'payment' is not a number but %T", args["payment"]))
				}
				rate, _ := args["rate"].(float64)
				monthly := finbook.M(payment, a.Balance.Currency())
				months, fine := finbook.PayoffEstimate(a.Balance, monthly, rate)
				return output(id, "payoff", renderer.Payoff(*a, monthly, months, fine))
			},
		},
	}
}

// findDebt matches a debt account by id first, then by case-insensitive name.
func findDebt(state *finbook.State, name string) *finbook.Account {
	if a := state.Account(name); a != nil && a.Kind == finbook.Debt {
		return a
	}
	for _, a := range state.Accounts() {
		if a.Kind == finbook.Debt && strings.EqualFold(a.Name, name) {
			return &a
		}
	}
	return nil
}

func output(id, name, text string) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:       id,
		Name:     name,
		Response: map[string]any{"output": text},
	}
}

func failure(id, name, msg string) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:       id,
		Name:     name,
		Response: map[string]any{"error": msg},
	}
}
