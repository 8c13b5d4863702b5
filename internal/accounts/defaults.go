package accounts

import "github.com/cleared-dev/ledgerlab/internal/model"

// DefaultChart returns the seed accounts a fresh ledger starts from, all at
// zero balance with no entries.
func DefaultChart() []model.Account {
	return []model.Account{
		{ID: "cash", Name: "Cash", Classification: model.Asset},
		{ID: "supplies", Name: "Supplies", Classification: model.Asset},
		{ID: "equipment", Name: "Equipment", Classification: model.Asset},
		{ID: "accounts_receivable", Name: "Accounts Receivable", Classification: model.Asset},
		{ID: "accounts_payable", Name: "Accounts Payable", Classification: model.Liability},
		{ID: "notes_payable", Name: "Notes Payable", Classification: model.Liability},
		{ID: "capital", Name: "Owner's Capital", Classification: model.Capital},
		{ID: "revenue", Name: "Service Revenue", Classification: model.Revenue},
		{ID: "expenses", Name: "Expenses", Classification: model.Expense},
	}
}
