package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerlab/internal/model"
)

// ComputeTotals sums balances per CLEAR classification and checks
// Assets == Liabilities + (Capital + Revenue - Expense).
//
// It recomputes from the account balances on every call and keeps no state.
func ComputeTotals(accounts []model.Account) model.Totals {
	by := make(map[model.Classification]decimal.Decimal, len(model.Classifications))
	for _, c := range model.Classifications {
		by[c] = decimal.Zero
	}
	for _, a := range accounts {
		by[a.Classification] = by[a.Classification].Add(a.Balance)
	}

	totals := model.Totals{ByClassification: by}
	totals.IsBalanced = totals.Of(model.Asset).Equal(totals.LiabilitiesAndEquity())
	return totals
}
