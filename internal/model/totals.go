package model

import "github.com/shopspring/decimal"

// Totals is the per-classification view of a ledger and its equation verdict.
type Totals struct {
	ByClassification map[Classification]decimal.Decimal
	IsBalanced       bool
}

// Of returns the total for c, zero if absent.
func (t Totals) Of(c Classification) decimal.Decimal {
	return t.ByClassification[c]
}

// Equity is Capital + Revenue - Expense.
func (t Totals) Equity() decimal.Decimal {
	return t.Of(Capital).Add(t.Of(Revenue)).Sub(t.Of(Expense))
}

// LiabilitiesAndEquity is the right-hand side of the accounting equation.
func (t Totals) LiabilitiesAndEquity() decimal.Decimal {
	return t.Of(Liability).Add(t.Equity())
}

// Scale returns the largest of both equation sides and floor. Bar charts
// size themselves against it.
func (t Totals) Scale(floor decimal.Decimal) decimal.Decimal {
	return decimal.Max(t.Of(Asset), t.LiabilitiesAndEquity(), floor)
}
