package model

import "github.com/shopspring/decimal"

// Effect returns +1 when a posting on side increases the balance of an
// account with classification c, and -1 when it decreases it.
//
// Assets and expenses have a normal debit balance; liabilities, capital and
// revenue have a normal credit balance. Every balance change in the ledger
// goes through this function.
func Effect(c Classification, side Side) int {
	debitNormal := c == Asset || c == Expense
	if (side == Debit) == debitNormal {
		return 1
	}
	return -1
}

// NormalSide returns the side that increases a classification's balance.
func NormalSide(c Classification) Side {
	if Effect(c, Debit) > 0 {
		return Debit
	}
	return Credit
}

// SignedAmount is amount scaled by Effect(c, side).
func SignedAmount(c Classification, side Side, amount decimal.Decimal) decimal.Decimal {
	if Effect(c, side) < 0 {
		return amount.Neg()
	}
	return amount
}
