package model

import (
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Side is the debit or credit half of a transaction.
type Side string

const (
	Debit  Side = "debit"
	Credit Side = "credit"
)

// Short returns the ledger column abbreviation ("dr" / "cr").
func (s Side) Short() string {
	if s == Debit {
		return "dr"
	}
	return "cr"
}

// Entry is one posting on an account's log.
type Entry struct {
	Step   int
	Amount decimal.Decimal // always positive; direction comes from Side
	Side   Side
}

// Transaction is a posted debit/credit pair as recorded in the history log.
type Transaction struct {
	ID          uuid.UUID
	Step        int
	Title       string
	Description string
	Explanation string
	Amount      decimal.Decimal
	Debit       AccountRef
	Credit      AccountRef
	Impact      []Classification // classifications touched, debit side first
}

// Touches reports whether the transaction moved the given classification.
func (t Transaction) Touches(c Classification) bool {
	for _, i := range t.Impact {
		if i == c {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with t.
func (t Transaction) Clone() Transaction {
	c := t
	c.Impact = append([]Classification(nil), t.Impact...)
	return c
}

// ImpactOf returns the distinct classifications of a debit and credit
// account, debit first.
func ImpactOf(debit, credit Classification) []Classification {
	if debit == credit {
		return []Classification{debit}
	}
	return []Classification{debit, credit}
}
