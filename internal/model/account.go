package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Classification is one of the five CLEAR account categories.
type Classification string

const (
	Capital   Classification = "C"
	Liability Classification = "L"
	Expense   Classification = "E"
	Asset     Classification = "A"
	Revenue   Classification = "R"
)

// Classifications lists the CLEAR codes in mnemonic order.
var Classifications = []Classification{Capital, Liability, Expense, Asset, Revenue}

var classificationLabels = map[Classification]string{
	Capital:   "Capital",
	Liability: "Liability",
	Expense:   "Expense",
	Asset:     "Asset",
	Revenue:   "Revenue",
}

// Label returns the display name, e.g. "Asset".
func (c Classification) Label() string {
	if l, ok := classificationLabels[c]; ok {
		return l
	}
	return string(c)
}

// Valid reports whether c is one of the five CLEAR codes.
func (c Classification) Valid() bool {
	_, ok := classificationLabels[c]
	return ok
}

var classificationAliases = map[string]Classification{
	"c": Capital, "capital": Capital,
	"l": Liability, "liability": Liability, "liabilities": Liability,
	"e": Expense, "expense": Expense, "expenses": Expense,
	"a": Asset, "asset": Asset, "assets": Asset,
	"r": Revenue, "revenue": Revenue, "revenues": Revenue,
}

// ParseClassification accepts a CLEAR code ("A"), a label ("Asset") or its
// plural ("assets"), case-insensitively. "equity" is rejected because it
// spans C, R and E.
func ParseClassification(s string) (Classification, error) {
	if c, ok := classificationAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown classification %q", s)
}

// Account is one ledger account and its posting log.
type Account struct {
	ID             string
	Name           string
	Classification Classification
	Balance        decimal.Decimal
	Entries        []Entry
}

// Clone returns a deep copy of the account.
func (a Account) Clone() Account {
	c := a
	if a.Entries != nil {
		c.Entries = make([]Entry, len(a.Entries))
		copy(c.Entries, a.Entries)
	}
	return c
}

// Ref returns the resolved reference used on posted transactions.
func (a Account) Ref() AccountRef {
	return AccountRef{ID: a.ID, Name: a.Name, Classification: a.Classification}
}

// AccountRef identifies an account on a posted transaction.
type AccountRef struct {
	ID             string
	Name           string
	Classification Classification
}
