package journal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerlab/internal/accounts"
)

// InvalidAmountError reports an amount that is not a finite positive number
// of whole cents.
type InvalidAmountError struct {
	Input  string
	Reason string
}

func (e InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %q: %s", e.Input, e.Reason)
}

// SameAccountError reports a posting whose debit and credit accounts are the
// same account.
type SameAccountError struct {
	ID string
}

func (e SameAccountError) Error() string {
	return fmt.Sprintf("debit and credit account are both %q", e.ID)
}

// AccountChecker tests whether an account ID exists.
type AccountChecker interface {
	Exists(id string) bool
}

const (
	maxDecimals      = 2
	maxIntegerDigits = 15 // amounts stay below 10^15
)

var hundred = decimal.NewFromInt(100)

// ParseAmount parses user input such as "1500", "1,500.00" or "$12.50".
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, ",", "")
	if clean == "" {
		return decimal.Decimal{}, InvalidAmountError{Input: s, Reason: "empty"}
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Decimal{}, InvalidAmountError{Input: s, Reason: "not a number"}
	}
	if reason := amountProblem(d); reason != "" {
		return decimal.Decimal{}, InvalidAmountError{Input: s, Reason: reason}
	}
	return d, nil
}

// ValidateAmount checks that d is positive, below 10^15 and has at most two
// decimal places.
func ValidateAmount(d decimal.Decimal) error {
	if reason := amountProblem(d); reason != "" {
		return InvalidAmountError{Input: amountText(d), Reason: reason}
	}
	return nil
}

// amountProblem checks magnitude from the coefficient and exponent alone
// before doing any arithmetic, so extreme exponents fail fast.
func amountProblem(d decimal.Decimal) string {
	if !d.IsPositive() {
		return "must be greater than zero"
	}
	digits := int64(d.NumDigits())
	exp := int64(d.Exponent())
	if digits+exp > maxIntegerDigits {
		return fmt.Sprintf("too large (at most %d integer digits)", maxIntegerDigits)
	}
	// Only trailing zeros of the coefficient can absorb extra decimal places.
	if -exp-maxDecimals > digits {
		return "more than 2 decimal places"
	}
	if !d.Mul(hundred).Equal(d.Mul(hundred).Floor()) {
		return "more than 2 decimal places"
	}
	return ""
}

// amountText renders d for error messages without expanding huge exponents.
func amountText(d decimal.Decimal) string {
	if exp := d.Exponent(); exp > maxIntegerDigits || exp < -maxIntegerDigits {
		return fmt.Sprintf("%se%d", d.Coefficient().String(), exp)
	}
	return d.String()
}

// ValidatePosting checks a debit/credit pair before anything is mutated.
// Both accounts must exist and differ, and the amount must be valid.
func ValidatePosting(accts AccountChecker, debitID, creditID string, amount decimal.Decimal) error {
	if !accts.Exists(debitID) {
		return accounts.UnknownAccountError{ID: debitID}
	}
	if !accts.Exists(creditID) {
		return accounts.UnknownAccountError{ID: creditID}
	}
	if debitID == creditID {
		return SameAccountError{ID: debitID}
	}
	return ValidateAmount(amount)
}
