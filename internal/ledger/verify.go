package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerlab/internal/model"
)

// BalanceError describes an account whose balance disagrees with its entries.
type BalanceError struct {
	AccountID string
	Balance   decimal.Decimal
	Expected  decimal.Decimal
}

func (e BalanceError) Error() string {
	return fmt.Sprintf("account %s: balance %s != signed entry sum %s",
		e.AccountID, e.Balance.StringFixed(2), e.Expected.StringFixed(2))
}

// EntrySum folds an account's entries through the normal-balance rule.
func EntrySum(a model.Account) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range a.Entries {
		sum = sum.Add(model.SignedAmount(a.Classification, e.Side, e.Amount))
	}
	return sum
}

// VerifyBalances checks every account's balance against its entry log.
func VerifyBalances(accounts []model.Account) []BalanceError {
	var errs []BalanceError
	for _, a := range accounts {
		if want := EntrySum(a); !a.Balance.Equal(want) {
			errs = append(errs, BalanceError{AccountID: a.ID, Balance: a.Balance, Expected: want})
		}
	}
	return errs
}
