package ledger

import (
	"fmt"

	"github.com/cleared-dev/ledgerlab/internal/model"
)

// Replay builds a fresh Engine and re-posts txns onto it in order. Steps must
// run 1, 2, 3 and so on without gaps. Accounts
// referenced by the history but missing from the seed are created from the
// transaction's resolved account references.
func Replay(txns []model.Transaction, opts ...Option) (*Engine, error) {
	e, err := New(opts...)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i, tx := range txns {
		if tx.Step != i+1 {
			return nil, fmt.Errorf("replaying: step %d out of order, expected %d", tx.Step, i+1)
		}
		for _, ref := range []model.AccountRef{tx.Debit, tx.Credit} {
			if err := e.ensureAccount(ref); err != nil {
				return nil, fmt.Errorf("replaying step %d: %w", tx.Step, err)
			}
		}
		if _, err := e.post(PostParams{
			DebitAccount:  tx.Debit.ID,
			CreditAccount: tx.Credit.ID,
			Amount:        tx.Amount,
			Title:         tx.Title,
			Description:   tx.Description,
			Explanation:   tx.Explanation,
		}); err != nil {
			return nil, fmt.Errorf("replaying step %d: %w", tx.Step, err)
		}
	}
	e.log.WithField("steps", e.step).Info("Ledger.Replay.Complete")
	return e, nil
}

// ensureAccount assumes e.mu is held.
func (e *Engine) ensureAccount(ref model.AccountRef) error {
	existing, err := e.accounts.Get(ref.ID)
	if err != nil {
		return e.accounts.Add(ref.ID, ref.Name, ref.Classification)
	}
	if existing.Classification != ref.Classification {
		return fmt.Errorf("account %s is %s in the ledger but %s in the history",
			ref.ID, existing.Classification.Label(), ref.Classification.Label())
	}
	return nil
}
