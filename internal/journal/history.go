package journal

import (
	"fmt"

	"github.com/cleared-dev/ledgerlab/internal/model"
)

// History is the append-only, step-ordered log of posted transactions.
type History struct {
	txns []model.Transaction
}

// NewHistory returns an empty log.
func NewHistory() *History {
	return &History{}
}

// Append adds a posted transaction. Its step must be exactly one past the
// last recorded step.
func (h *History) Append(tx model.Transaction) error {
	if want := len(h.txns) + 1; tx.Step != want {
		return fmt.Errorf("out-of-order step %d, expected %d", tx.Step, want)
	}
	h.txns = append(h.txns, tx.Clone())
	return nil
}

// List returns the log in insertion (step-ascending) order.
func (h *History) List() []model.Transaction {
	result := make([]model.Transaction, len(h.txns))
	for i, tx := range h.txns {
		result[i] = tx.Clone()
	}
	return result
}

// Reverse returns the log newest first, for display.
func (h *History) Reverse() []model.Transaction {
	result := make([]model.Transaction, len(h.txns))
	for i, tx := range h.txns {
		result[len(h.txns)-1-i] = tx.Clone()
	}
	return result
}

// Len returns the number of posted transactions.
func (h *History) Len() int {
	return len(h.txns)
}

// Last returns the most recent transaction.
func (h *History) Last() (model.Transaction, bool) {
	if len(h.txns) == 0 {
		return model.Transaction{}, false
	}
	return h.txns[len(h.txns)-1].Clone(), true
}
