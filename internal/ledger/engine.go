package ledger

import (
	"fmt"
	"io"
	"sync"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/ledgerlab/internal/accounts"
	"github.com/cleared-dev/ledgerlab/internal/journal"
	"github.com/cleared-dev/ledgerlab/internal/model"
)

// Engine owns one session's ledger state: the account registry, the history
// log and the step counter. All methods are safe for concurrent use; each
// one holds a single lock for its whole duration so a posting is observed
// either fully applied or not at all.
type Engine struct {
	mu       sync.Mutex
	seed     []model.Account
	pristine *accounts.Registry
	accounts *accounts.Registry
	history  *journal.History
	step     int
	log      *logrus.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed replaces the default seed chart used by New and Reset.
func WithSeed(chart []model.Account) Option {
	return func(e *Engine) {
		e.seed = chart
	}
}

// WithLogger sets the logger. Without it the engine logs nowhere.
func WithLogger(l *logrus.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an Engine initialised from its seed chart.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{seed: accounts.DefaultChart()}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logrus.New()
		e.log.SetOutput(io.Discard)
	}

	reg, err := accounts.NewRegistry(e.seed)
	if err != nil {
		return nil, err
	}
	e.pristine = reg
	e.accounts = reg.Clone()
	e.history = journal.NewHistory()
	return e, nil
}

// Reset restores the seed accounts and clears history and the step counter.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.accounts = e.pristine.Clone()
	e.history = journal.NewHistory()
	e.step = 0
	e.log.WithField("accounts", e.accounts.Len()).Info("Ledger.Reset")
}

// CreateAccount adds an account whose ID is derived from name.
func (e *Engine) CreateAccount(name string, c model.Classification) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	accountID, err := e.accounts.Create(name, c)
	if err != nil {
		e.log.WithError(err).WithField("name", name).Warn("Ledger.CreateAccount.Error")
		return "", err
	}
	e.log.WithFields(logrus.Fields{
		"id":             accountID,
		"classification": string(c),
	}).Info("Ledger.CreateAccount.Complete")
	return accountID, nil
}

// PostParams describes one debit/credit pair to post.
type PostParams struct {
	DebitAccount  string
	CreditAccount string
	Amount        decimal.Decimal
	Title         string
	Description   string
	Explanation   string
}

// Post validates and applies a transaction: both account logs gain an entry
// at the next step, balances move per the normal-balance rule, and the
// resolved transaction is appended to the history. On error nothing changes.
func (e *Engine) Post(params PostParams) (model.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.post(params)
	if err != nil {
		e.log.WithError(err).WithFields(logrus.Fields{
			"debit":  params.DebitAccount,
			"credit": params.CreditAccount,
		}).Warn("Ledger.Post.Rejected")
		return model.Transaction{}, err
	}

	e.log.WithFields(logrus.Fields{
		"step":   tx.Step,
		"debit":  tx.Debit.ID,
		"credit": tx.Credit.ID,
		"amount": tx.Amount.StringFixed(2),
	}).Debug("Ledger.Post.Complete")
	return tx, nil
}

// PostInput parses a raw amount string, then posts it. Parsing happens
// before the ledger is touched.
func (e *Engine) PostInput(debitID, creditID, amount, description string) (model.Transaction, error) {
	amt, err := journal.ParseAmount(amount)
	if err != nil {
		return model.Transaction{}, err
	}
	return e.Post(PostParams{
		DebitAccount:  debitID,
		CreditAccount: creditID,
		Amount:        amt,
		Description:   description,
	})
}

// post assumes e.mu is held.
func (e *Engine) post(params PostParams) (model.Transaction, error) {
	if err := journal.ValidatePosting(e.accounts, params.DebitAccount, params.CreditAccount, params.Amount); err != nil {
		return model.Transaction{}, err
	}
	debit, err := e.accounts.Get(params.DebitAccount)
	if err != nil {
		return model.Transaction{}, err
	}
	credit, err := e.accounts.Get(params.CreditAccount)
	if err != nil {
		return model.Transaction{}, err
	}
	txID, err := uuid.NewV4()
	if err != nil {
		return model.Transaction{}, fmt.Errorf("generating transaction id: %w", err)
	}

	step := e.step + 1
	tx := model.Transaction{
		ID:          txID,
		Step:        step,
		Title:       params.Title,
		Description: params.Description,
		Explanation: params.Explanation,
		Amount:      params.Amount,
		Debit:       debit.Ref(),
		Credit:      credit.Ref(),
		Impact:      model.ImpactOf(debit.Classification, credit.Classification),
	}

	// Everything below has been validated and cannot fail.
	if err := e.accounts.Record(debit.ID, model.Entry{Step: step, Amount: params.Amount, Side: model.Debit}); err != nil {
		return model.Transaction{}, err
	}
	if err := e.accounts.Record(credit.ID, model.Entry{Step: step, Amount: params.Amount, Side: model.Credit}); err != nil {
		return model.Transaction{}, err
	}
	if err := e.history.Append(tx); err != nil {
		return model.Transaction{}, err
	}
	e.step = step
	return tx.Clone(), nil
}

// Account returns a copy of one account.
func (e *Engine) Account(accountID string) (model.Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.accounts.Get(accountID)
}

// Accounts returns copies of all accounts in creation order.
func (e *Engine) Accounts() []model.Account {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.accounts.All()
}

// AccountsOf returns copies of the accounts of one classification in
// creation order.
func (e *Engine) AccountsOf(c model.Classification) []model.Account {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.accounts.ByClassification(c)
}

// Totals recomputes the CLEAR totals and equation verdict.
func (e *Engine) Totals() model.Totals {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ComputeTotals(e.accounts.All())
}

// History returns the posted transactions in step order.
func (e *Engine) History() []model.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.List()
}

// RecentHistory returns the posted transactions newest first.
func (e *Engine) RecentHistory() []model.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Reverse()
}

// Last returns the most recently posted transaction.
func (e *Engine) Last() (model.Transaction, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Last()
}

// Step returns the number of postings so far.
func (e *Engine) Step() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.step
}

// Verify checks the balance invariant on every account.
func (e *Engine) Verify() []BalanceError {
	e.mu.Lock()
	defer e.mu.Unlock()
	return VerifyBalances(e.accounts.All())
}

// Snapshot is a consistent, independent copy of the whole ledger state.
type Snapshot struct {
	Step     int
	Accounts []model.Account
	History  []model.Transaction
	Totals   model.Totals
}

// Snapshot captures accounts, history and totals under one lock.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	accts := e.accounts.All()
	return Snapshot{
		Step:     e.step,
		Accounts: accts,
		History:  e.history.List(),
		Totals:   ComputeTotals(accts),
	}
}
