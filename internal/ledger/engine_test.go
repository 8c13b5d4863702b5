package ledger

import (
	"bytes"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/ledgerlab/internal/accounts"
	"github.com/cleared-dev/ledgerlab/internal/journal"
	"github.com/cleared-dev/ledgerlab/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New()
	require.NoError(t, err)
	return e
}

func post(t *testing.T, e *Engine, debit, credit, amount string) model.Transaction {
	t.Helper()
	tx, err := e.Post(PostParams{DebitAccount: debit, CreditAccount: credit, Amount: dec(amount)})
	require.NoError(t, err)
	return tx
}

func balance(t *testing.T, e *Engine, accountID string) decimal.Decimal {
	t.Helper()
	a, err := e.Account(accountID)
	require.NoError(t, err)
	return a.Balance
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func requireInvariants(t *testing.T, e *Engine) {
	t.Helper()
	assert.Empty(t, e.Verify(), "balance invariant")
	assert.True(t, e.Totals().IsBalanced, "accounting equation")
	assert.Len(t, e.History(), e.Step(), "history length matches step")
}

func TestNew_SeedState(t *testing.T) {
	e := newEngine(t)

	accts := e.Accounts()
	require.Len(t, accts, 9)
	ids := make([]string, len(accts))
	for i, a := range accts {
		ids[i] = a.ID
		assert.True(t, a.Balance.IsZero())
		assert.Empty(t, a.Entries)
	}
	assert.Equal(t, []string{
		"cash", "supplies", "equipment", "accounts_receivable",
		"accounts_payable", "notes_payable", "capital", "revenue", "expenses",
	}, ids)

	totals := e.Totals()
	for _, c := range model.Classifications {
		assert.True(t, totals.Of(c).IsZero(), "total %s", c)
	}
	assert.True(t, totals.IsBalanced)
	assert.Equal(t, 0, e.Step())
	assert.Empty(t, e.History())
}

func TestScenarios(t *testing.T) {
	e := newEngine(t)

	// Owner invests cash.
	tx := post(t, e, "cash", "capital", "10000")
	assert.Equal(t, 1, tx.Step)
	assertDec(t, "10000", balance(t, e, "cash"))
	assertDec(t, "10000", balance(t, e, "capital"))
	totals := e.Totals()
	assertDec(t, "10000", totals.Of(model.Asset))
	assertDec(t, "10000", totals.Of(model.Capital))
	assert.True(t, totals.IsBalanced)

	// Buy supplies with cash: an asset exchange.
	post(t, e, "supplies", "cash", "500")
	assertDec(t, "9500", balance(t, e, "cash"))
	assertDec(t, "500", balance(t, e, "supplies"))
	totals = e.Totals()
	assertDec(t, "10000", totals.Of(model.Asset))
	assert.True(t, totals.IsBalanced)

	// Buy equipment on credit.
	before := e.Totals()
	post(t, e, "equipment", "accounts_payable", "2000")
	assertDec(t, "2000", balance(t, e, "equipment"))
	assertDec(t, "2000", balance(t, e, "accounts_payable"))
	totals = e.Totals()
	assertDec(t, "2000", totals.Of(model.Asset).Sub(before.Of(model.Asset)))
	assertDec(t, "2000", totals.Of(model.Liability).Sub(before.Of(model.Liability)))
	assert.True(t, totals.IsBalanced)

	// Pay rent.
	before = e.Totals()
	cashBefore := balance(t, e, "cash")
	post(t, e, "expenses", "cash", "800")
	assertDec(t, "800", balance(t, e, "expenses"))
	assertDec(t, "800", cashBefore.Sub(balance(t, e, "cash")))
	totals = e.Totals()
	assertDec(t, "800", before.Equity().Sub(totals.Equity()))
	assertDec(t, "800", before.Of(model.Asset).Sub(totals.Of(model.Asset)))
	assert.True(t, totals.IsBalanced)

	requireInvariants(t, e)
}

func TestServiceRevenue(t *testing.T) {
	e := newEngine(t)
	post(t, e, "cash", "revenue", "1500")

	totals := e.Totals()
	assertDec(t, "1500", totals.Of(model.Revenue))
	assertDec(t, "1500", totals.Equity())
	assert.True(t, totals.IsBalanced)
}

func TestCreateAccount_Duplicate(t *testing.T) {
	e := newEngine(t)

	accountID, err := e.CreateAccount("Bank Loan", model.Liability)
	require.NoError(t, err)
	assert.Equal(t, "bank_loan", accountID)

	_, err = e.CreateAccount("Bank Loan", model.Liability)
	var dup accounts.DuplicateAccountError
	require.ErrorAs(t, err, &dup)

	count := 0
	for _, a := range e.Accounts() {
		if a.ID == "bank_loan" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCreateAccount_UsableForPosting(t *testing.T) {
	e := newEngine(t)
	loanID, err := e.CreateAccount("Bank Loan", model.Liability)
	require.NoError(t, err)

	post(t, e, "cash", loanID, "5000")
	assertDec(t, "5000", balance(t, e, loanID))
	assertDec(t, "5000", e.Totals().Of(model.Liability))
	requireInvariants(t, e)
}

func TestPost_ResolvesTransaction(t *testing.T) {
	e := newEngine(t)
	tx, err := e.Post(PostParams{
		DebitAccount:  "expenses",
		CreditAccount: "cash",
		Amount:        dec("800"),
		Title:         "Pay Rent",
		Description:   "Pay $800 rent with cash.",
		Explanation:   "Expenses UP (lowers Equity), Cash DOWN.",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, tx.ID)
	assert.Equal(t, model.AccountRef{ID: "expenses", Name: "Expenses", Classification: model.Expense}, tx.Debit)
	assert.Equal(t, model.AccountRef{ID: "cash", Name: "Cash", Classification: model.Asset}, tx.Credit)
	assert.Equal(t, []model.Classification{model.Expense, model.Asset}, tx.Impact)
	assert.Equal(t, "Pay Rent", tx.Title)

	last, ok := e.Last()
	require.True(t, ok)
	assert.Equal(t, tx.ID, last.ID)

	cash, err := e.Account("cash")
	require.NoError(t, err)
	require.Len(t, cash.Entries, 1)
	assert.Equal(t, model.Credit, cash.Entries[0].Side)
	assert.Equal(t, 1, cash.Entries[0].Step)
	assertDec(t, "800", cash.Entries[0].Amount)
}

func TestPost_StepMonotonicity(t *testing.T) {
	e := newEngine(t)
	pairs := [][2]string{
		{"cash", "capital"}, {"supplies", "cash"}, {"equipment", "notes_payable"},
		{"accounts_receivable", "revenue"}, {"cash", "accounts_receivable"}, {"expenses", "cash"},
	}
	for i, p := range pairs {
		tx := post(t, e, p[0], p[1], "100")
		assert.Equal(t, i+1, tx.Step)
		assert.Equal(t, i+1, e.Step())
		requireInvariants(t, e)
	}

	for i, tx := range e.History() {
		assert.Equal(t, i+1, tx.Step)
	}
	recent := e.RecentHistory()
	assert.Equal(t, len(pairs), recent[0].Step)
}

func TestPost_FailureLeavesStateUnchanged(t *testing.T) {
	e := newEngine(t)
	post(t, e, "cash", "capital", "10000")
	before := e.Snapshot()

	tests := []struct {
		name   string
		params PostParams
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unknown debit",
			params: PostParams{DebitAccount: "nope", CreditAccount: "cash", Amount: dec("5")},
			check: func(t *testing.T, err error) {
				var unknown accounts.UnknownAccountError
				require.ErrorAs(t, err, &unknown)
				assert.Equal(t, "nope", unknown.ID)
			},
		},
		{
			name:   "unknown credit",
			params: PostParams{DebitAccount: "cash", CreditAccount: "nope", Amount: dec("5")},
			check: func(t *testing.T, err error) {
				assert.ErrorAs(t, err, new(accounts.UnknownAccountError))
			},
		},
		{
			name:   "zero amount",
			params: PostParams{DebitAccount: "cash", CreditAccount: "capital", Amount: decimal.Zero},
			check: func(t *testing.T, err error) {
				assert.ErrorAs(t, err, new(journal.InvalidAmountError))
			},
		},
		{
			name:   "negative amount",
			params: PostParams{DebitAccount: "cash", CreditAccount: "capital", Amount: dec("-10")},
			check: func(t *testing.T, err error) {
				assert.ErrorAs(t, err, new(journal.InvalidAmountError))
			},
		},
		{
			name:   "same account",
			params: PostParams{DebitAccount: "cash", CreditAccount: "cash", Amount: dec("10")},
			check: func(t *testing.T, err error) {
				assert.ErrorAs(t, err, new(journal.SameAccountError))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Post(tt.params)
			tt.check(t, err)

			after := e.Snapshot()
			assert.Equal(t, before.Step, after.Step)
			assert.Equal(t, before.History, after.History)
			assert.Equal(t, before.Accounts, after.Accounts)
		})
	}
}

func TestPostInput(t *testing.T) {
	e := newEngine(t)

	tx, err := e.PostInput("cash", "capital", "$10,000", "Start business")
	require.NoError(t, err)
	assertDec(t, "10000", tx.Amount)
	assert.Equal(t, "Start business", tx.Description)

	for _, bad := range []string{"", "abc", "NaN", "-1", "0"} {
		_, err := e.PostInput("cash", "capital", bad, "bad")
		assert.ErrorAs(t, err, new(journal.InvalidAmountError), "input %q", bad)
	}
	assert.Equal(t, 1, e.Step())
	assertDec(t, "10000", balance(t, e, "cash"))
}

func TestPost_ExtremeAmountsReturnErrors(t *testing.T) {
	e := newEngine(t)
	post(t, e, "cash", "capital", "100")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, bad := range []string{"1e999999999", "1e-999999999", "1e15"} {
			_, err := e.PostInput("cash", "capital", bad, "x")
			assert.ErrorAs(t, err, new(journal.InvalidAmountError), "input %q", bad)
		}
		_, err := e.Post(PostParams{DebitAccount: "cash", CreditAccount: "capital", Amount: decimal.New(1, 999999999)})
		assert.ErrorAs(t, err, new(journal.InvalidAmountError))
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("posting an extreme amount did not return")
	}
	assert.Equal(t, 1, e.Step())
	assertDec(t, "100", balance(t, e, "cash"))
}

func TestReset(t *testing.T) {
	e := newEngine(t)
	_, err := e.CreateAccount("Bank Loan", model.Liability)
	require.NoError(t, err)
	post(t, e, "cash", "capital", "10000")
	post(t, e, "cash", "bank_loan", "2500")

	e.Reset()

	assert.Equal(t, 0, e.Step())
	assert.Empty(t, e.History())
	assert.Len(t, e.Accounts(), 9)
	_, err = e.Account("bank_loan")
	assert.ErrorAs(t, err, new(accounts.UnknownAccountError))
	assert.True(t, balance(t, e, "cash").IsZero())
	assert.True(t, e.Totals().IsBalanced)

	tx := post(t, e, "cash", "capital", "1")
	assert.Equal(t, 1, tx.Step, "step counter restarts at 1")
}

func TestAccountsOf(t *testing.T) {
	e := newEngine(t)
	_, err := e.CreateAccount("Bank Loan", model.Liability)
	require.NoError(t, err)
	post(t, e, "cash", "bank_loan", "2500")

	var ids []string
	for _, a := range e.AccountsOf(model.Liability) {
		assert.Equal(t, model.Liability, a.Classification)
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"accounts_payable", "notes_payable", "bank_loan"}, ids)

	got := e.AccountsOf(model.Liability)
	got[2].Entries[0].Amount = dec("1")
	assertDec(t, "2500", balance(t, e, "bank_loan"))
	a, err := e.Account("bank_loan")
	require.NoError(t, err)
	assertDec(t, "2500", a.Entries[0].Amount)
}

func TestWithSeed(t *testing.T) {
	seed := []model.Account{
		{ID: "bank", Name: "Bank", Classification: model.Asset},
		{ID: "owner", Name: "Owner", Classification: model.Capital},
	}
	e, err := New(WithSeed(seed))
	require.NoError(t, err)
	assert.Len(t, e.Accounts(), 2)

	post(t, e, "bank", "owner", "42.50")
	e.Reset()
	assert.Len(t, e.Accounts(), 2)

	_, err = New(WithSeed(append(seed, seed[0])))
	assert.ErrorAs(t, err, new(accounts.DuplicateAccountError))
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)

	e, err := New(WithLogger(logger))
	require.NoError(t, err)
	post(t, e, "cash", "capital", "10")
	_, err = e.Post(PostParams{DebitAccount: "x", CreditAccount: "cash", Amount: dec("1")})
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "Ledger.Post.Complete")
	assert.Contains(t, out, "Ledger.Post.Rejected")
}

func TestSnapshotIsIsolated(t *testing.T) {
	e := newEngine(t)
	post(t, e, "cash", "capital", "100")

	snap := e.Snapshot()
	snap.Accounts[0].Balance = dec("999")
	snap.Accounts[0].Entries[0].Amount = dec("999")
	snap.History[0].Impact[0] = model.Revenue

	assertDec(t, "100", balance(t, e, "cash"))
	assert.Empty(t, e.Verify())
	assert.Equal(t, model.Asset, e.History()[0].Impact[0])
}

func TestConcurrentPosting(t *testing.T) {
	e := newEngine(t)
	const workers, perWorker = 8, 25

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < perWorker; i++ {
				if _, err := e.Post(PostParams{DebitAccount: "cash", CreditAccount: "revenue", Amount: dec("1.25")}); err != nil {
					return err
				}
				_ = e.Totals()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, workers*perWorker, e.Step())
	assertDec(t, "250", balance(t, e, "cash"))
	requireInvariants(t, e)
	for i, tx := range e.History() {
		assert.Equal(t, i+1, tx.Step)
	}
}
