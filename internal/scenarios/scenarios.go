package scenarios

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerlab/internal/ledger"
	"github.com/cleared-dev/ledgerlab/internal/model"
)

// Scenario is a canned teaching transaction against the seed chart.
type Scenario struct {
	ID          int
	Title       string
	Description string
	Amount      decimal.Decimal
	Debit       string
	Credit      string
	Explanation string
	Impact      []model.Classification
}

// Params converts the scenario into poster input.
func (s Scenario) Params() ledger.PostParams {
	return ledger.PostParams{
		DebitAccount:  s.Debit,
		CreditAccount: s.Credit,
		Amount:        s.Amount,
		Title:         s.Title,
		Description:   s.Description,
		Explanation:   s.Explanation,
	}
}

// Poster is the subset of the ledger engine scenarios need.
type Poster interface {
	Post(params ledger.PostParams) (model.Transaction, error)
}

// Apply posts the scenario to p.
func (s Scenario) Apply(p Poster) (model.Transaction, error) {
	tx, err := p.Post(s.Params())
	if err != nil {
		return model.Transaction{}, fmt.Errorf("scenario %d (%s): %w", s.ID, s.Title, err)
	}
	return tx, nil
}

// Defaults returns the built-in scenarios in teaching order.
func Defaults() []Scenario {
	return []Scenario{
		{
			ID:          1,
			Title:       "Owner Invests Cash",
			Description: "Start business with $10,000 cash.",
			Amount:      decimal.NewFromInt(10000),
			Debit:       "cash",
			Credit:      "capital",
			Explanation: "Cash (Asset) increases. Capital (Equity) increases.",
			Impact:      []model.Classification{model.Asset, model.Capital},
		},
		{
			ID:          2,
			Title:       "Buy Supplies (Cash)",
			Description: "Buy $500 supplies with cash.",
			Amount:      decimal.NewFromInt(500),
			Debit:       "supplies",
			Credit:      "cash",
			Explanation: "Asset exchange: Supplies UP, Cash DOWN.",
			Impact:      []model.Classification{model.Asset},
		},
		{
			ID:          3,
			Title:       "Buy Equipment (Credit)",
			Description: "Buy $2,000 computer on credit.",
			Amount:      decimal.NewFromInt(2000),
			Debit:       "equipment",
			Credit:      "accounts_payable",
			Explanation: "Equipment (Asset) UP, Accts Payable (Liability) UP.",
			Impact:      []model.Classification{model.Asset, model.Liability},
		},
		{
			ID:          4,
			Title:       "Service Revenue",
			Description: "Earn $1,500 cash from service.",
			Amount:      decimal.NewFromInt(1500),
			Debit:       "cash",
			Credit:      "revenue",
			Explanation: "Cash UP, Revenue UP (increases Equity).",
			Impact:      []model.Classification{model.Asset, model.Revenue},
		},
		{
			ID:          5,
			Title:       "Pay Rent",
			Description: "Pay $800 rent with cash.",
			Amount:      decimal.NewFromInt(800),
			Debit:       "expenses",
			Credit:      "cash",
			Explanation: "Expenses UP (lowers Equity), Cash DOWN.",
			Impact:      []model.Classification{model.Expense, model.Asset},
		},
	}
}

// Find returns the built-in scenario with the given ID.
func Find(scenarioID int) (Scenario, bool) {
	for _, s := range Defaults() {
		if s.ID == scenarioID {
			return s, true
		}
	}
	return Scenario{}, false
}
