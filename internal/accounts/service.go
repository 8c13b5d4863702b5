package accounts

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerlab/internal/id"
	"github.com/cleared-dev/ledgerlab/internal/model"
)

// Registry holds the ledger's accounts in creation order. It is not safe for
// concurrent use; the owning ledger serializes access.
type Registry struct {
	order []string
	byID  map[string]*model.Account
}

// NewRegistry creates a Registry seeded with accounts. Seed balances and
// entries are discarded so every account starts at zero.
func NewRegistry(seed []model.Account) (*Registry, error) {
	r := &Registry{byID: make(map[string]*model.Account, len(seed))}
	for _, a := range seed {
		if err := r.Add(a.ID, a.Name, a.Classification); err != nil {
			return nil, fmt.Errorf("seeding registry: %w", err)
		}
	}
	return r, nil
}

// Load reads a chart-of-accounts CSV file for use as a seed.
func Load(path string) ([]model.Account, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return accts, nil
}

// Create registers a new account whose ID is derived from name and returns
// that ID.
func (r *Registry) Create(name string, c model.Classification) (string, error) {
	slug := id.Slug(name)
	if slug == "" {
		return "", InvalidAccountError{Name: name, Reason: "name has no letters or digits"}
	}
	if err := r.Add(slug, name, c); err != nil {
		return "", err
	}
	return slug, nil
}

// Add registers an account under an explicit ID.
func (r *Registry) Add(accountID, name string, c model.Classification) error {
	if accountID == "" {
		return InvalidAccountError{Name: name, Reason: "empty id"}
	}
	if !c.Valid() {
		return InvalidAccountError{Name: name, Reason: fmt.Sprintf("unknown classification %q", c)}
	}
	if _, ok := r.byID[accountID]; ok {
		return DuplicateAccountError{ID: accountID}
	}
	r.byID[accountID] = &model.Account{
		ID:             accountID,
		Name:           name,
		Classification: c,
		Balance:        decimal.Zero,
	}
	r.order = append(r.order, accountID)
	return nil
}

// Get returns a copy of the account with the given ID.
func (r *Registry) Get(accountID string) (model.Account, error) {
	a, ok := r.byID[accountID]
	if !ok {
		return model.Account{}, UnknownAccountError{ID: accountID}
	}
	return a.Clone(), nil
}

// Exists reports whether an account ID exists.
func (r *Registry) Exists(accountID string) bool {
	_, ok := r.byID[accountID]
	return ok
}

// Len returns the number of registered accounts.
func (r *Registry) Len() int {
	return len(r.order)
}

// All returns copies of all accounts in creation order.
func (r *Registry) All() []model.Account {
	result := make([]model.Account, 0, len(r.order))
	for _, accountID := range r.order {
		result = append(result, r.byID[accountID].Clone())
	}
	return result
}

// ByClassification returns copies of all accounts of the given classification.
func (r *Registry) ByClassification(c model.Classification) []model.Account {
	var result []model.Account
	for _, accountID := range r.order {
		if a := r.byID[accountID]; a.Classification == c {
			result = append(result, a.Clone())
		}
	}
	return result
}

// Record appends entry to an account's log and moves its balance by the
// normal-balance effect of the entry's side.
func (r *Registry) Record(accountID string, entry model.Entry) error {
	a, ok := r.byID[accountID]
	if !ok {
		return UnknownAccountError{ID: accountID}
	}
	a.Entries = append(a.Entries, entry)
	a.Balance = a.Balance.Add(model.SignedAmount(a.Classification, entry.Side, entry.Amount))
	return nil
}

// Clone returns an independent deep copy of the registry.
func (r *Registry) Clone() *Registry {
	c := &Registry{
		order: append([]string(nil), r.order...),
		byID:  make(map[string]*model.Account, len(r.byID)),
	}
	for k, a := range r.byID {
		cp := a.Clone()
		c.byID[k] = &cp
	}
	return c
}
