package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Chart manages a tenant's chart of accounts: seeding the default catalog
// and resolving well-known accounts on first use.
//
// All creation goes through Tx.UpsertAccount, so concurrent first-use of the
// same (tenant, code) is settled by the unique constraint rather than by a
// find-then-insert race.
type Chart struct {
	defaults []AccountSpec
}

// NewChart returns a chart backed by the stock default catalog.
func NewChart() *Chart {
	return &Chart{defaults: DefaultAccounts()}
}

// NewChartWithDefaults returns a chart seeding the given catalog instead,
// for tenants with a customized chart.
func NewChartWithDefaults(defaults []AccountSpec) *Chart {
	return &Chart{defaults: defaults}
}

// DefaultAccounts is the catalog Seed installs for a new tenant.
func DefaultAccounts() []AccountSpec {
	return []AccountSpec{
		{Code: "1001", Name: "Cash", Type: TypeAsset},
		{Code: "1200", Name: "Accounts Receivable", Type: TypeAsset},
		{Code: "1300", Name: "Inventory", Type: TypeAsset},
		{Code: "2001", Name: "Accounts Payable", Type: TypeLiability},
		{Code: "3001", Name: "Owner's Equity", Type: TypeEquity},
		{Code: "4001", Name: "Sales Revenue", Type: TypeRevenue},
		{Code: "5001", Name: "Cost of Goods Sold", Type: TypeExpense},
		{Code: "5100", Name: "Rent Expense", Type: TypeExpense},
		{Code: "5200", Name: "Utilities Expense", Type: TypeExpense},
		{Code: "5999", Name: "General Expense", Type: TypeExpense},
	}
}

// Seed upserts the default catalog for a tenant. Re-seeding an existing
// tenant is a no-op for codes that already exist and only adds missing ones.
func (c *Chart) Seed(ctx context.Context, tx Tx, tenantID string) error {
	if tenantID == "" {
		return fmt.Errorf("tenant id is required")
	}

	now := time.Now().UTC()
	for _, spec := range c.defaults {
		a := &Account{
			ID:        uuid.NewString(),
			TenantID:  tenantID,
			Code:      spec.Code,
			Name:      spec.Name,
			Type:      spec.Type,
			CreatedAt: now,
		}
		if err := tx.UpsertAccount(ctx, a); err != nil {
			return fmt.Errorf("seed account %s: %w", spec.Code, err)
		}
	}
	return nil
}

// Resolve fetches the account with the given code, creating it from the
// fallback spec if absent. Under concurrent first-use at most one row ends
// up existing; the post-upsert fetch returns whichever insert won.
func (c *Chart) Resolve(ctx context.Context, tx Tx, tenantID string, fallback AccountSpec) (*Account, error) {
	if !ValidAccountType(fallback.Type) {
		return nil, fmt.Errorf("invalid account type %q", fallback.Type)
	}

	a, err := tx.AccountByCode(ctx, tenantID, fallback.Code)
	if err != nil {
		return nil, fmt.Errorf("resolve account %s: %w", fallback.Code, err)
	}
	if a != nil {
		return a, nil
	}

	candidate := &Account{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Code:      fallback.Code,
		Name:      fallback.Name,
		Type:      fallback.Type,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.UpsertAccount(ctx, candidate); err != nil {
		return nil, fmt.Errorf("create account %s: %w", fallback.Code, err)
	}

	a, err = tx.AccountByCode(ctx, tenantID, fallback.Code)
	if err != nil {
		return nil, fmt.Errorf("resolve account %s: %w", fallback.Code, err)
	}
	if a == nil {
		return nil, &UnknownAccountError{TenantID: tenantID, Code: fallback.Code}
	}
	return a, nil
}

// LookupMany resolves account codes to accounts in bulk. Any code without a
// row for the tenant fails the whole lookup with UnknownAccountError.
func (c *Chart) LookupMany(ctx context.Context, tx Tx, tenantID string, codes []string) (map[string]Account, error) {
	if len(codes) == 0 {
		return map[string]Account{}, nil
	}

	// De-duplicate so the store query stays minimal.
	uniq := make([]string, 0, len(codes))
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		if !seen[code] {
			seen[code] = true
			uniq = append(uniq, code)
		}
	}

	accounts, err := tx.AccountsByCodes(ctx, tenantID, uniq)
	if err != nil {
		return nil, fmt.Errorf("lookup accounts: %w", err)
	}

	byCode := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		byCode[a.Code] = a
	}
	for _, code := range uniq {
		if _, ok := byCode[code]; !ok {
			return nil, &UnknownAccountError{TenantID: tenantID, Code: code}
		}
	}
	return byCode, nil
}
