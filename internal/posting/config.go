package posting

import "github.com/example/commerce-ledger/internal/ledger"

// AccountConfig maps business events to account codes. It is plain data so
// tenants can eventually customize their chart without code changes; the
// defaults line up with ledger.DefaultAccounts.
type AccountConfig struct {
	Receivable string
	Revenue    string
	COGS       string
	Inventory  string
	Payable    string
	Cash       string

	// ExpenseCategories maps a free-form expense category to its account
	// code; DefaultExpense catches everything unmapped.
	ExpenseCategories map[string]string
	DefaultExpense    string

	// Treasury and its contra accounts are lazily created on first use.
	Treasury         ledger.AccountSpec
	DepositContra    ledger.AccountSpec
	WithdrawalContra ledger.AccountSpec

	// Shrinkage, when its code is set, enables a GL posting for inventory
	// count discrepancies. Left zero, finalizing a count touches stock only.
	Shrinkage ledger.AccountSpec
}

// DefaultAccountConfig returns the stock event-to-account mapping.
func DefaultAccountConfig() AccountConfig {
	return AccountConfig{
		Receivable: "1200",
		Revenue:    "4001",
		COGS:       "5001",
		Inventory:  "1300",
		Payable:    "2001",
		Cash:       "1001",
		ExpenseCategories: map[string]string{
			"Rent":      "5100",
			"Utilities": "5200",
		},
		DefaultExpense:   "5999",
		Treasury:         ledger.AccountSpec{Code: "1101", Name: "Treasury", Type: ledger.TypeAsset},
		DepositContra:    ledger.AccountSpec{Code: "3101", Name: "Capital Deposits", Type: ledger.TypeEquity},
		WithdrawalContra: ledger.AccountSpec{Code: "5101", Name: "Owner Withdrawals", Type: ledger.TypeExpense},
	}
}

// ExpenseAccount returns the account code for an expense category.
func (c AccountConfig) ExpenseAccount(category string) string {
	if code, ok := c.ExpenseCategories[category]; ok {
		return code
	}
	return c.DefaultExpense
}
