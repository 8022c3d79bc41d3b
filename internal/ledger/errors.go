package ledger

import "fmt"

// ImbalancedEntryError rejects an entry whose debit and credit totals
// differ by more than BalanceEpsilon. Nothing is written.
type ImbalancedEntryError struct {
	TotalDebit  float64
	TotalCredit float64
}

func (e *ImbalancedEntryError) Error() string {
	return fmt.Sprintf("journal entry is not balanced: debits %.2f, credits %.2f", e.TotalDebit, e.TotalCredit)
}

// UnknownAccountError rejects a posting that references an account code
// with no row for the tenant.
type UnknownAccountError struct {
	TenantID string
	Code     string
}

func (e *UnknownAccountError) Error() string {
	return fmt.Sprintf("unknown account %q for tenant %s", e.Code, e.TenantID)
}

// InvalidLineError rejects a posting whose line fails local validation
// before any account resolution happens.
type InvalidLineError struct {
	Index  int
	Reason string
}

func (e *InvalidLineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Index, e.Reason)
}
