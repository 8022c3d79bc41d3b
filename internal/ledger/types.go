package ledger

import (
	"context"
	"time"
)

// AccountType classifies an account for sign conventions and reporting.
type AccountType string

const (
	TypeAsset     AccountType = "asset"
	TypeLiability AccountType = "liability"
	TypeEquity    AccountType = "equity"
	TypeRevenue   AccountType = "revenue"
	TypeExpense   AccountType = "expense"
)

// ValidAccountType reports whether t is one of the five account types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case TypeAsset, TypeLiability, TypeEquity, TypeRevenue, TypeExpense:
		return true
	}
	return false
}

// EntryType is the side of a ledger line.
type EntryType string

const (
	Debit  EntryType = "debit"
	Credit EntryType = "credit"
)

// BalanceEpsilon is the tolerance for debit/credit equality checks.
// Amounts are currency values with two meaningful decimal places.
const BalanceEpsilon = 0.01

// Account is one row in a tenant's chart of accounts.
// (tenant_id, code) is unique; the type is immutable once lines reference it.
type Account struct {
	ID        string      `json:"id"`
	TenantID  string      `json:"tenant_id"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	CreatedAt time.Time   `json:"created_at"`
}

// AccountSpec describes an account to create when lazy resolution misses.
type AccountSpec struct {
	Code string
	Name string
	Type AccountType
}

// JournalEntry is an atomic, balanced set of ledger lines recording one
// business event. Entries are append-only: there is no update or delete.
type JournalEntry struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Description string    `json:"description"`
	Reference   string    `json:"reference,omitempty"`
	Date        time.Time `json:"date"`
	Lines       []Line    `json:"lines"`
}

// Line is one debit or credit amount posted against one account.
type Line struct {
	ID             string    `json:"id"`
	JournalEntryID string    `json:"journal_entry_id"`
	AccountID      string    `json:"account_id"`
	AccountCode    string    `json:"account_code"`
	Type           EntryType `json:"type"`
	Amount         float64   `json:"amount"`
}

// PostedLine is a committed line joined with its entry's ordering fields,
// as read back for statements and projections.
type PostedLine struct {
	Line
	EntryID     string    `json:"entry_id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

// AccountTotals is the per-account debit/credit aggregate used by reports.
type AccountTotals struct {
	Account     Account `json:"account"`
	DebitTotal  float64 `json:"debit_total"`
	CreditTotal float64 `json:"credit_total"`
}

// Tx is the unit-of-work capability the chart and engine operate through.
// Callers own the transaction boundary; nothing here commits or rolls back.
type Tx interface {
	// UpsertAccount inserts the account if (tenant_id, code) is absent and
	// is a no-op otherwise. The unique constraint, not a prior read, decides.
	UpsertAccount(ctx context.Context, a *Account) error

	// AccountByCode fetches one account, or nil when absent.
	AccountByCode(ctx context.Context, tenantID, code string) (*Account, error)

	// AccountsByCodes fetches every account matching the given codes.
	// Missing codes are simply absent from the result.
	AccountsByCodes(ctx context.Context, tenantID string, codes []string) ([]Account, error)

	// InsertJournalEntry persists the entry and all of its lines.
	InsertJournalEntry(ctx context.Context, e *JournalEntry) error
}
