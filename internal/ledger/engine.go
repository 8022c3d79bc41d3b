package ledger

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Engine validates and persists balanced journal entries. It is the only
// writer of ledger data and always runs inside the caller's unit of work.
type Engine struct {
	chart *Chart
}

// NewEngine returns an engine resolving account codes through chart.
func NewEngine(chart *Chart) *Engine {
	return &Engine{chart: chart}
}

// LineInput is one requested debit or credit, addressed by account code.
type LineInput struct {
	AccountCode string    `json:"account_code"`
	Type        EntryType `json:"type"`
	Amount      float64   `json:"amount"`
}

// PostInput is a request to record one balanced journal entry.
type PostInput struct {
	TenantID    string      `json:"tenant_id"`
	Description string      `json:"description"`
	Reference   string      `json:"reference,omitempty"`
	Date        time.Time   `json:"date,omitempty"`
	Lines       []LineInput `json:"lines"`
}

// Post validates the input and persists one journal entry with all of its
// lines through tx. Validation failures happen before any write; the entry
// either lands whole or not at all, together with whatever else the caller
// staged in the same transaction.
func (e *Engine) Post(ctx context.Context, tx Tx, in PostInput) (*JournalEntry, error) {
	if in.TenantID == "" {
		return nil, fmt.Errorf("tenant id is required")
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("journal entry requires at least one line")
	}

	var totalDebit, totalCredit float64
	codes := make([]string, 0, len(in.Lines))
	for i, line := range in.Lines {
		if line.AccountCode == "" {
			return nil, &InvalidLineError{Index: i, Reason: "account code is required"}
		}
		if line.Amount <= 0 {
			return nil, &InvalidLineError{Index: i, Reason: fmt.Sprintf("amount must be positive, got %.2f", line.Amount)}
		}
		switch line.Type {
		case Debit:
			totalDebit += line.Amount
		case Credit:
			totalCredit += line.Amount
		default:
			return nil, &InvalidLineError{Index: i, Reason: fmt.Sprintf("entry type must be debit or credit, got %q", line.Type)}
		}
		codes = append(codes, line.AccountCode)
	}

	if math.Abs(totalDebit-totalCredit) > BalanceEpsilon {
		return nil, &ImbalancedEntryError{TotalDebit: totalDebit, TotalCredit: totalCredit}
	}

	accounts, err := e.chart.LookupMany(ctx, tx, in.TenantID, codes)
	if err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	entry := &JournalEntry{
		ID:          uuid.NewString(),
		TenantID:    in.TenantID,
		Description: in.Description,
		Reference:   in.Reference,
		Date:        date,
		Lines:       make([]Line, len(in.Lines)),
	}
	for i, line := range in.Lines {
		account := accounts[line.AccountCode]
		entry.Lines[i] = Line{
			ID:             uuid.NewString(),
			JournalEntryID: entry.ID,
			AccountID:      account.ID,
			AccountCode:    account.Code,
			Type:           line.Type,
			Amount:         line.Amount,
		}
	}

	if err := tx.InsertJournalEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("persist journal entry: %w", err)
	}
	return entry, nil
}
