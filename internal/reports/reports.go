package reports

import (
	"context"
	"fmt"
	"math"

	"github.com/example/commerce-ledger/internal/ledger"
)

// Reader is the read-only view of committed ledger state the reports are
// derived from. Reports never participate in write transactions.
type Reader interface {
	AccountTotals(ctx context.Context, tenantID string) ([]ledger.AccountTotals, error)
	AccountByCode(ctx context.Context, tenantID, code string) (*ledger.Account, error)
	LinesByAccount(ctx context.Context, tenantID, accountID string) ([]ledger.PostedLine, error)
}

// Service derives financial reports by aggregating ledger lines per account
// and account type. Everything is recomputed from committed lines on each
// call; there is no cached state to go stale.
type Service struct {
	reader Reader
}

// NewService returns a report service over the given reader.
func NewService(reader Reader) *Service {
	return &Service{reader: reader}
}

// TrialBalanceRow summarizes one account's activity.
type TrialBalanceRow struct {
	Account     ledger.Account `json:"account"`
	DebitTotal  float64        `json:"debit_total"`
	CreditTotal float64        `json:"credit_total"`
	Balance     float64        `json:"balance"`
}

// TrialBalance is the per-account debit/credit summary for a tenant.
// TotalDebit always equals TotalCredit when every stored entry balanced.
type TrialBalance struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  float64           `json:"total_debit"`
	TotalCredit float64           `json:"total_credit"`
}

// TrialBalance sums all debit lines and all credit lines per account
// independently and reports balance = debits - credits.
func (s *Service) TrialBalance(ctx context.Context, tenantID string) (*TrialBalance, error) {
	totals, err := s.reader.AccountTotals(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("trial balance: %w", err)
	}

	tb := &TrialBalance{Rows: make([]TrialBalanceRow, len(totals))}
	for i, t := range totals {
		tb.Rows[i] = TrialBalanceRow{
			Account:     t.Account,
			DebitTotal:  t.DebitTotal,
			CreditTotal: t.CreditTotal,
			Balance:     t.DebitTotal - t.CreditTotal,
		}
		tb.TotalDebit += t.DebitTotal
		tb.TotalCredit += t.CreditTotal
	}
	return tb, nil
}

// AccountAmount is an account with its net amount under the type's sign
// convention.
type AccountAmount struct {
	Account ledger.Account `json:"account"`
	Amount  float64        `json:"amount"`
}

// BalanceSheet partitions trial-balance rows into assets, liabilities and
// equity. IsBalanced re-verifies the accounting equation on read.
type BalanceSheet struct {
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      float64         `json:"total_assets"`
	TotalLiabilities float64         `json:"total_liabilities"`
	TotalEquity      float64         `json:"total_equity"`
	IsBalanced       bool            `json:"is_balanced"`
}

// BalanceSheet reports assets against liabilities plus equity. Revenue and
// expense activity folds into equity as retained earnings, so the equation
// holds after any sequence of balanced postings.
func (s *Service) BalanceSheet(ctx context.Context, tenantID string) (*BalanceSheet, error) {
	totals, err := s.reader.AccountTotals(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("balance sheet: %w", err)
	}

	bs := &BalanceSheet{}
	var netIncome float64
	for _, t := range totals {
		switch t.Account.Type {
		case ledger.TypeAsset:
			amount := t.DebitTotal - t.CreditTotal
			bs.Assets = append(bs.Assets, AccountAmount{Account: t.Account, Amount: amount})
			bs.TotalAssets += amount
		case ledger.TypeLiability:
			amount := t.CreditTotal - t.DebitTotal
			bs.Liabilities = append(bs.Liabilities, AccountAmount{Account: t.Account, Amount: amount})
			bs.TotalLiabilities += amount
		case ledger.TypeEquity:
			amount := t.CreditTotal - t.DebitTotal
			bs.Equity = append(bs.Equity, AccountAmount{Account: t.Account, Amount: amount})
			bs.TotalEquity += amount
		case ledger.TypeRevenue:
			netIncome += t.CreditTotal - t.DebitTotal
		case ledger.TypeExpense:
			netIncome -= t.DebitTotal - t.CreditTotal
		}
	}
	bs.TotalEquity += netIncome

	bs.IsBalanced = math.Abs(bs.TotalAssets-(bs.TotalLiabilities+bs.TotalEquity)) < ledger.BalanceEpsilon
	return bs, nil
}

// ProfitAndLoss is the income statement for a tenant.
type ProfitAndLoss struct {
	Revenue       []AccountAmount `json:"revenue"`
	Expenses      []AccountAmount `json:"expenses"`
	TotalRevenue  float64         `json:"total_revenue"`
	TotalExpenses float64         `json:"total_expenses"`
	NetIncome     float64         `json:"net_income"`
}

// ProfitAndLoss nets revenue accounts as credit - debit and expense
// accounts as debit - credit; net income is their difference.
func (s *Service) ProfitAndLoss(ctx context.Context, tenantID string) (*ProfitAndLoss, error) {
	totals, err := s.reader.AccountTotals(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("profit and loss: %w", err)
	}

	pl := &ProfitAndLoss{}
	for _, t := range totals {
		switch t.Account.Type {
		case ledger.TypeRevenue:
			amount := t.CreditTotal - t.DebitTotal
			pl.Revenue = append(pl.Revenue, AccountAmount{Account: t.Account, Amount: amount})
			pl.TotalRevenue += amount
		case ledger.TypeExpense:
			amount := t.DebitTotal - t.CreditTotal
			pl.Expenses = append(pl.Expenses, AccountAmount{Account: t.Account, Amount: amount})
			pl.TotalExpenses += amount
		}
	}
	pl.NetIncome = pl.TotalRevenue - pl.TotalExpenses
	return pl, nil
}

// Statement is a chronological account view with running balances.
type Statement struct {
	Account ledger.Account       `json:"account"`
	Steps   []ledger.BalanceStep `json:"steps"`
}

// AccountStatement replays an account's committed lines through the
// projector and returns the running balance after each one.
func (s *Service) AccountStatement(ctx context.Context, tenantID, accountCode string) (*Statement, error) {
	account, err := s.reader.AccountByCode(ctx, tenantID, accountCode)
	if err != nil {
		return nil, fmt.Errorf("account statement: %w", err)
	}
	if account == nil {
		return nil, &ledger.UnknownAccountError{TenantID: tenantID, Code: accountCode}
	}

	lines, err := s.reader.LinesByAccount(ctx, tenantID, account.ID)
	if err != nil {
		return nil, fmt.Errorf("account statement: %w", err)
	}

	return &Statement{
		Account: *account,
		Steps:   ledger.RunningBalance(account.Type, lines),
	}, nil
}
