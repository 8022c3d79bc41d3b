package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/commerce-ledger/internal/ledger"
)

type fakeReader struct {
	totals   []ledger.AccountTotals
	accounts map[string]*ledger.Account
	lines    map[string][]ledger.PostedLine
}

func (f *fakeReader) AccountTotals(context.Context, string) ([]ledger.AccountTotals, error) {
	return f.totals, nil
}

func (f *fakeReader) AccountByCode(_ context.Context, _, code string) (*ledger.Account, error) {
	return f.accounts[code], nil
}

func (f *fakeReader) LinesByAccount(_ context.Context, _, accountID string) ([]ledger.PostedLine, error) {
	return f.lines[accountID], nil
}

func totals(code string, typ ledger.AccountType, debit, credit float64) ledger.AccountTotals {
	return ledger.AccountTotals{
		Account:     ledger.Account{ID: "acct-" + code, Code: code, Type: typ},
		DebitTotal:  debit,
		CreditTotal: credit,
	}
}

// Books after: a 100 sale costing 60 on credit, and 10 rent paid in cash
// from 50 owner capital.
func tradingBooks() *fakeReader {
	return &fakeReader{
		totals: []ledger.AccountTotals{
			totals("1001", ledger.TypeAsset, 50, 10),
			totals("1200", ledger.TypeAsset, 100, 0),
			totals("1300", ledger.TypeAsset, 60, 60),
			totals("2001", ledger.TypeLiability, 0, 60),
			totals("3001", ledger.TypeEquity, 0, 50),
			totals("4001", ledger.TypeRevenue, 0, 100),
			totals("5001", ledger.TypeExpense, 60, 0),
			totals("5100", ledger.TypeExpense, 10, 0),
		},
	}
}

func TestTrialBalance(t *testing.T) {
	svc := NewService(tradingBooks())

	tb, err := svc.TrialBalance(context.Background(), "tenant-a")
	require.NoError(t, err)
	require.Len(t, tb.Rows, 8)
	assert.InDelta(t, tb.TotalDebit, tb.TotalCredit, ledger.BalanceEpsilon)
	assert.InDelta(t, 40, tb.Rows[0].Balance, 0.001, "cash balance is debits minus credits")
}

func TestBalanceSheetFoldsNetIncomeIntoEquity(t *testing.T) {
	svc := NewService(tradingBooks())

	bs, err := svc.BalanceSheet(context.Background(), "tenant-a")
	require.NoError(t, err)

	assert.InDelta(t, 140, bs.TotalAssets, 0.001)
	assert.InDelta(t, 60, bs.TotalLiabilities, 0.001)
	// 50 contributed capital plus 30 net income.
	assert.InDelta(t, 80, bs.TotalEquity, 0.001)
	assert.True(t, bs.IsBalanced)
}

func TestProfitAndLoss(t *testing.T) {
	svc := NewService(tradingBooks())

	pl, err := svc.ProfitAndLoss(context.Background(), "tenant-a")
	require.NoError(t, err)
	assert.InDelta(t, 100, pl.TotalRevenue, 0.001)
	assert.InDelta(t, 70, pl.TotalExpenses, 0.001)
	assert.InDelta(t, 30, pl.NetIncome, 0.001)
	assert.Len(t, pl.Revenue, 1)
	assert.Len(t, pl.Expenses, 2)
}

func TestAccountStatement(t *testing.T) {
	base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	reader := &fakeReader{
		accounts: map[string]*ledger.Account{
			"1001": {ID: "acct-1001", Code: "1001", Type: ledger.TypeAsset},
		},
		lines: map[string][]ledger.PostedLine{
			"acct-1001": {
				{Line: ledger.Line{Type: ledger.Debit, Amount: 50}, EntryID: "e1", Date: base},
				{Line: ledger.Line{Type: ledger.Credit, Amount: 20}, EntryID: "e2", Date: base.Add(time.Hour)},
			},
		},
	}
	svc := NewService(reader)

	stmt, err := svc.AccountStatement(context.Background(), "tenant-a", "1001")
	require.NoError(t, err)
	require.Len(t, stmt.Steps, 2)
	assert.InDelta(t, 50, stmt.Steps[0].BalanceAfter, 0.001)
	assert.InDelta(t, 30, stmt.Steps[1].BalanceAfter, 0.001)

	_, err = svc.AccountStatement(context.Background(), "tenant-a", "9999")
	var unknown *ledger.UnknownAccountError
	require.ErrorAs(t, err, &unknown)
}
