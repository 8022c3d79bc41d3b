package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTx is an in-memory Tx for exercising the chart and engine without a
// database. Accounts are keyed by (tenant, code) like the unique constraint.
type fakeTx struct {
	accounts map[string]*Account
	entries  []*JournalEntry

	failInsert error
}

func newFakeTx() *fakeTx {
	return &fakeTx{accounts: make(map[string]*Account)}
}

func (f *fakeTx) key(tenantID, code string) string { return tenantID + "/" + code }

func (f *fakeTx) UpsertAccount(_ context.Context, a *Account) error {
	k := f.key(a.TenantID, a.Code)
	if _, exists := f.accounts[k]; exists {
		return nil
	}
	cp := *a
	f.accounts[k] = &cp
	return nil
}

func (f *fakeTx) AccountByCode(_ context.Context, tenantID, code string) (*Account, error) {
	a, ok := f.accounts[f.key(tenantID, code)]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeTx) AccountsByCodes(_ context.Context, tenantID string, codes []string) ([]Account, error) {
	var out []Account
	for _, code := range codes {
		if a, ok := f.accounts[f.key(tenantID, code)]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeTx) InsertJournalEntry(_ context.Context, e *JournalEntry) error {
	if f.failInsert != nil {
		return f.failInsert
	}
	f.entries = append(f.entries, e)
	return nil
}

func seededTx(t *testing.T, chart *Chart, tenantID string) *fakeTx {
	t.Helper()
	tx := newFakeTx()
	require.NoError(t, chart.Seed(context.Background(), tx, tenantID))
	return tx
}

func TestPostBalancedEntry(t *testing.T) {
	chart := NewChart()
	engine := NewEngine(chart)
	tx := seededTx(t, chart, "tenant-a")

	entry, err := engine.Post(context.Background(), tx, PostInput{
		TenantID:    "tenant-a",
		Description: "Sale #1",
		Lines: []LineInput{
			{AccountCode: "1200", Type: Debit, Amount: 100},
			{AccountCode: "4001", Type: Credit, Amount: 100},
		},
	})
	require.NoError(t, err)
	require.Len(t, tx.entries, 1)

	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.Date.IsZero(), "zero date defaults to now")
	for _, line := range entry.Lines {
		assert.Equal(t, entry.ID, line.JournalEntryID)
		assert.NotEmpty(t, line.AccountID, "lines resolve to account ids")
	}
}

func TestPostPreservesExplicitDate(t *testing.T) {
	chart := NewChart()
	engine := NewEngine(chart)
	tx := seededTx(t, chart, "tenant-a")

	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	entry, err := engine.Post(context.Background(), tx, PostInput{
		TenantID:    "tenant-a",
		Description: "backdated",
		Date:        date,
		Lines: []LineInput{
			{AccountCode: "1001", Type: Debit, Amount: 10},
			{AccountCode: "3001", Type: Credit, Amount: 10},
		},
	})
	require.NoError(t, err)
	assert.True(t, entry.Date.Equal(date))
}

func TestPostRejectsImbalance(t *testing.T) {
	chart := NewChart()
	engine := NewEngine(chart)
	tx := seededTx(t, chart, "tenant-a")

	_, err := engine.Post(context.Background(), tx, PostInput{
		TenantID:    "tenant-a",
		Description: "off by ten",
		Lines: []LineInput{
			{AccountCode: "1200", Type: Debit, Amount: 100},
			{AccountCode: "4001", Type: Credit, Amount: 90},
		},
	})

	var imbalanced *ImbalancedEntryError
	require.ErrorAs(t, err, &imbalanced)
	assert.InDelta(t, 100, imbalanced.TotalDebit, 0.001)
	assert.InDelta(t, 90, imbalanced.TotalCredit, 0.001)
	assert.Empty(t, tx.entries, "nothing persists on validation failure")
}

func TestPostToleratesRoundingDrift(t *testing.T) {
	chart := NewChart()
	engine := NewEngine(chart)
	tx := seededTx(t, chart, "tenant-a")

	_, err := engine.Post(context.Background(), tx, PostInput{
		TenantID:    "tenant-a",
		Description: "three way split",
		Lines: []LineInput{
			{AccountCode: "1001", Type: Debit, Amount: 33.33},
			{AccountCode: "1001", Type: Debit, Amount: 33.33},
			{AccountCode: "1001", Type: Debit, Amount: 33.34},
			{AccountCode: "4001", Type: Credit, Amount: 100.00},
		},
	})
	assert.NoError(t, err, "drift within the epsilon is accepted")
}

func TestPostRejectsBadLines(t *testing.T) {
	chart := NewChart()
	engine := NewEngine(chart)
	tx := seededTx(t, chart, "tenant-a")

	cases := []struct {
		name string
		line LineInput
	}{
		{"zero amount", LineInput{AccountCode: "1001", Type: Debit, Amount: 0}},
		{"negative amount", LineInput{AccountCode: "1001", Type: Debit, Amount: -5}},
		{"missing code", LineInput{Type: Debit, Amount: 5}},
		{"bad type", LineInput{AccountCode: "1001", Type: "transfer", Amount: 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.Post(context.Background(), tx, PostInput{
				TenantID:    "tenant-a",
				Description: tc.name,
				Lines:       []LineInput{tc.line},
			})
			var invalid *InvalidLineError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestPostUnknownAccount(t *testing.T) {
	chart := NewChart()
	engine := NewEngine(chart)
	tx := seededTx(t, chart, "tenant-a")

	_, err := engine.Post(context.Background(), tx, PostInput{
		TenantID:    "tenant-a",
		Description: "phantom account",
		Lines: []LineInput{
			{AccountCode: "9999", Type: Debit, Amount: 50},
			{AccountCode: "4001", Type: Credit, Amount: 50},
		},
	})

	var unknown *UnknownAccountError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "9999", unknown.Code)
}

func TestPostIsTenantScoped(t *testing.T) {
	chart := NewChart()
	engine := NewEngine(chart)
	tx := seededTx(t, chart, "tenant-a")

	_, err := engine.Post(context.Background(), tx, PostInput{
		TenantID:    "tenant-b",
		Description: "wrong tenant",
		Lines: []LineInput{
			{AccountCode: "1001", Type: Debit, Amount: 10},
			{AccountCode: "4001", Type: Credit, Amount: 10},
		},
	})

	var unknown *UnknownAccountError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "tenant-b", unknown.TenantID)
}
