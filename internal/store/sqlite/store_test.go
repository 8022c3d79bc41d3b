package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/commerce-ledger/internal/inventory"
	"github.com/example/commerce-ledger/internal/ledger"
	"github.com/example/commerce-ledger/internal/posting"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUpsertAccountIsIdempotent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first := &ledger.Account{
		ID: uuid.NewString(), TenantID: "tenant-a", Code: "1001",
		Name: "Cash", Type: ledger.TypeAsset, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.UpsertAccount(ctx, first))

	dup := &ledger.Account{
		ID: uuid.NewString(), TenantID: "tenant-a", Code: "1001",
		Name: "Cash again", Type: ledger.TypeAsset, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.UpsertAccount(ctx, dup), "conflicting upsert is a no-op")

	got, err := store.AccountByCode(ctx, "tenant-a", "1001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID, "the first insert wins")
	assert.Equal(t, "Cash", got.Name)

	missing, err := store.AccountByCode(ctx, "tenant-a", "4040")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestNextSequenceIsMonotonicPerTenant(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := store.NextSequence(ctx, "tenant-a", "sale")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := store.NextSequence(ctx, "tenant-b", "sale")
	require.NoError(t, err)
	assert.EqualValues(t, 1, got, "tenants count independently")

	got, err = store.NextSequence(ctx, "tenant-a", "purchase")
	require.NoError(t, err)
	assert.EqualValues(t, 1, got, "names count independently")
}

func TestAdjustStock(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	qty, err := store.AdjustStock(ctx, "tenant-a", "wh-1", "sku-1", 10)
	require.NoError(t, err)
	assert.EqualValues(t, 10, qty, "first adjustment creates the row")

	qty, err = store.AdjustStock(ctx, "tenant-a", "wh-1", "sku-1", -12)
	require.NoError(t, err)
	assert.EqualValues(t, -2, qty, "quantity may go negative")

	require.NoError(t, store.SetStockQuantity(ctx, "tenant-a", "wh-1", "sku-1", 5))
	qty, err = store.StockQuantity(ctx, "tenant-a", "wh-1", "sku-1")
	require.NoError(t, err)
	assert.EqualValues(t, 5, qty)

	levels, err := store.StockByWarehouse(ctx, "tenant-a", "wh-1")
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, "sku-1", levels[0].ProductID)
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.RunInTx(ctx, func(tx posting.Tx) error {
		if _, err := tx.AdjustStock(ctx, "tenant-a", "wh-1", "sku-1", 7); err != nil {
			return err
		}
		if _, err := tx.NextSequence(ctx, "tenant-a", "sale"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	qty, err := store.StockQuantity(ctx, "tenant-a", "wh-1", "sku-1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, qty, "stock write rolled back")

	seq, err := store.NextSequence(ctx, "tenant-a", "sale")
	require.NoError(t, err)
	assert.EqualValues(t, 1, seq, "sequence increment rolled back")
}

func TestJournalEntryRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	account := &ledger.Account{
		ID: uuid.NewString(), TenantID: "tenant-a", Code: "1001",
		Name: "Cash", Type: ledger.TypeAsset, CreatedAt: time.Now().UTC(),
	}
	contra := &ledger.Account{
		ID: uuid.NewString(), TenantID: "tenant-a", Code: "4001",
		Name: "Sales Revenue", Type: ledger.TypeRevenue, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.UpsertAccount(ctx, account))
	require.NoError(t, store.UpsertAccount(ctx, contra))

	entry := &ledger.JournalEntry{
		ID: uuid.NewString(), TenantID: "tenant-a",
		Description: "cash sale", Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	entry.Lines = []ledger.Line{
		{ID: uuid.NewString(), JournalEntryID: entry.ID, AccountID: account.ID, AccountCode: "1001", Type: ledger.Debit, Amount: 40},
		{ID: uuid.NewString(), JournalEntryID: entry.ID, AccountID: contra.ID, AccountCode: "4001", Type: ledger.Credit, Amount: 40},
	}
	require.NoError(t, store.RunInTx(ctx, func(tx posting.Tx) error {
		return tx.InsertJournalEntry(ctx, entry)
	}))

	totals, err := store.AccountTotals(ctx, "tenant-a")
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "1001", totals[0].Account.Code, "ordered by code")
	assert.InDelta(t, 40, totals[0].DebitTotal, 0.001)
	assert.InDelta(t, 40, totals[1].CreditTotal, 0.001)

	lines, err := store.LinesByAccount(ctx, "tenant-a", account.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "1001", lines[0].AccountCode)
	assert.Equal(t, entry.ID, lines[0].EntryID)
	assert.Equal(t, "cash sale", lines[0].Description)
}

func TestCountPersistence(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	count := &inventory.Count{
		ID: uuid.NewString(), TenantID: "tenant-a", WarehouseID: "wh-1",
		Status: inventory.CountDraft, CreatedAt: time.Now().UTC(),
	}
	count.Lines = []inventory.CountLine{
		{CountID: count.ID, ProductID: "sku-1", SystemQty: 10, CountedQty: 10},
		{CountID: count.ID, ProductID: "sku-2", SystemQty: 4, CountedQty: 4},
	}
	require.NoError(t, store.RunInTx(ctx, func(tx posting.Tx) error {
		return tx.InsertCount(ctx, count)
	}))

	require.NoError(t, store.SetCountedQty(ctx, "tenant-a", count.ID, "sku-1", 8))

	got, err := store.CountByID(ctx, "tenant-a", count.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Lines, 2)
	assert.EqualValues(t, 8, got.Lines[0].CountedQty)
	assert.EqualValues(t, -2, got.Lines[0].Difference)

	err = store.SetCountedQty(ctx, "tenant-b", count.ID, "sku-1", 1)
	assert.Error(t, err, "foreign tenant cannot touch the count")

	require.NoError(t, store.SetCountStatus(ctx, "tenant-a", count.ID, inventory.CountDraft, inventory.CountCompleted))
	err = store.SetCountStatus(ctx, "tenant-a", count.ID, inventory.CountDraft, inventory.CountCancelled)
	assert.Error(t, err, "status guard rejects a stale transition")

	missing, err := store.CountByID(ctx, "tenant-a", "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
